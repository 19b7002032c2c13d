// Package knowledge merges per-source brand fragments into one BrandKnowledge
// view, renders the formatted text blocks served over MCP, and caches the
// merged result in Redis with explicit invalidation on source mutation.
package knowledge

import (
	"github.com/espengetz/brandprotocol/internal/domain"
)

// Merge combines source fragments, in the order given, into one
// BrandKnowledge. The brand's own name and description seed the result.
// Merging is recomputed from scratch on every call; it never mutates the
// inputs and is idempotent for a fixed source ordering.
func Merge(brand *domain.Brand, sources []*domain.BrandSource) *domain.BrandKnowledge {
	merged := domain.NewBrandKnowledge()
	merged.BrandName = brand.Name
	merged.Description = brand.Description

	for _, source := range sources {
		if source == nil || source.Content == nil {
			continue
		}
		content := source.Content

		mergeColors(merged, content)
		mergeTypography(merged, content)
		mergeLogo(merged, content)
		mergeVoice(merged, content)
		mergeMessaging(merged, content)
		mergeImagery(merged, content)

		if content.Description != "" && merged.Description == "" {
			merged.Description = content.Description
		}
		// Only a still-default name is replaced, so the first source that
		// names the brand wins.
		if content.BrandName != "" && merged.BrandName == brand.Name {
			merged.BrandName = content.BrandName
		}
	}

	dedupeColors(merged)
	merged.Logo.Donts = dedupeStrings(merged.Logo.Donts)
	merged.Voice.Tone = dedupeStrings(merged.Voice.Tone)
	merged.Voice.Guidelines = dedupeStrings(merged.Voice.Guidelines)

	return merged
}

func mergeColors(merged, content *domain.BrandKnowledge) {
	for category, colors := range content.Colors {
		if !domain.IsValidColorCategory(category) {
			continue
		}
		for _, c := range colors {
			if c.Hex == "" {
				continue
			}
			merged.Colors[category] = append(merged.Colors[category], c)
		}
	}
}

// dedupeColors normalizes every hex to uppercase 6/8-digit form and keeps the
// first occurrence of each value per category. Entries whose hex does not
// normalize are dropped.
func dedupeColors(merged *domain.BrandKnowledge) {
	for category, colors := range merged.Colors {
		seen := make(map[string]bool, len(colors))
		deduped := make([]domain.Color, 0, len(colors))
		for _, c := range colors {
			hex := domain.NormalizeHex(c.Hex)
			if hex == "" || seen[hex] {
				continue
			}
			seen[hex] = true
			c.Hex = hex
			deduped = append(deduped, c)
		}
		merged.Colors[category] = deduped
	}
}

// Typography keys are replaced whole; there is no field-level merge.
func mergeTypography(merged, content *domain.BrandKnowledge) {
	if content.Typography.Primary != nil {
		merged.Typography.Primary = content.Typography.Primary
	}
	if content.Typography.Secondary != nil {
		merged.Typography.Secondary = content.Typography.Secondary
	}
	if len(content.Typography.Hierarchy) > 0 {
		merged.Typography.Hierarchy = content.Typography.Hierarchy
	}
}

func mergeLogo(merged, content *domain.BrandKnowledge) {
	if content.Logo.Description != "" {
		merged.Logo.Description = content.Logo.Description
	}
	if content.Logo.ClearSpace != "" {
		merged.Logo.ClearSpace = content.Logo.ClearSpace
	}
	if content.Logo.MinSize != "" {
		merged.Logo.MinSize = content.Logo.MinSize
	}
	if len(content.Logo.Variations) > 0 {
		merged.Logo.Variations = content.Logo.Variations
	}
	if content.Logo.Backgrounds != nil {
		merged.Logo.Backgrounds = content.Logo.Backgrounds
	}
	merged.Logo.Donts = append(merged.Logo.Donts, content.Logo.Donts...)
}

func mergeVoice(merged, content *domain.BrandKnowledge) {
	merged.Voice.Tone = append(merged.Voice.Tone, content.Voice.Tone...)
	merged.Voice.Guidelines = append(merged.Voice.Guidelines, content.Voice.Guidelines...)
	if content.Voice.Personality != "" {
		merged.Voice.Personality = content.Voice.Personality
	}
	if content.Voice.Vocabulary != nil {
		merged.Voice.Vocabulary = content.Voice.Vocabulary
	}
}

func mergeMessaging(merged, content *domain.BrandKnowledge) {
	merged.Messaging.Taglines = append(merged.Messaging.Taglines, content.Messaging.Taglines...)
	merged.Messaging.KeyMessages = append(merged.Messaging.KeyMessages, content.Messaging.KeyMessages...)
	merged.Messaging.ValuePropositions = append(merged.Messaging.ValuePropositions, content.Messaging.ValuePropositions...)
}

func mergeImagery(merged, content *domain.BrandKnowledge) {
	if content.Imagery.Photography != "" {
		merged.Imagery.Photography = content.Imagery.Photography
	}
	if content.Imagery.Illustration != "" {
		merged.Imagery.Illustration = content.Imagery.Illustration
	}
	if content.Imagery.Icons != "" {
		merged.Imagery.Icons = content.Imagery.Icons
	}
	merged.Imagery.Guidelines = append(merged.Imagery.Guidelines, content.Imagery.Guidelines...)
}

func dedupeStrings(values []string) []string {
	if len(values) == 0 {
		return values
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
