package domain

import "strings"

// Color categories recognized in brand palettes.
const (
	ColorCategoryPrimary   = "primary"
	ColorCategorySecondary = "secondary"
	ColorCategoryAccent    = "accent"
	ColorCategoryNeutral   = "neutral"
)

// ColorCategories returns the palette categories in display order.
func ColorCategories() []string {
	return []string{
		ColorCategoryPrimary, ColorCategorySecondary,
		ColorCategoryAccent, ColorCategoryNeutral,
	}
}

// IsValidColorCategory checks whether the given category is recognized.
func IsValidColorCategory(category string) bool {
	for _, c := range ColorCategories() {
		if c == category {
			return true
		}
	}
	return false
}

// Color is a single palette entry. Hex is stored without a leading "#",
// uppercased, expanded to 6 or 8 digits.
type Color struct {
	Name    string `json:"name"`
	Hex     string `json:"hex"`
	RGB     string `json:"rgb,omitempty"`
	CMYK    string `json:"cmyk,omitempty"`
	Pantone string `json:"pantone,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

// Font describes one typeface and its approved weights.
type Font struct {
	Name    string   `json:"name"`
	Weights []string `json:"weights,omitempty"`
	Usage   string   `json:"usage,omitempty"`
}

// Typography groups the brand's typefaces and size hierarchy.
type Typography struct {
	Primary   *Font             `json:"primary,omitempty"`
	Secondary *Font             `json:"secondary,omitempty"`
	Hierarchy map[string]string `json:"hierarchy,omitempty"`
}

// LogoBackgrounds lists approved and forbidden logo backgrounds.
type LogoBackgrounds struct {
	Approved  []string `json:"approved,omitempty"`
	Forbidden []string `json:"forbidden,omitempty"`
}

// Logo holds logo usage rules.
type Logo struct {
	Description string           `json:"description,omitempty"`
	ClearSpace  string           `json:"clear_space,omitempty"`
	MinSize     string           `json:"min_size,omitempty"`
	Variations  []string         `json:"variations,omitempty"`
	Backgrounds *LogoBackgrounds `json:"backgrounds,omitempty"`
	Donts       []string         `json:"donts,omitempty"`
}

// Vocabulary lists words the brand uses and avoids.
type Vocabulary struct {
	Use   []string `json:"use,omitempty"`
	Avoid []string `json:"avoid,omitempty"`
}

// Voice holds the brand's voice and tone rules.
type Voice struct {
	Personality string      `json:"personality,omitempty"`
	Tone        []string    `json:"tone,omitempty"`
	Guidelines  []string    `json:"guidelines,omitempty"`
	Vocabulary  *Vocabulary `json:"vocabulary,omitempty"`
}

// Messaging holds taglines and key messages.
type Messaging struct {
	Taglines          []string `json:"taglines,omitempty"`
	KeyMessages       []string `json:"key_messages,omitempty"`
	ValuePropositions []string `json:"value_propositions,omitempty"`
}

// Imagery holds photography and illustration direction.
type Imagery struct {
	Photography  string   `json:"photography,omitempty"`
	Illustration string   `json:"illustration,omitempty"`
	Icons        string   `json:"icons,omitempty"`
	Guidelines   []string `json:"guidelines,omitempty"`
}

// BrandKnowledge is the canonical merged brand record. Any field may be
// absent in a single-source fragment; the merged view always has all four
// color categories present.
type BrandKnowledge struct {
	BrandName   string             `json:"brand_name"`
	Description string             `json:"description"`
	Colors      map[string][]Color `json:"colors"`
	Typography  Typography         `json:"typography"`
	Logo        Logo               `json:"logo"`
	Voice       Voice              `json:"voice"`
	Messaging   Messaging          `json:"messaging"`
	Imagery     Imagery            `json:"imagery"`
}

// NewBrandKnowledge returns an empty record with all color categories
// initialized. Used both as the merge seed and as the best-effort fallback
// when extraction output cannot be parsed.
func NewBrandKnowledge() *BrandKnowledge {
	colors := make(map[string][]Color, len(ColorCategories()))
	for _, c := range ColorCategories() {
		colors[c] = []Color{}
	}
	return &BrandKnowledge{Colors: colors}
}

// NormalizeHex canonicalizes a hex color for storage and comparison: the
// leading "#" is stripped, 3- and 4-digit short forms are expanded to 6 and
// 8 digits, and the result is uppercased. Returns "" for values that are not
// hex colors.
func NormalizeHex(hex string) string {
	h := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if h == "" {
		return ""
	}
	for _, r := range h {
		switch {
		case r >= '0' && r <= '9':
		case r >= 'a' && r <= 'f':
		case r >= 'A' && r <= 'F':
		default:
			return ""
		}
	}
	switch len(h) {
	case 3, 4:
		var b strings.Builder
		for _, r := range h {
			b.WriteRune(r)
			b.WriteRune(r)
		}
		h = b.String()
	case 6, 8:
	default:
		return ""
	}
	return strings.ToUpper(h)
}
