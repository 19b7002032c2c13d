package knowledge

import (
	"fmt"
	"strings"

	"github.com/espengetz/brandprotocol/internal/domain"
)

// The formatters below render BrandKnowledge subsections as human-readable
// text blocks for language-model consumers. Sections with no data are
// omitted entirely rather than shown as empty headers.

// FormatGuidelines assembles the full guideline document from whichever
// sections are non-empty.
func FormatGuidelines(bk *domain.BrandKnowledge) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Brand Guidelines\n\n", bk.BrandName)

	if bk.Description != "" {
		fmt.Fprintf(&b, "## Overview\n%s\n\n", bk.Description)
	}

	if hasColors(bk) {
		b.WriteString("## Brand Colors\n")
		for _, category := range domain.ColorCategories() {
			colors := bk.Colors[category]
			if len(colors) == 0 {
				continue
			}
			fmt.Fprintf(&b, "\n### %s\n", titleCase(category))
			for _, c := range colors {
				usage := c.Usage
				if usage == "" {
					usage = "General use"
				}
				fmt.Fprintf(&b, "• %s: #%s - %s\n", c.Name, c.Hex, usage)
			}
		}
	}

	if bk.Typography.Primary != nil || bk.Typography.Secondary != nil {
		b.WriteString("\n## Typography\n")
		if bk.Typography.Primary != nil {
			fmt.Fprintf(&b, "• Primary: %s\n", bk.Typography.Primary.Name)
		}
		if bk.Typography.Secondary != nil {
			fmt.Fprintf(&b, "• Secondary: %s\n", bk.Typography.Secondary.Name)
		}
	}

	if bk.Logo.Description != "" || len(bk.Logo.Donts) > 0 {
		b.WriteString("\n## Logo Usage\n")
		if bk.Logo.Description != "" {
			fmt.Fprintf(&b, "%s\n", bk.Logo.Description)
		}
		if bk.Logo.ClearSpace != "" {
			fmt.Fprintf(&b, "• Clear space: %s\n", bk.Logo.ClearSpace)
		}
		if len(bk.Logo.Donts) > 0 {
			b.WriteString("Don'ts:\n")
			for _, d := range bk.Logo.Donts {
				fmt.Fprintf(&b, "❌ %s\n", d)
			}
		}
	}

	if len(bk.Voice.Tone) > 0 || bk.Voice.Personality != "" {
		b.WriteString("\n## Voice & Tone\n")
		if len(bk.Voice.Tone) > 0 {
			fmt.Fprintf(&b, "Tone: %s\n", strings.Join(bk.Voice.Tone, ", "))
		}
		if bk.Voice.Personality != "" {
			fmt.Fprintf(&b, "Personality: %s\n", bk.Voice.Personality)
		}
	}

	return b.String()
}

// FormatColors lists one category's colors, or reports that none are defined.
func FormatColors(bk *domain.BrandKnowledge, category string) string {
	colors := bk.Colors[category]
	if len(colors) == 0 {
		return fmt.Sprintf("No %s colors defined.", category)
	}

	entries := make([]string, len(colors))
	for i, c := range colors {
		entries[i] = fmt.Sprintf("• %s: #%s\n  %s", c.Name, c.Hex, c.Usage)
	}
	return fmt.Sprintf("%s %s colors:\n\n%s", bk.BrandName, category, strings.Join(entries, "\n\n"))
}

// CheckColorCompliance reports whether a hex value is in the brand palette.
// The value is normalized before comparison, so leading "#" and case do not
// matter.
func CheckColorCompliance(bk *domain.BrandKnowledge, value string) string {
	normalized := domain.NormalizeHex(value)

	var all []domain.Color
	for _, category := range domain.ColorCategories() {
		all = append(all, bk.Colors[category]...)
	}

	if normalized != "" {
		for _, c := range all {
			if domain.NormalizeHex(c.Hex) == normalized {
				return fmt.Sprintf("✅ COMPLIANT: %s (#%s)", c.Name, c.Hex)
			}
		}
	}

	approved := make([]string, len(all))
	for i, c := range all {
		approved[i] = "#" + c.Hex
	}
	display := normalized
	if display == "" {
		display = strings.TrimPrefix(strings.ToUpper(value), "#")
	}
	return fmt.Sprintf("❌ NOT COMPLIANT: #%s is not in the brand palette.\n\nApproved: %s",
		display, strings.Join(approved, ", "))
}

// CheckFontCompliance reports whether a font name matches an approved
// typeface (case-insensitive substring match against primary/secondary).
func CheckFontCompliance(bk *domain.BrandKnowledge, value string) string {
	var fonts []string
	if bk.Typography.Primary != nil && bk.Typography.Primary.Name != "" {
		fonts = append(fonts, bk.Typography.Primary.Name)
	}
	if bk.Typography.Secondary != nil && bk.Typography.Secondary.Name != "" {
		fonts = append(fonts, bk.Typography.Secondary.Name)
	}

	valueLower := strings.ToLower(value)
	for _, f := range fonts {
		if strings.Contains(strings.ToLower(f), valueLower) {
			return fmt.Sprintf("✅ COMPLIANT: %q is approved.", value)
		}
	}
	return fmt.Sprintf("❌ NOT COMPLIANT: %q\n\nApproved fonts: %s", value, strings.Join(fonts, ", "))
}

// FormatVoice renders the voice and tone section.
func FormatVoice(bk *domain.BrandKnowledge) string {
	v := bk.Voice
	if len(v.Tone) == 0 && v.Personality == "" {
		return "No voice guidelines defined."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Voice & Tone\n\n", bk.BrandName)
	if len(v.Tone) > 0 {
		fmt.Fprintf(&b, "**Tone:** %s\n\n", strings.Join(v.Tone, ", "))
	}
	if v.Personality != "" {
		fmt.Fprintf(&b, "**Personality:** %s\n\n", v.Personality)
	}
	if len(v.Guidelines) > 0 {
		b.WriteString("**Guidelines:**\n")
		for _, g := range v.Guidelines {
			fmt.Fprintf(&b, "• %s\n", g)
		}
	}
	return b.String()
}

// FormatLogo renders the logo usage section.
func FormatLogo(bk *domain.BrandKnowledge) string {
	l := bk.Logo
	if l.Description == "" && len(l.Donts) == 0 {
		return "No logo guidelines defined."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Logo Guidelines\n\n", bk.BrandName)
	if l.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", l.Description)
	}
	if l.ClearSpace != "" {
		fmt.Fprintf(&b, "**Clear Space:** %s\n", l.ClearSpace)
	}
	if l.MinSize != "" {
		fmt.Fprintf(&b, "**Minimum Size:** %s\n", l.MinSize)
	}
	if len(l.Donts) > 0 {
		b.WriteString("\n**Don'ts:**\n")
		for _, d := range l.Donts {
			fmt.Fprintf(&b, "❌ %s\n", d)
		}
	}
	return b.String()
}

// FormatTypography renders the typography section.
func FormatTypography(bk *domain.BrandKnowledge) string {
	t := bk.Typography
	if t.Primary == nil && t.Secondary == nil {
		return "No typography guidelines defined."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s Typography\n\n", bk.BrandName)
	if t.Primary != nil {
		fmt.Fprintf(&b, "**Primary:** %s\n", t.Primary.Name)
		if t.Primary.Usage != "" {
			fmt.Fprintf(&b, "  Usage: %s\n", t.Primary.Usage)
		}
	}
	if t.Secondary != nil {
		fmt.Fprintf(&b, "**Secondary:** %s\n", t.Secondary.Name)
		if t.Secondary.Usage != "" {
			fmt.Fprintf(&b, "  Usage: %s\n", t.Secondary.Usage)
		}
	}
	return b.String()
}

func hasColors(bk *domain.BrandKnowledge) bool {
	for _, colors := range bk.Colors {
		if len(colors) > 0 {
			return true
		}
	}
	return false
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
