package assets

import (
	"regexp"
	"strings"

	"github.com/espengetz/brandprotocol/internal/domain"
)

var (
	fontExtRe  = regexp.MustCompile(`(?i)\.(woff2?|ttf|otf|eot)(\?|$)`)
	imageExtRe = regexp.MustCompile(`(?i)\.(png|jpg|jpeg|gif|svg|webp)(\?|$)`)
)

// Classify labels a discovered URL with a coarse asset type from the URL and
// its surrounding context text. Matching is case-insensitive; the rules
// overlap, so their order is significant: logo beats icon beats font, and so
// on down to the generic image fallback.
func Classify(rawURL string, ctx Context) string {
	urlLower := strings.ToLower(rawURL)
	contextLower := strings.ToLower(ctx.Alt + " " + ctx.ClassName + " " + ctx.NearbyText)

	switch {
	case strings.Contains(urlLower, "logo") ||
		strings.Contains(contextLower, "logo") ||
		strings.Contains(urlLower, "brand-mark") ||
		strings.Contains(urlLower, "brandmark"):
		return domain.AssetTypeLogo

	case strings.Contains(urlLower, "favicon") ||
		strings.Contains(urlLower, "icon") ||
		strings.Contains(urlLower, "apple-touch"):
		return domain.AssetTypeIcon

	case fontExtRe.MatchString(urlLower):
		return domain.AssetTypeFont

	case strings.HasSuffix(urlLower, ".pdf"):
		return domain.AssetTypePDF

	case strings.Contains(contextLower, "color") ||
		strings.Contains(contextLower, "palette") ||
		strings.Contains(contextLower, "swatch"):
		return domain.AssetTypeSwatch

	case imageExtRe.MatchString(urlLower):
		return domain.AssetTypeImage

	default:
		return domain.AssetTypeOther
	}
}
