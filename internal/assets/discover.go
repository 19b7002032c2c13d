// Package assets discovers candidate brand-asset URLs in raw HTML and
// classifies them into coarse types. Discovery is regex based rather than a
// full HTML parse; it is isolated behind the Discoverer interface so a real
// parser can replace it without touching callers.
package assets

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// MaxCandidates is how many top-scored candidates callers keep per page.
const MaxCandidates = 50

// Context carries the text surrounding a discovered URL.
type Context struct {
	Alt        string `json:"alt,omitempty"`
	ClassName  string `json:"class_name,omitempty"`
	Name       string `json:"name,omitempty"`
	NearbyText string `json:"nearby_text,omitempty"`
}

// Candidate is one discovered asset URL with its context and relevance score.
type Candidate struct {
	URL     string  `json:"url"`
	Context Context `json:"context"`
	Score   int     `json:"score"`
}

// Discoverer extracts asset candidates from raw HTML.
type Discoverer interface {
	Discover(html, baseURL string) []Candidate
}

var (
	imgTagRe        = regexp.MustCompile(`(?is)<img\s[^>]*src=["']([^"']+)["'][^>]*>`)
	altAttrRe       = regexp.MustCompile(`(?is)alt=["']([^"']*)["']`)
	classAttrRe     = regexp.MustCompile(`(?is)class=["']([^"']*)["']`)
	backgroundRe    = regexp.MustCompile(`(?is)background(?:-image)?\s*:\s*url\(\s*["']?([^"')]+)["']?\s*\)`)
	downloadLinkRe  = regexp.MustCompile(`(?is)<a\s[^>]*href=["']([^"']+\.(?:pdf|zip|eps|ai|svg)(?:\?[^"']*)?)["'][^>]*>(.*?)</a>`)
	fontURLRe       = regexp.MustCompile(`(?is)url\(\s*["']?([^"')]+\.(?:woff2?|ttf|otf|eot)(?:\?[^"')]*)?)["']?\s*\)`)
	iconLinkRe      = regexp.MustCompile(`(?is)<link\s[^>]*rel=["'](?:shortcut\s+icon|icon|apple-touch-icon[^"']*)["'][^>]*>`)
	hrefAttrRe      = regexp.MustCompile(`(?is)href=["']([^"']+)["']`)
	svgEmbedRe      = regexp.MustCompile(`(?is)<(?:img|object|embed)\s[^>]*(?:src|data)=["']([^"']+\.svg(?:\?[^"']*)?)["'][^>]*>`)
	htmlTagStripRe  = regexp.MustCompile(`(?s)<[^>]*>`)
	fontExtScoreRe  = regexp.MustCompile(`(?i)\.(woff2?|ttf|otf|eot)(\?|$)`)
)

// Hosts and path fragments that are never brand assets.
var denylist = []string{
	"doubleclick",
	"google-analytics",
	"googletagmanager",
	"googlesyndication",
	"facebook.com/tr",
	"hotjar",
	"segment.io",
	"mixpanel",
	"/pixel",
	"tracking",
	"1x1.",
	"spacer.gif",
}

// RegexDiscoverer is the pattern-matching Discoverer implementation.
type RegexDiscoverer struct{}

// NewDiscoverer returns the regex-based discoverer.
func NewDiscoverer() *RegexDiscoverer {
	return &RegexDiscoverer{}
}

// Discover scans raw HTML for candidate asset links, resolves each against
// the base URL, drops denylisted and unresolvable entries, deduplicates by
// absolute URL (first occurrence wins), scores each candidate, and returns
// the candidates sorted by score descending with discovery order breaking
// ties. Pure function of its input.
func (d *RegexDiscoverer) Discover(html, baseURL string) []Candidate {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var candidates []Candidate

	add := func(raw string, ctx Context) {
		abs, ok := resolve(base, raw)
		if !ok || seen[abs] {
			return
		}
		seen[abs] = true
		candidates = append(candidates, Candidate{
			URL:     abs,
			Context: ctx,
			Score:   scoreCandidate(abs, ctx),
		})
	}

	for _, m := range imgTagRe.FindAllStringSubmatch(html, -1) {
		ctx := Context{}
		if alt := altAttrRe.FindStringSubmatch(m[0]); alt != nil {
			ctx.Alt = alt[1]
		}
		if class := classAttrRe.FindStringSubmatch(m[0]); class != nil {
			ctx.ClassName = class[1]
		}
		add(m[1], ctx)
	}

	for _, m := range backgroundRe.FindAllStringSubmatch(html, -1) {
		add(m[1], Context{})
	}

	for _, m := range downloadLinkRe.FindAllStringSubmatch(html, -1) {
		name := strings.TrimSpace(htmlTagStripRe.ReplaceAllString(m[2], ""))
		add(m[1], Context{Name: name, NearbyText: name})
	}

	for _, m := range fontURLRe.FindAllStringSubmatch(html, -1) {
		add(m[1], Context{})
	}

	for _, m := range iconLinkRe.FindAllStringSubmatch(html, -1) {
		if href := hrefAttrRe.FindStringSubmatch(m[0]); href != nil {
			add(href[1], Context{ClassName: "icon"})
		}
	}

	for _, m := range svgEmbedRe.FindAllStringSubmatch(html, -1) {
		add(m[1], Context{})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})

	return candidates
}

// resolve turns a raw reference into an absolute http(s) URL, rejecting
// data:/javascript: schemes and denylisted tracking URLs.
func resolve(base *url.URL, raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "data:") || strings.HasPrefix(lower, "javascript:") {
		return "", false
	}

	ref, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	abs := base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", false
	}

	absStr := abs.String()
	absLower := strings.ToLower(absStr)
	for _, blocked := range denylist {
		if strings.Contains(absLower, blocked) {
			return "", false
		}
	}
	return absStr, true
}

// scoreCandidate assigns the additive relevance score from the URL, the
// context text, and the file extension.
func scoreCandidate(absURL string, ctx Context) int {
	urlLower := strings.ToLower(absURL)
	combined := urlLower + " " + strings.ToLower(
		ctx.Alt+" "+ctx.ClassName+" "+ctx.Name+" "+ctx.NearbyText)

	score := 0
	if strings.Contains(combined, "logo") {
		score += 100
	}
	if strings.Contains(combined, "brand") {
		score += 50
	}
	if strings.Contains(combined, "color") || strings.Contains(combined, "palette") {
		score += 40
	}
	if strings.Contains(combined, "typography") || strings.Contains(combined, "font") ||
		strings.Contains(combined, "guideline") {
		score += 30
	}
	if strings.Contains(combined, "icon") {
		score += 20
	}

	switch {
	case fontExtScoreRe.MatchString(urlLower):
		score += 20
	case strings.HasSuffix(urlLower, ".pdf"):
		score += 25
	case strings.Contains(urlLower, ".svg"):
		score += 15
	}

	if strings.Contains(combined, "avatar") || strings.Contains(combined, "profile") {
		score -= 20
	}
	if strings.Contains(combined, "thumb") {
		score -= 10
	}
	if strings.Contains(combined, "placeholder") {
		score -= 30
	}

	return score
}
