package assets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCandidate(t *testing.T, candidates []Candidate, url string) Candidate {
	t.Helper()
	for _, c := range candidates {
		if c.URL == url {
			return c
		}
	}
	t.Fatalf("candidate %q not found", url)
	return Candidate{}
}

func TestDiscover_ImgTag(t *testing.T) {
	html := `<html><body><img src="/logo.png" alt="Acme Logo" class="header-img"></body></html>`
	got := NewDiscoverer().Discover(html, "https://acme.com/brand")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/logo.png", got[0].URL)
	assert.Equal(t, "Acme Logo", got[0].Context.Alt)
	assert.Equal(t, "header-img", got[0].Context.ClassName)
	assert.GreaterOrEqual(t, got[0].Score, 100)
}

func TestDiscover_CSSBackground(t *testing.T) {
	html := `<div style="background-image: url('/img/hero.jpg')"></div>
	<style>.banner { background: url(/img/banner.png); }</style>`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	urls := []string{got[0].URL, got[1].URL}
	assert.Contains(t, urls, "https://acme.com/img/hero.jpg")
	assert.Contains(t, urls, "https://acme.com/img/banner.png")
}

func TestDiscover_DownloadLink(t *testing.T) {
	html := `<a href="/downloads/brand-guidelines.pdf">Brand Guidelines</a>`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/downloads/brand-guidelines.pdf", got[0].URL)
	assert.Equal(t, "Brand Guidelines", got[0].Context.Name)
}

func TestDiscover_FontURL(t *testing.T) {
	html := `<style>@font-face { src: url("/fonts/acme-sans.woff2") format("woff2"); }</style>`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/fonts/acme-sans.woff2", got[0].URL)
}

func TestDiscover_IconLink(t *testing.T) {
	html := `<link rel="icon" href="/favicon.ico">
	<link rel="apple-touch-icon" href="/apple-touch-icon.png">`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 2)
	urls := []string{got[0].URL, got[1].URL}
	assert.Contains(t, urls, "https://acme.com/favicon.ico")
	assert.Contains(t, urls, "https://acme.com/apple-touch-icon.png")
}

func TestDiscover_SVGEmbed(t *testing.T) {
	html := `<object data="/graphics/mark.svg" type="image/svg+xml"></object>`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/graphics/mark.svg", got[0].URL)
}

func TestDiscover_DedupeFirstWins(t *testing.T) {
	html := `<img src="/logo.png" alt="Acme Logo">
	<img src="/logo.png" alt="duplicate">`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 1)
	assert.Equal(t, "Acme Logo", got[0].Context.Alt)
}

func TestDiscover_RejectsDataAndJavascript(t *testing.T) {
	html := `<img src="data:image/png;base64,iVBOR" alt="inline">
	<img src="javascript:void(0)" alt="bad">`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	assert.Empty(t, got)
}

func TestDiscover_RejectsDenylistedHosts(t *testing.T) {
	html := `<img src="https://www.google-analytics.com/collect.gif">
	<img src="https://stats.doubleclick.net/pixel.png">
	<img src="/logo.png" alt="Acme Logo">`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/logo.png", got[0].URL)
}

func TestDiscover_RelativeResolution(t *testing.T) {
	html := `<img src="../img/mark.png">`
	got := NewDiscoverer().Discover(html, "https://acme.com/brand/page")

	require.Len(t, got, 1)
	assert.Equal(t, "https://acme.com/img/mark.png", got[0].URL)
}

func TestDiscover_SortedByScoreDescending(t *testing.T) {
	html := `<img src="/photos/office.jpg" alt="office">
	<img src="/logo.png" alt="Acme Logo">
	<a href="/brand-guidelines.pdf">Guidelines</a>`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 3)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].Score, got[i].Score)
	}
	assert.Equal(t, "https://acme.com/logo.png", got[0].URL)
}

func TestDiscover_TieBreakIsDiscoveryOrder(t *testing.T) {
	html := `<img src="/a.jpg"><img src="/b.jpg"><img src="/c.jpg">`
	got := NewDiscoverer().Discover(html, "https://acme.com")

	require.Len(t, got, 3)
	assert.Equal(t, "https://acme.com/a.jpg", got[0].URL)
	assert.Equal(t, "https://acme.com/b.jpg", got[1].URL)
	assert.Equal(t, "https://acme.com/c.jpg", got[2].URL)
}

func TestDiscover_Scoring(t *testing.T) {
	got := NewDiscoverer().Discover(`<img src="/brand/logo.svg">`, "https://acme.com")
	require.Len(t, got, 1)
	// logo +100, brand +50, svg +15
	assert.Equal(t, 165, got[0].Score)

	got = NewDiscoverer().Discover(`<img src="/avatar-placeholder.png">`, "https://acme.com")
	require.Len(t, got, 1)
	// avatar -20, placeholder -30
	assert.Equal(t, -50, got[0].Score)

	got = NewDiscoverer().Discover(`<style>.x{background:url(/fonts/inter.woff2)}</style>`, "https://acme.com")
	require.Len(t, got, 1)
	// font keyword +30, font extension +20
	assert.Equal(t, 50, got[0].Score)
}

func TestDiscover_InvalidBaseURL(t *testing.T) {
	got := NewDiscoverer().Discover(`<img src="/logo.png">`, "://not-a-url")
	assert.Empty(t, got)
}

func TestDiscover_Restartable(t *testing.T) {
	html := `<img src="/logo.png" alt="Acme Logo"><img src="/photo.jpg">`
	d := NewDiscoverer()
	first := d.Discover(html, "https://acme.com")
	second := d.Discover(html, "https://acme.com")
	assert.Equal(t, first, second)
}
