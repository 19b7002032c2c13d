package webpage

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// URL Validation Tests
// ============================================================================

func TestValidateURL_Valid(t *testing.T) {
	assert.NoError(t, ValidateURL("https://acme.com/brand"))
	assert.NoError(t, ValidateURL("http://acme.com"))
}

func TestValidateURL_RejectsSchemes(t *testing.T) {
	assert.Error(t, ValidateURL("ftp://acme.com/file"))
	assert.Error(t, ValidateURL("file:///etc/passwd"))
	assert.Error(t, ValidateURL("javascript:alert(1)"))
}

func TestValidateURL_RejectsLocalhost(t *testing.T) {
	assert.Error(t, ValidateURL("http://localhost:8080"))
	assert.Error(t, ValidateURL("https://127.0.0.1/admin"))
	assert.Error(t, ValidateURL("http://[::1]/"))
}

func TestValidateURL_RejectsLocalDomains(t *testing.T) {
	assert.Error(t, ValidateURL("https://db.internal/secrets"))
	assert.Error(t, ValidateURL("https://printer.local"))
}

func TestValidateURL_RejectsPrivateIPs(t *testing.T) {
	assert.Error(t, ValidateURL("http://10.0.0.1"))
	assert.Error(t, ValidateURL("http://192.168.1.1"))
	assert.Error(t, ValidateURL("http://172.16.0.1"))
	assert.Error(t, ValidateURL("http://169.254.169.254/latest/meta-data"))
}

func TestIsPrivateIP(t *testing.T) {
	private := []string{
		"127.0.0.1", "10.1.2.3", "192.168.0.1", "172.16.5.5",
		"169.254.169.254", "100.64.0.1", "0.0.0.0",
		"::1", "fe80::1", "fc00::1",
	}
	for _, s := range private {
		assert.True(t, IsPrivateIP(net.ParseIP(s)), "expected %s to be private", s)
	}

	public := []string{"8.8.8.8", "93.184.216.34", "2606:2800:220:1::1"}
	for _, s := range public {
		assert.False(t, IsPrivateIP(net.ParseIP(s)), "expected %s to be public", s)
	}
}

func TestIsPrivateIP_V4MappedV6(t *testing.T) {
	assert.True(t, IsPrivateIP(net.ParseIP("::ffff:192.168.1.1")))
	assert.False(t, IsPrivateIP(net.ParseIP("::ffff:8.8.8.8")))
}

// ============================================================================
// Fetcher Tests
// ============================================================================

func TestFetcher_RejectsInvalidURL(t *testing.T) {
	f := NewFetcher(5*time.Second, 0)
	_, err := f.Fetch(context.Background(), "http://localhost/brand")
	assert.Error(t, err)
}

// httptest binds to 127.0.0.1, which ValidateURL rejects, so these tests use
// the unexported fetch path.

func TestFetcher_SizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 2048)))
	}))
	defer srv.Close()

	f := &Fetcher{client: srv.Client(), userAgent: defaultUserAgent, maxBodySize: 1024}
	_, err := f.fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestFetcher_ReturnsBodyAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, defaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html><body>brand</body></html>"))
	}))
	defer srv.Close()

	f := &Fetcher{client: srv.Client(), userAgent: defaultUserAgent, maxBodySize: DefaultMaxPageSize}
	page, err := f.fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "text/html; charset=utf-8", page.ContentType)
	assert.Contains(t, string(page.Body), "brand")
}

func TestFetcher_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	f := &Fetcher{client: srv.Client(), userAgent: defaultUserAgent, maxBodySize: DefaultMaxPageSize}
	_, err := f.fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}

// ============================================================================
// Converter Tests
// ============================================================================

func TestConverter_ExtractsTitleAndMain(t *testing.T) {
	htmlDoc := `<html><head><title>Acme Brand Guidelines</title></head>
	<body>
	  <nav>Home | About</nav>
	  <main><h1>Our Brand</h1><p>Primary color is <strong>#FF5733</strong>.</p></main>
	  <footer>Copyright</footer>
	</body></html>`

	doc, err := NewConverter().Convert([]byte(htmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "Acme Brand Guidelines", doc.Title)
	assert.Contains(t, doc.Markdown, "Our Brand")
	assert.Contains(t, doc.Markdown, "#FF5733")
	assert.NotContains(t, doc.Markdown, "Home | About")
	assert.NotContains(t, doc.Markdown, "Copyright")
}

func TestConverter_DropsChromeWithoutMain(t *testing.T) {
	htmlDoc := `<html><body>
	  <nav>navigation</nav>
	  <div class="sidebar">links</div>
	  <div><p>Brand voice is friendly.</p></div>
	  <script>track();</script>
	</body></html>`

	doc, err := NewConverter().Convert([]byte(htmlDoc))
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "Brand voice is friendly.")
	assert.NotContains(t, doc.Markdown, "navigation")
	assert.NotContains(t, doc.Markdown, "links")
	assert.NotContains(t, doc.Markdown, "track()")
}

func TestConverter_TitleFromHeadingFallback(t *testing.T) {
	htmlDoc := `<html><body><main><h1>Acme Typography</h1><p>Use Inter.</p></main></body></html>`
	doc, err := NewConverter().Convert([]byte(htmlDoc))
	require.NoError(t, err)
	assert.Equal(t, "Acme Typography", doc.Title)
}
