// Package webpage fetches public web pages for brand ingestion and converts
// their HTML into Markdown suitable as LLM input. Outbound requests are
// guarded against SSRF: private, loopback, and link-local destinations are
// rejected both at URL validation time and again at dial time so DNS
// rebinding cannot bypass the check.
package webpage

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

var (
	cgnat    *net.IPNet // 100.64.0.0/10 carrier-grade NAT
	v6unique *net.IPNet // fc00::/7 unique local
	v6link   *net.IPNet // fe80::/10 link-local
)

func init() {
	for _, cidr := range []struct {
		s string
		p **net.IPNet
	}{
		{"100.64.0.0/10", &cgnat},
		{"fc00::/7", &v6unique},
		{"fe80::/10", &v6link},
	} {
		_, n, err := net.ParseCIDR(cidr.s)
		if err != nil {
			panic("invalid reserved CIDR: " + err.Error())
		}
		*cidr.p = n
	}
}

// ValidateURL rejects URLs that must never be fetched: non-HTTP schemes,
// localhost variants, .local/.internal domains, and literal private IPs.
func ValidateURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("only HTTP and HTTPS URLs are allowed")
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("URL has no host")
	}
	if host == "localhost" || host == "127.0.0.1" || host == "::1" {
		return fmt.Errorf("localhost URLs are not allowed")
	}
	if strings.HasSuffix(host, ".local") || strings.HasSuffix(host, ".internal") {
		return fmt.Errorf("local domain URLs are not allowed")
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("private IP addresses are not allowed")
	}

	return nil
}

// IsPrivateIP reports whether an IP is in a private or reserved range,
// including IPv4-mapped IPv6 forms.
func IsPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsUnspecified() {
		return true
	}
	if v4 := ip.To4(); v4 != nil {
		ip = v4
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() {
			return true
		}
	}
	return cgnat.Contains(ip) || v6unique.Contains(ip) || v6link.Contains(ip)
}
