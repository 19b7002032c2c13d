package webpage

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// DefaultMaxPageSize caps how much of a page body is read (10 MB).
const DefaultMaxPageSize int64 = 10 * 1024 * 1024

const defaultUserAgent = "Mozilla/5.0 (compatible; BrandProtocol/1.0)"

// Page is a fetched web page.
type Page struct {
	URL         string
	ContentType string
	Body        []byte
}

// Fetcher retrieves web pages with SSRF guards and a body size limit.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxBodySize int64
}

// NewFetcher creates a fetcher with the given overall request timeout.
// Resolved IPs are validated before dialing so a hostname cannot redirect
// the request into a private network.
func NewFetcher(timeout time.Duration, maxBodySize int64) *Fetcher {
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxPageSize
	}

	dialer := &net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	safeDial := func(ctx context.Context, network, addr string) (net.Conn, error) {
		host, port, err := net.SplitHostPort(addr)
		if err != nil {
			return nil, fmt.Errorf("invalid address: %w", err)
		}

		ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
		if err != nil {
			return nil, fmt.Errorf("DNS lookup failed: %w", err)
		}
		for _, ipAddr := range ips {
			if IsPrivateIP(ipAddr.IP) {
				return nil, fmt.Errorf("connection to private IP %s is not allowed", ipAddr.IP)
			}
		}

		for _, ipAddr := range ips {
			conn, dialErr := dialer.DialContext(ctx, network, net.JoinHostPort(ipAddr.IP.String(), port))
			if dialErr == nil {
				return conn, nil
			}
			err = dialErr
		}
		return nil, fmt.Errorf("connect failed: %w", err)
	}

	transport := &http.Transport{
		DialContext:           safeDial,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: timeout,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
	}

	return &Fetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				if err := ValidateURL(req.URL.String()); err != nil {
					return fmt.Errorf("redirect blocked: %w", err)
				}
				return nil
			},
		},
		userAgent:   defaultUserAgent,
		maxBodySize: maxBodySize,
	}
}

// Fetch retrieves the page at urlStr.
func (f *Fetcher) Fetch(ctx context.Context, urlStr string) (*Page, error) {
	if err := ValidateURL(urlStr); err != nil {
		return nil, err
	}
	return f.fetch(ctx, urlStr)
}

func (f *Fetcher) fetch(ctx context.Context, urlStr string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: HTTP %d %s", urlStr, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > f.maxBodySize {
		return nil, fmt.Errorf("page too large (exceeds %d bytes)", f.maxBodySize)
	}

	return &Page{
		URL:         urlStr,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}
