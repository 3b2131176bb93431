package amdm

import (
	"compress/gzip"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sukalov/yoke/internal/logger"
)

const (
	// canonicalHost is where mirror URLs are fetched from.
	canonicalHost = "amdm.ru"

	// maxPageSize caps a decoded song page.
	maxPageSize = 4 << 20
)

// ErrPageTooLarge is returned when a page decodes to more than maxPageSize.
var ErrPageTooLarge = errors.New("amdm page is too large")

// Client downloads song pages.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxSize    int64
}

func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{MinVersion: tls.VersionTLS12},
			},
		},
		userAgent: "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
		maxSize:   maxPageSize,
	}
}

// pageURL points any *.amdm.ru mirror at the canonical host, keeping path and
// query. Other hosts pass through untouched.
func pageURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("bad song url %q: %w", raw, err)
	}
	if strings.HasSuffix(strings.ToLower(u.Hostname()), "."+canonicalHost) {
		u.Host = canonicalHost
		if port := u.Port(); port != "" {
			u.Host += ":" + port
		}
	}
	return u.String(), nil
}

// FetchPage returns the decoded HTML of a song page.
func (c *Client) FetchPage(ctx context.Context, rawURL string) (string, error) {
	target, err := pageURL(rawURL)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "ru,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn(fmt.Sprintf("amdm fetch %s: %v", target, err))
		return "", fmt.Errorf("fetch %s: %w", target, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Warn(fmt.Sprintf("amdm fetch %s: status %d", target, resp.StatusCode))
		return "", fmt.Errorf("fetch %s: status %d", target, resp.StatusCode)
	}

	// Asking for gzip explicitly turns off the transport's own decoding.
	body := io.Reader(resp.Body)
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		zr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return "", fmt.Errorf("decode %s: %w", target, err)
		}
		defer zr.Close()
		body = zr
	}

	page, err := io.ReadAll(io.LimitReader(body, c.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", target, err)
	}
	if int64(len(page)) > c.maxSize {
		return "", fmt.Errorf("%s: %w", target, ErrPageTooLarge)
	}
	return string(page), nil
}
