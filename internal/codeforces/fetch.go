package codeforces

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"ojtool/internal/scrape"
	"ojtool/internal/transport"
)

// getPage fetches a URL, following redirects, and returns the parsed
// document together with the final resolved URL. Several operations branch
// on whether the site redirected away from the requested location.
func (c *Client) getPage(ctx context.Context, rawURL string) (*scrape.Doc, *url.URL, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	rsp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, rsp.Body)
		_ = rsp.Body.Close()
	}()
	if err := transport.ErrorFromResponse(rsp); err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	doc, err := scrape.Parse(rsp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	return doc, rsp.Request.URL, nil
}

// getBytes fetches a URL and reads the whole payload, as needed for binary
// statement documents. The read runs to completion or fails; there is no
// partial result.
func (c *Client) getBytes(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	rsp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, rsp.Body)
		_ = rsp.Body.Close()
	}()
	if err := transport.ErrorFromResponse(rsp); err != nil {
		return nil, fmt.Errorf("GET %s: %w", rawURL, err)
	}
	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read body: %w", rawURL, err)
	}
	return data, nil
}

// parseResponse consumes a response body into a parsed document.
func parseResponse(rsp *http.Response) (*scrape.Doc, error) {
	defer func() {
		_, _ = io.Copy(io.Discard, rsp.Body)
		_ = rsp.Body.Close()
	}()
	if err := transport.ErrorFromResponse(rsp); err != nil {
		return nil, err
	}
	doc, err := scrape.Parse(rsp.Body)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// sameLocation compares two URLs by scheme, host and path, ignoring query
// and fragment. Redirect detection must not be confused by tracking query
// parameters the site occasionally appends.
func sameLocation(a, b *url.URL) bool {
	return a.Scheme == b.Scheme && a.Host == b.Host && a.Path == b.Path
}

func (c *Client) absoluteURL(ref string) string {
	if ref == "" {
		return c.base
	}
	switch {
	case ref[0] == '/':
		return c.base + ref
	default:
		return ref
	}
}
