// Package transport builds the HTTP client owned by a judge session: a
// public-suffix-aware cookie jar, request pacing and a stable User-Agent.
package transport

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"
)

type Options struct {
	// UserAgent is sent with every request. Empty means default.
	UserAgent string `toml:"user-agent"`
	// Timeout bounds a whole request. Must be positive. Zero means
	// default.
	Timeout time.Duration `toml:"timeout"`
	// RateEvery is the minimum spacing between requests. Must be
	// positive. Zero means default.
	RateEvery time.Duration `toml:"rate-every"`
	// RateBurst is the pacing burst size. Zero means default.
	RateBurst int `toml:"rate-burst"`
}

func (o *Options) Validate() error {
	if o.Timeout < 0 {
		return fmt.Errorf("negative timeout")
	}
	if o.RateEvery < 0 {
		return fmt.Errorf("negative rate-every")
	}
	if o.RateBurst < 0 {
		return fmt.Errorf("negative rate-burst")
	}
	return nil
}

func (o *Options) FillDefaults() {
	if o.UserAgent == "" {
		o.UserAgent = "ojtool/1"
	}
	if o.Timeout == 0 {
		o.Timeout = 30 * time.Second
	}
	if o.RateEvery == 0 {
		o.RateEvery = 500 * time.Millisecond
	}
	if o.RateBurst == 0 {
		o.RateBurst = 3
	}
}

// New builds an HTTP client per the options. The client carries a fresh
// cookie jar; the judge session stores its credentials there.
func New(o Options) (*http.Client, error) {
	if err := o.Validate(); err != nil {
		return nil, fmt.Errorf("bad config: %w", err)
	}
	o.FillDefaults()
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &http.Client{
		Jar:     jar,
		Timeout: o.Timeout,
		Transport: &pacedTransport{
			base:      http.DefaultTransport,
			limiter:   rate.NewLimiter(rate.Every(o.RateEvery), o.RateBurst),
			userAgent: o.UserAgent,
		},
	}, nil
}

type pacedTransport struct {
	base      http.RoundTripper
	limiter   *rate.Limiter
	userAgent string
}

func (t *pacedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	req = req.Clone(req.Context())
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	return t.base.RoundTrip(req)
}
