package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"ojtool/internal/judge"
)

// sessionCookie is the site's session cookie cached across runs.
const sessionCookie = "JSESSIONID"

func (c *Client) setUser(username string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.username = username
}

func (c *Client) currentUser() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.username
}

// reqUser returns the authenticated username or ErrAccessDenied when the
// session is anonymous.
func (c *Client) reqUser() (string, error) {
	if u := c.currentUser(); u != "" {
		return u, nil
	}
	return "", fmt.Errorf("%w: not logged in", judge.ErrAccessDenied)
}

// fetchCSRF pulls a fresh anti-forgery token from the homepage. The site
// requires it on every state-changing request.
func (c *Client) fetchCSRF(ctx context.Context) (string, error) {
	doc, _, err := c.getPage(ctx, c.base+"/")
	if err != nil {
		return "", err
	}
	node, err := doc.Find(".csrf-token")
	if err != nil {
		return "", err
	}
	csrf, err := node.Attr("data-csrf")
	if err != nil {
		return "", err
	}
	return csrf, nil
}

// Login submits credentials and inspects the response document. Presence
// of a profile link for the handle signals success; a password error
// marker signals wrong credentials; any other shape means the site layout
// no longer matches expectations.
func (c *Client) Login(ctx context.Context, handle, password string) error {
	csrf, err := c.fetchCSRF(ctx)
	if err != nil {
		return fmt.Errorf("fetch csrf token: %w", err)
	}

	form := url.Values{}
	form.Set("action", "enter")
	form.Set("csrf_token", csrf)
	form.Set("handleOrEmail", handle)
	form.Set("password", password)
	form.Set("remember", "on")

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.base+"/enter?back=%2F", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Origin", c.base)
	req.Header.Set("Referer", c.base+"/enter?back=/")

	rsp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("POST enter: %w", err)
	}
	doc, err := parseResponse(rsp)
	if err != nil {
		return err
	}

	for _, link := range doc.FindAll(".lang-chooser a") {
		href, err := link.Attr("href")
		if err != nil {
			continue
		}
		if href == "/profile/"+handle {
			c.setUser(handle)
			return nil
		}
	}
	if len(doc.FindAll(".for__password")) == 1 {
		return judge.ErrWrongCredentials
	}
	node, err := doc.Find("body")
	if err != nil {
		return err
	}
	return node.Fail("unrecognized login outcome")
}

// ExportAuth returns the username paired with the transport's session
// cookie, or nil when the session is anonymous or the cookie is gone.
func (c *Client) ExportAuth() (*judge.CachedAuth, error) {
	username := c.currentUser()
	if username == "" {
		return nil, nil
	}
	base, err := url.Parse(c.base)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base url: %v", judge.ErrStateCorruption, err)
	}
	for _, cookie := range c.http.Jar.Cookies(base) {
		if cookie.Name == sessionCookie {
			return &judge.CachedAuth{
				Cookie:   judge.AuthCookie{Name: cookie.Name, Value: cookie.Value},
				Username: username,
			}, nil
		}
	}
	return nil, nil
}

// RestoreAuth injects a cached cookie and marks the session authenticated,
// without a verifying request. If the cookie has expired server-side, the
// next authenticated request fails with an auth error.
func (c *Client) RestoreAuth(auth *judge.CachedAuth) error {
	if auth == nil || auth.Cookie.Name == "" {
		return fmt.Errorf("%w: empty bundle", judge.ErrMalformedAuth)
	}
	base, err := url.Parse(c.base)
	if err != nil {
		return fmt.Errorf("%w: bad base url: %v", judge.ErrStateCorruption, err)
	}
	c.http.Jar.SetCookies(base, []*http.Cookie{{
		Name:  auth.Cookie.Name,
		Value: auth.Cookie.Value,
		Path:  "/",
	}})
	c.setUser(auth.Username)
	return nil
}
