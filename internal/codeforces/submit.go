package codeforces

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"ojtool/internal/judge"
)

// Languages scrapes the submission languages offered on the task's submit
// form. An anonymous session is bounced to the site root, which is
// reported as ErrAccessDenied.
func (c *Client) Languages(ctx context.Context, task judge.Resource) ([]judge.Language, error) {
	t, err := c.asTask(task)
	if err != nil {
		return nil, err
	}
	doc, final, err := c.getPage(ctx, c.submitURL(t))
	if err != nil {
		return nil, err
	}
	if final.String() == c.base+"/" {
		return nil, fmt.Errorf("%w: submit page redirected to site root", judge.ErrAccessDenied)
	}
	var languages []judge.Language
	for _, opt := range doc.FindAll(`[name="programTypeId"] option`) {
		val, err := opt.Attr("value")
		if err != nil {
			return nil, err
		}
		languages = append(languages, judge.Language{
			ID:   strings.TrimSpace(val),
			Name: opt.Text(),
		})
	}
	return languages, nil
}

// Submit obtains an anti-forgery token from the submit form, posts the
// source code, and returns the identifier of the most recent entry in the
// submission list. The POST response body is deliberately not parsed; the
// list re-query is the reliable signal. A concurrent submission by the
// same account can win the top spot in between; the scraped data carries
// no signal to disambiguate that race.
func (c *Client) Submit(ctx context.Context, task judge.Resource, lang judge.Language, source string) (string, error) {
	t, err := c.asTask(task)
	if err != nil {
		return "", err
	}
	symbol, err := c.resolveSymbol(ctx, t)
	if err != nil {
		return "", err
	}
	submitURL := c.submitURL(t)

	formDoc, final, err := c.getPage(ctx, submitURL)
	if err != nil {
		return "", err
	}
	referer := final.String()
	tokenNode, err := formDoc.Find(`[name="csrf_token"]`)
	if err != nil {
		return "", err
	}
	csrf, err := tokenNode.Attr("value")
	if err != nil {
		return "", err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	fields := []struct{ name, value string }{
		{"csrf_token", csrf},
		{"ftaa", ""},
		{"bfaa", ""},
		{"action", "submitSolutionFormSubmitted"},
		{"contestId", t.Contest.ID},
		{"submittedProblemIndex", symbol},
		{"programTypeId", lang.ID},
		{"source", source},
		{"tabSize", "4"},
	}
	for _, f := range fields {
		if err := form.WriteField(f.name, f.value); err != nil {
			return "", fmt.Errorf("write form field %q: %w", f.name, err)
		}
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close form: %w", err)
	}

	// The token rides both in the form body and as a query parameter.
	postURL := submitURL + "?csrf_token=" + url.QueryEscape(csrf)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, postURL, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	req.Header.Set("Origin", c.base)
	req.Header.Set("Referer", referer)

	rsp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST submit: %w", err)
	}
	_, _ = io.Copy(io.Discard, rsp.Body)
	_ = rsp.Body.Close()

	submissions, err := c.Submissions(ctx, task)
	if err != nil {
		return "", fmt.Errorf("list submissions after submit: %w", err)
	}
	if len(submissions) == 0 {
		return "", fmt.Errorf("list submissions after submit: empty list")
	}
	return submissions[0].ID, nil
}

func (c *Client) submitURL(t Task) string {
	return c.contestURL(t.Contest) + "submit"
}
