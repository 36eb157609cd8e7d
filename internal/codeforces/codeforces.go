// Package codeforces implements the judge.Client capability interface for
// the Codeforces judge. The site exposes no API; every operation is a
// fallible parse over server-rendered HTML.
package codeforces

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"ojtool/internal/judge"
)

const siteBase = "https://codeforces.com"

func init() {
	judge.Register(judge.ClientDef{
		ID:   "codeforces",
		Name: "Codeforces",
		Build: func(httpClient *http.Client) (judge.Client, error) {
			return New(httpClient)
		},
	})
}

// Source is the submission venue a contest belongs to. Each venue has its
// own URL scheme and task numbering rules.
type Source int

const (
	SourceContest Source = iota
	SourceGym
	SourceProblemset
)

type Contest struct {
	Source Source
	// ID is the opaque venue-assigned contest identifier.
	ID string
}

func (Contest) Kind() judge.ResourceKind { return judge.KindContest }

// TaskID is either a normal alphanumeric task symbol or the "first task"
// sentinel routed from a literal "0" segment.
type TaskID struct {
	// Symbol is the task symbol within the contest; empty when Zero.
	Symbol string
	// Zero marks the sentinel. A few contests number their sole or first
	// task 0 or A1 inconsistently; the concrete symbol is resolved against
	// the contest task list at statement or submission time, falling back
	// to a hardcoded "A". This is a narrow workaround, not guaranteed
	// correct for all contests.
	Zero bool
}

type Task struct {
	Contest Contest
	ID      TaskID
}

func (Task) Kind() judge.ResourceKind { return judge.KindTask }

// Client is a session-holding Codeforces client. The HTTP transport is
// exclusively owned; its cookie jar stores the authenticated session
// cookie.
type Client struct {
	http *http.Client
	// base is the site origin; overridden in tests.
	base string

	// mu guards username. Never held across a network call.
	mu       sync.Mutex
	username string
}

var _ judge.Client = (*Client)(nil)

func New(httpClient *http.Client) (*Client, error) {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if httpClient.Jar == nil {
		return nil, fmt.Errorf("http client has no cookie jar")
	}
	return &Client{http: httpClient, base: siteBase}, nil
}

func (c *Client) Name() string { return "codeforces" }

// Route maps a Codeforces URL to a contest or task handle. Recognized
// shapes, longest match first:
//
//	/contest/{id}, /gym/{id}                  -> contest
//	/contest/{id}/problem/{sym}, /gym/...     -> task
//	/problemset/problem/{id}/{sym}            -> problemset task
func (c *Client) Route(rawURL string) (judge.Resource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", judge.ErrNotTaskURL, err)
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "codeforces.com" {
		return nil, fmt.Errorf("%w: unknown domain %q", judge.ErrNotTaskURL, u.Hostname())
	}
	segments := splitPath(u.Path)
	var (
		source Source
		id     string
		sym    string
	)
	switch {
	case len(segments) == 2 && segments[0] == "contest":
		return Contest{Source: SourceContest, ID: segments[1]}, nil
	case len(segments) == 2 && segments[0] == "gym":
		return Contest{Source: SourceGym, ID: segments[1]}, nil
	case len(segments) == 4 && segments[0] == "contest" && segments[2] == "problem":
		source, id, sym = SourceContest, segments[1], segments[3]
	case len(segments) == 4 && segments[0] == "gym" && segments[2] == "problem":
		source, id, sym = SourceGym, segments[1], segments[3]
	case len(segments) == 4 && segments[0] == "problemset" && segments[1] == "problem":
		source, id, sym = SourceProblemset, segments[2], segments[3]
	default:
		return nil, fmt.Errorf("%w: %q", judge.ErrNotTaskURL, u.Path)
	}
	taskID := TaskID{Symbol: sym}
	if sym == "0" {
		taskID = TaskID{Zero: true}
	}
	return Task{Contest: Contest{Source: source, ID: id}, ID: taskID}, nil
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func (c *Client) TaskURL(task judge.Resource) (string, error) {
	t, err := c.asTask(task)
	if err != nil {
		return "", err
	}
	return c.taskURL(t, fallbackSymbol(t)), nil
}

func (c *Client) ContestURL(contest judge.Resource) (string, error) {
	ct, err := c.asContest(contest)
	if err != nil {
		return "", err
	}
	return c.contestURL(ct), nil
}

func (c *Client) ContestID(contest judge.Resource) (string, error) {
	ct, err := c.asContest(contest)
	if err != nil {
		return "", err
	}
	switch ct.Source {
	case SourceContest:
		return ct.ID, nil
	case SourceGym:
		return "gym" + ct.ID, nil
	case SourceProblemset:
		return "problemset", nil
	default:
		panic("bad contest source")
	}
}

func (c *Client) taskURL(t Task, symbol string) string {
	switch t.Contest.Source {
	case SourceContest:
		return fmt.Sprintf("%s/contest/%s/problem/%s", c.base, t.Contest.ID, symbol)
	case SourceGym:
		return fmt.Sprintf("%s/gym/%s/problem/%s", c.base, t.Contest.ID, symbol)
	case SourceProblemset:
		return fmt.Sprintf("%s/problemset/problem/%s/%s", c.base, t.Contest.ID, symbol)
	default:
		panic("bad contest source")
	}
}

func (c *Client) contestURL(ct Contest) string {
	switch ct.Source {
	case SourceContest:
		return fmt.Sprintf("%s/contest/%s/", c.base, ct.ID)
	case SourceGym:
		return fmt.Sprintf("%s/gym/%s/", c.base, ct.ID)
	case SourceProblemset:
		return c.base + "/problemset/"
	default:
		panic("bad contest source")
	}
}

// prettyContest renders the contest display identifier used in
// TaskDetails.
func prettyContest(t Task) string {
	switch t.Contest.Source {
	case SourceContest:
		return t.Contest.ID
	case SourceGym:
		return "gym " + t.Contest.ID
	case SourceProblemset:
		return "problemset " + t.Contest.ID
	default:
		panic("bad contest source")
	}
}

// fallbackSymbol resolves a task id without network access. The Zero
// sentinel maps to "A"; resolveSymbol consults the contest task list when a
// session is at hand.
func fallbackSymbol(t Task) string {
	if t.ID.Zero {
		return "A"
	}
	return t.ID.Symbol
}

func (c *Client) asTask(r judge.Resource) (Task, error) {
	t, ok := r.(Task)
	if !ok {
		return Task{}, fmt.Errorf("%w: resource %T is not a codeforces task", judge.ErrStateCorruption, r)
	}
	return t, nil
}

func (c *Client) asContest(r judge.Resource) (Contest, error) {
	ct, ok := r.(Contest)
	if !ok {
		if t, ok := r.(Task); ok {
			return t.Contest, nil
		}
		return Contest{}, fmt.Errorf("%w: resource %T is not a codeforces contest", judge.ErrStateCorruption, r)
	}
	return ct, nil
}
