// Package judge defines the typed contract between venue-specific scraping
// clients and their callers. A venue implementation registers itself via
// Register and keeps all its markup quirks behind the Client interface.
package judge

import (
	"context"
	"fmt"
	"net/http"
)

type ResourceKind int

const (
	KindContest ResourceKind = iota
	KindTask
)

func (k ResourceKind) String() string {
	switch k {
	case KindContest:
		return "contest"
	case KindTask:
		return "task"
	default:
		panic("bad resource kind")
	}
}

// Resource is the routed target of a judge URL, either a contest or a task.
// Concrete types belong to the venue implementation that produced them;
// callers treat them as opaque handles and pass them back to the same
// client.
type Resource interface {
	Kind() ResourceKind
}

// Client is the capability interface implemented once per judge venue.
//
// All methods issue synchronous, blocking requests on the calling goroutine
// and never retry internally. Every scraping failure is returned as a typed
// error; see the taxonomy in errors.go and scrape.Error.
type Client interface {
	// Name returns the short site name, e.g. "codeforces".
	Name() string

	// Route maps a judge URL to a typed resource handle.
	// Returns ErrNotTaskURL if the URL does not name a known contest or
	// task location on this judge.
	Route(rawURL string) (Resource, error)

	// Login authenticates the session with the given credentials. The
	// authenticated cookie is retained by the underlying transport.
	Login(ctx context.Context, handle, password string) error

	// ExportAuth returns the current credential bundle, or nil if the
	// session is not authenticated.
	ExportAuth() (*CachedAuth, error)

	// RestoreAuth injects a previously exported credential bundle without
	// a verifying request. The bundle may have expired server-side; the
	// first authenticated request after restore surfaces that as an auth
	// error.
	RestoreAuth(auth *CachedAuth) error

	// FetchStatement retrieves the task's statement, examples and display
	// metadata.
	FetchStatement(ctx context.Context, task Resource) (*TaskDetails, error)

	// Languages lists the submission languages available for the task.
	Languages(ctx context.Context, task Resource) ([]Language, error)

	// Submit posts source code and returns the site-assigned submission
	// id. Each call may create a new submission; it is never idempotent.
	Submit(ctx context.Context, task Resource, lang Language, source string) (string, error)

	// Submissions fetches the current submission list for the task, most
	// recent first. It is a pure read; re-polling cadence is up to the
	// caller.
	Submissions(ctx context.Context, task Resource) ([]Submission, error)

	// ContestTasks lists the (symbol, title) pairs of a contest's tasks.
	ContestTasks(ctx context.Context, contest Resource) ([]ContestTask, error)

	// Contests lists upcoming and running contests on the judge.
	Contests(ctx context.Context) ([]ContestDetails, error)

	// TaskURL derives the canonical URL of a task.
	TaskURL(task Resource) (string, error)

	// ContestURL derives the canonical URL of a contest.
	ContestURL(contest Resource) (string, error)

	// ContestID renders the contest's display identifier, e.g. "1188" or
	// "gym 104053".
	ContestID(contest Resource) (string, error)
}

// ClientDef describes an available judge venue.
type ClientDef struct {
	// ID is the stable registry key, e.g. "codeforces".
	ID string
	// Name is the human-readable site name.
	Name string
	// Build constructs a client owning the given HTTP transport. The
	// transport must carry a cookie jar; the client stores credentials in
	// it.
	Build func(httpClient *http.Client) (Client, error)
}

var registry []ClientDef

// Register adds a venue definition to the registry.
// Called from init() in venue implementation packages.
func Register(def ClientDef) {
	registry = append(registry, def)
}

// Clients returns all registered venue definitions.
func Clients() []ClientDef {
	return registry
}

// Build creates a Client for the venue with the given registry ID.
func Build(id string, httpClient *http.Client) (Client, error) {
	for _, def := range registry {
		if def.ID == id {
			return def.Build(httpClient)
		}
	}
	return nil, fmt.Errorf("unknown judge: %s", id)
}
