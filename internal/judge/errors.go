package judge

import "errors"

// Error taxonomy shared by all venue implementations. Scraping failures are
// reported separately as *scrape.Error values carrying the violated
// structural expectation; transport failures are wrapped but keep their
// original kind.
var (
	// ErrNotTaskURL means the URL does not name a task or contest on the
	// judge.
	ErrNotTaskURL = errors.New("not a recognized task or contest URL")

	// ErrWrongCredentials means the judge rejected the login credentials.
	ErrWrongCredentials = errors.New("wrong handle or password")

	// ErrAccessDenied means an authenticated action was attempted without
	// a valid session, or the site redirected to a login wall.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotYetStarted means the contest page redirected away from its
	// task list because the contest has not started.
	ErrNotYetStarted = errors.New("contest has not started yet")

	// ErrStateCorruption means an internal client invariant was violated,
	// e.g. a resource handle produced by a different venue.
	ErrStateCorruption = errors.New("internal client state corrupted")

	// ErrMalformedAuth means a cached credential blob could not be
	// decoded.
	ErrMalformedAuth = errors.New("malformed cached auth")
)
