package judge

import "time"

// Example is one sample input/output pair from a task statement.
type Example struct {
	Input  string
	Output string
}

type StatementKind int

const (
	StatementHTML StatementKind = iota
	StatementPDF
)

// Statement is a task's problem statement body. HTML statements are
// rewritten fragments safe to render outside their original page context;
// PDF statements carry the raw document bytes.
type Statement struct {
	Kind StatementKind
	Data []byte
}

func (s *Statement) MIME() string {
	switch s.Kind {
	case StatementHTML:
		return "text/html"
	case StatementPDF:
		return "application/pdf"
	default:
		panic("bad statement kind")
	}
}

// TaskDetails is the scraped description of a single task.
type TaskDetails struct {
	// Symbol is the task's symbol within its contest, e.g. "A".
	Symbol string
	// Title is the task's name without the symbol prefix.
	Title string
	// ContestID is the owning contest's display identifier.
	ContestID string
	// URL is the canonical task URL.
	URL string
	// Examples holds parsed sample tests. Nil when the statement format
	// does not expose them (e.g. PDF statements).
	Examples []Example
	// Statement is the statement body, if one could be retrieved.
	Statement *Statement
}

// Language is a submission language offered by the judge.
type Language struct {
	// ID is the venue-assigned identifier posted with submissions.
	ID string
	// Name is the human-readable language name.
	Name string
}

// Submission is one row of a judge's submission list.
type Submission struct {
	ID      string
	Verdict Verdict
}

// ContestTask is a (symbol, title) entry of a contest's task list.
type ContestTask struct {
	Symbol string
	Title  string
}

// ContestDetails describes one entry of the judge's contest list.
type ContestDetails struct {
	Contest  Resource
	Title    string
	StartsAt time.Time
}
