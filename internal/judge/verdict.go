package judge

import "fmt"

type VerdictKind int

const (
	// VerdictPending is the only non-terminal state: the submission is
	// queued or still being judged.
	VerdictPending VerdictKind = iota
	VerdictAccepted
	VerdictRejected
	VerdictScored
	VerdictSkipped
)

func (k VerdictKind) String() string {
	switch k {
	case VerdictPending:
		return "pending"
	case VerdictAccepted:
		return "accepted"
	case VerdictRejected:
		return "rejected"
	case VerdictScored:
		return "scored"
	case VerdictSkipped:
		return "skipped"
	default:
		panic("bad verdict kind")
	}
}

// RejectionCause is the closed set of reasons a judge rejects a submission.
type RejectionCause int

const (
	CauseWrongAnswer RejectionCause = iota
	CauseTimeLimit
	CauseMemoryLimit
	CauseRuntimeError
	CauseCompilationError
)

func (c RejectionCause) String() string {
	switch c {
	case CauseWrongAnswer:
		return "wrong answer"
	case CauseTimeLimit:
		return "time limit exceeded"
	case CauseMemoryLimit:
		return "memory limit exceeded"
	case CauseRuntimeError:
		return "runtime error"
	case CauseCompilationError:
		return "compilation error"
	default:
		panic("bad rejection cause")
	}
}

// TestKind names which kind of check a test reference points at.
type TestKind int

const (
	TestRegular TestKind = iota
	TestPretest
	TestHack
)

// TestRef identifies the check that a verdict refers to, with a 1-based
// index. A hack reference with zero index stands for "a hack" without a
// known number, as reported for challenged submissions.
type TestRef struct {
	Kind  TestKind
	Index int64
}

func (r TestRef) String() string {
	switch r.Kind {
	case TestRegular:
		return fmt.Sprintf("test %d", r.Index)
	case TestPretest:
		return fmt.Sprintf("pretest %d", r.Index)
	case TestHack:
		if r.Index == 0 {
			return "a hack"
		}
		return fmt.Sprintf("hack %d", r.Index)
	default:
		panic("bad test kind")
	}
}

// Verdict is the canonical outcome state of a submission, independent of
// the originating site's raw terminology.
type Verdict struct {
	Kind VerdictKind
	// Cause is set for some rejected verdicts; nil e.g. for challenged
	// submissions.
	Cause *RejectionCause
	// Test references the failing or currently running check, when known.
	Test *TestRef
	// Score holds the awarded points for scored verdicts.
	Score float64
}

func Accepted() Verdict { return Verdict{Kind: VerdictAccepted} }

func Skipped() Verdict { return Verdict{Kind: VerdictSkipped} }

func Pending(test *TestRef) Verdict { return Verdict{Kind: VerdictPending, Test: test} }

func Scored(points float64) Verdict { return Verdict{Kind: VerdictScored, Score: points} }

func Rejected(cause *RejectionCause, test *TestRef) Verdict {
	return Verdict{Kind: VerdictRejected, Cause: cause, Test: test}
}

func CauseOf(c RejectionCause) *RejectionCause { return &c }

// Terminal reports whether the verdict ends a polling loop. Pending is the
// only non-terminal state.
func (v Verdict) Terminal() bool {
	return v.Kind != VerdictPending
}

func (v Verdict) String() string {
	switch v.Kind {
	case VerdictAccepted:
		return "accepted"
	case VerdictSkipped:
		return "skipped"
	case VerdictScored:
		return fmt.Sprintf("scored %v points", v.Score)
	case VerdictPending:
		if v.Test != nil {
			return fmt.Sprintf("running on %v", v.Test)
		}
		return "in queue"
	case VerdictRejected:
		switch {
		case v.Cause != nil && v.Test != nil:
			return fmt.Sprintf("%v on %v", v.Cause, v.Test)
		case v.Cause != nil:
			return v.Cause.String()
		case v.Test != nil:
			return fmt.Sprintf("rejected on %v", v.Test)
		default:
			return "rejected"
		}
	default:
		panic("bad verdict kind")
	}
}
