package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ojtool/internal/judge"
	"ojtool/internal/scrape"
)

func verdictCell(t *testing.T, inner string) scrape.Node {
	t.Helper()
	doc, err := scrape.ParseString("<table><tr><td>" + inner + "</td></tr></table>")
	require.NoError(t, err)
	cell, err := doc.Find("td")
	require.NoError(t, err)
	return cell
}

func TestParseVerdict(t *testing.T) {
	testCases := []struct {
		name string
		cell string
		want judge.Verdict
	}{
		{
			"in queue",
			`In queue`,
			judge.Pending(nil),
		},
		{
			"running",
			`Running`,
			judge.Pending(nil),
		},
		{
			"accepted",
			`<span class="verdict-accepted" submissionverdict="OK">Accepted</span>`,
			judge.Accepted(),
		},
		{
			"wrong answer on test",
			`<span submissionverdict="WRONG_ANSWER"><span class="verdict-rejected">Wrong answer on test <span class="verdict-format-judged">7</span></span></span>`,
			judge.Rejected(judge.CauseOf(judge.CauseWrongAnswer), &judge.TestRef{Kind: judge.TestRegular, Index: 7}),
		},
		{
			"wrong answer on pretest",
			`<span submissionverdict="WRONG_ANSWER"><span class="verdict-rejected">Wrong answer on pretest <span class="verdict-format-judged">2</span></span></span>`,
			judge.Rejected(judge.CauseOf(judge.CauseWrongAnswer), &judge.TestRef{Kind: judge.TestPretest, Index: 2}),
		},
		{
			"time limit",
			`<span submissionverdict="TIME_LIMIT_EXCEEDED"><span class="verdict-rejected">Time limit exceeded on test <span class="verdict-format-judged">14</span></span></span>`,
			judge.Rejected(judge.CauseOf(judge.CauseTimeLimit), &judge.TestRef{Kind: judge.TestRegular, Index: 14}),
		},
		{
			"memory limit",
			`<span submissionverdict="MEMORY_LIMIT_EXCEEDED"><span class="verdict-rejected">Memory limit exceeded on test <span class="verdict-format-judged">3</span></span></span>`,
			judge.Rejected(judge.CauseOf(judge.CauseMemoryLimit), &judge.TestRef{Kind: judge.TestRegular, Index: 3}),
		},
		{
			"runtime error",
			`<span submissionverdict="RUNTIME_ERROR"><span class="verdict-rejected">Runtime error on test <span class="verdict-format-judged">5</span></span></span>`,
			judge.Rejected(judge.CauseOf(judge.CauseRuntimeError), &judge.TestRef{Kind: judge.TestRegular, Index: 5}),
		},
		{
			"compilation error",
			`<span submissionverdict="COMPILATION_ERROR">Compilation error</span>`,
			judge.Rejected(judge.CauseOf(judge.CauseCompilationError), nil),
		},
		{
			"testing",
			`<span submissionverdict="TESTING"><span class="verdict-waiting">Running on pretest <span class="verdict-format-judged">4</span></span></span>`,
			judge.Pending(&judge.TestRef{Kind: judge.TestPretest, Index: 4}),
		},
		{
			"partial",
			`<span submissionverdict="PARTIAL"><span class="verdict-format-points">31.5</span> points</span>`,
			judge.Scored(31.5),
		},
		{
			"skipped",
			`<span submissionverdict="SKIPPED">Skipped</span>`,
			judge.Skipped(),
		},
		{
			"challenged",
			`<span submissionverdict="CHALLENGED">Hacked</span>`,
			judge.Rejected(nil, &judge.TestRef{Kind: judge.TestHack}),
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseVerdict(verdictCell(t, tc.cell))
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseVerdictUnknownTag(t *testing.T) {
	_, err := parseVerdict(verdictCell(t,
		`<span submissionverdict="IDLENESS_LIMIT_EXCEEDED">Idleness limit exceeded</span>`))
	require.Error(t, err)
	var serr *scrape.Error
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Expectation, "IDLENESS_LIMIT_EXCEEDED")
}

func TestParseVerdictBadTestRef(t *testing.T) {
	_, err := parseVerdict(verdictCell(t,
		`<span submissionverdict="WRONG_ANSWER"><span>Wrong answer somewhere <span class="verdict-format-judged">7</span></span></span>`))
	require.Error(t, err)
	var serr *scrape.Error
	assert.ErrorAs(t, err, &serr)
}

const submissionsPage = `<html><body>
<table class="status-frame-datatable">
<tr><th>#</th><th>When</th><th>Who</th><th>Problem</th><th>Lang</th><th>Verdict</th></tr>
<tr data-submission-id="301"><td>
<a href="/contest/4/submission/301">301</a>
</td><td>now</td><td>alice</td><td>A</td><td>GNU G++17</td>
<td>In queue</td></tr>
<tr data-submission-id="300"><td>
<a href="/contest/4/submission/300">300</a>
</td><td>earlier</td><td>alice</td><td>A</td><td>GNU G++17</td>
<td><span class="verdict-accepted" submissionverdict="OK">Accepted</span></td></tr>
</table>
</body></html>`

func TestSubmissions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contest/4/my", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, submissionsPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	task := Task{Contest: Contest{Source: SourceContest, ID: "4"}, ID: TaskID{Symbol: "A"}}
	submissions, err := client.Submissions(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, []judge.Submission{
		{ID: "301", Verdict: judge.Pending(nil)},
		{ID: "300", Verdict: judge.Accepted()},
	}, submissions)
}

func TestSubmissionsProblemsetRequiresUser(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	client := newTestClient(t, srv)

	task := Task{Contest: Contest{Source: SourceProblemset, ID: "4"}, ID: TaskID{Symbol: "A"}}
	_, err := client.Submissions(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrAccessDenied)
}

func TestSubmissionsProblemsetURL(t *testing.T) {
	var requested string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /submissions/alice", func(w http.ResponseWriter, r *http.Request) {
		requested = r.URL.Path
		fmt.Fprint(w, submissionsPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)
	client.setUser("alice")

	task := Task{Contest: Contest{Source: SourceProblemset, ID: "4"}, ID: TaskID{Symbol: "A"}}
	submissions, err := client.Submissions(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, "/submissions/alice", requested)
	assert.Len(t, submissions, 2)
}
