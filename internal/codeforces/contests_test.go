package codeforces

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ojtool/internal/judge"
)

func TestContestTasks(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contest/4/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, contestPage)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	tasks, err := client.ContestTasks(context.Background(), Contest{Source: SourceContest, ID: "4"})
	require.NoError(t, err)
	assert.Equal(t, []judge.ContestTask{
		{Symbol: "A", Title: "Watermelon"},
		{Symbol: "B", Title: "Before an Exam"},
	}, tasks)
}

func TestContestTasksNotYetStarted(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contest/9999/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>Contest has not started yet</body></html>")
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.ContestTasks(context.Background(), Contest{Source: SourceContest, ID: "9999"})
	require.Error(t, err)
	assert.ErrorIs(t, err, judge.ErrNotYetStarted)
}

func TestContests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contests", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<div id="pageContent"><div class="contestList">
<div class="datatable"><table>
<tr><th>Name</th><th>Writers</th><th>Start</th></tr>
<tr data-contestid="2100"><td>Codeforces Round 999 (Div. 2)<br/><a href="/registration">Register</a></td>
<td><a href="/profile/setter">setter</a></td>
<td><a href="https://www.timeanddate.com/worldclock/fixedtime.html?day=1&amp;month=9&amp;year=2026&amp;hour=17&amp;min=35&amp;sec=0&amp;p1=166">Sep/01/2026 17:35</a></td></tr>
<tr data-contestid="2101"><td>Educational Round 180</td>
<td><a href="/profile/setter2">setter2</a></td>
<td><a href="https://www.timeanddate.com/worldclock/fixedtime.html?day=12&amp;month=10&amp;year=2026&amp;hour=12&amp;min=0&amp;sec=0&amp;p1=166">Oct/12/2026 12:00</a></td></tr>
</table></div>
</div></div>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	contests, err := client.Contests(context.Background())
	require.NoError(t, err)
	require.Len(t, contests, 2)

	assert.Equal(t, Contest{Source: SourceContest, ID: "2100"}, contests[0].Contest)
	assert.Equal(t, "Codeforces Round 999 (Div. 2)", contests[0].Title)
	assert.True(t, contests[0].StartsAt.Equal(
		time.Date(2026, time.September, 1, 17, 35, 0, 0, moscowTime)))

	assert.Equal(t, Contest{Source: SourceContest, ID: "2101"}, contests[1].Contest)
	assert.Equal(t, "Educational Round 180", contests[1].Title)
	assert.True(t, contests[1].StartsAt.Equal(
		time.Date(2026, time.October, 12, 12, 0, 0, 0, moscowTime)))
}

func TestContestsBadStartLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contests", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<div id="pageContent"><div class="contestList">
<div class="datatable"><table>
<tr><th>Name</th></tr>
<tr data-contestid="2100"><td>Round</td><td>w</td><td><a href="/no-time-here">soon</a></td></tr>
</table></div>
</div></div>
</body></html>`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()
	client := newTestClient(t, srv)

	_, err := client.Contests(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeanddate")
}

func TestParseStartTime(t *testing.T) {
	start, err := parseStartTime(
		"https://www.timeanddate.com/worldclock/fixedtime.html?day=1&month=9&year=2026&hour=17&min=35&sec=0&p1=166")
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2026, time.September, 1, 17, 35, 0, 0, moscowTime)))

	_, err = parseStartTime("https://www.timeanddate.com/worldclock/fixedtime.html?day=1&month=9")
	assert.Error(t, err)
}
