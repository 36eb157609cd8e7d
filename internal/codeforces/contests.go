package codeforces

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"ojtool/internal/judge"
)

// moscowTime is the zone contest start times are published in.
var moscowTime = time.FixedZone("MSK", 3*3600)

// ContestTasks lists the (symbol, title) pairs of the contest's task
// table. A redirect away from the contest page means the contest has not
// started and its task list is withheld.
func (c *Client) ContestTasks(ctx context.Context, contest judge.Resource) ([]judge.ContestTask, error) {
	ct, err := c.asContest(contest)
	if err != nil {
		return nil, err
	}
	pageURL := c.contestURL(ct)
	requested, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad contest url: %v", judge.ErrStateCorruption, err)
	}
	doc, final, err := c.getPage(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !sameLocation(final, requested) {
		return nil, judge.ErrNotYetStarted
	}
	problems, err := doc.Find(".problems")
	if err != nil {
		return nil, err
	}
	rows := problems.FindAll("tr")
	if len(rows) == 0 {
		return nil, problems.Fail("task table rows")
	}
	var tasks []judge.ContestTask
	for _, row := range rows[1:] { // first row is the header
		symbol, err := row.FindNth("a", 0)
		if err != nil {
			return nil, err
		}
		title, err := row.FindNth("a", 1)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, judge.ContestTask{Symbol: symbol.Text(), Title: title.Text()})
	}
	return tasks, nil
}

// Contests scrapes the upcoming/running contest list. Start times are
// recovered from each row's timeanddate link, which spells the Moscow wall
// clock out in its query parameters.
func (c *Client) Contests(ctx context.Context) ([]judge.ContestDetails, error) {
	doc, _, err := c.getPage(ctx, c.base+"/contests")
	if err != nil {
		return nil, err
	}
	list, err := doc.Find("#pageContent > .contestList")
	if err != nil {
		return nil, err
	}
	table, err := list.Find(".datatable table")
	if err != nil {
		return nil, err
	}
	var contests []judge.ContestDetails
	for _, row := range table.FindAll("tr[data-contestid]") {
		id, err := row.Attr("data-contestid")
		if err != nil {
			return nil, err
		}
		titleCell, err := row.FindNth("td", 0)
		if err != nil {
			return nil, err
		}
		title, err := titleCell.TextChild(0)
		if err != nil {
			return nil, err
		}
		startCell, err := row.FindNth("td", 2)
		if err != nil {
			return nil, err
		}
		startLink, err := startCell.Find("a")
		if err != nil {
			return nil, err
		}
		href, err := startLink.Attr("href")
		if err != nil {
			return nil, err
		}
		start, err := parseStartTime(href)
		if err != nil {
			return nil, startLink.Fail("timeanddate start link, got %q: %v", href, err)
		}
		contests = append(contests, judge.ContestDetails{
			Contest:  Contest{Source: SourceContest, ID: id},
			Title:    title,
			StartsAt: start,
		})
	}
	return contests, nil
}

func parseStartTime(href string) (time.Time, error) {
	u, err := url.Parse(href)
	if err != nil {
		return time.Time{}, err
	}
	q := u.Query()
	fields := make(map[string]int, 6)
	for _, name := range []string{"year", "month", "day", "hour", "min", "sec"} {
		v, err := strconv.Atoi(q.Get(name))
		if err != nil {
			return time.Time{}, fmt.Errorf("query parameter %q: %w", name, err)
		}
		fields[name] = v
	}
	return time.Date(
		fields["year"], time.Month(fields["month"]), fields["day"],
		fields["hour"], fields["min"], fields["sec"], 0, moscowTime,
	), nil
}
