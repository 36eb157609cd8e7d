package codeforces

import (
	"context"
	"strconv"
	"strings"

	"ojtool/internal/judge"
	"ojtool/internal/scrape"
)

// Submissions scrapes the submission list relevant to the task: the
// contest-scoped "my submissions" page for contests and gyms, or the
// user-scoped global page for the problemset. Rows come most recent first.
func (c *Client) Submissions(ctx context.Context, task judge.Resource) ([]judge.Submission, error) {
	t, err := c.asTask(task)
	if err != nil {
		return nil, err
	}
	var listURL string
	switch t.Contest.Source {
	case SourceContest, SourceGym:
		listURL = c.contestURL(t.Contest) + "my"
	case SourceProblemset:
		user, err := c.reqUser()
		if err != nil {
			return nil, err
		}
		listURL = c.base + "/submissions/" + user
	default:
		panic("bad contest source")
	}
	doc, _, err := c.getPage(ctx, listURL)
	if err != nil {
		return nil, err
	}

	var submissions []judge.Submission
	for _, row := range doc.FindAll("[data-submission-id]") {
		sub, err := parseSubmissionRow(row)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, sub)
	}
	return submissions, nil
}

func parseSubmissionRow(row scrape.Node) (judge.Submission, error) {
	cells := row.FindAll("td")
	if len(cells) < 6 {
		return judge.Submission{}, row.Fail("submission row with at least 6 cells, got %d", len(cells))
	}
	idNode, err := cells[0].Child(1)
	if err != nil {
		return judge.Submission{}, err
	}
	id := idNode.Text()
	verdict, err := parseVerdict(cells[5])
	if err != nil {
		return judge.Submission{}, err
	}
	return judge.Submission{ID: id, Verdict: verdict}, nil
}

// parseVerdict maps a raw verdict cell into the canonical verdict state
// machine. The cell either carries one of two plain queue states or a span
// tagged with the site's verdict identifier. Any tag outside the known set
// is a parse error, never a default verdict.
func parseVerdict(cell scrape.Node) (judge.Verdict, error) {
	switch cell.Text() {
	case "In queue":
		return judge.Pending(nil), nil
	case "Running":
		return judge.Pending(nil), nil
	}
	span, err := cell.Find("span")
	if err != nil {
		return judge.Verdict{}, err
	}
	tag, err := span.Attr("submissionverdict")
	if err != nil {
		return judge.Verdict{}, err
	}
	switch tag {
	case "OK":
		return judge.Accepted(), nil
	case "WRONG_ANSWER":
		ref, err := scrapeTestRef(span)
		if err != nil {
			return judge.Verdict{}, err
		}
		return judge.Rejected(judge.CauseOf(judge.CauseWrongAnswer), ref), nil
	case "COMPILATION_ERROR":
		return judge.Rejected(judge.CauseOf(judge.CauseCompilationError), nil), nil
	case "TESTING":
		ref, err := scrapeTestRef(span)
		if err != nil {
			return judge.Verdict{}, err
		}
		return judge.Pending(ref), nil
	case "RUNTIME_ERROR":
		ref, err := scrapeTestRef(span)
		if err != nil {
			return judge.Verdict{}, err
		}
		return judge.Rejected(judge.CauseOf(judge.CauseRuntimeError), ref), nil
	case "TIME_LIMIT_EXCEEDED":
		ref, err := scrapeTestRef(span)
		if err != nil {
			return judge.Verdict{}, err
		}
		return judge.Rejected(judge.CauseOf(judge.CauseTimeLimit), ref), nil
	case "MEMORY_LIMIT_EXCEEDED":
		ref, err := scrapeTestRef(span)
		if err != nil {
			return judge.Verdict{}, err
		}
		return judge.Rejected(judge.CauseOf(judge.CauseMemoryLimit), ref), nil
	case "PARTIAL":
		pointsNode, err := span.Find(".verdict-format-points")
		if err != nil {
			return judge.Verdict{}, err
		}
		points, err := strconv.ParseFloat(pointsNode.Text(), 64)
		if err != nil {
			return judge.Verdict{}, pointsNode.Fail("numeric score, got %q", pointsNode.Text())
		}
		return judge.Scored(points), nil
	case "SKIPPED":
		return judge.Skipped(), nil
	case "CHALLENGED":
		return judge.Rejected(nil, &judge.TestRef{Kind: judge.TestHack}), nil
	default:
		return judge.Verdict{}, span.Fail("unrecognized verdict tag %q", tag)
	}
}

// scrapeTestRef derives the test reference from the verdict span: the kind
// comes from the descriptive text (checked for "hack", then "pretest",
// then "test"), the 1-based index from the adjacent judged counter.
func scrapeTestRef(span scrape.Node) (*judge.TestRef, error) {
	inner, err := span.Child(0)
	if err != nil {
		return nil, err
	}
	desc, err := inner.TextChild(0)
	if err != nil {
		return nil, err
	}
	counter, err := span.Find(".verdict-format-judged")
	if err != nil {
		return nil, err
	}
	index, err := strconv.ParseInt(counter.Text(), 10, 64)
	if err != nil {
		return nil, counter.Fail("numeric judged counter, got %q", counter.Text())
	}
	var kind judge.TestKind
	switch {
	case strings.Contains(desc, "hack"):
		kind = judge.TestHack
	case strings.Contains(desc, "pretest"):
		kind = judge.TestPretest
	case strings.Contains(desc, "test"):
		kind = judge.TestRegular
	default:
		return nil, inner.Fail("test reference text mentioning hack, pretest or test, got %q", desc)
	}
	return &judge.TestRef{Kind: kind, Index: index}, nil
}
