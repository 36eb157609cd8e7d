package codeforces

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"ojtool/internal/judge"
	"ojtool/internal/scrape"
)

// FetchStatement resolves the task's canonical URL and extracts its
// statement. When the site serves an HTML statement the final URL equals
// the requested one; otherwise the request was redirected to a page
// carrying a link to a binary (PDF) statement document.
func (c *Client) FetchStatement(ctx context.Context, task judge.Resource) (*judge.TaskDetails, error) {
	t, err := c.asTask(task)
	if err != nil {
		return nil, err
	}
	symbol, err := c.resolveSymbol(ctx, t)
	if err != nil {
		return nil, err
	}
	taskURL := c.taskURL(t, symbol)
	requested, err := url.Parse(taskURL)
	if err != nil {
		return nil, fmt.Errorf("%w: bad task url: %v", judge.ErrStateCorruption, err)
	}
	doc, final, err := c.getPage(ctx, taskURL)
	if err != nil {
		return nil, err
	}

	var ext *extractedStatement
	if sameLocation(final, requested) {
		ext, err = extractStatement(doc, c.base)
	} else {
		ext, err = c.pdfStatement(ctx, doc, t, symbol)
	}
	if err != nil {
		return nil, err
	}

	return &judge.TaskDetails{
		Symbol:    ext.symbol,
		Title:     ext.title,
		ContestID: prettyContest(t),
		URL:       taskURL,
		Examples:  ext.examples,
		Statement: ext.statement,
	}, nil
}

// resolveSymbol maps a task id to a concrete symbol. The Zero sentinel is
// resolved against the contest's task list; when the list cannot be
// consulted or is empty, the hardcoded "A" guess is used. Known
// approximation, see TaskID.
func (c *Client) resolveSymbol(ctx context.Context, t Task) (string, error) {
	if !t.ID.Zero {
		return t.ID.Symbol, nil
	}
	tasks, err := c.ContestTasks(ctx, t.Contest)
	if err != nil || len(tasks) == 0 {
		return "A", nil
	}
	return tasks[0].Symbol, nil
}

type extractedStatement struct {
	symbol    string
	title     string
	examples  []judge.Example
	statement *judge.Statement
}

// extractStatement pulls symbol, title and sample tests out of an HTML
// statement page and rewrites the statement fragment for embedded display.
func extractStatement(doc *scrape.Doc, base string) (*extractedStatement, error) {
	titleNode, err := doc.Find(".problem-statement > .header > .title")
	if err != nil {
		return nil, err
	}
	full := titleNode.Text()
	dot := strings.Index(full, ".")
	if dot < 0 {
		// The convention is "A. Task Name"; a missing separator means the
		// page layout changed.
		return nil, titleNode.Fail("problem title %q has no symbol prefix", full)
	}
	symbol := strings.TrimSpace(full[:dot])
	title := strings.TrimSpace(full[dot+1:])

	inputs := doc.FindAll(".sample-test .input")
	outputs := doc.FindAll(".sample-test .output")
	n := min(len(inputs), len(outputs))
	examples := make([]judge.Example, 0, n)
	for i := 0; i < n; i++ {
		in, err := inputs[i].Child(1)
		if err != nil {
			return nil, err
		}
		out, err := outputs[i].Child(1)
		if err != nil {
			return nil, err
		}
		examples = append(examples, judge.Example{Input: in.TextBr(), Output: out.TextBr()})
	}

	html, err := rewriteStatement(doc, base)
	if err != nil {
		return nil, err
	}
	return &extractedStatement{
		symbol:    symbol,
		title:     title,
		examples:  examples,
		statement: &judge.Statement{Kind: judge.StatementHTML, Data: []byte(html)},
	}, nil
}

// pdfStatement handles the redirect branch: locate the statement document
// link, fetch its bytes in full, and resolve symbol/title by scanning the
// owning contest's task list. Examples stay absent for binary statements.
func (c *Client) pdfStatement(ctx context.Context, doc *scrape.Doc, t Task, symbol string) (*extractedStatement, error) {
	link, err := doc.Find(".datatable > div > table > tbody > tr > td > a")
	if err != nil {
		return nil, err
	}
	href, err := link.Attr("href")
	if err != nil {
		return nil, err
	}
	pdf, err := c.getBytes(ctx, c.absoluteURL(href))
	if err != nil {
		return nil, err
	}
	tasks, err := c.ContestTasks(ctx, t.Contest)
	if err != nil {
		return nil, err
	}
	for _, ct := range tasks {
		if ct.Symbol == symbol {
			return &extractedStatement{
				symbol:    ct.Symbol,
				title:     ct.Title,
				statement: &judge.Statement{Kind: judge.StatementPDF, Data: pdf},
			}, nil
		}
	}
	return nil, &scrape.Error{
		Expectation: fmt.Sprintf("task %q in contest task list", symbol),
		Path:        ".problems",
	}
}
