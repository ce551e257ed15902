package jwc

import (
	"context"
	"net/url"

	"bnuportal/lib/scrapers/jwc/extract"
)

// ExamArrangements returns the exam schedule grids for the current
// semester. The page carries no name annotations, only positional cells.
func (c *Client) ExamArrangements(ctx context.Context) ([]extract.Grid, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("xh", info.StudentId)
	form.Set("xn", info.Year)
	form.Set("xq_m", info.Semester)

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(c.base + examsPath)
	if err != nil {
		return nil, err
	}
	return c.grid.Feed(res.String(), false), nil
}

// Scores returns the score grids for one semester. Strict extraction:
// the first column is legitimately blank on the continuation rows of a
// semester group, and collapsing it would shift every grade one column
// to the left.
func (c *Client) Scores(ctx context.Context, year, semester string) ([]extract.Grid, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}
	if year == "" {
		year = info.Year
	}
	if semester == "" {
		semester = info.Semester
	}

	form := url.Values{}
	form.Set("xh", info.StudentId)
	form.Set("sjxz", "sjxz3")
	form.Set("ysyx", "yscj")
	form.Set("userCode", info.StudentId)
	form.Set("xn", year)
	form.Set("xq", semester)
	form.Set("ok", "")

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(c.base + scoresPath)
	if err != nil {
		return nil, err
	}
	return c.grid.Feed(res.String(), true), nil
}
