package jwc

import (
	"context"
	"net/url"
	"sort"

	"bnuportal/lib/scrapers/jwc/extract"
)

// EvaluationForm fetches the teaching evaluation page for one selected
// course and returns the identifiers of its radio groups and free-text
// fields.
func (c *Client) EvaluationForm(ctx context.Context, course extract.Record) (extract.FieldSet, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return extract.FieldSet{}, err
	}

	form := url.Values{}
	form.Set("xh", info.StudentId)
	form.Set("xn", info.Year)
	form.Set("xq_m", info.Semester)
	form.Set("kcdm", course["kcdm"])
	form.Set("skbjdm", course["skbjdm"])

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(c.base + evalFormPath)
	if err != nil {
		return extract.FieldSet{}, err
	}
	return extract.FormFields(res.String()), nil
}

// EvaluationAnswers maps the identifiers from EvaluationForm to the
// chosen option per radio group and the entered text per free-text field.
type EvaluationAnswers struct {
	Radios map[string]string
	Texts  map[string]string
}

// SubmitEvaluation signs and submits one course evaluation. Answer
// fields are rendered in sorted identifier order so the signed plaintext
// is deterministic.
func (c *Client) SubmitEvaluation(ctx context.Context, course extract.Record, answers EvaluationAnswers) (ActionResult, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return ActionResult{}, err
	}

	params := []param{
		{"xh", info.StudentId},
		{"xn", info.Year},
		{"xq_m", info.Semester},
		{"kcdm", course["kcdm"]},
		{"skbjdm", course["skbjdm"]},
	}
	for _, id := range sortedKeys(answers.Radios) {
		params = append(params, param{id, answers.Radios[id]})
	}
	for _, id := range sortedKeys(answers.Texts) {
		params = append(params, param{id, answers.Texts[id]})
	}

	return c.submitSigned(ctx, evalSubmitPath, joinParams(params...))
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
