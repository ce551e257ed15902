package jwc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"bnuportal/lib/scrapers/jwc/extract"

	"go.opentelemetry.io/otel/codes"
)

type param struct {
	key   string
	value string
}

// joinParams renders named parameters in the given order without url
// escaping. The plaintext handed to the signer is decrypted and parsed
// verbatim by the server, which chokes on percent-escapes (njzy carries
// a raw `|`).
func joinParams(params ...param) string {
	var b strings.Builder
	for i, p := range params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(p.key)
		b.WriteByte('=')
		b.WriteString(p.value)
	}
	return b.String()
}

// tableRecords posts a listing query and parses the returned DataTable
// fragment into records.
func (c *Client) tableRecords(ctx context.Context, tableId string, form url.Values, query string) ([]extract.Record, error) {
	link := c.base + tablePath + tableId
	if query != "" {
		link += "&" + query
	}
	res, err := c.Http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		Post(link)
	if err != nil {
		return nil, err
	}
	return c.rows.Feed(res.String()), nil
}

// submitSigned signs the plaintext parameter string and posts it to a
// mutating endpoint, decoding the JSON result.
func (c *Client) submitSigned(ctx context.Context, path, params string) (ActionResult, error) {
	ctx, span := tracer.Start(ctx, "client:submitSigned")
	defer span.End()

	payload, err := c.signParams(ctx, params)
	if err != nil {
		return ActionResult{}, err
	}

	res, err := c.Http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"params":    payload.Params,
			"token":     payload.Token,
			"timestamp": payload.Timestamp,
		}).
		Post(c.base + path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "signed submit failed")
		return ActionResult{}, err
	}

	var out ActionResult
	if err := json.Unmarshal(res.Body(), &out); err != nil {
		span.SetStatus(codes.Error, "undecodable action result")
		return ActionResult{}, fmt.Errorf("decode action result: %w", err)
	}
	return out, nil
}

// PlanCourses lists the courses of the student's training plan. With
// showFull false the portal hides sections that are already at capacity.
func (c *Client) PlanCourses(ctx context.Context, showFull bool) ([]extract.Record, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("initQry", "0")
	form.Set("xktype", "2")
	form.Set("xh", info.StudentId)
	form.Set("xn", info.Year)
	form.Set("xq", info.Semester)
	form.Set("nj", info.Grade)
	form.Set("zydm", info.Program)
	form.Set("items", "")
	form.Set("is_xjls", "undefined")
	form.Set("kcfw", "zxbnj")
	form.Set("njzy", info.Grade+"|"+info.Program)
	form.Set("lbgl", "")
	form.Set("kcmc", "")
	form.Set("kkdw_range", "all")
	form.Set("sel_cddwdm", "")
	form.Set("menucode_current", "JW130403")
	form.Set("btnFilter", "类别过滤")
	form.Set("btnSubmit", "提交")
	if !showFull {
		form.Set("xwxmkc", "on")
	}
	return c.tableRecords(ctx, planCoursesTable, form, "")
}

// ElectiveCourses lists the school-wide elective sections.
func (c *Client) ElectiveCourses(ctx context.Context, showFull bool) ([]extract.Record, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("initQry", "0")
	form.Set("xktype", "2")
	form.Set("xh", info.StudentId)
	form.Set("xn", info.Year)
	form.Set("xq", info.Semester)
	form.Set("nj", info.Grade)
	form.Set("zydm", info.Program)
	form.Set("kcdm", "")
	form.Set("kclb1", "")
	form.Set("kclb2", "")
	form.Set("khfs", "")
	form.Set("skbjdm", "")
	form.Set("skbzdm", "")
	form.Set("xf", "")
	form.Set("kcfw", "zxggrx")
	form.Set("njzy", info.Grade+"|"+info.Program)
	form.Set("items", "")
	form.Set("is_xjls", "undefined")
	form.Set("kcmc", "")
	form.Set("menucode_current", "JW130415")
	if !showFull {
		form.Set("xwxmkc", "on")
	}
	return c.tableRecords(ctx, electiveCoursesTable, form, "")
}

// CancelableCourses lists the selections that may still be withdrawn.
func (c *Client) CancelableCourses(ctx context.Context) ([]extract.Record, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}

	form := url.Values{}
	form.Set("xktype", "5")
	form.Set("xh", info.StudentId)
	form.Set("xn", info.Year)
	form.Set("xq", info.Semester)
	form.Set("nj", info.Grade)
	form.Set("zydm", info.Program)
	form.Set("items", "")
	form.Set("kcfw", "All")
	form.Set("menucode_current", "JW130406")
	form.Set("btnQry", "检索")
	return c.tableRecords(ctx, cancelableTable, form, "")
}

// ViewPlanCourse lists the concrete sections of one planned course.
func (c *Client) ViewPlanCourse(ctx context.Context, course extract.Record) ([]extract.Record, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return nil, err
	}

	query := joinParams(
		param{"xn", info.Year},
		param{"xq_m", info.Semester},
		param{"xh", info.StudentId},
		param{"kcdm", course["kcdm"]},
		param{"skbjdm", ""},
		param{"xktype", "2"},
		param{"kcfw", "zxbnj"},
	)

	form := url.Values{}
	form.Set("initQry", "0")
	form.Set("electiveCourseForm.xktype", "2")
	form.Set("electiveCourseForm.xh", info.StudentId)
	form.Set("electiveCourseForm.xn", info.Year)
	form.Set("electiveCourseForm.xq", info.Semester)
	form.Set("electiveCourseForm.nj", info.Grade)
	form.Set("electiveCourseForm.zydm", info.Program)
	form.Set("electiveCourseForm.kcdm", course["kcdm"])
	form.Set("electiveCourseForm.kclb1", course["kclb1"])
	form.Set("electiveCourseForm.kclb2", course["kclb2"])
	form.Set("electiveCourseForm.kclb3", "")
	form.Set("electiveCourseForm.khfs", course["khfs"])
	form.Set("electiveCourseForm.skbjdm", "")
	form.Set("electiveCourseForm.skbzdm", "")
	form.Set("electiveCourseForm.xf", course["xf"])
	form.Set("electiveCourseForm.is_checkTime", "1")
	form.Set("kknj", "")
	form.Set("kkzydm", "")
	form.Set("txt_skbjdm", "")
	form.Set("electiveCourseForm.xk_points", "0")
	form.Set("electiveCourseForm.is_buy_book", "")
	form.Set("electiveCourseForm.is_cx", "")
	form.Set("electiveCourseForm.is_yxtj", "")
	form.Set("menucode_current", "JW130403")
	return c.tableRecords(ctx, planSectionsTable, form, query)
}

func electiveSelectionParams(info StudentInfo, course extract.Record) string {
	return joinParams(
		param{"xktype", "2"},
		param{"initQry", "0"},
		param{"xh", info.StudentId},
		param{"xn", info.Year},
		param{"xq", info.Semester},
		param{"nj", info.Grade},
		param{"zydm", info.Program},
		param{"kcdm", course["kcdm"]},
		param{"kclb1", course["kclb1"]},
		param{"kclb2", course["kclb2"]},
		param{"khfs", course["khfs"]},
		param{"skbjdm", course["skbjdm"]},
		param{"skbzdm", ""},
		param{"xf", course["xf"]},
		param{"kcfw", "zxggrx"},
		param{"njzy", info.Grade + "|" + info.Program},
		param{"items", ""},
		param{"is_xjls", "undefined"},
		param{"kcmc", ""},
		param{"t_skbh", ""},
		param{"menucode_current", "JW130415"},
	)
}

func planSelectionParams(info StudentInfo, course, section extract.Record) string {
	return joinParams(
		param{"xktype", "2"},
		param{"xn", info.Year},
		param{"xq", info.Semester},
		param{"xh", info.StudentId},
		param{"nj", info.Grade},
		param{"zydm", info.Program},
		param{"kcdm", course["kcdm"]},
		param{"kclb1", course["kclb1"]},
		param{"kclb2", course["kclb2"]},
		param{"kclb3", ""},
		param{"khfs", course["khfs"]},
		param{"skbjdm", section["skbjdm"]},
		param{"skbzdm", ""},
		param{"xf", course["xf"]},
		param{"is_checkTime", "1"},
		param{"kknj", ""},
		param{"kkzydm", ""},
		param{"txt_skbjdm", ""},
		param{"xk_points", "0"},
		param{"is_buy_book", "0"},
		param{"is_cx", "0"},
		param{"is_yxtj", "1"},
		param{"menucode_current", "JW130403"},
		param{"kcfw", "zxbnj"},
	)
}

func cancellationParams(info StudentInfo, course extract.Record) string {
	return joinParams(
		param{"xn", info.Year},
		param{"xq", info.Semester},
		param{"xh", info.StudentId},
		param{"kcdm", course["kcdm"]},
		param{"skbjdm", course["skbjdm"]},
		param{"xktype", "5"},
	)
}

// SelectElectiveCourse submits a signed enrollment request for an
// elective section returned by ElectiveCourses.
func (c *Client) SelectElectiveCourse(ctx context.Context, course extract.Record) (ActionResult, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return ActionResult{}, err
	}
	return c.submitSigned(ctx, selectPath, electiveSelectionParams(info, course))
}

// SelectPlanCourse submits a signed enrollment request for one section
// (from ViewPlanCourse) of a planned course (from PlanCourses).
func (c *Client) SelectPlanCourse(ctx context.Context, course, section extract.Record) (ActionResult, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return ActionResult{}, err
	}
	return c.submitSigned(ctx, selectPath, planSelectionParams(info, course, section))
}

// CancelCourse withdraws a selection returned by CancelableCourses.
func (c *Client) CancelCourse(ctx context.Context, course extract.Record) (ActionResult, error) {
	info, err := c.StudentInfo(ctx)
	if err != nil {
		return ActionResult{}, err
	}
	return c.submitSigned(ctx, cancelPath, cancellationParams(info, course))
}
