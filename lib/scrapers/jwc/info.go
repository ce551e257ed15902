package jwc

import (
	"context"
	"encoding/xml"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/codes"
)

// StudentInfo is the identity record the portal resolves for the logged
// in account. Every listing and selection request embeds these fields.
type StudentInfo struct {
	Year        string // xn, school year
	Semester    string // xq_m
	Grade       string // nj
	StudentId   string // xh
	Program     string // zydm, program code
	ProgramName string // zymc
}

// the info endpoint answers with a small two-level document: one leaf
// element followed by a container of leaf elements
type xmlNode struct {
	XMLName  xml.Name
	Text     string    `xml:",chardata"`
	Children []xmlNode `xml:",any"`
}

func parseStudentInfo(body []byte) (StudentInfo, error) {
	var root xmlNode
	if err := xml.Unmarshal(body, &root); err != nil {
		return StudentInfo{}, fmt.Errorf("decode student info: %w", err)
	}

	fields := map[string]string{}
	if len(root.Children) > 0 {
		first := root.Children[0]
		fields[first.XMLName.Local] = strings.TrimSpace(first.Text)
	}
	if len(root.Children) > 1 {
		for _, e := range root.Children[1].Children {
			fields[e.XMLName.Local] = strings.TrimSpace(e.Text)
		}
	}

	return StudentInfo{
		Year:        fields["xn"],
		Semester:    fields["xq_m"],
		Grade:       fields["nj"],
		StudentId:   fields["xh"],
		Program:     fields["zydm"],
		ProgramName: fields["zymc"],
	}, nil
}

// StudentInfo fetches the identity attributes, once. The result is cached
// for the session's lifetime; every domain operation calls this lazily.
func (c *Client) StudentInfo(ctx context.Context) (StudentInfo, error) {
	if c.info != nil {
		return *c.info, nil
	}

	ctx, span := tracer.Start(ctx, "client:StudentInfo")
	defer span.End()

	res, err := c.Http.R().
		SetContext(ctx).
		Post(c.base + studentInfoPath)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch student info")
		return StudentInfo{}, err
	}

	info, err := parseStudentInfo(res.Body())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to parse student info")
		return StudentInfo{}, err
	}
	c.info = &info
	return info, nil
}
