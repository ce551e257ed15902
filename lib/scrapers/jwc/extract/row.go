// Package extract converts the portal's hand-rolled HTML table and form
// fragments into structured values. The fragments are not well-formed
// documents, so every extractor here is a small state machine over tag
// events rather than a DOM query.
package extract

import (
	"bnuportal/lib/htmlutil"
)

// Record is one parsed table row, keyed by the `name` attribute of the
// cell that produced each value. The field set varies by page; callers
// interpret fields by known name.
type Record map[string]string

// RowTable extracts one Record per `tr` from fragments where data cells
// carry a `name` attribute, e.g. the DataTable.jsp course listings.
// Re-entrant: every Feed call fully resets state first.
type RowTable struct {
	inRow bool
	field string
	row   Record
	rows  []Record
}

// Feed parses one fragment and returns its rows in document order. Rows
// that accumulated no fields are discarded.
func (p *RowTable) Feed(markup string) []Record {
	p.inRow = false
	p.field = ""
	p.row = Record{}
	p.rows = nil

	r := htmlutil.NewEventReader(markup)
	for ev, ok := r.Next(); ok; ev, ok = r.Next() {
		switch ev.Kind {
		case htmlutil.StartTag:
			switch ev.Tag {
			case "tr":
				p.inRow = true
				p.row = Record{}
			case "td":
				if !p.inRow {
					break
				}
				// only an attribute literally named "name" opens a field
				p.field = ""
				if v, ok := ev.Attr("name"); ok {
					p.field = v
				}
			}
		case htmlutil.EndTag:
			switch ev.Tag {
			case "tr":
				if len(p.row) > 0 {
					p.rows = append(p.rows, p.row)
					p.row = Record{}
				}
				p.inRow = false
			case "td":
				p.field = ""
			}
		case htmlutil.Text:
			if p.field != "" {
				// last write wins when a cell fires several text events
				p.row[p.field] = ev.Data
			}
		}
	}
	return p.rows
}
