package extract

import (
	"strings"

	"bnuportal/lib/htmlutil"
)

// Grid is the positional cell text of one `table` block, row by row.
type Grid [][]string

// GridTable extracts positional cell values from fragments whose cells
// carry no name annotations, e.g. the score and exam arrangement pages.
// Header rows (inside thead) are skipped. Exactly one level of "inside
// table" state is tracked, so nested tables degrade to flat capture.
type GridTable struct {
	strict   bool
	inTable  bool
	inHeader bool
	inRow    bool
	inCell   bool
	cellSet  bool
	cell     string
	row      []string
	rows     Grid
	grids    []Grid
}

// Feed parses one fragment and returns one Grid per table block that
// produced rows. In strict mode every cell position is preserved,
// including blanks. Otherwise leading blank cells of a row are dropped
// and blanks are kept only once the row holds real data; the score pages
// need strict mode because a blank first column is the label continuation
// of a multi-row semester group.
func (p *GridTable) Feed(markup string, strict bool) []Grid {
	p.strict = strict
	p.inTable = false
	p.inHeader = false
	p.inRow = false
	p.inCell = false
	p.cellSet = false
	p.cell = ""
	p.row = nil
	p.rows = nil
	p.grids = nil

	r := htmlutil.NewEventReader(markup)
	for ev, ok := r.Next(); ok; ev, ok = r.Next() {
		switch ev.Kind {
		case htmlutil.StartTag:
			switch ev.Tag {
			case "table":
				p.inTable = true
			case "thead":
				p.inHeader = true
			case "tr":
				if p.inTable && !p.inHeader {
					p.inRow = true
					p.row = nil
				}
			case "td", "th":
				if p.inRow {
					p.inCell = true
					p.cellSet = false
					p.cell = ""
				}
			}
		case htmlutil.EndTag:
			switch ev.Tag {
			case "table":
				if p.inTable && len(p.rows) > 0 {
					p.grids = append(p.grids, p.rows)
				}
				p.rows = nil
				p.inTable = false
			case "thead":
				p.inHeader = false
			case "tr":
				if p.inRow && len(p.row) > 0 {
					p.rows = append(p.rows, p.row)
				}
				p.row = nil
				p.inRow = false
			case "td", "th":
				if p.inCell {
					if p.strict || len(p.row) > 0 || p.cell != "" {
						p.row = append(p.row, p.cell)
					}
					p.inCell = false
				}
			}
		case htmlutil.Text:
			// only the first non-blank fragment of a cell counts
			if p.inCell && !p.cellSet {
				if t := strings.TrimSpace(ev.Data); t != "" {
					p.cell = t
					p.cellSet = true
				}
			}
		}
	}
	return p.grids
}
