package extract

import (
	"log/slog"
	"strings"

	"bnuportal/lib/htmlutil"
)

// FieldSet holds the identifiers found on one evaluation form page:
// radio-button group ids and free-text entry ids. Both are deduplicated
// and unordered.
type FieldSet struct {
	Radios map[string]struct{}
	Texts  map[string]struct{}
}

// FormFields scans a form page for input/textarea tags. A radio input
// contributes the part of its value after the `@` delimiter to the radio
// set; a value without the delimiter is skipped with a warning (the
// portal has never been seen emitting one, and dropping a whole page over
// it would lose every well-formed field). Any tag carrying a `tmbh`
// attribute contributes that attribute's value to the text set.
func FormFields(markup string) FieldSet {
	fs := FieldSet{
		Radios: map[string]struct{}{},
		Texts:  map[string]struct{}{},
	}

	r := htmlutil.NewEventReader(markup)
	for ev, ok := r.Next(); ok; ev, ok = r.Next() {
		if ev.Kind != htmlutil.StartTag {
			continue
		}
		if v, ok := ev.Attr("tmbh"); ok {
			fs.Texts[v] = struct{}{}
		}
		if ev.Tag != "input" {
			continue
		}
		typ, _ := ev.Attr("type")
		if !strings.EqualFold(typ, "radio") {
			continue
		}
		value, _ := ev.Attr("value")
		i := strings.Index(value, "@")
		if i < 0 {
			slog.Warn("radio value without group delimiter", "value", value)
			continue
		}
		fs.Radios[value[i+1:]] = struct{}{}
	}
	return fs
}
