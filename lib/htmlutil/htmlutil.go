package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

type EventKind int

const (
	StartTag EventKind = iota
	EndTag
	Text
)

// Event is one start-tag, end-tag or text occurrence in a markup fragment.
// Tag names and attribute keys are lowercased by the tokenizer.
type Event struct {
	Kind  EventKind
	Tag   string
	Attrs []html.Attribute
	Data  string
}

// Attr returns the value of the attribute with the given key and whether
// the attribute is present at all.
func (e Event) Attr(key string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// EventReader turns a markup fragment into a finite sequence of tag events
// without building a DOM tree. The portal emits table fragments that are
// not well-formed documents, which the tokenizer tolerates where a parser
// would not. A reader is good for exactly one fragment, create a new one
// per feed.
type EventReader struct {
	z          *html.Tokenizer
	pendingEnd string
}

func NewEventReader(markup string) *EventReader {
	return &EventReader{z: html.NewTokenizer(strings.NewReader(markup))}
}

// Next returns the next event, or ok=false once the fragment is exhausted.
// Self-closing tags produce a start event immediately followed by an end
// event. Comments and doctypes are skipped.
func (r *EventReader) Next() (Event, bool) {
	if r.pendingEnd != "" {
		tag := r.pendingEnd
		r.pendingEnd = ""
		return Event{Kind: EndTag, Tag: tag}, true
	}

	for {
		switch r.z.Next() {
		case html.ErrorToken:
			return Event{}, false
		case html.StartTagToken:
			t := r.z.Token()
			return Event{Kind: StartTag, Tag: t.Data, Attrs: t.Attr}, true
		case html.SelfClosingTagToken:
			t := r.z.Token()
			r.pendingEnd = t.Data
			return Event{Kind: StartTag, Tag: t.Data, Attrs: t.Attr}, true
		case html.EndTagToken:
			t := r.z.Token()
			return Event{Kind: EndTag, Tag: t.Data}, true
		case html.TextToken:
			t := r.z.Token()
			if t.Data == "" {
				continue
			}
			return Event{Kind: Text, Data: t.Data}, true
		}
	}
}
