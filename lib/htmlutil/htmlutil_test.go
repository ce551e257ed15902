package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func collect(markup string) []Event {
	var events []Event
	r := NewEventReader(markup)
	for ev, ok := r.Next(); ok; ev, ok = r.Next() {
		events = append(events, ev)
	}
	return events
}

func TestEventReaderRaggedFragment(t *testing.T) {
	// the portal emits bare row fragments with no table or html wrapper
	events := collect(`<tr><td name="kc">Algebra</td>`)

	require.Len(t, events, 4)
	require.Equal(t, StartTag, events[0].Kind)
	require.Equal(t, "tr", events[0].Tag)

	require.Equal(t, StartTag, events[1].Kind)
	require.Equal(t, "td", events[1].Tag)
	name, ok := events[1].Attr("name")
	require.True(t, ok)
	require.Equal(t, "kc", name)

	require.Equal(t, Text, events[2].Kind)
	require.Equal(t, "Algebra", events[2].Data)

	require.Equal(t, EndTag, events[3].Kind)
	require.Equal(t, "td", events[3].Tag)
}

func TestEventReaderSelfClosing(t *testing.T) {
	events := collect(`<input type="radio" value="1@a"/>`)

	require.Len(t, events, 2)
	require.Equal(t, StartTag, events[0].Kind)
	require.Equal(t, "input", events[0].Tag)
	require.Equal(t, EndTag, events[1].Kind)
	require.Equal(t, "input", events[1].Tag)
}

func TestEventReaderSkipsComments(t *testing.T) {
	events := collect(`<!-- header --><td>x</td>`)

	require.Len(t, events, 3)
	require.Equal(t, StartTag, events[0].Kind)
}

func TestEventReaderMissingAttr(t *testing.T) {
	events := collect(`<td class="wide">x</td>`)

	_, ok := events[0].Attr("name")
	require.False(t, ok)
}

func TestGetText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<div>a<span>b</span>c</div>`))
	require.NoError(t, err)

	var div *html.Node
	var find func(*html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			div = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	require.NotNil(t, div)
	require.Equal(t, "abc", GetText(div))
}
