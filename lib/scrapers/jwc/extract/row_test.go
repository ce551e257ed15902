package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestRowTableBasic(t *testing.T) {
	var p RowTable
	got := p.Feed(`
		<tr>
			<td name="kc">[01]Algebra</td>
			<td name="rkjs">[02]Wang</td>
		</tr>
		<tr>
			<td name="kc">[03]Geometry</td>
		</tr>`)

	want := []Record{
		{"kc": "[01]Algebra", "rkjs": "[02]Wang"},
		{"kc": "[03]Geometry"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestRowTableDiscardsEmptyRow(t *testing.T) {
	var p RowTable
	got := p.Feed(`<tr><td name="kc"></td></tr>`)
	require.Empty(t, got)
}

func TestRowTableIgnoresUnnamedCells(t *testing.T) {
	// only an attribute literally called "name" opens a field; a class
	// attribute must never leak in as a field name
	var p RowTable
	got := p.Feed(`<tr><td class="kc">Algebra</td><td name="rkjs">Wang</td></tr>`)

	want := []Record{{"rkjs": "Wang"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestRowTableIgnoresCellsOutsideRows(t *testing.T) {
	var p RowTable
	got := p.Feed(`<td name="kc">stray</td>`)
	require.Empty(t, got)
}

func TestRowTableLastWriteWins(t *testing.T) {
	var p RowTable
	got := p.Feed(`<tr><td name="kc">first<b>second</b></td></tr>`)

	want := []Record{{"kc": "second"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestRowTableResetsBetweenFeeds(t *testing.T) {
	var p RowTable
	first := p.Feed(`<tr><td name="kc">one</td></tr>`)
	require.Len(t, first, 1)

	second := p.Feed(`<tr><td name="kc">two</td></tr>`)
	want := []Record{{"kc": "two"}}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatal(diff)
	}

	// a feed that yields nothing must not resurrect older rows
	require.Empty(t, p.Feed(`<p>no tables here</p>`))
}
