package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestGridStrictPreservesBlankCells(t *testing.T) {
	var p GridTable
	got := p.Feed(`<table><tr><td></td><td></td><td>X</td></tr></table>`, true)

	want := []Grid{{{"", "", "X"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGridNonStrictDropsLeadingBlanks(t *testing.T) {
	var p GridTable
	got := p.Feed(`<table>
		<tr><td></td><td></td><td>X</td></tr>
		<tr><td>X</td><td></td><td>Y</td></tr>
	</table>`, false)

	want := []Grid{{
		{"X"},
		{"X", "", "Y"},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGridSkipsHeaderSection(t *testing.T) {
	var p GridTable
	got := p.Feed(`<table>
		<thead><tr><th>course</th><th>score</th></tr></thead>
		<tr><td>Algebra</td><td>92</td></tr>
	</table>`, true)

	want := []Grid{{{"Algebra", "92"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGridKeepsFirstFragmentOnly(t *testing.T) {
	var p GridTable
	got := p.Feed(`<table><tr><td> Algebra <span>(retake)</span></td></tr></table>`, true)

	want := []Grid{{{"Algebra"}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGridMultipleTables(t *testing.T) {
	var p GridTable
	got := p.Feed(`
		<table><tr><td>a</td></tr></table>
		<table><tr><td>b</td></tr></table>`, true)

	want := []Grid{
		{{"a"}},
		{{"b"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatal(diff)
	}
}

func TestGridIgnoresRowsOutsideTables(t *testing.T) {
	var p GridTable
	got := p.Feed(`<tr><td>stray</td></tr>`, true)
	require.Empty(t, got)
}

func TestGridResetsBetweenFeeds(t *testing.T) {
	var p GridTable
	first := p.Feed(`<table><tr><td>one</td></tr></table>`, true)
	require.Len(t, first, 1)

	second := p.Feed(`<table><tr><td>two</td></tr></table>`, true)
	want := []Grid{{{"two"}}}
	if diff := cmp.Diff(want, second); diff != "" {
		t.Fatal(diff)
	}
}
