package extract

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormFieldsRadioGroups(t *testing.T) {
	fs := FormFields(`
		<input type="radio" name="opt" value="1@q1">
		<input type="radio" name="opt" value="2@q1">
		<input type="radio" name="opt" value="1@q2">
		<input type="text" value="3@q3">`)

	require.Equal(t, map[string]struct{}{
		"q1": {},
		"q2": {},
	}, fs.Radios)
}

func TestFormFieldsSkipsMalformedRadioValue(t *testing.T) {
	fs := FormFields(`
		<input type="radio" value="no-delimiter">
		<input type="radio" value="1@q1">`)

	require.Equal(t, map[string]struct{}{"q1": {}}, fs.Radios)
}

func TestFormFieldsTextIdentifiers(t *testing.T) {
	// tmbh marks a free-text field no matter what tag carries it
	fs := FormFields(`
		<textarea tmbh="t1"></textarea>
		<input type="text" tmbh="t2">
		<div tmbh="t3"></div>
		<textarea tmbh="t1"></textarea>`)

	require.Equal(t, map[string]struct{}{
		"t1": {},
		"t2": {},
		"t3": {},
	}, fs.Texts)
}

func TestFormFieldsEmptyPage(t *testing.T) {
	fs := FormFields(`<p>nothing to evaluate</p>`)
	require.Empty(t, fs.Radios)
	require.Empty(t, fs.Texts)
}
