// FILE: lixenwraith/cosima/extract_test.go
package cosima

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFilterComments tests whole-line comment removal
func TestFilterComments(t *testing.T) {
	lines := []string{
		"# header",
		"Version 1",
		"",
		"Geometry det.setup # trailing note",
		"Run MyRun",
	}

	got := FilterComments(lines, "#")
	assert.Equal(t, []string{"Version 1", "", "Run MyRun"}, got)

	t.Run("EmptyMarkerUsesDefault", func(t *testing.T) {
		assert.Equal(t, got, FilterComments(lines, ""))
	})

	t.Run("CustomMarker", func(t *testing.T) {
		got := FilterComments([]string{"// off", "Version 1"}, "//")
		assert.Equal(t, []string{"Version 1"}, got)
	})
}

// TestExtractValue tests value tokenization for both match modes
func TestExtractValue(t *testing.T) {
	lines := []string{
		"",
		"Version 1",
		"StoreSimulationInfo true 1",
		"Crab.Orientation   Galactic\tFixed  -21.6 44.6",
		"PreTriggerMode",
	}

	for _, mode := range []MatchMode{MatchKeyword, MatchSubstring} {
		t.Run(mode.String(), func(t *testing.T) {
			value, err := ExtractValue(lines, "Version", mode)
			require.NoError(t, err)
			assert.Equal(t, "1", value)

			value, err = ExtractValue(lines, "StoreSimulationInfo", mode)
			require.NoError(t, err)
			assert.Equal(t, "true 1", value)

			value, err = ExtractValue(lines, "Crab.Orientation", mode)
			require.NoError(t, err)
			assert.Equal(t, "Galactic Fixed -21.6 44.6", value)

			_, err = ExtractValue(lines, "PreTriggerMode", mode)
			assert.ErrorIs(t, err, ErrEmptyValue)
			var kwErr *KeywordError
			require.True(t, errors.As(err, &kwErr))
			assert.Equal(t, 5, kwErr.Line)
			assert.Equal(t, "PreTriggerMode", kwErr.Identifier)

			_, err = ExtractValue(lines, "Geometry", mode)
			assert.ErrorIs(t, err, ErrMissingKeyword)
			assert.Contains(t, err.Error(), `"Geometry"`)
		})
	}
}

// TestFirstMatchWins tests that the earliest matching line decides
func TestFirstMatchWins(t *testing.T) {
	lines := []string{"Run First", "Run Second"}

	for _, mode := range []MatchMode{MatchKeyword, MatchSubstring} {
		value, err := ExtractValue(lines, "Run", mode)
		require.NoError(t, err)
		assert.Equal(t, "First", value, mode.String())
	}
}

// TestMatchModes tests where exact and substring matching disagree
func TestMatchModes(t *testing.T) {
	lines := []string{
		"SubRunName ignored",
		"Run MyRun",
		"MyRun.Source Crab",
	}

	t.Run("KeywordIgnoresLongerKeywords", func(t *testing.T) {
		value, err := ExtractValue(lines, "Run", MatchKeyword)
		require.NoError(t, err)
		assert.Equal(t, "MyRun", value)
	})

	t.Run("SubstringMatchesInsideKeywords", func(t *testing.T) {
		value, err := ExtractValue(lines, "Run", MatchSubstring)
		require.NoError(t, err)
		assert.Equal(t, "ignored", value)
	})

	t.Run("SubstringFindsSuffix", func(t *testing.T) {
		value, err := ExtractValue(lines, ".Source", MatchSubstring)
		require.NoError(t, err)
		assert.Equal(t, "Crab", value)

		_, err = ExtractValue(lines, ".Source", MatchKeyword)
		assert.ErrorIs(t, err, ErrMissingKeyword)
	})
}

// TestExtractor tests lookups through the comment-filtering extractor
func TestExtractor(t *testing.T) {
	raw := []string{
		"# Run Commented",
		"Version 1",
		"Run MyRun",
		"MyRun.Time",
	}

	for _, mode := range []MatchMode{MatchKeyword, MatchSubstring} {
		t.Run(mode.String(), func(t *testing.T) {
			opts := DefaultLoadOptions()
			opts.MatchMode = mode
			ex := NewExtractor(raw, opts)
			assert.Equal(t, mode, ex.Mode())

			value, err := ex.Value("Run")
			require.NoError(t, err)
			assert.Equal(t, "MyRun", value)

			// Line numbers refer to the raw file, comments included
			_, err = ex.Value("MyRun.Time")
			var kwErr *KeywordError
			require.True(t, errors.As(err, &kwErr))
			assert.Equal(t, 4, kwErr.Line)
			assert.Equal(t, `line 4: empty value for "MyRun.Time"`, err.Error())
		})
	}

	t.Run("ZeroOptions", func(t *testing.T) {
		ex := NewExtractor(raw, LoadOptions{})
		value, err := ex.Value("Run")
		require.NoError(t, err)
		assert.Equal(t, "MyRun", value)
	})
}

// TestParseMatchMode tests match mode names
func TestParseMatchMode(t *testing.T) {
	tests := []struct {
		in      string
		want    MatchMode
		wantErr bool
	}{
		{"", MatchKeyword, false},
		{"keyword", MatchKeyword, false},
		{"Exact", MatchKeyword, false},
		{"substring", MatchSubstring, false},
		{" legacy ", MatchSubstring, false},
		{"fuzzy", MatchKeyword, true},
	}
	for _, tt := range tests {
		got, err := ParseMatchMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	assert.Equal(t, "MatchMode(7)", MatchMode(7).String())
}
