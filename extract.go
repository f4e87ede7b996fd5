// FILE: lixenwraith/cosima/extract.go
package cosima

import (
	"strings"

	"go.uber.org/zap"
)

// sourceLine is a statement that survived comment filtering, with its 1-based
// position in the raw file.
type sourceLine struct {
	no   int
	text string
}

// FilterComments drops every line that contains marker. Lines are removed
// whole, not truncated at the marker.
func FilterComments(lines []string, marker string) []string {
	if marker == "" {
		marker = DefaultCommentMarker
	}
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.Contains(line, marker) {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// ExtractValue returns the value of the first line in lines matched by identifier.
// The first token of the line is the keyword; the remaining tokens are joined
// with single spaces. lines are expected to be comment-free already.
func ExtractValue(lines []string, identifier string, mode MatchMode) (string, error) {
	numbered := make([]sourceLine, len(lines))
	for i, line := range lines {
		numbered[i] = sourceLine{no: i + 1, text: line}
	}
	return extract(numbered, identifier, mode)
}

// Extractor looks up keyword values in a comment-filtered source file
type Extractor struct {
	lines  []sourceLine
	mode   MatchMode
	logger *zap.Logger
}

// NewExtractor filters comments from raw and prepares it for lookups
func NewExtractor(raw []string, opts LoadOptions) *Extractor {
	opts = opts.withDefaults()

	lines := make([]sourceLine, 0, len(raw))
	for i, text := range raw {
		if strings.Contains(text, opts.CommentMarker) {
			continue
		}
		lines = append(lines, sourceLine{no: i + 1, text: text})
	}

	return &Extractor{
		lines:  lines,
		mode:   opts.MatchMode,
		logger: opts.Logger,
	}
}

// Mode reports the match mode used for lookups
func (e *Extractor) Mode() MatchMode {
	return e.mode
}

// Value returns the value for identifier; the first matching line wins
func (e *Extractor) Value(identifier string) (string, error) {
	value, err := extract(e.lines, identifier, e.mode)
	if err != nil {
		e.logger.Debug("keyword lookup failed",
			zap.String("identifier", identifier),
			zap.Stringer("mode", e.mode),
			zap.Error(err))
		return "", err
	}
	e.logger.Debug("keyword resolved",
		zap.String("identifier", identifier),
		zap.String("value", value))
	return value, nil
}

func extract(lines []sourceLine, identifier string, mode MatchMode) (string, error) {
	for _, line := range lines {
		tokens := strings.Fields(line.text)
		if !matches(line.text, tokens, identifier, mode) {
			continue
		}

		values := tokens[min(1, len(tokens)):]
		switch len(values) {
		case 0:
			return "", &KeywordError{Identifier: identifier, Line: line.no, Err: ErrEmptyValue}
		case 1:
			return values[0], nil
		default:
			return strings.Join(values, " "), nil
		}
	}
	return "", &KeywordError{Identifier: identifier, Err: ErrMissingKeyword}
}

func matches(text string, tokens []string, identifier string, mode MatchMode) bool {
	if mode == MatchSubstring {
		return strings.Contains(text, identifier)
	}
	return len(tokens) > 0 && tokens[0] == identifier
}
