// FILE: lixenwraith/cosima/errors.go
package cosima

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKeyword is returned when no line matches a required identifier.
	ErrMissingKeyword = errors.New("missing keyword")
	// ErrEmptyValue is returned when the matching line carries no value tokens.
	ErrEmptyValue = errors.New("empty value")
	// ErrInvalidState is returned when a mutation precedes the data it depends on,
	// e.g. setting a coordinate before an orientation exists.
	ErrInvalidState = errors.New("invalid state")
	// ErrTypeMismatch is returned for values that are not valid coordinates or numbers.
	ErrTypeMismatch = errors.New("type mismatch")

	ErrSourceFileNotFound = errors.New("source file not found")
	ErrFileTooLarge       = errors.New("source file too large")
	ErrUnsupportedFormat  = errors.New("unsupported format")
)

// KeywordError reports an extraction failure for one identifier.
// Line is the 1-based line of the offending statement, or 0 when no line matched.
type KeywordError struct {
	Identifier string
	Line       int
	Err        error
}

func (e *KeywordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v for %q", e.Line, e.Err, e.Identifier)
	}
	return fmt.Sprintf("%v: no line matches %q", e.Err, e.Identifier)
}

func (e *KeywordError) Unwrap() error {
	return e.Err
}
