// FILE: lixenwraith/cosima/options.go
package cosima

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// MatchMode defines how an identifier selects a source line
type MatchMode int

const (
	// MatchKeyword selects lines whose first token equals the identifier (default)
	MatchKeyword MatchMode = iota

	// MatchSubstring selects lines containing the identifier anywhere.
	// Reads legacy files the way the original tooling did, including its
	// accidental cross-matches between keywords.
	MatchSubstring
)

const (
	// DefaultCommentMarker marks lines that are dropped before extraction
	DefaultCommentMarker = "#"
	// DefaultMaxFileSize bounds how much of a source file is read
	DefaultMaxFileSize int64 = 1 << 20
)

func (m MatchMode) String() string {
	switch m {
	case MatchKeyword:
		return "keyword"
	case MatchSubstring:
		return "substring"
	default:
		return fmt.Sprintf("MatchMode(%d)", int(m))
	}
}

// ParseMatchMode converts "keyword" or "substring" to a MatchMode
func ParseMatchMode(s string) (MatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "keyword", "exact":
		return MatchKeyword, nil
	case "substring", "legacy":
		return MatchSubstring, nil
	default:
		return MatchKeyword, fmt.Errorf("unknown match mode %q", s)
	}
}

// LoadOptions configures how source files are read and parsed
type LoadOptions struct {
	// MatchMode selects exact keyword or legacy substring matching
	MatchMode MatchMode

	// CommentMarker drops every line containing it. Empty means DefaultCommentMarker.
	CommentMarker string

	// MaxFileSize limits the bytes read from disk. Zero means DefaultMaxFileSize.
	MaxFileSize int64

	// Logger receives debug output of the extraction phases. Nil disables logging.
	Logger *zap.Logger
}

// DefaultLoadOptions returns the standard load options
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{
		MatchMode:     MatchKeyword,
		CommentMarker: DefaultCommentMarker,
		MaxFileSize:   DefaultMaxFileSize,
	}
}

// withDefaults fills zero fields
func (o LoadOptions) withDefaults() LoadOptions {
	if o.CommentMarker == "" {
		o.CommentMarker = DefaultCommentMarker
	}
	if o.MaxFileSize <= 0 {
		o.MaxFileSize = DefaultMaxFileSize
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return o
}
