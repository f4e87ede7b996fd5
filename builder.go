// File: lixenwraith/cosima/builder.go
package cosima

import (
	"errors"
	"fmt"

	"github.com/lixenwraith/cosima/sky"
	"go.uber.org/zap"
)

// ValidatorFunc defines the signature for a function that can validate a SourceFile.
// It receives the fully loaded *SourceFile and should return an error if validation fails.
type ValidatorFunc func(f *SourceFile) error

// Builder provides a fluent interface for loading source files
type Builder struct {
	opts       LoadOptions
	file       string
	coordinate sky.Coordinate
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new source file builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultLoadOptions(),
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the source file path
func (b *Builder) WithFile(path string) *Builder {
	b.file = path
	return b
}

// WithOptions replaces all load options
func (b *Builder) WithOptions(opts LoadOptions) *Builder {
	b.opts = opts
	return b
}

// WithMatchMode sets how identifiers select lines
func (b *Builder) WithMatchMode(mode MatchMode) *Builder {
	b.opts.MatchMode = mode
	return b
}

// WithCommentMarker sets the marker of dropped lines
func (b *Builder) WithCommentMarker(marker string) *Builder {
	if marker == "" {
		b.err = errors.New("comment marker cannot be empty")
		return b
	}
	b.opts.CommentMarker = marker
	return b
}

// WithMaxFileSize limits how many bytes are read
func (b *Builder) WithMaxFileSize(size int64) *Builder {
	if size <= 0 {
		b.err = fmt.Errorf("max file size must be positive, got %d", size)
		return b
	}
	b.opts.MaxFileSize = size
	return b
}

// WithLogger sets the debug logger
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.opts.Logger = logger
	return b
}

// WithCoordinate moves the source to c after loading
func (b *Builder) WithCoordinate(c sky.Coordinate) *Builder {
	b.coordinate = c
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build loads the SourceFile with all specified options
func (b *Builder) Build() (*SourceFile, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.file == "" {
		return nil, errors.New("no source file given")
	}

	f, err := LoadWithOptions(b.file, b.opts)
	if err != nil {
		return nil, err
	}

	if b.coordinate != nil {
		if err := f.SetCoordinate(b.coordinate); err != nil {
			return nil, fmt.Errorf("failed to apply coordinate: %w", err)
		}
	}

	for _, validator := range b.validators {
		if err := validator(f); err != nil {
			return nil, fmt.Errorf("source file validation failed: %w", err)
		}
	}

	return f, nil
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *SourceFile {
	f, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("source file build failed: %v", err))
	}
	return f
}

// RequireCoordinate is a ValidatorFunc that rejects sources whose orientation
// does not end in a numeric coordinate
func RequireCoordinate(f *SourceFile) error {
	src := f.Source()
	if src == nil {
		return fmt.Errorf("%w: run %q has no source", ErrInvalidState, f.Run().Name)
	}
	_, err := src.Coordinate()
	return err
}

// RequireNumericRun is a ValidatorFunc that rejects non-numeric run time or source flux
func RequireNumericRun(f *SourceFile) error {
	if _, err := f.Run().Duration(); err != nil {
		return err
	}
	if src := f.Source(); src != nil {
		if _, err := src.FluxValue(); err != nil {
			return err
		}
	}
	return nil
}
