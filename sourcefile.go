// FILE: lixenwraith/cosima/sourcefile.go
package cosima

import (
	"bytes"
	"fmt"
	"io"

	"github.com/lixenwraith/cosima/sky"
	"go.uber.org/zap"
)

// SourceFile is a parsed cosima source file: the global settings plus one run
// and the source it owns.
type SourceFile struct {
	path   string
	base   *BaseParams
	run    *Run
	logger *zap.Logger
}

// New composes a SourceFile from programmatically built parts.
func New(base *BaseParams, run *Run) *SourceFile {
	return &SourceFile{
		base:   base,
		run:    run,
		logger: zap.NewNop(),
	}
}

// Load reads a source file with the default options.
func Load(path string) (*SourceFile, error) {
	return LoadWithOptions(path, DefaultLoadOptions())
}

// LoadWithOptions reads a source file. Paths ending in .toml, .json, .yaml or
// .yml are read as snapshots written by SaveSnapshot; anything else is parsed
// as cosima keyword lines.
func LoadWithOptions(path string, opts LoadOptions) (*SourceFile, error) {
	opts = opts.withDefaults()

	data, err := readFile(path, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}

	var f *SourceFile
	if format := detectFileFormat(path); format != FormatText {
		base, run, err := parseSnapshot(data, format)
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot '%s': %w", path, err)
		}
		f = New(base, run)
		f.logger = opts.Logger
	} else {
		f, err = Parse(splitLines(string(data)), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to parse source file '%s': %w", path, err)
		}
	}

	f.path = path
	f.logger.Debug("source file loaded",
		zap.String("path", path),
		zap.String("run", f.run.Name),
		zap.String("source", f.run.sourceName()))
	return f, nil
}

// Parse builds a SourceFile from raw lines. Global settings and the run are
// resolved in two independent passes over the same lines.
func Parse(lines []string, opts LoadOptions) (*SourceFile, error) {
	opts = opts.withDefaults()
	ex := NewExtractor(lines, opts)

	base, err := ParseBaseParams(ex)
	if err != nil {
		return nil, err
	}
	run, err := ParseRun(ex)
	if err != nil {
		return nil, err
	}

	f := New(base, run)
	f.logger = opts.Logger
	return f, nil
}

// Path returns the file the SourceFile was loaded from, if any.
func (f *SourceFile) Path() string {
	return f.path
}

// Base returns the global settings.
func (f *SourceFile) Base() *BaseParams {
	return f.base
}

// Run returns the run.
func (f *SourceFile) Run() *Run {
	return f.run
}

// Source returns the run's source.
func (f *SourceFile) Source() *Source {
	return f.run.Source()
}

// ListBaseParams returns the global settings.
func (f *SourceFile) ListBaseParams() Params {
	return f.base.List()
}

// ListRunParams returns the run parameters, optionally with source detail.
func (f *SourceFile) ListRunParams(sourceDetail bool) Params {
	return f.run.List(sourceDetail)
}

// ListSourceParams returns the source parameters.
func (f *SourceFile) ListSourceParams() Params {
	if src := f.Source(); src != nil {
		return src.listFor(f.run.Name)
	}
	return nil
}

// ListAllParams returns the global settings followed by the run with its
// source expanded in place.
func (f *SourceFile) ListAllParams() Params {
	all := f.ListBaseParams()
	return append(all, f.ListRunParams(true)...)
}

// SetCoordinate moves the source to c.
func (f *SourceFile) SetCoordinate(c sky.Coordinate) error {
	src := f.Source()
	if src == nil {
		return fmt.Errorf("%w: run %q has no source", ErrInvalidState, f.run.Name)
	}
	if err := src.SetCoordinate(c); err != nil {
		return err
	}
	f.logger.Debug("source coordinate set",
		zap.String("source", src.Name),
		zap.String("orientation", src.Orientation))
	return nil
}

// WriteTable writes all parameters as the plain two-column table.
func (f *SourceFile) WriteTable(w io.Writer) error {
	return f.ListAllParams().WritePlain(w)
}

// Print writes all parameters as a bordered grid table.
func (f *SourceFile) Print(w io.Writer) error {
	_, err := fmt.Fprintln(w, f.ListAllParams().Grid())
	return err
}

// Save writes the plain two-column table to path atomically. The result is a
// readable source file again, minus any comments and original formatting.
func (f *SourceFile) Save(path string) error {
	var buf bytes.Buffer
	if err := f.WriteTable(&buf); err != nil {
		return fmt.Errorf("failed to render parameter table: %w", err)
	}
	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	f.logger.Debug("source file saved", zap.String("path", path))
	return nil
}
