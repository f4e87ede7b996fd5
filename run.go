// File: lixenwraith/cosima/run.go
package cosima

import (
	"fmt"

	"go.uber.org/zap"
)

// RunKeyword introduces the run and carries its name
const RunKeyword = "Run"

// RunKeywords lists the run-scoped keywords in presentation order,
// excluding the source reference
var RunKeywords = []string{"FileName", "OrientationSky", "Time"}

// legacySourceIdentifier finds the source reference under substring matching.
// The leading dot keeps it from matching the run's own keyword.
const legacySourceIdentifier = "." + SourceKeyword

// Run is one simulation run and the single source it owns.
// Only one run and one source per file are supported.
type Run struct {
	Name           string
	FileName       string
	OrientationSky string
	Time           string // duration in seconds, kept as written

	source *Source
}

// runSection is the keyword and snapshot shape of a Run
type runSection struct {
	Name           string `keyword:"Run" toml:"name" json:"name" yaml:"name"`
	FileName       string `keyword:"FileName" toml:"file_name" json:"file_name" yaml:"file_name"`
	OrientationSky string `keyword:"OrientationSky" toml:"orientation_sky" json:"orientation_sky" yaml:"orientation_sky"`
	Time           string `keyword:"Time" toml:"time" json:"time" yaml:"time"`
}

// NewRun builds a Run from explicit values and takes ownership of src.
func NewRun(name, fileName, orientationSky, time string, src *Source) *Run {
	r := &Run{
		Name:           name,
		FileName:       fileName,
		OrientationSky: orientationSky,
		Time:           time,
	}
	r.adopt(src)
	return r
}

func newRunFromSection(s runSection, src *Source) *Run {
	return NewRun(s.Name, s.FileName, s.OrientationSky, s.Time, src)
}

func (r *Run) adopt(src *Source) {
	if src != nil {
		src.run = r.Name
	}
	r.source = src
}

func (r *Run) section() runSection {
	return runSection{
		Name:           r.Name,
		FileName:       r.FileName,
		OrientationSky: r.OrientationSky,
		Time:           r.Time,
	}
}

// ReadRun reads the run and its source from a source file.
func ReadRun(path string, opts LoadOptions) (*Run, error) {
	opts = opts.withDefaults()
	lines, err := ReadLines(path, opts.MaxFileSize)
	if err != nil {
		return nil, err
	}
	return ParseRun(NewExtractor(lines, opts))
}

// ParseRun resolves the run in two phases. Owner names are discovered first
// (the run name, then the source name under it) and each name then scopes the
// lookup of its fields as "{name}.{keyword}". The first "Run" statement in the
// file decides the run.
func ParseRun(ex *Extractor) (*Run, error) {
	// Phase 1: run name
	runName, err := ex.Value(RunKeyword)
	if err != nil {
		return nil, err
	}

	// Phase 2: run fields
	values := map[string]string{RunKeyword: runName}
	for _, keyword := range RunKeywords {
		value, err := ex.Value(compositeKey(runName, keyword))
		if err != nil {
			return nil, err
		}
		values[keyword] = value
	}
	var rs runSection
	if err := decodeKeywords(values, &rs); err != nil {
		return nil, err
	}

	// Phase 1 for the source: its name lives under the run
	sourceIdentifier := compositeKey(runName, SourceKeyword)
	if ex.Mode() == MatchSubstring {
		sourceIdentifier = legacySourceIdentifier
	}
	sourceName, err := ex.Value(sourceIdentifier)
	if err != nil {
		return nil, err
	}

	// Phase 2 for the source
	values = map[string]string{SourceKeyword: sourceName}
	for _, keyword := range SourceKeywords {
		value, err := ex.Value(compositeKey(sourceName, keyword))
		if err != nil {
			return nil, err
		}
		values[keyword] = value
	}
	var ss sourceSection
	if err := decodeKeywords(values, &ss); err != nil {
		return nil, err
	}

	ex.logger.Debug("run resolved",
		zap.String("run", runName),
		zap.String("source", sourceName))

	return newRunFromSection(rs, newSourceFromSection(ss)), nil
}

// Source returns the owned source, or nil if none was given.
func (r *Run) Source() *Source {
	return r.source
}

// Duration parses Time as seconds.
func (r *Run) Duration() (float64, error) {
	return parseNumber(r.Time, compositeKey(r.Name, "Time"))
}

// List returns the run parameters with their composite keys. With sourceDetail
// the source reference is replaced by the source's own parameters.
func (r *Run) List(sourceDetail bool) Params {
	params := Params{
		{Key: RunKeyword, Value: r.Name},
		{Key: compositeKey(r.Name, "FileName"), Value: r.FileName},
		{Key: compositeKey(r.Name, "OrientationSky"), Value: r.OrientationSky},
		{Key: compositeKey(r.Name, "Time"), Value: r.Time},
	}

	if r.source == nil {
		return params
	}
	if sourceDetail {
		return append(params, r.source.listFor(r.Name)...)
	}
	return append(params, Param{Key: compositeKey(r.Name, SourceKeyword), Value: r.source.Name})
}

func (r *Run) String() string {
	return fmt.Sprintf("run %q (source %q)", r.Name, r.sourceName())
}

func (r *Run) sourceName() string {
	if r.source == nil {
		return ""
	}
	return r.source.Name
}
