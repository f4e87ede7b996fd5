// File: lixenwraith/cosima/source.go
package cosima

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lixenwraith/cosima/sky"
)

// SourceKeyword names the run-scoped keyword that carries the source name
const SourceKeyword = "Source"

// SourceKeywords lists the source-scoped keywords in presentation order
var SourceKeywords = []string{"ParticleType", "Beam", "Orientation", "Spectrum", "Flux"}

// Source describes the particle source of a run.
//
// Orientation is a whitespace-separated string such as "Galactic Fixed -21.6 44.6"
// whose last two tokens are the galactic longitude and latitude in degrees.
// An empty Orientation means no orientation has been set.
type Source struct {
	Name         string
	ParticleType string
	Beam         string
	Orientation  string
	Spectrum     string
	Flux         string

	run string // name of the owning run
}

// sourceSection is the keyword and snapshot shape of a Source
type sourceSection struct {
	Name         string `keyword:"Source" toml:"name" json:"name" yaml:"name"`
	ParticleType string `keyword:"ParticleType" toml:"particle_type" json:"particle_type" yaml:"particle_type"`
	Beam         string `keyword:"Beam" toml:"beam" json:"beam" yaml:"beam"`
	Orientation  string `keyword:"Orientation" toml:"orientation" json:"orientation" yaml:"orientation"`
	Spectrum     string `keyword:"Spectrum" toml:"spectrum" json:"spectrum" yaml:"spectrum"`
	Flux         string `keyword:"Flux" toml:"flux" json:"flux" yaml:"flux"`
}

// NewSource builds a Source from explicit values. It gets its owner when
// passed to NewRun.
func NewSource(name, particleType, beam, orientation, spectrum, flux string) *Source {
	return &Source{
		Name:         name,
		ParticleType: particleType,
		Beam:         beam,
		Orientation:  orientation,
		Spectrum:     spectrum,
		Flux:         flux,
	}
}

func newSourceFromSection(s sourceSection) *Source {
	return NewSource(s.Name, s.ParticleType, s.Beam, s.Orientation, s.Spectrum, s.Flux)
}

func (s *Source) section() sourceSection {
	return sourceSection{
		Name:         s.Name,
		ParticleType: s.ParticleType,
		Beam:         s.Beam,
		Orientation:  s.Orientation,
		Spectrum:     s.Spectrum,
		Flux:         s.Flux,
	}
}

// RunName returns the name of the owning run, or "" for a detached source.
func (s *Source) RunName() string {
	return s.run
}

// Coordinate parses the last two orientation tokens as galactic (l, b).
func (s *Source) Coordinate() (sky.Galactic, error) {
	tokens := strings.Fields(s.Orientation)
	if len(tokens) < 2 {
		return sky.Galactic{}, fmt.Errorf("%w: orientation %q of source %q has no coordinate",
			ErrTypeMismatch, s.Orientation, s.Name)
	}

	g, err := sky.ParseGalactic(tokens[len(tokens)-2], tokens[len(tokens)-1])
	if err != nil {
		return sky.Galactic{}, fmt.Errorf("%w: orientation %q of source %q: %w",
			ErrTypeMismatch, s.Orientation, s.Name, err)
	}
	return g, nil
}

// SetCoordinate replaces the last two orientation tokens with the galactic
// longitude and latitude of c. All leading tokens are kept verbatim.
func (s *Source) SetCoordinate(c sky.Coordinate) error {
	if s.Orientation == "" {
		return fmt.Errorf("%w: orientation of source %q is not set", ErrInvalidState, s.Name)
	}
	if c == nil {
		return fmt.Errorf("%w: coordinate is nil", ErrTypeMismatch)
	}

	tokens := strings.Fields(s.Orientation)
	if len(tokens) < 2 {
		return fmt.Errorf("%w: orientation %q of source %q cannot hold a coordinate",
			ErrInvalidState, s.Orientation, s.Name)
	}

	g := c.Galactic()
	if err := g.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrTypeMismatch, err)
	}

	tokens[len(tokens)-2] = sky.FormatDegrees(g.L)
	tokens[len(tokens)-1] = sky.FormatDegrees(g.B)
	s.Orientation = strings.Join(tokens, " ")
	return nil
}

// FluxValue parses Flux as a number.
func (s *Source) FluxValue() (float64, error) {
	return parseNumber(s.Flux, s.key("Flux"))
}

// List returns the source parameters with their composite keys.
func (s *Source) List() Params {
	return s.listFor(s.run)
}

func (s *Source) listFor(runName string) Params {
	return Params{
		{Key: compositeKey(runName, SourceKeyword), Value: s.Name},
		{Key: s.key("ParticleType"), Value: s.ParticleType},
		{Key: s.key("Beam"), Value: s.Beam},
		{Key: s.key("Orientation"), Value: s.Orientation},
		{Key: s.key("Spectrum"), Value: s.Spectrum},
		{Key: s.key("Flux"), Value: s.Flux},
	}
}

func (s *Source) key(field string) string {
	return compositeKey(s.Name, field)
}

// compositeKey joins an owner name and a field as "{owner}.{field}".
// A detached record (empty owner) uses the bare field.
func compositeKey(owner, field string) string {
	if owner == "" {
		return field
	}
	return owner + "." + field
}

func parseNumber(value, key string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, fmt.Errorf("%w: %s value %q out of range", ErrTypeMismatch, key, value)
		}
		return 0, fmt.Errorf("%w: %s value %q is not numeric", ErrTypeMismatch, key, value)
	}
	return f, nil
}
