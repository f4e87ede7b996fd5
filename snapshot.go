// FILE: lixenwraith/cosima/snapshot.go
package cosima

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Format selects a serialization of a SourceFile
type Format string

const (
	// FormatText is the plain two-column keyword table written by Save
	FormatText Format = "text"
	// FormatTOML, FormatJSON and FormatYAML are structured snapshots with
	// "base", "run" and "source" sections
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a format name to a Format
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt", "source":
		return FormatText, nil
	case "toml", "tml":
		return FormatTOML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// detectFileFormat determines format from file extension. Anything that is
// not a snapshot extension is a source file.
func detectFileFormat(path string) Format {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatText
	}
}

// snapshot is the structured form of a SourceFile
type snapshot struct {
	Base   BaseParams    `toml:"base" json:"base" yaml:"base"`
	Run    runSection    `toml:"run" json:"run" yaml:"run"`
	Source sourceSection `toml:"source" json:"source" yaml:"source"`
}

func (f *SourceFile) snapshot() snapshot {
	snap := snapshot{
		Base: *f.base,
		Run:  f.run.section(),
	}
	if src := f.run.Source(); src != nil {
		snap.Source = src.section()
	}
	return snap
}

// Export writes the SourceFile in the given format
func (f *SourceFile) Export(w io.Writer, format Format) error {
	switch format {
	case FormatText, "":
		return f.WriteTable(w)

	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(f.snapshot()); err != nil {
			return fmt.Errorf("failed to marshal snapshot to TOML: %w", err)
		}
		return nil

	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(f.snapshot()); err != nil {
			return fmt.Errorf("failed to marshal snapshot to JSON: %w", err)
		}
		return nil

	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(f.snapshot()); err != nil {
			return fmt.Errorf("failed to marshal snapshot to YAML: %w", err)
		}
		return encoder.Close()

	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// SaveSnapshot writes the SourceFile atomically in the format implied by the
// extension of path; unknown extensions get the plain text table.
func (f *SourceFile) SaveSnapshot(path string) error {
	return f.ExportFile(path, detectFileFormat(path))
}

// ExportFile writes the SourceFile atomically in the given format, whatever
// the extension of path.
func (f *SourceFile) ExportFile(path string, format Format) error {
	var buf bytes.Buffer
	if err := f.Export(&buf, format); err != nil {
		return err
	}
	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return err
	}
	f.logger.Debug("snapshot saved", zap.String("path", path), zap.String("format", string(format)))
	return nil
}

// parseSnapshot decodes snapshot data and checks that every field is set
func parseSnapshot(data []byte, format Format) (*BaseParams, *Run, error) {
	raw := make(map[string]any)
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse TOML snapshot: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse JSON snapshot: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse YAML snapshot: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	var snap snapshot
	if err := decodeSection(raw, "base", &snap.Base); err != nil {
		return nil, nil, err
	}
	if err := decodeSection(raw, "run", &snap.Run); err != nil {
		return nil, nil, err
	}
	if err := decodeSection(raw, "source", &snap.Source); err != nil {
		return nil, nil, err
	}

	if err := requireFields("base", BaseKeywords, snap.Base.List()); err != nil {
		return nil, nil, err
	}
	if err := requireFields("run", []string{"Run", "FileName", "OrientationSky", "Time"}, Params{
		{Key: "Run", Value: snap.Run.Name},
		{Key: "FileName", Value: snap.Run.FileName},
		{Key: "OrientationSky", Value: snap.Run.OrientationSky},
		{Key: "Time", Value: snap.Run.Time},
	}); err != nil {
		return nil, nil, err
	}
	src := newSourceFromSection(snap.Source)
	if err := requireFields("source", append([]string{SourceKeyword}, SourceKeywords...), src.List()); err != nil {
		return nil, nil, err
	}

	base := snap.Base
	return &base, newRunFromSection(snap.Run, src), nil
}

// requireFields reports the first empty value as a missing keyword.
// keywords and params are parallel.
func requireFields(section string, keywords []string, params Params) error {
	for i, param := range params {
		if strings.TrimSpace(param.Value) == "" {
			return &KeywordError{Identifier: section + "." + keywords[i], Err: ErrMissingKeyword}
		}
	}
	return nil
}
