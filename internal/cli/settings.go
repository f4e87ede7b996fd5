package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lixenwraith/cosima"
	"go.uber.org/zap"
)

const appName = "megasrc"

// Settings holds the persistent defaults of the megasrc commands.
type Settings struct {
	Match       string `toml:"match"`
	Comment     string `toml:"comment"`
	Format      string `toml:"format"`
	MaxFileSize int64  `toml:"max_file_size"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Match:       cosima.MatchKeyword.String(),
		Comment:     cosima.DefaultCommentMarker,
		Format:      string(cosima.FormatText),
		MaxFileSize: cosima.DefaultMaxFileSize,
	}
}

// DiscoveryOptions configures where the settings file is looked for
type DiscoveryOptions struct {
	// Base name of the settings file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (searched before the defaults)
	Paths []string

	// Environment variable holding an explicit path
	EnvVar string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in the current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns the megasrc search setup
func DefaultDiscoveryOptions() DiscoveryOptions {
	return DiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".toml", ".conf"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// discoverSettingsFile returns the settings file to use, or "" when none exists.
// An explicit path wins over the environment, which wins over the search.
func discoverSettingsFile(explicit string, opts DiscoveryOptions) string {
	if explicit != "" {
		return explicit
	}

	if opts.EnvVar != "" {
		if path := os.Getenv(opts.EnvVar); path != "" {
			return path
		}
	}

	var searchPaths []string
	searchPaths = append(searchPaths, opts.Paths...)

	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	if opts.UseXDG {
		searchPaths = append(searchPaths, xdgConfigPaths(opts.Name)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	// No file found is not an error, defaults and env still apply
	return ""
}

// xdgConfigPaths returns XDG-compliant config search paths
func xdgConfigPaths(appName string) []string {
	var paths []string

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	if xdgDirs := os.Getenv("XDG_CONFIG_DIRS"); xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		paths = append(paths, filepath.Join("/etc/xdg", appName))
	}

	return paths
}

// LoadSettings merges defaults, the discovered settings file and the
// environment. It returns the file that was used, if any.
func LoadSettings(explicit string, opts DiscoveryOptions) (Settings, string, error) {
	settings := DefaultSettings()

	path := discoverSettingsFile(explicit, opts)
	if path != "" {
		if err := mergeFile(&settings, path); err != nil {
			return Settings{}, path, err
		}
	}

	if err := mergeEnv(&settings); err != nil {
		return Settings{}, path, err
	}
	return settings, path, nil
}

func mergeFile(dst *Settings, path string) error {
	var fromFile Settings
	meta, err := toml.DecodeFile(path, &fromFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("settings file not found: %s", path)
		}
		return fmt.Errorf("failed to parse settings file '%s': %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		sort.Strings(keys)
		return fmt.Errorf("unknown settings in '%s': %s", path, strings.Join(keys, ", "))
	}

	if meta.IsDefined("match") {
		dst.Match = fromFile.Match
	}
	if meta.IsDefined("comment") {
		dst.Comment = fromFile.Comment
	}
	if meta.IsDefined("format") {
		dst.Format = fromFile.Format
	}
	if meta.IsDefined("max_file_size") {
		dst.MaxFileSize = fromFile.MaxFileSize
	}
	return nil
}

func mergeEnv(s *Settings) error {
	prefix := strings.ToUpper(appName) + "_"
	if v := os.Getenv(prefix + "MATCH"); v != "" {
		s.Match = v
	}
	if v := os.Getenv(prefix + "COMMENT"); v != "" {
		s.Comment = v
	}
	if v := os.Getenv(prefix + "FORMAT"); v != "" {
		s.Format = v
	}
	if v := os.Getenv(prefix + "MAX_FILE_SIZE"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_FILE_SIZE %q: %w", prefix, v, err)
		}
		s.MaxFileSize = n
	}
	return nil
}

// LoadOptions converts the settings into library load options.
func (s Settings) LoadOptions(logger *zap.Logger) (cosima.LoadOptions, error) {
	mode, err := cosima.ParseMatchMode(s.Match)
	if err != nil {
		return cosima.LoadOptions{}, err
	}
	if s.Comment == "" {
		return cosima.LoadOptions{}, errors.New("comment marker cannot be empty")
	}
	if s.MaxFileSize <= 0 {
		return cosima.LoadOptions{}, fmt.Errorf("max file size must be positive, got %d", s.MaxFileSize)
	}

	return cosima.LoadOptions{
		MatchMode:     mode,
		CommentMarker: s.Comment,
		MaxFileSize:   s.MaxFileSize,
		Logger:        logger,
	}, nil
}
