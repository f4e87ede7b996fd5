package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lixenwraith/cosima"
	"github.com/lixenwraith/cosima/sky"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var crabSource = filepath.Join("..", "..", "testdata", "crab.source")

// isolate keeps discovered settings and MEGASRC_* variables out of a test
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_CONFIG_DIRS", dir)
	for _, name := range []string{"CONFIG", "MATCH", "COMMENT", "FORMAT", "MAX_FILE_SIZE"} {
		t.Setenv("MEGASRC_"+name, "")
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

// --- show ---

func TestShow(t *testing.T) {
	isolate(t)

	t.Run("Grid", func(t *testing.T) {
		out, _, code := execute(t, "show", crabSource)
		require.Equal(t, ExitSuccess, code)
		assert.Contains(t, out, "Key")
		assert.Contains(t, out, "CrabRun.OrientationSky")
		assert.Contains(t, out, "Galactic Fixed 184.56 -5.78")
	})

	t.Run("PlainSource", func(t *testing.T) {
		out, _, code := execute(t, "show", crabSource, "--section", "source", "--plain")
		require.Equal(t, ExitSuccess, code)

		params, err := cosima.ParsePlain(strings.NewReader(out))
		require.NoError(t, err)
		require.Len(t, params, 6)
		assert.Equal(t, cosima.Param{Key: "CrabRun.Source", Value: "Crab"}, params[0])
		assert.Equal(t, "0.05", params.Map()["Crab.Flux"])
	})

	t.Run("PlainRun", func(t *testing.T) {
		out, _, code := execute(t, "show", crabSource, "--section=run", "--plain")
		require.Equal(t, ExitSuccess, code)
		assert.Equal(t, 5, strings.Count(out, "\n"))
	})

	t.Run("InvalidSection", func(t *testing.T) {
		_, errOut, code := execute(t, "show", crabSource, "--section", "detector")
		assert.Equal(t, ExitUsageError, code)
		assert.Contains(t, errOut, "invalid --section")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, errOut, code := execute(t, "show", filepath.Join(t.TempDir(), "none.source"))
		assert.Equal(t, ExitRuntimeError, code)
		assert.Contains(t, errOut, "source file not found")
	})

	t.Run("MissingArg", func(t *testing.T) {
		_, _, code := execute(t, "show")
		assert.Equal(t, ExitUsageError, code)
	})
}

// --- coord / set-coord ---

func TestCoord(t *testing.T) {
	isolate(t)

	out, _, code := execute(t, "coord", crabSource)
	require.Equal(t, ExitSuccess, code)

	params, err := cosima.ParsePlain(strings.NewReader(out))
	require.NoError(t, err)
	m := params.Map()
	assert.Equal(t, "Crab", m["source"])
	assert.Equal(t, "l=184.56 b=-5.78", m["galactic"])
	assert.True(t, strings.HasPrefix(m["equatorial"], "ra=83.6"), m["equatorial"])
}

func TestSetCoord(t *testing.T) {
	isolate(t)

	t.Run("GalacticToStdout", func(t *testing.T) {
		out, _, code := execute(t, "set-coord", crabSource, "--l", "10", "--b=-5")
		require.Equal(t, ExitSuccess, code)

		params, err := cosima.ParsePlain(strings.NewReader(out))
		require.NoError(t, err)
		assert.Equal(t, "Galactic Fixed 10.0 -5.0", params.Map()["Crab.Orientation"])
	})

	t.Run("EquatorialToFile", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "moved.source")
		_, _, code := execute(t, "set-coord", crabSource, "--ra=266.405", "--dec=-28.936", "-o", target)
		require.Equal(t, ExitSuccess, code)

		f, err := cosima.Load(target)
		require.NoError(t, err)
		g, err := f.Source().Coordinate()
		require.NoError(t, err)
		assert.InDelta(t, 0, sky.Separation(g, sky.Galactic{}), 0.01)
	})

	t.Run("UsageErrors", func(t *testing.T) {
		cases := [][]string{
			{"set-coord", crabSource},
			{"set-coord", crabSource, "--l", "10"},
			{"set-coord", crabSource, "--ra", "10"},
			{"set-coord", crabSource, "--l", "10", "--b", "1", "--ra", "3"},
		}
		for _, args := range cases {
			_, _, code := execute(t, args...)
			assert.Equal(t, ExitUsageError, code, strings.Join(args, " "))
		}
	})

	t.Run("InvalidLatitude", func(t *testing.T) {
		_, errOut, code := execute(t, "set-coord", crabSource, "--l", "10", "--b", "95")
		assert.Equal(t, ExitRuntimeError, code)
		assert.Contains(t, errOut, "type mismatch")
	})
}

// --- convert ---

func TestConvert(t *testing.T) {
	isolate(t)

	t.Run("JSONToStdout", func(t *testing.T) {
		out, _, code := execute(t, "convert", crabSource, "--format", "json")
		require.Equal(t, ExitSuccess, code)
		assert.Contains(t, out, `"orientation_sky": "Galactic Fixed"`)
	})

	t.Run("ByExtension", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "crab.yaml")
		_, _, code := execute(t, "convert", crabSource, "-o", target)
		require.Equal(t, ExitSuccess, code)

		f, err := cosima.Load(target)
		require.NoError(t, err)
		assert.Equal(t, "CrabRun", f.Run().Name)
	})

	t.Run("ExplicitFormatWins", func(t *testing.T) {
		target := filepath.Join(t.TempDir(), "crab.out")
		_, _, code := execute(t, "convert", crabSource, "-f", "toml", "-o", target)
		require.Equal(t, ExitSuccess, code)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Contains(t, string(data), "[source]")
	})

	t.Run("SnapshotBackToText", func(t *testing.T) {
		snap := filepath.Join(t.TempDir(), "crab.toml")
		_, _, code := execute(t, "convert", crabSource, "-o", snap)
		require.Equal(t, ExitSuccess, code)

		out, _, code := execute(t, "convert", snap)
		require.Equal(t, ExitSuccess, code)

		original, err := cosima.Load(crabSource)
		require.NoError(t, err)
		assert.Equal(t, original.ListAllParams().String(), out)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, errOut, code := execute(t, "convert", crabSource, "--format", "xml")
		assert.Equal(t, ExitUsageError, code)
		assert.Contains(t, errOut, "unsupported format")
	})
}

// --- watch ---

func TestWatch(t *testing.T) {
	isolate(t)

	t.Run("PrintsUntilCancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
		defer cancel()

		var out, errOut bytes.Buffer
		code := run(ctx, []string{"watch", crabSource, "--plain"}, &out, &errOut)
		require.Equal(t, ExitSuccess, code, errOut.String())
		assert.Contains(t, out.String(), "Crab.Orientation")
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, errOut, code := execute(t, "watch", filepath.Join(t.TempDir(), "none.source"))
		assert.Equal(t, ExitRuntimeError, code)
		assert.Contains(t, errOut, "source file not found")
	})
}

// --- global flags and settings ---

func TestGlobalFlags(t *testing.T) {
	isolate(t)

	t.Run("MatchFlag", func(t *testing.T) {
		_, _, code := execute(t, "--match", "substring", "show", crabSource)
		assert.Equal(t, ExitSuccess, code)

		_, _, code = execute(t, "--match", "fuzzy", "show", crabSource)
		assert.Equal(t, ExitUsageError, code)
	})

	t.Run("CommentFlag", func(t *testing.T) {
		// Every Crab line becomes a comment
		_, errOut, code := execute(t, "--comment", "Crab", "show", crabSource)
		assert.Equal(t, ExitRuntimeError, code)
		assert.Contains(t, errOut, "missing keyword")
	})

	t.Run("Verbose", func(t *testing.T) {
		_, errOut, code := execute(t, "-v", "show", crabSource, "--plain")
		require.Equal(t, ExitSuccess, code)
		assert.Contains(t, errOut, "keyword resolved")
		assert.Contains(t, errOut, "run resolved")
	})

	t.Run("Quiet", func(t *testing.T) {
		_, errOut, code := execute(t, "show", crabSource, "--plain")
		require.Equal(t, ExitSuccess, code)
		assert.Empty(t, errOut)
	})
}

func TestSettings(t *testing.T) {
	isolate(t)

	t.Run("Defaults", func(t *testing.T) {
		s, path, err := LoadSettings("", DiscoveryOptions{Name: appName})
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Equal(t, DefaultSettings(), s)
	})

	t.Run("FileThenEnv", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "megasrc.toml")
		require.NoError(t, os.WriteFile(path, []byte("match = \"substring\"\nformat = \"yaml\"\n"), 0644))

		opts := DiscoveryOptions{Name: appName, Extensions: []string{".toml"}, Paths: []string{dir}}
		s, found, err := LoadSettings("", opts)
		require.NoError(t, err)
		assert.Equal(t, path, found)
		assert.Equal(t, "substring", s.Match)
		assert.Equal(t, "yaml", s.Format)
		assert.Equal(t, cosima.DefaultCommentMarker, s.Comment)

		t.Setenv("MEGASRC_FORMAT", "json")
		s, _, err = LoadSettings("", opts)
		require.NoError(t, err)
		assert.Equal(t, "json", s.Format)
	})

	t.Run("EnvVarPath", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "custom.toml")
		require.NoError(t, os.WriteFile(path, []byte("comment = \"//\"\n"), 0644))
		t.Setenv("MEGASRC_CONFIG", path)

		s, found, err := LoadSettings("", DefaultDiscoveryOptions())
		require.NoError(t, err)
		assert.Equal(t, path, found)
		assert.Equal(t, "//", s.Comment)
	})

	t.Run("XDG", func(t *testing.T) {
		home := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(home, appName), 0755))
		path := filepath.Join(home, appName, "megasrc.toml")
		require.NoError(t, os.WriteFile(path, []byte("max_file_size = 2048\n"), 0644))
		t.Setenv("XDG_CONFIG_HOME", home)

		s, found, err := LoadSettings("", DiscoveryOptions{Name: appName, Extensions: []string{".toml"}, UseXDG: true})
		require.NoError(t, err)
		assert.Equal(t, path, found)
		assert.Equal(t, int64(2048), s.MaxFileSize)
	})

	t.Run("UnknownKey", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.toml")
		require.NoError(t, os.WriteFile(path, []byte("matching = \"substring\"\n"), 0644))

		_, _, err := LoadSettings(path, DefaultDiscoveryOptions())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "matching")
	})

	t.Run("BadEnvSize", func(t *testing.T) {
		t.Setenv("MEGASRC_MAX_FILE_SIZE", "big")
		_, _, err := LoadSettings("", DiscoveryOptions{Name: appName})
		assert.Error(t, err)
	})

	t.Run("ConfigFlag", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "legacy.toml")
		require.NoError(t, os.WriteFile(path, []byte("format = \"json\"\n"), 0644))

		out, _, code := execute(t, "--config", path, "convert", crabSource)
		require.Equal(t, ExitSuccess, code)
		assert.True(t, strings.HasPrefix(out, "{"), out)

		_, _, code = execute(t, "--config", filepath.Join(t.TempDir(), "none.toml"), "version")
		assert.Equal(t, ExitUsageError, code)
	})

	t.Run("LoadOptions", func(t *testing.T) {
		s := DefaultSettings()
		s.Match = "legacy"
		opts, err := s.LoadOptions(nil)
		require.NoError(t, err)
		assert.Equal(t, cosima.MatchSubstring, opts.MatchMode)

		s.Comment = ""
		_, err = s.LoadOptions(nil)
		assert.Error(t, err)
	})
}

// --- version and exit codes ---

func TestVersion(t *testing.T) {
	isolate(t)
	out, _, code := execute(t, "version")
	require.Equal(t, ExitSuccess, code)
	assert.Equal(t, "megasrc version "+version+"\n", out)
}

func TestExitCodes(t *testing.T) {
	assert.Equal(t, 0, ExitSuccess)
	assert.Equal(t, 2, ExitUsageError)
	assert.Equal(t, 4, ExitRuntimeError)
}
