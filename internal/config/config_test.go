package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, ", ", cfg.Editor.Separator)
	assert.Equal(t, 4, cfg.Apply.Parallelism)
	assert.Equal(t, 3, cfg.Preview.ContextLines)
	assert.Equal(t, "300ms", cfg.Watch.Debounce)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), DefaultPath))

	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	content := "apply:\n  parallelism: 8\npreview:\n  context_lines: 1\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Apply.Parallelism)
	assert.Equal(t, 1, cfg.Preview.ContextLines)
	// Untouched sections keep their defaults.
	assert.Equal(t, ", ", cfg.Editor.Separator)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	require.NoError(t, os.WriteFile(path, []byte("apply: ["), 0644))

	_, err := Load(path)

	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Run("each variable overrides its field", func(t *testing.T) {
		t.Setenv("STED_SEPARATOR", ",\t")
		t.Setenv("STED_PARALLELISM", "2")
		t.Setenv("STED_CONTEXT_LINES", "0")
		t.Setenv("STED_DEBOUNCE", "1s")
		t.Setenv("STED_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, ",\t", cfg.Editor.Separator)
		assert.Equal(t, 2, cfg.Apply.Parallelism)
		assert.Equal(t, 0, cfg.Preview.ContextLines)
		assert.Equal(t, "1s", cfg.Watch.Debounce)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("environment wins over the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), DefaultPath)
		require.NoError(t, os.WriteFile(path, []byte("apply:\n  parallelism: 8\n"), 0644))
		t.Setenv("STED_PARALLELISM", "9")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, 9, cfg.Apply.Parallelism)
	})

	t.Run("malformed numbers are ignored", func(t *testing.T) {
		t.Setenv("STED_PARALLELISM", "many")
		t.Setenv("STED_CONTEXT_LINES", "-1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 4, cfg.Apply.Parallelism)
		assert.Equal(t, 3, cfg.Preview.ContextLines)
	})
}

func TestWatchDebounce(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce())

	cfg.Watch.Debounce = "2s"
	assert.Equal(t, 2*time.Second, cfg.WatchDebounce())

	cfg.Watch.Debounce = "soon"
	assert.Equal(t, 300*time.Millisecond, cfg.WatchDebounce())
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "separator must start with a comma",
			mutate:  func(c *Config) { c.Editor.Separator = "; " },
			wantErr: "invalid separator",
		},
		{
			name:    "separator tail must be blank",
			mutate:  func(c *Config) { c.Editor.Separator = ",x" },
			wantErr: "invalid separator",
		},
		{
			name:    "parallelism must be positive",
			mutate:  func(c *Config) { c.Apply.Parallelism = 0 },
			wantErr: "parallelism must be at least 1",
		},
		{
			name:    "context lines must not be negative",
			mutate:  func(c *Config) { c.Preview.ContextLines = -1 },
			wantErr: "must not be negative",
		},
		{
			name:    "debounce must parse",
			mutate:  func(c *Config) { c.Watch.Debounce = "soon" },
			wantErr: "invalid watch debounce",
		},
		{
			name:    "log level must be known",
			mutate:  func(c *Config) { c.Logging.Level = "loud" },
			wantErr: "invalid log level",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := DefaultConfig()
			c.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), c.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", DefaultPath)

	cfg := DefaultConfig()
	cfg.Apply.Parallelism = 16
	cfg.Logging.Level = "warn"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
