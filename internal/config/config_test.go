package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/alias/internal/logging"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	s, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	require.NoError(t, s.Validate())
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliasrun.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
script = "init.lua"
manifest = "aliases.yaml"
namer = "uuid"
timeout = "2s"

[log]
level = "debug"

[watch]
debounce = "50ms"
`), 0o644))

	s, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "init.lua", s.Script)
	assert.Equal(t, "aliases.yaml", s.Manifest)
	assert.Equal(t, "uuid", s.Namer)
	assert.Equal(t, "debug", s.Log.Level)
	assert.Equal(t, "text", s.Log.Format, "unset keys keep defaults")
	assert.Equal(t, 50*time.Millisecond, s.Watch.Debounce)
	assert.Equal(t, 2*time.Second, s.Timeout)
	assert.Equal(t, "main", s.Entry)
}

func TestLoadDiscoversDotFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".aliasrun.toml"), []byte(`entry = "start"`), 0o644))

	s, err := Load(viper.New(), "")
	require.NoError(t, err)
	assert.Equal(t, "start", s.Entry)
}

func TestLoadEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliasrun.toml")
	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"debug\"\n"), 0o644))
	t.Setenv("ALIASRUN_LOG_LEVEL", "error")
	t.Setenv("ALIASRUN_WATCH_DEBOUNCE", "1s")

	s, err := Load(viper.New(), path)
	require.NoError(t, err)
	assert.Equal(t, "error", s.Log.Level)
	assert.Equal(t, time.Second, s.Watch.Debounce)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
		ok     bool
	}{
		{"defaults", func(*Settings) {}, true},
		{"json logs", func(s *Settings) { s.Log.Format = "json" }, true},
		{"bad level", func(s *Settings) { s.Log.Level = "loud" }, false},
		{"bad format", func(s *Settings) { s.Log.Format = "xml" }, false},
		{"bad namer", func(s *Settings) { s.Namer = "random" }, false},
		{"zero debounce", func(s *Settings) { s.Watch.Debounce = 0 }, false},
		{"negative timeout", func(s *Settings) { s.Timeout = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Defaults()
			tt.modify(&s)
			err := s.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}
}

func TestLogging(t *testing.T) {
	s := Defaults()
	s.Log.Level = "warn"
	s.Log.Format = "json"

	c := s.Logging()
	assert.Equal(t, logging.LevelWarn, c.Level)
	assert.Equal(t, "json", c.Format)
}
