package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/dshills/alias/internal/alias"
	"github.com/dshills/alias/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. ALIASRUN_LOG_LEVEL.
const EnvPrefix = "ALIASRUN"

// Setting keys.
const (
	KeyLogLevel  = "log.level"
	KeyLogFormat = "log.format"
	KeyScript    = "script"
	KeyManifest  = "manifest"
	KeyEntry     = "entry"
	KeyDebounce  = "watch.debounce"
	KeyNamer     = "namer"
	KeyTimeout   = "timeout"
)

// Errors returned by configuration operations.
var (
	// ErrValidationFailed indicates a setting has an unusable value.
	ErrValidationFailed = errors.New("config: validation failed")
)

// Settings configures an aliasrun invocation.
type Settings struct {
	Log      LogSettings   `mapstructure:"log"`
	Script   string        `mapstructure:"script"`
	Manifest string        `mapstructure:"manifest"`
	Entry    string        `mapstructure:"entry"`
	Watch    WatchSettings `mapstructure:"watch"`
	Namer    string        `mapstructure:"namer"`
	// Timeout bounds how long run waits for delayed calls. Zero waits
	// until the loop is idle.
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WatchSettings configures the watch command.
type WatchSettings struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// Defaults returns the built-in settings.
func Defaults() Settings {
	return Settings{
		Log:   LogSettings{Level: "info", Format: "text"},
		Entry: "main",
		Watch: WatchSettings{Debounce: 200 * time.Millisecond},
		Namer: "counter",
	}
}

// SetDefaults registers the built-in settings on v.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault(KeyLogLevel, d.Log.Level)
	v.SetDefault(KeyLogFormat, d.Log.Format)
	v.SetDefault(KeyScript, d.Script)
	v.SetDefault(KeyManifest, d.Manifest)
	v.SetDefault(KeyEntry, d.Entry)
	v.SetDefault(KeyDebounce, d.Watch.Debounce)
	v.SetDefault(KeyNamer, d.Namer)
	v.SetDefault(KeyTimeout, d.Timeout)
}

// Load layers defaults, the config file, and the environment onto v and
// decodes the result. An empty cfgFile searches the working directory
// for .aliasrun.toml, then ~/.config/aliasrun/config.toml. A missing
// config file is not an error; an explicit one that is missing is.
func Load(v *viper.Viper, cfgFile string) (Settings, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".aliasrun")
		v.SetConfigType("toml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "aliasrun"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding config: %w", err)
	}
	return s, nil
}

// Validate reports every unusable setting.
func (s Settings) Validate() error {
	var errs []error
	if !logging.ValidLevel(s.Log.Level) {
		errs = append(errs, fmt.Errorf("%w: log.level %q", ErrValidationFailed, s.Log.Level))
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: log.format %q", ErrValidationFailed, s.Log.Format))
	}
	if _, err := alias.NamerByKind(s.Namer); err != nil {
		errs = append(errs, fmt.Errorf("%w: namer: %v", ErrValidationFailed, err))
	}
	if s.Watch.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("%w: watch.debounce must be positive", ErrValidationFailed))
	}
	if s.Timeout < 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must not be negative", ErrValidationFailed))
	}
	return errors.Join(errs...)
}

// Logging returns the logger configuration for these settings.
func (s Settings) Logging() logging.Config {
	c := logging.DefaultConfig()
	c.Level = logging.ParseLevel(s.Log.Level)
	c.Format = s.Log.Format
	return c
}
