package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return decodeFile(path, data)
}

// LoadFS reads and validates a manifest from fsys.
func LoadFS(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", name, err)
	}
	return decodeFile(name, data)
}

func decodeFile(path string, data []byte) (*Manifest, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(format, path, data)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Parse decodes data in the given format. source names the input in
// errors. Parse does not validate.
func Parse(format Format, source string, data []byte) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	case FormatTOML:
		if err := toml.Unmarshal(data, &m); err != nil {
			perr := &ParseError{Path: source, Message: err.Error(), Err: err}
			var derr *toml.DecodeError
			if errors.As(err, &derr) {
				perr.Line, perr.Column = derr.Position()
			}
			return nil, perr
		}
	case FormatJSON:
		if err := json.Unmarshal(jsonc.ToJSON(data), &m); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &m, nil
}

// Validate checks every entry and reports all problems at once.
func (m *Manifest) Validate() error {
	var errs []error
	for i, e := range m.Aliases {
		if err := e.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("alias %d (%s): %w", i, e, err))
		}
	}
	return errors.Join(errs...)
}

// Validate checks a single entry.
func (e Entry) Validate() error {
	if len(e.Sources) == 0 {
		return fmt.Errorf("%w: no sources", ErrInvalidEntry)
	}
	if len(e.As) == 0 {
		return fmt.Errorf("%w: no destinations", ErrInvalidEntry)
	}
	for _, list := range [][]string{e.Sources, e.As, e.BeforeAll, e.BeforeEach, e.AfterEach, e.AfterAll} {
		for _, p := range list {
			if p == "" {
				return fmt.Errorf("%w: empty path", ErrInvalidEntry)
			}
		}
	}
	d, err := e.DelayDuration()
	if err != nil {
		return fmt.Errorf("%w: delay %q: %v", ErrInvalidEntry, e.Delay, err)
	}
	if d < 0 {
		return fmt.Errorf("%w: negative delay %s", ErrInvalidEntry, e.Delay)
	}
	if e.RevertAfter < 0 {
		return fmt.Errorf("%w: revertAfter must be positive, got %d", ErrInvalidEntry, e.RevertAfter)
	}
	if e.Once && e.RevertAfter > 0 {
		return fmt.Errorf("%w: once and revertAfter are exclusive", ErrInvalidEntry)
	}
	return nil
}
