// Package manifest declares aliases in YAML, TOML or JSONC files and
// installs them through an alias engine.
//
// A YAML manifest looks like:
//
//	aliases:
//	  - sources: [save, backup]
//	    as: [persist]
//	    namedCaller: true
//	    delay: 250ms
//	    beforeEach: [hooks.trim]
//	    once: true
package manifest

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Format identifies a manifest encoding.
type Format string

// Supported formats.
const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// FormatFromPath picks a format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Manifest is a list of alias declarations.
type Manifest struct {
	Aliases []Entry `yaml:"aliases" toml:"aliases" json:"aliases"`
}

// Entry declares one alias. Scopes are names of root-level namespaces;
// empty means the engine default. Filters are paths of callables in the
// source scope.
type Entry struct {
	Sources          []string `yaml:"sources" toml:"sources" json:"sources"`
	As               []string `yaml:"as" toml:"as" json:"as"`
	SourceScope      string   `yaml:"sourceScope,omitempty" toml:"sourceScope,omitempty" json:"sourceScope,omitempty"`
	DestinationScope string   `yaml:"destinationScope,omitempty" toml:"destinationScope,omitempty" json:"destinationScope,omitempty"`
	NamedCaller      bool     `yaml:"namedCaller,omitempty" toml:"namedCaller,omitempty" json:"namedCaller,omitempty"`
	Delay            string   `yaml:"delay,omitempty" toml:"delay,omitempty" json:"delay,omitempty"`
	RevertAfter      int      `yaml:"revertAfter,omitempty" toml:"revertAfter,omitempty" json:"revertAfter,omitempty"`
	Once             bool     `yaml:"once,omitempty" toml:"once,omitempty" json:"once,omitempty"`
	BeforeAll        []string `yaml:"beforeAll,omitempty" toml:"beforeAll,omitempty" json:"beforeAll,omitempty"`
	BeforeEach       []string `yaml:"beforeEach,omitempty" toml:"beforeEach,omitempty" json:"beforeEach,omitempty"`
	AfterEach        []string `yaml:"afterEach,omitempty" toml:"afterEach,omitempty" json:"afterEach,omitempty"`
	AfterAll         []string `yaml:"afterAll,omitempty" toml:"afterAll,omitempty" json:"afterAll,omitempty"`
}

// DelayDuration parses Delay. An empty delay is zero.
func (e Entry) DelayDuration() (time.Duration, error) {
	if e.Delay == "" {
		return 0, nil
	}
	return time.ParseDuration(e.Delay)
}

// String names the entry for errors and logs.
func (e Entry) String() string {
	return fmt.Sprintf("%s -> %s", strings.Join(e.Sources, ","), strings.Join(e.As, ","))
}
