// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/aggregator/internal/info"
	"github.com/mia-platform/aggregator/internal/registry"
)

const (
	ModuleField  = "module"
	ParamsField  = "params"
	SourcesField = "sources"
)

var (
	// ErrParsing reports failures that occur while decoding settings files.
	ErrParsing = errors.New("error parsing")
	// ErrNoSources reports a settings file without any configured source.
	ErrNoSources = errors.New("no sources configured")

	knownSourceFields = []string{ModuleField, ParamsField}
)

// Settings holds the aggregator configuration.
type Settings struct {
	Name    string  `json:"name,omitempty" yaml:"name,omitempty"`
	Debug   bool    `json:"debug,omitempty" yaml:"debug,omitempty"`
	Sources Sources `json:"sources" yaml:"sources"`
}

// SourceConfig is the construction recipe of a single source.
type SourceConfig struct {
	Module string `json:"module" yaml:"module"`
	Params any    `json:"params,omitempty" yaml:"params,omitempty"`
}

// Sources maps source names to their configuration. A nil value is a disabled source.
type Sources map[string]*SourceConfig

// UnmarshalYAML decodes the sources mapping, turning falsy values (null, false, 0 and the empty
// string) into disabled sources.
func (s *Sources) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: %s must be a mapping", value.Line, SourcesField)
	}

	sources := make(Sources, len(value.Content)/2)
	for idx := 0; idx+1 < len(value.Content); idx += 2 {
		name := value.Content[idx].Value
		node := value.Content[idx+1]

		if isFalsy(node) {
			sources[name] = nil
			continue
		}

		if node.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: source %q must be a mapping", node.Line, name)
		}

		if err := checkSourceFields(name, node); err != nil {
			return err
		}

		config := new(SourceConfig)
		if err := node.Decode(config); err != nil {
			return fmt.Errorf("source %q: %w", name, err)
		}
		sources[name] = config
	}

	*s = sources
	return nil
}

func isFalsy(node *yaml.Node) bool {
	if node.Kind != yaml.ScalarNode {
		return false
	}

	switch node.ShortTag() {
	case "!!null":
		return true
	case "!!bool":
		return strings.EqualFold(node.Value, "false")
	case "!!int", "!!float":
		var number float64
		return node.Decode(&number) == nil && number == 0
	case "!!str":
		return node.Value == ""
	default:
		return false
	}
}

func checkSourceFields(name string, node *yaml.Node) error {
	unknownFields := []string{}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		field := node.Content[idx].Value
		if !slices.Contains(knownSourceFields, field) {
			unknownFields = append(unknownFields, field)
		}
	}

	if len(unknownFields) > 0 {
		return fmt.Errorf("source %q: unknown fields: %s", name, strings.Join(unknownFields, ", "))
	}
	return nil
}

// Entries converts the sources configuration into registry entries.
func (s Sources) Entries() map[string]*registry.Entry {
	entries := make(map[string]*registry.Entry, len(s))
	for name, config := range s {
		if config == nil {
			entries[name] = nil
			continue
		}

		entries[name] = &registry.Entry{
			Module: config.Module,
			Params: config.Params,
		}
	}

	return entries
}

// NewSettingsFromPath parses the settings file at path and validates it.
func NewSettingsFromPath(path string) (*Settings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return NewSettings(path, file)
}

// NewSettings parses the settings read from reader; name is used in error messages.
func NewSettings(name string, reader io.Reader) (*Settings, error) {
	decoder := yaml.NewDecoder(reader)
	decoder.KnownFields(true)

	settings := new(Settings)
	if err := decoder.Decode(settings); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, name, err)
	}

	if len(settings.Sources) == 0 {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, name, ErrNoSources)
	}

	if settings.Name == "" {
		settings.Name = info.AppName
	}

	return settings, nil
}

// SourceNames returns the sorted names of the configured sources, disabled ones included.
func (s *Settings) SourceNames() []string {
	return slices.Sorted(maps.Keys(s.Sources))
}
