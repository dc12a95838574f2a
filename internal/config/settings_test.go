// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"path/filepath"
	"strings"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/aggregator/internal/registry"
)

func TestNewSettingsFromPath(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		path             string
		expectedSettings *Settings
		expectedError    error
		expectedMessage  string
	}{
		"valid yaml file": {
			path: filepath.Join("testdata", "settings.yaml"),
			expectedSettings: &Settings{
				Name:  "catalog",
				Debug: true,
				Sources: Sources{
					"fixtures": {
						Module: "static",
						Params: []any{map[string]any{"id": 1}, map[string]any{"id": 2}},
					},
					"inventory": {
						Module: "file",
						Params: "./inventory.yaml",
					},
					"crm": {
						Module: "remote",
						Params: map[string]any{"url": "https://crm.example.com/overview", "retryMax": 1},
					},
					"legacy":   nil,
					"archived": nil,
					"empty":    nil,
				},
			},
		},
		"valid json file": {
			path: filepath.Join("testdata", "settings.json"),
			expectedSettings: &Settings{
				Name: "aggregator",
				Sources: Sources{
					"fixtures": {
						Module: "static",
						Params: []any{map[string]any{"id": 1}},
					},
					"disabled": nil,
				},
			},
		},
		"no sources": {
			path:          filepath.Join("testdata", "no-sources.yaml"),
			expectedError: ErrNoSources,
		},
		"unknown top level field": {
			path:            filepath.Join("testdata", "unknown-field.yaml"),
			expectedError:   ErrParsing,
			expectedMessage: "field timeout not found",
		},
		"unknown source field": {
			path:            filepath.Join("testdata", "unknown-source-field.yaml"),
			expectedError:   ErrParsing,
			expectedMessage: "unknown fields: service",
		},
		"source is not a mapping": {
			path:            filepath.Join("testdata", "scalar-source.yaml"),
			expectedError:   ErrParsing,
			expectedMessage: `source "fixtures" must be a mapping`,
		},
		"missing file": {
			path:          filepath.Join("testdata", "missing.yaml"),
			expectedError: syscall.ENOENT,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			settings, err := NewSettingsFromPath(test.path)
			if test.expectedError != nil {
				require.ErrorIs(t, err, test.expectedError)
				if test.expectedMessage != "" {
					assert.Contains(t, err.Error(), test.expectedMessage)
				}
				assert.Nil(t, settings)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedSettings, settings)
		})
	}
}

func TestNewSettingsEmptyReader(t *testing.T) {
	t.Parallel()

	settings, err := NewSettings("empty", strings.NewReader(""))
	require.ErrorIs(t, err, ErrNoSources)
	assert.Nil(t, settings)
}

func TestFalsyValues(t *testing.T) {
	t.Parallel()

	content := `sources:
  nullValue: ~
  falseValue: false
  zero: 0
  zeroFloat: 0.0
  emptyString: ""
  enabled:
    module: static
`

	settings, err := NewSettings("falsy", strings.NewReader(content))
	require.NoError(t, err)
	assert.Equal(t, []string{"emptyString", "enabled", "falseValue", "nullValue", "zero", "zeroFloat"}, settings.SourceNames())
	for _, name := range []string{"nullValue", "falseValue", "zero", "zeroFloat", "emptyString"} {
		assert.Nil(t, settings.Sources[name], name)
	}
	assert.Equal(t, &SourceConfig{Module: "static"}, settings.Sources["enabled"])
}

func TestSourcesEntries(t *testing.T) {
	t.Parallel()

	sources := Sources{
		"fixtures": {Module: "static", Params: []any{map[string]any{"id": 1}}},
		"disabled": nil,
	}

	assert.Equal(t, map[string]*registry.Entry{
		"fixtures": {Module: "static", Params: []any{map[string]any{"id": 1}}},
		"disabled": nil,
	}, sources.Entries())
}
