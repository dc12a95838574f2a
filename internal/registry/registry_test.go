// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package registry

import (
	"bytes"
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/source"
	"github.com/mia-platform/aggregator/internal/source/fake"
)

func TestConstructionParams(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		params   any
		expected []any
	}{
		"nil params": {
			expected: nil,
		},
		"list is spread": {
			params:   []any{"a", 1},
			expected: []any{"a", 1},
		},
		"single value": {
			params:   "a",
			expected: []any{"a"},
		},
		"single mapping": {
			params:   map[string]any{"url": "http://example.com"},
			expected: []any{map[string]any{"url": "http://example.com"}},
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			entry := &Entry{Params: test.params}
			assert.Equal(t, test.expected, entry.constructionParams())
		})
	}
}

func TestBuild(t *testing.T) {
	t.Parallel()

	prebuilt := fake.NewFakeSource(t, []source.Document{{"id": "prebuilt"}})

	testCases := map[string]struct {
		entries         func(factory *fake.Factory) map[string]*Entry
		expectedSources []string
		expectedCalls   [][]any
		expectedErr     error
	}{
		"empty configuration": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{}
			},
			expectedSources: []string{},
			expectedCalls:   [][]any{},
		},
		"disabled entry is skipped": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"disabled": nil,
					"enabled":  {Module: "fake"},
				}
			},
			expectedSources: []string{"enabled"},
			expectedCalls:   [][]any{nil},
		},
		"pre-built service skips the factory": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"prebuilt": {Service: prebuilt, Module: "fake", Params: "ignored"},
				}
			},
			expectedSources: []string{"prebuilt"},
			expectedCalls:   [][]any{},
		},
		"params are spread or passed as single argument": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"list":   {Module: "fake", Params: []any{"a", "b"}},
					"single": {Module: "fake", Params: "c"},
				}
			},
			expectedSources: []string{"list", "single"},
			expectedCalls:   [][]any{{"a", "b"}, {"c"}},
		},
		"unknown module is skipped": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"unknown": {Module: "missing"},
					"known":   {Module: "fake"},
				}
			},
			expectedSources: []string{"known"},
			expectedCalls:   [][]any{nil},
		},
		"entry without service nor module is skipped": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"empty": {Params: "orphan"},
				}
			},
			expectedSources: []string{},
			expectedCalls:   [][]any{},
		},
		"failing hook fails the build": {
			entries: func(*fake.Factory) map[string]*Entry {
				return map[string]*Entry{
					"ok": {Module: "fake"},
					"broken": {
						Module: "fake",
						OnInstantiated: func(context.Context, source.Source, []any) (source.Source, error) {
							return nil, assert.AnError
						},
					},
				}
			},
			expectedErr: assert.AnError,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			factory := fake.NewFactory(t)
			factories := source.Factories{"fake": factory.New}

			sources, err := Build(t.Context(), test.entries(factory), factories)
			if test.expectedErr != nil {
				require.ErrorIs(t, err, test.expectedErr)
				assert.Nil(t, sources)
				return
			}

			require.NoError(t, err)
			names := make([]string, 0, len(sources))
			for name := range sources {
				names = append(names, name)
			}
			assert.ElementsMatch(t, test.expectedSources, names)
			assert.ElementsMatch(t, test.expectedCalls, factory.Invocations())
		})
	}
}

func TestBuildUsesPrebuiltInstance(t *testing.T) {
	t.Parallel()

	prebuilt := fake.NewFakeSource(t, nil)
	factory := fake.NewFactory(t)

	sources, err := Build(t.Context(), map[string]*Entry{"prebuilt": {Service: prebuilt}}, source.Factories{"fake": factory.New})
	require.NoError(t, err)
	assert.Same(t, prebuilt, sources["prebuilt"])
	assert.Empty(t, factory.Invocations())
}

func TestBuildFactoryFailureIsSkipped(t *testing.T) {
	t.Parallel()

	buffer := new(bytes.Buffer)
	log := logger.NewLogger(buffer)
	ctx := logger.WithContext(t.Context(), log)

	failing := fake.NewFactoryWithError(t, assert.AnError)
	sources, err := Build(ctx, map[string]*Entry{"broken": {Module: "failing", Params: "x"}}, source.Factories{"failing": failing.New})
	require.NoError(t, err)
	assert.Empty(t, sources)
	assert.Equal(t, [][]any{{"x"}}, failing.Invocations())
	assert.Contains(t, buffer.String(), "source construction failed, skipping")
}

func TestBuildHook(t *testing.T) {
	t.Parallel()

	replacement := fake.NewFakeSource(t, []source.Document{{"id": "replacement"}})

	testCases := map[string]struct {
		hook     func(*atomic.Pointer[source.Source]) Hook
		replaced bool
	}{
		"hook keeps the instance": {
			hook: func(received *atomic.Pointer[source.Source]) Hook {
				return func(_ context.Context, instance source.Source, params []any) (source.Source, error) {
					received.Store(&instance)
					assert.Equal(t, []any{"a", "b"}, params)
					return nil, nil
				}
			},
		},
		"hook replaces the instance": {
			hook: func(received *atomic.Pointer[source.Source]) Hook {
				return func(_ context.Context, instance source.Source, _ []any) (source.Source, error) {
					received.Store(&instance)
					return replacement, nil
				}
			},
			replaced: true,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var received atomic.Pointer[source.Source]
			factory := fake.NewFactory(t)
			entries := map[string]*Entry{
				"hooked": {Module: "fake", Params: []any{"a", "b"}, OnInstantiated: test.hook(&received)},
			}

			sources, err := Build(t.Context(), entries, source.Factories{"fake": factory.New})
			require.NoError(t, err)
			require.NotNil(t, received.Load())

			if test.replaced {
				assert.Same(t, replacement, sources["hooked"])
				return
			}
			assert.Equal(t, *received.Load(), sources["hooked"])
		})
	}
}
