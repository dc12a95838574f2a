// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/aggregator/internal/source"
)

// Factory builds fake sources and records the parameters of every construction.
type Factory struct {
	tb testing.TB

	build func(params []any) (source.Source, error)

	lock   sync.Mutex
	params [][]any
}

// NewFactory returns a Factory whose sources answer with the received params as documents
// when they are documents, or with no documents otherwise.
func NewFactory(tb testing.TB) *Factory {
	tb.Helper()

	return &Factory{
		tb: tb,
		build: func(params []any) (source.Source, error) {
			documents := make([]source.Document, 0, len(params))
			for _, param := range params {
				if document, ok := param.(source.Document); ok {
					documents = append(documents, document)
				}
			}
			return NewFakeSource(tb, documents), nil
		},
	}
}

// NewFactoryWithError returns a Factory that always fails construction with err.
func NewFactoryWithError(tb testing.TB, err error) *Factory {
	tb.Helper()

	return &Factory{
		tb: tb,
		build: func([]any) (source.Source, error) {
			return nil, err
		},
	}
}

// New satisfies the source.Factory signature.
func (f *Factory) New(_ context.Context, params ...any) (source.Source, error) {
	f.tb.Helper()

	f.lock.Lock()
	f.params = append(f.params, params)
	f.lock.Unlock()

	return f.build(params)
}

// Invocations returns the parameters of every construction, in call order.
func (f *Factory) Invocations() [][]any {
	f.lock.Lock()
	defer f.lock.Unlock()

	invocations := make([][]any, len(f.params))
	copy(invocations, f.params)
	return invocations
}
