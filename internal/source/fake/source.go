// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"sync"
	"testing"

	"github.com/mia-platform/aggregator/internal/source"
)

var _ source.Source = &FakeSource{}

// FakeSource returns a fixed list of documents and records every call it receives.
type FakeSource struct {
	tb testing.TB

	documents []source.Document
	err       error

	lock    sync.Mutex
	calls   []source.Options
	blockOn <-chan struct{}
}

// NewFakeSource returns a source that always answers with documents.
func NewFakeSource(tb testing.TB, documents []source.Document) *FakeSource {
	tb.Helper()

	return &FakeSource{
		tb:        tb,
		documents: documents,
	}
}

// NewFakeSourceWithError returns a source that always fails with err.
func NewFakeSourceWithError(tb testing.TB, err error) *FakeSource {
	tb.Helper()

	return &FakeSource{
		tb:  tb,
		err: err,
	}
}

// BlockUntil makes every Overview call wait for release to be closed, or for the context to end.
func (f *FakeSource) BlockUntil(release <-chan struct{}) *FakeSource {
	f.blockOn = release
	return f
}

// Overview records the call and returns the configured documents or error.
func (f *FakeSource) Overview(ctx context.Context, options source.Options) ([]source.Document, error) {
	f.tb.Helper()

	f.lock.Lock()
	f.calls = append(f.calls, options)
	f.lock.Unlock()

	if f.blockOn != nil {
		select {
		case <-f.blockOn:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if f.err != nil {
		return nil, f.err
	}

	return f.documents, nil
}

// Calls returns the options received by every Overview invocation.
func (f *FakeSource) Calls() []source.Options {
	f.lock.Lock()
	defer f.lock.Unlock()

	calls := make([]source.Options, len(f.calls))
	copy(calls, f.calls)
	return calls
}
