// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package source

import (
	"context"
	"maps"
)

const (
	// ModelOption is the call option key holding the name of the model being read.
	ModelOption = "model"
	// FilterOption is the call option key holding the filter received from the host framework.
	FilterOption = "filter"
)

// Document is a single record returned by a source.
type Document map[string]any

// Options holds opaque per-call options forwarded to sources.
type Options map[string]any

// With returns a copy of o with key set to value. The receiver is never modified.
func (o Options) With(key string, value any) Options {
	copied := make(Options, len(o)+1)
	maps.Copy(copied, o)
	copied[key] = value
	return copied
}

// Source defines the interface for a backend service that can be aggregated.
type Source interface {
	// Overview returns the documents held by the source. Options carries the call options
	// received by the connector enriched with the model name and the filter.
	Overview(ctx context.Context, options Options) ([]Document, error)
}
