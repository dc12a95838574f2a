// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package registry

import (
	"context"

	"github.com/mia-platform/aggregator/internal/source"
)

// Hook is invoked after a source has been constructed from a module. It receives the new
// instance and the construction params; a non nil returned source replaces the instance,
// an error aborts the whole registry build.
type Hook func(ctx context.Context, instance source.Source, params []any) (source.Source, error)

// Entry is the configuration of a single source. A nil *Entry is a disabled source.
type Entry struct {
	// Service is a pre-built source used as-is. When set, Module and Params are ignored.
	Service source.Source
	// Module is the name of the factory used to construct the source.
	Module string
	// Params holds the construction params: a []any is spread as separate arguments,
	// any other non nil value is passed as the only argument.
	Params any
	// OnInstantiated is an optional hook run after the construction from Module.
	OnInstantiated Hook
}

// constructionParams normalizes Params into the argument list passed to the factory.
func (e *Entry) constructionParams() []any {
	switch params := e.Params.(type) {
	case nil:
		return nil
	case []any:
		return params
	default:
		return []any{params}
	}
}
