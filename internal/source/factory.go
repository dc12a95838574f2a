// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package source

import (
	"context"
	"errors"
	"fmt"
	"maps"
)

var (
	// ErrUnknownModule is returned when a configuration references a module without a factory.
	ErrUnknownModule = errors.New("unknown source module")
	// ErrInvalidParams is returned by factories receiving parameters they cannot use.
	ErrInvalidParams = errors.New("invalid source parameters")
)

// Factory constructs a Source from the construction parameters found in the configuration.
type Factory func(ctx context.Context, params ...any) (Source, error)

// Factories maps module names to their constructor.
type Factories map[string]Factory

// New invokes the factory registered for module with params.
func (f Factories) New(ctx context.Context, module string, params ...any) (Source, error) {
	factory, ok := f[module]
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownModule, module)
	}

	return factory(ctx, params...)
}

// With returns a copy of f that also contains factory registered as module.
func (f Factories) With(module string, factory Factory) Factories {
	copied := make(Factories, len(f)+1)
	maps.Copy(copied, f)
	copied[module] = factory
	return copied
}
