// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package registry

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	loggerName = "aggregator:registry"
)

// Build resolves every entry into a source. Disabled entries, entries with nothing to construct
// and entries whose construction fails are left out of the result; a failing OnInstantiated hook
// fails the whole build with the hook error. Entries are resolved concurrently.
func Build(ctx context.Context, entries map[string]*Entry, factories source.Factories) (map[string]source.Source, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	var lock sync.Mutex
	sources := make(map[string]source.Source, len(entries))

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, name := range slices.Sorted(maps.Keys(entries)) {
		entry := entries[name]
		p.Go(func(ctx context.Context) error {
			resolved, err := resolve(ctx, log, name, entry, factories)
			if err != nil {
				return err
			}
			if resolved == nil {
				return nil
			}

			lock.Lock()
			defer lock.Unlock()
			sources[name] = resolved
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		log.Error("source registry build failed", "error", err)
		return nil, err
	}

	log.Debug("source registry built", "sources", slices.Sorted(maps.Keys(sources)))
	return sources, nil
}

// resolve applies the resolution policy to a single entry. It returns a nil source when the
// entry must be left out of the registry.
func resolve(ctx context.Context, log logger.Logger, name string, entry *Entry, factories source.Factories) (source.Source, error) {
	switch {
	case entry == nil:
		log.Debug("source disabled, skipping", "source", name)
		return nil, nil
	case entry.Service != nil:
		log.Trace("using pre-built source", "source", name)
		return entry.Service, nil
	case entry.Module == "":
		log.Warn("source has neither a service nor a module, skipping", "source", name)
		return nil, nil
	}

	params := entry.constructionParams()
	instance, err := factories.New(ctx, entry.Module, params...)
	if err != nil || instance == nil {
		log.Warn("source construction failed, skipping", "source", name, "module", entry.Module, "error", err)
		return nil, nil
	}
	log.Trace("source constructed", "source", name, "module", entry.Module)

	if entry.OnInstantiated == nil {
		return instance, nil
	}

	replacement, err := entry.OnInstantiated(ctx, instance, params)
	if err != nil {
		log.Error("source post construction hook failed", "source", name, "error", err)
		return nil, err
	}
	if replacement != nil {
		log.Trace("source replaced by post construction hook", "source", name)
		return replacement, nil
	}

	return instance, nil
}
