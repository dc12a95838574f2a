// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package connector

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/registry"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	loggerName = "aggregator:connector"

	// AggregatedType is the only capability tag reported by the connector.
	AggregatedType = "aggregated"
)

var (
	// ErrNoSources is returned when a connector is created without any configured source.
	ErrNoSources = errors.New("at least one source must be configured")
)

// Filter is the filter received from the host framework for read operations.
type Filter map[string]any

// ModelDefinition describes a model registered by the host framework.
type ModelDefinition struct {
	Name       string
	Properties map[string]any
	Settings   map[string]any
}

// Settings holds the configuration of a Connector.
type Settings struct {
	// Name identifies the connector in diagnostics.
	Name string
	// Debug enables verbose diagnostics for every operation.
	Debug bool
	// Sources maps each source name to its configuration entry, a nil entry disables the source.
	Sources map[string]*registry.Entry
}

var _ DataAccessConnector = &Connector{}

// Connector is the aggregated connector. It is safe for concurrent use.
type Connector struct {
	settings  Settings
	factories source.Factories

	// connectLock serializes the lifecycle transitions
	connectLock sync.Mutex

	lock     sync.RWMutex
	state    State
	registry map[string]source.Source
}

// New returns a disconnected Connector. factories holds the modules that source entries can
// reference for construction.
func New(settings Settings, factories source.Factories) (*Connector, error) {
	if len(settings.Sources) == 0 {
		return nil, ErrNoSources
	}

	return &Connector{
		settings:  settings,
		factories: factories,
		state:     Disconnected,
	}, nil
}

// Name returns the identifier of the connector.
func (c *Connector) Name() string {
	return c.settings.Name
}

// State returns the current lifecycle state.
func (c *Connector) State() State {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return c.state
}

// Sources returns the sorted names of the registered sources.
func (c *Connector) Sources() []string {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return slices.Sorted(maps.Keys(c.registry))
}

func (c *Connector) namedLogger(ctx context.Context) logger.Logger {
	return logger.FromContext(ctx).WithName(loggerName)
}

func (c *Connector) setState(state State) {
	c.lock.Lock()
	defer c.lock.Unlock()
	c.state = state
}

// Connect builds the source registry. On failure the connector goes back to Disconnected and
// keeps the registry it had before. Connecting an already connected connector does nothing.
func (c *Connector) Connect(ctx context.Context) error {
	c.connectLock.Lock()
	defer c.connectLock.Unlock()

	log := c.namedLogger(ctx)
	if c.State() == Connected {
		log.Trace("connector already connected", "name", c.settings.Name)
		return nil
	}

	c.setState(Connecting)
	log.Debug("connecting", "name", c.settings.Name, "sources", len(c.settings.Sources))

	sources, err := registry.Build(ctx, c.settings.Sources, c.factories)
	if err != nil {
		c.setState(Disconnected)
		log.Error("connection failed", "name", c.settings.Name, "error", err)
		return err
	}

	c.lock.Lock()
	c.registry = sources
	c.state = Connected
	c.lock.Unlock()

	log.Info("connector connected", "name", c.settings.Name, "sources", slices.Sorted(maps.Keys(sources)))
	return nil
}

// Disconnect always succeeds. Sources manage their own connectivity, so nothing is released.
func (c *Connector) Disconnect(ctx context.Context) error {
	c.connectLock.Lock()
	defer c.connectLock.Unlock()

	c.setState(Disconnecting)
	c.namedLogger(ctx).Debug("disconnecting", "name", c.settings.Name)
	c.setState(Disconnected)
	return nil
}

// Ping always succeeds.
func (c *Connector) Ping(ctx context.Context) error {
	c.namedLogger(ctx).Trace("ping", "name", c.settings.Name, "state", c.State().String())
	return nil
}

// Types returns the capability tags of the connector.
func (c *Connector) Types() []string {
	return []string{AggregatedType}
}

// Define is called once for every model registered by the host framework.
func (c *Connector) Define(ctx context.Context, definition ModelDefinition) {
	if c.settings.Debug {
		c.namedLogger(ctx).Debug("model defined", "name", c.settings.Name, "model", definition.Name)
	}
}

// All reads the documents of model from every registered source in parallel and returns their
// concatenation, ordered by source name and then by the order of each source result.
// The first source failure fails the whole call and no partial result is returned.
func (c *Connector) All(ctx context.Context, model string, filter Filter, options source.Options) ([]source.Document, error) {
	log := c.namedLogger(ctx)

	c.lock.RLock()
	sources := c.registry
	c.lock.RUnlock()

	callOptions := options.With(source.ModelOption, model)
	if filter != nil {
		callOptions = callOptions.With(source.FilterOption, map[string]any(filter))
	}

	names := slices.Sorted(maps.Keys(sources))
	results := make([][]source.Document, len(names))

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for idx, name := range names {
		p.Go(func(ctx context.Context) error {
			documents, err := sources[name].Overview(ctx, maps.Clone(callOptions))
			if err != nil {
				log.Debug("source read failed", "source", name, "model", model, "error", err)
				return err
			}

			if c.settings.Debug {
				log.Debug("source read", "source", name, "model", model, "count", len(documents))
			}
			results[idx] = documents
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		log.Error("aggregated read failed", "name", c.settings.Name, "model", model, "error", err)
		return nil, err
	}

	total := 0
	for _, documents := range results {
		total += len(documents)
	}

	aggregated := make([]source.Document, 0, total)
	for _, documents := range results {
		aggregated = append(aggregated, documents...)
	}

	return aggregated, nil
}
