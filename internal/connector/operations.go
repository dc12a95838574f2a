// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package connector

import (
	"context"

	"github.com/mia-platform/aggregator/internal/source"
)

const (
	MethodCreate           = "create"
	MethodUpdateOrCreate   = "updateOrCreate"
	MethodFindOrCreate     = "findOrCreate"
	MethodCount            = "count"
	MethodDestroyAll       = "destroyAll"
	MethodSave             = "save"
	MethodUpdate           = "update"
	MethodUpdateAttributes = "updateAttributes"
)

// DataAccessConnector is the operation surface a host data-access layer drives.
type DataAccessConnector interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	Types() []string
	Define(ctx context.Context, definition ModelDefinition)

	Create(ctx context.Context, model string, data source.Document, options source.Options) (source.Document, error)
	UpdateOrCreate(ctx context.Context, model string, data source.Document, options source.Options) (source.Document, error)
	FindOrCreate(ctx context.Context, model string, filter Filter, data source.Document, options source.Options) (source.Document, error)
	All(ctx context.Context, model string, filter Filter, options source.Options) ([]source.Document, error)
	Count(ctx context.Context, model string, where Filter, options source.Options) (int, error)
	DestroyAll(ctx context.Context, model string, where Filter, options source.Options) (int, error)
	Save(ctx context.Context, model string, data source.Document, options source.Options) (source.Document, error)
	Update(ctx context.Context, model string, where Filter, data source.Document, options source.Options) (int, error)
	Destroy(ctx context.Context, model string, id any, options source.Options) error
	UpdateAttributes(ctx context.Context, model string, id any, data source.Document, options source.Options) (source.Document, error)
}

func (c *Connector) Create(context.Context, string, source.Document, source.Options) (source.Document, error) {
	return nil, notSupported(MethodCreate)
}

func (c *Connector) UpdateOrCreate(context.Context, string, source.Document, source.Options) (source.Document, error) {
	return nil, notSupported(MethodUpdateOrCreate)
}

func (c *Connector) FindOrCreate(context.Context, string, Filter, source.Document, source.Options) (source.Document, error) {
	return nil, notSupported(MethodFindOrCreate)
}

func (c *Connector) Count(context.Context, string, Filter, source.Options) (int, error) {
	return 0, notSupported(MethodCount)
}

func (c *Connector) DestroyAll(context.Context, string, Filter, source.Options) (int, error) {
	return 0, notSupported(MethodDestroyAll)
}

func (c *Connector) Save(context.Context, string, source.Document, source.Options) (source.Document, error) {
	return nil, notSupported(MethodSave)
}

func (c *Connector) Update(context.Context, string, Filter, source.Document, source.Options) (int, error) {
	return 0, notSupported(MethodUpdate)
}

func (c *Connector) UpdateAttributes(context.Context, string, any, source.Document, source.Options) (source.Document, error) {
	return nil, notSupported(MethodUpdateAttributes)
}

// Destroy succeeds without doing anything: sources are read only.
func (c *Connector) Destroy(context.Context, string, any, source.Options) error {
	return nil
}
