// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"

	"github.com/mia-platform/aggregator/internal/config"
	"github.com/mia-platform/aggregator/internal/connector"
	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	loggerName = "aggregator:cmd"
)

// options configures the connector for a single read or for serving it over HTTP.
type options struct {
	model        string
	configPath   string
	filter       connector.Filter
	factories    source.Factories
	serverGetter serverGetter
	out          io.Writer

	lock sync.Mutex
}

// validate checks that a model has been provided for the read.
func (o *options) validate() error {
	if o.model == "" {
		return errNoArguments
	}

	return nil
}

// settings loads the settings file and applies the environment overrides on it.
func (o *options) settings(ctx context.Context) (*config.Settings, error) {
	environment, err := config.LoadEnvironment()
	if err != nil {
		return nil, err
	}

	path := o.configPath
	if path == "" {
		path = environment.ConfigPath
	}

	settings, err := config.NewSettingsFromPath(path)
	if err != nil {
		return nil, err
	}
	environment.Apply(settings)

	if settings.Debug {
		logger.FromContext(ctx).SetLevel(logger.DEBUG)
	}

	return settings, nil
}

// connect builds a connector from the settings and connects it.
func (o *options) connect(ctx context.Context) (*connector.Connector, error) {
	settings, err := o.settings(ctx)
	if err != nil {
		return nil, err
	}

	conn, err := connector.New(connector.Settings{
		Name:    settings.Name,
		Debug:   settings.Debug,
		Sources: settings.Sources.Entries(),
	}, o.factories)
	if err != nil {
		return nil, err
	}

	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}

	return conn, nil
}

// executeAll reads the model from every source and writes the documents as JSON.
func (o *options) executeAll(ctx context.Context) (err error) {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	conn, err := o.connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, conn.Disconnect(ctx))
	}()

	documents, err := conn.All(ctx, o.model, o.filter, nil)
	if err != nil {
		return err
	}

	encoder := json.NewEncoder(o.out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(documents)
}

// executeServe exposes the connector over HTTP until ctx is done.
func (o *options) executeServe(ctx context.Context) error {
	if !o.lock.TryLock() {
		return nil
	}
	defer o.lock.Unlock()

	log := logger.FromContext(ctx).WithName(loggerName)
	conn, err := o.connect(ctx)
	if err != nil {
		return err
	}

	srv, err := o.serverGetter(ctx, conn)
	if err != nil {
		return errors.Join(err, conn.Disconnect(ctx))
	}

	srv.StartAsync(ctx)
	<-ctx.Done()

	log.Info("shutting down", "name", conn.Name())
	return errors.Join(srv.Stop(), conn.Disconnect(context.WithoutCancel(ctx)))
}
