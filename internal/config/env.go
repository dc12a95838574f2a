// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

var (
	ErrEnvVariablesNotValid = errors.New("environment variables not valid")
)

// Environment holds the settings that can be provided through environment variables.
type Environment struct {
	ConfigPath string  `env:"AGGREGATOR_CONFIG_PATH" envDefault:"aggregator.yaml"`
	Name       *string `env:"AGGREGATOR_NAME"`
	Debug      *bool   `env:"AGGREGATOR_DEBUG"`
}

// LoadEnvironment reads the aggregator environment variables.
func LoadEnvironment() (*Environment, error) {
	environment, err := env.ParseAs[Environment]()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnvVariablesNotValid, err.Error())
	}

	return &environment, nil
}

// Apply overrides the values of settings that are set in the environment.
func (e *Environment) Apply(settings *Settings) {
	if e.Name != nil && *e.Name != "" {
		settings.Name = *e.Name
	}
	if e.Debug != nil {
		settings.Debug = *e.Debug
	}
}
