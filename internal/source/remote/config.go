// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/mia-platform/aggregator/internal/source"
)

const (
	defaultRetryMax = 3
)

var (
	errMissingURL          = errors.New("url is required")
	errMissingClientID     = errors.New("clientId is required when clientSecret is set")
	errMissingClientSecret = errors.New("clientSecret is required when clientId is set")
)

// config holds the construction parameters of a remote source.
type config struct {
	URL          string            `json:"url"`
	ClientID     string            `json:"clientId,omitempty"`
	ClientSecret string            `json:"clientSecret,omitempty"`
	TokenURL     string            `json:"tokenUrl,omitempty"`
	Headers      map[string]string `json:"headers,omitempty"`
	RetryMax     *int              `json:"retryMax,omitempty"`
}

// configFromParams decodes the single mapping param received by the factory.
func configFromParams(params []any) (*config, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: expected a single mapping, got %d params", source.ErrInvalidParams, len(params))
	}

	var cfg config
	switch typed := params[0].(type) {
	case string:
		cfg.URL = typed
	case map[string]any:
		raw, err := json.Marshal(typed)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", source.ErrInvalidParams, err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", source.ErrInvalidParams, err)
		}
	default:
		return nil, fmt.Errorf("%w: expected a url or a mapping, got %T", source.ErrInvalidParams, params[0])
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", source.ErrInvalidParams, err)
	}

	return &cfg, nil
}

func (c *config) validate() error {
	if c.URL == "" {
		return errMissingURL
	}

	endpointURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	switch {
	case len(c.ClientID) > 0 && len(c.ClientSecret) == 0:
		return errMissingClientSecret
	case len(c.ClientSecret) > 0 && len(c.ClientID) == 0:
		return errMissingClientID
	}

	if len(c.TokenURL) == 0 {
		endpointURL.Path = "/oauth/token"
		endpointURL.RawQuery = ""
		c.TokenURL = endpointURL.String()
	} else if _, err := url.Parse(c.TokenURL); err != nil {
		return fmt.Errorf("invalid tokenUrl: %w", err)
	}

	if c.RetryMax == nil {
		retryMax := defaultRetryMax
		c.RetryMax = &retryMax
	}

	return nil
}
