// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package remote implements a source that reads its documents from an HTTP endpoint.
// The endpoint receives the model name and the filter as query parameters and must answer
// with a JSON array of objects. Requests are retried on transient failures and can be
// authenticated with an OAuth2 client-credentials flow.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mia-platform/aggregator/internal/info"
	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	// ModuleName is the name used to reference this module in the configuration.
	ModuleName = "remote"

	loggerName = "aggregator:source:remote"
)

var _ source.Source = &remoteSource{}

type remoteSource struct {
	config
	client *retryablehttp.Client
}

// New builds a remote source. It expects one param, either the endpoint url or a mapping with
// the url, optional clientId, clientSecret, tokenUrl, headers and retryMax keys.
func New(ctx context.Context, params ...any) (source.Source, error) {
	cfg, err := configFromParams(params)
	if err != nil {
		return nil, err
	}

	// the client lives as long as the source, detach it from the construction context
	clientCtx := context.WithoutCancel(ctx)
	log := logger.FromContext(ctx).WithName(loggerName)

	return &remoteSource{
		config: *cfg,
		client: newClient(clientCtx, cfg, log),
	}, nil
}

// Overview fetches the documents from the remote endpoint.
func (s *remoteSource) Overview(ctx context.Context, options source.Options) ([]source.Document, error) {
	endpoint, err := s.endpoint(options)
	if err != nil {
		return nil, s.wrap(0, err)
	}

	request, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, s.wrap(0, err)
	}

	request.Header.Set("User-Agent", info.UserAgent())
	request.Header.Set("Accept", "application/json")
	for key, value := range s.Headers {
		request.Header.Set(key, value)
	}

	resp, err := s.client.Do(request)
	if err != nil {
		return nil, s.wrap(0, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent:
		return []source.Document{}, nil
	case http.StatusForbidden, http.StatusUnauthorized:
		return nil, s.wrap(resp.StatusCode, errors.New("invalid token or insufficient permissions"))
	case http.StatusNotFound:
		return nil, s.wrap(resp.StatusCode, errors.New("overview endpoint not found"))
	default:
		var respBody map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&respBody); err == nil {
			if message, ok := respBody["message"].(string); ok {
				return nil, s.wrap(resp.StatusCode, errors.New(message))
			}
		}
		return nil, s.wrap(resp.StatusCode, errors.New("unexpected error"))
	}

	documents := make([]source.Document, 0)
	if err := json.NewDecoder(resp.Body).Decode(&documents); err != nil {
		return nil, s.wrap(resp.StatusCode, err)
	}

	return documents, nil
}

// endpoint adds the model and filter call options to the configured url.
func (s *remoteSource) endpoint(options source.Options) (string, error) {
	endpointURL, err := url.Parse(s.URL)
	if err != nil {
		return "", err
	}

	query := endpointURL.Query()
	if model, ok := options[source.ModelOption].(string); ok && model != "" {
		query.Set(source.ModelOption, model)
	}
	if filter, ok := options[source.FilterOption]; ok && filter != nil {
		encoded, err := json.Marshal(filter)
		if err != nil {
			return "", err
		}
		query.Set(source.FilterOption, string(encoded))
	}

	endpointURL.RawQuery = query.Encode()
	return endpointURL.String(), nil
}

func (s *remoteSource) wrap(statusCode int, err error) error {
	return &RemoteError{
		URL:        s.URL,
		StatusCode: statusCode,
		err:        err,
	}
}
