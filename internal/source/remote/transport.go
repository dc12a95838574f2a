// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"context"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mia-platform/aggregator/internal/logger"
)

// newTransport returns the base transport, authenticated with a client-credentials flow
// when the source has credentials configured.
func newTransport(ctx context.Context, cfg *config) http.RoundTripper {
	if len(cfg.ClientID) == 0 || len(cfg.ClientSecret) == 0 {
		return http.DefaultTransport
	}

	credentials := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	return &oauth2.Transport{
		Source: credentials.TokenSource(ctx),
		Base:   http.DefaultTransport,
	}
}

// newClient wraps the source transport in a retrying client logging through log.
func newClient(ctx context.Context, cfg *config, log logger.Logger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.HTTPClient = &http.Client{
		Transport: newTransport(ctx, cfg),
	}
	client.RetryMax = *cfg.RetryMax
	client.Logger = log
	// hand back the last response once retries are exhausted, so its error message can be read
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return client
}
