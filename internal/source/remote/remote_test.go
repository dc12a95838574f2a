// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/aggregator/internal/source"
)

func TestOverview(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		statusCode        int
		responseBody      string
		expectedDocuments []source.Document
		expectedError     string
		expectedStatus    int
	}{
		"documents are decoded": {
			statusCode:   http.StatusOK,
			responseBody: `[{"id":1},{"id":2,"name":"second"}]`,
			expectedDocuments: []source.Document{
				{"id": float64(1)},
				{"id": float64(2), "name": "second"},
			},
		},
		"no content": {
			statusCode:        http.StatusNoContent,
			expectedDocuments: []source.Document{},
		},
		"forbidden (403)": {
			statusCode:     http.StatusForbidden,
			expectedError:  "invalid token or insufficient permissions",
			expectedStatus: http.StatusForbidden,
		},
		"not found (404)": {
			statusCode:     http.StatusNotFound,
			expectedError:  "overview endpoint not found",
			expectedStatus: http.StatusNotFound,
		},
		"json error message": {
			statusCode:     http.StatusBadRequest,
			responseBody:   `{"message":"bad filter"}`,
			expectedError:  "bad filter",
			expectedStatus: http.StatusBadRequest,
		},
		"unknown error": {
			statusCode:     http.StatusInternalServerError,
			responseBody:   "server exploded",
			expectedError:  "unexpected error",
			expectedStatus: http.StatusInternalServerError,
		},
		"invalid payload": {
			statusCode:     http.StatusOK,
			responseBody:   `{"id":1}`,
			expectedError:  "cannot unmarshal",
			expectedStatus: http.StatusOK,
		},
	}

	for name, test := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Accept"))
				assert.NotEmpty(t, r.Header.Get("User-Agent"))
				assert.Equal(t, "mia", r.Header.Get("X-Tenant"))
				assert.Equal(t, "users", r.URL.Query().Get(source.ModelOption))
				assert.JSONEq(t, `{"active":true}`, r.URL.Query().Get(source.FilterOption))

				w.WriteHeader(test.statusCode)
				if test.responseBody != "" {
					_, _ = w.Write([]byte(test.responseBody))
				}
			}))
			defer server.Close()

			remoteSource, err := New(t.Context(), map[string]any{
				"url":      server.URL + "/overview",
				"headers":  map[string]any{"X-Tenant": "mia"},
				"retryMax": 0,
			})
			require.NoError(t, err)

			options := source.Options{
				source.ModelOption:  "users",
				source.FilterOption: map[string]any{"active": true},
			}
			documents, err := remoteSource.Overview(t.Context(), options)
			if test.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), test.expectedError)

				var remoteErr *RemoteError
				require.ErrorAs(t, err, &remoteErr)
				assert.Equal(t, test.expectedStatus, remoteErr.StatusCode)
				assert.Nil(t, documents)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, test.expectedDocuments, documents)
		})
	}
}

func TestOverviewRetriesTransientFailures(t *testing.T) {
	t.Parallel()

	var attempts atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if attempts.Add(1) == 1 {
			w.Header().Set("Retry-After", "0")
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a"}]`))
	}))
	defer server.Close()

	remoteSource, err := New(t.Context(), map[string]any{"url": server.URL, "retryMax": 2})
	require.NoError(t, err)

	documents, err := remoteSource.Overview(t.Context(), nil)
	require.NoError(t, err)
	assert.Equal(t, []source.Document{{"id": "a"}}, documents)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestOverviewWithClientCredentials(t *testing.T) {
	t.Parallel()

	var tokenRequests atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests.Add(1)
		clientID, clientSecret, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", clientID)
		assert.Equal(t, "secret", clientSecret)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "token",
			"token_type":   "bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/overview", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	remoteSource, err := New(t.Context(), map[string]any{
		"url":          server.URL + "/overview",
		"clientId":     "id",
		"clientSecret": "secret",
		"retryMax":     0,
	})
	require.NoError(t, err)

	for range 2 {
		documents, err := remoteSource.Overview(t.Context(), nil)
		require.NoError(t, err)
		assert.Equal(t, []source.Document{{"id": float64(1)}}, documents)
	}
	assert.Equal(t, int32(1), tokenRequests.Load())
}

func TestOverviewUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	remoteSource, err := New(t.Context(), map[string]any{"url": url, "retryMax": 0})
	require.NoError(t, err)

	documents, err := remoteSource.Overview(t.Context(), nil)
	var remoteErr *RemoteError
	require.ErrorAs(t, err, &remoteErr)
	assert.Zero(t, remoteErr.StatusCode)
	assert.Nil(t, documents)
}
