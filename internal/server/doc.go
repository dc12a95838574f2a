// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package server exposes the aggregated connector over HTTP.
// It sets up the server using the Fiber framework, configures the request logging middleware,
// and maps every connector operation to a route under /models, plus the status routes under /-/.
package server
