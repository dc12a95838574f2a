// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package logger exposes the structured logger used across the aggregator.
// Loggers travel inside a context.Context so that every operation, from the
// registry build to a single HTTP request, logs with the same configuration.
package logger
