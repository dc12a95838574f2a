// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package connector implements the aggregated data-access connector.
// A Connector exposes the operation surface expected by a host data-access layer: reads
// are fanned out to every configured source and concatenated, while write operations
// are reported as not supported.
package connector
