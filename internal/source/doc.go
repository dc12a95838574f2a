// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package source defines the contracts shared by the backend services consulted by the aggregator.
// A source exposes a single overview read; sources that can be built from configuration are
// registered by module name in a Factories set known at build time.
package source
