// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package registry resolves the configured source entries into live source services.
// The resulting mapping is built once, when the connector connects, and never changes afterward.
package registry
