// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config loads the aggregator settings from a YAML or JSON file and from the environment.
package config
