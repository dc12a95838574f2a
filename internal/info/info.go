// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package info holds application version information.
package info

import "runtime"

var (
	// AppName is the name of the application.
	AppName = "aggregator"
	// Version is dynamically set by the ci or overridden by the Makefile.
	Version = "DEV"
	// BuildDate is dynamically set at build time by the cli or overridden in the Makefile.
	BuildDate = "" // YYYY-MM-DD
)

// ServiceVersionInformation formats the version metadata for display.
func ServiceVersionInformation() string {
	versionString := Version
	if BuildDate != "" {
		versionString += " (" + BuildDate + ")"
	}

	return versionString + ", Go Version: " + runtime.Version()
}

// UserAgent returns the User-Agent used by the aggregator when calling remote sources.
func UserAgent() string {
	return AppName + "/" + Version
}
