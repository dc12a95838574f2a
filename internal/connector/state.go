// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package connector

//go:generate ${TOOLS_BIN}/stringer -type=State
type State int

const (
	// Disconnected is the initial state and the state reached after Disconnect.
	Disconnected State = iota
	// Connecting is the state held while the source registry is being built.
	Connecting
	// Connected is the state reached after a successful Connect.
	Connected
	// Disconnecting is the state held while Disconnect runs.
	Disconnecting
)
