// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package remote

import "fmt"

// RemoteError wraps failures returned by a remote source.
type RemoteError struct {
	URL        string
	StatusCode int
	err        error
}

func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote source %s: status %d: %s", e.URL, e.StatusCode, e.err)
	}
	return fmt.Sprintf("remote source %s: %s", e.URL, e.err)
}

func (e *RemoteError) Unwrap() error {
	return e.err
}
