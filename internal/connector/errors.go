// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package connector

import "errors"

// MethodNotSupportedError signals an operation the aggregated connector deliberately does not implement.
type MethodNotSupportedError struct {
	Method string
}

func (e *MethodNotSupportedError) Error() string {
	return "method " + e.Method + " not supported"
}

func (e *MethodNotSupportedError) Unwrap() error {
	return errors.ErrUnsupported
}

func notSupported(method string) error {
	return &MethodNotSupportedError{Method: method}
}
