// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/aggregator/internal/logger"
)

var (
	errInvalidRequest = errors.New("invalid request")
	errSourceFailure  = errors.New("source failure")
)

// errorResponse is the body returned for every failed request.
type errorResponse struct {
	StatusCode int    `json:"statusCode"`
	Error      string `json:"error"`
	Message    string `json:"message"`
}

func statusCodeFor(err error) int {
	var fiberErr *fiber.Error
	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code
	case errors.Is(err, errors.ErrUnsupported):
		return http.StatusNotImplemented
	case errors.Is(err, errInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, errSourceFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error response directly so the request logger sees the final status.
func respondError(c *fiber.Ctx, err error) error {
	statusCode := statusCodeFor(err)
	if statusCode >= http.StatusInternalServerError && statusCode != http.StatusNotImplemented {
		logger.FromContext(c.UserContext()).WithName(loggerName).Error("request failed", "path", c.Path(), "error", err)
	}

	return c.Status(statusCode).JSON(errorResponse{
		StatusCode: statusCode,
		Error:      http.StatusText(statusCode),
		Message:    err.Error(),
	})
}

func fiberErrorHandler(c *fiber.Ctx, err error) error {
	return respondError(c, err)
}
