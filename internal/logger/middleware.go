// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	forwardedHostHeader = "x-forwarded-host"
	forwardedForHeader  = "x-forwarded-for"
	requestIDHeader     = "x-request-id"
	userAgentHeader     = "user-agent"

	IncomingRequestMessage  = "incoming request"
	RequestCompletedMessage = "request completed"
)

// httpFields groups the request and response attributes attached to request logs.
type httpFields struct {
	Method     string `json:"method,omitempty"`
	UserAgent  string `json:"userAgent,omitempty"`
	StatusCode int    `json:"statusCode,omitempty"`
	BodyBytes  int    `json:"bodyBytes,omitempty"`
}

// hostFields describes who sent the request.
type hostFields struct {
	Hostname      string `json:"hostname,omitempty"`
	ForwardedHost string `json:"forwardedHost,omitempty"`
	IP            string `json:"ip,omitempty"`
}

// RequestID returns the request id sent by the caller, or a new random one.
func RequestID(c *fiber.Ctx) string {
	if requestID := c.Get(requestIDHeader); requestID != "" {
		return requestID
	}

	return uuid.NewString()
}

func requestHost(c *fiber.Ctx) hostFields {
	return hostFields{
		Hostname:      strings.Split(string(c.Request().Host()), ":")[0],
		ForwardedHost: c.Get(forwardedHostHeader),
		IP:            c.Get(forwardedForHeader),
	}
}

// responseStatus reads the status and size of the response, preferring the handler error when
// it is a *fiber.Error because the error handler has not written the response yet.
func responseStatus(c *fiber.Ctx, handlerErr error) (int, int) {
	if fiberErr, ok := handlerErr.(*fiber.Error); ok {
		return fiberErr.Code, len(fiberErr.Message)
	}

	size := len(c.Response().Body())
	if contentLength := c.GetRespHeader(fiber.HeaderContentLength); contentLength != "" {
		if length, err := strconv.Atoi(contentLength); err == nil {
			size = length
		}
	}

	return c.Response().StatusCode(), size
}

// RequestMiddlewareLogger is a fiber middleware that stores a request scoped logger in the
// user context and logs every request on arrival and on completion, with its latency.
// Requests whose path starts with one of excludedPrefixes still get the logger but are not logged.
func RequestMiddlewareLogger(logger Logger, excludedPrefixes []string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestLogger := logger.WithName("request:" + RequestID(c))
		c.SetUserContext(WithContext(c.UserContext(), requestLogger))

		path := string(c.Request().URI().RequestURI())
		for _, prefix := range excludedPrefixes {
			if strings.HasPrefix(path, prefix) {
				return c.Next()
			}
		}

		start := time.Now()

		requestLogger.Trace(IncomingRequestMessage,
			"http", httpFields{Method: c.Method(), UserAgent: c.Get(userAgentHeader)},
			"path", path,
			"host", requestHost(c),
		)

		err := c.Next()

		statusCode, size := responseStatus(c, err)
		requestLogger.Info(RequestCompletedMessage,
			"http", httpFields{
				Method:     c.Method(),
				UserAgent:  c.Get(userAgentHeader),
				StatusCode: statusCode,
				BodyBytes:  size,
			},
			"path", path,
			"host", requestHost(c),
			"responseTime", float64(time.Since(start).Milliseconds()),
		)

		return err
	}
}
