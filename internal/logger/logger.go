// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package logger

import (
	"io"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// nullLogger discards every message, it is returned when no logger is found in a context.
var nullLogger = &instance{log: hclog.NewNullLogger()}

//go:generate ${TOOLS_BIN}/stringer -type=Level
type Level int

const (
	ERROR Level = iota
	WARN
	INFO
	DEBUG
	TRACE
)

// LevelFromString parses a level name, case insensitive. Unknown names fall back to INFO.
func LevelFromString(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "TRACE":
		return TRACE
	case "DEBUG":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l Level) hclogLevel() hclog.Level {
	switch l {
	case TRACE:
		return hclog.Trace
	case DEBUG:
		return hclog.Debug
	case WARN:
		return hclog.Warn
	case ERROR:
		return hclog.Error
	default:
		return hclog.Info
	}
}

// Logger is the logging contract used by every package of the aggregator.
// The method set is also compatible with the retryablehttp.LeveledLogger interface.
type Logger interface {
	// WithName returns a Logger that tags every line with name.
	WithName(name string) Logger

	// SetLevel changes the minimum level emitted by the logger and all the loggers derived from it.
	SetLevel(level Level)

	// Trace emits msg and key/value pairs at the TRACE level.
	Trace(msg string, args ...interface{})

	// Debug emits msg and key/value pairs at the DEBUG level.
	Debug(msg string, args ...interface{})

	// Info emits msg and key/value pairs at the INFO level.
	Info(msg string, args ...interface{})

	// Warn emits msg and key/value pairs at the WARN level.
	Warn(msg string, args ...interface{})

	// Error emits msg and key/value pairs at the ERROR level.
	Error(msg string, args ...interface{})
}

var _ Logger = &instance{}

type instance struct {
	log hclog.Logger
}

// NewLogger returns a JSON logger writing to writer at the INFO level.
func NewLogger(writer io.Writer) Logger {
	return &instance{
		log: hclog.New(&hclog.LoggerOptions{
			JSONFormat:        true,
			Output:            writer,
			TimeFn:            time.Now,
			Level:             INFO.hclogLevel(),
		}),
	}
}

func (i instance) WithName(name string) Logger {
	return &instance{log: i.log.ResetNamed(name)}
}

func (i instance) SetLevel(level Level) {
	i.log.SetLevel(level.hclogLevel())
}

func (i instance) Trace(msg string, args ...interface{}) { i.log.Trace(msg, args...) }

func (i instance) Debug(msg string, args ...interface{}) { i.log.Debug(msg, args...) }

func (i instance) Info(msg string, args ...interface{}) { i.log.Info(msg, args...) }

func (i instance) Warn(msg string, args ...interface{}) { i.log.Warn(msg, args...) }

func (i instance) Error(msg string, args ...interface{}) { i.log.Error(msg, args...) }
