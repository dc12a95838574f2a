// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package file implements a source that reads its documents from a local YAML or JSON file.
// The file can contain multiple YAML documents, each one being either a single mapping or a
// list of mappings. The file is read again on every overview so that changes are picked up
// without restarting the connector.
package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/mia-platform/aggregator/internal/logger"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	// ModuleName is the name used to reference this module in the configuration.
	ModuleName = "file"

	loggerName = "aggregator:source:file"
)

// ErrParsing reports failures that occur while decoding the documents file.
var ErrParsing = errors.New("error parsing documents file")

var _ source.Source = &fileSource{}

type fileSource struct {
	path string
}

// New builds a file source. It expects exactly one param: the path of the documents file.
func New(_ context.Context, params ...any) (source.Source, error) {
	if len(params) != 1 {
		return nil, fmt.Errorf("%w: expected a single path, got %d params", source.ErrInvalidParams, len(params))
	}

	path, ok := params[0].(string)
	if !ok || path == "" {
		return nil, fmt.Errorf("%w: path must be a non empty string", source.ErrInvalidParams)
	}

	return &fileSource{path: filepath.Clean(path)}, nil
}

// Overview reads and decodes the documents file.
func (s *fileSource) Overview(ctx context.Context, _ source.Options) ([]source.Document, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	file, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	documents := make([]source.Document, 0)
	decoder := yaml.NewDecoder(file)
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var content any
		if err := decoder.Decode(&content); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, s.path, err)
		}

		decoded, err := toDocuments(content)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrParsing, s.path, err)
		}
		documents = append(documents, decoded...)
	}

	log.Trace("documents read from file", "path", s.path, "count", len(documents))
	return documents, nil
}

// toDocuments normalizes a decoded YAML document into a list of documents.
func toDocuments(content any) ([]source.Document, error) {
	switch typed := content.(type) {
	case nil:
		return nil, nil
	case map[string]any:
		return []source.Document{typed}, nil
	case []any:
		documents := make([]source.Document, 0, len(typed))
		for idx, item := range typed {
			document, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("item %d: expected a mapping, got %T", idx, item)
			}
			documents = append(documents, document)
		}
		return documents, nil
	default:
		return nil, fmt.Errorf("expected a mapping or a list of mappings, got %T", content)
	}
}
