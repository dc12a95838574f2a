// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package static implements a source that serves the documents written inline in the configuration.
package static

import (
	"context"
	"fmt"
	"maps"

	"github.com/mia-platform/aggregator/internal/source"
)

// ModuleName is the name used to reference this module in the configuration.
const ModuleName = "static"

var _ source.Source = &staticSource{}

type staticSource struct {
	documents []source.Document
}

// New builds a source from a list of documents; every param must be a mapping.
func New(_ context.Context, params ...any) (source.Source, error) {
	documents := make([]source.Document, 0, len(params))
	for idx, param := range params {
		document, err := toDocument(param)
		if err != nil {
			return nil, fmt.Errorf("%w: param %d: %w", source.ErrInvalidParams, idx, err)
		}
		documents = append(documents, document)
	}

	return &staticSource{documents: documents}, nil
}

func toDocument(value any) (source.Document, error) {
	switch typed := value.(type) {
	case source.Document:
		return maps.Clone(typed), nil
	case map[string]any:
		return source.Document(maps.Clone(typed)), nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", value)
	}
}

// Overview returns a copy of the configured documents, the filter is ignored.
func (s *staticSource) Overview(ctx context.Context, _ source.Options) ([]source.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	documents := make([]source.Document, 0, len(s.documents))
	for _, document := range s.documents {
		documents = append(documents, maps.Clone(document))
	}

	return documents, nil
}
