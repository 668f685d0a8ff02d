// internal/history/store.go

// Package history archives finished generations in Elasticsearch and serves
// curated subject/preheader example pairs per template type. Archiving is
// best-effort; the pipeline result never depends on it.
package history

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"emailbuilder/internal/common/logger"
	"emailbuilder/internal/models"
)

const DefaultRecentLimit = 10

// Searcher is the slice of the Elasticsearch client the store uses.
type Searcher interface {
	Index(ctx context.Context, index, docID string, body io.Reader) error
	Search(ctx context.Context, index string, body io.Reader) ([]byte, error)
}

type Store struct {
	es     Searcher
	index  string
	logger logger.Logger
}

func NewStore(es Searcher, index string, log logger.Logger) *Store {
	return &Store{
		es:    es,
		index: index,
		logger: log.With(map[string]interface{}{
			"component": "history",
		}),
	}
}

// Archive indexes one finished generation under its request ID.
func (s *Store) Archive(ctx context.Context, record models.GenerationRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal generation record: %w", err)
	}

	if err := s.es.Index(ctx, s.index, record.RequestID, bytes.NewReader(body)); err != nil {
		return fmt.Errorf("archive generation %s: %w", record.RequestID, err)
	}

	s.logger.Debug("generation archived", map[string]interface{}{
		"requestId":    record.RequestID,
		"templateType": string(record.TemplateType),
	})
	return nil
}

// Recent returns the newest archived generations for a template type.
func (s *Store) Recent(ctx context.Context, templateType models.TemplateType, limit int) ([]models.GenerationRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"term": map[string]interface{}{
				"templateType": string(templateType),
			},
		},
		"sort": []interface{}{
			map[string]interface{}{
				"createdAt": map[string]interface{}{"order": "desc"},
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	raw, err := s.es.Search(ctx, s.index, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("search generations: %w", err)
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source models.GenerationRecord `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	records := make([]models.GenerationRecord, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		records = append(records, hit.Source)
	}
	return records, nil
}
