// Package search is a placeholder for legal document search. It returns
// canned results; a real engine would sit behind the same interface.
package search

import (
	"context"

	"github.com/lexlabs/lexagent/internal/models"
	"github.com/lexlabs/lexagent/internal/store"
)

// mockProcessingTime is the fixed latency the mock reports.
const mockProcessingTime = 0.5

// Service serves mocked document searches scoped to a user's configuration.
type Service struct {
	store store.Store
}

// New creates the search service.
func New(st store.Store) *Service {
	return &Service{store: st}
}

// Search returns canned results plus the caller's configuration snapshot.
func (s *Service) Search(ctx context.Context, userID, query string) (*models.SearchResponse, error) {
	cfg, err := s.store.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	results := []models.SearchResult{
		{
			Title:          "Documento legal de ejemplo",
			Content:        "Contenido del documento...",
			RelevanceScore: 0.95,
			Source:         "Base de datos legal",
		},
	}

	return &models.SearchResponse{
		Results:        results,
		TotalResults:   len(results),
		Query:          query,
		ProcessingTime: mockProcessingTime,
		UserConfig:     cfg,
	}, nil
}
