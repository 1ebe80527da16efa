package port

import (
	"context"

	"restorag/internal/domain"
)

// Retriever defines the interface for searching indexed content.
type Retriever interface {
	// Search returns the top-k units ranked by relevance to the query,
	// highest score first.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
