package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"restorag/internal/adapter/cache"
	"restorag/internal/adapter/index"
	"restorag/internal/domain"
	"restorag/internal/port"
)

// NoContextMarker opens the retrieval context when nothing relevant was
// found, so the answering layer can refuse instead of inventing.
const NoContextMarker = "NO_CONTEXT: aucune information trouvée dans la base de connaissances."

// Engine answers similarity queries against the current corpus. The unit
// list and index are swapped together under a lock, so a query observes
// either the old corpus or the new one, never a mix.
type Engine struct {
	mu       sync.RWMutex
	units    []domain.Unit
	idx      *index.Flat
	embedder port.Embedder
	qcache   *cache.QueryCache // optional
	logger   *slog.Logger
}

var _ port.Retriever = (*Engine)(nil)

// NewEngine creates an engine with no corpus loaded. qcache may be nil.
func NewEngine(embedder port.Embedder, qcache *cache.QueryCache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		embedder: embedder,
		qcache:   qcache,
		logger:   logger,
	}
}

// Swap atomically replaces the corpus and its index, invalidating any
// memoized query results from the previous generation.
func (e *Engine) Swap(units []domain.Unit, idx *index.Flat) {
	e.mu.Lock()
	e.units = units
	e.idx = idx
	e.mu.Unlock()

	if e.qcache != nil {
		e.qcache.Invalidate()
	}
}

// Size returns the number of indexed units.
func (e *Engine) Size() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.idx == nil {
		return 0
	}
	return e.idx.Len()
}

// RewriteQuery appends the concrete city name when the query names a
// locality only by department code or alias. "restaurant dans le 91"
// embeds poorly; "… Corbeil-Essonnes" retrieves the right restaurant.
func RewriteQuery(query string) string {
	loc, ok := domain.LocalityForQuery(query)
	if !ok {
		return query
	}
	if strings.Contains(strings.ToLower(query), strings.ToLower(loc.City)) {
		return query
	}
	return query + " " + loc.City
}

// Search returns the k nearest units for the query, best first. An empty
// corpus yields an empty result set, not an error.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k < 1 {
		return []domain.SearchResult{}, nil
	}

	if e.qcache != nil {
		if results, ok := e.qcache.Get(query, k); ok {
			return results, nil
		}
	}

	rewritten := RewriteQuery(query)
	if rewritten != query {
		e.logger.Debug("query rewritten", "from", query, "to", rewritten)
	}

	vectors, err := e.embedder.Embed(ctx, []string{rewritten})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one query", len(vectors))
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.idx == nil || e.idx.Len() == 0 {
		return []domain.SearchResult{}, nil
	}

	hits, err := e.idx.Search(vectors[0], k)
	if err != nil {
		return nil, err
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		if hit.Index < 0 || hit.Index >= len(e.units) {
			continue
		}
		results = append(results, domain.SearchResult{
			Unit:     e.units[hit.Index],
			Score:    index.Score(e.idx.Metric(), hit.Distance),
			Distance: hit.Distance,
		})
	}

	if e.qcache != nil {
		e.qcache.Put(query, k, results)
	}

	return results, nil
}

// ContextForAnswer retrieves for the query and formats the hits as a
// prompt context, trimmed to maxLen characters. With nothing retrieved it
// returns NoContextMarker.
func (e *Engine) ContextForAnswer(ctx context.Context, query string, k, maxLen int) (string, error) {
	if k < 1 {
		k = 5
	}
	if maxLen <= 0 {
		maxLen = 4000
	}

	results, err := e.Search(ctx, query, k)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return NoContextMarker, nil
	}

	var sb strings.Builder
	for i, res := range results {
		block := fmt.Sprintf("[%s] %s\n%s", strings.ToUpper(string(res.Unit.Kind)), res.Unit.Title, res.Unit.Text)
		if i > 0 {
			block = "\n---\n" + block
		}
		if sb.Len()+len(block) > maxLen {
			remaining := maxLen - sb.Len()
			if remaining > 200 {
				sb.WriteString(block[:remaining])
				sb.WriteString("...")
			}
			break
		}
		sb.WriteString(block)
	}

	if sb.Len() == 0 {
		return NoContextMarker, nil
	}
	return sb.String(), nil
}
