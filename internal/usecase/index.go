package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"restorag/internal/adapter/index"
	"restorag/internal/domain"
	"restorag/internal/port"
)

// IndexBuilder turns a corpus snapshot into a searchable vector index,
// reusing cached embeddings when the snapshot content hash matches.
type IndexBuilder struct {
	embedder  port.Embedder
	cache     *index.BoltCache // optional
	metric    index.Metric
	batchSize int
	logger    *slog.Logger
}

// BuildResult reports how an index was produced.
type BuildResult struct {
	Index     *index.Flat
	FromCache bool
	Embedded  int
}

// NewIndexBuilder creates a builder. cache may be nil to disable embedding
// persistence; batchSize <= 0 defaults to 20.
func NewIndexBuilder(embedder port.Embedder, cache *index.BoltCache, metric index.Metric, batchSize int, logger *slog.Logger) *IndexBuilder {
	if batchSize <= 0 {
		batchSize = 20
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IndexBuilder{
		embedder:  embedder,
		cache:     cache,
		metric:    metric,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Build embeds every unit and constructs a flat index. The new index is
// assembled entirely off to the side; callers swap it into the engine once
// Build returns. An embedding failure aborts the whole build; there is no
// partial index to observe.
//
// contentHash keys the embedding cache; force bypasses and invalidates the
// cache unconditionally. progress may be nil.
func (b *IndexBuilder) Build(ctx context.Context, units []domain.Unit, contentHash string, force bool, progress func(done, total int)) (*BuildResult, error) {
	idx, err := index.NewFlat(b.metric, b.embedder.Dimension())
	if err != nil {
		return nil, err
	}

	if len(units) == 0 {
		return &BuildResult{Index: idx}, nil
	}

	if force && b.cache != nil {
		if err := b.cache.Invalidate(); err != nil {
			b.logger.Warn("failed to invalidate embedding cache", "err", err)
		}
	}

	if !force && b.cache != nil && contentHash != "" {
		vectors, ok, err := b.cache.Load(contentHash, b.embedder.ModelName(), b.metric)
		if err != nil {
			return nil, fmt.Errorf("failed to read embedding cache: %w", err)
		}
		if ok && len(vectors) == len(units) {
			if err := idx.Add(vectors); err != nil {
				return nil, err
			}
			b.logger.Info("index loaded from cache", "vectors", len(vectors))
			return &BuildResult{Index: idx, FromCache: true}, nil
		}
	}

	texts := make([]string, len(units))
	for i, unit := range units {
		texts[i] = unit.Text
	}

	vectors := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += b.batchSize {
		end := i + b.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := b.embedder.Embed(ctx, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("embedding build failed: %w", err)
		}
		vectors = append(vectors, batch...)

		if progress != nil {
			progress(len(vectors), len(texts))
		}
	}

	if len(vectors) != len(units) {
		return nil, fmt.Errorf("embedding count mismatch: %d vectors for %d units", len(vectors), len(units))
	}

	if err := idx.Add(vectors); err != nil {
		return nil, err
	}

	if b.cache != nil && contentHash != "" {
		if err := b.cache.Store(contentHash, b.embedder.ModelName(), b.metric, b.embedder.Dimension(), vectors); err != nil {
			b.logger.Warn("failed to write embedding cache", "err", err)
		}
	}

	b.logger.Info("index built", "vectors", idx.Len(), "metric", string(b.metric))
	return &BuildResult{Index: idx, Embedded: len(vectors)}, nil
}
