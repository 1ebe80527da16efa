package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/schollz/progressbar/v3"

	"restorag/internal/adapter/cache"
	"restorag/internal/adapter/embedding"
	"restorag/internal/adapter/geo"
	"restorag/internal/adapter/index"
	"restorag/internal/adapter/snapshot"
	"restorag/internal/port"
	"restorag/internal/usecase"
)

// app bundles the wired collaborators a command needs. Commands build it in
// their RunE, use it, and Close it.
type app struct {
	corpus    *snapshot.Corpus
	engine    *usecase.Engine
	locator   *usecase.Locator
	validator *usecase.Validator
	boltCache *index.BoltCache
}

func (a *app) Close() {
	if a.boltCache != nil {
		a.boltCache.Close()
	}
}

func newEmbedder() (port.Embedder, error) {
	if cfg.Embedding.Provider == "mock" {
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	}
	return embedding.NewOpenAIEmbedder(
		cfg.Embedding.APIKeyEnv,
		cfg.Embedding.Model,
		cfg.Embedding.BaseURL,
		cfg.Embedding.Dimension,
		cfg.Embedding.BatchSize,
	)
}

// buildApp loads the corpus, builds (or restores) the index and wires the
// engine, locator and validator. showProgress renders an embedding progress
// bar for interactive commands.
func buildApp(ctx context.Context, showProgress bool) (*app, error) {
	logger := slog.Default()

	store := snapshot.NewStore(cfg.Snapshot.Path, cfg.Snapshot.DataDir, logger)
	corpus := store.Load()

	embedder, err := newEmbedder()
	if err != nil {
		return nil, err
	}

	var boltCache *index.BoltCache
	if cfg.Snapshot.CachePath != "" {
		boltCache, err = index.OpenBoltCache(cfg.Snapshot.CachePath)
		if err != nil {
			logger.Warn("embedding cache unavailable, embedding from scratch", "err", err)
			boltCache = nil
		}
	}

	builder := usecase.NewIndexBuilder(embedder, boltCache, index.Metric(cfg.Embedding.Metric), cfg.Embedding.BatchSize, logger)

	var progress func(done, total int)
	if showProgress && len(corpus.Units) > 0 {
		bar := progressbar.Default(int64(len(corpus.Units)), "embedding")
		progress = func(done, total int) {
			_ = bar.Set(done)
		}
	}

	result, err := builder.Build(ctx, corpus.Units, corpus.Hash, cfg.Snapshot.ForceRebuild, progress)
	if err != nil {
		if boltCache != nil {
			boltCache.Close()
		}
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	qcache := cache.NewQueryCache(cfg.Retrieve.CacheSize, time.Duration(cfg.Retrieve.CacheTTLSecs)*time.Second)
	engine := usecase.NewEngine(embedder, qcache, logger)
	engine.Swap(corpus.Units, result.Index)

	geocoder := geo.NewNominatimGeocoder(cfg.Geo.BaseURL, cfg.Geo.CountryCodes, cfg.Geo.UserAgent, cfg.Geo.RatePerSec)
	locator := usecase.NewLocator(geocoder, logger)

	lookup := func(city string) (string, bool) {
		r, ok := corpus.FindRestaurant(city)
		if !ok {
			return "", false
		}
		return r.Describe(), true
	}
	validator := usecase.NewValidator(lookup, logger)

	return &app{
		corpus:    corpus,
		engine:    engine,
		locator:   locator,
		validator: validator,
		boltCache: boltCache,
	}, nil
}
