package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"restorag/internal/adapter/cache"
	"restorag/internal/adapter/embedding"
	"restorag/internal/adapter/index"
	"restorag/internal/adapter/snapshot"
	"restorag/internal/usecase"
)

// benchmark measures retrieval latency against a snapshot using the mock
// embedder, so it runs offline and its numbers isolate index and cache cost
// from API round trips.
func main() {
	snapshotPath := flag.String("snapshot", "knowledge.json", "corpus snapshot path")
	topK := flag.Int("k", 5, "results per query")
	rounds := flag.Int("rounds", 100, "queries per phase")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := context.Background()

	store := snapshot.NewStore(*snapshotPath, "", logger)
	corpus := store.Load()
	if len(corpus.Units) == 0 {
		fmt.Fprintln(os.Stderr, "empty corpus, nothing to benchmark")
		os.Exit(1)
	}

	embedder := embedding.NewMockEmbedder(256)
	builder := usecase.NewIndexBuilder(embedder, nil, index.MetricL2, 20, logger)

	start := time.Now()
	result, err := builder.Build(ctx, corpus.Units, "", false, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "build failed:", err)
		os.Exit(1)
	}
	fmt.Printf("indexed %d units in %s\n", result.Index.Len(), time.Since(start).Round(time.Millisecond))

	queries := []string{
		"avez-vous un restaurant dans le 91",
		"quels sont les horaires d'ouverture",
		"prix du bo bun",
		"plats végétariens au menu",
		"restaurant le plus proche de Paris",
	}

	qcache := cache.NewQueryCache(100, 5*time.Minute)
	engine := usecase.NewEngine(embedder, qcache, logger)
	engine.Swap(corpus.Units, result.Index)

	run := func(label string) {
		start := time.Now()
		for i := 0; i < *rounds; i++ {
			query := queries[i%len(queries)]
			if _, err := engine.Search(ctx, query, *topK); err != nil {
				fmt.Fprintln(os.Stderr, "search failed:", err)
				os.Exit(1)
			}
		}
		elapsed := time.Since(start)
		fmt.Printf("%-12s %d queries in %s (%.2f ms/query)\n",
			label, *rounds, elapsed.Round(time.Millisecond),
			float64(elapsed.Microseconds())/float64(*rounds)/1000)
	}

	run("pass 1")
	run("pass 2 (warm)")
}
