package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Embedding.Dimension != 1536 {
		t.Errorf("expected Dimension=1536, got %d", cfg.Embedding.Dimension)
	}
	if cfg.Embedding.BatchSize != 20 {
		t.Errorf("expected BatchSize=20, got %d", cfg.Embedding.BatchSize)
	}
	if cfg.Embedding.Metric != "l2" {
		t.Errorf("expected Metric=l2, got %s", cfg.Embedding.Metric)
	}
	if cfg.Retrieve.TopK != 5 {
		t.Errorf("expected TopK=5, got %d", cfg.Retrieve.TopK)
	}
	if cfg.Geo.RatePerSec != 1 {
		t.Errorf("expected RatePerSec=1, got %f", cfg.Geo.RatePerSec)
	}
	if cfg.Session.MaxTurns != 10 {
		t.Errorf("expected MaxTurns=10, got %d", cfg.Session.MaxTurns)
	}
}

func TestLoad_NonExistent(t *testing.T) {
	cfg, err := Load("/nonexistent/path/restorag.yaml")
	if err != nil {
		t.Errorf("expected no error for non-existent file, got %v", err)
	}
	if cfg == nil {
		t.Error("expected default config, got nil")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "restorag.yaml")

	content := `
snapshot:
  path: corpus.json
  force_rebuild: true
embedding:
  batch_size: 50
retrieve:
  top_k: 10
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Snapshot.Path != "corpus.json" {
		t.Errorf("expected snapshot path corpus.json, got %s", cfg.Snapshot.Path)
	}
	if !cfg.Snapshot.ForceRebuild {
		t.Error("expected ForceRebuild=true")
	}
	if cfg.Embedding.BatchSize != 50 {
		t.Errorf("expected BatchSize=50, got %d", cfg.Embedding.BatchSize)
	}
	if cfg.Retrieve.TopK != 10 {
		t.Errorf("expected TopK=10, got %d", cfg.Retrieve.TopK)
	}
	// Unset fields keep defaults.
	if cfg.Embedding.Model != "text-embedding-ada-002" {
		t.Errorf("expected default model, got %s", cfg.Embedding.Model)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("RAG_SNAPSHOT", "/tmp/other.json")
	t.Setenv("REBUILD_EMBEDDINGS", "true")

	cfg := DefaultConfig()
	cfg.ApplyEnv()

	if cfg.Snapshot.Path != "/tmp/other.json" {
		t.Errorf("expected env snapshot path, got %s", cfg.Snapshot.Path)
	}
	if !cfg.Snapshot.ForceRebuild {
		t.Error("expected ForceRebuild=true from env")
	}
}

func TestSaveAndReload(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "restorag.yaml")

	cfg := DefaultConfig()
	cfg.Retrieve.TopK = 7
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Retrieve.TopK != 7 {
		t.Errorf("expected TopK=7 after reload, got %d", loaded.Retrieve.TopK)
	}
}
