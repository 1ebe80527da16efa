package index

import (
	"path/filepath"
	"testing"
)

func openTestCache(t *testing.T) *BoltCache {
	t.Helper()
	c, err := OpenBoltCache(filepath.Join(t.TempDir(), "embeddings.db"))
	if err != nil {
		t.Fatalf("OpenBoltCache failed: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

var testVectors = [][]float32{{1, 2, 3}, {4, 5, 6}}

func TestBoltCache_StoreAndLoad(t *testing.T) {
	c := openTestCache(t)

	if err := c.Store("hash-a", "model-x", MetricL2, 3, testVectors); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	got, ok, err := c.Load("hash-a", "model-x", MetricL2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !ok {
		t.Fatal("stored bundle not found")
	}
	if len(got) != len(testVectors) {
		t.Fatalf("expected %d vectors, got %d", len(testVectors), len(got))
	}
	for i := range got {
		for j := range got[i] {
			if got[i][j] != testVectors[i][j] {
				t.Errorf("vector %d differs: %v vs %v", i, got[i], testVectors[i])
				break
			}
		}
	}
}

func TestBoltCache_MissOnEmptyFile(t *testing.T) {
	c := openTestCache(t)

	_, ok, err := c.Load("hash-a", "model-x", MetricL2)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if ok {
		t.Error("empty cache reported a hit")
	}
}

func TestBoltCache_MissOnMetadataMismatch(t *testing.T) {
	c := openTestCache(t)
	if err := c.Store("hash-a", "model-x", MetricL2, 3, testVectors); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	tests := []struct {
		name   string
		hash   string
		model  string
		metric Metric
	}{
		{"hash", "hash-b", "model-x", MetricL2},
		{"model", "hash-a", "model-y", MetricL2},
		{"metric", "hash-a", "model-x", MetricInnerProduct},
	}
	for _, tt := range tests {
		if _, ok, _ := c.Load(tt.hash, tt.model, tt.metric); ok {
			t.Errorf("%s mismatch still hit the cache", tt.name)
		}
	}
}

func TestBoltCache_StoreReplacesWholesale(t *testing.T) {
	c := openTestCache(t)

	if err := c.Store("hash-a", "model-x", MetricL2, 3, testVectors); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Store("hash-b", "model-x", MetricL2, 3, testVectors[:1]); err != nil {
		t.Fatalf("second Store failed: %v", err)
	}

	if _, ok, _ := c.Load("hash-a", "model-x", MetricL2); ok {
		t.Error("old bundle still served after replacement")
	}
	got, ok, err := c.Load("hash-b", "model-x", MetricL2)
	if err != nil || !ok {
		t.Fatalf("new bundle not served: ok=%v err=%v", ok, err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 vector, got %d", len(got))
	}
}

func TestBoltCache_Invalidate(t *testing.T) {
	c := openTestCache(t)

	if err := c.Store("hash-a", "model-x", MetricL2, 3, testVectors); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := c.Invalidate(); err != nil {
		t.Fatalf("Invalidate failed: %v", err)
	}
	if _, ok, _ := c.Load("hash-a", "model-x", MetricL2); ok {
		t.Error("invalidated bundle still served")
	}
}
