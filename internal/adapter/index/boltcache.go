package index

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.etcd.io/bbolt"
)

var (
	bucketMeta    = []byte("meta")
	bucketVectors = []byte("vectors")

	keyHash      = []byte("content_hash")
	keyModel     = []byte("model")
	keyMetric    = []byte("metric")
	keyDimension = []byte("dimension")
)

// BoltCache persists corpus embeddings between process starts so an
// unchanged snapshot never re-pays the embedding API cost. The file layout
// is private: its presence only changes latency, never search results.
type BoltCache struct {
	db *bbolt.DB
}

// OpenBoltCache opens (or creates) the cache file.
func OpenBoltCache(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open embedding cache: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Close closes the underlying database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

// Load returns the cached vectors when the stored snapshot hash, model and
// metric all match; otherwise (nil, false, nil).
func (c *BoltCache) Load(contentHash, model string, metric Metric) ([][]float32, bool, error) {
	var vectors [][]float32
	ok := false

	err := c.db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		vecs := tx.Bucket(bucketVectors)
		if meta == nil || vecs == nil {
			return nil
		}

		if string(meta.Get(keyHash)) != contentHash ||
			string(meta.Get(keyModel)) != model ||
			string(meta.Get(keyMetric)) != string(metric) {
			return nil
		}

		err := vecs.ForEach(func(_, v []byte) error {
			var vec []float32
			if err := json.Unmarshal(v, &vec); err != nil {
				return err
			}
			vectors = append(vectors, vec)
			return nil
		})
		if err != nil {
			// Corrupt entries invalidate the whole cache.
			vectors = nil
			return nil
		}

		ok = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return vectors, ok, nil
}

// Store replaces the cache wholesale with the given vectors keyed by
// position, recording the snapshot hash the bundle belongs to.
func (c *BoltCache) Store(contentHash, model string, metric Metric, dim int, vectors [][]float32) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketVectors} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}

		meta, err := tx.CreateBucket(bucketMeta)
		if err != nil {
			return err
		}
		vecs, err := tx.CreateBucket(bucketVectors)
		if err != nil {
			return err
		}

		if err := meta.Put(keyHash, []byte(contentHash)); err != nil {
			return err
		}
		if err := meta.Put(keyModel, []byte(model)); err != nil {
			return err
		}
		if err := meta.Put(keyMetric, []byte(metric)); err != nil {
			return err
		}
		if err := meta.Put(keyDimension, []byte(strconv.Itoa(dim))); err != nil {
			return err
		}

		for i, vec := range vectors {
			data, err := json.Marshal(vec)
			if err != nil {
				return err
			}
			key := []byte(fmt.Sprintf("%08d", i))
			if err := vecs.Put(key, data); err != nil {
				return err
			}
		}

		return nil
	})
}

// Invalidate drops the cached bundle. Used by forced rebuilds.
func (c *BoltCache) Invalidate() error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketVectors} {
			if tx.Bucket(name) != nil {
				if err := tx.DeleteBucket(name); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
