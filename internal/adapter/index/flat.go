package index

import (
	"fmt"
	"sort"
)

// Metric selects the distance function of a flat index.
type Metric string

const (
	// MetricL2 ranks by squared euclidean distance, smaller is closer.
	MetricL2 Metric = "l2"
	// MetricInnerProduct ranks by raw dot product, larger is closer.
	MetricInnerProduct Metric = "ip"
)

// Hit is one nearest-neighbor result: the vector's insertion position and
// its distance under the index metric.
type Hit struct {
	Index    int
	Distance float64
}

// Flat is an exact brute-force vector index. The corpus is tens to low
// hundreds of vectors, so a linear scan beats any approximate structure.
type Flat struct {
	metric  Metric
	dim     int
	vectors [][]float32
}

// NewFlat creates an empty flat index for vectors of the given dimension.
func NewFlat(metric Metric, dim int) (*Flat, error) {
	if metric != MetricL2 && metric != MetricInnerProduct {
		return nil, fmt.Errorf("unsupported metric: %s", metric)
	}
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dim)
	}
	return &Flat{metric: metric, dim: dim}, nil
}

// Add appends vectors in order. Position in the index is identity: the i-th
// added vector belongs to the i-th corpus unit.
func (f *Flat) Add(vectors [][]float32) error {
	for _, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", f.dim, len(v))
		}
	}
	f.vectors = append(f.vectors, vectors...)
	return nil
}

// Len returns the number of indexed vectors.
func (f *Flat) Len() int {
	return len(f.vectors)
}

// Metric returns the index metric.
func (f *Flat) Metric() Metric {
	return f.metric
}

// Vectors exposes the stored vectors for cache serialization.
func (f *Flat) Vectors() [][]float32 {
	return f.vectors
}

// Search returns the k closest vectors to the query. Ties keep insertion
// order; k larger than the index returns everything; an empty index returns
// nil rather than an error.
func (f *Flat) Search(query []float32, k int) ([]Hit, error) {
	if len(f.vectors) == 0 {
		return nil, nil
	}
	if len(query) != f.dim {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", f.dim, len(query))
	}
	if k <= 0 {
		return nil, nil
	}

	hits := make([]Hit, len(f.vectors))
	for i, v := range f.vectors {
		hits[i] = Hit{Index: i, Distance: f.distance(query, v)}
	}

	if f.metric == MetricInnerProduct {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance > hits[j].Distance })
	} else {
		sort.SliceStable(hits, func(i, j int) bool { return hits[i].Distance < hits[j].Distance })
	}

	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func (f *Flat) distance(a, b []float32) float64 {
	switch f.metric {
	case MetricInnerProduct:
		var dot float64
		for i := range a {
			dot += float64(a[i]) * float64(b[i])
		}
		return dot
	default:
		var sum float64
		for i := range a {
			d := float64(a[i]) - float64(b[i])
			sum += d * d
		}
		return sum
	}
}

// Score converts a distance into a ranking score: inverse distance for L2,
// the raw dot product for inner-product indexes. Scores are comparable only
// within one query against one index.
func Score(metric Metric, distance float64) float64 {
	if metric == MetricInnerProduct {
		return distance
	}
	return 1.0 / (1.0 + distance)
}
