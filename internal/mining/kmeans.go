package mining

import (
	"math"

	"github.com/KaramelBytes/statify-cli/internal/dataset"
	"gonum.org/v1/gonum/floats"
)

// DefaultMaxIterations caps k-means when the caller gives no limit.
const DefaultMaxIterations = 50

// ClusterResult holds final centroids and one cluster index per valid row,
// in the order those rows appeared in the input. Original row positions are
// not kept.
type ClusterResult struct {
	Dims        []string    `json:"dims"`
	Centroids   [][]float64 `json:"centroids"`
	Assignments []int       `json:"assignments"`
	Vectors     [][]float64 `json:"vectors"`
	Iterations  int         `json:"iterations"`
}

// Sizes counts the vectors assigned to each cluster.
func (c *ClusterResult) Sizes() []int {
	out := make([]int, len(c.Centroids))
	for _, a := range c.Assignments {
		out[a]++
	}
	return out
}

// KMeans partitions the rows whose dims are all finite numbers into k clusters.
// Centroids are seeded from the first k vectors, so the result depends on row
// order and is reproducible; this is not k-means++. ok is false with fewer than
// two dims, k < 1, or fewer valid vectors than k.
func KMeans(rows []dataset.Record, dims []string, k, maxIter int) (*ClusterResult, bool) {
	if len(dims) < 2 || k < 1 {
		return nil, false
	}
	if maxIter <= 0 {
		maxIter = DefaultMaxIterations
	}
	vectors := extractVectors(rows, dims)
	if len(vectors) < k {
		return nil, false
	}

	centroids := make([][]float64, k)
	for i := range centroids {
		centroids[i] = append([]float64(nil), vectors[i]...)
	}
	assignments := make([]int, len(vectors))

	iter := 0
	for iter < maxIter {
		iter++
		changed := false
		for i, v := range vectors {
			c := nearest(v, centroids)
			if c != assignments[i] {
				assignments[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}
		recenter(vectors, assignments, centroids)
	}

	return &ClusterResult{
		Dims:        append([]string(nil), dims...),
		Centroids:   centroids,
		Assignments: assignments,
		Vectors:     vectors,
		Iterations:  iter,
	}, true
}

func extractVectors(rows []dataset.Record, dims []string) [][]float64 {
	out := make([][]float64, 0, len(rows))
rowLoop:
	for _, r := range rows {
		vec := make([]float64, len(dims))
		for j, d := range dims {
			v := r[d]
			if v.IsMissing() {
				continue rowLoop
			}
			f, ok := v.Float()
			if !ok {
				continue rowLoop
			}
			vec[j] = f
		}
		out = append(out, vec)
	}
	return out
}

// nearest returns the closest centroid by Euclidean distance; ties go to the lower index.
func nearest(v []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, c := range centroids {
		if d := floats.Distance(v, c, 2); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// recenter moves each centroid to the mean of its vectors. A centroid with no
// vectors stays where it is.
func recenter(vectors [][]float64, assignments []int, centroids [][]float64) {
	dim := len(centroids[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for i := range sums {
		sums[i] = make([]float64, dim)
	}
	for i, v := range vectors {
		a := assignments[i]
		floats.Add(sums[a], v)
		counts[a]++
	}
	for i := range centroids {
		if counts[i] == 0 {
			continue
		}
		floats.Scale(1/float64(counts[i]), sums[i])
		centroids[i] = sums[i]
	}
}
