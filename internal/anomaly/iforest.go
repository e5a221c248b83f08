// Package anomaly flags statistically anomalous values in one numeric column
// of the sampled dataset.
package anomaly

import (
	"math"
	"math/rand"
	"sort"
)

// MinSamples is the minimum number of usable values required before the
// detector will flag anything. Below this the mask is all-false.
const MinSamples = 5

const (
	defaultTrees         = 100
	defaultSampleSize    = 256
	defaultContamination = 0.1
	defaultSeed          = 42
)

// Detector returns a per-value anomaly mask of the same length as the input.
type Detector interface {
	Detect(values []float64) []bool
}

// IsolationForest is an unsupervised isolation-based outlier detector.
// Deterministic for a fixed Seed.
type IsolationForest struct {
	Trees         int
	SampleSize    int
	Contamination float64
	Seed          int64
}

// NewIsolationForest returns a forest with the default parameters.
func NewIsolationForest() *IsolationForest {
	return &IsolationForest{
		Trees:         defaultTrees,
		SampleSize:    defaultSampleSize,
		Contamination: defaultContamination,
		Seed:          defaultSeed,
	}
}

type treeNode struct {
	split       float64
	left, right *treeNode
	size        int
}

// Detect returns a boolean mask (true = anomaly) over the input values.
// Inputs shorter than MinSamples yield an all-false mask.
func (f *IsolationForest) Detect(values []float64) []bool {
	n := len(values)
	mask := make([]bool, n)
	if n < MinSamples {
		return mask
	}

	rng := rand.New(rand.NewSource(f.Seed))

	sampleSize := f.SampleSize
	if sampleSize > n {
		sampleSize = n
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sampleSize))))

	pathSums := make([]float64, n)
	sample := make([]float64, sampleSize)
	for t := 0; t < f.Trees; t++ {
		subsample(rng, values, sample)
		root := buildTree(rng, sample, 0, maxDepth)
		for i, v := range values {
			pathSums[i] += pathLength(root, v, 0)
		}
	}

	// Anomaly score per Liu et al.: s(x) = 2^(-E(h(x))/c(n)).
	cn := avgPathLength(sampleSize)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = math.Pow(2, -(pathSums[i]/float64(f.Trees))/cn)
	}

	// Flag the top contamination fraction, ties broken by input order.
	k := int(math.Ceil(f.Contamination * float64(n)))
	if k > n {
		k = n
	}
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})
	for _, i := range order[:k] {
		mask[i] = true
	}
	return mask
}

// subsample fills dst with a random subsample of values (without replacement
// when the sample is smaller than the population).
func subsample(rng *rand.Rand, values []float64, dst []float64) {
	if len(dst) >= len(values) {
		copy(dst, values)
		return
	}
	perm := rng.Perm(len(values))
	for i := range dst {
		dst[i] = values[perm[i]]
	}
}

func buildTree(rng *rand.Rand, data []float64, depth, maxDepth int) *treeNode {
	if len(data) <= 1 || depth >= maxDepth {
		return &treeNode{size: len(data)}
	}

	lo, hi := data[0], data[0]
	for _, v := range data[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo == hi {
		return &treeNode{size: len(data)}
	}

	split := lo + rng.Float64()*(hi-lo)
	var left, right []float64
	for _, v := range data {
		if v < split {
			left = append(left, v)
		} else {
			right = append(right, v)
		}
	}

	return &treeNode{
		split: split,
		left:  buildTree(rng, left, depth+1, maxDepth),
		right: buildTree(rng, right, depth+1, maxDepth),
	}
}

func pathLength(node *treeNode, v float64, depth int) float64 {
	if node.left == nil {
		return float64(depth) + avgPathLength(node.size)
	}
	if v < node.split {
		return pathLength(node.left, v, depth+1)
	}
	return pathLength(node.right, v, depth+1)
}

// avgPathLength is c(n), the average path length of an unsuccessful BST
// search, used both as the leaf-size adjustment and the score normalizer.
func avgPathLength(n int) float64 {
	if n <= 1 {
		return 0
	}
	h := math.Log(float64(n-1)) + 0.5772156649
	return 2*h - 2*float64(n-1)/float64(n)
}
