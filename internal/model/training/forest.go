package training

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

const (
	forestTrees         = 100
	forestSampleSize    = 256
	forestContamination = 0.1
)

// IsolationForest isolates outliers by random axis-aligned splits: points
// that end up in shallow leaves are easier to separate from the rest and
// score closer to 1. Trees are stored as flat node slices so the trained
// model round-trips through JSON.
type IsolationForest struct {
	Trees      []isolationTree `json:"trees"`
	SampleSize int             `json:"sample_size"`
	// Threshold is the score above which a point counts as an anomaly,
	// fitted so the configured contamination share of the training set is
	// flagged.
	Threshold float64 `json:"threshold"`
}

type isolationTree struct {
	Nodes []forestNode `json:"nodes"`
}

type forestNode struct {
	Feature int     `json:"feature"`
	Split   float64 `json:"split"`
	Left    int     `json:"left"`
	Right   int     `json:"right"`
	// Size is set on leaves only and holds the number of training points
	// that reached the leaf.
	Size int `json:"size"`
}

// TrainIsolationForest fits the forest on rows of feature vectors.
func TrainIsolationForest(rows [][]float64, rnd *rand.Rand) (*IsolationForest, error) {
	if len(rows) == 0 {
		return nil, errors.New("no training rows")
	}

	sample := forestSampleSize
	if sample > len(rows) {
		sample = len(rows)
	}
	maxDepth := int(math.Ceil(math.Log2(float64(sample))))

	forest := &IsolationForest{
		Trees:      make([]isolationTree, 0, forestTrees),
		SampleSize: sample,
	}
	for i := 0; i < forestTrees; i++ {
		idx := rnd.Perm(len(rows))[:sample]
		subset := make([][]float64, sample)
		for j, r := range idx {
			subset[j] = rows[r]
		}
		tree := isolationTree{}
		tree.grow(subset, 0, maxDepth, rnd)
		forest.Trees = append(forest.Trees, tree)
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = forest.Score(row)
	}
	sort.Float64s(scores)
	cut := int(float64(len(scores)) * (1 - forestContamination))
	if cut >= len(scores) {
		cut = len(scores) - 1
	}
	forest.Threshold = scores[cut]

	return forest, nil
}

// Score returns the anomaly score of a point in (0,1).
func (f *IsolationForest) Score(row []float64) float64 {
	var depthSum float64
	for _, tree := range f.Trees {
		depthSum += tree.pathLength(row)
	}
	avgDepth := depthSum / float64(len(f.Trees))
	return math.Pow(2, -avgDepth/averagePathLength(float64(f.SampleSize)))
}

// IsAnomaly applies the fitted contamination threshold.
func (f *IsolationForest) IsAnomaly(row []float64) bool {
	return f.Score(row) > f.Threshold
}

func (t *isolationTree) grow(rows [][]float64, depth, maxDepth int, rnd *rand.Rand) int {
	if depth >= maxDepth || len(rows) <= 1 || allEqual(rows) {
		t.Nodes = append(t.Nodes, forestNode{Feature: -1, Left: -1, Right: -1, Size: len(rows)})
		return len(t.Nodes) - 1
	}

	feature := rnd.Intn(len(rows[0]))
	lo, hi := rows[0][feature], rows[0][feature]
	for _, r := range rows[1:] {
		lo = math.Min(lo, r[feature])
		hi = math.Max(hi, r[feature])
	}
	if lo == hi {
		t.Nodes = append(t.Nodes, forestNode{Feature: -1, Left: -1, Right: -1, Size: len(rows)})
		return len(t.Nodes) - 1
	}
	split := lo + rnd.Float64()*(hi-lo)

	var left, right [][]float64
	for _, r := range rows {
		if r[feature] < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	self := len(t.Nodes)
	t.Nodes = append(t.Nodes, forestNode{Feature: feature, Split: split})
	t.Nodes[self].Left = t.grow(left, depth+1, maxDepth, rnd)
	t.Nodes[self].Right = t.grow(right, depth+1, maxDepth, rnd)
	return self
}

func (t *isolationTree) pathLength(row []float64) float64 {
	node := 0
	depth := 0.0
	for {
		n := t.Nodes[node]
		if n.Feature < 0 {
			return depth + averagePathLength(float64(n.Size))
		}
		if row[n.Feature] < n.Split {
			node = n.Left
		} else {
			node = n.Right
		}
		depth++
	}
}

// averagePathLength is the expected unsuccessful-search depth of a binary
// search tree over n points.
func averagePathLength(n float64) float64 {
	if n <= 1 {
		return 0
	}
	harmonic := math.Log(n-1) + 0.5772156649
	return 2*harmonic - 2*(n-1)/n
}

func allEqual(rows [][]float64) bool {
	for _, r := range rows[1:] {
		for f := range r {
			if r[f] != rows[0][f] {
				return false
			}
		}
	}
	return true
}
