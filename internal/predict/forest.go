// Package predict trains a random forest that estimates whether a villain
// comes from a country in conflict with the USA.
package predict

import (
	"errors"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

var (
	// ErrEmpty is returned when there is nothing to train on.
	ErrEmpty = errors.New("predict: empty training set")
	// ErrShape is returned when features and labels disagree in size.
	ErrShape = errors.New("predict: inconsistent shapes")
	// ErrNotFitted is returned when predicting with an untrained forest.
	ErrNotFitted = errors.New("predict: forest is not fitted")
)

// ForestConfig controls the forest. Zero values select the defaults:
// 100 trees, unlimited depth, at least 2 samples to split and
// sqrt(features) candidate features per split.
type ForestConfig struct {
	Trees           int
	MaxDepth        int
	MinSamplesSplit int
	MaxFeatures     int
	Seed            int64
}

// Forest is a binary random forest classifier over bootstrapped CART trees
// split on Gini impurity. Labels are 0 and 1.
type Forest struct {
	cfg      ForestConfig
	features int
	trees    []*treeNode
}

type treeNode struct {
	leaf      bool
	proba     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// NewForest returns an untrained forest.
func NewForest(cfg ForestConfig) *Forest {
	if cfg.Trees <= 0 {
		cfg.Trees = 100
	}
	if cfg.MinSamplesSplit < 2 {
		cfg.MinSamplesSplit = 2
	}
	return &Forest{cfg: cfg}
}

// Fit trains the forest on rows x with labels y.
func (f *Forest) Fit(x [][]float64, y []int) error {
	if len(x) == 0 {
		return ErrEmpty
	}
	if len(x) != len(y) {
		return ErrShape
	}
	f.features = len(x[0])
	for _, row := range x {
		if len(row) != f.features {
			return ErrShape
		}
	}

	maxFeatures := f.cfg.MaxFeatures
	if maxFeatures <= 0 || maxFeatures > f.features {
		maxFeatures = int(math.Max(1, math.Floor(math.Sqrt(float64(f.features)))))
	}

	rng := rand.New(rand.NewSource(f.cfg.Seed))
	n := len(x)
	f.trees = make([]*treeNode, 0, f.cfg.Trees)
	for t := 0; t < f.cfg.Trees; t++ {
		sample := make([]int, n)
		for i := range sample {
			sample[i] = rng.Intn(n)
		}
		b := builder{x: x, y: y, rng: rng, maxFeatures: maxFeatures, cfg: f.cfg}
		f.trees = append(f.trees, b.grow(sample, 0))
	}
	return nil
}

// PredictProba returns the probability of label 1 for each row: the mean of
// the trees' leaf frequencies.
func (f *Forest) PredictProba(x [][]float64) ([]float64, error) {
	if len(f.trees) == 0 {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(x))
	for i, row := range x {
		if len(row) != f.features {
			return nil, ErrShape
		}
		var sum float64
		for _, t := range f.trees {
			sum += t.predict(row)
		}
		out[i] = sum / float64(len(f.trees))
	}
	return out, nil
}

// Predict labels each row 1 when its probability is above one half.
func (f *Forest) Predict(x [][]float64) ([]int, error) {
	proba, err := f.PredictProba(x)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out, nil
}

func (n *treeNode) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.proba
}

type builder struct {
	x           [][]float64
	y           []int
	rng         *rand.Rand
	maxFeatures int
	cfg         ForestConfig
}

func (b *builder) grow(idx []int, depth int) *treeNode {
	pos := 0
	for _, i := range idx {
		pos += b.y[i]
	}
	proba := float64(pos) / float64(len(idx))
	if pos == 0 || pos == len(idx) || len(idx) < b.cfg.MinSamplesSplit ||
		(b.cfg.MaxDepth > 0 && depth >= b.cfg.MaxDepth) {
		return &treeNode{leaf: true, proba: proba}
	}

	feature, threshold, ok := b.bestSplit(idx, pos)
	if !ok {
		return &treeNode{leaf: true, proba: proba}
	}
	var left, right []int
	for _, i := range idx {
		if b.x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      b.grow(left, depth+1),
		right:     b.grow(right, depth+1),
	}
}

// bestSplit draws features in random order and stops after maxFeatures of
// them once a valid split exists.
func (b *builder) bestSplit(idx []int, pos int) (int, float64, bool) {
	order := b.rng.Perm(len(b.x[0]))
	var (
		bestFeature   int
		bestThreshold float64
		bestScore     = math.Inf(1)
		found         bool
	)
	values := make([]float64, len(idx))
	perm := make([]int, len(idx))
	for tried, feature := range order {
		if tried >= b.maxFeatures && found {
			break
		}
		for k, i := range idx {
			values[k] = b.x[i][feature]
		}
		// perm[k] is the position in idx of the k-th smallest value.
		floats.ArgsortStable(values, perm)

		n := float64(len(idx))
		leftPos := 0
		for k := 0; k < len(idx)-1; k++ {
			leftPos += b.y[idx[perm[k]]]
			if values[k] == values[k+1] {
				continue
			}
			nl := float64(k + 1)
			nr := n - nl
			score := nl*gini(float64(leftPos), nl) + nr*gini(float64(pos-leftPos), nr)
			if score < bestScore {
				bestScore = score
				bestFeature = feature
				bestThreshold = (values[k] + values[k+1]) / 2
				if bestThreshold >= values[k+1] {
					bestThreshold = values[k]
				}
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func gini(pos, n float64) float64 {
	p := pos / n
	return 1 - p*p - (1-p)*(1-p)
}
