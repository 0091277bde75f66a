package predict

import (
	"errors"
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// ErrTooFewSamples is returned by SMOTE when the minority class has fewer
// than two rows to interpolate between.
var ErrTooFewSamples = errors.New("predict: too few minority samples")

// Split is a train/test partition.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []int
}

// TrainTestSplit shuffles the rows with seed and holds out testSize of them.
// With stratify each label keeps its share in both parts: every class puts
// round(testSize*count) rows in the test set. Without it the test set has
// ceil(testSize*n) rows.
func TrainTestSplit(x [][]float64, y []int, testSize float64, seed int64, stratify bool) (Split, error) {
	if len(x) == 0 {
		return Split{}, ErrEmpty
	}
	if len(x) != len(y) {
		return Split{}, ErrShape
	}
	rng := rand.New(rand.NewSource(seed))

	var test []int
	isTest := make([]bool, len(x))
	if stratify {
		byClass := make(map[int][]int)
		var classes []int
		for i, label := range y {
			if _, ok := byClass[label]; !ok {
				classes = append(classes, label)
			}
			byClass[label] = append(byClass[label], i)
		}
		sort.Ints(classes)
		for _, c := range classes {
			idx := byClass[c]
			rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
			n := int(math.Round(testSize * float64(len(idx))))
			test = append(test, idx[:n]...)
		}
	} else {
		idx := rng.Perm(len(x))
		n := int(math.Ceil(testSize * float64(len(x))))
		if n > len(x) {
			n = len(x)
		}
		test = idx[:n]
	}
	for _, i := range test {
		isTest[i] = true
	}

	var s Split
	for i := range x {
		if isTest[i] {
			s.XTest = append(s.XTest, x[i])
			s.YTest = append(s.YTest, y[i])
		} else {
			s.XTrain = append(s.XTrain, x[i])
			s.YTrain = append(s.YTrain, y[i])
		}
	}
	return s, nil
}

// SMOTE oversamples the minority label until both labels are equally
// frequent. Each synthetic row lies on the segment between a minority row
// and one of its k nearest minority neighbours. The input is returned
// unchanged, with the synthetic rows appended.
func SMOTE(x [][]float64, y []int, k int, seed int64) ([][]float64, []int, error) {
	if len(x) != len(y) {
		return nil, nil, ErrShape
	}
	var zeros, ones []int
	for i, label := range y {
		if label == 1 {
			ones = append(ones, i)
		} else {
			zeros = append(zeros, i)
		}
	}
	minority, majority, label := ones, zeros, 1
	if len(zeros) < len(ones) {
		minority, majority, label = zeros, ones, 0
	}

	outX := append([][]float64{}, x...)
	outY := append([]int{}, y...)
	need := len(majority) - len(minority)
	if need == 0 {
		return outX, outY, nil
	}
	if len(minority) < 2 {
		return nil, nil, ErrTooFewSamples
	}
	if k <= 0 || k > len(minority)-1 {
		k = len(minority) - 1
	}

	neighbours := make([][]int, len(minority))
	for a, i := range minority {
		type cand struct {
			pos  int
			dist float64
		}
		cands := make([]cand, 0, len(minority)-1)
		for b, j := range minority {
			if a != b {
				cands = append(cands, cand{pos: b, dist: floats.Distance(x[i], x[j], 2)})
			}
		}
		sort.SliceStable(cands, func(p, q int) bool { return cands[p].dist < cands[q].dist })
		for _, c := range cands[:k] {
			neighbours[a] = append(neighbours[a], c.pos)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	for s := 0; s < need; s++ {
		a := rng.Intn(len(minority))
		b := neighbours[a][rng.Intn(k)]
		base, other := x[minority[a]], x[minority[b]]
		gap := rng.Float64()

		row := make([]float64, len(base))
		copy(row, other)
		floats.Sub(row, base)
		floats.Scale(gap, row)
		floats.Add(row, base)

		outX = append(outX, row)
		outY = append(outY, label)
	}
	return outX, outY, nil
}
