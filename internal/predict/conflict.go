package predict

import (
	"fmt"

	"MediaMiner/internal/villains"

	"github.com/rs/zerolog/log"
)

// ConflictResult is the outcome of TrainConflictClassifier.
type ConflictResult struct {
	Report

	Train     int `json:"train_rows"`
	Test      int `json:"test_rows"`
	Synthetic int `json:"synthetic_rows"`

	// Probabilities for a country with no conflict history in 2025, at peace
	// and with an active decay of 1.
	SwedenPeace    float64 `json:"sweden_2025_not_in_conflict"`
	SwedenConflict float64 `json:"sweden_2025_in_conflict"`
}

func conflictFeatures(samples []villains.Sample) ([][]float64, []int) {
	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		x[i] = []float64{float64(s.Year), s.Decay}
		if s.InConflict {
			y[i] = 1
		}
	}
	return x, y
}

// TrainConflictClassifier learns whether a villain's country was in
// conflict with the USA from the release year and the decay of past
// conflicts. The training part is balanced with SMOTE when possible.
func TrainConflictClassifier(samples []villains.Sample, cfg ForestConfig) (ConflictResult, error) {
	x, y := conflictFeatures(samples)
	split, err := TrainTestSplit(x, y, 0.2, cfg.Seed, false)
	if err != nil {
		return ConflictResult{}, fmt.Errorf("splitting conflict samples: %w", err)
	}

	xTrain, yTrain := split.XTrain, split.YTrain
	balancedX, balancedY, err := SMOTE(xTrain, yTrain, 5, cfg.Seed)
	if err != nil {
		log.Warn().Err(err).Msg("skipping oversampling")
	} else {
		xTrain, yTrain = balancedX, balancedY
	}

	forest := NewForest(cfg)
	if err := forest.Fit(xTrain, yTrain); err != nil {
		return ConflictResult{}, fmt.Errorf("training conflict classifier: %w", err)
	}

	res := ConflictResult{
		Train:     len(split.XTrain),
		Test:      len(split.XTest),
		Synthetic: len(xTrain) - len(split.XTrain),
	}
	if len(split.XTest) > 0 {
		if res.Report, err = Evaluate(forest, split.XTest, split.YTest); err != nil {
			return res, err
		}
	}
	proba, err := forest.PredictProba([][]float64{{2025, 0}, {2025, 1}})
	if err != nil {
		return res, err
	}
	res.SwedenPeace, res.SwedenConflict = proba[0], proba[1]
	return res, nil
}

// YearProbability is the predicted share of villains from a region in
// conflict for a year.
type YearProbability struct {
	Year        int     `json:"year"`
	Probability float64 `json:"probability"`
}

// TrendProbabilities trains on (year, region in conflict) and predicts the
// probability of conflict for each year assuming an ongoing conflict.
func TrendProbabilities(samples []villains.Sample, years []int, cfg ForestConfig) ([]YearProbability, error) {
	x := make([][]float64, len(samples))
	y := make([]int, len(samples))
	for i, s := range samples {
		conflict := 0.0
		if s.InConflict {
			conflict, y[i] = 1, 1
		}
		x[i] = []float64{float64(s.Year), conflict}
	}
	split, err := TrainTestSplit(x, y, 0.2, cfg.Seed, true)
	if err != nil {
		return nil, fmt.Errorf("splitting region samples: %w", err)
	}

	forest := NewForest(cfg)
	if err := forest.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("training trend classifier: %w", err)
	}

	rows := make([][]float64, len(years))
	for i, year := range years {
		rows[i] = []float64{float64(year), 1}
	}
	proba, err := forest.PredictProba(rows)
	if err != nil {
		return nil, err
	}
	out := make([]YearProbability, len(years))
	for i, year := range years {
		out[i] = YearProbability{Year: year, Probability: proba[i]}
	}
	return out, nil
}

// Years returns first, first+step, ... up to and including last.
func Years(first, last, step int) []int {
	if step <= 0 {
		return nil
	}
	var out []int
	for y := first; y <= last; y += step {
		out = append(out, y)
	}
	return out
}
