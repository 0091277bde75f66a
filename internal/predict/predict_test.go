package predict

import (
	"testing"

	"MediaMiner/internal/villains"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func separable() ([][]float64, []int) {
	var x [][]float64
	var y []int
	for i := 0; i < 100; i++ {
		x = append(x, []float64{float64(i), float64(i % 7)})
		label := 0
		if i >= 50 {
			label = 1
		}
		y = append(y, label)
	}
	return x, y
}

func TestForestLearnsThreshold(t *testing.T) {
	x, y := separable()
	f := NewForest(ForestConfig{Trees: 25, Seed: 42})
	require.NoError(t, f.Fit(x, y))

	pred, err := f.Predict([][]float64{{10, 3}, {90, 3}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, pred)

	proba, err := f.PredictProba([][]float64{{5, 0}, {95, 0}})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, proba[0], 0.2)
	assert.InDelta(t, 1.0, proba[1], 0.2)

	again := NewForest(ForestConfig{Trees: 25, Seed: 42})
	require.NoError(t, again.Fit(x, y))
	proba2, err := again.PredictProba([][]float64{{5, 0}, {95, 0}})
	require.NoError(t, err)
	assert.Equal(t, proba, proba2, "same seed, same forest")
}

func TestForestErrors(t *testing.T) {
	f := NewForest(ForestConfig{})
	_, err := f.PredictProba([][]float64{{1}})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.ErrorIs(t, f.Fit(nil, nil), ErrEmpty)
	assert.ErrorIs(t, f.Fit([][]float64{{1}, {2}}, []int{1}), ErrShape)
	assert.ErrorIs(t, f.Fit([][]float64{{1}, {2, 3}}, []int{1, 0}), ErrShape)

	require.NoError(t, f.Fit([][]float64{{1}, {2}}, []int{0, 0}))
	proba, err := f.PredictProba([][]float64{{1.5}})
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, proba, "single class always predicts it")
	_, err = f.PredictProba([][]float64{{1, 2}})
	assert.ErrorIs(t, err, ErrShape)
}

func TestTrainTestSplit(t *testing.T) {
	x, y := separable()
	s, err := TrainTestSplit(x[:10], y[:10], 0.2, 1, false)
	require.NoError(t, err)
	assert.Len(t, s.XTest, 2)
	assert.Len(t, s.XTrain, 8)
	assert.Len(t, s.YTrain, 8)

	labels := append(make([]int, 10), 1, 1, 1, 1, 1)
	rows := make([][]float64, len(labels))
	for i := range rows {
		rows[i] = []float64{float64(i)}
	}
	s, err = TrainTestSplit(rows, labels, 0.2, 1, true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 0, 1}, s.YTest)
	assert.Len(t, s.YTrain, 12)

	_, err = TrainTestSplit(nil, nil, 0.2, 1, true)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestSMOTE(t *testing.T) {
	x := [][]float64{{0, 0}, {1, 0}, {0, 1}, {5, 5}, {6, 5}, {5, 6}, {6, 6}, {7, 7}, {8, 8}}
	y := []int{1, 1, 1, 0, 0, 0, 0, 0, 0}

	ox, oy, err := SMOTE(x, y, 5, 42)
	require.NoError(t, err)
	require.Len(t, ox, 12)
	assert.Equal(t, x, ox[:9], "original rows come first")
	for i := 9; i < 12; i++ {
		assert.Equal(t, 1, oy[i])
		p := ox[i]
		assert.GreaterOrEqual(t, p[0], 0.0)
		assert.GreaterOrEqual(t, p[1], 0.0)
		assert.LessOrEqual(t, p[0]+p[1], 1.0+1e-9, "synthetic rows stay between minority rows")
	}

	_, _, err = SMOTE([][]float64{{0}, {1}, {2}}, []int{1, 0, 0}, 5, 1)
	assert.ErrorIs(t, err, ErrTooFewSamples)

	bx, by, err := SMOTE([][]float64{{0}, {1}}, []int{1, 0}, 5, 1)
	require.NoError(t, err)
	assert.Len(t, bx, 2)
	assert.Equal(t, []int{1, 0}, by)
}

func TestConfusionMetrics(t *testing.T) {
	c := ConfusionMatrix([]int{1, 1, 0, 0, 1}, []int{1, 0, 0, 1, 1})
	assert.Equal(t, Confusion{TN: 1, FP: 1, FN: 1, TP: 2}, c)
	assert.InDelta(t, 0.6, c.Accuracy(), 1e-9)
	assert.InDelta(t, 2.0/3, c.Precision(), 1e-9)
	assert.InDelta(t, 2.0/3, c.Recall(), 1e-9)
	assert.InDelta(t, 2.0/3, c.F1(), 1e-9)

	none := ConfusionMatrix([]int{1, 0}, []int{0, 0})
	assert.Equal(t, 1.0, none.Precision(), "nothing predicted positive")
	assert.Equal(t, 0.0, none.Recall())
	assert.Equal(t, 0.0, none.F1())
}

func TestAUC(t *testing.T) {
	auc, err := AUC([]int{0, 0, 1, 1}, []float64{0.1, 0.4, 0.35, 0.8})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-9)

	fpr, tpr, err := ROCCurve([]int{0, 1}, []float64{0.2, 0.9})
	require.NoError(t, err)
	assert.Equal(t, 0.0, fpr[0])
	assert.Equal(t, 1.0, tpr[len(tpr)-1])

	_, err = AUC([]int{1, 1}, []float64{0.3, 0.6})
	assert.ErrorIs(t, err, ErrSingleClass)
}

func TestEvaluateSingleClass(t *testing.T) {
	x, y := separable()
	f := NewForest(ForestConfig{Trees: 10, Seed: 1})
	require.NoError(t, f.Fit(x, y))

	r, err := Evaluate(f, [][]float64{{1, 0}, {2, 0}}, []int{0, 0})
	require.NoError(t, err)
	assert.Nil(t, r.AUC)
	assert.Equal(t, 1.0, r.Accuracy)
}

func conflictSamples() []villains.Sample {
	var out []villains.Sample
	for year := 1977; year <= 2023; year++ {
		for _, origin := range []string{"Iran", "Russia", "China", "Sweden"} {
			in, decay := villains.ConflictFeatures(origin, year)
			out = append(out, villains.Sample{Year: year, Origin: origin, InConflict: in, Decay: decay})
		}
	}
	return out
}

func TestTrainConflictClassifier(t *testing.T) {
	samples := conflictSamples()
	res, err := TrainConflictClassifier(samples, ForestConfig{Trees: 20, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, len(samples), res.Train+res.Test)
	assert.Positive(t, res.Synthetic, "conflict years are the minority")
	assert.NotNil(t, res.AUC)
	assert.GreaterOrEqual(t, res.Accuracy, 0.5)
	assert.True(t, res.SwedenPeace >= 0 && res.SwedenPeace <= 1)
	assert.True(t, res.SwedenConflict >= 0 && res.SwedenConflict <= 1)
}

func TestTrendProbabilities(t *testing.T) {
	var samples []villains.Sample
	for _, s := range conflictSamples() {
		region := villains.ClassifierRegion(s.Origin)
		samples = append(samples, villains.Sample{Year: s.Year, Region: region, InConflict: villains.RegionInConflict(region, s.Year)})
	}
	years := Years(1977, 2030, 5)
	require.Len(t, years, 11)
	assert.Equal(t, 2027, years[10])

	probs, err := TrendProbabilities(samples, years, ForestConfig{Trees: 20, Seed: 42})
	require.NoError(t, err)
	require.Len(t, probs, len(years))
	for _, p := range probs {
		assert.True(t, p.Probability >= 0 && p.Probability <= 1, "year %d", p.Year)
	}
	assert.Nil(t, Years(1, 2, 0))
}
