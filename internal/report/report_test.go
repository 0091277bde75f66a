package report

import (
	"bytes"
	"testing"

	"MediaMiner/internal/babynames"
	"MediaMiner/internal/collab"
	"MediaMiner/internal/predict"

	"github.com/stretchr/testify/assert"
)

func TestShowMetrics(t *testing.T) {
	var buf bytes.Buffer
	shows := []babynames.ShowMetric{
		{Show: "Game of Thrones", Release: 2011, Names: 2, Metrics: &babynames.Metrics{AverageJump: 150, TotalChange: 120.5, WeightedJump: 99.126}},
		{Show: "Empty Show", Release: 2001},
	}
	ShowMetrics(&buf, shows, babynames.ShowMetric{Show: "Overall", Names: 2, Metrics: shows[0].Metrics})

	out := buf.String()
	assert.Contains(t, out, "Game of Thrones")
	assert.Contains(t, out, "150.00%")
	assert.Contains(t, out, "99.13%")
	assert.Contains(t, out, "Empty Show")
	assert.Contains(t, out, "OVERALL", "footers are upper-cased")
}

func TestClassifier(t *testing.T) {
	var buf bytes.Buffer
	auc := 0.8
	Classifier(&buf, "Conflict", predict.Report{
		Confusion: predict.Confusion{TN: 5, FP: 1, FN: 2, TP: 3},
		Accuracy:  0.73,
		AUC:       &auc,
	})
	out := buf.String()
	assert.Contains(t, out, "Actual 0")
	assert.Contains(t, out, "0.80")
	assert.Contains(t, out, "0.73")

	buf.Reset()
	Classifier(&buf, "Trend", predict.Report{})
	assert.Contains(t, buf.String(), "single class")
}

func TestDirectorSuccessAndCounts(t *testing.T) {
	var buf bytes.Buffer
	DirectorSuccess(&buf, collab.SuccessReport{
		Directors:       []collab.DirectorGross{{Director: "Christopher Nolan", Frequent: 512.24, NonFrequent: 300, Overall: 406.1}},
		FrequentMean:    512.24,
		NonFrequentMean: 300,
	})
	assert.Contains(t, buf.String(), "Christopher Nolan")
	assert.Contains(t, buf.String(), "512.2")

	buf.Reset()
	Counts(&buf, "Villains", "Status", []string{"completed", "failed"}, map[string]int{"completed": 4, "failed": 1})
	assert.Contains(t, buf.String(), "completed")
	assert.Contains(t, buf.String(), "5")

	buf.Reset()
	TopActors(&buf, "Tim Burton", []collab.ActorCount{{Actor: "Johnny Depp", Count: 8}})
	assert.Contains(t, buf.String(), "Johnny Depp")

	buf.Reset()
	Probabilities(&buf, []predict.YearProbability{{Year: 1977, Probability: 0.25}})
	assert.Contains(t, buf.String(), "0.250")

	buf.Reset()
	Regression(&buf, babynames.Fit{Slope: -0.5, Intercept: 10, RSquared: 0.25, Correlation: -0.5}, 12)
	assert.Contains(t, buf.String(), "-0.5000")

	buf.Reset()
	Clusters(&buf, "Studied", []string{"Tim Burton"}, map[string]int{"Tim Burton": 3})
	assert.Contains(t, buf.String(), "Tim Burton")
	assert.Contains(t, buf.String(), "3")
}
