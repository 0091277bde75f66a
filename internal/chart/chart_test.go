package chart

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestLines(t *testing.T) {
	dir := t.TempDir()
	series := []Series{
		{Name: "Arya", X: []float64{2008, 2009, 2010, 2011, 2012}, Y: []float64{0, 5, 9, 40, 120}, Release: 2011},
		{Name: "Overall", X: []float64{2008, 2009, 2010, 2011, 2012}, Y: []float64{10, 11, 12, 13, 14}, Color: color.Black},
	}

	path := filepath.Join(dir, "nested", "lines.png")
	require.NoError(t, Lines(path, series, Options{Title: "Names", LogY: true}))
	requireFile(t, path)

	pdf := filepath.Join(dir, "lines.pdf")
	require.NoError(t, Lines(pdf, series, Options{}))
	requireFile(t, pdf)
}

func TestLinesErrors(t *testing.T) {
	dir := t.TempDir()
	zeros := []Series{{Name: "None", X: []float64{1, 2}, Y: []float64{0, 0}}}
	assert.ErrorIs(t, Lines(filepath.Join(dir, "a.png"), zeros, Options{LogY: true}), ErrNoData)

	ok := []Series{{Name: "One", X: []float64{1, 2}, Y: []float64{1, 2}}}
	assert.ErrorIs(t, Lines(filepath.Join(dir, "a.txt"), ok, Options{}), ErrFormat)
}

func TestScatterWithFit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scatter.png")
	groups := []Group{
		{Name: "Show A", Points: []Point{{X: 10, Y: 50, Label: "Arya"}, {X: 200, Y: -20, Label: "Sansa"}}},
		{Name: "Show B", Points: []Point{{X: 40, Y: 10}}},
		{Name: "Empty"},
	}
	require.NoError(t, Scatter(path, groups, &Fit{Slope: -0.3, Intercept: 45, Label: "Regression line"}, Options{}))
	requireFile(t, path)

	assert.ErrorIs(t, Scatter(path, nil, nil, Options{}), ErrNoData)
}

func TestRankings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranks.png")
	entries := []Ranked{
		{Name: "Tom Hanks", Rank: 3, Group: 0},
		{Name: "Meryl Streep", Rank: 1, Group: 1},
	}
	require.NoError(t, Rankings(path, entries, []color.Color{Red, Blue}, []string{"Same director 3+ times", "Fewer than 3 times"}, Options{}))
	requireFile(t, path)

	assert.ErrorIs(t, Rankings(path, nil, nil, nil, Options{}), ErrNoData)
}

func TestBarChart(t *testing.T) {
	dir := t.TempDir()
	cats := []string{"Nolan", "Scott", "Burton"}
	bars := []Bars{
		{Name: "Frequent", Values: []float64{300, 120, 80}},
		{Name: "Non-frequent", Values: []float64{150, 90, 60}},
	}
	grouped := filepath.Join(dir, "grouped.png")
	require.NoError(t, BarChart(grouped, cats, bars, false, Options{}))
	requireFile(t, grouped)

	stacked := filepath.Join(dir, "stacked.svg")
	require.NoError(t, BarChart(stacked, cats, bars, true, Options{}))
	requireFile(t, stacked)

	short := []Bars{{Name: "Bad", Values: []float64{1}}}
	assert.Error(t, BarChart(grouped, cats, short, false, Options{}))
	assert.ErrorIs(t, BarChart(grouped, nil, bars, false, Options{}), ErrNoData)
}

func TestTimeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "timeline.png")
	series := []Series{{Name: "Russia", X: []float64{1980, 1981, 1982}, Y: []float64{1, 3, 2}}}
	events := []Event{{Start: 1980, End: 1985, Label: "Cold War Tension"}}
	require.NoError(t, Timeline(path, series, events, Options{Title: "Trend"}))
	requireFile(t, path)
}

func TestROC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roc.png")
	require.NoError(t, ROC(path, []float64{0, 0.5, 1}, []float64{0, 0.8, 1}, 0.9))
	requireFile(t, path)
	assert.ErrorIs(t, ROC(path, nil, nil, 0), ErrNoData)
}
