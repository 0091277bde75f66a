// Package report prints analysis results as terminal tables.
package report

import (
	"fmt"
	"io"

	"MediaMiner/internal/babynames"
	"MediaMiner/internal/collab"
	"MediaMiner/internal/predict"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable(w io.Writer, title string, header table.Row) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("%s", title)
	t.AppendHeader(header)
	t.SetStyle(table.StyleRounded)
	return t
}

func pct(v float64) string { return fmt.Sprintf("%.2f%%", v) }

// ShowMetrics prints one row per show and a footer with the overall metrics.
func ShowMetrics(w io.Writer, shows []babynames.ShowMetric, overall babynames.ShowMetric) {
	t := newTable(w, "Baby name percentage jumps", table.Row{"Show", "Release", "Names", "Average jump", "Total change", "Weighted jump"})
	row := func(m babynames.ShowMetric) table.Row {
		if m.Metrics == nil {
			return table.Row{m.Show, m.Release, m.Names, "-", "-", "-"}
		}
		return table.Row{m.Show, m.Release, m.Names, pct(m.Metrics.AverageJump), pct(m.Metrics.TotalChange), pct(m.Metrics.WeightedJump)}
	}
	for _, m := range shows {
		t.AppendRow(row(m))
	}
	t.AppendFooter(row(overall))
	t.Render()
}

// Regression prints a fitted line.
func Regression(w io.Writer, fit babynames.Fit, points int) {
	t := newTable(w, "Debut popularity vs percentage jump", table.Row{"Points", "Slope", "Intercept", "R²", "Pearson r"})
	t.AppendRow(table.Row{points, fmt.Sprintf("%.4f", fit.Slope), fmt.Sprintf("%.2f", fit.Intercept), fmt.Sprintf("%.4f", fit.RSquared), fmt.Sprintf("%.4f", fit.Correlation)})
	t.Render()
}

// Classifier prints a confusion matrix and the scores of a classifier.
func Classifier(w io.Writer, title string, r predict.Report) {
	cm := newTable(w, title+": confusion matrix", table.Row{"", "Predicted 0", "Predicted 1"})
	cm.AppendRow(table.Row{"Actual 0", r.Confusion.TN, r.Confusion.FP})
	cm.AppendRow(table.Row{"Actual 1", r.Confusion.FN, r.Confusion.TP})
	cm.Render()

	auc := "undefined (single class)"
	if r.AUC != nil {
		auc = fmt.Sprintf("%.2f", *r.AUC)
	}
	t := newTable(w, title+": scores", table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Accuracy", fmt.Sprintf("%.2f", r.Accuracy)},
		{"Precision", fmt.Sprintf("%.2f", r.Precision)},
		{"Recall", fmt.Sprintf("%.2f", r.Recall)},
		{"F1 Score", fmt.Sprintf("%.2f", r.F1)},
		{"ROC AUC Score", auc},
	})
	t.Render()
}

// Probabilities prints a year sweep.
func Probabilities(w io.Writer, probs []predict.YearProbability) {
	t := newTable(w, "Probability of a villain from a country in conflict", table.Row{"Year", "Probability"})
	for _, p := range probs {
		t.AppendRow(table.Row{p.Year, fmt.Sprintf("%.3f", p.Probability)})
	}
	t.Render()
}

// DirectorSuccess prints the average gross per director in millions.
func DirectorSuccess(w io.Writer, r collab.SuccessReport) {
	t := newTable(w, "Average box office gross (millions)", table.Row{"Director", "Frequent", "Non-frequent", "Overall"})
	for _, d := range r.Directors {
		t.AppendRow(table.Row{d.Director, fmt.Sprintf("%.1f", d.Frequent), fmt.Sprintf("%.1f", d.NonFrequent), fmt.Sprintf("%.1f", d.Overall)})
	}
	t.AppendFooter(table.Row{"Mean", fmt.Sprintf("%.1f", r.FrequentMean), fmt.Sprintf("%.1f", r.NonFrequentMean), ""})
	t.Render()
}

// TopActors prints a director's most frequent cast.
func TopActors(w io.Writer, director string, actors []collab.ActorCount) {
	t := newTable(w, "Top actors of "+director, table.Row{"#", "Actor", "Films"})
	for i, a := range actors {
		t.AppendRow(table.Row{i + 1, a.Actor, a.Count})
	}
	t.Render()
}

// Counts prints label/count pairs, such as villains per status.
func Counts(w io.Writer, title, label string, keys []string, counts map[string]int) {
	t := newTable(w, title, table.Row{label, "Count"})
	total := 0
	for _, k := range keys {
		t.AppendRow(table.Row{k, counts[k]})
		total += counts[k]
	}
	t.AppendFooter(table.Row{"Total", total})
	t.Render()
}

// Clusters prints the community each of names belongs to.
func Clusters(w io.Writer, title string, names []string, clusters map[string]int) {
	t := newTable(w, title, table.Row{"Name", "Cluster"})
	for _, name := range names {
		t.AppendRow(table.Row{name, clusters[name]})
	}
	t.Render()
}
