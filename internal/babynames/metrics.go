package babynames

import (
	"math"

	"MediaMiner/internal/models"

	"gonum.org/v1/gonum/stat"
)

// Metrics summarises the percentage jumps of a group of names.
type Metrics struct {
	AverageJump  float64 `json:"average_percentage_jump"`
	TotalChange  float64 `json:"total_percentage_change"`
	WeightedJump float64 `json:"weighted_average_percentage_jump"`
}

// ShowMetric is the result for one show. Metrics is nil when none of the
// show's names existed in its debut year.
type ShowMetric struct {
	Show    string   `json:"tv_show_name"`
	Release int      `json:"release_year"`
	Names   int      `json:"number_of_names"`
	Metrics *Metrics `json:"metrics"`
}

// summarize only looks at names that were given at least once at debut.
func summarize(stats []NameStat) (int, *Metrics) {
	var (
		n             int
		jumpSum       float64
		weightedSum   float64
		totalDebut    float64
		totalAvgAfter float64
	)
	for _, s := range stats {
		if s.DebutCount <= 0 {
			continue
		}
		n++
		d := float64(s.DebutCount)
		jumpSum += s.Jump
		weightedSum += s.Jump * d
		totalDebut += d
		totalAvgAfter += s.AvgAfter
	}
	if n == 0 {
		return 0, nil
	}
	return n, &Metrics{
		AverageJump:  jumpSum / float64(n),
		TotalChange:  (totalAvgAfter - totalDebut) / totalDebut * 100,
		WeightedJump: weightedSum / totalDebut,
	}
}

// ShowMetrics computes Metrics per show, in input order.
func (t *Table) ShowMetrics(shows []models.TVShow, window int) []ShowMetric {
	out := make([]ShowMetric, 0, len(shows))
	for _, show := range shows {
		names, m := summarize(t.Stats([]models.TVShow{show}, window))
		out = append(out, ShowMetric{Show: show.Name, Release: show.ReleaseYear, Names: names, Metrics: m})
	}
	return out
}

// OverallMetrics pools the names of every show.
func (t *Table) OverallMetrics(shows []models.TVShow, window int) ShowMetric {
	names, m := summarize(t.Stats(shows, window))
	return ShowMetric{Show: "Overall", Names: names, Metrics: m}
}

// ShowAverage is the mean yearly count across the show's characters for
// start..end. A show without characters averages to zeros.
func (t *Table) ShowAverage(show models.TVShow, start, end int) []float64 {
	if end < start {
		return []float64{}
	}
	avg := make([]float64, end-start+1)
	n := 0
	for _, character := range show.Characters {
		name := FirstName(character)
		if name == "" {
			continue
		}
		n++
		for i, c := range t.Counts(name, start, end) {
			avg[i] += float64(c)
		}
	}
	if n > 0 {
		for i := range avg {
			avg[i] /= float64(n)
		}
	}
	return avg
}

// OverallAverage is the mean of the per-show averages.
func (t *Table) OverallAverage(shows []models.TVShow, start, end int) []float64 {
	if end < start {
		return []float64{}
	}
	avg := make([]float64, end-start+1)
	if len(shows) == 0 {
		return avg
	}
	for _, show := range shows {
		for i, v := range t.ShowAverage(show, start, end) {
			avg[i] += v
		}
	}
	for i := range avg {
		avg[i] /= float64(len(shows))
	}
	return avg
}

// Trend is the count series of a name that nobody had at debut.
type Trend struct {
	Name   string
	Show   string
	Debut  int
	Counts []int
}

// ZeroDebutTrends returns names with 0 babies in their show's debut year and
// their counts for debut..debut+window.
func (t *Table) ZeroDebutTrends(shows []models.TVShow, window int) []Trend {
	var out []Trend
	for _, s := range t.Stats(shows, window) {
		if s.DebutCount != 0 {
			continue
		}
		out = append(out, Trend{
			Name:   s.Name,
			Show:   s.Show,
			Debut:  s.Debut,
			Counts: t.Counts(s.Name, s.Debut, s.Debut+window),
		})
	}
	return out
}

// Point is one name on the debut popularity / jump scatter.
type Point struct {
	Name       string
	Show       string
	DebutCount float64
	Jump       float64
}

// RegressionPoints keeps names with a debut count and a non-zero jump.
func (t *Table) RegressionPoints(shows []models.TVShow, window int) ([]Point, error) {
	var out []Point
	for _, s := range t.Stats(shows, window) {
		if s.DebutCount <= 0 || s.Jump == 0 {
			continue
		}
		out = append(out, Point{Name: s.Name, Show: s.Show, DebutCount: float64(s.DebutCount), Jump: s.Jump})
	}
	if len(out) < 2 {
		return out, ErrNoData
	}
	return out, nil
}

// Fit is a least squares line y = Slope*x + Intercept.
type Fit struct {
	Slope       float64 `json:"slope"`
	Intercept   float64 `json:"intercept"`
	RSquared    float64 `json:"r_squared"`
	Correlation float64 `json:"pearson_correlation"`
}

// Regression fits jump against debut count.
func Regression(points []Point) (Fit, error) {
	if len(points) < 2 {
		return Fit{}, ErrNoData
	}
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.DebutCount
		ys[i] = p.Jump
	}
	if stat.Variance(xs, nil) == 0 {
		return Fit{}, ErrNoData
	}
	intercept, slope := stat.LinearRegression(xs, ys, nil, false)
	fit := Fit{
		Slope:       slope,
		Intercept:   intercept,
		RSquared:    stat.RSquared(xs, ys, nil, intercept, slope),
		Correlation: stat.Correlation(xs, ys, nil),
	}
	if math.IsNaN(fit.RSquared) {
		fit.RSquared = 0
	}
	if math.IsNaN(fit.Correlation) {
		fit.Correlation = 0
	}
	return fit, nil
}
