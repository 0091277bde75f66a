package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"path/filepath"

	"MediaMiner/internal/babynames"
	"MediaMiner/internal/chart"
	"MediaMiner/internal/export"
	"MediaMiner/internal/models"
	"MediaMiner/internal/report"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"
)

func (a *App) loadNames() ([]models.TVShow, *babynames.Table, error) {
	var shows []models.TVShow
	if err := export.ReadJSON(a.Config.OutputPath(tvShowsFile), &shows); err != nil {
		return nil, nil, fmt.Errorf("loading TV shows: %w", err)
	}
	conf := a.Config.Analysis
	table, err := babynames.Load(a.Config.Paths.BabyNamesDir, conf.FirstYear, conf.LastYear)
	if err != nil {
		return nil, nil, fmt.Errorf("loading baby names: %w", err)
	}
	if years := table.Years(); len(years) < conf.LastYear-conf.FirstYear+1 {
		log.Warn().Int("loaded", len(years)).Int("first", years[0]).Int("last", years[len(years)-1]).
			Msg("some years have no baby name file, counting them as zero")
	}
	return shows, table, nil
}

func yearAxis(start, end int) []float64 {
	xs := make([]float64, 0, end-start+1)
	for y := start; y <= end; y++ {
		xs = append(xs, float64(y))
	}
	return xs
}

// RunNamesLines charts the average popularity of each show's character
// names, one chart per show and one combined chart, and prints the
// percentage jump metrics.
func (a *App) RunNamesLines(ctx context.Context) error {
	shows, table, err := a.loadNames()
	if err != nil {
		return err
	}
	conf := a.Config.Analysis
	xs := yearAxis(conf.FirstYear, conf.LastYear)

	series := make([]chart.Series, 0, len(shows)+1)
	for _, show := range shows {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := chart.Series{
			Name:    show.Name,
			X:       xs,
			Y:       table.ShowAverage(show, conf.FirstYear, conf.LastYear),
			Release: float64(show.ReleaseYear),
		}
		series = append(series, s)

		perShow := characterSeries(table, show, xs, conf.FirstYear, conf.LastYear)
		avg := s
		avg.Name, avg.Color, avg.Thickness = "Average", color.Black, vg.Points(3)
		path := a.Config.OutputPath(filepath.Join("shows", utils.CreateSlug(show.Name)+".png"))
		err := chart.Lines(path, append(perShow, avg), chart.Options{
			Title:  show.Name,
			XLabel: "Year",
			YLabel: "Babies named (log scale)",
			LogY:   true,
			Width:  8 * vg.Inch,
			Height: 5 * vg.Inch,
		})
		if errors.Is(err, chart.ErrNoData) {
			log.Info().Str("show", show.Name).Msg("no babies named after the characters, skipping chart")
			continue
		}
		if err != nil {
			return err
		}
	}
	series = append(series, chart.Series{
		Name:      "Overall average",
		X:         xs,
		Y:         table.OverallAverage(shows, conf.FirstYear, conf.LastYear),
		Color:     color.Black,
		Thickness: vg.Points(3),
	})
	err = chart.Lines(a.Config.OutputPath("names_line_graph.png"), series, chart.Options{
		Title:  "Popularity of TV show character names",
		XLabel: "Year",
		YLabel: "Average count (log scale)",
		LogY:   true,
	})
	if err != nil {
		return err
	}

	report.ShowMetrics(a.Out, table.ShowMetrics(shows, conf.Window), table.OverallMetrics(shows, conf.Window))
	return nil
}

// RunNamesScatter plots debut popularity against the percentage jump and
// fits a regression line through it.
func (a *App) RunNamesScatter(ctx context.Context) error {
	shows, table, err := a.loadNames()
	if err != nil {
		return err
	}
	window := a.Config.Analysis.Window
	points, err := table.RegressionPoints(shows, window)
	if err != nil {
		return fmt.Errorf("collecting points: %w", err)
	}
	fit, err := babynames.Regression(points)
	if err != nil {
		return fmt.Errorf("fitting regression: %w", err)
	}

	var groups []chart.Group
	byShow := make(map[string]int)
	for _, p := range points {
		i, ok := byShow[p.Show]
		if !ok {
			i = len(groups)
			byShow[p.Show] = i
			groups = append(groups, chart.Group{Name: p.Show})
		}
		groups[i].Points = append(groups[i].Points, chart.Point{X: p.DebutCount, Y: p.Jump, Label: p.Name})
	}
	err = chart.Scatter(a.Config.OutputPath("names_scatter.png"), groups, &chart.Fit{
		Slope:     fit.Slope,
		Intercept: fit.Intercept,
		Label:     fmt.Sprintf("y = %.4fx + %.2f (R² = %.3f)", fit.Slope, fit.Intercept, fit.RSquared),
	}, chart.Options{
		Title:  "Debut popularity vs percentage jump",
		XLabel: "Babies named in the debut year",
		YLabel: fmt.Sprintf("Percentage jump over %d years", window),
	})
	if err != nil {
		return err
	}

	if err := export.WriteJSON(a.Config.OutputPath("names_regression.json"), fit); err != nil {
		return err
	}
	report.Regression(a.Out, fit, len(points))
	return ctx.Err()
}

// RunNamesZeros charts names that nobody had when their show debuted.
func (a *App) RunNamesZeros(ctx context.Context) error {
	shows, table, err := a.loadNames()
	if err != nil {
		return err
	}
	window := a.Config.Analysis.Window
	trends := table.ZeroDebutTrends(shows, window)
	if len(trends) == 0 {
		log.Info().Msg("no character name debuted at zero")
		return nil
	}

	series := make([]chart.Series, 0, len(trends))
	for _, t := range trends {
		ys := make([]float64, len(t.Counts))
		for i, c := range t.Counts {
			ys[i] = float64(c)
		}
		series = append(series, chart.Series{
			Name:    fmt.Sprintf("%s (%s)", t.Name, t.Show),
			X:       yearAxis(t.Debut, t.Debut+window),
			Y:       ys,
			Release: float64(t.Debut),
		})
	}
	err = chart.Lines(a.Config.OutputPath("names_zero_debut.png"), series, chart.Options{
		Title:  "Names with no babies at the show's debut",
		XLabel: "Year",
		YLabel: "Count",
	})
	if errors.Is(err, chart.ErrNoData) {
		log.Info().Int("names", len(trends)).Msg("zero-debut names never became popular, nothing to chart")
		return nil
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

// characterSeries has one line per distinct first name among the
// characters of show, split at its release year.
func characterSeries(table *babynames.Table, show models.TVShow, xs []float64, first, last int) []chart.Series {
	var out []chart.Series
	seen := make(map[string]bool)
	for _, character := range show.Characters {
		name := babynames.FirstName(character)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		counts := table.Counts(name, first, last)
		ys := make([]float64, len(counts))
		for i, c := range counts {
			ys[i] = float64(c)
		}
		out = append(out, chart.Series{Name: name, X: xs, Y: ys, Release: float64(show.ReleaseYear)})
	}
	return out
}
