package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"MediaMiner/internal/chart"
	"MediaMiner/internal/export"
	"MediaMiner/internal/fetch"
	"MediaMiner/internal/geocode"
	"MediaMiner/internal/heatmap"
	"MediaMiner/internal/models"
	"MediaMiner/internal/predict"
	"MediaMiner/internal/report"
	"MediaMiner/internal/scraper/boxoffice"
	"MediaMiner/internal/villains"
	"MediaMiner/utils"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"
)

// Nominatim asks for at most one request per second.
const geocodeDelay = time.Second

func (a *App) geocoder() *geocode.Geocoder {
	conf := a.Config.Geocoder
	f := fetch.New(
		fetch.UserAgent(conf.UserAgent),
		fetch.Timeout(conf.Timeout),
		fetch.Delay(geocodeDelay),
		fetch.Retries(a.Config.Retry.MaxRetries, a.Config.Retry.BaseDelay, a.Config.Retry.MaxDelay, a.Config.Retry.Jitter),
	)
	return geocode.New(f, conf.BaseURL, a.Repo)
}

// world loads the country boundaries. Without them the heatmaps are drawn
// on a blank background.
func (a *App) world() *heatmap.World {
	w, err := heatmap.LoadWorld(a.Config.Paths.WorldGeoJSON)
	if err != nil {
		log.Warn().Err(err).Msg("drawing heatmaps without country boundaries")
		return nil
	}
	return w
}

// loadOrigins reads the annotated box office CSV and keeps the villains
// from Earth.
func (a *App) loadOrigins() ([]models.BoxOfficeMovie, error) {
	movies, err := boxoffice.LoadCSV(a.originsPath())
	if err != nil {
		return nil, fmt.Errorf("loading villain origins: %w", err)
	}
	earthly := villains.FilterEarthly(movies)
	log.Info().Int("movies", len(movies)).Int("earthly", len(earthly)).Msg("villain origins loaded")
	return earthly, nil
}

// loadVillains prefers the database and falls back to the exported JSON.
func (a *App) loadVillains() ([]models.Villain, error) {
	vs, err := a.Repo.GetCompletedVillains()
	if err != nil {
		return nil, err
	}
	if len(vs) > 0 {
		return vs, nil
	}
	if err := export.ReadJSON(a.Config.OutputPath("villains_data.json"), &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// RunVillainHeatmap geocodes the places of birth of the scraped villains
// and draws their density on a world map.
func (a *App) RunVillainHeatmap(ctx context.Context) error {
	vs, err := a.loadVillains()
	if err != nil {
		return fmt.Errorf("loading villains: %w", err)
	}
	var places []string
	for _, v := range vs {
		if v.PlaceOfBirth != "" && v.PlaceOfBirth != models.Unknown {
			places = append(places, v.PlaceOfBirth)
		}
	}
	log.Info().Int("villains", len(vs)).Int("places", len(utils.UniqueStrings(places))).Msg("geocoding places of birth")

	located, err := a.geocoder().GeocodeAll(ctx, places)
	if err != nil {
		return err
	}
	var points []orb.Point
	for _, place := range places {
		if p, ok := located[place]; ok {
			points = append(points, orb.Point{p.Lon, p.Lat})
		}
	}
	return heatmap.Render(a.Config.OutputPath("villains_places_of_birth_heatmap.png"),
		"Villains' Places of Birth Heatmap", points, a.world(),
		heatmap.Options{Threshold: 0.01})
}

// RunDecadeHeatmaps draws one origin heatmap per decade from 1970 on.
func (a *App) RunDecadeHeatmaps(ctx context.Context) error {
	movies, err := a.loadOrigins()
	if err != nil {
		return err
	}
	origins := make([]string, len(movies))
	for i, m := range movies {
		origins[i] = villains.StandardizeOrigin(m.Origin)
	}
	points, err := a.geocoder().GeocodeAll(ctx, origins)
	if err != nil {
		return err
	}
	var located []heatmap.Located
	for i, m := range movies {
		if p, ok := points[origins[i]]; ok {
			located = append(located, heatmap.Located{Year: m.Year, Point: orb.Point{p.Lon, p.Lat}})
		}
	}

	windows := villains.Windows(1970, 2020, 10)
	labels := make([]string, len(windows))
	perDecade := make(map[string]int, len(windows))
	for i, w := range windows {
		labels[i] = w.Label()
		perDecade[w.Label()] = len(villains.InWindow(movies, w))
	}
	report.Counts(a.Out, "Villain origins per decade", "Decade", labels, perDecade)

	written, err := heatmap.Decades(a.Config.OutputPath("decades"), located, windows, a.world(),
		heatmap.Options{Threshold: 0.1, Bandwidth: 0.3})
	if err != nil {
		return err
	}
	log.Info().Int("heatmaps", len(written)).Msg("decade heatmaps saved")
	return nil
}

func conflictEvents(region string) []chart.Event {
	var events []chart.Event
	for _, c := range villains.Conflicts[region] {
		events = append(events, chart.Event{Start: float64(c.Start), End: float64(c.End), Label: c.Event})
	}
	return events
}

// RunGeopolitics charts villains per year for each region against the
// periods of conflict with the USA.
func (a *App) RunGeopolitics(ctx context.Context) error {
	movies, err := a.loadOrigins()
	if err != nil {
		return err
	}

	trend := villains.CountsByYearRegion(movies, villains.TrendRegion)
	totals := make(map[string]int, len(trend.Regions))
	for _, r := range trend.Regions {
		for _, y := range trend.Years {
			totals[r] += trend.Count(r, y)
		}
	}
	report.Counts(a.Out, "Villains per region", "Region", trend.Regions, totals)

	counts := villains.CountsByYearRegion(movies, villains.GeopoliticalRegion)
	xs := make([]float64, len(counts.Years))
	for i, y := range counts.Years {
		xs[i] = float64(y)
	}
	all := make([]chart.Series, 0, len(counts.Regions))
	var allEvents []chart.Event
	for _, region := range counts.Regions {
		if err := ctx.Err(); err != nil {
			return err
		}
		s := chart.Series{Name: region, X: xs, Y: counts.Series(region)}
		all = append(all, s)
		allEvents = append(allEvents, conflictEvents(region)...)

		path := a.Config.OutputPath(filepath.Join("geopolitics", "villains_trend_and_impact_"+utils.CreateSlug(region)+".png"))
		err := chart.Timeline(path, []chart.Series{s}, conflictEvents(region), chart.Options{
			Title:  "Trend and Impact of Geopolitical Events on Villain Origins: " + region,
			XLabel: "Year",
			YLabel: "Number of Villains",
		})
		if err != nil {
			return err
		}
	}
	if len(all) == 0 {
		log.Warn().Msg("no villain origin matches a geopolitical region")
		return nil
	}
	return chart.Timeline(a.Config.OutputPath(filepath.Join("geopolitics", "villains_trend_and_impact_all_regions.png")),
		all, uniqueEvents(allEvents), chart.Options{
			Title:  "Trend and Impact of Geopolitical Events on Villain Origins (All Regions)",
			XLabel: "Year",
			YLabel: "Number of Villains",
		})
}

// uniqueEvents drops events shared by several regions, ordered by start.
func uniqueEvents(events []chart.Event) []chart.Event {
	seen := make(map[chart.Event]bool)
	var out []chart.Event
	for _, e := range events {
		if !seen[e] {
			seen[e] = true
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

func (a *App) forestConfig() predict.ForestConfig {
	return predict.ForestConfig{Seed: a.Config.Analysis.Seed}
}

// RunConflictPrediction trains the conflict classifier and reports its
// scores, its ROC curve and the probabilities for a country that never
// fought the USA.
func (a *App) RunConflictPrediction(ctx context.Context) error {
	movies, err := a.loadOrigins()
	if err != nil {
		return err
	}
	samples := villains.ConflictSamples(movies)
	log.Info().Int("samples", len(samples)).Msg("training conflict classifier")

	res, err := predict.TrainConflictClassifier(samples, a.forestConfig())
	if err != nil {
		return err
	}
	report.Classifier(a.Out, "Conflict classifier", res.Report)
	fmt.Fprintf(a.Out, "Probability of a villain being from Sweden in 2025 when not in conflict: %.4f\n", res.SwedenPeace)
	fmt.Fprintf(a.Out, "Probability of a villain being from Sweden in 2025 when in conflict: %.4f\n", res.SwedenConflict)

	if err := export.WriteJSON(a.Config.OutputPath("conflict_classifier.json"), res); err != nil {
		return err
	}
	if res.AUC == nil {
		log.Warn().Msg("test set holds a single class, no ROC curve")
		return ctx.Err()
	}
	if err := chart.ROC(a.Config.OutputPath("conflict_roc_curve.png"), res.FPR, res.TPR, *res.AUC); err != nil {
		return err
	}
	return ctx.Err()
}

// RunTrendPrediction predicts, every five years, the probability that a
// villain comes from a region in conflict with the USA.
func (a *App) RunTrendPrediction(ctx context.Context) error {
	movies, err := a.loadOrigins()
	if err != nil {
		return err
	}
	probs, err := predict.TrendProbabilities(villains.RegionSamples(movies), predict.Years(1977, 2030, 5), a.forestConfig())
	if err != nil {
		return err
	}
	report.Probabilities(a.Out, probs)

	s := chart.Series{Name: "Probability", X: make([]float64, len(probs)), Y: make([]float64, len(probs))}
	for i, p := range probs {
		s.X[i], s.Y[i] = float64(p.Year), p.Probability*100
	}
	err = chart.Lines(a.Config.OutputPath("conflict_probability_trend.png"), []chart.Series{s}, chart.Options{
		Title:  "Probability that a Villain is from a Country in Conflict with the USA",
		XLabel: "Year",
		YLabel: "Probability (%)",
		Width:  10 * vg.Inch,
		Height: 6 * vg.Inch,
	})
	if err != nil && !errors.Is(err, chart.ErrNoData) {
		return err
	}
	if err := export.WriteJSON(a.Config.OutputPath("conflict_probability_trend.json"), probs); err != nil {
		return err
	}
	return ctx.Err()
}
