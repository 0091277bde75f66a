package app

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"os"
	"sort"
	"strconv"
	"strings"

	"MediaMiner/internal/chart"
	"MediaMiner/internal/cluster"
	"MediaMiner/internal/collab"
	"MediaMiner/internal/export"
	"MediaMiner/internal/models"
	"MediaMiner/internal/report"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot/vg"
)

const (
	moviesFile      = "imdb-movies-dataset.csv"
	frequentFile    = "frequent_director_actor_collaborations.csv"
	nonFrequentFile = "non_frequent_director_actor_collaborations.csv"

	intervalWidth = 5
)

// rankedLists maps an output prefix to the ranking it is read from.
var rankedLists = []struct {
	prefix string
	file   string
}{
	{"female", "IMDB_top_100_female_actresses.txt"},
	{"male", "IMDB_top_100_male_actors.txt"},
}

func (a *App) loadMovies() ([]models.Movie, error) {
	return collab.LoadMovies(a.Config.DataPath(moviesFile))
}

// directors returns the studied directors in name order.
func (a *App) directors() []string {
	names := make([]string, 0, len(a.Config.IMDB.Directors))
	for name := range a.Config.IMDB.Directors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// directorFile names a per-director output after the slug of director.
func directorFile(director, suffix string) string {
	slug := utils.CreateSlug(director)
	if slug == "" {
		slug = "director"
	}
	return slug + "_" + suffix
}

// RunCollaborations splits director/actor pairs into frequent and
// non-frequent collaborations and cross-references them with the ranked
// actor lists.
func (a *App) RunCollaborations(ctx context.Context) error {
	movies, err := a.loadMovies()
	if err != nil {
		return err
	}
	threshold := a.Config.Analysis.FrequentThreshold
	frequent, nonFrequent := collab.SplitFrequent(collab.Collaborations(collab.Explode(movies)), threshold)
	if err := collab.WriteCollaborations(a.Config.OutputPath(frequentFile), frequent); err != nil {
		return err
	}
	if err := collab.WriteCollaborations(a.Config.OutputPath(nonFrequentFile), nonFrequent); err != nil {
		return err
	}
	log.Info().Int("frequent", len(frequent)).Int("non_frequent", len(nonFrequent)).Msg("collaborations saved")

	for _, list := range rankedLists {
		if err := ctx.Err(); err != nil {
			return err
		}
		data, err := os.ReadFile(a.Config.DataPath(list.file))
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("file", list.file).Msg("ranked list not found, skipping")
			continue
		}
		if err != nil {
			return err
		}
		if err := a.crossReference(list.prefix, string(data), frequent, nonFrequent); err != nil {
			return err
		}
	}
	return nil
}

func (a *App) crossReference(prefix, text string, frequent, nonFrequent []models.Collaboration) error {
	actors := collab.CrossReference(collab.ParseRankedList(text), frequent, nonFrequent)

	var same, different [][]string
	for _, c := range actors {
		row := []string{c.Name, strconv.Itoa(c.Rank)}
		if c.Category == collab.Red {
			same = append(same, row)
		} else {
			different = append(different, row)
		}
	}
	header := []string{"Actor", "Rank"}
	if err := export.WriteCSV(a.Config.OutputPath(prefix+"_actors_same_director_common.csv"), header, same); err != nil {
		return err
	}
	if err := export.WriteCSV(a.Config.OutputPath(prefix+"_actors_different_directors_common.csv"), header, different); err != nil {
		return err
	}

	// Best ranked on the right.
	entries := make([]chart.Ranked, 0, len(actors))
	for i := len(actors) - 1; i >= 0; i-- {
		group := 0
		if actors[i].Category == collab.Blue {
			group = 1
		}
		entries = append(entries, chart.Ranked{Name: actors[i].Name, Rank: actors[i].Rank, Group: group})
	}
	if len(entries) == 0 {
		log.Info().Str("list", prefix).Msg("no ranked actor found in the collaborations")
		return nil
	}
	threshold := a.Config.Analysis.FrequentThreshold
	return chart.Rankings(a.Config.OutputPath(prefix+"_actor_rankings_plot.png"), entries,
		[]color.Color{chart.Red, chart.Blue},
		[]string{fmt.Sprintf("Same director %d+ times", threshold), fmt.Sprintf("Fewer than %d times", threshold)},
		chart.Options{
			Title:  strings.ToUpper(prefix[:1]) + prefix[1:] + " Actor Rankings Based on IMDB List",
			XLabel: "Actors",
			YLabel: "Rankings (1-100)",
			Width:  10 * vg.Inch,
			Height: 8 * vg.Inch,
		})
}

func binSeries(name string, bins []collab.Bin) chart.Series {
	s := chart.Series{Name: name, X: make([]float64, len(bins)), Y: make([]float64, len(bins))}
	for i, b := range bins {
		s.X[i], s.Y[i] = float64(b.Start), float64(b.Count)
	}
	return s
}

// RunDirectorFilms charts, for each studied director, how many films they
// made with their three most frequent actors per five-year interval.
func (a *App) RunDirectorFilms(ctx context.Context) error {
	movies, err := a.loadMovies()
	if err != nil {
		return err
	}
	credits := collab.Explode(movies)
	for _, director := range a.directors() {
		if err := ctx.Err(); err != nil {
			return err
		}
		top := collab.TopActors(credits, director, 3)
		if len(top) == 0 {
			log.Info().Str("director", director).Msg("director not in the dataset, skipping")
			continue
		}
		report.TopActors(a.Out, director, top)

		series := make([]chart.Series, 0, len(top))
		for _, actor := range top {
			series = append(series, binSeries(actor.Actor, collab.ActorIntervals(credits, director, actor.Actor, intervalWidth)))
		}
		err := chart.Lines(a.Config.OutputPath(directorFile(director, "film_counts.png")), series, chart.Options{
			Title:  "Film Counts for Top 3 Actors with " + director,
			XLabel: "5-Year Intervals",
			YLabel: "Number of Films",
			Width:  10 * vg.Inch,
			Height: 6 * vg.Inch,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// RunDirectorAwards charts the scraped award counts per five-year interval.
func (a *App) RunDirectorAwards(ctx context.Context) error {
	counts, err := a.loadAwardCounts()
	if err != nil {
		return fmt.Errorf("loading award counts: %w", err)
	}
	for _, director := range a.directors() {
		if err := ctx.Err(); err != nil {
			return err
		}
		bins := collab.AwardsByInterval(counts, director, intervalWidth)
		if len(bins) == 0 {
			log.Info().Str("director", director).Msg("no awards, skipping")
			continue
		}
		err := chart.Lines(a.Config.OutputPath(directorFile(director, "awards_over_time.png")), []chart.Series{binSeries(director, bins)}, chart.Options{
			Title:  "Number of Awards Over Time for " + director,
			XLabel: "5-Year Intervals",
			YLabel: "Number of Awards",
			Width:  10 * vg.Inch,
			Height: 6 * vg.Inch,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// collaborations reads the saved split, computing it when the collaborations
// task has not run yet.
func (a *App) collaborations() (frequent, nonFrequent []models.Collaboration, err error) {
	frequent, ferr := collab.LoadCollaborations(a.Config.OutputPath(frequentFile))
	nonFrequent, nerr := collab.LoadCollaborations(a.Config.OutputPath(nonFrequentFile))
	if ferr == nil && nerr == nil {
		return frequent, nonFrequent, nil
	}
	log.Info().Msg("saved collaborations not found, computing them from the movie dataset")
	movies, err := a.loadMovies()
	if err != nil {
		return nil, nil, err
	}
	frequent, nonFrequent = collab.SplitFrequent(collab.Collaborations(collab.Explode(movies)), a.Config.Analysis.FrequentThreshold)
	return frequent, nonFrequent, nil
}

// RunDirectorSuccess compares the box office of movies made with frequent
// and with occasional collaborators.
func (a *App) RunDirectorSuccess(ctx context.Context) error {
	frequent, nonFrequent, err := a.collaborations()
	if err != nil {
		return err
	}
	boxOffice, err := a.loadBoxOffice()
	if err != nil {
		return fmt.Errorf("loading box office: %w", err)
	}

	opts := collab.DefaultSuccessOptions()
	opts.TopN = a.Config.Analysis.TopDirectors
	res := collab.DirectorSuccess(frequent, nonFrequent, boxOffice, opts)
	if len(res.Directors) == 0 {
		log.Warn().Msg("no director has enough box office hits to compare")
		return nil
	}
	if err := export.WriteJSON(a.Config.OutputPath("director_success.json"), res); err != nil {
		return err
	}

	names := make([]string, len(res.Directors))
	freq := chart.Bars{Name: "Frequent collaborators"}
	non := chart.Bars{Name: "Other actors"}
	for i, d := range res.Directors {
		names[i] = d.Director
		freq.Values = append(freq.Values, d.Frequent)
		non.Values = append(non.Values, d.NonFrequent)
	}
	err = chart.BarChart(a.Config.OutputPath("director_success.png"), names, []chart.Bars{freq, non}, false, chart.Options{
		Title:  "Average box office gross by collaboration frequency",
		XLabel: "Director",
		YLabel: "Average gross (millions)",
	})
	if err != nil {
		return err
	}
	report.DirectorSuccess(a.Out, res)
	return ctx.Err()
}

// RunDirectorStars draws the lead star counts of the most prolific
// directors as stacked bars.
func (a *App) RunDirectorStars(ctx context.Context) error {
	movies, err := a.loadMovies()
	if err != nil {
		return err
	}
	counts := collab.DirectorStarCounts(movies, a.Config.Analysis.TopDirectors)
	bars := make([]chart.Bars, len(counts.Stars))
	for j, star := range counts.Stars {
		bars[j] = chart.Bars{Name: star, Values: make([]float64, len(counts.Directors))}
		for i := range counts.Directors {
			bars[j].Values[i] = float64(counts.Counts[i][j])
		}
	}
	err = chart.BarChart(a.Config.OutputPath("director_star_count.png"), counts.Directors, bars, true, chart.Options{
		Title:  fmt.Sprintf("Number of Movies Directed by Top %d Directors with Specific Stars", len(counts.Directors)),
		XLabel: "Directors",
		YLabel: "Number of Movies",
		Width:  20 * vg.Inch,
		Height: 12 * vg.Inch,
	})
	if errors.Is(err, chart.ErrNoData) {
		log.Warn().Msg("no director with a cast in the dataset")
		return nil
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}

// RunCluster groups prolific directors and their casts into communities.
func (a *App) RunCluster(ctx context.Context) error {
	movies, err := a.loadMovies()
	if err != nil {
		return err
	}
	conf := a.Config.Analysis
	g := cluster.Build(movies, conf.MinDirectorFilms)
	n, q := g.Detect(conf.Resolution, conf.Seed)
	if n == 0 {
		log.Warn().Int("min_films", conf.MinDirectorFilms).Msg("no director has enough films to cluster")
		return nil
	}
	if err := g.WriteDOT(a.Config.OutputPath("directors_actors_clustering.dot")); err != nil {
		return err
	}
	if err := g.WriteCSV(a.Config.OutputPath("directors_actors_clustering.csv")); err != nil {
		return err
	}

	sizes := make(map[string]int)
	for _, node := range g.Members() {
		sizes[strconv.Itoa(node.Cluster)]++
	}
	keys := make([]string, n)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	report.Counts(a.Out, fmt.Sprintf("Clusters (modularity %.3f)", q), "Cluster", keys, sizes)

	top := g.TopDirectors(conf.TopDirectors)
	names := make([]string, len(top))
	degrees := make(map[string]int, len(top))
	for i, d := range top {
		names[i] = d.Name
		degrees[d.Name] = g.Degree(d)
	}
	report.Counts(a.Out, "Most connected directors", "Director", names, degrees)

	var studied []string
	clusters := make(map[string]int)
	for _, director := range a.directors() {
		if node, ok := g.Lookup(director); ok && node.Kind == cluster.Director {
			studied = append(studied, director)
			clusters[director] = node.Cluster
		}
	}
	if len(studied) > 0 {
		report.Clusters(a.Out, "Clusters of the studied directors", studied, clusters)
	}
	return ctx.Err()
}
