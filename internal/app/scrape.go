package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"MediaMiner/internal/export"
	"MediaMiner/internal/models"
	"MediaMiner/internal/scraper"
	"MediaMiner/internal/scraper/boxoffice"
	"MediaMiner/internal/scraper/imdb"
	"MediaMiner/internal/scraper/wiki"

	"github.com/rs/zerolog/log"
)

// Output file names shared between the scraping and the analysis tasks.
const (
	tvShowsFile     = "tv_shows.json"
	awardsFile      = "director_awards.json"
	awardCountsFile = "director_awards_list.csv"
	topChartFile    = "imdb_movies_and_directors.json"
)

func (a *App) boxOfficePath() string {
	return a.Config.OutputPath(boxoffice.FileName(a.Config.BoxOffice.FirstYear, a.Config.BoxOffice.LastYear))
}

// originsPath is the box office CSV annotated with villains and their
// places of origin.
func (a *App) originsPath() string {
	name := strings.TrimSuffix(boxoffice.FileName(a.Config.BoxOffice.FirstYear, a.Config.BoxOffice.LastYear), ".csv")
	return a.Config.OutputPath(name + "_with_villains_origins.csv")
}

// RunTVShowScraper scrapes the most voted TV series and their characters.
func (a *App) RunTVShowScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting TV Show Scraping Task ---")
	shows, err := imdb.New(a.Fetcher, a.Config.IMDB).ScrapeTVShows(ctx)
	if err != nil {
		return fmt.Errorf("scraping TV shows: %w", err)
	}
	path := a.Config.OutputPath(tvShowsFile)
	if err := export.WriteJSON(path, shows); err != nil {
		return err
	}
	log.Info().Int("shows", len(shows)).Str("path", path).Msg("TV show data saved")
	return nil
}

// RunAwardsScraper scrapes the awards of the configured directors and
// counts them per year.
func (a *App) RunAwardsScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting Director Awards Scraping Task ---")
	awards, err := imdb.New(a.Fetcher, a.Config.IMDB).ScrapeAllAwards(ctx)
	if err != nil {
		return fmt.Errorf("scraping awards: %w", err)
	}
	if awards == nil {
		awards = []models.Award{}
	}
	if err := export.WriteJSON(a.Config.OutputPath(awardsFile), awards); err != nil {
		return err
	}

	counts := imdb.CountAwards(awards)
	rows := make([][]string, len(counts))
	for i, c := range counts {
		rows[i] = []string{c.Director, c.Year, strconv.Itoa(c.Count)}
	}
	if err := export.WriteCSV(a.Config.OutputPath(awardCountsFile), []string{"Director", "Year", "Film_Count"}, rows); err != nil {
		return err
	}
	log.Info().Int("awards", len(awards)).Int("director_years", len(counts)).Msg("award data saved")
	return nil
}

func (a *App) loadAwardCounts() ([]models.AwardCount, error) {
	rows, err := export.ReadRows(a.Config.OutputPath(awardCountsFile))
	if err != nil {
		return nil, err
	}
	counts := make([]models.AwardCount, 0, len(rows))
	for _, row := range rows {
		n, err := strconv.Atoi(strings.TrimSpace(row["Film_Count"]))
		if err != nil {
			continue
		}
		counts = append(counts, models.AwardCount{Director: row["Director"], Year: row["Year"], Count: n})
	}
	return counts, nil
}

// RunTopChartScraper renders the IMDB top rated chart in a browser.
func (a *App) RunTopChartScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting Top Chart Scraping Task ---")
	browser, cleanup, err := scraper.LaunchBrowser(a.Config.Scraper.Headless)
	if err != nil {
		return err
	}
	defer cleanup()

	movies, err := imdb.NewTopChart(browser, a.Config.IMDB.TopChartURL, a.Config.Scraper.Timeout).Scrape(ctx)
	if err != nil {
		return fmt.Errorf("scraping top chart: %w", err)
	}
	path := a.Config.OutputPath(topChartFile)
	if err := export.WriteJSON(path, movies); err != nil {
		return err
	}
	log.Info().Int("movies", len(movies)).Str("path", path).Msg("top chart saved")
	return nil
}

// RunBoxOfficeScraper collects the yearly top grossing movies into a CSV
// file and the database.
func (a *App) RunBoxOfficeScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting Box Office Scraping Task ---")
	conf := a.Config.BoxOffice
	movies, err := boxoffice.New(a.Config.Scraper, conf).ScrapeYears(ctx, conf.FirstYear, conf.LastYear)
	if err != nil {
		return fmt.Errorf("scraping box office: %w", err)
	}
	if err := boxoffice.WriteCSV(a.boxOfficePath(), movies); err != nil {
		return err
	}
	saved := 0
	for _, m := range movies {
		if err := a.Repo.SaveBoxOfficeMovie(m); err != nil {
			log.Warn().Err(err).Str("title", m.Title).Msg("failed to save movie")
			continue
		}
		saved++
	}
	log.Info().Int("movies", saved).Str("path", a.boxOfficePath()).Msg("box office data saved")
	return nil
}

// loadBoxOffice prefers the database and falls back to the scraped CSV.
func (a *App) loadBoxOffice() ([]models.BoxOfficeMovie, error) {
	conf := a.Config.BoxOffice
	movies, err := a.Repo.GetBoxOfficeMovies(conf.FirstYear, conf.LastYear)
	if err != nil {
		return nil, err
	}
	if len(movies) > 0 {
		return movies, nil
	}
	return boxoffice.LoadCSV(a.boxOfficePath())
}

// RunOriginResolver looks up the origin of every villain of the annotated
// box office CSV that has none and rewrites the file.
func (a *App) RunOriginResolver(ctx context.Context) error {
	log.Info().Msg("--- Starting Villain Origin Task ---")
	path := a.originsPath()
	movies, err := boxoffice.LoadCSV(path)
	if errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s is missing: annotate %s with a Villain column first", path, a.boxOfficePath())
	}
	if err != nil {
		return err
	}

	resolver := wiki.NewResolver(a.Fetcher, a.Config.Wiki.Sources)
	found, err := resolver.ResolveOrigins(ctx, movies)
	// Whatever was resolved before a cancellation is still worth keeping.
	if werr := boxoffice.WriteCSV(path, movies); werr != nil {
		return werr
	}
	if err != nil {
		return err
	}
	log.Info().Int("found", found).Str("path", path).Msg("villain origins saved")
	return nil
}
