// Package app wires the scrapers, the analysis packages and the output
// writers into the tasks run by the miner command.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"MediaMiner/internal/database"
	"MediaMiner/internal/fetch"
	"MediaMiner/internal/scraper"
	"MediaMiner/internal/scraper/superherodb"
	"MediaMiner/pkg/config"

	"github.com/rs/zerolog/log"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config  *config.Config
	Repo    *database.DBRepository
	Fetcher *fetch.Fetcher

	// Out receives the terminal reports.
	Out io.Writer

	// NewVillainScraper opens a villain scraper for one worker. The returned
	// func releases it.
	NewVillainScraper func() (scraper.VillainScraper, func(), error)

	// RetryPause is the wait between two attempts at a villain profile.
	RetryPause time.Duration
}

// New opens the database and builds the shared fetcher from cfg.
func New(cfg *config.Config) (*App, error) {
	dbPath := cfg.Paths.Database
	if !filepath.IsAbs(dbPath) {
		dbPath = cfg.DataPath(dbPath)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := database.InitDB(dbPath)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:     cfg,
		Repo:       repo,
		Fetcher:    NewFetcher(cfg),
		Out:        os.Stdout,
		RetryPause: time.Second,
	}
	a.NewVillainScraper = a.launchVillainScraper
	return a, nil
}

// NewFetcher builds the HTTP fetcher used by the IMDB and wiki scrapers.
func NewFetcher(cfg *config.Config) *fetch.Fetcher {
	return fetch.New(
		fetch.UserAgent(cfg.Scraper.UserAgent),
		fetch.AcceptLanguage(cfg.Scraper.AcceptLanguage),
		fetch.Timeout(cfg.Scraper.Timeout),
		fetch.Delay(cfg.Scraper.Delay),
		fetch.Retries(cfg.Retry.MaxRetries, cfg.Retry.BaseDelay, cfg.Retry.MaxDelay, cfg.Retry.Jitter),
	)
}

// Close releases the database.
func (a *App) Close() error {
	if a.Repo == nil {
		return nil
	}
	return a.Repo.Close()
}

func (a *App) launchVillainScraper() (scraper.VillainScraper, func(), error) {
	browser, cleanup, err := scraper.LaunchBrowser(a.Config.Scraper.Headless)
	if err != nil {
		return nil, nil, err
	}
	return superherodb.New(browser, a.Config.Scraper, a.Config.SuperheroDB), cleanup, nil
}

// RunVillainWorkflow runs the villain pipeline end to end: listing pages,
// profile details, then the JSON export.
func (a *App) RunVillainWorkflow(ctx context.Context) error {
	log.Info().Msg("====== STARTING VILLAIN WORKFLOW ======")

	steps := []struct {
		name string
		run  func(context.Context) error
	}{
		{"Scraping villain links", a.RunLinkScraper},
		{"Scraping villain details", a.RunDetailScraper},
		{"Exporting villains", a.ExportVillains},
	}
	for i, step := range steps {
		log.Info().Msgf("--- STEP %d: %s ---", i+1, step.name)
		if err := step.run(ctx); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
		if i < len(steps)-1 {
			if err := scraper.Pause(ctx, 2*time.Second); err != nil {
				return err
			}
		}
	}

	log.Info().Msg("====== VILLAIN WORKFLOW FINISHED ======")
	return nil
}
