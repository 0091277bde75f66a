package app

import (
	"context"
	"fmt"

	"MediaMiner/internal/export"
	"MediaMiner/internal/models"
	"MediaMiner/internal/report"
	"MediaMiner/internal/scraper"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
)

const maxDetailAttempts = 3

// RunLinkScraper walks the male and female villain listings and stages
// every profile URL in the database.
func (a *App) RunLinkScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting Villain Link Scraping Task ---")

	s, release, err := a.NewVillainScraper()
	if err != nil {
		return fmt.Errorf("opening villain scraper: %w", err)
	}
	defer release()

	listings := []struct {
		gender string
		pages  int
	}{
		{"male", a.Config.SuperheroDB.MalePages},
		{"female", a.Config.SuperheroDB.FemalePages},
	}
	saved := 0
	for _, l := range listings {
		links, err := s.CollectLinks(ctx, l.gender, l.pages)
		if err != nil {
			return fmt.Errorf("collecting %s villains: %w", l.gender, err)
		}
		log.Info().Str("gender", l.gender).Int("links", len(links)).Msg("collected villain links, saving to database")
		for _, link := range links {
			isNew, err := a.Repo.SaveVillainLink(link, l.gender)
			if err != nil {
				log.Warn().Err(err).Str("url", link).Msg("failed to save villain link")
				continue
			}
			if isNew {
				saved++
			}
		}
	}
	log.Info().Int("new", saved).Msg("Task finished. Villain links saved.")
	return nil
}

type detailResult struct {
	villain models.Villain
	err     error
}

// RunDetailScraper visits every staged villain profile on a pool of
// workers, each with its own scraper. A villain gets three attempts before
// it is marked failed.
func (a *App) RunDetailScraper(ctx context.Context) error {
	log.Info().Msg("--- Starting Villain Detail Scraping Task ---")

	if n, err := a.Repo.RequeueFailedVillains(); err != nil {
		log.Warn().Err(err).Msg("failed to requeue failed villains")
	} else if n > 0 {
		log.Info().Int64("villains", n).Msg("requeued villains that failed in a previous run")
	}

	pending, err := a.Repo.GetVillainsForDetailScrape()
	if err != nil {
		return fmt.Errorf("getting villains for detail scraping: %w", err)
	}
	if len(pending) == 0 {
		log.Info().Msg("No villains are awaiting detail scraping. Task finished.")
		return nil
	}
	log.Info().Int("villains", len(pending)).Msg("found villains to scrape for details")

	numWorkers := utils.GetOptimalWorkerCount(a.Config.Scraper.Workers)
	if numWorkers > len(pending) {
		numWorkers = len(pending)
	}
	jobs := make(chan models.Villain, len(pending))
	results := make(chan detailResult, len(pending))

	for w := 1; w <= numWorkers; w++ {
		go a.detailWorker(ctx, w, jobs, results)
	}
	for _, v := range pending {
		jobs <- v
	}
	close(jobs)

	for i := 0; i < len(pending); i++ {
		res := <-results
		v := res.villain
		if res.err != nil {
			log.Warn().Err(res.err).Str("url", v.URL).Msg("giving up on villain")
			if err := a.Repo.UpdateVillainStatus(v.ID, models.StatusFailed); err != nil {
				log.Warn().Err(err).Int64("id", v.ID).Msg("DB status update failed")
			}
			continue
		}
		if err := a.Repo.UpdateVillainDetails(v); err != nil {
			log.Warn().Err(err).Str("url", v.URL).Msg("DB update failed")
		}
	}

	counts, err := a.Repo.CountVillainsByStatus()
	if err != nil {
		return fmt.Errorf("counting villains: %w", err)
	}
	report.Counts(a.Out, "Villains by status", "Status",
		[]string{models.StatusCompleted, models.StatusFailed, models.StatusNeedsDetails}, counts)
	log.Info().Msg("--- Villain Detail Scraping Task Finished ---")
	return ctx.Err()
}

// detailWorker sends one result per job, even when its scraper could not
// be opened, so the collecting loop never blocks.
func (a *App) detailWorker(ctx context.Context, id int, jobs <-chan models.Villain, results chan<- detailResult) {
	s, release, err := a.NewVillainScraper()
	if err != nil {
		log.Error().Err(err).Int("worker", id).Msg("failed to open scraper")
		for v := range jobs {
			results <- detailResult{villain: v, err: err}
		}
		return
	}
	defer release()

	for v := range jobs {
		err := a.scrapeWithRetry(ctx, id, s, &v)
		results <- detailResult{villain: v, err: err}
	}
}

func (a *App) scrapeWithRetry(ctx context.Context, worker int, s scraper.VillainScraper, v *models.Villain) error {
	var err error
	for attempt := 1; attempt <= maxDetailAttempts; attempt++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		log.Debug().Int("worker", worker).Int("attempt", attempt).Str("url", v.URL).Msg("scraping villain details")
		if err = s.ScrapeDetails(ctx, v); err == nil {
			return nil
		}
		log.Warn().Err(err).Int("worker", worker).Int("attempt", attempt).Str("url", v.URL).Msg("attempt failed")
		if attempt < maxDetailAttempts {
			if perr := scraper.Pause(ctx, a.RetryPause); perr != nil {
				return perr
			}
		}
	}
	return err
}

// ExportVillains writes every completed villain to villains_data.json.
func (a *App) ExportVillains(ctx context.Context) error {
	log.Info().Msg("--- Starting Villain Export Task ---")
	villains, err := a.Repo.GetCompletedVillains()
	if err != nil {
		return fmt.Errorf("getting completed villains: %w", err)
	}
	if villains == nil {
		villains = []models.Villain{}
	}
	path := a.Config.OutputPath("villains_data.json")
	if err := export.WriteJSON(path, villains); err != nil {
		return err
	}
	log.Info().Int("villains", len(villains)).Str("path", path).Msg("villain data saved")
	return nil
}
