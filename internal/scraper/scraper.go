package scraper

import (
	"context"

	"MediaMiner/internal/models"
)

// VillainScraper defines the two-phase behaviour of a villain site scraper.
// Links are collected from listing pages first, then every profile is
// visited to fill in the details.
type VillainScraper interface {
	// CollectLinks walks the listing pages for one gender and returns profile URLs.
	CollectLinks(ctx context.Context, gender string, pages int) ([]string, error)

	// ScrapeDetails takes a villain with a URL and fills in the profile fields.
	ScrapeDetails(ctx context.Context, villain *models.Villain) error
}
