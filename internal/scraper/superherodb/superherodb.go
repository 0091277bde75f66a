// Package superherodb scrapes villain profiles from superherodb.com in two
// phases: listing pages are walked for profile links, then each profile is
// rendered for its details.
package superherodb

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MediaMiner/internal/models"
	"MediaMiner/internal/scraper"
	"MediaMiner/pkg/config"
	"MediaMiner/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/rs/zerolog/log"
)

// ErrNoName is returned for profile pages without a character name.
var ErrNoName = errors.New("name not found")

const (
	listSelector    = "div.column.col-12 ul.list-md li a"
	profileSelector = "div.columns.profile-titles"
)

// Scraper holds the browser and settings for superherodb.
type Scraper struct {
	Browser *rod.Browser
	Conf    config.SuperheroDBConfig
	Timeout time.Duration
	Delay   time.Duration
}

var _ scraper.VillainScraper = (*Scraper)(nil)

// New creates a superherodb scraper bound to browser.
func New(browser *rod.Browser, scraperConf config.ScraperConfig, conf config.SuperheroDBConfig) *Scraper {
	return &Scraper{
		Browser: browser,
		Conf:    conf,
		Timeout: scraperConf.Timeout,
		Delay:   scraperConf.Delay,
	}
}

// ListURL builds the villain listing URL for a gender and page number.
func (s *Scraper) ListURL(gender string, page int) string {
	return fmt.Sprintf("%s/characters/%s/villains/?set_gender=%s&set_side=bad&page_nr=%d",
		strings.TrimRight(s.Conf.BaseURL, "/"), gender, gender, page)
}

// CollectLinks walks listing pages 1..pages. A page that fails to render is
// logged and skipped.
func (s *Scraper) CollectLinks(ctx context.Context, gender string, pages int) ([]string, error) {
	var links []string
	for page := 1; page <= pages; page++ {
		if err := scraper.Pause(ctx, s.Delay); err != nil {
			return links, err
		}
		url := s.ListURL(gender, page)
		doc, err := scraper.Render(ctx, s.Browser, url, listSelector, s.Timeout)
		if err != nil {
			if ctx.Err() != nil {
				return links, ctx.Err()
			}
			log.Warn().Err(err).Str("gender", gender).Int("page", page).Msg("skipping listing page")
			continue
		}
		found := ParseVillainLinks(doc, s.Conf.BaseURL)
		log.Info().Str("gender", gender).Int("page", page).Int("links", len(found)).Msg("collected villain links")
		links = append(links, found...)
	}
	return utils.UniqueStrings(links), nil
}

// ScrapeDetails renders the villain's profile and fills in its fields.
func (s *Scraper) ScrapeDetails(ctx context.Context, villain *models.Villain) error {
	if err := scraper.Pause(ctx, s.Delay); err != nil {
		return err
	}
	doc, err := scraper.Render(ctx, s.Browser, villain.URL, profileSelector, s.Timeout)
	if err != nil {
		return err
	}
	profile, err := ParseProfile(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", villain.URL, err)
	}
	villain.Name = profile.Name
	villain.Universe = profile.Universe
	villain.PlaceOfBirth = profile.PlaceOfBirth
	villain.Species = profile.Species
	villain.ScrapedAt = time.Now()
	return nil
}

// ParseVillainLinks returns the absolute profile URLs of a listing page.
func ParseVillainLinks(doc *goquery.Document, baseURL string) []string {
	base := strings.TrimRight(baseURL, "/")
	var links []string
	doc.Find(listSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = base + "/" + strings.TrimLeft(href, "/")
		}
		links = append(links, href)
	})
	return links
}

// ParseProfile extracts the profile fields. Fields missing from the page
// are set to "Unknown"; a missing name is an error.
func ParseProfile(doc *goquery.Document) (models.Villain, error) {
	v := models.Villain{
		PlaceOfBirth: models.Unknown,
		Universe:     models.Unknown,
		Species:      models.Unknown,
	}
	titles := doc.Find(profileSelector).First()
	v.Name = strings.TrimSpace(titles.Find("h1").First().Text())
	if v.Name == "" {
		return v, ErrNoName
	}
	if universe := strings.TrimSpace(titles.Find("h3").First().Text()); universe != "" {
		v.Universe = universe
	}

	doc.Find("table.profile-table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}
		value := cells.Eq(1)
		switch strings.TrimSpace(cells.First().Text()) {
		case "Place of birth":
			if place := strings.TrimSpace(value.Text()); place != "" {
				v.PlaceOfBirth = place
			}
		case "Species // Type":
			var parts []string
			value.Find("a").Each(func(_ int, a *goquery.Selection) {
				parts = append(parts, a.Text())
			})
			if len(parts) > 0 {
				v.Species = strings.Join(parts, " // ")
			}
		}
	})
	return v, nil
}
