package imdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// Cast lists use hashed class names that change between deploys, so the
// character span is located through the stable data-testid and BEM hooks.
const (
	castItemSelector  = `[data-testid="title-cast-item"]`
	characterSelector = `.title-cast-item__characters-list span, [data-testid="cast-item-characters-link"] span`
)

// ParseShowLinks returns up to limit absolute show URLs from a search results page.
func (s *Scraper) ParseShowLinks(doc *goquery.Document, limit int) []string {
	var links []string
	doc.Find("a.ipc-title-link-wrapper").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return true
		}
		links = append(links, s.absolute(href))
		return limit <= 0 || len(links) < limit
	})
	return links
}

// ParseTVShow extracts name, first release year and up to maxChars character
// names from a title page. ok is false when the page has no title.
func ParseTVShow(doc *goquery.Document, maxChars int) (show models.TVShow, ok bool) {
	show.Name = strings.TrimSpace(doc.Find("span.hero__primary-text").First().Text())
	if show.Name == "" {
		return show, false
	}

	if a := doc.Find(`a[href*="releaseinfo"]`).First(); a.Length() > 0 {
		first := strings.SplitN(a.Text(), "–", 2)[0]
		show.ReleaseYear = utils.ParseYear(strings.TrimSpace(first))
	}

	show.Characters = []string{}
	doc.Find(castItemSelector).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		name := strings.TrimSpace(item.Find(characterSelector).First().Text())
		if name != "" {
			show.Characters = append(show.Characters, name)
		}
		return maxChars <= 0 || len(show.Characters) < maxChars
	})
	return show, true
}

// ScrapeTVShowLinks fetches the search page and returns the configured number of show URLs.
func (s *Scraper) ScrapeTVShowLinks(ctx context.Context) ([]string, error) {
	log.Info().Str("url", s.Conf.TVSearchURL).Msg("fetching the main page")
	doc, err := s.Fetcher.Document(ctx, s.Conf.TVSearchURL)
	if err != nil {
		return nil, fmt.Errorf("fetching tv show search: %w", err)
	}
	links := s.ParseShowLinks(doc, s.Conf.NumShows)
	log.Info().Int("count", len(links)).Msg("found TV show links")
	return links, nil
}

// ScrapeTVShow fetches and parses one title page.
func (s *Scraper) ScrapeTVShow(ctx context.Context, url string) (models.TVShow, error) {
	doc, err := s.Fetcher.Document(ctx, url)
	if err != nil {
		return models.TVShow{}, err
	}
	show, ok := ParseTVShow(doc, s.Conf.NumCharacters)
	if !ok {
		return show, fmt.Errorf("no title found on %s", url)
	}
	show.URL = url
	return show, nil
}

// ScrapeTVShows runs the whole pipeline. A show that cannot be fetched or
// parsed is logged and skipped; a forbidden search page yields no shows.
func (s *Scraper) ScrapeTVShows(ctx context.Context) ([]models.TVShow, error) {
	links, err := s.ScrapeTVShowLinks(ctx)
	if errors.Is(err, fetch.ErrPermanent) {
		log.Warn().Err(err).Msg("access forbidden, please check your headers or proxy settings")
		return []models.TVShow{}, nil
	}
	if err != nil {
		return nil, err
	}

	shows := make([]models.TVShow, 0, len(links))
	for idx, link := range links {
		if err := ctx.Err(); err != nil {
			return shows, err
		}
		show, err := s.ScrapeTVShow(ctx, link)
		if err != nil {
			log.Warn().Err(err).Int("index", idx+1).Msg("failed to retrieve the info for TV show")
			continue
		}
		log.Info().
			Int("index", idx+1).
			Int("total", len(links)).
			Str("show", show.Name).
			Int("release_year", show.ReleaseYear).
			Int("characters", len(show.Characters)).
			Msg("processing TV show")
		shows = append(shows, show)
	}
	return shows, nil
}
