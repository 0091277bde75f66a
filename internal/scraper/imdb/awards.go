package imdb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
)

// ParseAwards reads every award item of an awards page.
func ParseAwards(doc *goquery.Document, director string) []models.Award {
	var awards []models.Award
	doc.Find("li.ipc-metadata-list-summary-item").Each(func(_ int, item *goquery.Selection) {
		info := item.Find("a.ipc-metadata-list-summary-item__t").First()
		if info.Length() == 0 {
			return
		}
		// "2005 Winner Oscar" -> year "2005", type "Winner Oscar"
		yearAndType := strings.TrimSpace(info.Text())
		parts := strings.SplitN(yearAndType, " ", 2)
		award := models.Award{
			Director: director,
			Year:     parts[0],
			Category: strings.TrimSpace(item.Find("span.awardCategoryName").First().Text()),
			Title:    strings.TrimSpace(item.Find("a.ipc-metadata-list-summary-item__li--link").First().Text()),
		}
		if len(parts) > 1 {
			award.AwardType = strings.TrimSpace(parts[1])
		}
		awards = append(awards, award)
	})
	return awards
}

// ScrapeDirectorAwards fetches one director's awards page. A forbidden page
// is logged and produces an empty list.
func (s *Scraper) ScrapeDirectorAwards(ctx context.Context, director, url string) ([]models.Award, error) {
	log.Info().Str("director", director).Str("url", url).Msg("fetching awards")
	doc, err := s.Fetcher.Document(ctx, url)
	if errors.Is(err, fetch.ErrPermanent) {
		log.Warn().Str("director", director).Msg("access forbidden, please check your headers or proxy settings")
		return []models.Award{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetching awards for %s: %w", director, err)
	}
	awards := ParseAwards(doc, director)
	if len(awards) == 0 {
		log.Info().Str("director", director).Msg("no awards found")
	}
	return awards, nil
}

// ScrapeAllAwards scrapes every configured director in name order. Directors
// whose page fails are logged and skipped.
func (s *Scraper) ScrapeAllAwards(ctx context.Context) ([]models.Award, error) {
	names := make([]string, 0, len(s.Conf.Directors))
	for name := range s.Conf.Directors {
		names = append(names, name)
	}
	sort.Strings(names)

	var all []models.Award
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		awards, err := s.ScrapeDirectorAwards(ctx, name, s.Conf.Directors[name])
		if err != nil {
			log.Warn().Err(err).Str("director", name).Msg("skipping director")
			continue
		}
		all = append(all, awards...)
	}
	return all, nil
}

// CountAwards groups awards by (director, year), sorted by director then year.
func CountAwards(awards []models.Award) []models.AwardCount {
	type key struct{ director, year string }
	counts := make(map[key]int)
	for _, a := range awards {
		counts[key{a.Director, a.Year}]++
	}

	out := make([]models.AwardCount, 0, len(counts))
	for k, n := range counts {
		out = append(out, models.AwardCount{Director: k.director, Year: k.year, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Director != out[j].Director {
			return out[i].Director < out[j].Director
		}
		return out[i].Year < out[j].Year
	})
	return out
}
