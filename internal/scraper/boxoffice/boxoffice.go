// Package boxoffice collects the yearly domestic box office rankings.
package boxoffice

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"MediaMiner/internal/export"
	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/pkg/config"
	"MediaMiner/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"github.com/rs/zerolog/log"
)

// Scraper visits one ranking page per year with a colly collector.
type Scraper struct {
	Conf           config.BoxOfficeConfig
	acceptLanguage string
	collector      *colly.Collector
}

// New creates a box office scraper. The delay between years is the
// collector's limit rule.
func New(scraperConf config.ScraperConfig, conf config.BoxOfficeConfig) *Scraper {
	c := colly.NewCollector(
		colly.UserAgent(scraperConf.UserAgent),
		colly.AllowURLRevisit(),
	)
	if scraperConf.Timeout > 0 {
		c.SetRequestTimeout(scraperConf.Timeout)
	}
	if scraperConf.Delay > 0 {
		if err := c.Limit(&colly.LimitRule{DomainGlob: "*", Delay: scraperConf.Delay}); err != nil {
			log.Warn().Err(err).Msg("could not set box office rate limit")
		}
	}
	return &Scraper{Conf: conf, acceptLanguage: scraperConf.AcceptLanguage, collector: c}
}

// YearURL is the ranking page of a year.
func (s *Scraper) YearURL(year int) string {
	return fmt.Sprintf("%s/year/%d/?grossesOption=totalGrosses", strings.TrimRight(s.Conf.BaseURL, "/"), year)
}

// TopMovies returns the first TopN rows of a year's ranking.
func (s *Scraper) TopMovies(year int) ([]models.BoxOfficeMovie, error) {
	var (
		movies []models.BoxOfficeMovie
		found  bool
	)
	// Clone shares the HTTP backend and limits but not the callbacks.
	c := s.collector.Clone()
	c.OnRequest(func(r *colly.Request) {
		if s.acceptLanguage != "" {
			r.Headers.Set("Accept-Language", s.acceptLanguage)
		}
		log.Debug().Str("url", r.URL.String()).Msg("fetching")
	})
	c.OnHTML("body", func(e *colly.HTMLElement) {
		table := e.DOM.Find("table").First()
		if table.Length() == 0 {
			return
		}
		found = true
		movies = ParseTable(table, year, s.Conf.TopN)
	})

	url := s.YearURL(year)
	var statusCode int
	c.OnError(func(r *colly.Response, err error) {
		statusCode = r.StatusCode
	})
	if err := c.Visit(url); err != nil {
		return nil, &fetch.Error{URL: url, Status: fetch.Classify(statusCode, visitErr(statusCode, err)), StatusCode: statusCode, Attempts: 1, Err: err}
	}
	if !found {
		return nil, fmt.Errorf("no table found on %s", url)
	}
	return movies, nil
}

// visitErr drops colly's error for HTTP failures so the status code alone
// decides the classification.
func visitErr(statusCode int, err error) error {
	if statusCode != 0 {
		return nil
	}
	return err
}

// ScrapeYears collects every year between first and last. Years that fail are
// logged and skipped.
func (s *Scraper) ScrapeYears(ctx context.Context, first, last int) ([]models.BoxOfficeMovie, error) {
	var all []models.BoxOfficeMovie
	for year := first; year <= last; year++ {
		if err := ctx.Err(); err != nil {
			return all, err
		}
		movies, err := s.TopMovies(year)
		if err != nil {
			log.Warn().Err(err).Int("year", year).Msg("failed to scrape data")
			continue
		}
		log.Info().Int("year", year).Int("movies", len(movies)).Msg("successfully scraped data")
		all = append(all, movies...)
	}
	return all, nil
}

// ParseTable reads rows 1..topN of a ranking table: rank in column 0,
// title in column 1 and total gross in column 5.
func ParseTable(table *goquery.Selection, year, topN int) []models.BoxOfficeMovie {
	var movies []models.BoxOfficeMovie
	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 || (topN > 0 && i > topN) {
			return
		}
		cols := row.Find("td")
		if cols.Length() < 6 {
			return
		}
		rank, err := strconv.Atoi(strings.TrimSpace(cols.Eq(0).Text()))
		if err != nil {
			rank = i
		}
		movies = append(movies, models.BoxOfficeMovie{
			Year:  year,
			Rank:  rank,
			Title: strings.TrimSpace(cols.Eq(1).Text()),
			Gross: utils.ParseGross(cols.Eq(5).Text()),
		})
	})
	return movies
}

// FileName is the CSV name used for a year range.
func FileName(first, last int) string {
	return fmt.Sprintf("top_10_box_office_movies_%d_%d.csv", first, last)
}

// WriteCSV writes movies with Year,Rank,Title,Gross columns, plus Villain and
// Origin when any movie has them.
func WriteCSV(path string, movies []models.BoxOfficeMovie) error {
	withVillains := false
	for _, m := range movies {
		if m.Villain != "" || m.Origin != "" {
			withVillains = true
			break
		}
	}
	header := []string{"Year", "Rank", "Title", "Gross"}
	if withVillains {
		header = append(header, "Villain", "Origin")
	}
	rows := make([][]string, 0, len(movies))
	for _, m := range movies {
		row := []string{
			strconv.Itoa(m.Year),
			strconv.Itoa(m.Rank),
			m.Title,
			strconv.FormatFloat(m.Gross, 'f', 0, 64),
		}
		if withVillains {
			row = append(row, m.Villain, m.Origin)
		}
		rows = append(rows, row)
	}
	return export.WriteCSV(path, header, rows)
}

// LoadCSV reads a file written by WriteCSV or annotated by hand with
// Villain and Origin columns. Gross may carry a currency sign.
func LoadCSV(path string) ([]models.BoxOfficeMovie, error) {
	rows, err := export.ReadRows(path)
	if err != nil {
		return nil, err
	}
	movies := make([]models.BoxOfficeMovie, 0, len(rows))
	for i, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(row["Year"]))
		if err != nil {
			log.Warn().Str("path", path).Int("row", i+1).Str("year", row["Year"]).Msg("skipping row with invalid year")
			continue
		}
		rank, _ := strconv.Atoi(strings.TrimSpace(row["Rank"]))
		movies = append(movies, models.BoxOfficeMovie{
			Year:    year,
			Rank:    rank,
			Title:   strings.TrimSpace(row["Title"]),
			Gross:   utils.ParseGross(row["Gross"]),
			Villain: strings.TrimSpace(row["Villain"]),
			Origin:  strings.TrimSpace(row["Origin"]),
		})
	}
	return movies, nil
}
