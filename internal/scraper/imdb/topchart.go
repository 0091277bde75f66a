package imdb

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"MediaMiner/internal/models"
	"MediaMiner/internal/scraper"
	"MediaMiner/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/rs/zerolog/log"
)

// TopChartScraper loads the client side rendered chart in a browser.
type TopChartScraper struct {
	Browser *rod.Browser
	URL     string
	Timeout time.Duration
}

// NewTopChart creates a top chart scraper.
func NewTopChart(browser *rod.Browser, url string, timeout time.Duration) *TopChartScraper {
	return &TopChartScraper{Browser: browser, URL: url, Timeout: timeout}
}

// Scrape renders the chart and parses it.
func (s *TopChartScraper) Scrape(ctx context.Context) ([]models.TopMovie, error) {
	log.Info().Str("url", s.URL).Msg("rendering top chart")
	doc, err := scraper.Render(ctx, s.Browser, s.URL, "", s.Timeout)
	if err != nil {
		return nil, err
	}
	movies := ParseTopChart(doc)
	if len(movies) == 0 {
		return nil, fmt.Errorf("no movies found on %s", s.URL)
	}
	log.Info().Int("count", len(movies)).Msg("top chart parsed")
	return movies, nil
}

var (
	chartRowRegex   = regexp.MustCompile(`^(\d+)\.?\s*(.*?)\s*\((\d{4})\)\s*$`)
	chartTitleRegex = regexp.MustCompile(`^(\d+)\.\s*(.*)$`)
	ratingRegex     = regexp.MustCompile(`\d+(?:\.\d+)?`)
)

// ParseTopChart reads the top rated chart. It understands the table layout,
// where the anchor title holds "Director (dir.), Actor, Actor", and the
// newer list layout, which has no crew.
func ParseTopChart(doc *goquery.Document) []models.TopMovie {
	if rows := doc.Find("td.titleColumn"); rows.Length() > 0 {
		return parseChartTable(rows)
	}
	return parseChartList(doc.Find("li.ipc-metadata-list-summary-item"))
}

func parseChartTable(cells *goquery.Selection) []models.TopMovie {
	var movies []models.TopMovie
	cells.Each(func(i int, cell *goquery.Selection) {
		text := strings.Join(strings.Fields(cell.Text()), " ")
		m := chartRowRegex.FindStringSubmatch(text)
		if m == nil {
			log.Debug().Str("row", text).Msg("unrecognised chart row")
			return
		}
		movie := models.TopMovie{Title: m[2], Actors: []string{}}
		movie.Place, _ = strconv.Atoi(m[1])
		movie.Year, _ = strconv.Atoi(m[3])

		if crew, ok := cell.Find("a").First().Attr("title"); ok {
			movie.Director, movie.Actors = splitCrew(crew)
		}
		if v, ok := cell.Parent().Find(`td.posterColumn span[name="ir"]`).First().Attr("data-value"); ok {
			movie.Rating, _ = strconv.ParseFloat(v, 64)
		}
		movies = append(movies, movie)
	})
	return movies
}

func parseChartList(items *goquery.Selection) []models.TopMovie {
	var movies []models.TopMovie
	items.Each(func(i int, item *goquery.Selection) {
		heading := strings.TrimSpace(item.Find("h3.ipc-title__text").First().Text())
		m := chartTitleRegex.FindStringSubmatch(heading)
		if m == nil {
			return
		}
		movie := models.TopMovie{Title: strings.TrimSpace(m[2]), Actors: []string{}}
		movie.Place, _ = strconv.Atoi(m[1])
		movie.Year = utils.ParseYear(item.Find(".cli-title-metadata-item").First().Text())

		rating := item.Find("span.ipc-rating-star--rating").First().Text()
		if rating == "" {
			rating, _ = item.Find("span.ipc-rating-star").First().Attr("aria-label")
		}
		if r := ratingRegex.FindString(rating); r != "" {
			movie.Rating, _ = strconv.ParseFloat(r, 64)
		}
		movies = append(movies, movie)
	})
	return movies
}

// splitCrew parses "Frank Darabont (dir.), Tim Robbins, Morgan Freeman".
func splitCrew(crew string) (director string, actors []string) {
	actors = []string{}
	parts := strings.SplitN(crew, "(dir.),", 2)
	director = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(parts[0]), "(dir.)"))
	if len(parts) < 2 {
		return director, actors
	}
	for _, a := range strings.Split(parts[1], ",") {
		if a = strings.TrimSpace(a); a != "" {
			actors = append(actors, a)
		}
	}
	return director, actors
}
