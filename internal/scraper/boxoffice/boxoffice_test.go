package boxoffice

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/pkg/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func yearPage(year, rows int) string {
	var b strings.Builder
	b.WriteString(`<html><body><table><tr><th>Rank</th><th>Release</th><th>Genre</th><th>Budget</th><th>Running</th><th>Gross</th></tr>`)
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&b, `<tr><td>%d</td><td> Movie %d-%d </td><td>-</td><td>-</td><td>-</td><td>$%d,000,000</td></tr>`, i, year, i, 100-i)
	}
	b.WriteString(`</table><table><tr><td>second table</td></tr></table></body></html>`)
	return b.String()
}

func newTestScraper(t *testing.T) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/year/1977/":
			assert.Equal(t, "totalGrosses", r.URL.Query().Get("grossesOption"))
			w.Write([]byte(yearPage(1977, 12)))
		case "/year/1979/":
			w.Write([]byte(yearPage(1979, 3)))
		case "/year/1980/":
			w.Write([]byte(`<html><body><p>maintenance</p></body></html>`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	conf := config.Default().BoxOffice
	conf.BaseURL = srv.URL
	scraperConf := config.Default().Scraper
	scraperConf.Delay = 0
	return New(scraperConf, conf)
}

func TestTopMovies(t *testing.T) {
	s := newTestScraper(t)
	movies, err := s.TopMovies(1977)
	require.NoError(t, err)
	require.Len(t, movies, 10)
	assert.Equal(t, models.BoxOfficeMovie{Year: 1977, Rank: 1, Title: "Movie 1977-1", Gross: 99000000}, movies[0])
	assert.Equal(t, 10, movies[9].Rank)
}

func TestTopMoviesNotFound(t *testing.T) {
	s := newTestScraper(t)
	_, err := s.TopMovies(1978)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetch.ErrNotFound)
}

func TestScrapeYearsSkipsFailures(t *testing.T) {
	s := newTestScraper(t)
	movies, err := s.ScrapeYears(context.Background(), 1977, 1980)
	require.NoError(t, err)
	assert.Len(t, movies, 13)
	assert.Equal(t, 1979, movies[len(movies)-1].Year)
}

func TestParseTableShortRows(t *testing.T) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(
		`<table><tr><th>h</th></tr><tr><td>1</td><td>Only two</td></tr><tr><td>x</td><td>Bad rank</td><td></td><td></td><td></td><td>$5</td></tr></table>`))
	require.NoError(t, err)
	movies := ParseTable(doc.Find("table"), 2000, 10)
	require.Len(t, movies, 1)
	assert.Equal(t, 2, movies[0].Rank, "an unparsable rank falls back to the row index")
	assert.Equal(t, 5.0, movies[0].Gross)
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName(1977, 1978))
	in := []models.BoxOfficeMovie{
		{Year: 1977, Rank: 1, Title: "Star Wars", Gross: 307263857, Villain: "Darth Vader", Origin: "Tatooine"},
		{Year: 1978, Rank: 1, Title: "Grease", Gross: 159978870},
	}
	require.NoError(t, WriteCSV(path, in))

	out, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "top_10_box_office_movies_1977_2023.csv", FileName(1977, 2023))
}
