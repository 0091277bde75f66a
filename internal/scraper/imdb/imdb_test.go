package imdb

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/pkg/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchPage = `<html><body>
<a class="ipc-title-link-wrapper" href="/title/tt0903747/">1. Breaking Bad</a>
<a class="ipc-title-link-wrapper" href="/title/tt0944947/">2. Game of Thrones</a>
<a class="ipc-title-link-wrapper" href="/title/tt0000000/">3. Missing</a>
<a class="ipc-title-link-wrapper">no href</a>
</body></html>`

const breakingBadPage = `<html><body>
<h1><span class="hero__primary-text">Breaking Bad</span></h1>
<a class="ipc-link ipc-link--baseAlt" href="/title/tt0903747/releaseinfo?ref_=tt_ov_rdat">2008–2013</a>
<div data-testid="title-cast-item"><div class="title-cast-item__characters-list"><span class="sc-abc">Walter White</span></div></div>
<div data-testid="title-cast-item"><a data-testid="cast-item-characters-link"><span class="sc-xyz">Jesse Pinkman</span></a></div>
<div data-testid="title-cast-item"><div class="title-cast-item__characters-list"><span>Skyler White</span></div></div>
<div data-testid="title-cast-item"><div class="title-cast-item__characters-list"><span>Hank Schrader</span></div></div>
</body></html>`

const gotPage = `<html><body>
<span class="hero__primary-text">Game of Thrones</span>
<a href="/title/tt0944947/releaseinfo">2011–2019</a>
<div data-testid="title-cast-item"><div class="title-cast-item__characters-list"><span>Daenerys Targaryen</span></div></div>
</body></html>`

func newTestScraper(t *testing.T, routes map[string]string) *Scraper {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := routes[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if body == "403" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	conf := config.Default().IMDB
	conf.BaseURL = srv.URL
	conf.TVSearchURL = srv.URL + "/search"
	conf.NumShows = 3
	conf.NumCharacters = 3
	f := fetch.New(fetch.Retries(0, time.Millisecond, time.Millisecond, 0))
	return New(f, conf)
}

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestParseTVShow(t *testing.T) {
	show, ok := ParseTVShow(doc(t, breakingBadPage), 3)
	require.True(t, ok)
	assert.Equal(t, "Breaking Bad", show.Name)
	assert.Equal(t, 2008, show.ReleaseYear)
	assert.Equal(t, []string{"Walter White", "Jesse Pinkman", "Skyler White"}, show.Characters)
}

func TestParseTVShowWithoutTitle(t *testing.T) {
	_, ok := ParseTVShow(doc(t, `<html><body><p>nothing</p></body></html>`), 6)
	assert.False(t, ok)
}

func TestScrapeTVShows(t *testing.T) {
	s := newTestScraper(t, map[string]string{
		"/search":           searchPage,
		"/title/tt0903747/": breakingBadPage,
		"/title/tt0944947/": gotPage,
	})

	shows, err := s.ScrapeTVShows(context.Background())
	require.NoError(t, err)
	require.Len(t, shows, 2, "the missing show is skipped")
	assert.Equal(t, "Breaking Bad", shows[0].Name)
	assert.Equal(t, "Game of Thrones", shows[1].Name)
	assert.Equal(t, 2011, shows[1].ReleaseYear)
	assert.Equal(t, []string{"Daenerys Targaryen"}, shows[1].Characters)
	assert.True(t, strings.HasSuffix(shows[1].URL, "/title/tt0944947/"))
}

func TestScrapeTVShowsForbidden(t *testing.T) {
	s := newTestScraper(t, map[string]string{"/search": "403"})
	shows, err := s.ScrapeTVShows(context.Background())
	require.NoError(t, err)
	assert.Empty(t, shows)
}

const awardsPage = `<html><body><ul>
<li class="ipc-metadata-list-summary-item">
  <a class="ipc-metadata-list-summary-item__t">2005 Winner Oscar</a>
  <span class="awardCategoryName">Best Director</span>
  <a class="ipc-metadata-list-summary-item__li--link">Million Dollar Baby</a>
</li>
<li class="ipc-metadata-list-summary-item">
  <a class="ipc-metadata-list-summary-item__t">2005 Nominee Golden Globe</a>
</li>
<li class="ipc-metadata-list-summary-item">
  <a class="ipc-metadata-list-summary-item__t">1993</a>
</li>
<li class="ipc-metadata-list-summary-item"><span>no title anchor</span></li>
</ul></body></html>`

func TestParseAwards(t *testing.T) {
	awards := ParseAwards(doc(t, awardsPage), "Clint Eastwood")
	require.Len(t, awards, 3)
	assert.Equal(t, models.Award{
		Director:  "Clint Eastwood",
		Year:      "2005",
		AwardType: "Winner Oscar",
		Category:  "Best Director",
		Title:     "Million Dollar Baby",
	}, awards[0])
	assert.Equal(t, "", awards[1].Category)
	assert.Equal(t, "1993", awards[2].Year)
	assert.Equal(t, "", awards[2].AwardType)
}

func TestScrapeAllAwards(t *testing.T) {
	s := newTestScraper(t, map[string]string{
		"/name/a/awards/": awardsPage,
		"/name/b/awards/": "403",
	})
	s.Conf.Directors = map[string]string{
		"Clint Eastwood":   s.Conf.BaseURL + "/name/a/awards/",
		"Alfred Hitchcock": s.Conf.BaseURL + "/name/b/awards/",
		"Nobody":           s.Conf.BaseURL + "/name/missing/awards/",
	}

	awards, err := s.ScrapeAllAwards(context.Background())
	require.NoError(t, err)
	assert.Len(t, awards, 3)
}

func TestCountAwards(t *testing.T) {
	counts := CountAwards([]models.Award{
		{Director: "B", Year: "2001"},
		{Director: "A", Year: "2000"},
		{Director: "A", Year: "2000"},
		{Director: "A", Year: "1999"},
	})
	assert.Equal(t, []models.AwardCount{
		{Director: "A", Year: "1999", Count: 1},
		{Director: "A", Year: "2000", Count: 2},
		{Director: "B", Year: "2001", Count: 1},
	}, counts)
}

const chartTable = `<html><body><table><tbody>
<tr>
  <td class="posterColumn"><span name="ir" data-value="9.2"></span></td>
  <td class="titleColumn">1.
    <a href="/title/tt0111161/" title="Frank Darabont (dir.), Tim Robbins, Morgan Freeman">The Shawshank Redemption</a>
    <span class="secondaryInfo">(1994)</span></td>
</tr>
<tr>
  <td class="posterColumn"><span name="ir" data-value="8.5"></span></td>
  <td class="titleColumn">2.
    <a href="/title/tt0110413/" title="Luc Besson (dir.), Jean Reno, Gary Oldman">Léon (The Professional)</a>
    <span class="secondaryInfo">(1994)</span></td>
</tr>
</tbody></table></body></html>`

func TestParseTopChartTable(t *testing.T) {
	movies := ParseTopChart(doc(t, chartTable))
	require.Len(t, movies, 2)
	assert.Equal(t, models.TopMovie{
		Place:    1,
		Title:    "The Shawshank Redemption",
		Rating:   9.2,
		Year:     1994,
		Director: "Frank Darabont",
		Actors:   []string{"Tim Robbins", "Morgan Freeman"},
	}, movies[0])
	assert.Equal(t, "Léon (The Professional)", movies[1].Title)
	assert.Equal(t, "Luc Besson", movies[1].Director)
}

const chartList = `<html><body><ul>
<li class="ipc-metadata-list-summary-item">
  <h3 class="ipc-title__text">1. The Shawshank Redemption</h3>
  <span class="cli-title-metadata-item">1994</span><span class="cli-title-metadata-item">2h 22m</span>
  <span class="ipc-rating-star" aria-label="IMDb rating: 9.3"></span>
</li>
<li class="ipc-metadata-list-summary-item">
  <h3 class="ipc-title__text">2. The Godfather</h3>
  <span class="cli-title-metadata-item">1972</span>
  <span class="ipc-rating-star"><span class="ipc-rating-star--rating">9.2</span></span>
</li>
</ul></body></html>`

func TestParseTopChartList(t *testing.T) {
	movies := ParseTopChart(doc(t, chartList))
	require.Len(t, movies, 2)
	assert.Equal(t, 1, movies[0].Place)
	assert.Equal(t, 1994, movies[0].Year)
	assert.InDelta(t, 9.3, movies[0].Rating, 1e-9)
	assert.Equal(t, "The Godfather", movies[1].Title)
	assert.InDelta(t, 9.2, movies[1].Rating, 1e-9)
	assert.Empty(t, movies[1].Director)
}

func TestSplitCrew(t *testing.T) {
	d, a := splitCrew("Sergio Leone (dir.), Clint Eastwood, Eli Wallach")
	assert.Equal(t, "Sergio Leone", d)
	assert.Equal(t, []string{"Clint Eastwood", "Eli Wallach"}, a)

	d, a = splitCrew("Solo Director (dir.)")
	assert.Equal(t, "Solo Director", d)
	assert.Empty(t, a)
}
