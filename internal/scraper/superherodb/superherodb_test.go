package superherodb

import (
	"strings"
	"testing"

	"MediaMiner/internal/models"
	"MediaMiner/pkg/config"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

const listingPage = `<html><body>
<div class="column col-12"><ul class="list-md">
  <li><a href="/joker/10-373/">Joker</a></li>
  <li><a href="https://www.superherodb.com/bane/10-84/">Bane</a></li>
  <li><a>no link</a></li>
</ul></div>
<div class="column col-4"><ul class="list-md"><li><a href="/ignored/1/">Sidebar</a></li></ul></div>
</body></html>`

func TestParseVillainLinks(t *testing.T) {
	links := ParseVillainLinks(doc(t, listingPage), "https://www.superherodb.com/")
	assert.Equal(t, []string{
		"https://www.superherodb.com/joker/10-373/",
		"https://www.superherodb.com/bane/10-84/",
	}, links)
}

const profilePage = `<html><body>
<div class="columns profile-titles"><h1> Joker </h1><h3>DC Comics</h3></div>
<div class="column col-8 col-md-7 col-sm-12">
<table class="profile-table">
  <tr><td>Full name</td><td>Jack Napier</td></tr>
  <tr><td>Place of birth</td><td> Gotham City </td></tr>
</table>
<table class="profile-table">
  <tr><td>Species // Type</td><td><a>Human</a> // <a>Metahuman</a></td></tr>
  <tr><td>lonely cell</td></tr>
</table>
</div>
</body></html>`

func TestParseProfile(t *testing.T) {
	v, err := ParseProfile(doc(t, profilePage))
	require.NoError(t, err)
	assert.Equal(t, "Joker", v.Name)
	assert.Equal(t, "DC Comics", v.Universe)
	assert.Equal(t, "Gotham City", v.PlaceOfBirth)
	assert.Equal(t, "Human // Metahuman", v.Species)
}

func TestParseProfileDefaults(t *testing.T) {
	v, err := ParseProfile(doc(t, `<div class="columns profile-titles"><h1>Nobody</h1></div>`))
	require.NoError(t, err)
	assert.Equal(t, models.Unknown, v.Universe)
	assert.Equal(t, models.Unknown, v.PlaceOfBirth)
	assert.Equal(t, models.Unknown, v.Species)
}

func TestParseProfileWithoutName(t *testing.T) {
	_, err := ParseProfile(doc(t, `<div class="columns profile-titles"><h3>Marvel</h3></div>`))
	assert.ErrorIs(t, err, ErrNoName)
}

func TestListURL(t *testing.T) {
	s := New(nil, config.ScraperConfig{}, config.SuperheroDBConfig{BaseURL: "https://www.superherodb.com/"})
	assert.Equal(t,
		"https://www.superherodb.com/characters/female/villains/?set_gender=female&set_side=bad&page_nr=3",
		s.ListURL("female", 3))
}
