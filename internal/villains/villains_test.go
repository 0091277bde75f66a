package villains

import (
	"math"
	"testing"

	"MediaMiner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEarthly(t *testing.T) {
	assert.True(t, IsEarthly("Gotham City"))
	assert.False(t, IsEarthly("Krypton"))
	assert.False(t, IsEarthly("Deep Space Nine"))
	assert.False(t, IsEarthly(models.Unknown))
	assert.False(t, IsEarthly("  "))

	kept := FilterEarthly([]models.BoxOfficeMovie{
		{Title: "A", Origin: "Germany"},
		{Title: "B", Origin: "Tatooine"},
		{Title: "C"},
	})
	require.Len(t, kept, 1)
	assert.Equal(t, "A", kept[0].Title)
}

func TestStandardizeOrigin(t *testing.T) {
	assert.Equal(t, "China", StandardizeOrigin(" Kowloon, Hong Kong "))
	assert.Equal(t, "United Kingdom", StandardizeOrigin("London, England"))
	assert.Equal(t, "Iran", StandardizeOrigin(" Iran"))
}

func TestRegions(t *testing.T) {
	assert.Equal(t, "USA", TrendRegion("Los Angeles, USA"))
	assert.Equal(t, "Korea", TrendRegion("Pyongyang, North Korea"))
	assert.Equal(t, "Europe", TrendRegion("Berlin, Germany"))
	assert.Equal(t, "", TrendRegion("Wakanda"))

	assert.Equal(t, "USA", GeopoliticalRegion("Haddonfield, ILLINOIS"))
	assert.Equal(t, "Russian/Ukrainian", GeopoliticalRegion("Soviet Union"))
	assert.Equal(t, "Communist Asia", GeopoliticalRegion("North Korea"))
	assert.Equal(t, Other, GeopoliticalRegion("Sovietland"), "terms match whole words")

	assert.Equal(t, "Islamic Countries", ClassifierRegion("Iraq"))
	assert.Equal(t, Other, ClassifierRegion("Baghdad, Iraq"), "classifier regions need an exact name")
}

func TestConflictFeatures(t *testing.T) {
	in, decay := ConflictFeatures("Iran", 1980)
	assert.True(t, in)
	assert.Zero(t, decay)

	in, decay = ConflictFeatures("Iraq", 1990)
	assert.False(t, in)
	assert.InDelta(t, math.Exp(-9), decay, 1e-12, "nine years after the hostage crisis")

	in, decay = ConflictFeatures("Russia", 2020)
	assert.False(t, in)
	assert.InDelta(t, math.Exp(-35)+math.Exp(-4), decay, 1e-12)

	in, decay = ConflictFeatures("Sweden", 2020)
	assert.False(t, in)
	assert.Zero(t, decay)

	assert.True(t, RegionInConflict("USA", 2001))
	assert.False(t, RegionInConflict(Other, 2001))
}

func TestSamples(t *testing.T) {
	movies := []models.BoxOfficeMovie{
		{Title: "A", Year: 1980, Origin: "Iran"},
		{Title: "B", Year: 1990, Origin: "USA"},
		{Title: "C", Year: 1995, Origin: "Hong Kong"},
		{Title: "D", Year: 1995, Origin: "Gotham City"},
		{Title: "E", Year: 1995},
	}

	conflict := ConflictSamples(movies)
	require.Len(t, conflict, 2, "USA and non UN origins are dropped")
	assert.Equal(t, "Iran", conflict[0].Origin)
	assert.True(t, conflict[0].InConflict)
	assert.Equal(t, "China", conflict[1].Origin)
	assert.Equal(t, "Communist Asia", conflict[1].Region)

	regions := RegionSamples(movies)
	require.Len(t, regions, 4)
	assert.Equal(t, Other, regions[1].Region)
	assert.False(t, regions[1].InConflict)
}

func TestCountsByYearRegion(t *testing.T) {
	movies := []models.BoxOfficeMovie{
		{Year: 1990, Origin: "Moscow, Russia"},
		{Year: 1990, Origin: "USSR"},
		{Year: 1992, Origin: "Tehran, Iran"},
		{Year: 1993, Origin: "Wakanda"},
	}
	c := CountsByYearRegion(movies, TrendRegion)
	assert.Equal(t, []int{1990, 1992}, c.Years)
	assert.Equal(t, []string{"Islamic Countries", "Russia"}, c.Regions)
	assert.Equal(t, 2, c.Count("Russia", 1990))
	assert.Equal(t, []float64{2, 0}, c.Series("Russia"))
	assert.Equal(t, []float64{0, 0}, c.Series("China"))
}

func TestWindows(t *testing.T) {
	w := Windows(1970, 2020, 10)
	require.Len(t, w, 5)
	assert.Equal(t, Window{1970, 1979}, w[0])
	assert.Equal(t, "2010-2019", w[4].Label())
	assert.True(t, w[1].Contains(1989))
	assert.False(t, w[1].Contains(1990))
	assert.Nil(t, Windows(1970, 2020, 0))

	movies := []models.BoxOfficeMovie{{Year: 1975}, {Year: 1985}}
	assert.Len(t, InWindow(movies, w[0]), 1)
}
