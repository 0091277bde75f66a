package collab

import (
	"os"
	"path/filepath"
	"testing"

	"MediaMiner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMovies = []models.Movie{
	{Title: "Alpha", Year: 1990, Director: "D1", Cast: []string{"A1", "A2"}},
	{Title: "Beta", Year: 1992, Director: "D1", Cast: []string{"A1"}},
	{Title: "Gamma", Year: 1997, Director: "D1", Cast: []string{"A1", "A3"}},
	{Title: "Delta", Year: 2001, Director: "D2", Cast: []string{"A2"}},
	{Title: "Orphan", Year: 2005, Cast: []string{"A9"}},
}

func TestLoadMovies(t *testing.T) {
	path := filepath.Join(t.TempDir(), "movies.csv")
	data := "Title,Year,Director,Cast,Rating\n" +
		"Alpha,1990,D1,\"A1, A2\",7.1\n" +
		"Delta,(2001),D2,A2,6.0\n" +
		"Orphan,,,\"\",\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	movies, err := LoadMovies(path)
	require.NoError(t, err)
	require.Len(t, movies, 3)
	assert.Equal(t, models.Movie{Title: "Alpha", Year: 1990, Director: "D1", Cast: []string{"A1", "A2"}}, movies[0])
	assert.Equal(t, 2001, movies[1].Year)
	assert.Empty(t, movies[2].Cast)
}

func TestCollaborations(t *testing.T) {
	credits := Explode(testMovies)
	assert.Len(t, credits, 6, "movies without a director are skipped")

	collabs := Collaborations(credits)
	require.Len(t, collabs, 4)
	assert.Equal(t, models.Collaboration{Director: "D1", Actor: "A1", Count: 3, Movies: models.JSONStringSlice{"Alpha", "Beta", "Gamma"}}, collabs[0])
	assert.Equal(t, "A2", collabs[1].Actor)
	assert.Equal(t, "D2", collabs[3].Director)

	frequent, nonFrequent := SplitFrequent(collabs, 3)
	assert.Len(t, frequent, 1)
	assert.Len(t, nonFrequent, 3)
}

func TestWriteAndLoadCollaborations(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "frequent.csv")
	collabs := Collaborations(Explode(testMovies))
	require.NoError(t, WriteCollaborations(path, collabs))

	loaded, err := LoadCollaborations(path)
	require.NoError(t, err)
	assert.Equal(t, collabs, loaded)
}

func TestParseRankedList(t *testing.T) {
	text := "1. Meryl Streep\n" +
		"2. Cate Blanchett (actress)\n" +
		"some header line\n" +
		"3. lowercase name\n" +
		"  10. Tom Hanks\n" +
		"4. Meryl Streep\n"

	ranked := ParseRankedList(text)
	assert.Equal(t, []models.RankedActor{
		{Rank: 2, Name: "Cate Blanchett"},
		{Rank: 4, Name: "Meryl Streep"},
		{Rank: 10, Name: "Tom Hanks"},
	}, ranked)

	frequent := []models.Collaboration{{Director: "D", Actor: "Meryl Streep"}}
	nonFrequent := []models.Collaboration{{Director: "E", Actor: "Meryl Streep"}, {Director: "E", Actor: "Tom Hanks"}}
	got := CrossReference(ranked, frequent, nonFrequent)
	require.Len(t, got, 2)
	assert.Equal(t, "Meryl Streep", got[0].Name)
	assert.Equal(t, Red, got[0].Category, "frequent wins over non-frequent")
	assert.Equal(t, "Tom Hanks", got[1].Name)
	assert.Equal(t, Blue, got[1].Category)
}

func TestTopActorsAndIntervals(t *testing.T) {
	credits := Explode(testMovies)
	assert.Equal(t, []ActorCount{{"A1", 3}, {"A2", 1}}, TopActors(credits, "D1", 2))
	assert.Empty(t, TopActors(credits, "Nobody", 3))

	assert.Equal(t, []Bin{{1990, 2}, {1995, 1}}, ActorIntervals(credits, "D1", "A1", 5))
	assert.Equal(t, []Bin{{1990, 1}, {1995, 1}, {2000, 1}}, BinByInterval([]int{1997, 1990, 2003}, 5))
}

func TestAwardsByInterval(t *testing.T) {
	counts := []models.AwardCount{
		{Director: "D1", Year: "1991", Count: 2},
		{Director: "D1", Year: "1994", Count: 1},
		{Director: "D1", Year: "n/a", Count: 5},
		{Director: "D2", Year: "1991", Count: 9},
		{Director: "D1", Year: "2000", Count: 4},
	}
	assert.Equal(t, []Bin{{1990, 3}, {2000, 4}}, AwardsByInterval(counts, "D1", 5))
}

func TestTitleMatches(t *testing.T) {
	assert.True(t, TitleMatches("Star Wars: Episode IV - A New Hope", "star wars"))
	assert.True(t, TitleMatches("Titanic", "Titanik"))
	assert.False(t, TitleMatches("Jaws", "Alien"))
	assert.False(t, TitleMatches("Jaws", ""))
}

func TestDirectorSuccess(t *testing.T) {
	boxOffice := []models.BoxOfficeMovie{
		{Title: "Alpha", Gross: 100e6},
		{Title: "Beta", Gross: 300e6},
		{Title: "Gamma", Gross: 500e6},
	}
	frequent := []models.Collaboration{
		{Director: "D1", Actor: "A1", Movies: models.JSONStringSlice{"Alpha", "Beta"}},
		{Director: "D2", Actor: "X", Movies: models.JSONStringSlice{"Alpha"}},
		{Director: "D3", Actor: "Z", Movies: models.JSONStringSlice{"Alpha", "Alpha"}},
	}
	nonFrequent := []models.Collaboration{
		{Director: "D1", Actor: "A2", Movies: models.JSONStringSlice{"Gamma"}},
		{Director: "D2", Actor: "Y", Movies: models.JSONStringSlice{"Gamma"}},
		{Director: "D3", Actor: "W", Movies: models.JSONStringSlice{"Alpha"}},
	}

	report := DirectorSuccess(frequent, nonFrequent, boxOffice, DefaultSuccessOptions())
	require.Len(t, report.Directors, 2, "D2 has a single frequent hit")
	assert.Equal(t, DirectorGross{Director: "D1", Frequent: 200, NonFrequent: 500, Overall: 300}, report.Directors[0])
	assert.Equal(t, "D3", report.Directors[1].Director)
	assert.InDelta(t, 150.0, report.FrequentMean, 1e-9)
	assert.InDelta(t, 300.0, report.NonFrequentMean, 1e-9)

	opts := DefaultSuccessOptions()
	opts.TopN = 1
	report = DirectorSuccess(frequent, nonFrequent, boxOffice, opts)
	require.Len(t, report.Directors, 1)
	assert.Equal(t, "D1", report.Directors[0].Director)
}

func TestDirectorStarCounts(t *testing.T) {
	all := DirectorStarCounts(testMovies, 0)
	assert.Equal(t, []string{"D1", "D2"}, all.Directors)
	assert.Equal(t, []string{"A1", "A2"}, all.Stars)
	assert.Equal(t, [][]int{{3, 0}, {0, 1}}, all.Counts)

	top := DirectorStarCounts(testMovies, 1)
	assert.Equal(t, []string{"D1"}, top.Directors)
	assert.Equal(t, [][]int{{3}}, top.Counts)
}
