package database

import (
	"path/filepath"
	"testing"

	"MediaMiner/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) *DBRepository {
	t.Helper()
	repo, err := InitDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestVillainLifecycle(t *testing.T) {
	repo := newRepo(t)

	isNew, err := repo.SaveVillainLink("https://example.com/joker/10-1", "male")
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = repo.SaveVillainLink("https://example.com/joker/10-1", "male")
	require.NoError(t, err)
	assert.False(t, isNew, "duplicate URL must not create a second row")

	_, err = repo.SaveVillainLink("https://example.com/harley/10-2", "female")
	require.NoError(t, err)

	pending, err := repo.GetVillainsForDetailScrape()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "male", pending[0].Gender)

	joker := pending[0]
	joker.Name = "Joker"
	joker.Universe = "DC Comics"
	joker.PlaceOfBirth = "Gotham City"
	joker.Species = "Human"
	require.NoError(t, repo.UpdateVillainDetails(joker))
	require.NoError(t, repo.UpdateVillainStatus(pending[1].ID, models.StatusFailed))

	completed, err := repo.GetCompletedVillains()
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, "Joker", completed[0].Name)
	assert.Equal(t, "Gotham City", completed[0].PlaceOfBirth)

	counts, err := repo.CountVillainsByStatus()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{models.StatusCompleted: 1, models.StatusFailed: 1}, counts)

	n, err := repo.RequeueFailedVillains()
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	pending, err = repo.GetVillainsForDetailScrape()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "female", pending[0].Gender)
}

func TestGeocodeCache(t *testing.T) {
	repo := newRepo(t)

	_, _, err := repo.GetGeocode("Paris")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, repo.SaveGeocode("Paris", &models.GeoPoint{Place: "Paris", Lat: 48.85, Lon: 2.35}))
	require.NoError(t, repo.SaveGeocode("Krypton", nil))

	p, found, err := repo.GetGeocode("Paris")
	require.NoError(t, err)
	assert.True(t, found)
	assert.InDelta(t, 48.85, p.Lat, 1e-9)
	assert.InDelta(t, 2.35, p.Lon, 1e-9)

	_, found, err = repo.GetGeocode("Krypton")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.SaveGeocode("Krypton", &models.GeoPoint{Lat: 1, Lon: 2}))
	_, found, err = repo.GetGeocode("Krypton")
	require.NoError(t, err)
	assert.True(t, found)
}

func TestBoxOffice(t *testing.T) {
	repo := newRepo(t)

	require.NoError(t, repo.SaveBoxOfficeMovie(models.BoxOfficeMovie{Year: 1977, Rank: 1, Title: "Star Wars", Gross: 307263857}))
	require.NoError(t, repo.SaveBoxOfficeMovie(models.BoxOfficeMovie{Year: 1978, Rank: 1, Title: "Grease", Gross: 159978870}))
	require.NoError(t, repo.SaveBoxOfficeMovie(models.BoxOfficeMovie{Year: 1977, Rank: 1, Title: "Star Wars", Gross: 307263857, Villain: "Darth Vader", Origin: "Tatooine"}))
	require.NoError(t, repo.SaveBoxOfficeMovie(models.BoxOfficeMovie{Year: 1977, Rank: 1, Title: "Star Wars", Gross: 307263857}))

	movies, err := repo.GetBoxOfficeMovies(1977, 1977)
	require.NoError(t, err)
	require.Len(t, movies, 1)
	assert.Equal(t, "Darth Vader", movies[0].Villain, "empty villain must not overwrite a stored one")
	assert.Equal(t, "Tatooine", movies[0].Origin)

	movies, err = repo.GetBoxOfficeMovies(1900, 2100)
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}
