package database

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"MediaMiner/internal/models"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("database: not found")

// DBRepository is a thin layer over the sqlite connection.
type DBRepository struct {
	DB *sql.DB
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS villains (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"url" TEXT UNIQUE,
		"gender" TEXT,
		"status" TEXT DEFAULT 'needs_details',
		"name" TEXT DEFAULT '',
		"universe" TEXT DEFAULT '',
		"place_of_birth" TEXT DEFAULT '',
		"species" TEXT DEFAULT '',
		"scraped_at" DATETIME
	);`,
	`CREATE TABLE IF NOT EXISTS geocodes (
		"place" TEXT NOT NULL PRIMARY KEY,
		"lat" REAL,
		"lon" REAL,
		"found" BOOLEAN DEFAULT 0,
		"updated_at" DATETIME
	);`,
	`CREATE TABLE IF NOT EXISTS box_office (
		"year" INTEGER NOT NULL,
		"rank" INTEGER NOT NULL,
		"title" TEXT,
		"gross" REAL,
		"villain" TEXT DEFAULT '',
		"origin" TEXT DEFAULT '',
		PRIMARY KEY ("year", "rank")
	);`,
}

// InitDB opens the sqlite file at filepath and creates missing tables.
func InitDB(filepath string) (*DBRepository, error) {
	db, err := sql.Open("sqlite", filepath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	// sqlite allows a single writer; the detail workers share this handle.
	db.SetMaxOpenConns(1)

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("creating tables: %w", err)
		}
	}

	log.Debug().Str("path", filepath).Msg("database and tables initialized")
	return &DBRepository{DB: db}, nil
}

// Close closes the database connection.
func (repo *DBRepository) Close() error {
	return repo.DB.Close()
}

// SaveVillainLink stores a villain profile URL for later detail scraping.
// It reports whether the URL was new.
func (repo *DBRepository) SaveVillainLink(url, gender string) (bool, error) {
	res, err := repo.DB.Exec(
		`INSERT INTO villains (url, gender, status) VALUES (?, ?, ?) ON CONFLICT(url) DO NOTHING;`,
		url, gender, models.StatusNeedsDetails,
	)
	if err != nil {
		return false, fmt.Errorf("saving villain link %s: %w", url, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetVillainsForDetailScrape returns villains with the status 'needs_details'.
func (repo *DBRepository) GetVillainsForDetailScrape() ([]models.Villain, error) {
	rows, err := repo.DB.Query(`SELECT id, url, gender FROM villains WHERE status = ? ORDER BY id`, models.StatusNeedsDetails)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villains []models.Villain
	for rows.Next() {
		v := models.Villain{Status: models.StatusNeedsDetails}
		if err := rows.Scan(&v.ID, &v.URL, &v.Gender); err != nil {
			log.Warn().Err(err).Msg("scanning villain row")
			continue
		}
		villains = append(villains, v)
	}
	return villains, rows.Err()
}

// UpdateVillainDetails stores scraped profile fields and marks the villain completed.
func (repo *DBRepository) UpdateVillainDetails(v models.Villain) error {
	scrapedAt := v.ScrapedAt
	if scrapedAt.IsZero() {
		scrapedAt = time.Now()
	}
	_, err := repo.DB.Exec(`
	UPDATE villains SET
		name = ?,
		universe = ?,
		place_of_birth = ?,
		species = ?,
		scraped_at = ?,
		status = ?
	WHERE id = ?;`,
		v.Name, v.Universe, v.PlaceOfBirth, v.Species, scrapedAt, models.StatusCompleted, v.ID,
	)
	if err != nil {
		return fmt.Errorf("updating villain %d: %w", v.ID, err)
	}
	return nil
}

// UpdateVillainStatus changes the status of a villain by its ID.
func (repo *DBRepository) UpdateVillainStatus(id int64, newStatus string) error {
	_, err := repo.DB.Exec("UPDATE villains SET status = ? WHERE id = ?", newStatus, id)
	return err
}

// RequeueFailedVillains moves failed villains back to 'needs_details'.
func (repo *DBRepository) RequeueFailedVillains() (int64, error) {
	res, err := repo.DB.Exec("UPDATE villains SET status = ? WHERE status = ?", models.StatusNeedsDetails, models.StatusFailed)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// GetCompletedVillains returns every villain with the status 'completed'.
func (repo *DBRepository) GetCompletedVillains() ([]models.Villain, error) {
	rows, err := repo.DB.Query(`
		SELECT id, url, gender, name, universe, place_of_birth, species
		FROM villains
		WHERE status = ?
		ORDER BY id`, models.StatusCompleted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var villains []models.Villain
	for rows.Next() {
		v := models.Villain{Status: models.StatusCompleted}
		if err := rows.Scan(&v.ID, &v.URL, &v.Gender, &v.Name, &v.Universe, &v.PlaceOfBirth, &v.Species); err != nil {
			log.Warn().Err(err).Msg("scanning completed villain row")
			continue
		}
		villains = append(villains, v)
	}
	return villains, rows.Err()
}

// CountVillainsByStatus returns the number of villains per status.
func (repo *DBRepository) CountVillainsByStatus() (map[string]int, error) {
	rows, err := repo.DB.Query("SELECT status, COUNT(*) FROM villains GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// SaveGeocode caches the result of geocoding place. A nil point records
// that the geocoder had no result.
func (repo *DBRepository) SaveGeocode(place string, point *models.GeoPoint) error {
	var lat, lon float64
	found := point != nil
	if found {
		lat, lon = point.Lat, point.Lon
	}
	_, err := repo.DB.Exec(`
	INSERT INTO geocodes (place, lat, lon, found, updated_at) VALUES (?, ?, ?, ?, ?)
	ON CONFLICT(place) DO UPDATE SET
		lat=excluded.lat,
		lon=excluded.lon,
		found=excluded.found,
		updated_at=excluded.updated_at;`,
		place, lat, lon, found, time.Now(),
	)
	if err != nil {
		return fmt.Errorf("saving geocode for %q: %w", place, err)
	}
	return nil
}

// GetGeocode looks up a cached geocode. It returns ErrNotFound when place was
// never geocoded, and found=false when it was geocoded without result.
func (repo *DBRepository) GetGeocode(place string) (point models.GeoPoint, found bool, err error) {
	point.Place = place
	err = repo.DB.QueryRow("SELECT lat, lon, found FROM geocodes WHERE place = ?", place).
		Scan(&point.Lat, &point.Lon, &found)
	if errors.Is(err, sql.ErrNoRows) {
		return point, false, ErrNotFound
	}
	if err != nil {
		return point, false, err
	}
	return point, found, nil
}

// SaveBoxOfficeMovie inserts or replaces a ranking entry. Villain and origin
// are only overwritten when the new values are not empty.
func (repo *DBRepository) SaveBoxOfficeMovie(m models.BoxOfficeMovie) error {
	_, err := repo.DB.Exec(`
	INSERT INTO box_office (year, rank, title, gross, villain, origin) VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(year, rank) DO UPDATE SET
		title=excluded.title,
		gross=excluded.gross,
		villain=CASE WHEN excluded.villain != '' THEN excluded.villain ELSE box_office.villain END,
		origin=CASE WHEN excluded.origin != '' THEN excluded.origin ELSE box_office.origin END;`,
		m.Year, m.Rank, m.Title, m.Gross, m.Villain, m.Origin,
	)
	if err != nil {
		return fmt.Errorf("saving box office %d/%d: %w", m.Year, m.Rank, err)
	}
	return nil
}

// GetBoxOfficeMovies returns the ranking entries between first and last year inclusive.
func (repo *DBRepository) GetBoxOfficeMovies(first, last int) ([]models.BoxOfficeMovie, error) {
	rows, err := repo.DB.Query(`
		SELECT year, rank, title, gross, villain, origin
		FROM box_office
		WHERE year BETWEEN ? AND ?
		ORDER BY year, rank`, first, last)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var movies []models.BoxOfficeMovie
	for rows.Next() {
		var m models.BoxOfficeMovie
		if err := rows.Scan(&m.Year, &m.Rank, &m.Title, &m.Gross, &m.Villain, &m.Origin); err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}
