// Package geocode turns place names into coordinates with Nominatim and
// caches every answer so each place is looked up once.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"MediaMiner/internal/database"
	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
)

// ErrNoResult is returned when the geocoder knows no location for a place.
var ErrNoResult = errors.New("geocode: no result")

// Cache stores geocoding answers. *database.DBRepository implements it.
type Cache interface {
	GetGeocode(place string) (models.GeoPoint, bool, error)
	SaveGeocode(place string, point *models.GeoPoint) error
}

// Geocoder queries Nominatim's search endpoint.
type Geocoder struct {
	Fetcher *fetch.Fetcher
	BaseURL string
	Cache   Cache
}

// New creates a Geocoder. cache may be nil.
func New(f *fetch.Fetcher, baseURL string, cache Cache) *Geocoder {
	return &Geocoder{Fetcher: f, BaseURL: strings.TrimRight(baseURL, "/"), Cache: cache}
}

type nominatimResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Geocode returns the coordinates of place. Transient failures are retried
// by the fetcher and are not cached; "no result" answers are.
func (g *Geocoder) Geocode(ctx context.Context, place string) (models.GeoPoint, error) {
	place = strings.TrimSpace(place)
	if place == "" {
		return models.GeoPoint{}, ErrNoResult
	}

	if g.Cache != nil {
		point, found, err := g.Cache.GetGeocode(place)
		switch {
		case err == nil && found:
			return point, nil
		case err == nil:
			return models.GeoPoint{Place: place}, ErrNoResult
		case !errors.Is(err, database.ErrNotFound):
			log.Warn().Err(err).Str("place", place).Msg("reading geocode cache")
		}
	}

	var results []nominatimResult
	query := url.Values{"q": {place}, "format": {"json"}, "limit": {"1"}}
	if err := g.Fetcher.GetJSON(ctx, g.BaseURL+"/search", query, &results); err != nil {
		return models.GeoPoint{Place: place}, fmt.Errorf("geocoding %q: %w", place, err)
	}

	var point *models.GeoPoint
	if len(results) > 0 {
		lat, latErr := strconv.ParseFloat(results[0].Lat, 64)
		lon, lonErr := strconv.ParseFloat(results[0].Lon, 64)
		if latErr == nil && lonErr == nil {
			point = &models.GeoPoint{Place: place, Lat: lat, Lon: lon}
		}
	}

	if g.Cache != nil {
		if err := g.Cache.SaveGeocode(place, point); err != nil {
			log.Warn().Err(err).Str("place", place).Msg("writing geocode cache")
		}
	}
	if point == nil {
		return models.GeoPoint{Place: place}, ErrNoResult
	}
	return *point, nil
}

// GeocodeAll geocodes each distinct place once. Places without a result or
// whose lookup failed are logged and left out of the returned map.
func (g *Geocoder) GeocodeAll(ctx context.Context, places []string) (map[string]models.GeoPoint, error) {
	out := make(map[string]models.GeoPoint)
	unique := utils.UniqueStrings(places)
	for i, place := range unique {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		if strings.TrimSpace(place) == "" {
			continue
		}
		point, err := g.Geocode(ctx, place)
		switch {
		case err == nil:
			out[place] = point
		case errors.Is(err, ErrNoResult):
			log.Debug().Str("place", place).Msg("no geocoding result")
		default:
			log.Warn().Err(err).Str("place", place).Msg("geocoding failed after several retries")
		}
		if (i+1)%25 == 0 {
			log.Info().Int("done", i+1).Int("total", len(unique)).Msg("geocoding progress")
		}
	}
	return out, nil
}
