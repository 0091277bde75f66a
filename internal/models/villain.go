package models

import "time"

// Villain status values used by the two-phase superherodb scrape.
const (
	StatusNeedsDetails = "needs_details"
	StatusCompleted    = "completed"
	StatusFailed       = "failed"
)

// Unknown fills villain fields that the profile page does not provide.
const Unknown = "Unknown"

// Villain is a character scraped from superherodb.
type Villain struct {
	ID           int64     `json:"-"`
	URL          string    `json:"-"`
	Gender       string    `json:"-"`
	Status       string    `json:"-"`
	Name         string    `json:"name"`
	PlaceOfBirth string    `json:"place_of_birth"`
	Universe     string    `json:"universe"`
	Species      string    `json:"species"`
	ScrapedAt    time.Time `json:"-"`
}

// GeoPoint is a geocoded place.
type GeoPoint struct {
	Place string  `json:"place"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}
