package models

import (
	"encoding/json"
	"fmt"
)

// TVShow is one scraped TV series with its leading characters.
type TVShow struct {
	Name        string   `json:"tv_show_name"`
	ReleaseYear int      `json:"release_year"`
	Characters  []string `json:"characters"`
	URL         string   `json:"url,omitempty"`
}

// Award is one row of a director's IMDB awards page.
type Award struct {
	Director  string `json:"director"`
	Year      string `json:"year"`
	AwardType string `json:"award_type"`
	Category  string `json:"category"`
	Title     string `json:"title"`
}

// AwardCount is the number of awards a director received in a year.
type AwardCount struct {
	Director string `json:"Director"`
	Year     string `json:"Year"`
	Count    int    `json:"Film_Count"`
}

// BoxOfficeMovie is one entry of a yearly domestic box office ranking.
type BoxOfficeMovie struct {
	Year    int     `json:"Year"`
	Rank    int     `json:"Rank"`
	Title   string  `json:"Title"`
	Gross   float64 `json:"Gross"`
	Villain string  `json:"Villain,omitempty"`
	Origin  string  `json:"Origin,omitempty"`
}

// TopMovie is one entry of the IMDB top rated chart.
type TopMovie struct {
	Place    int      `json:"place"`
	Title    string   `json:"movie_title"`
	Rating   float64  `json:"rating"`
	Year     int      `json:"year"`
	Director string   `json:"director"`
	Actors   []string `json:"star_cast"`
}

// Movie is one row of the IMDB movie dataset used by the collaboration analyses.
type Movie struct {
	Title    string
	Year     int
	Director string
	Cast     []string
}

// Credit is a single (director, actor, movie) triple.
type Credit struct {
	Director string
	Actor    string
	Title    string
	Year     int
}

// Collaboration aggregates the movies a director and an actor made together.
type Collaboration struct {
	Director string          `json:"Director"`
	Actor    string          `json:"Actor"`
	Count    int             `json:"Count"`
	Movies   JSONStringSlice `json:"Movies"`
}

// RankedActor is one line of a "1. Firstname Lastname" ranking.
type RankedActor struct {
	Rank int
	Name string
}

// JSONStringSlice is a []string kept as a JSON array in a single CSV cell.
type JSONStringSlice []string

// String renders the slice as a JSON array, the form used in CSV cells.
func (j JSONStringSlice) String() string {
	if j == nil {
		return "[]"
	}
	b, _ := json.Marshal([]string(j))
	return string(b)
}

// ParseJSONStringSlice is the inverse of String.
func ParseJSONStringSlice(s string) (JSONStringSlice, error) {
	var out JSONStringSlice
	if s == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(s), (*[]string)(&out)); err != nil {
		return nil, fmt.Errorf("parsing movie list %q: %w", s, err)
	}
	return out, nil
}
