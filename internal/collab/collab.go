// Package collab studies how often directors work with the same actors.
package collab

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"MediaMiner/internal/export"
	"MediaMiner/internal/models"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
)

// LoadMovies reads the IMDB movie dataset. Only the Title, Year, Director and
// Cast columns are used; Cast is a ", " separated list.
func LoadMovies(path string) ([]models.Movie, error) {
	rows, err := export.ReadRows(path)
	if err != nil {
		return nil, err
	}
	movies := make([]models.Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, models.Movie{
			Title:    strings.TrimSpace(row["Title"]),
			Year:     utils.ParseYear(row["Year"]),
			Director: strings.TrimSpace(row["Director"]),
			Cast:     SplitCast(row["Cast"]),
		})
	}
	log.Info().Str("path", path).Int("movies", len(movies)).Msg("movie dataset loaded")
	return movies, nil
}

// SplitCast splits a ", " separated cast list, dropping blanks.
func SplitCast(s string) []string {
	var out []string
	for _, name := range strings.Split(s, ",") {
		if name = strings.TrimSpace(name); name != "" {
			out = append(out, name)
		}
	}
	return out
}

// Explode returns one credit per cast member. Movies without a director are
// skipped.
func Explode(movies []models.Movie) []models.Credit {
	var out []models.Credit
	for _, m := range movies {
		if m.Director == "" {
			continue
		}
		for _, actor := range m.Cast {
			out = append(out, models.Credit{Director: m.Director, Actor: actor, Title: m.Title, Year: m.Year})
		}
	}
	return out
}

// Collaborations groups credits by director and actor, sorted by both.
func Collaborations(credits []models.Credit) []models.Collaboration {
	type key struct{ director, actor string }
	index := make(map[key]int)
	var out []models.Collaboration
	for _, c := range credits {
		k := key{c.Director, c.Actor}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, models.Collaboration{Director: c.Director, Actor: c.Actor, Movies: models.JSONStringSlice{}})
		}
		out[i].Count++
		out[i].Movies = append(out[i].Movies, c.Title)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Director != out[j].Director {
			return out[i].Director < out[j].Director
		}
		return out[i].Actor < out[j].Actor
	})
	return out
}

// SplitFrequent separates pairs that worked together at least threshold
// times from the rest.
func SplitFrequent(collabs []models.Collaboration, threshold int) (frequent, nonFrequent []models.Collaboration) {
	for _, c := range collabs {
		if c.Count >= threshold {
			frequent = append(frequent, c)
		} else {
			nonFrequent = append(nonFrequent, c)
		}
	}
	return frequent, nonFrequent
}

var collabHeader = []string{"Director", "Actor/Actress", "Count", "Movies"}

// WriteCollaborations saves collabs with the movie list as a JSON array.
func WriteCollaborations(path string, collabs []models.Collaboration) error {
	rows := make([][]string, 0, len(collabs))
	for _, c := range collabs {
		rows = append(rows, []string{c.Director, c.Actor, strconv.Itoa(c.Count), c.Movies.String()})
	}
	return export.WriteCSV(path, collabHeader, rows)
}

// LoadCollaborations reads a file written by WriteCollaborations. A missing
// Count column is derived from the movie list.
func LoadCollaborations(path string) ([]models.Collaboration, error) {
	rows, err := export.ReadRows(path)
	if err != nil {
		return nil, err
	}
	out := make([]models.Collaboration, 0, len(rows))
	for i, row := range rows {
		movies, err := models.ParseJSONStringSlice(row["Movies"])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+2, err)
		}
		count, err := strconv.Atoi(row["Count"])
		if err != nil {
			count = len(movies)
		}
		out = append(out, models.Collaboration{
			Director: row["Director"],
			Actor:    row["Actor/Actress"],
			Count:    count,
			Movies:   movies,
		})
	}
	return out, nil
}
