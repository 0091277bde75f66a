// Package villains classifies box office villains by where they come from
// and relates that to the USA's geopolitical conflicts.
package villains

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"MediaMiner/internal/models"
)

// NonEarthKeywords mark origins that cannot be placed on a map.
var NonEarthKeywords = []string{"Tatooine", "Mars", "Krypton", "Space", "Jupiter", "Venus", "Unknown", "Not on Earth"}

// USAVariants are origins treated as the USA by the conflict classifier.
var USAVariants = []string{
	"USA", "United States", "Haddonfield, Illinois", "112 Ocean Avenue, Amityville, New York",
	"Los Angeles, USA", "New York, USA", "Chicago, USA",
}

func expDecay(years int) float64 {
	return math.Exp(-float64(years))
}

// IsEarthly reports whether origin is set and names no known off-world
// place.
func IsEarthly(origin string) bool {
	if strings.TrimSpace(origin) == "" {
		return false
	}
	for _, kw := range NonEarthKeywords {
		if strings.Contains(origin, kw) {
			return false
		}
	}
	return true
}

// FilterEarthly keeps the movies whose villain comes from Earth.
func FilterEarthly(movies []models.BoxOfficeMovie) []models.BoxOfficeMovie {
	var out []models.BoxOfficeMovie
	for _, m := range movies {
		if IsEarthly(m.Origin) {
			out = append(out, m)
		}
	}
	return out
}

// StandardizeOrigin trims origin and folds Hong Kong into China and England
// into the United Kingdom.
func StandardizeOrigin(origin string) string {
	origin = strings.TrimSpace(origin)
	switch {
	case strings.Contains(origin, "Hong Kong"):
		return "China"
	case strings.Contains(origin, "England"):
		return "United Kingdom"
	}
	return origin
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// Sample is one villain prepared for a classifier.
type Sample struct {
	Title      string
	Year       int
	Origin     string
	Region     string
	InConflict bool
	Decay      float64
}

// ConflictSamples keeps villains from UN member states other than the USA
// and computes their conflict features.
func ConflictSamples(movies []models.BoxOfficeMovie) []Sample {
	var out []Sample
	for _, m := range movies {
		origin := StandardizeOrigin(m.Origin)
		if origin == "" || contains(USAVariants, origin) || !contains(UNCountries, origin) {
			continue
		}
		inConflict, decay := ConflictFeatures(origin, m.Year)
		out = append(out, Sample{
			Title:      m.Title,
			Year:       m.Year,
			Origin:     origin,
			Region:     ClassifierRegion(origin),
			InConflict: inConflict,
			Decay:      decay,
		})
	}
	return out
}

// RegionSamples assigns every villain with an origin to a classifier region
// and flags whether that region was in conflict in the movie's year.
func RegionSamples(movies []models.BoxOfficeMovie) []Sample {
	var out []Sample
	for _, m := range movies {
		origin := strings.TrimSpace(m.Origin)
		if origin == "" {
			continue
		}
		region := ClassifierRegion(origin)
		out = append(out, Sample{
			Title:      m.Title,
			Year:       m.Year,
			Origin:     origin,
			Region:     region,
			InConflict: RegionInConflict(region, m.Year),
		})
	}
	return out
}

// YearRegionCounts counts villains per year and region.
type YearRegionCounts struct {
	Years   []int
	Regions []string
	counts  map[string]map[int]int
}

// CountsByYearRegion groups movies by year and by the region assign returns.
// Movies assigned "" or Other are dropped. Years run over the movies that
// remain.
func CountsByYearRegion(movies []models.BoxOfficeMovie, assign func(string) string) YearRegionCounts {
	c := YearRegionCounts{counts: make(map[string]map[int]int)}
	years := make(map[int]bool)
	for _, m := range movies {
		region := assign(m.Origin)
		if region == "" || region == Other {
			continue
		}
		if c.counts[region] == nil {
			c.counts[region] = make(map[int]int)
			c.Regions = append(c.Regions, region)
		}
		c.counts[region][m.Year]++
		years[m.Year] = true
	}
	for y := range years {
		c.Years = append(c.Years, y)
	}
	sort.Ints(c.Years)
	sort.Strings(c.Regions)
	return c
}

// Count is the number of villains from region in year.
func (c YearRegionCounts) Count(region string, year int) int {
	return c.counts[region][year]
}

// Series returns region's counts aligned with Years.
func (c YearRegionCounts) Series(region string) []float64 {
	out := make([]float64, len(c.Years))
	for i, y := range c.Years {
		out[i] = float64(c.counts[region][y])
	}
	return out
}

// Window is a span of years with an inclusive End.
type Window struct {
	Start, End int
}

// Windows splits [start, end) into windows of width years.
func Windows(start, end, width int) []Window {
	if width <= 0 {
		return nil
	}
	var out []Window
	for y := start; y < end; y += width {
		out = append(out, Window{Start: y, End: y + width - 1})
	}
	return out
}

// Contains reports whether year is in the window.
func (w Window) Contains(year int) bool {
	return w.Start <= year && year <= w.End
}

// Label is "start-end".
func (w Window) Label() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// InWindow returns the movies released during w.
func InWindow(movies []models.BoxOfficeMovie, w Window) []models.BoxOfficeMovie {
	var out []models.BoxOfficeMovie
	for _, m := range movies {
		if w.Contains(m.Year) {
			out = append(out, m)
		}
	}
	return out
}
