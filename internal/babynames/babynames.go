// Package babynames measures how the popularity of a first name changes after
// a TV show with a character of that name debuts.
package babynames

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"MediaMiner/internal/models"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/rs/zerolog/log"
)

// ErrNoData is returned when too few names are left to analyse.
var ErrNoData = errors.New("babynames: not enough data")

// Table holds yearly birth counts per name with both genders summed.
type Table struct {
	First, Last int
	years       map[int]map[string]int
}

// NewTable builds a Table from already loaded counts.
func NewTable(first, last int, years map[int]map[string]int) *Table {
	if years == nil {
		years = make(map[int]map[string]int)
	}
	return &Table{First: first, Last: last, years: years}
}

// Load reads yob<YEAR>.txt files for first..last from dir. Years without a
// file are left out of the table.
func Load(dir string, first, last int) (*Table, error) {
	t := NewTable(first, last, nil)
	for year := first; year <= last; year++ {
		path := filepath.Join(dir, fmt.Sprintf("yob%d.txt", year))
		counts, err := LoadYear(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}
		t.years[year] = counts
	}
	if len(t.years) == 0 {
		return nil, fmt.Errorf("no yob files for %d-%d in %s: %w", first, last, dir, ErrNoData)
	}
	log.Info().Int("years", len(t.years)).Str("dir", dir).Msg("baby names loaded")
	return t, nil
}

// LoadYear reads one name,gender,count file without a header.
func LoadYear(path string) (map[string]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(false),
		dataframe.Names("name", "gender", "count"),
		dataframe.WithTypes(map[string]series.Type{
			"name":   series.String,
			"gender": series.String,
			"count":  series.Int,
		}),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, df.Err)
	}
	names := df.Col("name").Records()
	values, err := df.Col("count").Int()
	if err != nil {
		return nil, fmt.Errorf("reading counts in %s: %w", path, err)
	}

	counts := make(map[string]int, len(names))
	for i, name := range names {
		counts[name] += values[i]
	}
	return counts, nil
}

// Years returns the loaded years in order.
func (t *Table) Years() []int {
	out := make([]int, 0, len(t.years))
	for y := range t.years {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// Count is the number of babies named name in year, 0 when unknown.
func (t *Table) Count(name string, year int) int {
	return t.years[year][name]
}

// Counts returns one value per year from start to end inclusive.
func (t *Table) Counts(name string, start, end int) []int {
	if end < start {
		return []int{}
	}
	out := make([]int, 0, end-start+1)
	for y := start; y <= end; y++ {
		out = append(out, t.Count(name, y))
	}
	return out
}

// afterDebut is the average count over the window years that follow debut.
// The window stops at the table's last year.
func (t *Table) afterDebut(name string, debut, window int) float64 {
	end := debut + window
	if end > t.Last {
		end = t.Last
	}
	counts := t.Counts(name, debut+1, end)
	if len(counts) == 0 {
		return 0
	}
	sum := 0
	for _, c := range counts {
		sum += c
	}
	return float64(sum) / float64(len(counts))
}

// PercentageJump compares the debut year count with the average of the
// following window years. It is 0 when nobody had the name at debut.
func (t *Table) PercentageJump(name string, debut, window int) float64 {
	d := t.Count(name, debut)
	if d <= 0 {
		return 0
	}
	a := t.afterDebut(name, debut, window)
	return (a - float64(d)) / float64(d) * 100
}

// FirstName is the first whitespace separated token of a character name.
func FirstName(character string) string {
	fields := strings.Fields(character)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// NameStat describes one character name around its show's debut.
type NameStat struct {
	Name       string
	Show       string
	Debut      int
	DebutCount int
	AvgAfter   float64
	Jump       float64
}

// Stats returns a NameStat for every character of shows, in order.
func (t *Table) Stats(shows []models.TVShow, window int) []NameStat {
	var out []NameStat
	for _, show := range shows {
		for _, character := range show.Characters {
			name := FirstName(character)
			if name == "" {
				continue
			}
			out = append(out, NameStat{
				Name:       name,
				Show:       show.Name,
				Debut:      show.ReleaseYear,
				DebutCount: t.Count(name, show.ReleaseYear),
				AvgAfter:   t.afterDebut(name, show.ReleaseYear, window),
				Jump:       t.PercentageJump(name, show.ReleaseYear, window),
			})
		}
	}
	return out
}
