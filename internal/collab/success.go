package collab

import (
	"sort"
	"strings"

	"MediaMiner/internal/models"

	"github.com/antzucaro/matchr"
)

// titleSimilarity is the Jaro-Winkler score above which two titles are the
// same film.
const titleSimilarity = 0.93

// SuccessOptions filters the directors compared by DirectorSuccess.
type SuccessOptions struct {
	MinFrequent    int
	MinNonFrequent int
	TopN           int
}

// DefaultSuccessOptions keeps directors with 2 frequent and 1 non-frequent
// box office hit and reports the best 15.
func DefaultSuccessOptions() SuccessOptions {
	return SuccessOptions{MinFrequent: 2, MinNonFrequent: 1, TopN: 15}
}

// Hit is a collaboration movie found in the box office rankings.
type Hit struct {
	Director string
	Title    string
	Gross    float64
	Frequent bool
}

// DirectorGross compares a director's average gross, in millions.
type DirectorGross struct {
	Director    string  `json:"director"`
	Frequent    float64 `json:"frequent"`
	NonFrequent float64 `json:"non_frequent"`
	Overall     float64 `json:"overall"`
}

// SuccessReport is the result of DirectorSuccess.
type SuccessReport struct {
	Directors       []DirectorGross `json:"directors"`
	FrequentMean    float64         `json:"frequent_mean"`
	NonFrequentMean float64         `json:"non_frequent_mean"`
}

// TitleMatches reports whether a collaboration movie and a box office title
// name the same film.
func TitleMatches(boxOfficeTitle, movie string) bool {
	a := strings.ToLower(strings.TrimSpace(boxOfficeTitle))
	b := strings.ToLower(strings.TrimSpace(movie))
	if a == "" || b == "" {
		return false
	}
	if strings.Contains(a, b) {
		return true
	}
	return matchr.JaroWinkler(a, b, false) >= titleSimilarity
}

// MatchBoxOffice returns one Hit per (collaboration movie, box office row)
// that match.
func MatchBoxOffice(collabs []models.Collaboration, boxOffice []models.BoxOfficeMovie, frequent bool) []Hit {
	var out []Hit
	for _, c := range collabs {
		for _, movie := range c.Movies {
			for _, bo := range boxOffice {
				if TitleMatches(bo.Title, movie) {
					out = append(out, Hit{Director: c.Director, Title: bo.Title, Gross: bo.Gross, Frequent: frequent})
				}
			}
		}
	}
	return out
}

// DirectorSuccess compares the box office gross of films a director made
// with frequent collaborators against the rest.
func DirectorSuccess(frequent, nonFrequent []models.Collaboration, boxOffice []models.BoxOfficeMovie, opts SuccessOptions) SuccessReport {
	hits := append(MatchBoxOffice(frequent, boxOffice, true), MatchBoxOffice(nonFrequent, boxOffice, false)...)

	type sums struct {
		freqN, nonN     int
		freqSum, nonSum float64
	}
	byDirector := make(map[string]*sums)
	for _, h := range hits {
		s := byDirector[h.Director]
		if s == nil {
			s = &sums{}
			byDirector[h.Director] = s
		}
		if h.Frequent {
			s.freqN++
			s.freqSum += h.Gross
		} else {
			s.nonN++
			s.nonSum += h.Gross
		}
	}

	var rows []DirectorGross
	for director, s := range byDirector {
		if s.freqN < opts.MinFrequent || s.nonN < opts.MinNonFrequent {
			continue
		}
		row := DirectorGross{
			Director: director,
			Overall:  (s.freqSum + s.nonSum) / float64(s.freqN+s.nonN) / 1e6,
		}
		if s.freqN > 0 {
			row.Frequent = s.freqSum / float64(s.freqN) / 1e6
		}
		if s.nonN > 0 {
			row.NonFrequent = s.nonSum / float64(s.nonN) / 1e6
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Overall != rows[j].Overall {
			return rows[i].Overall > rows[j].Overall
		}
		return rows[i].Director < rows[j].Director
	})
	if opts.TopN > 0 && len(rows) > opts.TopN {
		rows = rows[:opts.TopN]
	}

	report := SuccessReport{Directors: rows}
	var freqN, nonN int
	for _, r := range rows {
		s := byDirector[r.Director]
		if s.freqN > 0 {
			report.FrequentMean += r.Frequent
			freqN++
		}
		if s.nonN > 0 {
			report.NonFrequentMean += r.NonFrequent
			nonN++
		}
	}
	if freqN > 0 {
		report.FrequentMean /= float64(freqN)
	}
	if nonN > 0 {
		report.NonFrequentMean /= float64(nonN)
	}
	return report
}

// StarCounts is a director × lead star matrix for a stacked bar chart.
type StarCounts struct {
	Directors []string
	Stars     []string
	// Counts[i][j] is the number of films director i made with star j.
	Counts [][]int
}

// DirectorStarCounts counts each director's films by lead star, the first
// credited cast member, for the topN directors with the most films.
func DirectorStarCounts(movies []models.Movie, topN int) StarCounts {
	films := make(map[string]int)
	pairs := make(map[string]map[string]int)
	for _, m := range movies {
		if m.Director == "" || len(m.Cast) == 0 {
			continue
		}
		films[m.Director]++
		if pairs[m.Director] == nil {
			pairs[m.Director] = make(map[string]int)
		}
		pairs[m.Director][m.Cast[0]]++
	}

	directors := make([]string, 0, len(films))
	for d := range films {
		directors = append(directors, d)
	}
	sort.Slice(directors, func(i, j int) bool {
		if films[directors[i]] != films[directors[j]] {
			return films[directors[i]] > films[directors[j]]
		}
		return directors[i] < directors[j]
	})
	if topN > 0 && len(directors) > topN {
		directors = directors[:topN]
	}

	starSet := make(map[string]bool)
	for _, d := range directors {
		for star := range pairs[d] {
			starSet[star] = true
		}
	}
	stars := make([]string, 0, len(starSet))
	for s := range starSet {
		stars = append(stars, s)
	}
	sort.Strings(stars)

	counts := make([][]int, len(directors))
	for i, d := range directors {
		counts[i] = make([]int, len(stars))
		for j, s := range stars {
			counts[i][j] = pairs[d][s]
		}
	}
	return StarCounts{Directors: directors, Stars: stars, Counts: counts}
}
