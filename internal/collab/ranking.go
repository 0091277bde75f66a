package collab

import (
	"bufio"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"MediaMiner/internal/models"
)

// Categories of CrossReference.
const (
	Red  = "Red"
	Blue = "Blue"
)

var rankedLineRegex = regexp.MustCompile(`^(\d+)\.\s([A-Z][a-z]+(?:\s[A-Z][a-z]+)*)`)

// ParseRankedList extracts "12. Firstname Lastname" lines. When a name is
// listed twice the last rank wins. The result is ordered by rank.
func ParseRankedList(text string) []models.RankedActor {
	ranks := make(map[string]int)
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		m := rankedLineRegex.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		rank, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ranks[m[2]] = rank
	}

	out := make([]models.RankedActor, 0, len(ranks))
	for name, rank := range ranks {
		out = append(out, models.RankedActor{Rank: rank, Name: name})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CategorizedActor is a ranked actor found in the collaboration lists.
type CategorizedActor struct {
	models.RankedActor
	Category string
}

// CrossReference keeps the ranked actors that appear in either list, in
// rank order. Actors who worked with some director frequently are Red even
// if they also appear in nonFrequent.
func CrossReference(ranked []models.RankedActor, frequent, nonFrequent []models.Collaboration) []CategorizedActor {
	red := actorSet(frequent)
	blue := actorSet(nonFrequent)

	var out []CategorizedActor
	for _, r := range ranked {
		switch {
		case red[r.Name]:
			out = append(out, CategorizedActor{RankedActor: r, Category: Red})
		case blue[r.Name]:
			out = append(out, CategorizedActor{RankedActor: r, Category: Blue})
		}
	}
	return out
}

func actorSet(collabs []models.Collaboration) map[string]bool {
	set := make(map[string]bool, len(collabs))
	for _, c := range collabs {
		set[c.Actor] = true
	}
	return set
}

// ActorCount is how many films an actor made with a director.
type ActorCount struct {
	Actor string
	Count int
}

// TopActors returns the n actors credited most often with director. Ties
// are broken by name.
func TopActors(credits []models.Credit, director string, n int) []ActorCount {
	counts := make(map[string]int)
	for _, c := range credits {
		if c.Director == director {
			counts[c.Actor]++
		}
	}
	out := make([]ActorCount, 0, len(counts))
	for actor, count := range counts {
		out = append(out, ActorCount{Actor: actor, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Actor < out[j].Actor
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Bin is the total for the interval starting at Start.
type Bin struct {
	Start int
	Count int
}

// BinByInterval counts years per interval of width years, e.g. 1997 falls
// in 1995 for width 5. Bins are sorted.
func BinByInterval(years []int, width int) []Bin {
	weights := make([]int, len(years))
	for i := range weights {
		weights[i] = 1
	}
	return binWeighted(years, weights, width)
}

func binWeighted(years, weights []int, width int) []Bin {
	if width <= 0 {
		width = 1
	}
	sums := make(map[int]int)
	for i, y := range years {
		sums[(y/width)*width] += weights[i]
	}
	out := make([]Bin, 0, len(sums))
	for start, count := range sums {
		out = append(out, Bin{Start: start, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start < out[j].Start })
	return out
}

// ActorIntervals bins the films actor made with director.
func ActorIntervals(credits []models.Credit, director, actor string, width int) []Bin {
	var years []int
	for _, c := range credits {
		if c.Director == director && c.Actor == actor && c.Year > 0 {
			years = append(years, c.Year)
		}
	}
	return BinByInterval(years, width)
}

// AwardsByInterval sums a director's award counts per interval. Rows whose
// year is not a number are dropped.
func AwardsByInterval(counts []models.AwardCount, director string, width int) []Bin {
	var years, weights []int
	for _, c := range counts {
		if c.Director != director {
			continue
		}
		year, err := strconv.Atoi(strings.TrimSpace(c.Year))
		if err != nil {
			continue
		}
		years = append(years, year)
		weights = append(weights, c.Count)
	}
	return binWeighted(years, weights, width)
}
