package villains

import (
	"regexp"
	"strings"
)

// Region is a named group of origin terms.
type Region struct {
	Name  string
	Terms []string
}

// Conflict is a period of tension between a region and the USA. End is
// inclusive.
type Conflict struct {
	Start, End int
	Event      string
}

// Contains reports whether year falls inside the conflict.
func (c Conflict) Contains(year int) bool {
	return c.Start <= year && year <= c.End
}

// TrendRegions are matched by plain substring, in order.
var TrendRegions = []Region{
	{"USA", []string{"USA", "United States", "America"}},
	{"Russia", []string{"Russia", "USSR", "Soviet Union"}},
	{"Europe", []string{"UK", "Germany", "France", "Italy", "Spain", "Europe"}},
	{"Islamic Countries", []string{"Iran", "Iraq", "Afghanistan", "Syria", "Pakistan", "Islamic"}},
	{"China", []string{"China"}},
	{"Korea", []string{"Korea", "North Korea", "South Korea"}},
}

// GeopoliticalRegions are matched on word boundaries ignoring case.
var GeopoliticalRegions = []Region{
	{"Islamic Countries", []string{"iran", "iraq", "afghanistan", "syria", "pakistan", "saudi", "egypt", "turkey", "libya", "islamic", "arab"}},
	{"Communist Asia", []string{"china", "north korea"}},
	{"USA", []string{"united states", "usa", "u.s.", "america", "gotham", "new york", "california", "texas", "illinois", "los angeles", "boston", "amityville", "haddonfield", "metropolis", "smallville", "derry", "maine"}},
	{"Russian/Ukrainian", []string{"russia", "russian", "ussr", "soviet", "ukraine", "ukrainian", "stalingrad", "moscow", "kyiv", "kiev"}},
}

// ClassifierRegions require the origin to equal one of the terms.
var ClassifierRegions = []Region{
	{"Islamic Countries", []string{"Iran", "Iraq", "Afghanistan", "Syria", "Pakistan", "Saudi Arabia", "Egypt", "Turkey", "Libya", "Islamic"}},
	{"Communist Asia", []string{"China", "North Korea"}},
	{"Russian/Ukrainian", []string{"Russia", "USSR", "Soviet Union", "Ukraine", "Stalingrad", "Moscow", "Kyiv"}},
}

// Other is the region of origins no table claims.
const Other = "Other"

// Conflicts lists the periods of tension per region.
var Conflicts = map[string][]Conflict{
	"Islamic Countries": {
		{1979, 1981, "Iran Hostage Crisis"},
		{1991, 1993, "Gulf War"},
		{2001, 2001, "9/11 Attacks"},
		{2002, 2015, "Iraq and Afghanistan Wars"},
	},
	"USA": {
		{1980, 1985, "Cold War Tension"},
		{2001, 2001, "9/11 Attacks"},
		{2002, 2015, "Iraq and Afghanistan Wars"},
		{2020, 2024, "China Marked as Greatest Threat to the USA"},
	},
	"Communist Asia": {
		{2006, 2018, "North Korea Nuclear Threat"},
		{2020, 2024, "China Marked as Greatest Threat to the USA"},
	},
	"Russian/Ukrainian": {
		{1980, 1985, "Cold War Tension"},
		{2014, 2016, "Ukraine Crisis"},
		{2022, 2024, "Russia-Ukraine Conflict"},
	},
}

// TrendRegion returns the first trend region with a term inside origin, or
// "" when there is none.
func TrendRegion(origin string) string {
	for _, r := range TrendRegions {
		for _, term := range r.Terms {
			if strings.Contains(origin, term) {
				return r.Name
			}
		}
	}
	return ""
}

type regionPattern struct {
	name string
	res  []*regexp.Regexp
}

var geopoliticalPatterns = func() []regionPattern {
	out := make([]regionPattern, 0, len(GeopoliticalRegions))
	for _, r := range GeopoliticalRegions {
		p := regionPattern{name: r.Name}
		for _, term := range r.Terms {
			p.res = append(p.res, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(term)+`\b`))
		}
		out = append(out, p)
	}
	return out
}()

// GeopoliticalRegion returns the first geopolitical region with a term in
// origin, or Other.
func GeopoliticalRegion(origin string) string {
	for _, p := range geopoliticalPatterns {
		for _, re := range p.res {
			if re.MatchString(origin) {
				return p.name
			}
		}
	}
	return Other
}

// ClassifierRegion returns the classifier region listing origin exactly, or
// Other.
func ClassifierRegion(origin string) string {
	for _, r := range ClassifierRegions {
		for _, term := range r.Terms {
			if origin == term {
				return r.Name
			}
		}
	}
	return Other
}

// RegionInConflict reports whether region had a conflict running in year.
func RegionInConflict(region string, year int) bool {
	for _, c := range Conflicts[region] {
		if c.Contains(year) {
			return true
		}
	}
	return false
}

// ConflictFeatures describes a classifier origin in a given year: whether
// one of its region's conflicts is running, and the sum of exp(-(year-end))
// over conflicts that already ended.
func ConflictFeatures(origin string, year int) (bool, float64) {
	region := ClassifierRegion(origin)
	if region == Other {
		return false, 0
	}
	var (
		inConflict bool
		decay      float64
	)
	for _, c := range Conflicts[region] {
		switch {
		case c.Contains(year):
			inConflict = true
		case year > c.End:
			decay += expDecay(year - c.End)
		}
	}
	return inConflict, decay
}
