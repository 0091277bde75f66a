package utils

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// grossRegex finds the first number in a money string, e.g. "$1,079.00" or "US$ 219.41".
var grossRegex = regexp.MustCompile(`[\d,]+(?:\.\d+)?`)

// ParseGross cleans a box office figure and converts it to a float64.
// Anything without a number yields 0.
func ParseGross(s string) float64 {
	if s == "" {
		return 0.0
	}

	found := grossRegex.FindString(s)
	if found == "" {
		return 0.0
	}

	cleaned := strings.ReplaceAll(found, ",", "")
	if cleaned == "" {
		return 0.0
	}

	gross, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		log.Debug().Err(err).Str("input", s).Msg("ParseGross: could not parse number")
		return 0.0
	}
	return gross
}

// yearRegex matches a four digit year between 1800 and 2099.
var yearRegex = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

// ParseYear returns the first plausible year in s, or 0.
func ParseYear(s string) int {
	m := yearRegex.FindString(s)
	if m == "" {
		return 0
	}
	y, _ := strconv.Atoi(m)
	return y
}
