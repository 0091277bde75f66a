package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseGross(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected float64
	}{
		{"Dollar Amount", "$1,079,000", 1079000},
		{"Decimals", "$2,550.50", 2550.50},
		{"No Comma", "$350", 350},
		{"Prefixed", "US$ 219.41", 219.41},
		{"Empty String", "", 0},
		{"Invalid String", "n/a", 0},
		{"Only Commas", ",,,", 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseGross(tc.input))
		})
	}
}

func TestParseYear(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"2008–2013", 2008},
		{"(1994)", 1994},
		{"Star Wars: Episode IV", 0},
		{"", 0},
		{"released 2023 in cinemas", 2023},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, ParseYear(tc.input))
		})
	}
}
