package utils

import (
	"regexp"
	"strings"
)

// UniqueStrings returns slice without duplicates, keeping first occurrences in order.
func UniqueStrings(slice []string) []string {
	keys := make(map[string]bool)
	uniqueSlice := []string{}
	for _, entry := range slice {
		if _, value := keys[entry]; !value {
			keys[entry] = true
			uniqueSlice = append(uniqueSlice, entry)
		}
	}
	return uniqueSlice
}

// slugRegex matches any character that is NOT a letter, a number, or a hyphen.
var slugRegex = regexp.MustCompile(`[^\p{L}\p{N}-]+`)

var dashRuns = regexp.MustCompile(`-{2,}`)

// CreateSlug turns a title into a lowercase file-name friendly slug.
func CreateSlug(title string) string {
	slug := strings.ReplaceAll(strings.TrimSpace(title), " ", "-")
	slug = slugRegex.ReplaceAllString(slug, "")
	slug = dashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(strings.ToLower(slug), "-")
}

// WikiTerm formats a search term the way wiki page names are written.
func WikiTerm(term string) string {
	return strings.ReplaceAll(strings.TrimSpace(term), " ", "_")
}
