// Package wiki resolves a villain's place of origin by reading fan wikis and
// Wikipedia.
package wiki

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"MediaMiner/internal/fetch"
	"MediaMiner/internal/models"
	"MediaMiner/utils"

	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
)

var footnoteRegex = regexp.MustCompile(`\[.*?\]`)

// ExtractPlace returns the first known place mentioned in text, or "Unknown".
func ExtractPlace(text string) string {
	if text == "" {
		return models.Unknown
	}
	for _, p := range placePatterns {
		if p.re.MatchString(text) {
			return p.name
		}
	}
	return models.Unknown
}

// Resolver searches an ordered list of wikis.
type Resolver struct {
	Fetcher *fetch.Fetcher
	Sources []string
}

// NewResolver creates a Resolver over sources, searched in order.
func NewResolver(f *fetch.Fetcher, sources []string) *Resolver {
	return &Resolver{Fetcher: f, Sources: sources}
}

// SearchWiki fetches base+term and returns the first place found in a
// paragraph mentioning "country" or "origin". A page that does not exist
// yields "" without error.
func (r *Resolver) SearchWiki(ctx context.Context, base, term string) (string, error) {
	url := base + utils.WikiTerm(term)
	doc, err := r.Fetcher.Document(ctx, url)
	if errors.Is(err, fetch.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	for _, n := range doc.Find("p").Nodes {
		text := nodeText(n)
		lower := strings.ToLower(text)
		if !strings.Contains(lower, "country") && !strings.Contains(lower, "origin") {
			continue
		}
		if place := ExtractPlace(footnoteRegex.ReplaceAllString(text, "")); place != models.Unknown {
			return place, nil
		}
	}
	return "", nil
}

// ResolveOrigin tries every source with the movie title first and the
// villain name second. Failing sources are logged and skipped. It returns
// "" when nothing is found.
func (r *Resolver) ResolveOrigin(ctx context.Context, movie, villain string) string {
	for _, base := range r.Sources {
		for _, term := range []string{movie, villain} {
			if strings.TrimSpace(term) == "" {
				continue
			}
			place, err := r.SearchWiki(ctx, base, term)
			if err != nil {
				log.Warn().Err(err).Str("source", base).Str("term", term).Msg("wiki search failed")
				if ctx.Err() != nil {
					return ""
				}
				continue
			}
			if place != "" {
				return place
			}
		}
	}
	return ""
}

// ResolveOrigins fills Origin on movies whose origin is empty or "Unknown"
// and whose villain is known. It returns how many origins were found.
func (r *Resolver) ResolveOrigins(ctx context.Context, movies []models.BoxOfficeMovie) (int, error) {
	found := 0
	for i := range movies {
		m := &movies[i]
		if m.Origin != "" && m.Origin != models.Unknown {
			continue
		}
		if m.Villain == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return found, err
		}
		log.Info().Str("movie", m.Title).Str("villain", m.Villain).Msg("processing movie")
		origin := r.ResolveOrigin(ctx, m.Title, m.Villain)
		if origin == "" {
			log.Info().Str("movie", m.Title).Str("villain", m.Villain).Msg("no origin found")
			continue
		}
		log.Info().Str("movie", m.Title).Str("villain", m.Villain).Str("origin", origin).Msg("found origin")
		m.Origin = origin
		found++
	}
	return found, nil
}

// nodeText concatenates the text nodes below n.
func nodeText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
