// Package imdb scrapes TV series casts, director award histories and the
// top rated chart from IMDB.
package imdb

import (
	"strings"

	"MediaMiner/internal/fetch"
	"MediaMiner/pkg/config"
)

// Scraper fetches IMDB pages over plain HTTP.
type Scraper struct {
	Fetcher *fetch.Fetcher
	Conf    config.IMDBConfig
}

// New creates an IMDB scraper.
func New(f *fetch.Fetcher, conf config.IMDBConfig) *Scraper {
	return &Scraper{Fetcher: f, Conf: conf}
}

func (s *Scraper) absolute(href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	return strings.TrimRight(s.Conf.BaseURL, "/") + "/" + strings.TrimLeft(href, "/")
}
