package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ScraperConfig holds general scraper settings.
type ScraperConfig struct {
	Workers        string        `yaml:"workers"`
	Headless       bool          `yaml:"headless"`
	UserAgent      string        `yaml:"user_agent"`
	AcceptLanguage string        `yaml:"accept_language"`
	Delay          time.Duration `yaml:"delay"`
	Timeout        time.Duration `yaml:"timeout"`
}

// RetryConfig controls how transient fetch failures are retried.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Jitter     float64       `yaml:"jitter"`
}

// IMDBConfig holds settings specific to IMDB.
type IMDBConfig struct {
	BaseURL       string            `yaml:"base_url"`
	TVSearchURL   string            `yaml:"tv_search_url"`
	TopChartURL   string            `yaml:"top_chart_url"`
	NumShows      int               `yaml:"num_shows"`
	NumCharacters int               `yaml:"num_characters"`
	Directors     map[string]string `yaml:"directors"`
}

// BoxOfficeConfig holds settings for the yearly box office tables.
type BoxOfficeConfig struct {
	BaseURL   string `yaml:"base_url"`
	FirstYear int    `yaml:"first_year"`
	LastYear  int    `yaml:"last_year"`
	TopN      int    `yaml:"top_n"`
}

// SuperheroDBConfig holds settings for the villain listing site.
type SuperheroDBConfig struct {
	BaseURL     string `yaml:"base_url"`
	MalePages   int    `yaml:"male_pages"`
	FemalePages int    `yaml:"female_pages"`
}

// WikiConfig lists the wikis searched for villain origins, in order.
type WikiConfig struct {
	Sources []string `yaml:"sources"`
}

// GeocoderConfig holds settings for the Nominatim geocoder.
type GeocoderConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`
}

// PathsConfig locates inputs and outputs on disk.
type PathsConfig struct {
	DataDir      string `yaml:"data_dir"`
	OutputDir    string `yaml:"output_dir"`
	Database     string `yaml:"database"`
	BabyNamesDir string `yaml:"babynames_dir"`
	WorldGeoJSON string `yaml:"world_geojson"`
}

// AnalysisConfig holds the knobs of the analysis tasks.
type AnalysisConfig struct {
	FirstYear         int     `yaml:"first_year"`
	LastYear          int     `yaml:"last_year"`
	Window            int     `yaml:"window"`
	FrequentThreshold int     `yaml:"frequent_threshold"`
	MinDirectorFilms  int     `yaml:"min_director_films"`
	TopDirectors      int     `yaml:"top_directors"`
	Resolution        float64 `yaml:"resolution"`
	Seed              int64   `yaml:"seed"`
}

// Config is the complete structure for the config.yml file.
type Config struct {
	Scraper     ScraperConfig     `yaml:"scraper"`
	Retry       RetryConfig       `yaml:"retry"`
	IMDB        IMDBConfig        `yaml:"imdb"`
	BoxOffice   BoxOfficeConfig   `yaml:"boxoffice"`
	SuperheroDB SuperheroDBConfig `yaml:"superherodb"`
	Wiki        WikiConfig        `yaml:"wiki"`
	Geocoder    GeocoderConfig    `yaml:"geocoder"`
	Paths       PathsConfig       `yaml:"paths"`
	Analysis    AnalysisConfig    `yaml:"analysis"`
}

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// Default returns the configuration used when no file overrides a value.
func Default() *Config {
	return &Config{
		Scraper: ScraperConfig{
			Workers:        "auto",
			Headless:       true,
			UserAgent:      defaultUserAgent,
			AcceptLanguage: "en-US,en;q=0.5",
			Delay:          2 * time.Second,
			Timeout:        30 * time.Second,
		},
		Retry: RetryConfig{
			MaxRetries: 3,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
			Jitter:     0.5,
		},
		IMDB: IMDBConfig{
			BaseURL:       "https://www.imdb.com",
			TVSearchURL:   "https://www.imdb.com/search/title/?title_type=tv_series&sort=num_votes,desc",
			TopChartURL:   "https://www.imdb.com/chart/top",
			NumShows:      10,
			NumCharacters: 6,
			Directors:     DefaultDirectors(),
		},
		BoxOffice: BoxOfficeConfig{
			BaseURL:   "https://www.boxofficemojo.com",
			FirstYear: 1977,
			LastYear:  2023,
			TopN:      10,
		},
		SuperheroDB: SuperheroDBConfig{
			BaseURL:     "https://www.superherodb.com",
			MalePages:   18,
			FemalePages: 5,
		},
		Wiki: WikiConfig{
			Sources: []string{
				"https://villains.fandom.com/wiki/",
				"https://hero.fandom.com/wiki/",
				"https://en.wikipedia.org/wiki/",
			},
		},
		Geocoder: GeocoderConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "villain_locator",
			Timeout:   10 * time.Second,
		},
		Paths: PathsConfig{
			DataDir:      "data",
			OutputDir:    "output",
			Database:     "miner.db",
			BabyNamesDir: "data/babynames",
			WorldGeoJSON: "data/ne_110m_admin_0_countries.geojson",
		},
		Analysis: AnalysisConfig{
			FirstYear:         1900,
			LastYear:          2023,
			Window:            7,
			FrequentThreshold: 3,
			MinDirectorFilms:  20,
			TopDirectors:      15,
			Resolution:        1,
			Seed:              42,
		},
	}
}

// DefaultDirectors maps the studied directors to their IMDB awards pages.
func DefaultDirectors() map[string]string {
	return map[string]string{
		"Clint Eastwood":       "https://www.imdb.com/name/nm0000142/awards/",
		"Martin Scorsese":      "https://www.imdb.com/name/nm0000217/awards/",
		"Francis Ford Coppola": "https://www.imdb.com/name/nm0000338/awards/",
		"Tim Burton":           "https://www.imdb.com/name/nm0000318/awards/",
		"Renny Harlin":         "https://www.imdb.com/name/nm0001317/awards/",
		"Alfred Hitchcock":     "https://www.imdb.com/name/nm0000033/awards/",
		"Ron Howard":           "https://www.imdb.com/name/nm0000165/awards/",
		"Ridley Scott":         "https://www.imdb.com/name/nm0000631/awards/",
		"Steven Spielberg":     "https://www.imdb.com/name/nm0000229/awards/",
		"Woody Allen":          "https://www.imdb.com/name/nm0000095/awards/",
		"Robert Zemeckis":      "https://www.imdb.com/name/nm0000709/awards/",
		"Steven Soderbergh":    "https://www.imdb.com/name/nm0001752/awards/",
	}
}

// LoadConfig decodes path over the defaults, then <name>.local.<ext> over
// that if it exists. Keys a file leaves out keep their value, so false and
// zero settings apply. A missing base file is not an error.
//
// A directors map in config.yml replaces the default list; one in the local
// file is merged into it.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()

	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	if data != nil {
		directors, err := decodeOnto(cfg, path, data)
		if err != nil {
			return nil, err
		}
		if directors != nil {
			cfg.IMDB.Directors = directors
		}
	} else {
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	}

	localPath := LocalPath(path)
	data, err = readFile(localPath)
	if err != nil {
		return nil, err
	}
	if data != nil {
		directors, err := decodeOnto(cfg, localPath, data)
		if err != nil {
			return nil, err
		}
		if directors != nil {
			if err := mergo.Merge(&cfg.IMDB.Directors, directors, mergo.WithOverride); err != nil {
				return nil, fmt.Errorf("merging directors from %s: %w", localPath, err)
			}
		}
		log.Info().Str("local", localPath).Msg("merging config with local overrides")
	}

	return cfg, nil
}

// LocalPath derives the override file name, e.g. config.yml -> config.local.yml.
func LocalPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return data, nil
}

// decodeOnto unmarshals data over cfg and returns the directors it lists
// without touching cfg's own map.
func decodeOnto(cfg *Config, path string, data []byte) (map[string]string, error) {
	current := cfg.IMDB.Directors
	cfg.IMDB.Directors = nil
	err := yaml.Unmarshal(data, cfg)
	listed := cfg.IMDB.Directors
	cfg.IMDB.Directors = current
	if err != nil {
		return nil, fmt.Errorf("unmarshalling config YAML %s: %w", path, err)
	}
	return listed, nil
}

// OutputPath joins name onto the configured output directory.
func (c *Config) OutputPath(name string) string {
	return filepath.Join(c.Paths.OutputDir, name)
}

// DataPath joins name onto the configured data directory.
func (c *Config) DataPath(name string) string {
	return filepath.Join(c.Paths.DataDir, name)
}
