package heatmap

import (
	"fmt"
	"image/color"
	"path/filepath"

	"MediaMiner/internal/chart"
	"MediaMiner/internal/villains"

	"github.com/paulmach/orb"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/brewer"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Render draws the density of points over world and saves it to path.
// world may be nil.
func Render(path, title string, points []orb.Point, world *World, opts Options) error {
	grid, err := KDE(points, opts)
	if err != nil {
		return err
	}
	peak := grid.Peak()
	log.Debug().Str("path", path).Int("points", len(points)).Float64("peak_lon", peak.Lon()).Float64("peak_lat", peak.Lat()).Msg("density estimated")
	reds, err := brewer.GetPalette(brewer.TypeSequential, "Reds", 9)
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	hm := plotter.NewHeatMap(grid, reds)
	hm.NaN = color.Transparent
	hm.Min = 0
	p.Add(hm)
	if world != nil {
		lines, err := world.Lines()
		if err != nil {
			return fmt.Errorf("drawing boundaries: %w", err)
		}
		for _, l := range lines {
			p.Add(l)
		}
	}
	p.X.Min, p.X.Max = MinLon, MaxLon
	p.Y.Min, p.Y.Max = MinLat, MaxLat
	p.HideAxes()
	return chart.Save(p, path, 20*vg.Inch, 10*vg.Inch)
}

// Located is a geocoded origin with the release year of its movie.
type Located struct {
	Year  int
	Point orb.Point
}

// Decades renders one heatmap per window into dir and returns the written
// paths. Windows with one point or none are skipped.
func Decades(dir string, located []Located, windows []villains.Window, world *World, opts Options) ([]string, error) {
	var written []string
	for _, w := range windows {
		var pts []orb.Point
		for _, l := range located {
			if w.Contains(l.Year) {
				pts = append(pts, l.Point)
			}
		}
		if len(pts) <= 1 {
			log.Info().Str("window", w.Label()).Int("points", len(pts)).Msg("Skipping heatmap due to insufficient data points")
			continue
		}
		path := filepath.Join(dir, fmt.Sprintf("villains_origin_heatmap_%d_%d.png", w.Start, w.End))
		title := fmt.Sprintf("Villains' Places of Origin Heatmap: %s", w.Label())
		if err := Render(path, title, pts, world, opts); err != nil {
			return written, fmt.Errorf("heatmap %s: %w", w.Label(), err)
		}
		written = append(written, path)
	}
	return written, nil
}
