package heatmap

import (
	"fmt"
	"image/color"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// World holds the country boundary rings drawn under a heatmap.
type World struct {
	Countries []string
	Rings     []orb.Ring
}

func isAntarctica(f *geojson.Feature) bool {
	for _, key := range []string{"CONTINENT", "continent", "NAME", "name"} {
		if f.Properties.MustString(key, "") == "Antarctica" {
			return true
		}
	}
	return false
}

// LoadWorld reads country boundaries from a GeoJSON feature collection,
// leaving out Antarctica.
func LoadWorld(path string) (*World, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading world boundaries: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing world boundaries: %w", err)
	}

	w := &World{}
	for _, f := range fc.Features {
		if isAntarctica(f) {
			continue
		}
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			w.Rings = append(w.Rings, g...)
		case orb.MultiPolygon:
			for _, p := range g {
				w.Rings = append(w.Rings, p...)
			}
		default:
			continue
		}
		w.Countries = append(w.Countries, f.Properties.MustString("NAME", f.Properties.MustString("name", "")))
	}
	return w, nil
}

// Lines returns one thin black line per boundary ring.
func (w *World) Lines() ([]*plotter.Line, error) {
	lines := make([]*plotter.Line, 0, len(w.Rings))
	for _, ring := range w.Rings {
		if len(ring) < 2 {
			continue
		}
		pts := make(plotter.XYs, len(ring))
		for i, p := range ring {
			pts[i] = plotter.XY{X: p.Lon(), Y: p.Lat()}
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		l.Color = color.Black
		l.Width = vg.Points(0.5)
		lines = append(lines, l)
	}
	return lines, nil
}
