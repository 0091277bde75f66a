// Package heatmap renders kernel density heatmaps of geocoded villain
// origins over world country boundaries.
package heatmap

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distmv"
)

// ErrTooFewPoints is returned when a density needs at least two points.
var ErrTooFewPoints = errors.New("heatmap: at least two points are needed")

// Options tune the density estimate.
type Options struct {
	// Bandwidth scales Scott's rule bandwidth.
	Bandwidth float64
	// Threshold is the share of the peak density under which cells are
	// left transparent.
	Threshold float64
	// Cols and Rows size the lon/lat grid.
	Cols, Rows int
}

// Bounds of the grid. Antarctica is left out.
const (
	MinLon, MaxLon = -180.0, 180.0
	MinLat, MaxLat = -60.0, 85.0
)

func (o Options) withDefaults() Options {
	if o.Bandwidth <= 0 {
		o.Bandwidth = 1
	}
	if o.Threshold < 0 {
		o.Threshold = 0
	}
	if o.Cols <= 0 {
		o.Cols = 360
	}
	if o.Rows <= 0 {
		o.Rows = 145
	}
	return o
}

// Grid is a density sampled at cell centres. It satisfies plotter.GridXYZ.
// Cells under the threshold hold NaN.
type Grid struct {
	cols, rows int
	dx, dy     float64
	z          []float64
}

func (g *Grid) Dims() (c, r int) { return g.cols, g.rows }
func (g *Grid) Z(c, r int) float64 { return g.z[r*g.cols+c] }
func (g *Grid) X(c int) float64 { return MinLon + (float64(c)+0.5)*g.dx }
func (g *Grid) Y(r int) float64 { return MinLat + (float64(r)+0.5)*g.dy }
func (g *Grid) set(c, r int, v float64) { g.z[r*g.cols+c] = v }

// Peak returns the centre of the densest cell.
func (g *Grid) Peak() orb.Point {
	best, at := math.Inf(-1), 0
	for i, v := range g.z {
		if !math.IsNaN(v) && v > best {
			best, at = v, i
		}
	}
	return orb.Point{g.X(at % g.cols), g.Y(at / g.cols)}
}

// KDE estimates a gaussian kernel density of points (lon, lat) on the grid.
// The kernel covariance is the sample covariance scaled by Scott's factor
// n^(-1/6) times the bandwidth. Degenerate samples, such as repeated or
// collinear points, fall back to an isotropic kernel.
func KDE(points []orb.Point, opts Options) (*Grid, error) {
	if len(points) < 2 {
		return nil, ErrTooFewPoints
	}
	opts = opts.withDefaults()

	lon := make([]float64, len(points))
	lat := make([]float64, len(points))
	for i, p := range points {
		lon[i], lat[i] = p.Lon(), p.Lat()
	}
	factor := math.Pow(float64(len(points)), -1.0/6) * opts.Bandwidth
	f2 := factor * factor
	vx, vy := stat.Variance(lon, nil), stat.Variance(lat, nil)
	cxy := stat.Covariance(lon, lat, nil)

	origin := []float64{0, 0}
	kernel, ok := distmv.NewNormal(origin, mat.NewSymDense(2, []float64{vx * f2, cxy * f2, cxy * f2, vy * f2}), nil)
	if !ok {
		v := math.Max(math.Max(vx, vy), 1) * f2
		kernel, _ = distmv.NewNormal(origin, mat.NewSymDense(2, []float64{v, 0, 0, v}), nil)
	}

	g := &Grid{
		cols: opts.Cols,
		rows: opts.Rows,
		dx:   (MaxLon - MinLon) / float64(opts.Cols),
		dy:   (MaxLat - MinLat) / float64(opts.Rows),
		z:    make([]float64, opts.Cols*opts.Rows),
	}
	diff := make([]float64, 2)
	peak := 0.0
	for r := 0; r < g.rows; r++ {
		y := g.Y(r)
		for c := 0; c < g.cols; c++ {
			x := g.X(c)
			sum := 0.0
			for i := range points {
				diff[0], diff[1] = x-lon[i], y-lat[i]
				sum += kernel.Prob(diff)
			}
			density := sum / float64(len(points))
			g.set(c, r, density)
			peak = math.Max(peak, density)
		}
	}

	cut := opts.Threshold * peak
	for i, v := range g.z {
		if v < cut {
			g.z[i] = math.NaN()
		}
	}
	return g, nil
}
