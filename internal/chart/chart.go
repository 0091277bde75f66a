// Package chart draws the line, scatter, bar and ROC charts of the analysis
// tasks with gonum/plot.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	// ErrFormat is returned for output paths that are not .png, .pdf or .svg.
	ErrFormat = errors.New("chart: unsupported output format")
	// ErrNoData is returned when there is nothing to draw.
	ErrNoData = errors.New("chart: no data")
)

var (
	Red  = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	Blue = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	Gray = color.RGBA{R: 128, G: 128, B: 128, A: 255}
)

// Options are shared by every chart.
type Options struct {
	Title  string
	XLabel string
	YLabel string
	LogY   bool
	Width  vg.Length
	Height vg.Length
}

func (o Options) size() (vg.Length, vg.Length) {
	w, h := o.Width, o.Height
	if w == 0 {
		w = 14 * vg.Inch
	}
	if h == 0 {
		h = 8 * vg.Inch
	}
	return w, h
}

func newPlot(opts Options) *plot.Plot {
	p := plot.New()
	p.Title.Text = opts.Title
	p.X.Label.Text = opts.XLabel
	p.Y.Label.Text = opts.YLabel
	if opts.LogY {
		p.Y.Scale = plot.LogScale{}
		p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	}
	p.Add(plotter.NewGrid())
	return p
}

// Save writes p to path, creating parent directories. The format follows
// the file extension.
func Save(p *plot.Plot, path string, w, h vg.Length) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png", ".pdf", ".svg":
	default:
		return fmt.Errorf("%w: %s", ErrFormat, path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating chart directory: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("saving chart %s: %w", path, err)
	}
	log.Info().Str("path", path).Msg("Chart saved")
	return nil
}

// Series is one named line. When Release is set, the part before it is
// dotted and the point at Release is marked.
type Series struct {
	Name      string
	X, Y      []float64
	Release   float64
	Color     color.Color
	Thickness vg.Length
}

func (s Series) xys(logY bool, keep func(x float64) bool) plotter.XYs {
	var pts plotter.XYs
	for i := range s.X {
		if logY && s.Y[i] <= 0 {
			continue
		}
		if keep != nil && !keep(s.X[i]) {
			continue
		}
		pts = append(pts, plotter.XY{X: s.X[i], Y: s.Y[i]})
	}
	return pts
}

// Lines draws every series on one chart.
func Lines(path string, series []Series, opts Options) error {
	p := newPlot(opts)
	drawn := 0
	for i, s := range series {
		c := s.Color
		if c == nil {
			c = plotutil.Color(i)
		}
		width := s.Thickness
		if width == 0 {
			width = vg.Points(1.5)
		}

		if s.Release == 0 {
			pts := s.xys(opts.LogY, nil)
			if len(pts) == 0 {
				continue
			}
			l, err := plotter.NewLine(pts)
			if err != nil {
				return err
			}
			l.Color, l.Width = c, width
			p.Add(l)
			p.Legend.Add(s.Name, l)
			drawn++
			continue
		}

		pre := s.xys(opts.LogY, func(x float64) bool { return x <= s.Release })
		post := s.xys(opts.LogY, func(x float64) bool { return x >= s.Release })
		var legend plot.Thumbnailer
		if len(pre) > 0 {
			l, err := plotter.NewLine(pre)
			if err != nil {
				return err
			}
			l.Color, l.Width = c, width
			l.Dashes = []vg.Length{vg.Points(1), vg.Points(3)}
			p.Add(l)
			legend = l
		}
		if len(post) > 0 {
			l, err := plotter.NewLine(post)
			if err != nil {
				return err
			}
			l.Color, l.Width = c, width
			p.Add(l)
			legend = l
		}
		if legend == nil {
			continue
		}
		for j := range s.X {
			if s.X[j] == s.Release && (!opts.LogY || s.Y[j] > 0) {
				marker, err := plotter.NewScatter(plotter.XYs{{X: s.X[j], Y: s.Y[j]}})
				if err != nil {
					return err
				}
				marker.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
				p.Add(marker)
				break
			}
		}
		p.Legend.Add(s.Name, legend)
		drawn++
	}
	if drawn == 0 {
		return ErrNoData
	}
	p.Legend.Top = true
	w, h := opts.size()
	return Save(p, path, w, h)
}

// Point is a labelled scatter point.
type Point struct {
	X, Y  float64
	Label string
}

// Group is a set of points sharing a colour and legend entry.
type Group struct {
	Name   string
	Points []Point
	Color  color.Color
}

// Fit is a straight line y = Slope*x + Intercept.
type Fit struct {
	Slope, Intercept float64
	Label            string
}

// Scatter draws point groups, their labels when present, and the optional
// fitted line across the x range of the data.
func Scatter(path string, groups []Group, fit *Fit, opts Options) error {
	p := newPlot(opts)
	xmin, xmax := math.Inf(1), math.Inf(-1)
	for i, g := range groups {
		if len(g.Points) == 0 {
			continue
		}
		c := g.Color
		if c == nil {
			c = plotutil.Color(i)
		}
		labels := plotter.XYLabels{XYs: make(plotter.XYs, len(g.Points)), Labels: make([]string, len(g.Points))}
		labelled := false
		for j, pt := range g.Points {
			labels.XYs[j] = plotter.XY{X: pt.X, Y: pt.Y}
			labels.Labels[j] = pt.Label
			labelled = labelled || pt.Label != ""
			xmin, xmax = math.Min(xmin, pt.X), math.Max(xmax, pt.X)
		}
		s, err := plotter.NewScatter(labels.XYs)
		if err != nil {
			return err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: c, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
		p.Add(s)
		if g.Name != "" {
			p.Legend.Add(g.Name, s)
		}
		if labelled {
			l, err := plotter.NewLabels(labels)
			if err != nil {
				return err
			}
			l.Offset = vg.Point{X: vg.Points(4), Y: vg.Points(2)}
			p.Add(l)
		}
	}
	if math.IsInf(xmin, 1) {
		return ErrNoData
	}
	if fit != nil {
		f := plotter.NewFunction(func(x float64) float64 { return fit.Slope*x + fit.Intercept })
		f.XMin, f.XMax = xmin, xmax
		f.Color = Red
		f.Width = vg.Points(1.5)
		p.Add(f)
		p.Legend.Add(fit.Label, f)
	}
	w, h := opts.size()
	return Save(p, path, w, h)
}

// Ranked is a named entry on a ranking chart.
type Ranked struct {
	Name  string
	Rank  int
	Group int
}

// Rankings puts names on the x axis and their rank on an inverted y axis,
// so rank 1 is on top. Group indexes colors and names.
func Rankings(path string, entries []Ranked, colors []color.Color, names []string, opts Options) error {
	if len(entries) == 0 {
		return ErrNoData
	}
	p := newPlot(opts)
	p.Y.Scale = plot.InvertedScale{Normalizer: p.Y.Scale}

	ticks := make([]string, len(entries))
	byGroup := make(map[int]plotter.XYs)
	for i, e := range entries {
		ticks[i] = e.Name
		byGroup[e.Group] = append(byGroup[e.Group], plotter.XY{X: float64(i), Y: float64(e.Rank)})
	}
	for g := 0; g < len(colors); g++ {
		pts, ok := byGroup[g]
		if !ok {
			continue
		}
		s, err := plotter.NewScatter(pts)
		if err != nil {
			return err
		}
		s.GlyphStyle = draw.GlyphStyle{Color: colors[g], Radius: vg.Points(4), Shape: draw.CircleGlyph{}}
		p.Add(s)
		if g < len(names) {
			p.Legend.Add(names[g], s)
		}
	}
	p.NominalX(ticks...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = -1
	p.X.Tick.Label.YAlign = -0.5
	w, h := opts.size()
	return Save(p, path, w, h)
}

// Bars is one bar per category.
type Bars struct {
	Name   string
	Values []float64
}

// BarChart draws groups of bars per category, side by side or stacked.
func BarChart(path string, categories []string, bars []Bars, stacked bool, opts Options) error {
	if len(categories) == 0 || len(bars) == 0 {
		return ErrNoData
	}
	p := newPlot(opts)
	width := vg.Points(20)
	if !stacked && len(bars) > 1 {
		width = vg.Points(60) / vg.Length(len(bars))
	}

	var below *plotter.BarChart
	for i, b := range bars {
		if len(b.Values) != len(categories) {
			return fmt.Errorf("bars %q: %d values for %d categories", b.Name, len(b.Values), len(categories))
		}
		bc, err := plotter.NewBarChart(plotter.Values(b.Values), width)
		if err != nil {
			return err
		}
		bc.Color = plotutil.Color(i)
		bc.LineStyle.Width = vg.Length(0)
		if stacked {
			if below != nil {
				bc.StackOn(below)
			}
			below = bc
		} else {
			bc.Offset = width*vg.Length(i) - width*vg.Length(len(bars)-1)/2
		}
		p.Add(bc)
		p.Legend.Add(b.Name, bc)
	}
	p.Legend.Top = true
	p.NominalX(categories...)
	if len(categories) > 6 {
		p.X.Tick.Label.Rotation = math.Pi / 4
		p.X.Tick.Label.XAlign = -1
	}
	w, h := opts.size()
	return Save(p, path, w, h)
}

// Event is a period drawn as two dashed vertical lines with a caption.
type Event struct {
	Start, End float64
	Label      string
}

// Timeline draws series with the events overlaid.
func Timeline(path string, series []Series, events []Event, opts Options) error {
	p := newPlot(opts)
	ymax := 0.0
	drawn := 0
	for i, s := range series {
		pts := s.xys(opts.LogY, nil)
		if len(pts) == 0 {
			continue
		}
		l, err := plotter.NewLine(pts)
		if err != nil {
			return err
		}
		l.Color = s.Color
		if l.Color == nil {
			l.Color = plotutil.Color(i)
		}
		l.Width = vg.Points(1.5)
		p.Add(l)
		p.Legend.Add(s.Name, l)
		for _, pt := range pts {
			ymax = math.Max(ymax, pt.Y)
		}
		drawn++
	}
	if drawn == 0 {
		return ErrNoData
	}
	if ymax == 0 {
		ymax = 1
	}

	ymin := 0.0
	if opts.LogY {
		ymin = math.Min(1, ymax)
	}
	captions := plotter.XYLabels{}
	for _, e := range events {
		for _, x := range []float64{e.Start, e.End} {
			l, err := plotter.NewLine(plotter.XYs{{X: x, Y: ymin}, {X: x, Y: ymax}})
			if err != nil {
				return err
			}
			l.Color = Gray
			l.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(l)
		}
		captions.XYs = append(captions.XYs, plotter.XY{X: e.Start, Y: ymax * 0.85})
		captions.Labels = append(captions.Labels, fmt.Sprintf("%s (%.0f-%.0f)", e.Label, e.Start, e.End))
	}
	if len(captions.Labels) > 0 {
		l, err := plotter.NewLabels(captions)
		if err != nil {
			return err
		}
		for i := range l.TextStyle {
			l.TextStyle[i].Rotation = math.Pi / 2
			l.TextStyle[i].YAlign = -0.5
		}
		p.Add(l)
	}
	p.Legend.Top = true
	w, h := opts.size()
	return Save(p, path, w, h)
}

// ROC draws a ROC curve with the chance diagonal.
func ROC(path string, fpr, tpr []float64, auc float64) error {
	if len(fpr) == 0 || len(fpr) != len(tpr) {
		return ErrNoData
	}
	p := newPlot(Options{
		Title:  "Receiver Operating Characteristic",
		XLabel: "False Positive Rate",
		YLabel: "True Positive Rate",
	})
	pts := make(plotter.XYs, len(fpr))
	for i := range fpr {
		pts[i] = plotter.XY{X: fpr[i], Y: tpr[i]}
	}
	curve, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	curve.Color = Blue
	curve.Width = vg.Points(2)

	chance, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return err
	}
	chance.Color = Red
	chance.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(curve, chance)
	p.Legend.Add(fmt.Sprintf("ROC curve (area = %.2f)", auc), curve)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1.05
	return Save(p, path, 8*vg.Inch, 6*vg.Inch)
}
