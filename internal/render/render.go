// Package render draws panel charts as PNG images.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"educdash/internal/models"
)

// DPI of the generated images.
const dpi = 96

// Default image size in pixels.
const (
	DefaultWidth  = 960
	DefaultHeight = 540
)

var defaultColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// PNG draws chart into w as a width x height pixel PNG. Charts without
// points render as an empty frame labelled "Sin datos".
func PNG(w io.Writer, chart models.Chart, width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	p, err := build(chart)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(pixels(width), pixels(height), "png")
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / dpi
}

func build(chart models.Chart) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = chart.Title
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = chart.XLabel
	p.Y.Label.Text = chart.YLabel

	if len(chart.Points) == 0 {
		labels, err := plotter.NewLabels(plotter.XYLabels{
			XYs:    []plotter.XY{{X: 0, Y: 0}},
			Labels: []string{"Sin datos"},
		})
		if err != nil {
			return nil, err
		}
		p.Add(labels)
		return p, nil
	}

	var err error
	switch chart.Kind {
	case models.ChartBar:
		err = bars(p, chart, false)
	case models.ChartBarH:
		err = bars(p, chart, true)
	case models.ChartPie:
		err = shares(p, chart)
	case models.ChartGroupedBar:
		err = grouped(p, chart)
	case models.ChartScatter:
		err = bubbles(p, chart)
	default:
		err = fmt.Errorf("unknown chart kind %q", chart.Kind)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func categories(points []models.Point) []string {
	out := make([]string, len(points))
	for i, pt := range points {
		out[i] = pt.Category
	}
	return out
}

func bars(p *plot.Plot, chart models.Chart, horizontal bool) error {
	values := make(plotter.Values, len(chart.Points))
	for i, pt := range chart.Points {
		values[i] = pt.Value
	}
	b, err := plotter.NewBarChart(values, vg.Points(12))
	if err != nil {
		return err
	}
	b.Color = parseColor(chart.Color)
	b.LineStyle.Width = vg.Length(0)
	b.Horizontal = horizontal
	p.Add(b)

	if horizontal {
		p.NominalY(categories(chart.Points)...)
		return nil
	}
	p.NominalX(categories(chart.Points)...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return nil
}

// shares draws a pie chart as bars of each slice's percentage.
func shares(p *plot.Plot, chart models.Chart) error {
	var total float64
	for _, pt := range chart.Points {
		total += pt.Value
	}
	pct := chart
	pct.Points = make([]models.Point, len(chart.Points))
	for i, pt := range chart.Points {
		pct.Points[i] = pt
		if total != 0 {
			pct.Points[i].Value = pt.Value / total * 100
		} else {
			pct.Points[i].Value = 0
		}
	}
	p.Y.Label.Text = "%"
	if err := bars(p, pct, false); err != nil {
		return err
	}

	xys := make(plotter.XYs, len(pct.Points))
	labels := make([]string, len(pct.Points))
	for i, pt := range pct.Points {
		xys[i] = plotter.XY{X: float64(i), Y: pt.Value}
		labels[i] = strconv.FormatFloat(pt.Value, 'f', 1, 64) + "%"
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}

// grouped draws one bar set per series, side by side on each category.
func grouped(p *plot.Plot, chart models.Chart) error {
	var cats, names []string
	catIndex := map[string]int{}
	seriesIndex := map[string]int{}
	for _, pt := range chart.Points {
		if _, ok := catIndex[pt.Category]; !ok {
			catIndex[pt.Category] = len(cats)
			cats = append(cats, pt.Category)
		}
		if _, ok := seriesIndex[pt.Series]; !ok {
			seriesIndex[pt.Series] = len(names)
			names = append(names, pt.Series)
		}
	}
	values := make([]plotter.Values, len(names))
	for i := range values {
		values[i] = make(plotter.Values, len(cats))
	}
	for _, pt := range chart.Points {
		values[seriesIndex[pt.Series]][catIndex[pt.Category]] += pt.Value
	}

	width := vg.Points(40 / float64(len(names)))
	for i, name := range names {
		b, err := plotter.NewBarChart(values[i], width)
		if err != nil {
			return err
		}
		b.Color = plotutil.Color(i)
		b.LineStyle.Width = vg.Length(0)
		b.Offset = vg.Length(float64(i)-float64(len(names)-1)/2) * width
		p.Add(b)
		p.Legend.Add(name, b)
	}
	p.Legend.Top = true
	p.NominalX(cats...)
	return nil
}

// bubbles draws one point per category; radius follows Size.
func bubbles(p *plot.Plot, chart models.Chart) error {
	xys := make(plotter.XYs, len(chart.Points))
	var maxSize float64
	for i, pt := range chart.Points {
		xys[i] = plotter.XY{X: float64(i), Y: pt.Value}
		if pt.Size > maxSize {
			maxSize = pt.Size
		}
	}
	s, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	fill := parseColor(chart.Color)
	s.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		radius := vg.Points(4)
		if maxSize > 0 {
			radius = vg.Points(4 + 12*math.Sqrt(chart.Points[i].Size/maxSize))
		}
		return draw.GlyphStyle{Color: fill, Radius: radius, Shape: draw.CircleGlyph{}}
	}
	p.Add(plotter.NewGrid(), s)
	p.NominalX(categories(chart.Points)...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	return nil
}

// parseColor reads "#rrggbb". Anything else gives the default color.
func parseColor(s string) color.Color {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return defaultColor
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return defaultColor
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}
}
