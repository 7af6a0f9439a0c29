package report

import (
	"image"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// xyChart collects series for a continuous x/y chart and tracks their extent
// so the axes can be fixed up front.
type xyChart struct {
	title, xName, yName string
	// zeroY pins the y axis at 0 for non-negative quantities.
	zeroY bool

	series  []chart.Series
	entries []legendEntry
	xb, yb  bounds
}

func newXYChart(title, xName, yName string) *xyChart {
	return &xyChart{title: title, xName: xName, yName: yName, xb: newBounds(), yb: newBounds()}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// finitePairs drops every pair with a non-finite coordinate; the rasteriser
// never terminates on one.
func finitePairs(xs, ys []float64) ([]float64, []float64) {
	if len(xs) != len(ys) {
		return nil, nil
	}
	var fx, fy []float64
	for i := range xs {
		if finite(xs[i]) && finite(ys[i]) {
			fx = append(fx, xs[i])
			fy = append(fy, ys[i])
		}
	}
	return fx, fy
}

// points adds a marker-only series. Empty input adds nothing.
func (c *xyChart) points(name string, col drawing.Color, alpha uint8, dot float64, xs, ys []float64) {
	xs, ys = finitePairs(xs, ys)
	if len(xs) == 0 {
		return
	}
	st := pointStyle(col, alpha)
	st.DotWidth = dot
	c.series = append(c.series, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st})
	c.entries = append(c.entries, legendEntry{name: name, color: col})
	c.xb.add(xs...)
	c.yb.add(ys...)
}

// line adds a connected series. Empty input adds nothing.
func (c *xyChart) line(name string, st chart.Style, xs, ys []float64) {
	xs, ys = finitePairs(xs, ys)
	if len(xs) == 0 {
		return
	}
	c.series = append(c.series, chart.ContinuousSeries{Name: name, XValues: xs, YValues: ys, Style: st})
	c.entries = append(c.entries, legendEntry{name: name, color: st.StrokeColor, dash: len(st.StrokeDashArray) > 0})
	c.xb.add(xs...)
	c.yb.add(ys...)
}

// hline adds a dashed horizontal line across the current x extent. Call it
// after the data series.
func (c *xyChart) hline(name string, col drawing.Color, y float64) {
	if !finite(y) {
		return
	}
	x0, x1 := 0.0, 1.0
	if !c.xb.empty() {
		x0, x1 = c.xb.min, c.xb.max
	}
	if x1 <= x0 {
		x1 = x0 + 1
	}
	c.series = append(c.series, chart.ContinuousSeries{Name: name, XValues: []float64{x0, x1}, YValues: []float64{y, y}, Style: dashedStyle(col)})
	c.entries = append(c.entries, legendEntry{name: name, color: col, dash: true})
	c.yb.add(y)
}

// label writes text next to a data point.
func (c *xyChart) label(text string, x, y float64) {
	if !finite(x) || !finite(y) {
		return
	}
	c.series = append(c.series, chart.AnnotationSeries{
		Annotations: []chart.Value2{{XValue: x, YValue: y, Label: text}},
		Style:       chart.Style{FontSize: 8, StrokeColor: chart.ColorAlternateGray, FillColor: chart.ColorWhite.WithAlpha(220)},
	})
}

func (c *xyChart) empty() bool { return len(c.entries) == 0 }

func (c *xyChart) render(w, h int) (image.Image, error) {
	series := c.series
	if c.empty() {
		series = append(series, placeholder())
	}
	xa, ya := continuousAxes(c.xb, c.yb, c.zeroY)
	grid := chart.Style{StrokeColor: chart.ColorLightGray, StrokeWidth: 1}
	xa.Name, xa.GridMajorStyle = c.xName, grid
	ya.Name, ya.GridMajorStyle = c.yName, grid

	ch := chart.Chart{
		Title:      c.title,
		Width:      w,
		Height:     h,
		Background: chart.Style{Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 24}},
		XAxis:      xa,
		YAxis:      ya,
		Series:     series,
	}
	if len(c.entries) > 0 {
		ch.Elements = []chart.Renderable{legend(c.entries)}
	}
	return chartImage(ch)
}
