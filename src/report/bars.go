package report

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"

	"github.com/lars-sto/fecreport/src/analysis"
	"github.com/lars-sto/fecreport/src/results"
)

// BarSpec is one grouped bar chart: for every scenario, one bar per mode at
// the metric's mean with a whisker of ± CI.
type BarSpec struct {
	File   string
	Title  string
	YLabel string
	Metric analysis.Metric
	Modes  []results.Mode
	// Reference, when set, adds a dashed horizontal line.
	Reference *Reference
}

// Reference is a labelled horizontal line.
type Reference struct {
	Y     float64
	Label string
}

// barSpecs lists the bar charts of the catalog in output order.
func barSpecs(staticR float64) []BarSpec {
	return []BarSpec{
		{
			File:   "deadline_loss_mean_ci.png",
			Title:  "Deadline Loss (Mean ± 95% CI)",
			YLabel: "Mean Deadline Loss",
			Metric: analysis.MetricLoss,
			Modes:  results.Modes,
		},
		{
			File:   "overhead_mean_ci.png",
			Title:  "Overhead (Mean ± 95% CI)",
			YLabel: "Mean Overhead Ratio (bytes)",
			Metric: analysis.MetricOverhead,
			Modes:  results.Modes,
		},
		{
			File:   "queue_delay_mean_ci.png",
			Title:  "Queue Delay (Mean ± 95% CI)",
			YLabel: "Mean Queue Delay (ms)",
			Metric: analysis.MetricQueueDelay,
			Modes:  results.Modes,
		},
		{
			File:      "mean_policy_r_adaptive.png",
			Title:     "Adaptive Mean Policy R (Mean ± 95% CI)",
			YLabel:    "Mean Policy R",
			Metric:    analysis.MetricPolicyR,
			Modes:     []results.Mode{results.ModeAdaptive},
			Reference: &Reference{Y: staticR, Label: fmt.Sprintf("static reference r=%s", formatTick(staticR))},
		},
	}
}

// ciPoints feeds plotter.NewYErrorBars.
type ciPoints struct {
	plotter.XYs
	plotter.YErrors
}

// barLayout returns the data-unit width of one bar and each mode's offset
// from the scenario tick.
func barLayout(modes int) (width float64, offsets []float64) {
	if modes <= 1 {
		return 0.55, []float64{0}
	}
	width = 0.7 / float64(modes)
	for i := 0; i < modes; i++ {
		offsets = append(offsets, (float64(i)-float64(modes-1)/2)*width)
	}
	return width, offsets
}

// renderBars draws spec over the scenarios × spec.Modes grid. Cells without
// data get a zero-height bar and no whisker; every scenario keeps its tick.
func renderBars(spec BarSpec, idx *analysis.Index, scenarios []string, w, h int) (image.Image, error) {
	p := plot.New()
	p.Title.Text = spec.Title
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	p.Add(grid)

	xmin, xmax := -0.6, float64(len(scenarios))-0.4
	if xmax < 0.6 {
		xmax = 0.6
	}
	// The bar plotter sizes bars in canvas units; approximate the data area
	// as 85% of the image width.
	unit := pixels(w) * 0.85 / vg.Length(xmax-xmin)
	width, offsets := barLayout(len(spec.Modes))

	ymax := 0.0
	for i, m := range spec.Modes {
		stats := idx.Column(scenarios, m, spec.Metric)
		vals := make(plotter.Values, len(stats))
		var whiskers ciPoints
		for j, s := range stats {
			if !s.Defined() || math.IsInf(s.Mean, 0) {
				continue
			}
			vals[j] = s.Mean
			ymax = math.Max(ymax, s.Mean)
			if s.CI > 0 && !math.IsInf(s.CI, 0) && !math.IsNaN(s.CI) {
				whiskers.XYs = append(whiskers.XYs, plotter.XY{X: float64(j) + offsets[i], Y: s.Mean})
				whiskers.YErrors = append(whiskers.YErrors, struct{ Low, High float64 }{s.CI, s.CI})
				ymax = math.Max(ymax, s.Mean+s.CI)
			}
		}
		if len(vals) == 0 {
			continue
		}
		bars, err := plotter.NewBarChart(vals, vg.Length(width)*unit*0.95)
		if err != nil {
			return nil, fmt.Errorf("%s bars: %w", m, err)
		}
		bars.XMin = offsets[i]
		bars.Color = modeColor(m)
		bars.LineStyle.Width = 0
		p.Add(bars)
		p.Legend.Add(string(m), bars)

		if len(whiskers.XYs) > 0 {
			eb, err := plotter.NewYErrorBars(whiskers)
			if err != nil {
				return nil, fmt.Errorf("%s error bars: %w", m, err)
			}
			eb.LineStyle.Color = color.Black
			eb.CapWidth = vg.Points(8)
			p.Add(eb)
		}
	}

	if spec.Reference != nil {
		y := spec.Reference.Y
		ref := plotter.NewFunction(func(float64) float64 { return y })
		ref.XMin, ref.XMax = xmin, xmax
		ref.Samples = 2
		ref.Color = color.RGBA{R: 200, G: 30, B: 30, A: 255}
		ref.Width = vg.Points(1.5)
		ref.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		p.Add(ref)
		p.Legend.Add(spec.Reference.Label, ref)
		ymax = math.Max(ymax, y)
	}

	p.X.Min, p.X.Max = xmin, xmax
	p.Y.Min = 0
	if ymax <= 0 {
		ymax = 1
	}
	p.Y.Max = ymax * 1.12
	if len(scenarios) > 0 {
		p.NominalX(scenarios...)
		p.X.Tick.Label.Rotation = math.Pi / 6
		p.X.Tick.Label.XAlign = vgdraw.XRight
		p.X.Tick.Label.YAlign = vgdraw.YCenter
	}
	return plotImage(p, w, h), nil
}
