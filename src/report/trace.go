package report

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/lars-sto/fecreport/src/results"
)

// Loss thresholds of the policy engine's hysteresis.
const (
	EnableLossThreshold  = 0.05
	DisableLossThreshold = 0.01
)

// markedLine is a line that also marks each sample.
func markedLine(i int) chart.Style {
	col := seriesColors[i%len(seriesColors)]
	st := lineStyle(col)
	st.DotColor = col
	st.DotWidth = 2
	return st
}

// stepXY turns samples into a post-step curve: each value holds until the
// next sample.
func stepXY(xs, ys []float64) ([]float64, []float64) {
	if len(xs) < 2 {
		return xs, ys
	}
	sx := make([]float64, 0, 2*len(xs)-1)
	sy := make([]float64, 0, 2*len(xs)-1)
	for i := range xs {
		if i > 0 {
			sx = append(sx, xs[i])
			sy = append(sy, ys[i-1])
		}
		sx = append(sx, xs[i])
		sy = append(sy, ys[i])
	}
	return sx, sy
}

// traceXY pairs two trace fields over the points where both are present.
func traceXY(points []results.TracePoint, x, y func(results.TracePoint) results.Value) (xs, ys []float64) {
	for _, p := range points {
		vx, vy := x(p), y(p)
		if vx.Valid && vy.Valid {
			xs = append(xs, vx.V)
			ys = append(ys, vy.V)
		}
	}
	return xs, ys
}

func traceTime(p results.TracePoint) results.Value { return results.Some(p.Time) }

// RenderPolicyTrace renders the exploratory charts for one policy-engine
// observer log into the plots directory. Charts whose columns are absent from
// the log are skipped.
func (g *Generator) RenderPolicyTrace(path string) (*Result, error) {
	pt, err := results.LoadPolicyTrace(path)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.PlotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plots dir: %w", err)
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	xName := "Time step"
	if pt.TimeColumn == results.ColTraceTimeMs {
		xName = "Time (ms)"
	}
	w, h := g.cfg.Width, g.cfg.Height
	note := g.footnote(path)
	res := &Result{Dir: g.cfg.PlotsDir}

	type traceChart struct {
		suffix string
		needs  []string
		build  func() *xyChart
	}
	loss := func(p results.TracePoint) results.Value { return p.Loss }
	overhead := func(p results.TracePoint) results.Value { return p.Overhead }
	fec := func(p results.TracePoint) results.Value { return p.FECEnabled }
	target := func(p results.TracePoint) results.Value { return p.TargetBitrate }
	current := func(p results.TracePoint) results.Value { return p.CurrentBitrate }

	charts := []traceChart{
		{"loss_vs_overhead", []string{results.ColTraceLoss, results.ColTraceOverhead}, func() *xyChart {
			c := newXYChart(stem+": Loss vs FEC Overhead", "Loss rate", "FEC overhead")
			xs, ys := traceXY(pt.Points, loss, overhead)
			c.line("overhead", markedLine(0), xs, ys)
			return c
		}},
		{"overhead_over_time", []string{results.ColTraceOverhead}, func() *xyChart {
			c := newXYChart(stem+": FEC Overhead over Time", xName, "FEC overhead")
			xs, ys := traceXY(pt.Points, traceTime, overhead)
			c.line("overhead", markedLine(0), xs, ys)
			return c
		}},
		{"fec_enabled", []string{results.ColTraceFECEnabled}, func() *xyChart {
			c := newXYChart(stem+": FEC Enable State", xName, "FEC enabled")
			xs, ys := stepXY(traceXY(pt.Points, traceTime, fec))
			c.line("fec_enabled", lineSeriesStyle(2), xs, ys)
			return c
		}},
		{"loss_over_time", []string{results.ColTraceLoss}, func() *xyChart {
			c := newXYChart(stem+": Loss over Time", xName, "Loss rate")
			xs, ys := traceXY(pt.Points, traceTime, loss)
			c.line("loss", markedLine(0), xs, ys)
			c.hline("Enable threshold", chart.ColorRed, EnableLossThreshold)
			c.hline("Disable threshold", chart.ColorGreen, DisableLossThreshold)
			return c
		}},
		{"bitrate", []string{results.ColTraceTargetBitrate, results.ColTraceCurrentBitrate}, func() *xyChart {
			c := newXYChart(stem+": Target vs Current Bitrate", xName, "Bitrate")
			xs, ys := traceXY(pt.Points, traceTime, target)
			c.line("target_bitrate", markedLine(0), xs, ys)
			xs, ys = traceXY(pt.Points, traceTime, current)
			c.line("current_bitrate", markedLine(1), xs, ys)
			return c
		}},
		{"target_vs_overhead", []string{results.ColTraceTargetBitrate, results.ColTraceOverhead}, func() *xyChart {
			c := newXYChart(stem+": Target Bitrate vs Overhead", "Target bitrate", "FEC overhead")
			xs, ys := traceXY(pt.Points, target, overhead)
			c.line("overhead", markedLine(0), xs, ys)
			return c
		}},
	}

	for _, tc := range charts {
		name := fmt.Sprintf("%s_%s.png", stem, tc.suffix)
		if missing := absentColumns(pt, tc.needs); len(missing) > 0 {
			res.Skipped = append(res.Skipped, Skip{Item: name, Reason: "no column " + strings.Join(missing, ", ")})
			continue
		}
		build := tc.build
		it := catalogItem{name, note, func() (image.Image, error) {
			c := build()
			c.zeroY = true
			return c.render(w, h)
		}}
		if err := g.save(res, it); err != nil {
			return res, err
		}
	}
	return res, nil
}

func absentColumns(pt *results.PolicyTrace, cols []string) []string {
	var out []string
	for _, c := range cols {
		if !pt.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// lineSeriesStyle picks a cycling color for charts not keyed by mode.
func lineSeriesStyle(i int) chart.Style {
	return lineStyle(seriesColors[i%len(seriesColors)])
}
