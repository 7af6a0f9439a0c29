package report

import (
	"image"

	"github.com/lars-sto/fecreport/src/analysis"
	"github.com/lars-sto/fecreport/src/results"
)

const (
	paretoXName = "Overhead Ratio (bytes)"
	paretoYName = "Deadline Loss"
)

// runPoints returns (overhead, loss) for every record where both are present.
func runPoints(records []results.RunRecord) (xs, ys []float64) {
	for _, r := range records {
		if r.OverheadRatioBytes.Valid && r.FinalLossDeadline.Valid {
			xs = append(xs, r.OverheadRatioBytes.V)
			ys = append(ys, r.FinalLossDeadline.V)
		}
	}
	return xs, ys
}

func byMode(records []results.RunRecord, mode results.Mode) []results.RunRecord {
	var out []results.RunRecord
	for _, r := range records {
		if r.Mode == mode {
			out = append(out, r)
		}
	}
	return out
}

// renderGlobalPareto scatters every run, one series per mode.
func renderGlobalPareto(table *results.Table, w, h int) (image.Image, error) {
	c := newXYChart("Pareto Scatter: Overhead vs Deadline Loss", paretoXName, paretoYName)
	c.zeroY = true
	for _, m := range results.Modes {
		xs, ys := runPoints(byMode(table.Records, m))
		c.points(string(m), modeColor(m), 102, 4, xs, ys)
	}
	return c.render(w, h)
}

// renderScenarioPareto scatters one scenario's runs and overlays each mode's
// mean point with a larger, opaque marker.
func renderScenarioPareto(table *results.Table, scenario string, w, h int) (image.Image, error) {
	c := newXYChart("Pareto per Scenario: "+scenario, paretoXName, paretoYName)
	c.zeroY = true
	var records []results.RunRecord
	for _, r := range table.Records {
		if r.Scenario == scenario {
			records = append(records, r)
		}
	}
	type mean struct {
		mode results.Mode
		x, y float64
	}
	var means []mean
	for _, m := range results.Modes {
		xs, ys := runPoints(byMode(records, m))
		c.points(string(m), modeColor(m), 115, 4, xs, ys)
		if x, y, ok := analysis.MeanPoint(records, scenario, m); ok {
			means = append(means, mean{m, x, y})
		}
	}
	for _, mp := range means {
		c.points(string(mp.mode)+" mean", meanColor(mp.mode), 255, 9, []float64{mp.x}, []float64{mp.y})
	}
	for _, mp := range means {
		c.label("mean", mp.x, mp.y)
	}
	return c.render(w, h)
}
