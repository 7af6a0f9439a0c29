package report

import (
	"fmt"
	"image"
	"strings"

	"github.com/lars-sto/fecreport/src/results"
)

// tsPanel is one per-scenario time-series chart.
type tsPanel struct {
	suffix  string
	title   string
	yName   string
	columns []string
}

var tsPanels = []tsPanel{
	{"timeseries_bitrate", "Capacity vs Current Bitrate", "Bitrate (bps)", []string{results.ColCapacityBps, results.ColCurrentBitrateBps}},
	{"timeseries_queue_delay", "Queue Delay over Time", "Queue Delay (ms)", []string{results.ColQueueDelayMs}},
	{"timeseries_policy_r", "Policy R over Time", "Policy R", []string{results.ColPolicyR}},
	{"timeseries_loss_window", "Loss Window over Time", "Loss Window", []string{results.ColLossWindow}},
}

// TimeSeriesFiles lists the chart names produced for one scenario.
func TimeSeriesFiles(scenario string) []string {
	out := make([]string, len(tsPanels))
	for i, p := range tsPanels {
		out[i] = timeSeriesFile(scenario, p)
	}
	return out
}

func timeSeriesFile(scenario string, p tsPanel) string {
	return fmt.Sprintf("%s_%s.png", fileToken(scenario), p.suffix)
}

// modeSeries is the representative run of one mode, nil when none was found.
type modeSeries struct {
	mode results.Mode
	ts   *results.TimeSeries
}

// renderTimeSeries draws one panel. A mode without a file, or whose file lacks
// a column, contributes no curve for it.
func renderTimeSeries(scenario string, panel tsPanel, runs []modeSeries, w, h int) (image.Image, error) {
	c := newXYChart(fmt.Sprintf("%s: %s", scenario, panel.title), "Time (ms)", panel.yName)
	c.zeroY = true
	for _, run := range runs {
		if run.ts == nil {
			continue
		}
		prefix := strings.ToLower(run.mode.Label())
		for i, col := range panel.columns {
			xs, ys := run.ts.XY(col)
			st := lineStyle(modeColor(run.mode))
			// the first column of a multi-curve panel is the reference (capacity)
			if len(panel.columns) > 1 && i == 0 {
				st = dashedStyle(modeColor(run.mode))
			}
			c.line(prefix+" "+col, st, xs, ys)
		}
	}
	return c.render(w, h)
}
