package report

import (
	"fmt"
	"math"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
)

// bounds tracks the extent of the finite values seen so far.
type bounds struct {
	min, max float64
	n        int
}

func newBounds() bounds { return bounds{min: math.MaxFloat64, max: -math.MaxFloat64} }

func (b *bounds) add(vs ...float64) {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		b.min = math.Min(b.min, v)
		b.max = math.Max(b.max, v)
		b.n++
	}
}

func (b bounds) empty() bool { return b.n == 0 }

// niceAxisBounds pads [min,max] by 5% and rounds outwards to the span's
// order of magnitude. A degenerate span is widened so the axis never
// collapses.
func niceAxisBounds(min, max float64) (float64, float64) {
	if math.IsNaN(min) || math.IsNaN(max) {
		return 0, 1
	}
	if max <= min {
		pad := math.Abs(min) * 0.1
		if pad == 0 {
			pad = 1
		}
		min, max = min-pad, max+pad
	}
	span := max - min
	a, b := min-span*0.05, max+span*0.05
	mag := math.Pow(10, math.Floor(math.Log10(span)))
	if mag > 0 && !math.IsInf(mag, 0) {
		a = math.Floor(a/mag) * mag
		b = math.Ceil(b/mag) * mag
	}
	return a, b
}

// zeroBasedBounds is niceAxisBounds with the lower edge pinned at 0 for
// non-negative data (rates, ratios, delays).
func zeroBasedBounds(b bounds) (float64, float64) {
	if b.empty() {
		return 0, 1
	}
	lo := math.Min(0, b.min)
	hi := b.max
	if hi <= lo {
		hi = lo + 1
	}
	nlo, nhi := niceAxisBounds(lo, hi)
	if lo == 0 {
		nlo = 0
	}
	return nlo, nhi
}

// niceStep picks a 1/2/2.5/5 × 10^k step giving roughly n ticks over span.
func niceStep(span float64, n int) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(span/float64(n-1))))
	best, bestScore := mag, math.MaxFloat64
	for _, c := range []float64{1, 2, 2.5, 5, 10} {
		step := c * mag
		count := math.Max(2, math.Ceil(span/step))
		if score := math.Abs(count - float64(n)); score < bestScore {
			best, bestScore = step, score
		}
	}
	return best
}

// niceTicks returns about n ticks covering [min,max], labelled with formatTick.
func niceTicks(min, max float64, n int) []chart.Tick {
	if n < 2 || math.IsNaN(min) || math.IsNaN(max) {
		return nil
	}
	if max <= min {
		max = min + 1
	}
	step := niceStep(max-min, n)
	start := math.Floor(min/step) * step
	end := math.Ceil(max/step) * step
	var ticks []chart.Tick
	for i := 0; ; i++ {
		v := start + float64(i)*step
		if v > end+step/2 || len(ticks) > n+2 {
			break
		}
		// snap away float noise such as 0.30000000000000004
		v = math.Round(v/step) * step
		ticks = append(ticks, chart.Tick{Value: v, Label: formatTick(v)})
	}
	return ticks
}

// formatTick renders an axis value compactly across the ranges this report
// meets: loss fractions, ratios, milliseconds and bits per second.
func formatTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 1e6:
		return trimZeros(fmt.Sprintf("%.2f", v/1e6)) + "M"
	case av >= 1e4:
		return trimZeros(fmt.Sprintf("%.1f", v/1e3)) + "k"
	case av >= 100:
		return fmt.Sprintf("%.0f", v)
	case av >= 10:
		return trimZeros(fmt.Sprintf("%.1f", v))
	case av >= 0.1:
		return trimZeros(fmt.Sprintf("%.2f", v))
	default:
		return trimZeros(fmt.Sprintf("%.4f", v))
	}
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimSuffix(strings.TrimRight(s, "0"), ".")
}

// continuousAxes builds the x and y ranges and ticks for a go-chart plot over
// the given extents. Empty extents fall back to [0,1].
func continuousAxes(xb, yb bounds, zeroY bool) (chart.XAxis, chart.YAxis) {
	xmin, xmax := 0.0, 1.0
	if !xb.empty() {
		xmin, xmax = niceAxisBounds(xb.min, xb.max)
	}
	var ymin, ymax float64
	if zeroY {
		ymin, ymax = zeroBasedBounds(yb)
	} else if yb.empty() {
		ymin, ymax = 0, 1
	} else {
		ymin, ymax = niceAxisBounds(yb.min, yb.max)
	}
	xa := chart.XAxis{
		Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		Ticks: niceTicks(xmin, xmax, 8),
	}
	ya := chart.YAxis{
		Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		Ticks: niceTicks(ymin, ymax, 6),
	}
	return xa, ya
}
