package report

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lars-sto/fecreport/src/analysis"
	"github.com/lars-sto/fecreport/src/results"
)

func TestNiceAxisBounds(t *testing.T) {
	cases := []struct {
		min, max float64
	}{
		{0, 1}, {0.05, 0.12}, {12, 17}, {800000, 1000000}, {3, 3}, {0, 0},
	}
	for _, tc := range cases {
		lo, hi := niceAxisBounds(tc.min, tc.max)
		assert.Less(t, lo, hi, "%v..%v", tc.min, tc.max)
		assert.LessOrEqual(t, lo, tc.min)
		assert.GreaterOrEqual(t, hi, tc.max)
	}
	lo, hi := niceAxisBounds(math.NaN(), 1)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestZeroBasedBounds(t *testing.T) {
	b := newBounds()
	lo, hi := zeroBasedBounds(b)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)

	b.add(0.05, 0.12, math.NaN(), math.Inf(1))
	assert.Equal(t, 2, b.n, "non-finite values are ignored")
	lo, hi = zeroBasedBounds(b)
	assert.Equal(t, 0.0, lo)
	assert.GreaterOrEqual(t, hi, 0.12)
}

func TestNiceTicks(t *testing.T) {
	ticks := niceTicks(0, 1, 6)
	require.NotEmpty(t, ticks)
	assert.Equal(t, 0.0, ticks[0].Value)
	assert.GreaterOrEqual(t, ticks[len(ticks)-1].Value, 1.0)
	for i := 1; i < len(ticks); i++ {
		assert.Greater(t, ticks[i].Value, ticks[i-1].Value)
	}
	assert.LessOrEqual(t, len(ticks), 9)
	assert.Nil(t, niceTicks(0, 1, 1))
}

func TestFormatTick(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		0.05:    "0.05",
		0.25:    "0.25",
		1.5:     "1.5",
		2:       "2",
		12.5:    "12.5",
		150:     "150",
		20000:   "20k",
		1500000: "1.5M",
		1000000: "1M",
		0.001:   "0.001",
	}
	for v, want := range cases {
		assert.Equal(t, want, formatTick(v), "%v", v)
	}
}

func TestStepXY(t *testing.T) {
	xs, ys := stepXY([]float64{0, 1, 3}, []float64{0, 1, 0})
	assert.Equal(t, []float64{0, 1, 1, 3, 3}, xs)
	assert.Equal(t, []float64{0, 0, 1, 1, 0}, ys)

	xs, ys = stepXY([]float64{5}, []float64{1})
	assert.Equal(t, []float64{5}, xs)
	assert.Equal(t, []float64{1}, ys)
}

func TestBarLayout(t *testing.T) {
	w, off := barLayout(2)
	assert.InDelta(t, 0.35, w, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.175, 0.175}, off, 1e-12)

	w, off = barLayout(1)
	assert.Equal(t, 0.55, w)
	assert.Equal(t, []float64{0}, off)
}

func TestRenderBars_EmptyCellsAndNoScenarios(t *testing.T) {
	recs := []results.RunRecord{
		{Scenario: "a", Mode: results.ModeStatic, FinalLossDeadline: results.Some(0.1)},
	}
	idx := analysis.NewIndex(analysis.Aggregate(recs, analysis.DefaultZ))
	spec := barSpecs(2)[0]

	img, err := renderBars(spec, idx, []string{"a", "b"}, 400, 300)
	require.NoError(t, err)
	assert.InDelta(t, 400, img.Bounds().Dx(), 1)

	img, err = renderBars(spec, idx, nil, 400, 300)
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestBarSpecs(t *testing.T) {
	specs := barSpecs(2)
	require.Len(t, specs, 4)
	assert.Equal(t, analysis.MetricLoss, specs[0].Metric)
	assert.Equal(t, analysis.MetricOverhead, specs[1].Metric)
	assert.Equal(t, analysis.MetricQueueDelay, specs[2].Metric)
	policy := specs[3]
	assert.Equal(t, PolicyRFile, policy.File)
	assert.Equal(t, []results.Mode{results.ModeAdaptive}, policy.Modes)
	require.NotNil(t, policy.Reference)
	assert.Equal(t, 2.0, policy.Reference.Y)
	assert.Equal(t, "static reference r=2", policy.Reference.Label)
}

func TestStampFootnote(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 200, 60))
	for i := range src.Pix {
		src.Pix[i] = 0
	}
	out := stampFootnote(src, "summary.csv, z=1.96")
	assert.Equal(t, src.Bounds(), out.Bounds())

	changed := false
	for y := 40; y < 60 && !changed; y++ {
		for x := 0; x < 200; x++ {
			if out.At(x, y) != (color.RGBA{}) {
				changed = true
				break
			}
		}
	}
	assert.True(t, changed, "footnote drawn near the bottom edge")
	assert.Same(t, src, stampFootnote(src, "  ").(*image.RGBA))
}
