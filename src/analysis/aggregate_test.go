package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lars-sto/fecreport/src/results"
)

func rec(scenario string, mode results.Mode, seed int64, loss, oh, q, pr results.Value) results.RunRecord {
	return results.RunRecord{
		Scenario: scenario, Mode: mode, Seed: seed, HasSeed: true,
		FinalLossDeadline: loss, OverheadRatioBytes: oh, MeanQueueDelayMs: q, MeanPolicyR: pr,
	}
}

var none = results.Value{}

func some(v float64) results.Value { return results.Some(v) }

func fourRows() []results.RunRecord {
	return []results.RunRecord{
		rec("loss_steps", results.ModeStatic, 1, some(0.10), some(0.20), some(15), none),
		rec("loss_steps", results.ModeStatic, 2, some(0.12), some(0.22), some(17), none),
		rec("loss_steps", results.ModeAdaptive, 1, some(0.05), some(0.15), some(12), some(3.0)),
		rec("loss_steps", results.ModeAdaptive, 2, some(0.06), some(0.16), some(13), some(3.4)),
	}
}

func TestAggregate_FourRows(t *testing.T) {
	groups := Aggregate(fourRows(), DefaultZ)
	require.Len(t, groups, 2)

	idx := NewIndex(groups)
	static, ok := idx.Lookup("loss_steps", results.ModeStatic)
	require.True(t, ok)
	assert.Equal(t, 2, static.N)
	loss := static.Stat(MetricLoss)
	assert.Equal(t, 2, loss.N)
	assert.InDelta(t, 0.11, loss.Mean, 1e-12)
	// sample std of {0.10, 0.12} = 0.0141421...
	assert.InDelta(t, math.Sqrt(0.0002), loss.Std, 1e-12)
	assert.InDelta(t, 1.96*math.Sqrt(0.0002)/math.Sqrt(2), loss.CI, 1e-12)
	assert.InDelta(t, 16.0, static.Stat(MetricQueueDelay).Mean, 1e-12)
	assert.Equal(t, 0, static.Stat(MetricPolicyR).N, "static rows have no policy r")
	assert.True(t, math.IsNaN(static.Stat(MetricPolicyR).Mean))

	adaptive, ok := idx.Lookup("loss_steps", results.ModeAdaptive)
	require.True(t, ok)
	assert.Equal(t, 2, adaptive.N)
	assert.InDelta(t, 0.055, adaptive.Stat(MetricLoss).Mean, 1e-12)
	assert.InDelta(t, 0.155, adaptive.Stat(MetricOverhead).Mean, 1e-12)
	assert.InDelta(t, 3.2, adaptive.Stat(MetricPolicyR).Mean, 1e-12)
}

func TestAggregate_SortedByScenarioThenMode(t *testing.T) {
	rs := []results.RunRecord{
		rec("b", results.ModeStatic, 1, some(1), none, none, none),
		rec("a", results.ModeStatic, 1, some(1), none, none, none),
		rec("a", results.ModeAdaptive, 1, some(1), none, none, none),
	}
	groups := Aggregate(rs, DefaultZ, MetricLoss)
	require.Len(t, groups, 3)
	assert.Equal(t, Key{"a", results.ModeAdaptive}, groups[0].Key)
	assert.Equal(t, Key{"a", results.ModeStatic}, groups[1].Key)
	assert.Equal(t, Key{"b", results.ModeStatic}, groups[2].Key)
	_, has := groups[0].Metrics[MetricOverhead]
	assert.False(t, has, "only requested metrics are aggregated")
}

func TestSummarize(t *testing.T) {
	cases := []struct {
		name   string
		values []float64
		n      int
		mean   float64
		std    float64
	}{
		{"single", []float64{0.4}, 1, 0.4, 0},
		{"constant", []float64{2, 2, 2}, 3, 2, 0},
		{"pair", []float64{1, 3}, 2, 2, math.Sqrt2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Summarize(tc.values, DefaultZ)
			assert.Equal(t, tc.n, s.N)
			assert.InDelta(t, tc.mean, s.Mean, 1e-12)
			assert.InDelta(t, tc.std, s.Std, 1e-12)
			assert.InDelta(t, DefaultZ*tc.std/math.Sqrt(float64(tc.n)), s.CI, 1e-12)
			assert.True(t, s.Defined())
		})
	}

	one := Summarize([]float64{7}, DefaultZ)
	assert.Zero(t, one.CI, "ci is zero for a single value")

	empty := Summarize(nil, DefaultZ)
	assert.Equal(t, 0, empty.N)
	assert.True(t, math.IsNaN(empty.Mean))
	assert.False(t, empty.Defined())
}

func TestSummarize_ZScalesCI(t *testing.T) {
	a := Summarize([]float64{1, 2, 3, 4}, 1.0)
	b := Summarize([]float64{1, 2, 3, 4}, 2.0)
	assert.InDelta(t, 2*a.CI, b.CI, 1e-12)
	assert.Equal(t, a.Mean, b.Mean)
}

func TestAggregate_MissingValuesExcludedPerMetric(t *testing.T) {
	rs := []results.RunRecord{
		rec("s", results.ModeAdaptive, 1, some(0.1), none, some(10), some(2)),
		rec("s", results.ModeAdaptive, 2, none, some(0.3), some(20), none),
		rec("s", results.ModeAdaptive, 3, some(0.3), some(0.5), none, some(4)),
	}
	g := Aggregate(rs, DefaultZ)[0]
	assert.Equal(t, 3, g.N)
	assert.Equal(t, 2, g.Stat(MetricLoss).N)
	assert.InDelta(t, 0.2, g.Stat(MetricLoss).Mean, 1e-12)
	assert.Equal(t, 2, g.Stat(MetricOverhead).N)
	assert.InDelta(t, 0.4, g.Stat(MetricOverhead).Mean, 1e-12)
	assert.InDelta(t, 15, g.Stat(MetricQueueDelay).Mean, 1e-12)
	assert.InDelta(t, 3, g.Stat(MetricPolicyR).Mean, 1e-12)
}

func TestReindex_FillsAbsentCells(t *testing.T) {
	rs := []results.RunRecord{
		rec("a", results.ModeStatic, 1, some(0.1), some(0.2), some(5), none),
		rec("b", results.ModeAdaptive, 1, some(0.1), some(0.2), some(5), some(3)),
		rec("b", "fec_off", 1, some(0.9), some(0), some(1), none),
	}
	idx := NewIndex(Aggregate(rs, DefaultZ))

	grid := idx.Reindex([]string{"a", "b"}, results.Modes)
	require.Len(t, grid, 4)
	assert.Equal(t, Key{"a", results.ModeStatic}, grid[0].Key)
	assert.Equal(t, 1, grid[0].N)

	missing := grid[1]
	assert.Equal(t, Key{"a", results.ModeAdaptive}, missing.Key)
	assert.Equal(t, 0, missing.N)
	for _, m := range AllMetrics {
		s := missing.Stat(m)
		assert.Equal(t, 0, s.N)
		assert.True(t, math.IsNaN(s.Mean), m.String())
		assert.True(t, math.IsNaN(s.CI), m.String())
	}

	_, ok := idx.Lookup("a", results.ModeAdaptive)
	assert.False(t, ok)

	for _, g := range grid {
		assert.NotEqual(t, results.Mode("fec_off"), g.Mode, "unknown modes never reach the grid")
	}
}

func TestIndex_Column(t *testing.T) {
	idx := NewIndex(Aggregate(fourRows(), DefaultZ))
	col := idx.Column([]string{"loss_steps", "absent"}, results.ModeAdaptive, MetricPolicyR)
	require.Len(t, col, 2)
	assert.InDelta(t, 3.2, col[0].Mean, 1e-12)
	assert.False(t, col[1].Defined())
}

func TestMeanPoint(t *testing.T) {
	x, y, ok := MeanPoint(fourRows(), "loss_steps", results.ModeStatic)
	require.True(t, ok)
	assert.InDelta(t, 0.21, x, 1e-12)
	assert.InDelta(t, 0.11, y, 1e-12)

	_, _, ok = MeanPoint(fourRows(), "loss_steps", "fec_off")
	assert.False(t, ok)

	rs := []results.RunRecord{rec("s", results.ModeStatic, 1, none, some(0.2), none, none)}
	_, _, ok = MeanPoint(rs, "s", results.ModeStatic)
	assert.False(t, ok, "no loss values means no point")
}

func TestMetric_Columns(t *testing.T) {
	assert.Equal(t, results.ColFinalLossDeadline, MetricLoss.Column())
	assert.Equal(t, results.ColOverheadRatio, MetricOverhead.Column())
	assert.Equal(t, results.ColMeanQueueDelay, MetricQueueDelay.Column())
	assert.Equal(t, results.ColMeanPolicyR, MetricPolicyR.Column())
	assert.Equal(t, "oh", MetricOverhead.Short())
	assert.Equal(t, some(3.0), MetricPolicyR.Of(fourRows()[2]))
}
