// Package results loads the simulator's output tables: the per-run summary
// (one row per scenario/mode/seed) and the per-run time series written next
// to it.
//
// Column presence is resolved once at load time. Optional metrics are carried
// as Value, which records whether the cell held a usable number, so callers
// never inspect raw headers or compare against NaN themselves.
package results

import (
	"math"
	"sort"
)

// Mode identifies the FEC scheme a run used.
type Mode string

const (
	ModeStatic   Mode = "static_flexfec"
	ModeAdaptive Mode = "adaptive_engine"
)

// Modes is the fixed, ordered mode set used by every mode-keyed chart.
// Rows with any other mode are loaded but never plotted per mode.
var Modes = []Mode{ModeStatic, ModeAdaptive}

// Known reports whether m belongs to Modes.
func (m Mode) Known() bool {
	for _, k := range Modes {
		if m == k {
			return true
		}
	}
	return false
}

// Label is the short human name used in legends.
func (m Mode) Label() string {
	switch m {
	case ModeStatic:
		return "Static"
	case ModeAdaptive:
		return "Adaptive"
	}
	return string(m)
}

// Value is an optional float. The zero Value is missing.
type Value struct {
	V     float64
	Valid bool
}

// Some wraps a present value.
func Some(v float64) Value { return Value{V: v, Valid: true} }

// Float returns the value, or NaN when missing.
func (v Value) Float() float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.V
}

// Summary table columns.
const (
	ColScenario          = "scenario"
	ColMode              = "mode"
	ColSeed              = "seed"
	ColFinalLossDeadline = "final_loss_deadline"
	ColOverheadRatio     = "overhead_ratio_bytes"
	ColMeanQueueDelay    = "mean_queue_delay_ms"
	ColMeanPolicyR       = "mean_policy_r"
)

// SummaryNumericColumns are coerced to numbers on load; everything else passes through.
var SummaryNumericColumns = []string{
	ColFinalLossDeadline,
	ColOverheadRatio,
	ColMeanQueueDelay,
	ColMeanPolicyR,
}

// RunRecord is one row of the summary table: a finished simulation run.
type RunRecord struct {
	Scenario string
	Mode     Mode
	Seed     int64
	HasSeed  bool

	FinalLossDeadline  Value
	OverheadRatioBytes Value
	MeanQueueDelayMs   Value
	// MeanPolicyR is only meaningful for the adaptive engine; static rows
	// usually leave it empty or zero.
	MeanPolicyR Value

	// Extra holds every column outside the fixed schema, untouched.
	Extra map[string]string
}

// RunKey identifies a run. It is expected to be unique within a table.
type RunKey struct {
	Scenario string
	Mode     Mode
	Seed     int64
}

func (r RunRecord) Key() RunKey {
	return RunKey{Scenario: r.Scenario, Mode: r.Mode, Seed: r.Seed}
}

// Table is a loaded summary file.
type Table struct {
	Path     string
	Records  []RunRecord
	Warnings []CoercionWarning
}

// Scenarios returns the sorted set of distinct scenario names.
func (t *Table) Scenarios() []string {
	seen := map[string]struct{}{}
	for _, r := range t.Records {
		seen[r.Scenario] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Filter returns the records of one scenario and mode, in table order.
func (t *Table) Filter(scenario string, mode Mode) []RunRecord {
	var out []RunRecord
	for _, r := range t.Records {
		if r.Scenario == scenario && r.Mode == mode {
			out = append(out, r)
		}
	}
	return out
}

// Duplicates returns the run keys that appear more than once, with their
// counts. Rows without a parseable seed are not considered. Duplicates are
// tolerated by aggregation (they just weigh more) but point at a broken
// export upstream.
func (t *Table) Duplicates() map[RunKey]int {
	counts := map[RunKey]int{}
	for _, r := range t.Records {
		if !r.HasSeed {
			continue
		}
		counts[r.Key()]++
	}
	for k, n := range counts {
		if n < 2 {
			delete(counts, k)
		}
	}
	return counts
}

// Time-series columns. Every column but t_ms is optional.
const (
	ColTMs               = "t_ms"
	ColLossWindow        = "loss_window"
	ColTargetBWEBps      = "target_bwe_bps"
	ColMediaRateBps      = "media_rate_bps"
	ColCapacityBps       = "capacity_bps"
	ColCurrentBitrateBps = "current_bitrate_bps"
	ColQueueDelayMs      = "queue_delay_ms"
	ColPolicyR           = "policy_r"
)

// TimeSeriesColumns are coerced when present in a time-series file.
var TimeSeriesColumns = []string{
	ColTMs,
	ColLossWindow,
	ColTargetBWEBps,
	ColMediaRateBps,
	ColCapacityBps,
	ColCurrentBitrateBps,
	ColQueueDelayMs,
	ColPolicyR,
}

// Sample is one row of a per-run time series.
type Sample struct {
	TMs               Value
	LossWindow        Value
	TargetBWEBps      Value
	MediaRateBps      Value
	CapacityBps       Value
	CurrentBitrateBps Value
	QueueDelayMs      Value
	PolicyR           Value
}

// Field returns the value of a known time-series column.
func (s Sample) Field(col string) Value {
	switch col {
	case ColTMs:
		return s.TMs
	case ColLossWindow:
		return s.LossWindow
	case ColTargetBWEBps:
		return s.TargetBWEBps
	case ColMediaRateBps:
		return s.MediaRateBps
	case ColCapacityBps:
		return s.CapacityBps
	case ColCurrentBitrateBps:
		return s.CurrentBitrateBps
	case ColQueueDelayMs:
		return s.QueueDelayMs
	case ColPolicyR:
		return s.PolicyR
	}
	return Value{}
}

// TimeSeries is one loaded per-run detail file.
type TimeSeries struct {
	Path     string
	Samples  []Sample
	Warnings []CoercionWarning
	columns  map[string]bool
}

// Has reports whether the file carried the given column.
func (ts *TimeSeries) Has(col string) bool {
	if ts == nil {
		return false
	}
	return ts.columns[col]
}

// XY returns the (t_ms, col) pairs where both values are present.
func (ts *TimeSeries) XY(col string) (xs, ys []float64) {
	if !ts.Has(col) || !ts.Has(ColTMs) {
		return nil, nil
	}
	for _, s := range ts.Samples {
		x, y := s.TMs, s.Field(col)
		if !x.Valid || !y.Valid {
			continue
		}
		xs = append(xs, x.V)
		ys = append(ys, y.V)
	}
	return xs, ys
}
