// Package analysis groups run records by (scenario, mode) and summarizes each
// metric with mean, sample standard deviation and a normal-approximation
// confidence half-width.
//
// The interval uses a fixed critical value (1.96 for 95%) whatever the sample
// size. With few seeds per condition this understates the width a
// t-distribution would give; it is kept that way so reports stay comparable
// with earlier runs.
package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/lars-sto/fecreport/src/results"
)

// DefaultZ is the two-sided 95% normal critical value.
const DefaultZ = 1.96

// Metric is one outcome column of the summary table.
type Metric int

const (
	MetricLoss Metric = iota
	MetricOverhead
	MetricQueueDelay
	MetricPolicyR
)

// AllMetrics lists every metric in display order.
var AllMetrics = []Metric{MetricLoss, MetricOverhead, MetricQueueDelay, MetricPolicyR}

// Column is the summary CSV column the metric reads.
func (m Metric) Column() string {
	switch m {
	case MetricLoss:
		return results.ColFinalLossDeadline
	case MetricOverhead:
		return results.ColOverheadRatio
	case MetricQueueDelay:
		return results.ColMeanQueueDelay
	case MetricPolicyR:
		return results.ColMeanPolicyR
	}
	return ""
}

// Short is the prefix used in log lines and text tables (loss_mean, oh_ci, ...).
func (m Metric) Short() string {
	switch m {
	case MetricLoss:
		return "loss"
	case MetricOverhead:
		return "oh"
	case MetricQueueDelay:
		return "q"
	case MetricPolicyR:
		return "policy_r"
	}
	return "?"
}

func (m Metric) String() string { return m.Column() }

// Of selects the metric's value from a record.
func (m Metric) Of(r results.RunRecord) results.Value {
	switch m {
	case MetricLoss:
		return r.FinalLossDeadline
	case MetricOverhead:
		return r.OverheadRatioBytes
	case MetricQueueDelay:
		return r.MeanQueueDelayMs
	case MetricPolicyR:
		return r.MeanPolicyR
	}
	return results.Value{}
}

// Stat summarizes one metric in one group.
//
// N counts the non-missing values. With N == 0 every field but N is NaN; with
// N == 1 the standard deviation and CI are 0.
type Stat struct {
	N    int
	Mean float64
	Std  float64
	CI   float64
}

// Empty is the Stat of a metric with no values.
func Empty() Stat { return Stat{Mean: math.NaN(), Std: math.NaN(), CI: math.NaN()} }

// Defined reports whether the mean is a number.
func (s Stat) Defined() bool { return s.N > 0 && !math.IsNaN(s.Mean) }

// Summarize computes mean, sample standard deviation and z*std/sqrt(n).
func Summarize(values []float64, z float64) Stat {
	n := len(values)
	switch n {
	case 0:
		return Empty()
	case 1:
		return Stat{N: 1, Mean: values[0]}
	}
	mean, std := stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return Stat{N: n, Mean: mean, Std: std, CI: z * std / math.Sqrt(float64(n))}
}

// Key identifies a (scenario, mode) cell.
type Key struct {
	Scenario string
	Mode     results.Mode
}

// Group is the aggregate of one (scenario, mode) pair.
//
// N is the number of rows in the group, including rows whose metrics are all
// missing. The sample size behind a mean is the metric's own Stat.N; reports
// quote Stat(MetricLoss).N as the group's n.
type Group struct {
	Key
	N       int
	Metrics map[Metric]Stat
}

// Stat returns the summary of m, or an empty Stat when m was not aggregated.
func (g Group) Stat(m Metric) Stat {
	if s, ok := g.Metrics[m]; ok {
		return s
	}
	return Empty()
}

// Aggregate returns one Group per distinct (scenario, mode) present in
// records. A record missing a metric is left out of that metric only.
// Groups come back sorted by scenario then mode; callers that render should
// still go through Index.Reindex to get the full grid.
func Aggregate(records []results.RunRecord, z float64, metrics ...Metric) []Group {
	if len(metrics) == 0 {
		metrics = AllMetrics
	}
	type acc struct {
		n      int
		values map[Metric][]float64
	}
	byKey := map[Key]*acc{}
	var order []Key
	for _, r := range records {
		k := Key{Scenario: r.Scenario, Mode: r.Mode}
		a, ok := byKey[k]
		if !ok {
			a = &acc{values: map[Metric][]float64{}}
			byKey[k] = a
			order = append(order, k)
		}
		a.n++
		for _, m := range metrics {
			if v := m.Of(r); v.Valid {
				a.values[m] = append(a.values[m], v.V)
			}
		}
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].Scenario != order[j].Scenario {
			return order[i].Scenario < order[j].Scenario
		}
		return order[i].Mode < order[j].Mode
	})

	groups := make([]Group, 0, len(order))
	for _, k := range order {
		a := byKey[k]
		g := Group{Key: k, N: a.n, Metrics: make(map[Metric]Stat, len(metrics))}
		for _, m := range metrics {
			g.Metrics[m] = Summarize(a.values[m], z)
		}
		groups = append(groups, g)
	}
	return groups
}

// Index looks groups up by key.
type Index struct {
	groups map[Key]Group
}

// NewIndex indexes groups by (scenario, mode).
func NewIndex(groups []Group) *Index {
	idx := &Index{groups: make(map[Key]Group, len(groups))}
	for _, g := range groups {
		idx.groups[g.Key] = g
	}
	return idx
}

// Lookup returns the group for a cell and whether it had any runs.
func (x *Index) Lookup(scenario string, mode results.Mode) (Group, bool) {
	g, ok := x.groups[Key{Scenario: scenario, Mode: mode}]
	return g, ok
}

// Cell returns the group for a cell, or an N == 0 group with empty stats.
func (x *Index) Cell(scenario string, mode results.Mode) Group {
	if g, ok := x.Lookup(scenario, mode); ok {
		return g
	}
	return Group{Key: Key{Scenario: scenario, Mode: mode}}
}

// Reindex lays the groups out on the scenarios × modes grid, scenario-major,
// filling absent cells with N == 0 groups. It never fails.
func (x *Index) Reindex(scenarios []string, modes []results.Mode) []Group {
	out := make([]Group, 0, len(scenarios)*len(modes))
	for _, s := range scenarios {
		for _, m := range modes {
			out = append(out, x.Cell(s, m))
		}
	}
	return out
}

// Column returns the Stat of metric for each scenario under one mode, in the
// given scenario order. This is the shape a grouped bar chart consumes.
func (x *Index) Column(scenarios []string, mode results.Mode, metric Metric) []Stat {
	out := make([]Stat, len(scenarios))
	for i, s := range scenarios {
		out[i] = x.Cell(s, mode).Stat(metric)
	}
	return out
}

// MeanPoint returns the mean (overhead, loss) of the runs of one scenario and
// mode, each axis averaged over its own non-missing values. ok is false when
// either axis has no values.
func MeanPoint(records []results.RunRecord, scenario string, mode results.Mode) (x, y float64, ok bool) {
	var xs, ys []float64
	for _, r := range records {
		if r.Scenario != scenario || r.Mode != mode {
			continue
		}
		if r.OverheadRatioBytes.Valid {
			xs = append(xs, r.OverheadRatioBytes.V)
		}
		if r.FinalLossDeadline.Valid {
			ys = append(ys, r.FinalLossDeadline.V)
		}
	}
	if len(xs) == 0 || len(ys) == 0 {
		return 0, 0, false
	}
	return stat.Mean(xs, nil), stat.Mean(ys, nil), true
}
