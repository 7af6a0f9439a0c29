// Package report renders the comparison charts for a loaded summary table:
// the global Pareto scatter, grouped mean ± CI bars per metric, per-scenario
// Pareto overlays, the adaptive policy chart and, for a chosen set of
// scenarios, time-series panels of one representative run per mode.
//
// Every chart is rendered in memory and then moved into place, so the output
// directory only ever holds complete images. File names depend only on the
// input, so rerunning over the same data rewrites the same set of files.
package report

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lars-sto/fecreport/src/analysis"
	"github.com/lars-sto/fecreport/src/config"
	"github.com/lars-sto/fecreport/src/logging"
	"github.com/lars-sto/fecreport/src/results"
)

// Fixed catalog names.
const (
	GlobalParetoFile = "pareto_overhead_vs_deadline_loss.png"
	PolicyRFile      = "mean_policy_r_adaptive.png"
)

// fileToken maps a scenario name onto a single path element: separators and
// ".." become "_", so a chart for any scenario lands inside the plots
// directory under a name derived only from the scenario.
func fileToken(scenario string) string {
	r := strings.NewReplacer("/", "_", "\\", "_", "..", "_", "\x00", "_")
	s := r.Replace(strings.TrimSpace(scenario))
	if s == "" || s == "." {
		return "_"
	}
	return s
}

// ScenarioParetoFile is the per-scenario Pareto chart name.
func ScenarioParetoFile(scenario string) string { return "pareto_" + fileToken(scenario) + ".png" }

// Skip records a catalog item that was deliberately not produced.
type Skip struct {
	Item   string
	Reason string
}

// Result lists what one run produced.
type Result struct {
	Dir     string
	Written []string
	Skipped []Skip
	Groups  []analysis.Group
}

// Generator renders the chart catalog. It holds no state between runs.
type Generator struct {
	cfg     config.Config
	locator results.Locator
}

// Option adjusts a Generator.
type Option func(*Generator)

// WithLocator overrides the time-series locator derived from the config.
func WithLocator(l results.Locator) Option {
	return func(g *Generator) { g.locator = l }
}

func New(cfg config.Config, opts ...Option) *Generator {
	g := &Generator{cfg: cfg, locator: cfg.Locator()}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Build loads the summary named by cfg and runs the full catalog. A missing
// summary surfaces as *results.MissingInputError before anything is written.
func Build(cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	table, err := results.LoadSummary(cfg.SummaryPath)
	if err != nil {
		return nil, err
	}
	return New(cfg).Run(table)
}

type catalogItem struct {
	name     string
	footnote string
	fn       func() (image.Image, error)
}

// Run renders the whole catalog for table. The first chart that fails to
// render aborts the run; charts already written stay.
func (g *Generator) Run(table *results.Table) (*Result, error) {
	defer logging.TimeTrack(time.Now(), "report")
	if err := g.cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(g.cfg.PlotsDir, 0o755); err != nil {
		return nil, fmt.Errorf("create plots dir: %w", err)
	}

	z := g.cfg.ConfidenceZ
	w, h := g.cfg.Width, g.cfg.Height
	scenarios := table.Scenarios()
	groups := analysis.Aggregate(table.Records, z)
	idx := analysis.NewIndex(groups)
	g.logGroups(table, groups)

	res := &Result{Dir: g.cfg.PlotsDir, Groups: groups}
	note := g.footnote(table.Path)

	bars := barSpecs(g.cfg.StaticPolicyR)
	items := []catalogItem{{GlobalParetoFile, note, func() (image.Image, error) { return renderGlobalPareto(table, w, h) }}}
	for _, spec := range bars {
		if spec.Reference != nil {
			continue
		}
		spec := spec
		items = append(items, catalogItem{spec.File, note, func() (image.Image, error) { return renderBars(spec, idx, scenarios, w, h) }})
	}
	for _, s := range scenarios {
		s := s
		items = append(items, catalogItem{ScenarioParetoFile(s), note, func() (image.Image, error) { return renderScenarioPareto(table, s, w, h) }})
	}
	for _, spec := range bars {
		if spec.Reference == nil {
			continue
		}
		spec := spec
		items = append(items, catalogItem{spec.File, note, func() (image.Image, error) { return renderBars(spec, idx, scenarios, w, h) }})
	}
	for _, it := range items {
		if err := g.save(res, it); err != nil {
			return res, err
		}
	}

	for _, s := range g.seriesScenarios(scenarios) {
		runs, found := g.representativeRuns(s)
		if len(found) == 0 {
			reason := fmt.Sprintf("no %s__<mode>__seed*.csv in %s", s, g.locator.Dir)
			logging.Infof("time series for %s skipped: %s", s, reason)
			res.Skipped = append(res.Skipped, Skip{Item: s, Reason: reason})
			continue
		}
		sNote := ""
		if g.cfg.Footnote {
			sNote = strings.Join(found, ", ")
		}
		for _, panel := range tsPanels {
			panel := panel
			name := timeSeriesFile(s, panel)
			it := catalogItem{name, sNote, func() (image.Image, error) { return renderTimeSeries(s, panel, runs, w, h) }}
			if err := g.save(res, it); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// seriesScenarios keeps the configured time-series scenarios that the table
// actually has, in configured order.
func (g *Generator) seriesScenarios(scenarios []string) []string {
	have := make(map[string]bool, len(scenarios))
	for _, s := range scenarios {
		have[s] = true
	}
	var out []string
	for _, s := range g.cfg.TimeSeriesScenarios {
		if have[s] {
			out = append(out, s)
		}
	}
	return out
}

// representativeRuns loads the first time series per mode. found names the
// files that loaded.
func (g *Generator) representativeRuns(scenario string) (runs []modeSeries, found []string) {
	for _, m := range results.Modes {
		run := modeSeries{mode: m}
		if path, ok := g.locator.Find(scenario, m); ok {
			ts, err := results.LoadTimeSeries(path)
			if err != nil {
				logging.Warnf("time series %s unusable: %v", path, err)
			} else {
				run.ts = ts
				found = append(found, filepath.Base(path))
			}
		} else {
			logging.Debugf("no time series for %s/%s", scenario, m)
		}
		runs = append(runs, run)
	}
	return runs, found
}

func (g *Generator) footnote(source string) string {
	if !g.cfg.Footnote {
		return ""
	}
	note := fmt.Sprintf("z=%s", formatTick(g.cfg.ConfidenceZ))
	if source != "" {
		note = filepath.Base(source) + ", " + note
	}
	return note
}

func (g *Generator) save(res *Result, it catalogItem) error {
	img, err := it.fn()
	if err != nil {
		return fmt.Errorf("render %s: %w", it.name, err)
	}
	img = stampFootnote(img, it.footnote)
	data, err := encodePNG(img)
	if err != nil {
		return fmt.Errorf("encode %s: %w", it.name, err)
	}
	out := filepath.Join(g.cfg.PlotsDir, it.name)
	if err := writeFileAtomic(out, data); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	logging.Infof("saved: %s", out)
	res.Written = append(res.Written, out)
	return nil
}

func (g *Generator) logGroups(table *results.Table, groups []analysis.Group) {
	unknown := 0
	for _, r := range table.Records {
		if !r.Mode.Known() {
			unknown++
		}
	}
	if unknown > 0 {
		logging.Warnf("%d runs have a mode outside %v and are left out of per-mode charts", unknown, results.Modes)
	}
	for _, grp := range groups {
		loss, oh := grp.Stat(analysis.MetricLoss), grp.Stat(analysis.MetricOverhead)
		logging.Debugf("%s/%s n=%d loss_mean=%.4f loss_ci=%.4f oh_mean=%.4f oh_ci=%.4f",
			grp.Scenario, grp.Mode, grp.N, loss.Mean, loss.CI, oh.Mean, oh.CI)
	}
}
