// Package config holds the settings of one report run. A Config is a plain
// value: nothing in the pipeline reads package-level state, so several
// generators with different settings can live in one process.
package config

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lars-sto/fecreport/src/results"
)

// Defaults match the layout the simulator writes.
const (
	DefaultSummaryPath   = "results/summary.csv"
	DefaultTimeSeriesDir = "results/timeseries"
	DefaultPlotsDir      = "results/plots"
	DefaultConfidenceZ   = 1.96
	DefaultStaticPolicyR = 2.0
	DefaultWidth         = 1200
	DefaultHeight        = 675
)

// DefaultTimeSeriesScenarios are the scenarios that get per-run detail charts.
var DefaultTimeSeriesScenarios = []string{"bwe_bottleneck", "loss_steps", "gilbert_burst"}

type Config struct {
	SummaryPath   string `json:"summary_path" yaml:"summary_path"`
	TimeSeriesDir string `json:"timeseries_dir" yaml:"timeseries_dir"`
	PlotsDir      string `json:"plots_dir" yaml:"plots_dir"`

	// ConfidenceZ is the critical value of the normal-approximation CI.
	ConfidenceZ float64 `json:"confidence_z" yaml:"confidence_z"`
	// StaticPolicyR is the fixed redundancy of the static scheme, drawn as a
	// reference line on the adaptive policy chart.
	StaticPolicyR float64 `json:"static_policy_r" yaml:"static_policy_r"`

	TimeSeriesScenarios []string `json:"timeseries_scenarios" yaml:"timeseries_scenarios"`
	// SeriesOrder picks which seed file represents a condition: "lexical" or "numeric".
	SeriesOrder string `json:"series_order" yaml:"series_order"`

	Width    int  `json:"width" yaml:"width"`
	Height   int  `json:"height" yaml:"height"`
	Footnote bool `json:"footnote" yaml:"footnote"`
	Show     bool `json:"show" yaml:"show"`
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		SummaryPath:         DefaultSummaryPath,
		TimeSeriesDir:       DefaultTimeSeriesDir,
		PlotsDir:            DefaultPlotsDir,
		ConfidenceZ:         DefaultConfidenceZ,
		StaticPolicyR:       DefaultStaticPolicyR,
		TimeSeriesScenarios: append([]string(nil), DefaultTimeSeriesScenarios...),
		SeriesOrder:         "lexical",
		Width:               DefaultWidth,
		Height:              DefaultHeight,
		Footnote:            true,
	}
}

// Validate rejects settings no run could succeed with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.SummaryPath) == "" {
		errs = append(errs, errors.New("summary_path is empty"))
	}
	if strings.TrimSpace(c.PlotsDir) == "" {
		errs = append(errs, errors.New("plots_dir is empty"))
	}
	if !(c.ConfidenceZ > 0) {
		errs = append(errs, fmt.Errorf("confidence_z must be > 0, got %v", c.ConfidenceZ))
	}
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("chart size must be positive, got %dx%d", c.Width, c.Height))
	}
	if _, err := results.OrderPolicyByName(c.SeriesOrder); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Locator returns the time-series locator described by the config.
func (c Config) Locator() results.Locator {
	order, err := results.OrderPolicyByName(c.SeriesOrder)
	if err != nil {
		order = results.LexicalOrder
	}
	return results.Locator{Dir: c.TimeSeriesDir, Order: order}
}

// Load reads a config file over Default(). Files ending in .yaml or .yml are
// YAML; anything else is JSON with full-line // comments allowed.
func Load(path string) (Config, error) {
	cfg := Default()
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var b []byte
		if b, err = os.ReadFile(path); err == nil {
			err = yaml.Unmarshal(b, &cfg)
		}
	default:
		var b []byte
		if b, err = StripJSONC(path); err == nil {
			err = json.Unmarshal(b, &cfg)
		}
	}
	if err != nil {
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// StripJSONC reads a JSONC file and returns it with full-line // comments
// removed. Inline // is left alone since paths and URLs contain it.
func StripJSONC(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []byte
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "//") {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out, sc.Err()
}
