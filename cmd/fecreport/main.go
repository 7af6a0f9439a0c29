// fecreport turns the simulator's summary table into the comparison chart set.
//
// Settings come from an optional config file (JSONC or YAML); the path flags
// override it. A missing summary file exits with status 1 before any chart is
// written.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/lars-sto/fecreport/src/config"
	"github.com/lars-sto/fecreport/src/logging"
	"github.com/lars-sto/fecreport/src/report"
	"github.com/lars-sto/fecreport/src/results"
	"github.com/lars-sto/fecreport/src/viewer"
)

func main() {
	configPath := flag.String("config", "", "Path to a JSONC or YAML config file (optional)")
	summary := flag.String("summary", "", "Summary CSV (default "+config.DefaultSummaryPath+")")
	tsDir := flag.String("timeseries-dir", "", "Directory of per-run time series (default "+config.DefaultTimeSeriesDir+")")
	plotsDir := flag.String("plots-dir", "", "Output directory for charts (default "+config.DefaultPlotsDir+")")
	seriesOrder := flag.String("series-order", "", "Which seed file represents a condition: lexical|numeric")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	show := flag.Bool("show", false, "Open the written charts in a window when done")
	flag.Parse()
	logging.SetTool("fecreport")

	if !logging.SetLogLevel(*logLevel) {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", *logLevel)
		os.Exit(2)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "summary":
			cfg.SummaryPath = *summary
		case "timeseries-dir":
			cfg.TimeSeriesDir = *tsDir
		case "plots-dir":
			cfg.PlotsDir = *plotsDir
		case "series-order":
			cfg.SeriesOrder = *seriesOrder
		case "show":
			cfg.Show = *show
		}
	})

	res, err := report.Build(cfg)
	if err != nil {
		var missing *results.MissingInputError
		if errors.As(err, &missing) {
			fmt.Fprintf(os.Stderr, "%s not found\n", missing.Path)
			os.Exit(1)
		}
		logging.Errorf("report: %v", err)
		os.Exit(1)
	}
	for _, s := range res.Skipped {
		logging.Debugf("skipped %s: %s", s.Item, s.Reason)
	}
	logging.Infof("wrote %d charts to %s", len(res.Written), res.Dir)

	if cfg.Show {
		viewer.Show("fecreport: "+res.Dir, res.Written)
	}
}
