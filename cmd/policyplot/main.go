// policyplot renders exploratory charts for single-scenario policy-engine
// observer logs (loss, overhead, FEC state and bitrate over time).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/lars-sto/fecreport/src/config"
	"github.com/lars-sto/fecreport/src/logging"
	"github.com/lars-sto/fecreport/src/report"
)

func main() {
	out := flag.String("out", config.DefaultPlotsDir, "Output directory for charts")
	width := flag.Int("width", config.DefaultWidth, "Chart width in pixels")
	height := flag.Int("height", config.DefaultHeight, "Chart height in pixels")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] trace.csv [trace.csv ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	logging.SetTool("policyplot")
	if !logging.SetLogLevel(*logLevel) {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", *logLevel)
		os.Exit(2)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Default()
	cfg.PlotsDir = *out
	cfg.Width, cfg.Height = *width, *height
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	g := report.New(cfg)

	failed := false
	for _, in := range flag.Args() {
		res, err := g.RenderPolicyTrace(in)
		if err != nil {
			logging.Errorf("%s: %v", in, err)
			failed = true
			continue
		}
		for _, s := range res.Skipped {
			logging.Infof("%s skipped: %s", s.Item, s.Reason)
		}
	}
	if failed {
		os.Exit(1)
	}
}
