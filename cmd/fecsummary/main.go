// fecsummary prints the per-condition aggregate table behind the charts:
// run count plus mean and confidence half-width for each metric.
// On a terminal it draws a styled table; otherwise it writes CSV.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"

	"github.com/lars-sto/fecreport/src/analysis"
	"github.com/lars-sto/fecreport/src/config"
	"github.com/lars-sto/fecreport/src/logging"
	"github.com/lars-sto/fecreport/src/results"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	numberStyle = cellStyle.Align(lipgloss.Right)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

func main() {
	var file, scenario, logLevel string
	var z float64
	var plain bool
	flag.StringVar(&file, "file", config.DefaultSummaryPath, "Path to summary.csv")
	flag.StringVar(&scenario, "scenario", "", "Optional scenario filter (exact match)")
	flag.Float64Var(&z, "z", config.DefaultConfidenceZ, "Confidence multiplier")
	flag.BoolVar(&plain, "csv", false, "Write CSV even on a terminal")
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	flag.Parse()
	logging.SetTool("fecsummary")
	if !logging.SetLogLevel(logLevel) {
		fmt.Fprintf(os.Stderr, "unknown log level %q\n", logLevel)
		os.Exit(2)
	}

	if z <= 0 {
		fmt.Fprintln(os.Stderr, "error: -z must be positive")
		os.Exit(2)
	}
	tbl, err := results.LoadSummary(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	recs := tbl.Records
	if scenario != "" {
		recs = nil
		for _, r := range tbl.Records {
			if r.Scenario == scenario {
				recs = append(recs, r)
			}
		}
	}
	rows := summaryRows(analysis.Aggregate(recs, z))

	if !plain && isatty.IsTerminal(os.Stdout.Fd()) {
		fmt.Println(styledTable(rows))
		fmt.Printf("%d groups from %d runs, z=%s\n", len(rows)-1, len(recs), strconv.FormatFloat(z, 'g', -1, 64))
		return
	}
	if err := writeCSV(os.Stdout, rows); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// summaryRows returns a header row followed by one row per group. n counts
// the runs with a deadline-loss value, not every row of the group.
func summaryRows(groups []analysis.Group) [][]string {
	header := []string{"scenario", "mode", "n"}
	for _, m := range analysis.AllMetrics {
		header = append(header, m.Short()+"_mean", m.Short()+"_ci")
	}
	rows := [][]string{header}
	for _, g := range groups {
		row := []string{g.Scenario, string(g.Mode), strconv.Itoa(g.Stat(analysis.MetricLoss).N)}
		for _, m := range analysis.AllMetrics {
			s := g.Stat(m)
			row = append(row, formatNumber(s.Mean), formatNumber(s.CI))
		}
		rows = append(rows, row)
	}
	return rows
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func styledTable(rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(rows[0]...).
		Rows(rows[1:]...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return numberStyle
			default:
				return cellStyle
			}
		})
	return t.Render()
}

func writeCSV(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}
