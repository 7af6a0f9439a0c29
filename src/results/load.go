package results

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lars-sto/fecreport/src/logging"
)

// csvTable is a header-indexed CSV file.
type csvTable struct {
	header []string
	index  map[string]int
	rows   [][]string
}

func (t *csvTable) has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// cell returns the raw cell of row for col, "" when the column or the cell is absent.
func (t *csvTable) cell(row []string, col string) string {
	i, ok := t.index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// requireFile stats path and turns a missing file into a MissingInputError.
func requireFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &MissingInputError{Path: path}
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return fmt.Errorf("%s is a directory, want a CSV file", path)
	}
	return nil
}

func readCSV(path string) (*csvTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: empty file, no header", path)
		}
		return nil, fmt.Errorf("%s: read header: %w", path, err)
	}
	t := &csvTable{header: header, index: make(map[string]int, len(header))}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := t.index[h]; !dup {
			t.index[h] = i
		}
	}
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		t.rows = append(t.rows, rec)
	}
	return t, nil
}

// maxLoggedWarnings caps the coercion warnings logged per summary file; the
// full list stays on Table.Warnings.
const maxLoggedWarnings = 20

// coerce parses a numeric cell. Empty cells and NaN are missing without
// complaint; anything else that fails to parse, and ±Inf, is missing and
// flagged.
func coerce(raw string) (v Value, bad bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return Value{}, true
	}
	if math.IsNaN(f) {
		return Value{}, false
	}
	return Some(f), false
}

// LoadSummary reads the per-run summary table at path.
//
// A missing file yields *MissingInputError. The scenario and mode columns are
// required; the four metric columns are coerced to numbers when present and
// every other column is kept verbatim in RunRecord.Extra.
func LoadSummary(path string) (*Table, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	raw, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	for _, col := range []string{ColScenario, ColMode} {
		if !raw.has(col) {
			return nil, fmt.Errorf("%s: required column %q not in header", path, col)
		}
	}

	known := map[string]bool{ColScenario: true, ColMode: true, ColSeed: true}
	for _, c := range SummaryNumericColumns {
		known[c] = true
	}

	table := &Table{Path: path, Records: make([]RunRecord, 0, len(raw.rows))}
	for i, row := range raw.rows {
		rec := RunRecord{
			Scenario: strings.TrimSpace(raw.cell(row, ColScenario)),
			Mode:     Mode(strings.TrimSpace(raw.cell(row, ColMode))),
		}
		if s := strings.TrimSpace(raw.cell(row, ColSeed)); s != "" {
			if seed, err := strconv.ParseInt(s, 10, 64); err == nil {
				rec.Seed, rec.HasSeed = seed, true
			}
		}
		num := func(col string) Value {
			if !raw.has(col) {
				return Value{}
			}
			cell := raw.cell(row, col)
			v, bad := coerce(cell)
			if bad {
				table.Warnings = append(table.Warnings, CoercionWarning{Path: path, Row: i + 1, Column: col, Raw: cell})
			}
			return v
		}
		rec.FinalLossDeadline = num(ColFinalLossDeadline)
		rec.OverheadRatioBytes = num(ColOverheadRatio)
		rec.MeanQueueDelayMs = num(ColMeanQueueDelay)
		rec.MeanPolicyR = num(ColMeanPolicyR)

		for col, idx := range raw.index {
			if known[col] || idx >= len(row) {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = map[string]string{}
			}
			rec.Extra[col] = row[idx]
		}
		table.Records = append(table.Records, rec)
	}

	logging.WarnEach(table.Warnings, maxLoggedWarnings, "non-numeric cells in "+path)
	for k, n := range table.Duplicates() {
		logging.Warnf("data quality: run %s/%s/seed%d appears %d times in %s", k.Scenario, k.Mode, k.Seed, n, path)
	}
	logging.Debugf("loaded %d runs from %s", len(table.Records), path)
	return table, nil
}

// LoadTimeSeries reads one per-run time-series file. Known columns that are
// present get coerced; absent ones are recorded as absent and unknown columns
// are ignored.
func LoadTimeSeries(path string) (*TimeSeries, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	raw, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	ts := &TimeSeries{Path: path, columns: map[string]bool{}, Samples: make([]Sample, 0, len(raw.rows))}
	for _, col := range TimeSeriesColumns {
		if raw.has(col) {
			ts.columns[col] = true
		}
	}
	for i, row := range raw.rows {
		num := func(col string) Value {
			if !ts.columns[col] {
				return Value{}
			}
			cell := raw.cell(row, col)
			v, bad := coerce(cell)
			if bad {
				ts.Warnings = append(ts.Warnings, CoercionWarning{Path: path, Row: i + 1, Column: col, Raw: cell})
			}
			return v
		}
		ts.Samples = append(ts.Samples, Sample{
			TMs:               num(ColTMs),
			LossWindow:        num(ColLossWindow),
			TargetBWEBps:      num(ColTargetBWEBps),
			MediaRateBps:      num(ColMediaRateBps),
			CapacityBps:       num(ColCapacityBps),
			CurrentBitrateBps: num(ColCurrentBitrateBps),
			QueueDelayMs:      num(ColQueueDelayMs),
			PolicyR:           num(ColPolicyR),
		})
	}
	logging.WarnEach(ts.Warnings, 3, "non-numeric cells in "+path)
	return ts, nil
}
