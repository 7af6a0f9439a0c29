package results

import (
	"fmt"
	"strconv"
	"strings"
)

// Policy-engine observer columns. Older traces name the time column "time"
// (a step index) instead of "time_ms".
const (
	ColTraceTimeMs         = "time_ms"
	ColTraceTime           = "time"
	ColTraceLoss           = "loss"
	ColTraceRTT            = "rtt"
	ColTraceCurrentBitrate = "current_bitrate"
	ColTraceTargetBitrate  = "target_bitrate"
	ColTraceFECEnabled     = "fec_enabled"
	ColTraceOverhead       = "overhead"
)

// TracePoint is one decision of the policy engine.
type TracePoint struct {
	Time           float64
	Loss           Value
	RTT            Value
	CurrentBitrate Value
	TargetBitrate  Value
	FECEnabled     Value // 0 or 1
	Overhead       Value
}

// PolicyTrace is a single-scenario observer log, the input of the
// exploratory charts.
type PolicyTrace struct {
	Path       string
	TimeColumn string
	Points     []TracePoint
	columns    map[string]bool
}

// Has reports whether the trace carried the column.
func (p *PolicyTrace) Has(col string) bool { return p != nil && p.columns[col] }

// LoadPolicyTrace reads an observer CSV. Rows whose time cannot be parsed are
// dropped; other unparsable cells are missing.
func LoadPolicyTrace(path string) (*PolicyTrace, error) {
	if err := requireFile(path); err != nil {
		return nil, err
	}
	raw, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	pt := &PolicyTrace{Path: path, columns: map[string]bool{}}
	switch {
	case raw.has(ColTraceTimeMs):
		pt.TimeColumn = ColTraceTimeMs
	case raw.has(ColTraceTime):
		pt.TimeColumn = ColTraceTime
	default:
		return nil, fmt.Errorf("%s: no %q or %q column", path, ColTraceTimeMs, ColTraceTime)
	}
	for _, c := range []string{ColTraceLoss, ColTraceRTT, ColTraceCurrentBitrate, ColTraceTargetBitrate, ColTraceFECEnabled, ColTraceOverhead} {
		if raw.has(c) {
			pt.columns[c] = true
		}
	}
	for _, row := range raw.rows {
		t, _ := coerce(raw.cell(row, pt.TimeColumn))
		if !t.Valid {
			continue
		}
		num := func(col string) Value {
			v, _ := coerce(raw.cell(row, col))
			return v
		}
		pt.Points = append(pt.Points, TracePoint{
			Time:           t.V,
			Loss:           num(ColTraceLoss),
			RTT:            num(ColTraceRTT),
			CurrentBitrate: num(ColTraceCurrentBitrate),
			TargetBitrate:  num(ColTraceTargetBitrate),
			FECEnabled:     parseBoolish(raw.cell(row, ColTraceFECEnabled)),
			Overhead:       num(ColTraceOverhead),
		})
	}
	return pt, nil
}

// parseBoolish accepts true/false as well as numeric flags.
func parseBoolish(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Value{}
	}
	if b, err := strconv.ParseBool(s); err == nil {
		if b {
			return Some(1)
		}
		return Some(0)
	}
	v, _ := coerce(s)
	return v
}
