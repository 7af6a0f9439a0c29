package results

import "fmt"

// MissingInputError reports that a required input file does not exist.
// It is returned before any parsing is attempted.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("missing input: %s not found", e.Path)
}

// CoercionWarning records a cell of a numeric column that could not be parsed.
// The cell is treated as missing; loading continues.
type CoercionWarning struct {
	Path   string
	Row    int // 1-based data row, header excluded
	Column string
	Raw    string
}

func (w CoercionWarning) String() string {
	return fmt.Sprintf("%s row %d: %s=%q is not numeric; treated as missing", w.Path, w.Row, w.Column, w.Raw)
}
