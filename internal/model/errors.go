package model

import "fmt"

// Typed error kinds for the analysis pipeline. Each stage validates its own
// inputs at entry and fails fast; errors carry the stage name and a concise
// field/row reference so the caller can point at the offending input.

// InsufficientDataError indicates the input window is too short for a
// statistically meaningful estimate.
type InsufficientDataError struct {
	Stage  string
	Ref    string // e.g. "load_series"
	Reason string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%s: insufficient data (%s): %s", e.Stage, e.Ref, e.Reason)
}

// MalformedSeriesError indicates gaps, misaligned timestamps, or non-numeric
// values in an input series.
type MalformedSeriesError struct {
	Stage  string
	Ref    string // e.g. "load_series row 1412"
	Reason string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("%s: malformed series (%s): %s", e.Stage, e.Ref, e.Reason)
}

// DivisionByZeroError indicates a degenerate reliability computation, e.g.
// a period with zero mean committed capacity.
type DivisionByZeroError struct {
	Stage  string
	Ref    string
	Reason string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero (%s): %s", e.Stage, e.Ref, e.Reason)
}

// InvalidAssumptionError indicates a nonsensical financial configuration,
// e.g. a discount rate at or below -100% or a negative capacity.
type InvalidAssumptionError struct {
	Stage  string
	Ref    string
	Reason string
}

func (e *InvalidAssumptionError) Error() string {
	return fmt.Sprintf("%s: invalid assumption (%s): %s", e.Stage, e.Ref, e.Reason)
}
