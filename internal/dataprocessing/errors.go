package dataprocessing

import "fmt"

// SchemaError reports a required column missing from the workbook's
// header row.
type SchemaError struct {
	Column string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("required column %q not found in header row", e.Column)
}

// ParseError reports a cell whose value could not be parsed.
type ParseError struct {
	Sheet  string
	Row    int // 1-based workbook row
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sheet %q row %d: cannot parse %s value %q: %v",
		e.Sheet, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
