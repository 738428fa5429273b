package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoWorksheet is returned when a workbook has no sheets to read.
var ErrNoWorksheet = errors.New("workbook has no worksheets")

// ErrUnknownColumn is returned when a dataset has no column by that name.
var ErrUnknownColumn = errors.New("unknown dataset column")

// FileNotFoundError reports a source spreadsheet that does not exist.
type FileNotFoundError struct {
	Path string
}

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("source file not found: %s", e.Path)
}

// SheetError reports a spreadsheet that exists but could not be read.
type SheetError struct {
	Path string
	Err  error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *SheetError) Unwrap() error { return e.Err }

// ColumnResolutionError reports a logical column that could not be bound
// to any physical header. Headers lists what the sheet actually had.
type ColumnResolutionError struct {
	Logical string
	Mode    MatchMode
	Want    string
	Offset  int
	Headers []string
}

func (e *ColumnResolutionError) Error() string {
	var want string
	switch e.Mode {
	case MatchExact:
		want = fmt.Sprintf("header %q", e.Want)
	case MatchContains:
		want = fmt.Sprintf("header containing %q", e.Want)
	case MatchOffset:
		want = fmt.Sprintf("column at offset %d", e.Offset)
	}
	return fmt.Sprintf("column %s not found: no %s; got headers=[%s]",
		e.Logical, want, strings.Join(quoteAll(e.Headers), ", "))
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = fmt.Sprintf("%q", s)
	}
	return out
}
