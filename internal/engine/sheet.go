package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheet is the first worksheet of a workbook, split into a header row and
// the data rows below it. Every data row is padded to len(Headers).
type Sheet struct {
	Path    string
	Name    string
	Headers []string
	Rows    [][]string
}

// ReadSheet opens path, reads its first worksheet with raw cell values and
// closes the file before returning. headerRow is the 0-based row holding the
// column names; rows above it are discarded. Fully blank rows are skipped.
func ReadSheet(path string, headerRow int) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &FileNotFoundError{Path: path}
		}
		return nil, &SheetError{Path: path, Err: err}
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, &SheetError{Path: path, Err: ErrNoWorksheet}
	}

	raw, err := f.GetRows(names[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &SheetError{Path: path, Err: err}
	}
	if len(raw) <= headerRow {
		return nil, &SheetError{Path: path, Err: fmt.Errorf("no header at row %d (sheet has %d rows)", headerRow+1, len(raw))}
	}

	width := len(raw[headerRow])
	for _, r := range raw[headerRow+1:] {
		if len(r) > width {
			width = len(r)
		}
	}

	s := &Sheet{Path: path, Name: names[0], Headers: make([]string, width)}
	for i := range s.Headers {
		h := safeGet(raw[headerRow], i)
		if strings.TrimSpace(h) == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		s.Headers[i] = h
	}

	for _, r := range raw[headerRow+1:] {
		if blank(r) {
			continue
		}
		row := make([]string, width)
		copy(row, r)
		s.Rows = append(s.Rows, row)
	}
	return s, nil
}

// Cell returns the raw value at (row, col), or "" when out of range.
func (s *Sheet) Cell(row, col int) string {
	if row < 0 || row >= len(s.Rows) {
		return ""
	}
	return safeGet(s.Rows[row], col)
}

func safeGet(row []string, i int) string {
	if i >= 0 && i < len(row) {
		return row[i]
	}
	return ""
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
