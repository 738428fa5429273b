package engine

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ToNumber coerces a raw cell to a finite float64. Anything that does not
// parse as a number (blank, "$ 1.000", "n/a", NaN, Inf) becomes 0.
func ToNumber(v any) float64 {
	if s, ok := v.(string); ok {
		v = strings.TrimSpace(s)
		if v == "" {
			return 0
		}
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// numbers coerces one sheet column.
func numbers(s *Sheet, rows []int, col int) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = ToNumber(s.Cell(r, col))
	}
	return out
}

// texts copies one sheet column as trimmed text.
func texts(s *Sheet, rows []int, col int) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = strings.TrimSpace(s.Cell(r, col))
	}
	return out
}

// sumColumns adds measure columns element-wise.
func sumColumns(cols ...[]float64) []float64 {
	if len(cols) == 0 {
		return nil
	}
	out := make([]float64, len(cols[0]))
	for _, c := range cols {
		for i, v := range c {
			out[i] += v
		}
	}
	return out
}
