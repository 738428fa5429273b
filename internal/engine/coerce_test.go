package engine

import (
	"math"
	"testing"
)

func TestToNumber(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want float64
	}{
		{"int", 12, 12},
		{"float", 2.5, 2.5},
		{"numeric text", "1500", 1500},
		{"padded text", "  3.25 ", 3.25},
		{"exponent", "1e3", 1000},
		{"blank", "", 0},
		{"spaces", "   ", 0},
		{"nil", nil, 0},
		{"currency symbol", "$ 1.000", 0},
		{"thousands comma", "1,000", 0},
		{"words", "sin dato", 0},
		{"nan text", "NaN", 0},
		{"inf text", "Inf", 0},
		{"overflow", "1e400", 0},
		{"nan float", math.NaN(), 0},
		{"bool", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToNumber(tt.in)
			if math.IsNaN(got) || math.IsInf(got, 0) {
				t.Fatalf("ToNumber(%v) = %v, want a finite number", tt.in, got)
			}
			if got != tt.want {
				t.Errorf("ToNumber(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSumColumns(t *testing.T) {
	got := sumColumns([]float64{1, 2}, []float64{10, 20}, []float64{100, 200})
	if got[0] != 111 || got[1] != 222 {
		t.Errorf("sumColumns: got %v", got)
	}
	if sumColumns() != nil {
		t.Error("sumColumns of nothing should be nil")
	}
}
