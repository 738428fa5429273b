package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Op is a scalar reduction over one column.
type Op int

const (
	OpSum Op = iota
	OpMean
	OpCount
	OpDistinctCount
)

func (o Op) String() string {
	switch o {
	case OpSum:
		return "sum"
	case OpMean:
		return "mean"
	case OpCount:
		return "count"
	case OpDistinctCount:
		return "distinct_count"
	default:
		return fmt.Sprintf("op(%d)", int(o))
	}
}

// Metric is one labelled scalar.
type Metric struct {
	Label string
	Value float64
}

// MetricSet is an ordered label -> value mapping.
type MetricSet []Metric

// Get returns the value stored under label.
func (m MetricSet) Get(label string) (float64, bool) {
	for _, x := range m {
		if x.Label == label {
			return x.Value, true
		}
	}
	return 0, false
}

// ScalarMetric reduces one column of ds. It never fails on an empty dataset:
// sums and counts are 0 and the mean is NaN, which callers show as "no data".
// Sum and mean require a measure column.
func ScalarMetric(ds *Dataset, column string, op Op) (float64, error) {
	col, err := ds.Column(column)
	if err != nil {
		return 0, err
	}

	switch op {
	case OpSum, OpMean:
		if col.Kind != Measure {
			return 0, fmt.Errorf("%s of %s column %q", op, col.Kind, column)
		}
		var sum float64
		for _, v := range col.Values {
			sum += v
		}
		if op == OpSum {
			return sum, nil
		}
		if len(col.Values) == 0 {
			return math.NaN(), nil
		}
		return sum / float64(len(col.Values)), nil

	case OpCount:
		if col.Kind == Measure {
			return float64(len(col.Values)), nil
		}
		n := 0
		for _, v := range col.Text {
			if v != "" {
				n++
			}
		}
		return float64(n), nil

	case OpDistinctCount:
		if col.Kind == Measure {
			seen := make(map[float64]struct{}, len(col.Values))
			for _, v := range col.Values {
				seen[v] = struct{}{}
			}
			return float64(len(seen)), nil
		}
		return float64(len(distinct(col.Text))), nil
	}
	return 0, fmt.Errorf("unknown metric op %s", op)
}

// Order selects how GroupSum sorts its groups.
type Order int

const (
	// OrderInsertion keeps groups in first-seen row order.
	OrderInsertion Order = iota
	// OrderKeys sorts groups by their key tuple.
	OrderKeys
	// OrderDescending sorts by value, largest first; ties keep row order.
	OrderDescending
)

// Group is one key tuple and the measure summed over its rows.
type Group struct {
	Keys  []string
	Value float64
	Rows  int
}

// Key returns the last key, the one a bar chart puts on its category axis.
func (g Group) Key() string {
	return g.Keys[len(g.Keys)-1]
}

// GroupedAggregate is the result of GroupSum.
type GroupedAggregate struct {
	KeyColumns []string
	Measure    string
	Groups     []Group
}

// Total sums every group.
func (g *GroupedAggregate) Total() float64 {
	var t float64
	for _, x := range g.Groups {
		t += x.Value
	}
	return t
}

// Get returns the group value for a key tuple.
func (g *GroupedAggregate) Get(keys ...string) (float64, bool) {
	for _, x := range g.Groups {
		if equalKeys(x.Keys, keys) {
			return x.Value, true
		}
	}
	return 0, false
}

func equalKeys(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// GroupSum sums measure over the distinct tuples of one or two category
// columns. Rows with an empty key are left out.
func GroupSum(ds *Dataset, keys []string, measure string, order Order) (*GroupedAggregate, error) {
	if len(keys) < 1 || len(keys) > 2 {
		return nil, fmt.Errorf("group by %d columns: want 1 or 2", len(keys))
	}
	keyCols := make([]*Column, len(keys))
	for i, k := range keys {
		c, err := ds.Column(k)
		if err != nil {
			return nil, err
		}
		if c.Kind != Category {
			return nil, fmt.Errorf("group by %s column %q", c.Kind, k)
		}
		keyCols[i] = c
	}
	m, err := ds.Column(measure)
	if err != nil {
		return nil, err
	}
	if m.Kind != Measure {
		return nil, fmt.Errorf("sum of %s column %q", m.Kind, measure)
	}

	out := &GroupedAggregate{KeyColumns: keys, Measure: measure}
	pos := make(map[string]int)

rows:
	for i := 0; i < ds.Len(); i++ {
		tuple := make([]string, len(keyCols))
		for j, c := range keyCols {
			if c.Text[i] == "" {
				continue rows
			}
			tuple[j] = c.Text[i]
		}
		id := strings.Join(tuple, "\x00")
		p, ok := pos[id]
		if !ok {
			p = len(out.Groups)
			pos[id] = p
			out.Groups = append(out.Groups, Group{Keys: tuple})
		}
		out.Groups[p].Value += m.Values[i]
		out.Groups[p].Rows++
	}

	switch order {
	case OrderKeys:
		sort.SliceStable(out.Groups, func(i, j int) bool {
			a, b := out.Groups[i].Keys, out.Groups[j].Keys
			for k := range a {
				if a[k] != b[k] {
					return keyLess(a[k], b[k])
				}
			}
			return false
		})
	case OrderDescending:
		sort.SliceStable(out.Groups, func(i, j int) bool {
			return out.Groups[i].Value > out.Groups[j].Value
		})
	}
	return out, nil
}

// keyLess orders two key values numerically when both are numbers, so
// grade "2" sorts before "10". Otherwise it compares text.
func keyLess(a, b string) bool {
	x, errA := cast.ToFloat64E(a)
	y, errB := cast.ToFloat64E(b)
	if errA == nil && errB == nil && x != y {
		return x < y
	}
	return a < b
}
