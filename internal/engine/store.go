package engine

import (
	"fmt"
	"strconv"
)

// ColumnKind tells the aggregator how a column may be used.
type ColumnKind int

const (
	Category ColumnKind = iota
	Measure
	Identifier
)

func (k ColumnKind) String() string {
	switch k {
	case Category:
		return "category"
	case Measure:
		return "measure"
	case Identifier:
		return "identifier"
	default:
		return "unknown"
	}
}

// Column is one flat array of a Dataset. Measures live in Values,
// categories and identifiers in Text.
type Column struct {
	Name   string
	Kind   ColumnKind
	Text   []string
	Values []float64
}

// Len returns the number of rows held by the column.
func (c *Column) Len() int {
	if c.Kind == Measure {
		return len(c.Values)
	}
	return len(c.Text)
}

// String renders row i the way table dumps show it.
func (c *Column) String(i int) string {
	if c.Kind == Measure {
		return strconv.FormatFloat(c.Values[i], 'f', -1, 64)
	}
	return c.Text[i]
}

// Dataset holds the normalized rows of one program in Struct-of-Arrays format.
// Rows are never mutated after load; filtering builds a new Dataset.
type Dataset struct {
	Program string

	cols  []*Column
	index map[string]int
	rows  int
}

// NewDataset creates an empty dataset owned by the named program.
func NewDataset(program string) *Dataset {
	return &Dataset{Program: program, index: make(map[string]int)}
}

// Len returns the row count.
func (d *Dataset) Len() int { return d.rows }

// AddCategory appends a grouping column.
func (d *Dataset) AddCategory(name string, values []string) error {
	return d.add(&Column{Name: name, Kind: Category, Text: values})
}

// AddIdentifier appends a free-text column that is displayed but never grouped.
func (d *Dataset) AddIdentifier(name string, values []string) error {
	return d.add(&Column{Name: name, Kind: Identifier, Text: values})
}

// AddMeasure appends a numeric column.
func (d *Dataset) AddMeasure(name string, values []float64) error {
	return d.add(&Column{Name: name, Kind: Measure, Values: values})
}

func (d *Dataset) add(c *Column) error {
	if _, dup := d.index[c.Name]; dup {
		return fmt.Errorf("dataset %s: duplicate column %q", d.Program, c.Name)
	}
	if len(d.cols) > 0 && c.Len() != d.rows {
		return fmt.Errorf("dataset %s: column %q has %d rows, want %d", d.Program, c.Name, c.Len(), d.rows)
	}
	d.rows = c.Len()
	d.index[c.Name] = len(d.cols)
	d.cols = append(d.cols, c)
	return nil
}

// Has reports whether a column with that name exists.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column.
func (d *Dataset) Column(name string) (*Column, error) {
	i, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w %q in %s", ErrUnknownColumn, name, d.Program)
	}
	return d.cols[i], nil
}

// Columns returns the columns in insertion order.
func (d *Dataset) Columns() []*Column { return d.cols }

// Names returns the column names in insertion order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.cols))
	for i, c := range d.cols {
		names[i] = c.Name
	}
	return names
}

// Select returns a new dataset holding the rows for which keep is true,
// in their original order.
func (d *Dataset) Select(keep func(row int) bool) *Dataset {
	picked := make([]int, 0, d.rows)
	for i := 0; i < d.rows; i++ {
		if keep(i) {
			picked = append(picked, i)
		}
	}

	out := NewDataset(d.Program)
	for _, c := range d.cols {
		nc := &Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Measure {
			nc.Values = make([]float64, len(picked))
			for j, i := range picked {
				nc.Values[j] = c.Values[i]
			}
		} else {
			nc.Text = make([]string, len(picked))
			for j, i := range picked {
				nc.Text[j] = c.Text[i]
			}
		}
		out.index[nc.Name] = len(out.cols)
		out.cols = append(out.cols, nc)
	}
	out.rows = len(picked)
	return out
}

// Project returns a dataset sharing the named columns, in the given order.
func (d *Dataset) Project(names ...string) (*Dataset, error) {
	out := NewDataset(d.Program)
	for _, n := range names {
		c, err := d.Column(n)
		if err != nil {
			return nil, err
		}
		if err := out.add(c); err != nil {
			return nil, err
		}
	}
	out.rows = d.rows
	return out, nil
}

// Rows renders the dataset as a string matrix for table widgets.
func (d *Dataset) Rows() [][]string {
	out := make([][]string, d.rows)
	for i := range out {
		row := make([]string, len(d.cols))
		for j, c := range d.cols {
			row[j] = c.String(i)
		}
		out[i] = row
	}
	return out
}
