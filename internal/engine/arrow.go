package engine

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	"github.com/apache/arrow/go/v18/arrow/ipc"
	"github.com/apache/arrow/go/v18/arrow/memory"
)

// ArrowSchema maps measures to float64 and every other column to utf8.
// Each field carries its kind in the "kind" metadata key.
func (d *Dataset) ArrowSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(d.cols))
	for i, c := range d.cols {
		var typ arrow.DataType = arrow.BinaryTypes.String
		if c.Kind == Measure {
			typ = arrow.PrimitiveTypes.Float64
		}
		fields[i] = arrow.Field{
			Name:     c.Name,
			Type:     typ,
			Metadata: arrow.NewMetadata([]string{"kind"}, []string{c.Kind.String()}),
		}
	}
	md := arrow.NewMetadata([]string{"program"}, []string{d.Program})
	return arrow.NewSchema(fields, &md)
}

// ArrowRecord copies the dataset into one Arrow record batch.
// The caller must Release it.
func (d *Dataset) ArrowRecord(mem memory.Allocator) (arrow.Record, error) {
	b := array.NewRecordBuilder(mem, d.ArrowSchema())
	defer b.Release()

	for i, c := range d.cols {
		switch fb := b.Field(i).(type) {
		case *array.Float64Builder:
			fb.AppendValues(c.Values, nil)
		case *array.StringBuilder:
			fb.AppendValues(c.Text, nil)
		default:
			return nil, fmt.Errorf("column %q: unexpected builder %T", c.Name, fb)
		}
	}
	return b.NewRecord(), nil
}

// WriteArrow streams the dataset to w in the Arrow IPC stream format.
func (d *Dataset) WriteArrow(w io.Writer) error {
	mem := memory.NewGoAllocator()
	rec, err := d.ArrowRecord(mem)
	if err != nil {
		return err
	}
	defer rec.Release()

	wr := ipc.NewWriter(w, ipc.WithSchema(rec.Schema()), ipc.WithAllocator(mem))
	if err := wr.Write(rec); err != nil {
		wr.Close()
		return fmt.Errorf("write arrow record: %w", err)
	}
	return wr.Close()
}
