package engine

import (
	"strings"
	"time"
)

// Source headers of the books annex, matched exactly.
const (
	booksArea         = "Área"
	booksGrade        = "Grado"
	booksPublisher    = "Editorial"
	booksJurisdiction = "Jurisdicción"
	booksQuantity     = "Cantidad"
)

// Books columns.
const (
	ColArea      = "Area"
	ColGrade     = "Grade"
	ColPublisher = "Publisher"
	ColQuantity  = "Quantity"
)

// Books metric labels.
const (
	MetricCopies     = "Total de Ejemplares"
	MetricPublishers = "Editoriales Participantes"
)

// Books is the normalized books-distribution annex. Source columns other
// than the five known ones are kept as identifiers under their own header.
type Books struct {
	Dataset *Dataset
}

// Books loads the books annex. Cantidad cells that do not parse become 0.
// Rows without a jurisdiction, or whose jurisdiction or area is a total
// marker ("Total", "Totales", any case), are dropped.
func (l *Loader) Books(path string) (*Books, error) {
	start := time.Now()
	b, dropped, err := loadBooks(path)
	if err != nil {
		l.logFailure("books", path, err)
		return nil, err
	}
	l.logLoad("books", path, start, b.Dataset.Len(), dropped)
	return b, nil
}

func loadBooks(path string) (*Books, int, error) {
	s, err := ReadSheet(path, 0)
	if err != nil {
		return nil, 0, err
	}

	known := []struct {
		logical, header string
		kind            ColumnKind
	}{
		{ColArea, booksArea, Category},
		{ColGrade, booksGrade, Category},
		{ColPublisher, booksPublisher, Category},
		{ColJurisdiction, booksJurisdiction, Category},
		{ColQuantity, booksQuantity, Measure},
	}
	refs := make(map[string]ColumnRef, len(known))
	bound := make(map[int]bool, len(known))
	for _, k := range known {
		ref, err := ResolveExact(s.Headers, k.logical, k.header)
		if err != nil {
			return nil, 0, err
		}
		refs[k.logical] = ref
		bound[ref.Index] = true
	}

	jur, area, grade := refs[ColJurisdiction].Index, refs[ColArea].Index, refs[ColGrade].Index
	keep := make([]int, 0, len(s.Rows))
	for r := range s.Rows {
		name := s.Cell(r, jur)
		if isBlank(name) || isTotalMarker(name) || isTotalMarker(s.Cell(r, area)) {
			continue
		}
		// Rows without area or grade cannot be grouped.
		if isBlank(s.Cell(r, area)) || isBlank(s.Cell(r, grade)) {
			continue
		}
		keep = append(keep, r)
	}

	ds := NewDataset("books")
	for _, k := range known {
		idx := refs[k.logical].Index
		if k.kind == Measure {
			err = ds.AddMeasure(k.logical, numbers(s, keep, idx))
		} else {
			err = ds.AddCategory(k.logical, texts(s, keep, idx))
		}
		if err != nil {
			return nil, 0, err
		}
	}
	for i, h := range s.Headers {
		if bound[i] || ds.Has(h) {
			continue
		}
		if err := ds.AddIdentifier(h, texts(s, keep, i)); err != nil {
			return nil, 0, err
		}
	}
	return &Books{Dataset: ds}, len(s.Rows) - len(keep), nil
}

func isTotalMarker(s string) bool {
	s = strings.TrimSpace(s)
	return strings.EqualFold(s, "total") || strings.EqualFold(s, "totales")
}

// Metrics returns total copies and the number of distinct publishers.
func (b *Books) Metrics() (MetricSet, error) {
	copies, err := ScalarMetric(b.Dataset, ColQuantity, OpSum)
	if err != nil {
		return nil, err
	}
	publishers, err := ScalarMetric(b.Dataset, ColPublisher, OpDistinctCount)
	if err != nil {
		return nil, err
	}
	return MetricSet{
		{Label: MetricCopies, Value: copies},
		{Label: MetricPublishers, Value: publishers},
	}, nil
}

// ByJurisdiction ranks jurisdictions by copies received, largest first.
func (b *Books) ByJurisdiction() (*GroupedAggregate, error) {
	return GroupSum(b.Dataset, []string{ColJurisdiction}, ColQuantity, OrderDescending)
}

// ByAreaGrade sums copies per (Área, Grado). Area is the sub-series key.
func (b *Books) ByAreaGrade() (*GroupedAggregate, error) {
	return GroupSum(b.Dataset, []string{ColArea, ColGrade}, ColQuantity, OrderKeys)
}
