package engine

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const scholarshipsJurisdiction = "Jurisdicción"

// Tag is a logical scholarship column, bound to the first header that
// contains it.
type Tag string

const (
	TagVG       Tag = "VG"
	TagAP       Tag = "AP"
	TagAI       Tag = "AI"
	TagMPyCP    Tag = "MPyCP"
	TagFondos   Tag = "Fondos"
	TagBecarios Tag = "Becarios"
)

// LineTags are the scholarship lines offered by the selector, in order.
var LineTags = []Tag{TagVG, TagAP, TagAI, TagMPyCP}

// scholarshipTags is the resolution order; VG and Fondos are required.
var scholarshipTags = []struct {
	tag      Tag
	required bool
}{
	{TagVG, true},
	{TagAP, false},
	{TagAI, false},
	{TagMPyCP, false},
	{TagFondos, true},
	{TagBecarios, false},
}

// Scholarships metric labels.
const (
	MetricFunds   = "Monto Total de Fondos"
	MetricHolders = "Total de Becarios"
)

// LineLabel is the selector label for a line tag, e.g. "Becas VG".
func LineLabel(t Tag) string { return "Becas " + string(t) }

// ParseLine accepts either a tag ("VG") or its selector label ("Becas VG").
func ParseLine(s string) (Tag, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "Becas "))
	for _, t := range LineTags {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown scholarship line %q", s)
}

// Scholarships is the normalized scholarships table. Measure columns are
// named after their tag; Bindings records which header each tag bound to.
type Scholarships struct {
	Dataset  *Dataset
	Bindings map[Tag]ColumnRef
	Headers  []string
}

// ResolveScholarshipColumns binds every tag against already-trimmed headers.
// A missing VG or Fondos column fails with a ColumnResolutionError listing
// the headers; the other tags are left unbound when absent.
func ResolveScholarshipColumns(headers []string) (map[Tag]ColumnRef, error) {
	out := make(map[Tag]ColumnRef, len(scholarshipTags))
	for _, st := range scholarshipTags {
		ref, err := ResolveContains(headers, string(st.tag), string(st.tag))
		if err != nil {
			if st.required {
				return nil, err
			}
			continue
		}
		out[st.tag] = ref
	}
	return out, nil
}

// Scholarships loads the scholarships workbook. Headers are trimmed before
// any lookup; rows whose jurisdiction contains "TOTAL" or "Total" are dropped.
func (l *Loader) Scholarships(path string) (*Scholarships, error) {
	start := time.Now()
	sc, dropped, err := loadScholarships(path)
	if err != nil {
		l.logFailure("scholarships", path, err)
		return nil, err
	}
	l.logLoad("scholarships", path, start, sc.Dataset.Len(), dropped)
	return sc, nil
}

func loadScholarships(path string) (*Scholarships, int, error) {
	s, err := ReadSheet(path, 0)
	if err != nil {
		return nil, 0, err
	}
	headers := TrimHeaders(s.Headers)

	jur, err := ResolveExact(headers, ColJurisdiction, scholarshipsJurisdiction)
	if err != nil {
		return nil, 0, err
	}
	bindings, err := ResolveScholarshipColumns(headers)
	if err != nil {
		return nil, 0, err
	}

	keep := make([]int, 0, len(s.Rows))
	for r := range s.Rows {
		name := s.Cell(r, jur.Index)
		if isBlank(name) || strings.Contains(name, "TOTAL") || strings.Contains(name, "Total") {
			continue
		}
		keep = append(keep, r)
	}

	ds := NewDataset("scholarships")
	if err := ds.AddCategory(ColJurisdiction, texts(s, keep, jur.Index)); err != nil {
		return nil, 0, err
	}
	for _, st := range scholarshipTags {
		ref, ok := bindings[st.tag]
		if !ok {
			continue
		}
		if err := ds.AddMeasure(string(st.tag), numbers(s, keep, ref.Index)); err != nil {
			return nil, 0, err
		}
	}
	return &Scholarships{Dataset: ds, Bindings: bindings, Headers: headers}, len(s.Rows) - len(keep), nil
}

// Lines returns the line tags that resolved, in selector order.
func (sc *Scholarships) Lines() []Tag {
	out := make([]Tag, 0, len(LineTags))
	for _, t := range LineTags {
		if _, ok := sc.Bindings[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// Metrics returns total funds and total scholarship holders. Without a
// Becarios column the holder count is NaN.
func (sc *Scholarships) Metrics() (MetricSet, error) {
	funds, err := ScalarMetric(sc.Dataset, string(TagFondos), OpSum)
	if err != nil {
		return nil, err
	}
	holders := math.NaN()
	if _, ok := sc.Bindings[TagBecarios]; ok {
		if holders, err = ScalarMetric(sc.Dataset, string(TagBecarios), OpSum); err != nil {
			return nil, err
		}
	}
	return MetricSet{
		{Label: MetricFunds, Value: funds},
		{Label: MetricHolders, Value: holders},
	}, nil
}

// Line returns the per-jurisdiction series of one scholarship line next to
// the per-jurisdiction Fondos series, both in sheet order.
func (sc *Scholarships) Line(t Tag) (line, funds *GroupedAggregate, err error) {
	if _, ok := sc.Bindings[t]; !ok {
		return nil, nil, &ColumnResolutionError{Logical: string(t), Mode: MatchContains, Want: string(t), Headers: sc.Headers}
	}
	if line, err = GroupSum(sc.Dataset, []string{ColJurisdiction}, string(t), OrderInsertion); err != nil {
		return nil, nil, err
	}
	if funds, err = GroupSum(sc.Dataset, []string{ColJurisdiction}, string(TagFondos), OrderInsertion); err != nil {
		return nil, nil, err
	}
	return line, funds, nil
}
