package engine

import (
	"strings"
	"time"

	"github.com/spf13/cast"
)

// The vouchers workbook has a decorative first row; the real header is row 2.
const vouchersHeaderRow = 1

const vouchersTotalMarker = "TOTAL"

// Vouchers columns.
const (
	ColTotalStudents   = "TotalStudents"
	ColTotalInvestment = "TotalInvestment"
	ColLevel           = "Level"
)

// Vouchers metric labels.
const (
	MetricBeneficiaries = "Total Beneficiarios"
	MetricInvestment    = "Inversión Total"
	MetricJurisdictions = "Jurisdicciones"
)

// VoucherLevel is one educational level and the fixed offsets of its
// (institutions, students, investment) triplet.
type VoucherLevel struct {
	Name         string
	Institutions int
	Students     int
	Investment   int
}

// VoucherLevels lists the three levels in sheet order.
var VoucherLevels = []VoucherLevel{
	{Name: "Inicial", Institutions: 1, Students: 2, Investment: 3},
	{Name: "Primario", Institutions: 4, Students: 5, Investment: 6},
	{Name: "Secundario", Institutions: 7, Students: 8, Investment: 9},
}

// InstitutionsColumn names the per-level institution count column.
func (v VoucherLevel) InstitutionsColumn() string { return v.Name + "Institutions" }

// StudentsColumn names the per-level enrolled-student column.
func (v VoucherLevel) StudentsColumn() string { return v.Name + "Students" }

// InvestmentColumn names the per-level investment column.
func (v VoucherLevel) InvestmentColumn() string { return v.Name + "Investment" }

// Vouchers is the normalized educational-vouchers table.
type Vouchers struct {
	Dataset *Dataset
	// Headers are the source headers of row 2, kept for display.
	Headers []string
}

// Vouchers loads the vouchers workbook. Columns are bound by position.
// Rows with an empty jurisdiction or whose jurisdiction contains "TOTAL"
// (case-sensitive) are dropped. Student and investment cells that do not
// parse become 0.
func (l *Loader) Vouchers(path string) (*Vouchers, error) {
	start := time.Now()
	v, dropped, err := loadVouchers(path)
	if err != nil {
		l.logFailure("vouchers", path, err)
		return nil, err
	}
	l.logLoad("vouchers", path, start, v.Dataset.Len(), dropped)
	return v, nil
}

func loadVouchers(path string) (*Vouchers, int, error) {
	s, err := ReadSheet(path, vouchersHeaderRow)
	if err != nil {
		return nil, 0, err
	}

	jur, err := ResolveOffset(s.Headers, ColJurisdiction, 0)
	if err != nil {
		return nil, 0, err
	}
	type triplet struct{ inst, students, invest ColumnRef }
	refs := make([]triplet, len(VoucherLevels))
	for i, lv := range VoucherLevels {
		if refs[i].inst, err = ResolveOffset(s.Headers, lv.InstitutionsColumn(), lv.Institutions); err != nil {
			return nil, 0, err
		}
		if refs[i].students, err = ResolveOffset(s.Headers, lv.StudentsColumn(), lv.Students); err != nil {
			return nil, 0, err
		}
		if refs[i].invest, err = ResolveOffset(s.Headers, lv.InvestmentColumn(), lv.Investment); err != nil {
			return nil, 0, err
		}
	}

	keep := make([]int, 0, len(s.Rows))
	for r := range s.Rows {
		name := s.Cell(r, jur.Index)
		if isBlank(name) || strings.Contains(name, vouchersTotalMarker) {
			continue
		}
		// Numeric cells in the jurisdiction column are footnotes or counts.
		if _, err := cast.ToFloat64E(strings.TrimSpace(name)); err == nil {
			continue
		}
		keep = append(keep, r)
	}

	ds := NewDataset("vouchers")
	if err := ds.AddCategory(ColJurisdiction, texts(s, keep, jur.Index)); err != nil {
		return nil, 0, err
	}
	students := make([][]float64, 0, len(refs))
	invest := make([][]float64, 0, len(refs))
	for i, lv := range VoucherLevels {
		st := numbers(s, keep, refs[i].students.Index)
		iv := numbers(s, keep, refs[i].invest.Index)
		students = append(students, st)
		invest = append(invest, iv)

		if err := ds.AddIdentifier(lv.InstitutionsColumn(), texts(s, keep, refs[i].inst.Index)); err != nil {
			return nil, 0, err
		}
		if err := ds.AddMeasure(lv.StudentsColumn(), st); err != nil {
			return nil, 0, err
		}
		if err := ds.AddMeasure(lv.InvestmentColumn(), iv); err != nil {
			return nil, 0, err
		}
	}
	if err := ds.AddMeasure(ColTotalStudents, sumColumns(students...)); err != nil {
		return nil, 0, err
	}
	if err := ds.AddMeasure(ColTotalInvestment, sumColumns(invest...)); err != nil {
		return nil, 0, err
	}
	return &Vouchers{Dataset: ds, Headers: s.Headers}, len(s.Rows) - len(keep), nil
}

// Metrics returns beneficiaries, investment and jurisdiction count.
func (v *Vouchers) Metrics() (MetricSet, error) {
	students, err := ScalarMetric(v.Dataset, ColTotalStudents, OpSum)
	if err != nil {
		return nil, err
	}
	invest, err := ScalarMetric(v.Dataset, ColTotalInvestment, OpSum)
	if err != nil {
		return nil, err
	}
	return MetricSet{
		{Label: MetricBeneficiaries, Value: students},
		{Label: MetricInvestment, Value: invest},
		{Label: MetricJurisdictions, Value: float64(v.Dataset.Len())},
	}, nil
}

// LevelInvestment sums investment per level, one group per level in order.
func (v *Vouchers) LevelInvestment() (*GroupedAggregate, error) {
	out := &GroupedAggregate{KeyColumns: []string{ColLevel}, Measure: ColTotalInvestment}
	for _, lv := range VoucherLevels {
		sum, err := ScalarMetric(v.Dataset, lv.InvestmentColumn(), OpSum)
		if err != nil {
			return nil, err
		}
		out.Groups = append(out.Groups, Group{Keys: []string{lv.Name}, Value: sum, Rows: v.Dataset.Len()})
	}
	return out, nil
}

// StudentsByJurisdiction ranks jurisdictions by total students, largest first.
func (v *Vouchers) StudentsByJurisdiction() (*GroupedAggregate, error) {
	return GroupSum(v.Dataset, []string{ColJurisdiction}, ColTotalStudents, OrderDescending)
}
