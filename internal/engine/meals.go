package engine

import "time"

// Source headers of the school-meals workbook, matched exactly.
const (
	mealsJurisdiction = "Jurisdicción"
	mealsAmount       = "Monto Anual"
	mealsExecution    = "Ejecución Presupuestaria %"
	mealsAgency       = "Organismo provincial responsable"
	mealsTotalRow     = "Totales"
)

// Meals columns.
const (
	ColAnnualAmount      = "AnnualAmount"
	ColExecutionPct      = "ExecutionPct"
	ColResponsibleAgency = "ResponsibleAgency"
)

// Meals metric labels.
const (
	MetricAnnualAmount = "Monto Anual Total"
	MetricExecutionAvg = "Promedio de Ejecución"
)

// Meals is the normalized school-meals budget table.
type Meals struct {
	Dataset *Dataset
	// Jurisdictions lists the filter options in sheet order.
	Jurisdictions []string
}

// Meals loads the school-meals workbook. The row whose jurisdiction is
// exactly "Totales" is dropped, as are rows with no jurisdiction.
func (l *Loader) Meals(path string) (*Meals, error) {
	start := time.Now()
	m, dropped, err := loadMeals(path)
	if err != nil {
		l.logFailure("meals", path, err)
		return nil, err
	}
	l.logLoad("meals", path, start, m.Dataset.Len(), dropped)
	return m, nil
}

func loadMeals(path string) (*Meals, int, error) {
	s, err := ReadSheet(path, 0)
	if err != nil {
		return nil, 0, err
	}

	var refs [4]ColumnRef
	for i, col := range [4][2]string{
		{ColJurisdiction, mealsJurisdiction},
		{ColAnnualAmount, mealsAmount},
		{ColExecutionPct, mealsExecution},
		{ColResponsibleAgency, mealsAgency},
	} {
		if refs[i], err = ResolveExact(s.Headers, col[0], col[1]); err != nil {
			return nil, 0, err
		}
	}
	jur, amount, pct, agency := refs[0], refs[1], refs[2], refs[3]

	keep := make([]int, 0, len(s.Rows))
	for r := range s.Rows {
		name := s.Cell(r, jur.Index)
		if name == mealsTotalRow || isBlank(name) {
			continue
		}
		keep = append(keep, r)
	}

	ds := NewDataset("meals")
	names := texts(s, keep, jur.Index)
	if err := ds.AddCategory(ColJurisdiction, names); err != nil {
		return nil, 0, err
	}
	if err := ds.AddMeasure(ColAnnualAmount, numbers(s, keep, amount.Index)); err != nil {
		return nil, 0, err
	}
	if err := ds.AddMeasure(ColExecutionPct, numbers(s, keep, pct.Index)); err != nil {
		return nil, 0, err
	}
	if err := ds.AddIdentifier(ColResponsibleAgency, texts(s, keep, agency.Index)); err != nil {
		return nil, 0, err
	}
	return &Meals{Dataset: ds, Jurisdictions: distinct(names)}, len(s.Rows) - len(keep), nil
}

// Filter applies a jurisdiction multi-select to the meals table.
func (m *Meals) Filter(f JurisdictionFilter) (*Dataset, error) {
	return f.Apply(m.Dataset)
}

// MealsMetrics computes the summary cards over a (possibly filtered) table.
// The execution average is NaN when ds has no rows.
func MealsMetrics(ds *Dataset) (MetricSet, error) {
	total, err := ScalarMetric(ds, ColAnnualAmount, OpSum)
	if err != nil {
		return nil, err
	}
	avg, err := ScalarMetric(ds, ColExecutionPct, OpMean)
	if err != nil {
		return nil, err
	}
	return MetricSet{
		{Label: MetricAnnualAmount, Value: total},
		{Label: MetricExecutionAvg, Value: avg},
	}, nil
}
