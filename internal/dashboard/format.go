package dashboard

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"

	"educdash/internal/engine"
	"educdash/internal/models"
)

const noData = "Sin datos"

func money(v float64) string {
	return "$ " + humanize.Comma(int64(math.Round(v)))
}

func count(v float64) string {
	return humanize.Comma(int64(math.Round(v)))
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// card turns a metric into a display card. NaN and Inf become "no data".
func card(m engine.Metric, format func(float64) string) models.MetricCard {
	if math.IsNaN(m.Value) || math.IsInf(m.Value, 0) {
		return models.MetricCard{Label: m.Label, Display: noData}
	}
	return models.MetricCard{Label: m.Label, Value: m.Value, Display: format(m.Value), HasData: true}
}

// cards formats a metric set with one formatter per metric, in order.
func cards(ms engine.MetricSet, formats ...func(float64) string) []models.MetricCard {
	out := make([]models.MetricCard, len(ms))
	for i, m := range ms {
		f := count
		if i < len(formats) {
			f = formats[i]
		}
		out[i] = card(m, f)
	}
	return out
}

// Display names of the normalized columns.
var columnTitles = map[string]string{
	engine.ColJurisdiction:      "Jurisdicción",
	engine.ColAnnualAmount:      "Monto Anual",
	engine.ColExecutionPct:      "Ejecución Presupuestaria %",
	engine.ColResponsibleAgency: "Organismo provincial responsable",
	engine.ColTotalStudents:     "Alumnos",
	engine.ColTotalInvestment:   "Inversión",
	engine.ColArea:              "Área",
	engine.ColGrade:             "Grado",
	engine.ColPublisher:         "Editorial",
	engine.ColQuantity:          "Cantidad",
	engine.ColLevel:             "Nivel",
}

func columnTitle(name string) string {
	if t, ok := columnTitles[name]; ok {
		return t
	}
	return name
}

// series turns a grouped aggregate into chart points. With two key columns
// the first is the series and the second the category.
func series(agg *engine.GroupedAggregate) []models.Point {
	out := make([]models.Point, len(agg.Groups))
	for i, g := range agg.Groups {
		p := models.Point{Category: g.Key(), Value: g.Value}
		if len(g.Keys) == 2 {
			p.Series = g.Keys[0]
		}
		out[i] = p
	}
	return out
}

// table dumps the named columns of ds.
func table(id, title string, ds *engine.Dataset, columns ...string) (models.Table, error) {
	if len(columns) > 0 {
		var err error
		if ds, err = ds.Project(columns...); err != nil {
			return models.Table{}, err
		}
	}
	names := ds.Names()
	heads := make([]string, len(names))
	for i, n := range names {
		heads[i] = columnTitle(n)
	}
	return models.Table{ID: id, Title: title, Columns: heads, Rows: ds.Rows(), Total: ds.Len()}, nil
}
