package dashboard

import (
	"educdash/internal/engine"
	"educdash/internal/models"
)

type mealsSource struct {
	path   string
	loader *engine.Loader
}

func (s *mealsSource) Hint() string {
	return "Asegúrate de que los nombres de las columnas coincidan exactamente con el Excel."
}

func (s *mealsSource) Dataset(req Request) (*engine.Dataset, error) {
	data, err := s.loader.Meals(s.path)
	if err != nil {
		return nil, err
	}
	return data.Filter(req.Jurisdictions)
}

func (s *mealsSource) Panel(req Request) (models.Panel, error) {
	data, err := s.loader.Meals(s.path)
	if err != nil {
		return models.Panel{}, err
	}
	ds, err := data.Filter(req.Jurisdictions)
	if err != nil {
		return models.Panel{}, err
	}
	metrics, err := engine.MealsMetrics(ds)
	if err != nil {
		return models.Panel{}, err
	}

	jur, err := ds.Column(engine.ColJurisdiction)
	if err != nil {
		return models.Panel{}, err
	}
	amount, err := ds.Column(engine.ColAnnualAmount)
	if err != nil {
		return models.Panel{}, err
	}
	pct, err := ds.Column(engine.ColExecutionPct)
	if err != nil {
		return models.Panel{}, err
	}
	agency, err := ds.Column(engine.ColResponsibleAgency)
	if err != nil {
		return models.Panel{}, err
	}

	budget := models.Chart{
		ID:     "budget",
		Title:  "Presupuesto Anual Asignado",
		Kind:   models.ChartBarH,
		XLabel: columnTitle(engine.ColAnnualAmount),
		YLabel: columnTitle(engine.ColJurisdiction),
		Points: make([]models.Point, ds.Len()),
	}
	execution := models.Chart{
		ID:     "execution",
		Title:  "% Ejecución por Provincia",
		Kind:   models.ChartScatter,
		XLabel: columnTitle(engine.ColJurisdiction),
		YLabel: columnTitle(engine.ColExecutionPct),
		Points: make([]models.Point, ds.Len()),
	}
	for i := 0; i < ds.Len(); i++ {
		budget.Points[i] = models.Point{
			Category: jur.Text[i],
			Value:    amount.Values[i],
			Hover:    map[string]string{columnTitle(engine.ColResponsibleAgency): agency.Text[i]},
		}
		execution.Points[i] = models.Point{Category: jur.Text[i], Value: pct.Values[i], Size: amount.Values[i]}
	}

	detail, err := table("detail", "Detalle por Jurisdicción", ds,
		engine.ColJurisdiction, engine.ColResponsibleAgency, engine.ColAnnualAmount, engine.ColExecutionPct)
	if err != nil {
		return models.Panel{}, err
	}

	selected := data.Jurisdictions
	if !req.Jurisdictions.All {
		selected = req.Jurisdictions.Names
	}
	return models.Panel{
		Info:    "Datos de Comedores Escolares cargados por Jurisdicción",
		Metrics: cards(metrics, money, percent),
		Charts:  []models.Chart{budget, execution},
		Tables:  []models.Table{detail},
		Filters: &models.Filters{Jurisdictions: data.Jurisdictions, SelectedJurisdictions: selected},
	}, nil
}
