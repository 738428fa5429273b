package dashboard

import (
	"educdash/internal/engine"
	"educdash/internal/models"
)

type scholarshipsSource struct {
	path   string
	loader *engine.Loader
}

func (s *scholarshipsSource) Dataset(req Request) (*engine.Dataset, error) {
	data, err := s.loader.Scholarships(s.path)
	if err != nil {
		return nil, err
	}
	return data.Dataset, nil
}

func (s *scholarshipsSource) Panel(req Request) (models.Panel, error) {
	data, err := s.loader.Scholarships(s.path)
	if err != nil {
		return models.Panel{}, err
	}
	metrics, err := data.Metrics()
	if err != nil {
		return models.Panel{}, err
	}
	tag := req.Line
	if tag == "" {
		tag = engine.TagVG
	}
	line, funds, err := data.Line(tag)
	if err != nil {
		return models.Panel{}, err
	}

	lines := data.Lines()
	labels := make([]string, len(lines))
	for i, t := range lines {
		labels[i] = engine.LineLabel(t)
	}

	return models.Panel{
		Info:    "Visualizando: Becas de Fortalecimiento Socioeducativo",
		Metrics: cards(metrics, money, count),
		Charts: []models.Chart{
			{
				ID:     "line",
				Title:  "Distribución de " + engine.LineLabel(tag),
				Kind:   models.ChartBar,
				XLabel: columnTitle(engine.ColJurisdiction),
				YLabel: data.Bindings[tag].Header,
				Points: series(line),
			},
			{
				ID:     "funds",
				Title:  "Fondos por Jurisdicción",
				Kind:   models.ChartBar,
				XLabel: columnTitle(engine.ColJurisdiction),
				YLabel: data.Bindings[engine.TagFondos].Header,
				Color:  "#00ffcc",
				Points: series(funds),
			},
		},
		Tables:  []models.Table{},
		Filters: &models.Filters{Lines: labels, SelectedLine: engine.LineLabel(tag)},
	}, nil
}
