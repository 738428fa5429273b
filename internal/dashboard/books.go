package dashboard

import (
	"educdash/internal/engine"
	"educdash/internal/models"
)

type booksSource struct {
	path   string
	loader *engine.Loader
}

func (s *booksSource) Dataset(req Request) (*engine.Dataset, error) {
	data, err := s.loader.Books(s.path)
	if err != nil {
		return nil, err
	}
	return data.Dataset, nil
}

func (s *booksSource) Panel(req Request) (models.Panel, error) {
	data, err := s.loader.Books(s.path)
	if err != nil {
		return models.Panel{}, err
	}
	metrics, err := data.Metrics()
	if err != nil {
		return models.Panel{}, err
	}
	byJurisdiction, err := data.ByJurisdiction()
	if err != nil {
		return models.Panel{}, err
	}
	byArea, err := data.ByAreaGrade()
	if err != nil {
		return models.Panel{}, err
	}
	detail, err := table("detail", "Detalle General de Títulos y Distribución", data.Dataset)
	if err != nil {
		return models.Panel{}, err
	}

	return models.Panel{
		Info:    "Distribución Nacional de Libros - Anexo III",
		Metrics: cards(metrics, count, count),
		Charts: []models.Chart{
			{
				ID:     "jurisdictions",
				Title:  "Total Libros por Provincia",
				Kind:   models.ChartBar,
				XLabel: columnTitle(engine.ColJurisdiction),
				YLabel: columnTitle(engine.ColQuantity),
				Points: series(byJurisdiction),
			},
			{
				ID:     "areas",
				Title:  "Libros por Área Temática y Grado",
				Kind:   models.ChartGroupedBar,
				XLabel: columnTitle(engine.ColGrade),
				YLabel: columnTitle(engine.ColQuantity),
				Points: series(byArea),
			},
		},
		Tables: []models.Table{detail},
	}, nil
}
