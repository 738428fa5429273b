package dashboard

import (
	"educdash/internal/engine"
	"educdash/internal/models"
)

type vouchersSource struct {
	path   string
	loader *engine.Loader
}

func (s *vouchersSource) Hint() string {
	return "Asegúrate de que el archivo no tenga filas vacías al principio."
}

func (s *vouchersSource) Dataset(req Request) (*engine.Dataset, error) {
	data, err := s.loader.Vouchers(s.path)
	if err != nil {
		return nil, err
	}
	return data.Dataset, nil
}

func (s *vouchersSource) Panel(req Request) (models.Panel, error) {
	data, err := s.loader.Vouchers(s.path)
	if err != nil {
		return models.Panel{}, err
	}
	metrics, err := data.Metrics()
	if err != nil {
		return models.Panel{}, err
	}
	levels, err := data.LevelInvestment()
	if err != nil {
		return models.Panel{}, err
	}
	students, err := data.StudentsByJurisdiction()
	if err != nil {
		return models.Panel{}, err
	}
	totals, err := table("jurisdictions", "Totales por Jurisdicción", data.Dataset,
		engine.ColJurisdiction, engine.ColTotalStudents, engine.ColTotalInvestment)
	if err != nil {
		return models.Panel{}, err
	}

	return models.Panel{
		Info:    "Visualizando datos de Vouchers Educativos por Nivel",
		Metrics: cards(metrics, count, money, count),
		Charts: []models.Chart{
			{
				ID:     "levels",
				Title:  "Distribución de Inversión por Nivel",
				Kind:   models.ChartPie,
				Points: series(levels),
			},
			{
				ID:     "students",
				Title:  "Alumnos por Jurisdicción",
				Kind:   models.ChartBar,
				XLabel: columnTitle(engine.ColJurisdiction),
				YLabel: columnTitle(engine.ColTotalStudents),
				Points: series(students),
			},
		},
		Tables: []models.Table{totals},
	}, nil
}
