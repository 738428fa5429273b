package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"educdash/internal/engine"
	applog "educdash/internal/log"
	"educdash/internal/models"
)

// Panel error kinds.
const (
	KindFileNotFound     = "file_not_found"
	KindColumnResolution = "column_resolution"
	KindUnreadable       = "unreadable"
	KindInternal         = "internal"
)

// ErrNoSource is returned by Dataset for programs without a spreadsheet.
var ErrNoSource = errors.New("program has no data source")

// Service builds panels for the presentation layer. A failure in one
// program's source becomes an error panel; it never escapes as an error.
type Service struct {
	registry *Registry
	logger   *applog.Logger
}

func NewService(registry *Registry, logger *applog.Logger) *Service {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Service{registry: registry, logger: logger.WithComponent(applog.ComponentDashboard)}
}

// Registry returns the program registry the service draws from.
func (s *Service) Registry() *Registry { return s.registry }

// Render draws the panel of the session's current selection.
func (s *Service) Render(ctx context.Context, st State, req Request) models.Panel {
	return s.Panel(ctx, st.Selected, req)
}

// Panel draws program p. None yields an empty panel; programs without a
// source yield an info-only panel.
func (s *Service) Panel(ctx context.Context, p Program, req Request) models.Panel {
	panel := models.Panel{Program: string(p), Title: title(p)}
	if p == None {
		return empty(panel)
	}
	src, ok := s.registry.Select(p)
	if !ok {
		panel.Info = "No hay datos disponibles para " + p.Label() + "."
		return empty(panel)
	}

	start := time.Now()
	built, err := guard(func() (models.Panel, error) { return src.Panel(req) })
	fields := applog.NewFields().
		WithOperation(applog.OpRender).
		WithProgram(string(p)).
		WithDuration(time.Since(start))
	if err != nil {
		pe := panelError(err, src)
		fields[applog.FieldErrorKind] = pe.Kind
		s.logger.WarnContext(ctx, "Panel failed", fields.WithError(err).ToSlice()...)
		panel.Error = pe
		return empty(panel)
	}
	s.logger.DebugContext(ctx, "Panel built", fields.ToSlice()...)

	built.Program = panel.Program
	built.Title = panel.Title
	return empty(built)
}

// Dataset returns the normalized (and, for Comedores, filtered) dataset of p.
func (s *Service) Dataset(ctx context.Context, p Program, req Request) (*engine.Dataset, error) {
	src, ok := s.registry.Select(p)
	if !ok {
		return nil, ErrNoSource
	}
	ds, err := guard(func() (*engine.Dataset, error) { return src.Dataset(req) })
	if err != nil {
		s.logger.WarnContext(ctx, "Dataset failed", applog.NewFields().
			WithOperation(applog.OpExport).
			WithProgram(string(p)).
			WithError(err).
			ToSlice()...)
		return nil, err
	}
	return ds, nil
}

// guard runs fn, turning a panic into an error.
func guard[T any](fn func() (T, error)) (out T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

// empty replaces nil sections so they encode as [].
func empty(p models.Panel) models.Panel {
	if p.Metrics == nil {
		p.Metrics = []models.MetricCard{}
	}
	if p.Charts == nil {
		p.Charts = []models.Chart{}
	}
	if p.Tables == nil {
		p.Tables = []models.Table{}
	}
	return p
}

// ErrorKind classifies a source failure.
func ErrorKind(err error) string {
	var notFound *engine.FileNotFoundError
	var column *engine.ColumnResolutionError
	var sheet *engine.SheetError
	switch {
	case errors.As(err, &notFound):
		return KindFileNotFound
	case errors.As(err, &column):
		return KindColumnResolution
	case errors.As(err, &sheet), errors.Is(err, engine.ErrNoWorksheet):
		return KindUnreadable
	default:
		return KindInternal
	}
}

func panelError(err error, src Source) *models.PanelError {
	pe := &models.PanelError{Kind: ErrorKind(err)}
	switch pe.Kind {
	case KindFileNotFound:
		var notFound *engine.FileNotFoundError
		errors.As(err, &notFound)
		pe.Message = fmt.Sprintf("No se encontró el archivo %s.", notFound.Path)
	case KindColumnResolution:
		pe.Message = "Error de columnas: " + err.Error()
	case KindUnreadable:
		pe.Message = "Error al leer el archivo: " + err.Error()
	default:
		pe.Message = "Error técnico: " + err.Error()
	}
	if h, ok := src.(hinter); ok && pe.Kind != KindFileNotFound {
		pe.Hint = h.Hint()
	}
	return pe
}
