package dashboard

import (
	"educdash/internal/engine"
	"educdash/internal/models"
)

// Request carries the controls of a panel.
type Request struct {
	Jurisdictions engine.JurisdictionFilter
	// Line is the scholarship line to chart; empty means VG.
	Line engine.Tag
}

// DefaultRequest selects every jurisdiction and the default line.
func DefaultRequest() Request {
	return Request{Jurisdictions: engine.AllJurisdictions()}
}

// Source turns one program's spreadsheet into a dataset and a panel.
// Each call reloads the file.
type Source interface {
	Dataset(req Request) (*engine.Dataset, error)
	Panel(req Request) (models.Panel, error)
}

// hinter is implemented by sources that add advice to their error message.
type hinter interface {
	Hint() string
}

// Files are the workbook paths of the four programs with data.
type Files struct {
	Meals        string
	Vouchers     string
	Scholarships string
	Books        string
}

// Registry maps menu programs to their sources.
type Registry struct {
	sources map[Program]Source
}

// NewRegistry wires the four spreadsheet-backed programs.
func NewRegistry(files Files, loader *engine.Loader) *Registry {
	r := &Registry{sources: make(map[Program]Source)}
	r.Register(Comedores, &mealsSource{path: files.Meals, loader: loader})
	r.Register(Vouchers, &vouchersSource{path: files.Vouchers, loader: loader})
	r.Register(Becas, &scholarshipsSource{path: files.Scholarships, loader: loader})
	r.Register(Libros, &booksSource{path: files.Books, loader: loader})
	return r
}

// Register binds p to s, replacing any previous source.
func (r *Registry) Register(p Program, s Source) {
	r.sources[p] = s
}

// Select returns the source of p. None and programs without data have none.
func (r *Registry) Select(p Program) (Source, bool) {
	s, ok := r.sources[p]
	return s, ok
}
