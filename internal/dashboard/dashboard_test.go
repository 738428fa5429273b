package dashboard

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"educdash/internal/engine"
	"educdash/internal/models"
)

func writeWorkbook(t *testing.T, dir, name string, rows ...[]any) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &rows[i]); err != nil {
			t.Fatal(err)
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

// fixtures writes one valid workbook per program and returns their paths.
func fixtures(t *testing.T) Files {
	t.Helper()
	dir := t.TempDir()
	return Files{
		Meals: writeWorkbook(t, dir, "meals.xlsx",
			[]any{"Jurisdicción", "Monto Anual", "Ejecución Presupuestaria %", "Organismo provincial responsable"},
			[]any{"CABA", 1000000, 80, "Ministerio A"},
			[]any{"Salta", 234567, 60, "Ministerio B"},
			[]any{"Totales", 1234567, 70, ""},
		),
		Vouchers: writeWorkbook(t, dir, "vouchers.xlsx",
			[]any{"VOUCHERS EDUCATIVOS"},
			[]any{"Jurisdicción", "Inst.", "Alumnos", "Inversión", "Inst.", "Alumnos", "Inversión", "Inst.", "Alumnos", "Inversión"},
			[]any{"CABA", 1, 100, 1000, 1, 200, 2000, 1, 300, 3000},
			[]any{"Salta", 1, 10, 100, 1, 20, 200, 1, 30, 300},
			[]any{"TOTAL", 2, 110, 1100, 2, 220, 2200, 2, 330, 3300},
		),
		Scholarships: writeWorkbook(t, dir, "becas.xlsx",
			[]any{"Jurisdicción", "Monto VG", "Monto AP", "Fondos", "Becarios"},
			[]any{"CABA", 10, 1, 100, 4},
			[]any{"Salta", 20, 2, 200, 6},
			[]any{"Total", 30, 3, 300, 10},
		),
		Books: writeWorkbook(t, dir, "libros.xlsx",
			[]any{"Área", "Grado", "Editorial", "Jurisdicción", "Cantidad"},
			[]any{"Lengua", 1, "SM", "CABA", 10},
			[]any{"Lengua", 2, "SM", "Salta", 30},
			[]any{"Matemática", 1, "Kapelusz", "Salta", 5},
		),
	}
}

func newService(t *testing.T, files Files) *Service {
	t.Helper()
	return NewService(NewRegistry(files, engine.NewLoader(nil)), nil)
}

func TestParseProgram(t *testing.T) {
	tests := []struct {
		in      string
		want    Program
		wantErr bool
	}{
		{"Comedores", Comedores, false},
		{"libros", Libros, false},
		{"  ", None, false},
		{"Deportes", None, true},
	}
	for _, tt := range tests {
		got, err := ParseProgram(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseProgram(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestStateSelect(t *testing.T) {
	var st State
	if st.View().Title != "Visualizando: " {
		t.Errorf("Unexpected initial title %q", st.View().Title)
	}
	next := st.Select(Becas)
	if st.Selected != None {
		t.Error("Select should not mutate the receiver")
	}
	if next.View().Title != "Visualizando: Becas" {
		t.Errorf("Unexpected title %q", next.View().Title)
	}
	if next.Select(Comedores).Selected != Comedores {
		t.Error("Last selection should win")
	}
}

func TestMenu(t *testing.T) {
	menu := Menu(NewRegistry(Files{}, engine.NewLoader(nil)))
	if len(menu) != 7 {
		t.Fatalf("Expected 7 programs, got %d", len(menu))
	}
	available := map[string]bool{}
	for _, p := range menu {
		available[p.ID] = p.Available
	}
	for _, id := range []Program{Comedores, Vouchers, Becas, Libros} {
		if !available[string(id)] {
			t.Errorf("%s should be available", id)
		}
	}
	for _, id := range []Program{Progresar, Ferias, Olimpiadas} {
		if available[string(id)] {
			t.Errorf("%s has no source", id)
		}
	}
}

func TestPanelNoneAndUnavailable(t *testing.T) {
	svc := newService(t, fixtures(t))

	p := svc.Panel(context.Background(), None, DefaultRequest())
	if p.Error != nil || len(p.Metrics) != 0 || len(p.Charts) != 0 || p.Metrics == nil {
		t.Errorf("None should give an empty panel, got %+v", p)
	}

	p = svc.Panel(context.Background(), Ferias, DefaultRequest())
	if p.Info == "" || p.Error != nil || len(p.Charts) != 0 {
		t.Errorf("Ferias should give an info-only panel, got %+v", p)
	}
}

func TestMealsPanel(t *testing.T) {
	svc := newService(t, fixtures(t))
	p := svc.Panel(context.Background(), Comedores, DefaultRequest())
	if p.Error != nil {
		t.Fatalf("Unexpected error panel %+v", p.Error)
	}
	if p.Metrics[0].Display != "$ 1,234,567" {
		t.Errorf("Expected $ 1,234,567, got %q", p.Metrics[0].Display)
	}
	if p.Metrics[1].Display != "70.00%" {
		t.Errorf("Expected 70.00%%, got %q", p.Metrics[1].Display)
	}
	if len(p.Charts) != 2 || len(p.Charts[0].Points) != 2 {
		t.Fatalf("Expected two charts over 2 jurisdictions, got %+v", p.Charts)
	}
	if p.Charts[0].Points[0].Hover["Organismo provincial responsable"] != "Ministerio A" {
		t.Errorf("Expected agency hover, got %v", p.Charts[0].Points[0].Hover)
	}
	if p.Charts[1].Points[1].Size != 234567 {
		t.Errorf("Bubble size should be the annual amount, got %v", p.Charts[1].Points[1].Size)
	}
	if p.Filters == nil || len(p.Filters.Jurisdictions) != 2 || len(p.Filters.SelectedJurisdictions) != 2 {
		t.Errorf("Unexpected filters %+v", p.Filters)
	}
}

func TestMealsPanelFiltered(t *testing.T) {
	svc := newService(t, fixtures(t))

	p := svc.Panel(context.Background(), Comedores, Request{Jurisdictions: engine.OnlyJurisdictions("Salta")})
	if p.Metrics[0].Value != 234567 || p.Tables[0].Total != 1 {
		t.Errorf("Expected only Salta, got %+v / %d rows", p.Metrics[0], p.Tables[0].Total)
	}
	if len(p.Filters.Jurisdictions) != 2 {
		t.Error("Filter options should not shrink with the selection")
	}

	p = svc.Panel(context.Background(), Comedores, Request{Jurisdictions: engine.OnlyJurisdictions()})
	if p.Error != nil {
		t.Fatalf("Empty selection is not an error: %+v", p.Error)
	}
	if p.Metrics[0].Value != 0 || !p.Metrics[0].HasData {
		t.Errorf("Empty sum should be 0, got %+v", p.Metrics[0])
	}
	if p.Metrics[1].HasData || p.Metrics[1].Display != noData {
		t.Errorf("Empty mean should have no data, got %+v", p.Metrics[1])
	}
}

func TestVouchersPanel(t *testing.T) {
	svc := newService(t, fixtures(t))
	p := svc.Panel(context.Background(), Vouchers, DefaultRequest())
	if p.Error != nil {
		t.Fatalf("Unexpected error panel %+v", p.Error)
	}
	if p.Metrics[0].Value != 660 || p.Metrics[1].Value != 6600 || p.Metrics[2].Value != 2 {
		t.Errorf("Unexpected metrics %+v", p.Metrics)
	}
	pie := p.Charts[0]
	if pie.Kind != models.ChartPie || len(pie.Points) != 3 || pie.Points[2].Value != 3300 {
		t.Errorf("Unexpected level pie %+v", pie)
	}
	bar := p.Charts[1]
	if bar.Points[0].Category != "CABA" || bar.Points[0].Value != 600 {
		t.Errorf("Expected CABA first with 600 students, got %+v", bar.Points[0])
	}
}

func TestScholarshipsPanel(t *testing.T) {
	svc := newService(t, fixtures(t))

	p := svc.Panel(context.Background(), Becas, DefaultRequest())
	if p.Error != nil {
		t.Fatalf("Unexpected error panel %+v", p.Error)
	}
	if p.Filters.SelectedLine != "Becas VG" || len(p.Filters.Lines) != 2 {
		t.Errorf("Unexpected line filters %+v", p.Filters)
	}
	if p.Charts[0].YLabel != "Monto VG" || p.Charts[0].Points[1].Value != 20 {
		t.Errorf("Unexpected VG chart %+v", p.Charts[0])
	}
	if p.Metrics[0].Value != 300 || p.Metrics[1].Value != 10 {
		t.Errorf("Unexpected metrics %+v", p.Metrics)
	}

	p = svc.Panel(context.Background(), Becas, Request{Jurisdictions: engine.AllJurisdictions(), Line: engine.TagAP})
	if p.Charts[0].Points[0].Value != 1 || p.Filters.SelectedLine != "Becas AP" {
		t.Errorf("Unexpected AP chart %+v", p.Charts[0])
	}

	p = svc.Panel(context.Background(), Becas, Request{Line: engine.TagAI})
	if p.Error == nil || p.Error.Kind != KindColumnResolution {
		t.Errorf("Unbound line should fail column resolution, got %+v", p.Error)
	}
}

func TestBooksPanel(t *testing.T) {
	svc := newService(t, fixtures(t))
	p := svc.Panel(context.Background(), Libros, DefaultRequest())
	if p.Error != nil {
		t.Fatalf("Unexpected error panel %+v", p.Error)
	}
	if p.Metrics[0].Display != "45" || p.Metrics[1].Value != 2 {
		t.Errorf("Unexpected metrics %+v", p.Metrics)
	}
	if p.Charts[0].Points[0].Category != "Salta" {
		t.Errorf("Expected Salta first, got %+v", p.Charts[0].Points)
	}
	grouped := p.Charts[1]
	if grouped.Kind != models.ChartGroupedBar || len(grouped.Points) != 3 {
		t.Fatalf("Unexpected grouped chart %+v", grouped)
	}
	if grouped.Points[0].Series != "Lengua" || grouped.Points[0].Category != "1" {
		t.Errorf("Expected (Lengua, 1) first, got %+v", grouped.Points[0])
	}
	if p.Tables[0].Columns[0] != "Área" || p.Tables[0].Total != 3 {
		t.Errorf("Unexpected detail table %+v", p.Tables[0])
	}
}

func TestErrorPanelsAreIsolated(t *testing.T) {
	files := fixtures(t)
	files.Meals = filepath.Join(t.TempDir(), "missing.xlsx")
	files.Vouchers = writeWorkbook(t, t.TempDir(), "short.xlsx",
		[]any{"x"},
		[]any{"Jurisdicción", "Inst."},
		[]any{"CABA", 1},
	)
	svc := newService(t, files)

	p := svc.Panel(context.Background(), Comedores, DefaultRequest())
	if p.Error == nil || p.Error.Kind != KindFileNotFound || len(p.Metrics) != 0 {
		t.Errorf("Expected file_not_found panel, got %+v", p)
	}

	p = svc.Panel(context.Background(), Vouchers, DefaultRequest())
	if p.Error == nil || p.Error.Kind != KindColumnResolution {
		t.Fatalf("Expected column_resolution panel, got %+v", p.Error)
	}
	if p.Error.Hint == "" {
		t.Error("Vouchers errors should carry a hint")
	}

	p = svc.Panel(context.Background(), Libros, DefaultRequest())
	if p.Error != nil {
		t.Errorf("Other programs should be unaffected, got %+v", p.Error)
	}
}

type panicSource struct{}

func (panicSource) Dataset(Request) (*engine.Dataset, error) { panic("boom") }
func (panicSource) Panel(Request) (models.Panel, error)      { panic("boom") }

func TestPanicBecomesInternalError(t *testing.T) {
	r := NewRegistry(Files{}, engine.NewLoader(nil))
	r.Register(Olimpiadas, panicSource{})
	svc := NewService(r, nil)

	p := svc.Panel(context.Background(), Olimpiadas, DefaultRequest())
	if p.Error == nil || p.Error.Kind != KindInternal {
		t.Errorf("Expected internal error panel, got %+v", p.Error)
	}
	if _, err := svc.Dataset(context.Background(), Olimpiadas, DefaultRequest()); err == nil {
		t.Error("Expected Dataset to report the panic")
	}
}

func TestDataset(t *testing.T) {
	svc := newService(t, fixtures(t))
	ds, err := svc.Dataset(context.Background(), Comedores, Request{Jurisdictions: engine.OnlyJurisdictions("CABA")})
	if err != nil {
		t.Fatal(err)
	}
	if ds.Len() != 1 {
		t.Errorf("Expected filtered dataset of 1 row, got %d", ds.Len())
	}
	if _, err := svc.Dataset(context.Background(), Progresar, DefaultRequest()); err != ErrNoSource {
		t.Errorf("Expected ErrNoSource, got %v", err)
	}
}

func TestFormat(t *testing.T) {
	if got := money(1234.6); got != "$ 1,235" {
		t.Errorf("money: got %q", got)
	}
	if got := percent(12.5); got != "12.50%" {
		t.Errorf("percent: got %q", got)
	}
	if got := count(1000000); got != "1,000,000" {
		t.Errorf("count: got %q", got)
	}
}

func TestErrorKind(t *testing.T) {
	ds := engine.NewDataset("books")
	_, unknown := ds.Column("Cantidad")

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing file", &engine.FileNotFoundError{Path: "a.xlsx"}, KindFileNotFound},
		{"missing header", &engine.ColumnResolutionError{Logical: "Monto", Mode: engine.MatchExact, Want: "Monto"}, KindColumnResolution},
		{"unreadable", engine.ErrNoWorksheet, KindUnreadable},
		{"unknown dataset column", unknown, KindInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorKind(tt.err); got != tt.want {
				t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}
