package dashboard

import (
	"fmt"
	"strings"

	"educdash/internal/models"
)

// Program is a menu entry. The zero value is the unselected state.
type Program string

const (
	None       Program = ""
	Progresar  Program = "Progresar"
	Vouchers   Program = "Vouchers"
	Becas      Program = "Becas"
	Comedores  Program = "Comedores"
	Libros     Program = "Libros"
	Ferias     Program = "Ferias"
	Olimpiadas Program = "Olimpiadas"
)

var catalogue = []struct {
	id    Program
	label string
	icon  string
}{
	{Progresar, "Progresar", "🎓"},
	{Vouchers, "Vouchers Educativos", "🎫"},
	{Becas, "Becas Fortalecimiento Socioeducativo", "🤝"},
	{Comedores, "Comedores Escolares", "🏘️"},
	{Libros, "Libros para aprender", "📖"},
	{Ferias, "Ferias de Ciencia", "🧪"},
	{Olimpiadas, "Olimpiadas", "🥇"},
}

// ParseProgram accepts a program id, case-insensitively. Blank means None.
func ParseProgram(s string) (Program, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return None, nil
	}
	for _, c := range catalogue {
		if strings.EqualFold(string(c.id), s) {
			return c.id, nil
		}
	}
	return None, fmt.Errorf("unknown program %q", s)
}

// Label returns the button label, or "" for None.
func (p Program) Label() string {
	for _, c := range catalogue {
		if c.id == p {
			return c.label
		}
	}
	return ""
}

// Menu lists the seven programs in button order, marking those that have a
// data source in r.
func Menu(r *Registry) []models.ProgramInfo {
	out := make([]models.ProgramInfo, len(catalogue))
	for i, c := range catalogue {
		_, ok := r.Select(c.id)
		out[i] = models.ProgramInfo{ID: string(c.id), Label: c.label, Icon: c.icon, Available: ok}
	}
	return out
}

// State is the menu memory of one session. It is a value: selecting a
// program returns the updated state.
type State struct {
	Selected Program
}

// Select returns the state with p selected.
func (s State) Select(p Program) State {
	s.Selected = p
	return s
}

// View renders the state for the presentation layer.
func (s State) View() models.StateView {
	return models.StateView{Selected: string(s.Selected), Title: title(s.Selected)}
}

func title(p Program) string {
	if p == None {
		return "Visualizando: "
	}
	return "Visualizando: " + string(p)
}
