package engine

import (
	"time"

	applog "educdash/internal/log"
)

// Normalized column names shared by the program datasets.
const (
	ColJurisdiction = "Jurisdiction"
)

// Loader reads program spreadsheets into normalized datasets.
// Every call opens, reads and closes its file; nothing is cached.
type Loader struct {
	logger *applog.Logger
}

// NewLoader returns a loader that reports each load on logger.
func NewLoader(logger *applog.Logger) *Loader {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Loader{logger: logger.WithComponent(applog.ComponentEngine)}
}

func (l *Loader) logLoad(program, path string, start time.Time, kept, dropped int) {
	fields := applog.NewFields().
		WithOperation(applog.OpLoad).
		WithProgram(program).
		WithFile(path).
		WithRows(kept, dropped).
		WithDuration(time.Since(start))
	l.logger.Info("Load complete", fields.ToSlice()...)
}

func (l *Loader) logFailure(program, path string, err error) {
	fields := applog.NewFields().
		WithOperation(applog.OpLoad).
		WithProgram(program).
		WithFile(path).
		WithError(err)
	l.logger.Warn("Load failed", fields.ToSlice()...)
}

// JurisdictionFilter is a multi-select over jurisdictions. An Only filter
// with no names selects nothing.
type JurisdictionFilter struct {
	All   bool
	Names []string
}

// AllJurisdictions selects every row.
func AllJurisdictions() JurisdictionFilter { return JurisdictionFilter{All: true} }

// OnlyJurisdictions selects rows whose jurisdiction is one of names.
func OnlyJurisdictions(names ...string) JurisdictionFilter {
	return JurisdictionFilter{Names: names}
}

// Apply returns the rows of ds matching the filter.
func (f JurisdictionFilter) Apply(ds *Dataset) (*Dataset, error) {
	if f.All {
		return ds, nil
	}
	col, err := ds.Column(ColJurisdiction)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(f.Names))
	for _, n := range f.Names {
		want[n] = struct{}{}
	}
	return ds.Select(func(i int) bool {
		_, ok := want[col.Text[i]]
		return ok
	}), nil
}

// distinct returns the distinct non-empty values in first-seen order.
func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0)
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
