package engine

import "strings"

// MatchMode says how a logical column was bound to a header.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchContains
	MatchOffset
)

// ColumnRef points a logical field at a physical column of a sheet.
type ColumnRef struct {
	Logical string
	Header  string
	Index   int
	Mode    MatchMode
}

// ResolveExact binds logical to the first header equal to name.
func ResolveExact(headers []string, logical, name string) (ColumnRef, error) {
	for i, h := range headers {
		if h == name {
			return ColumnRef{Logical: logical, Header: h, Index: i, Mode: MatchExact}, nil
		}
	}
	return ColumnRef{}, &ColumnResolutionError{Logical: logical, Mode: MatchExact, Want: name, Headers: headers}
}

// ResolveContains binds logical to the first header containing tag.
// The test is a plain case-sensitive substring check.
func ResolveContains(headers []string, logical, tag string) (ColumnRef, error) {
	for i, h := range headers {
		if strings.Contains(h, tag) {
			return ColumnRef{Logical: logical, Header: h, Index: i, Mode: MatchContains}, nil
		}
	}
	return ColumnRef{}, &ColumnResolutionError{Logical: logical, Mode: MatchContains, Want: tag, Headers: headers}
}

// ResolveOffset binds logical to a fixed column position.
func ResolveOffset(headers []string, logical string, offset int) (ColumnRef, error) {
	if offset < 0 || offset >= len(headers) {
		return ColumnRef{}, &ColumnResolutionError{Logical: logical, Mode: MatchOffset, Offset: offset, Headers: headers}
	}
	return ColumnRef{Logical: logical, Header: headers[offset], Index: offset, Mode: MatchOffset}, nil
}

// TrimHeaders strips leading and trailing whitespace from every header.
func TrimHeaders(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.TrimSpace(h)
	}
	return out
}
