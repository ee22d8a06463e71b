// Package query turns caller-supplied filter, order and pagination input into
// SQL fragments for a fixed, whitelisted set of columns.
package query

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrInvalidRequest = errors.New("invalid query")

type Match int

const (
	// Contains is a case-insensitive substring match.
	Contains Match = iota
	// Equals is an exact match.
	Equals
)

type Filter struct {
	Name   string
	Column string
	Match  Match
}

type Sort struct {
	Name   string
	Column string
}

// Schema declares which request fields may be filtered or ordered on and the
// column each one maps to. Declaration order fixes the order of generated
// predicates and ORDER BY terms.
type Schema struct {
	Filters      []Filter
	Sorts        []Sort
	SoftDelete   string // column that must be NULL for live rows
	DefaultOrder string // used when the request has no order directives
	Tiebreak     string // always appended to ORDER BY for stable pages
}

// Request is the raw caller input. Empty filter or order values are ignored.
type Request struct {
	Filters map[string]string
	Orders  map[string]string
	Page    int
	Limit   int
}

// Query is a ready-to-use WHERE predicate with positional args ($1..$n),
// an ORDER BY list and the pagination window.
type Query struct {
	Where   string
	Args    []any
	OrderBy string
	Offset  int
	Limit   int
	Page    int
}

// Build validates req against the schema and produces the query parts.
func (s Schema) Build(req Request) (Query, error) {
	if req.Page < 1 {
		return Query{}, fmt.Errorf("%w: page must be at least 1", ErrInvalidRequest)
	}
	if req.Limit < 1 {
		return Query{}, fmt.Errorf("%w: limit must be at least 1", ErrInvalidRequest)
	}
	if req.Page-1 > math.MaxInt/req.Limit {
		return Query{}, fmt.Errorf("%w: page %d is out of range", ErrInvalidRequest, req.Page)
	}
	for name := range req.Filters {
		if _, ok := s.filter(name); !ok {
			return Query{}, fmt.Errorf("%w: unknown filter %q", ErrInvalidRequest, name)
		}
	}
	for name, dir := range req.Orders {
		if _, ok := s.sort(name); !ok {
			return Query{}, fmt.Errorf("%w: unknown order field %q", ErrInvalidRequest, name)
		}
		if _, err := direction(dir); err != nil {
			return Query{}, fmt.Errorf("%w: order %q: %v", ErrInvalidRequest, name, err)
		}
	}

	conds := make([]string, 0, len(s.Filters)+1)
	if s.SoftDelete != "" {
		conds = append(conds, s.SoftDelete+" IS NULL")
	}
	var args []any
	for _, f := range s.Filters {
		v := strings.TrimSpace(req.Filters[f.Name])
		if v == "" {
			continue
		}
		switch f.Match {
		case Contains:
			args = append(args, "%"+EscapeLike(v)+"%")
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", f.Column, len(args)))
		default:
			args = append(args, v)
			conds = append(conds, fmt.Sprintf("%s = $%d", f.Column, len(args)))
		}
	}
	where := "TRUE"
	if len(conds) > 0 {
		where = strings.Join(conds, " AND ")
	}

	orders := make([]string, 0, len(s.Sorts)+1)
	for _, so := range s.Sorts {
		dir, _ := direction(req.Orders[so.Name])
		if dir == "" {
			continue
		}
		orders = append(orders, so.Column+" "+dir)
	}
	if len(orders) == 0 && s.DefaultOrder != "" {
		orders = append(orders, s.DefaultOrder)
	}
	if s.Tiebreak != "" {
		orders = append(orders, s.Tiebreak)
	}

	return Query{
		Where:   where,
		Args:    args,
		OrderBy: strings.Join(orders, ", "),
		Offset:  (req.Page - 1) * req.Limit,
		Limit:   req.Limit,
		Page:    req.Page,
	}, nil
}

// Window returns the LIMIT/OFFSET clause numbered after the predicate args,
// together with the full argument list for the page query.
func (q Query) Window() (string, []any) {
	n := len(q.Args)
	args := make([]any, 0, n+2)
	args = append(args, q.Args...)
	args = append(args, q.Limit, q.Offset)
	return fmt.Sprintf("LIMIT $%d OFFSET $%d", n+1, n+2), args
}

func (s Schema) filter(name string) (Filter, bool) {
	for _, f := range s.Filters {
		if f.Name == name {
			return f, true
		}
	}
	return Filter{}, false
}

func (s Schema) sort(name string) (Sort, bool) {
	for _, so := range s.Sorts {
		if so.Name == name {
			return so, true
		}
	}
	return Sort{}, false
}

func direction(v string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return "", nil
	case "asc":
		return "ASC", nil
	case "desc":
		return "DESC", nil
	}
	return "", fmt.Errorf("direction must be asc or desc, got %q", v)
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
