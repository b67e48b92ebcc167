// Package query parses PostgREST style query strings: column filters
// (col=op.value), order, limit, offset, select with embedded resources and
// on_conflict.
package query

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

var ErrInvalidQuery = errors.New("invalid query")

type Op string

const (
	OpEq    Op = "eq"
	OpNeq   Op = "neq"
	OpGt    Op = "gt"
	OpGte   Op = "gte"
	OpLt    Op = "lt"
	OpLte   Op = "lte"
	OpIn    Op = "in"
	OpIs    Op = "is"
	OpLike  Op = "like"
	OpILike Op = "ilike"
)

var knownOps = map[Op]bool{
	OpEq: true, OpNeq: true, OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpIn: true, OpIs: true, OpLike: true, OpILike: true,
}

// reserved keys are never treated as column filters.
var reserved = map[string]bool{
	"select": true, "order": true, "limit": true, "offset": true, "on_conflict": true,
}

// Filter is one column condition. Values holds the list for in; Value
// everything else.
type Filter struct {
	Column string
	Op     Op
	Not    bool
	Value  string
	Values []string
}

type Order struct {
	Column     string
	Descending bool
	NullsFirst *bool
}

// Embed is a related resource requested in select, e.g. academies(name).
type Embed struct {
	Resource string
	Columns  []string
}

type Select struct {
	// Columns is empty for *.
	Columns []string
	Embeds  []Embed
}

func (s Select) All() bool { return len(s.Columns) == 0 }

// Params is a parsed query string.
type Params struct {
	Filters    []Filter
	Orders     []Order
	Limit      int
	Offset     int
	Select     Select
	OnConflict []string
}

// Parse reads PostgREST parameters from values.
func Parse(values url.Values) (*Params, error) {
	p := &Params{}

	for key, vals := range values {
		if reserved[key] {
			continue
		}
		for _, v := range vals {
			f, err := parseFilter(key, v)
			if err != nil {
				return nil, err
			}
			p.Filters = append(p.Filters, f)
		}
	}

	if v := values.Get("order"); v != "" {
		orders, err := parseOrder(v)
		if err != nil {
			return nil, err
		}
		p.Orders = orders
	}

	var err error
	if p.Limit, err = parseCount("limit", values.Get("limit")); err != nil {
		return nil, err
	}
	if p.Offset, err = parseCount("offset", values.Get("offset")); err != nil {
		return nil, err
	}
	if p.Select, err = parseSelect(values.Get("select")); err != nil {
		return nil, err
	}
	if v := values.Get("on_conflict"); v != "" {
		p.OnConflict = splitTrim(v, ",")
	}
	return p, nil
}

// FilterValue returns the value of the first eq filter on column.
func (p *Params) FilterValue(column string) (string, bool) {
	for _, f := range p.Filters {
		if f.Column == column && f.Op == OpEq && !f.Not {
			return f.Value, true
		}
	}
	return "", false
}

func parseFilter(column, expr string) (Filter, error) {
	f := Filter{Column: column}
	if strings.HasPrefix(expr, "not.") {
		f.Not = true
		expr = strings.TrimPrefix(expr, "not.")
	}
	op, value, ok := strings.Cut(expr, ".")
	if !ok || !knownOps[Op(op)] {
		return f, fmt.Errorf("%w: unsupported filter %s=%s", ErrInvalidQuery, column, expr)
	}
	f.Op = Op(op)

	switch f.Op {
	case OpIn:
		if !strings.HasPrefix(value, "(") || !strings.HasSuffix(value, ")") {
			return f, fmt.Errorf("%w: in filter on %s must be a parenthesized list", ErrInvalidQuery, column)
		}
		inner := strings.TrimSuffix(strings.TrimPrefix(value, "("), ")")
		if inner != "" {
			for _, v := range strings.Split(inner, ",") {
				f.Values = append(f.Values, strings.Trim(v, `"`))
			}
		}
	case OpIs:
		switch strings.ToLower(value) {
		case "null", "true", "false":
			f.Value = strings.ToLower(value)
		default:
			return f, fmt.Errorf("%w: is filter on %s accepts null, true or false", ErrInvalidQuery, column)
		}
	case OpLike, OpILike:
		f.Value = strings.ReplaceAll(value, "*", "%")
	default:
		f.Value = value
	}
	return f, nil
}

func parseOrder(v string) ([]Order, error) {
	var out []Order
	for _, term := range splitTrim(v, ",") {
		parts := strings.Split(term, ".")
		o := Order{Column: parts[0]}
		for _, mod := range parts[1:] {
			switch mod {
			case "asc":
				o.Descending = false
			case "desc":
				o.Descending = true
			case "nullsfirst", "nullslast":
				first := mod == "nullsfirst"
				o.NullsFirst = &first
			default:
				return nil, fmt.Errorf("%w: unsupported order modifier %q", ErrInvalidQuery, mod)
			}
		}
		if o.Column == "" {
			return nil, fmt.Errorf("%w: empty order column", ErrInvalidQuery)
		}
		out = append(out, o)
	}
	return out, nil
}

func parseCount(name, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidQuery, name)
	}
	return n, nil
}

func parseSelect(v string) (Select, error) {
	var s Select
	v = strings.TrimSpace(v)
	if v == "" || v == "*" {
		return s, nil
	}

	depth, start := 0, 0
	var items []string
	for i, r := range v {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return s, fmt.Errorf("%w: unbalanced select", ErrInvalidQuery)
			}
		case ',':
			if depth == 0 {
				items = append(items, v[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return s, fmt.Errorf("%w: unbalanced select", ErrInvalidQuery)
	}
	items = append(items, v[start:])

	all := false
	for _, item := range items {
		item = strings.TrimSpace(item)
		if open := strings.IndexByte(item, '('); open >= 0 {
			e := Embed{Resource: item[:open]}
			inner := strings.TrimSpace(item[open+1 : len(item)-1])
			if inner != "*" && inner != "" {
				e.Columns = splitTrim(inner, ",")
			}
			s.Embeds = append(s.Embeds, e)
			continue
		}
		if item == "*" {
			all = true
			continue
		}
		if item != "" {
			s.Columns = append(s.Columns, item)
		}
	}
	if all {
		s.Columns = nil
	}
	return s, nil
}

func splitTrim(v, sep string) []string {
	var out []string
	for _, part := range strings.Split(v, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
