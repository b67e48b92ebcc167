package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/fitpass-app/fitpass/internal/shared/constants"
	db "github.com/fitpass-app/fitpass/internal/shared/db"
	"github.com/fitpass-app/fitpass/internal/shared/query"
)

// Kind is how a column's filter values are converted before binding.
type Kind int

const (
	KindString Kind = iota
	KindInt
	KindFloat
	KindBool
	KindTime
)

// Column is one queryable column.
type Column struct {
	Name string
	Kind Kind
}

// Columns maps exposed column names to database columns. Only listed columns
// can be filtered or ordered on.
type Columns map[string]Column

func (c Columns) resolve(name string) (Column, error) {
	col, ok := c[name]
	if !ok {
		return Column{}, fmt.Errorf("%w: column %q does not exist", query.ErrInvalidQuery, name)
	}
	return col, nil
}

func (c Columns) convert(col Column, raw string) (any, error) {
	var (
		v   any
		err error
	)
	switch col.Kind {
	case KindInt:
		v, err = strconv.ParseInt(raw, 10, 64)
	case KindFloat:
		v, err = strconv.ParseFloat(raw, 64)
	case KindBool:
		v, err = strconv.ParseBool(raw)
	case KindTime:
		v, err = time.Parse(time.RFC3339Nano, raw)
	default:
		v = raw
	}
	if err != nil {
		return nil, fmt.Errorf("%w: invalid value %q for %s", query.ErrInvalidQuery, raw, col.Name)
	}
	return v, nil
}

var comparators = map[query.Op]string{
	query.OpEq:  "=",
	query.OpNeq: "<>",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// ApplyFilters adds the column filters of p to tx.
func ApplyFilters(tx *gorm.DB, cols Columns, p *query.Params) (*gorm.DB, error) {
	for _, f := range p.Filters {
		col, err := cols.resolve(f.Column)
		if err != nil {
			return nil, err
		}
		clause, args, err := filterClause(cols, col, f)
		if err != nil {
			return nil, err
		}
		if f.Not {
			clause = "NOT (" + clause + ")"
		}
		tx = tx.Where(clause, args...)
	}
	return tx, nil
}

func filterClause(cols Columns, col Column, f query.Filter) (string, []any, error) {
	switch f.Op {
	case query.OpIn:
		if len(f.Values) == 0 {
			return "1 = 0", nil, nil
		}
		vals := make([]any, len(f.Values))
		for i, raw := range f.Values {
			v, err := cols.convert(col, raw)
			if err != nil {
				return "", nil, err
			}
			vals[i] = v
		}
		return col.Name + " IN ?", []any{vals}, nil
	case query.OpIs:
		switch f.Value {
		case "null":
			return col.Name + " IS NULL", nil, nil
		default:
			return col.Name + " = ?", []any{f.Value == "true"}, nil
		}
	case query.OpLike:
		return col.Name + " LIKE ?", []any{f.Value}, nil
	case query.OpILike:
		return "LOWER(" + col.Name + ") LIKE ?", []any{strings.ToLower(f.Value)}, nil
	}

	cmp, ok := comparators[f.Op]
	if !ok {
		return "", nil, fmt.Errorf("%w: unsupported operator %s", query.ErrInvalidQuery, f.Op)
	}
	v, err := cols.convert(col, f.Value)
	if err != nil {
		return "", nil, err
	}
	return col.Name + " " + cmp + " ?", []any{v}, nil
}

// ApplyQuery adds filters, ordering and paging. Without an explicit limit at
// most constants.MaxPageSize rows are returned.
func ApplyQuery(tx *gorm.DB, cols Columns, p *query.Params) (*gorm.DB, error) {
	tx, err := ApplyFilters(tx, cols, p)
	if err != nil {
		return nil, err
	}
	for _, o := range p.Orders {
		col, err := cols.resolve(o.Column)
		if err != nil {
			return nil, err
		}
		if o.NullsFirst != nil {
			nullRank := "1 ELSE 0"
			if *o.NullsFirst {
				nullRank = "0 ELSE 1"
			}
			tx = tx.Order("CASE WHEN " + col.Name + " IS NULL THEN " + nullRank + " END")
		}
		dir := " ASC"
		if o.Descending {
			dir = " DESC"
		}
		tx = tx.Order(col.Name + dir)
	}

	limit := p.Limit
	if limit <= 0 {
		limit = constants.MaxPageSize
	}
	return tx.Scopes(db.Paginate(limit, p.Offset)), nil
}

// FindRows runs a PostgREST style select of model rows. scopes apply row
// level restrictions before the caller's filters.
func FindRows[M any](ctx context.Context, conn *gorm.DB, cols Columns, p *query.Params, scopes ...func(*gorm.DB) *gorm.DB) ([]*M, error) {
	tx := db.GetTxFromContext(ctx, conn).Model(new(M)).Scopes(scopes...)
	tx, err := ApplyQuery(tx, cols, p)
	if err != nil {
		return nil, err
	}
	var rows []*M
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query rows: %w", err)
	}
	return rows, nil
}
