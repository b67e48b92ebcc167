package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// From starts a query against table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table}
}

type filter struct {
	column string
	expr   string
}

// QueryBuilder accumulates PostgREST filters. Terminal methods send the request.
type QueryBuilder struct {
	client  *Client
	table   string
	columns string
	filters []filter
	orders  []string
	limit   int
	offset  int
}

func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.columns = columns
	return q
}

func (q *QueryBuilder) where(column, op string, value any) *QueryBuilder {
	q.filters = append(q.filters, filter{column: column, expr: op + "." + formatValue(value)})
	return q
}

func (q *QueryBuilder) Eq(column string, value any) *QueryBuilder  { return q.where(column, "eq", value) }
func (q *QueryBuilder) Neq(column string, value any) *QueryBuilder { return q.where(column, "neq", value) }
func (q *QueryBuilder) Gt(column string, value any) *QueryBuilder  { return q.where(column, "gt", value) }
func (q *QueryBuilder) Gte(column string, value any) *QueryBuilder { return q.where(column, "gte", value) }
func (q *QueryBuilder) Lt(column string, value any) *QueryBuilder  { return q.where(column, "lt", value) }
func (q *QueryBuilder) Lte(column string, value any) *QueryBuilder { return q.where(column, "lte", value) }

// Is filters on null, true or false.
func (q *QueryBuilder) Is(column string, value any) *QueryBuilder {
	if value == nil {
		value = "null"
	}
	return q.where(column, "is", value)
}

func (q *QueryBuilder) In(column string, values ...any) *QueryBuilder {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatValue(v)
	}
	q.filters = append(q.filters, filter{column: column, expr: "in.(" + strings.Join(parts, ",") + ")"})
	return q
}

func (q *QueryBuilder) Order(column string, ascending bool) *QueryBuilder {
	dir := "asc"
	if !ascending {
		dir = "desc"
	}
	q.orders = append(q.orders, column+"."+dir)
	return q
}

func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limit = n
	return q
}

func (q *QueryBuilder) Offset(n int) *QueryBuilder {
	q.offset = n
	return q
}

func (q *QueryBuilder) request(method string) *request {
	r := q.client.newRequest(method, "/rest/v1/"+q.table)
	for _, f := range q.filters {
		r.query.Add(f.column, f.expr)
	}
	if q.columns != "" {
		r.query.Set("select", q.columns)
	}
	if len(q.orders) > 0 && method == http.MethodGet {
		r.query.Set("order", strings.Join(q.orders, ","))
	}
	if q.limit > 0 && method == http.MethodGet {
		r.query.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offset > 0 && method == http.MethodGet {
		r.query.Set("offset", strconv.Itoa(q.offset))
	}
	return r
}

// Execute runs the select and decodes the row array into out.
func (q *QueryBuilder) Execute(ctx context.Context, out any) error {
	r := q.request(http.MethodGet)
	r.retryable = true
	resp, err := q.client.do(ctx, r)
	if err != nil {
		return fmt.Errorf("select %s: %w", q.table, err)
	}
	return decode(resp, out)
}

// Single expects exactly one row and returns ErrNoRows when there is none.
func (q *QueryBuilder) Single(ctx context.Context, out any) error {
	r := q.request(http.MethodGet)
	r.retryable = true
	r.header.Set("Accept", "application/vnd.pgrst.object+json")
	resp, err := q.client.do(ctx, r)
	if err != nil {
		if apiErr, ok := AsAPIError(err); ok && (apiErr.Code == codeNoRows || apiErr.Status == http.StatusNotAcceptable) {
			return fmt.Errorf("select %s: %w", q.table, ErrNoRows)
		}
		return fmt.Errorf("select %s: %w", q.table, err)
	}
	return decode(resp, out)
}

// MaybeSingle decodes at most one row into out and reports whether one existed.
func (q *QueryBuilder) MaybeSingle(ctx context.Context, out any) (bool, error) {
	if q.limit == 0 || q.limit > 2 {
		q.limit = 2
	}
	var rows []json.RawMessage
	if err := q.Execute(ctx, &rows); err != nil {
		return false, err
	}
	switch len(rows) {
	case 0:
		return false, nil
	case 1:
		if err := json.Unmarshal(rows[0], out); err != nil {
			return false, &TransportError{Op: "decode response", Err: err}
		}
		return true, nil
	default:
		return false, &APIError{
			Status:  http.StatusNotAcceptable,
			Code:    codeNoRows,
			Message: "JSON object requested, multiple rows returned",
		}
	}
}

// Insert posts values (a row or a slice of rows) and decodes the created rows.
func (q *QueryBuilder) Insert(ctx context.Context, values any, out any) error {
	return q.write(ctx, http.MethodPost, values, "return=representation", out)
}

// Upsert merges on the onConflict columns.
func (q *QueryBuilder) Upsert(ctx context.Context, values any, onConflict string, out any) error {
	if onConflict != "" {
		q.filters = append(q.filters, filter{column: "on_conflict", expr: onConflict})
	}
	return q.write(ctx, http.MethodPost, values, "resolution=merge-duplicates,return=representation", out)
}

// Update patches every row matching the filters.
func (q *QueryBuilder) Update(ctx context.Context, patch any, out any) error {
	if len(q.filters) == 0 {
		return fmt.Errorf("update %s: refusing to update without filters", q.table)
	}
	return q.write(ctx, http.MethodPatch, patch, "return=representation", out)
}

// Delete removes every row matching the filters.
func (q *QueryBuilder) Delete(ctx context.Context, out any) error {
	if len(q.filters) == 0 {
		return fmt.Errorf("delete %s: refusing to delete without filters", q.table)
	}
	r := q.request(http.MethodDelete)
	r.header.Set("Prefer", "return=representation")
	r.retryable = true
	resp, err := q.client.do(ctx, r)
	if err != nil {
		return fmt.Errorf("delete %s: %w", q.table, err)
	}
	return decode(resp, out)
}

func (q *QueryBuilder) write(ctx context.Context, method string, body any, prefer string, out any) error {
	r := q.request(method)
	if err := r.json(body); err != nil {
		return err
	}
	r.header.Set("Prefer", prefer)
	resp, err := q.client.do(ctx, r)
	if err != nil {
		return fmt.Errorf("%s %s: %w", strings.ToLower(method), q.table, err)
	}
	return decode(resp, out)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		return t.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(v)
	}
}
