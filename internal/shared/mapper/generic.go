// Package mapper converts gorm model rows into domain entities.
package mapper

import "fmt"

// Rows converts every non-nil row. A nil input stays nil so callers can tell
// "not queried" from "no rows".
func Rows[M, E any](rows []*M, convert func(*M) *E) []*E {
	out, _ := TryRows(rows, func(m *M) (*E, error) { return convert(m), nil }, nil)
	return out
}

// TryRows is Rows for conversions that can fail. Nil results are dropped.
// The first failure aborts, and key (when set) names the row in the error.
func TryRows[M, E any](rows []*M, convert func(*M) (*E, error), key func(*M) string) ([]*E, error) {
	if rows == nil {
		return nil, nil
	}
	out := make([]*E, 0, len(rows))
	for i, m := range rows {
		if m == nil {
			continue
		}
		e, err := convert(m)
		if err != nil {
			ref := fmt.Sprintf("#%d", i)
			if key != nil {
				ref = key(m)
			}
			return nil, fmt.Errorf("failed to map row %s: %w", ref, err)
		}
		if e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}
