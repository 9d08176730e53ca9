package store

import (
	"fmt"
)

// Query executes an ad-hoc SQL statement and returns the result rows
// as ordered column/value maps. The statement is passed through
// unmodified: validating or restricting SQL is the caller's problem,
// this layer only reports execution errors.
func (s *Store) Query(sqlText string) ([]map[string]any, error) {
	if sqlText == "" {
		return nil, fmt.Errorf("sql query is required")
	}

	rows, err := s.db.Query(sqlText)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// SQLite hands back []byte for text columns; stringify for
			// JSON-friendly output.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return results, nil
}
