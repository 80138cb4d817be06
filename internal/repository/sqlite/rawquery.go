package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

type rawResult struct {
	Metadata rawMetadata      `json:"metadata"`
	Data     []map[string]any `json:"data"`
}

type rawMetadata struct {
	Query      string `json:"query"`
	RowCount   int    `json:"rowCount"`
	ExecutedAt string `json:"executedAt"`
}

// ExecuteRaw runs an arbitrary statement and serializes the rows as JSON.
// Callers are responsible for deciding whether the statement is allowed to
// run at all; this method executes whatever it is given.
func (db *DB) ExecuteRaw(ctx context.Context, query string) (string, error) {
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("sqlite: executing raw query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("sqlite: reading raw query columns: %w", err)
	}

	data := make([]map[string]any, 0, 8)
	for rows.Next() {
		values := make([]any, len(columns))
		targets := make([]any, len(columns))
		for i := range values {
			targets[i] = &values[i]
		}
		if err := rows.Scan(targets...); err != nil {
			return "", fmt.Errorf("sqlite: scanning raw query row: %w", err)
		}
		record := make(map[string]any, len(columns))
		for i, col := range columns {
			record[col] = jsonValue(values[i])
		}
		data = append(data, record)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("sqlite: iterating raw query rows: %w", err)
	}

	result := rawResult{
		Metadata: rawMetadata{
			Query:      query,
			RowCount:   len(data),
			ExecutedAt: time.Now().UTC().Format(time.RFC3339),
		},
		Data: data,
	}
	encoded, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("sqlite: encoding raw query result: %w", err)
	}
	return string(encoded), nil
}

// jsonValue flattens driver values to something encoding/json renders
// cleanly: byte slices become strings, times become RFC 3339.
func jsonValue(v any) any {
	switch value := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(value)
	case time.Time:
		return value.UTC().Format(time.RFC3339)
	default:
		return value
	}
}
