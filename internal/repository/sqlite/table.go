package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/resource"
)

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table carries the per-resource column mapping the generic queries need.
// Each repository file declares one table value; everything else — listing,
// finding, inserting, updating, deleting, sorting, filtering — is written
// once here.
type table[T resource.Object] struct {
	name    string
	title   string
	columns []string // mutable columns, id excluded
	values  func(T) []any
	scan    func(rowScanner) (T, error)

	// the one declared sort field and the one declared filter field
	sortColumn   string
	filterColumn string
}

func (t *table[T]) selectClause() string {
	return "SELECT id, " + strings.Join(t.columns, ", ") + " FROM " + t.name
}

func (t *table[T]) queryMany(ctx context.Context, conn *sql.DB, query string, args ...any) ([]T, error) {
	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing %s: %w", t.name, err)
	}
	defer rows.Close()

	items := make([]T, 0, 16)
	for rows.Next() {
		item, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning %s row: %w", t.name, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating %s: %w", t.name, err)
	}
	return items, nil
}

func (t *table[T]) list(ctx context.Context, conn *sql.DB) ([]T, error) {
	return t.queryMany(ctx, conn, t.selectClause())
}

func (t *table[T]) find(ctx context.Context, conn *sql.DB, id uuid.UUID) (T, error) {
	row := conn.QueryRowContext(ctx, t.selectClause()+" WHERE id = ?", id.String())
	item, err := t.scan(row)
	if err != nil {
		var zero T
		if err == sql.ErrNoRows {
			return zero, apperror.NotFound(t.title, id.String())
		}
		return zero, fmt.Errorf("sqlite: getting %s %s: %w", t.title, id, err)
	}
	return item, nil
}

func (t *table[T]) insert(ctx context.Context, conn *sql.DB, obj T) error {
	if obj.GetID() == uuid.Nil {
		obj.SetID(uuid.New())
	}
	obj.Stamp(time.Now().UTC())

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)+1), ", ")
	args := append([]any{obj.GetID().String()}, t.values(obj)...)
	_, err := conn.ExecContext(ctx,
		"INSERT INTO "+t.name+" (id, "+strings.Join(t.columns, ", ")+") VALUES ("+placeholders+")",
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(t.title, err.Error())
		}
		return fmt.Errorf("sqlite: creating %s: %w", t.title, err)
	}
	return nil
}

func (t *table[T]) update(ctx context.Context, conn *sql.DB, obj T) error {
	assignments := make([]string, len(t.columns))
	for i, col := range t.columns {
		assignments[i] = col + " = ?"
	}
	args := append(t.values(obj), obj.GetID().String())
	result, err := conn.ExecContext(ctx,
		"UPDATE "+t.name+" SET "+strings.Join(assignments, ", ")+" WHERE id = ?",
		args...,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict(t.title, err.Error())
		}
		return fmt.Errorf("sqlite: updating %s %s: %w", t.title, obj.GetID(), err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound(t.title, obj.GetID().String())
	}
	return nil
}

// delete loads the record first so the handler can return the deleted
// snapshot, then removes it.
func (t *table[T]) delete(ctx context.Context, conn *sql.DB, id uuid.UUID) (T, error) {
	item, err := t.find(ctx, conn, id)
	if err != nil {
		var zero T
		return zero, err
	}
	if _, err := conn.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id = ?", id.String()); err != nil {
		var zero T
		return zero, fmt.Errorf("sqlite: deleting %s %s: %w", t.title, id, err)
	}
	return item, nil
}

func (t *table[T]) listSorted(ctx context.Context, conn *sql.DB, ascending bool) ([]T, error) {
	direction := "DESC"
	if ascending {
		direction = "ASC"
	}
	return t.queryMany(ctx, conn, t.selectClause()+" ORDER BY "+t.sortColumn+" "+direction)
}

func (t *table[T]) listFiltered(ctx context.Context, conn *sql.DB, query string, substring bool) ([]T, error) {
	if substring {
		return t.queryMany(ctx, conn, t.selectClause()+" WHERE "+t.filterColumn+" LIKE ?", "%"+query+"%")
	}
	return t.queryMany(ctx, conn, t.selectClause()+" WHERE "+t.filterColumn+" = ?", query)
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
