package sqlite

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/resource"
)

var queryRunTable = table[*model.QueryRun]{
	name:    "query_runs",
	title:   "query run",
	columns: []string{"query", "safe", "is_executed", "execution_result", "executed_at", "created_date", "updated_date"},
	values: func(q *model.QueryRun) []any {
		var result any
		if q.ExecutionResult != nil {
			result = *q.ExecutionResult
		}
		var executedAt any
		if q.ExecutedAt != nil {
			executedAt = *q.ExecutedAt
		}
		return []any{q.Query, q.Safe, q.IsExecuted, result, executedAt, q.CreatedDate, q.UpdatedDate}
	},
	scan: func(row rowScanner) (*model.QueryRun, error) {
		var q model.QueryRun
		var id string
		var result sql.NullString
		var executedAt sql.NullTime
		if err := row.Scan(&id, &q.Query, &q.Safe, &q.IsExecuted, &result, &executedAt, &q.CreatedDate, &q.UpdatedDate); err != nil {
			return nil, err
		}
		parsed, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		q.ID = parsed
		if result.Valid {
			q.ExecutionResult = &result.String
		}
		if executedAt.Valid {
			q.ExecutedAt = &executedAt.Time
		}
		return &q, nil
	},
	sortColumn:   "updated_date",
	filterColumn: "query",
}

// QueryRuns is the raw-statement audit log repository.
type QueryRuns struct {
	db *DB
}

var _ resource.Repository[*model.QueryRun] = (*QueryRuns)(nil)

// NewQueryRuns returns the query-run repository backed by db.
func NewQueryRuns(db *DB) *QueryRuns {
	return &QueryRuns{db: db}
}

func (r *QueryRuns) List(ctx context.Context) ([]*model.QueryRun, error) {
	return queryRunTable.list(ctx, r.db.conn)
}

func (r *QueryRuns) Find(ctx context.Context, id uuid.UUID) (*model.QueryRun, error) {
	return queryRunTable.find(ctx, r.db.conn, id)
}

func (r *QueryRuns) Insert(ctx context.Context, q *model.QueryRun) error {
	return queryRunTable.insert(ctx, r.db.conn, q)
}

func (r *QueryRuns) Update(ctx context.Context, q *model.QueryRun) error {
	return queryRunTable.update(ctx, r.db.conn, q)
}

func (r *QueryRuns) Delete(ctx context.Context, id uuid.UUID) (*model.QueryRun, error) {
	return queryRunTable.delete(ctx, r.db.conn, id)
}
