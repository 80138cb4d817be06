package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/noteskit/noteskit/internal/apipath"
	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/respond"
)

const safeModeRefusal = "Safe mode: Only SELECT queries allowed."

type rawExecutor interface {
	ExecuteRaw(ctx context.Context, query string) (string, error)
}

type queryRunStore interface {
	Insert(ctx context.Context, q *model.QueryRun) error
}

// QueryRun serves POST /api/v1/test: run an arbitrary statement against the
// store and persist an audit record of the attempt. With safe enabled, only
// statements starting with SELECT are executed; anything else is refused
// before it reaches the database, and the refusal itself is recorded.
type QueryRun struct {
	executor rawExecutor
	runs     queryRunStore
}

// NewQueryRun builds the raw-query controller.
func NewQueryRun(executor rawExecutor, runs queryRunStore) *QueryRun {
	return &QueryRun{executor: executor, runs: runs}
}

// Mount registers the route on r.
func (c *QueryRun) Mount(r chi.Router) {
	r.Post(apipath.V1.Path().Constant("test").String(), c.run)
}

func (c *QueryRun) run(w http.ResponseWriter, r *http.Request) {
	run := &model.QueryRun{}
	if err := json.NewDecoder(r.Body).Decode(run); err != nil {
		respond.Failure(w, http.StatusBadRequest, apperror.Wrap(err))
		return
	}
	run.Query = strings.TrimSpace(run.Query)

	// Execution outcomes, including refusals, are data on the record; the
	// endpoint itself always answers 201.
	switch {
	case run.Query == "":
		run.MarkExecutionFailed("Query failed: empty query")
	case run.Safe && !isSelect(run.Query):
		run.MarkExecutionFailed(safeModeRefusal)
	default:
		result, err := c.executor.ExecuteRaw(r.Context(), run.Query)
		if err != nil {
			run.MarkExecutionFailed("Query failed: " + err.Error())
		} else {
			run.MarkExecuted(result)
		}
	}

	if err := c.runs.Insert(r.Context(), run); err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusCreated, run)
}

func isSelect(query string) bool {
	return strings.HasPrefix(strings.ToUpper(query), "SELECT")
}
