package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// QueryRun records one raw-statement execution attempt and its outcome.
// It is the one resource outside the generic CRUD contract: execution
// happens synchronously during create, and the record persists whether or
// not the statement succeeded.
type QueryRun struct {
	ID              uuid.UUID  `json:"id,omitzero"`
	Query           string     `json:"query"`
	Safe            bool       `json:"safe"`
	IsExecuted      bool       `json:"isExecuted"`
	ExecutionResult *string    `json:"executionResult"`
	ExecutedAt      *time.Time `json:"executedAt"`
	CreatedDate     time.Time  `json:"createdDate"`
	UpdatedDate     time.Time  `json:"updatedDate"`
}

func (q *QueryRun) GetID() uuid.UUID      { return q.ID }
func (q *QueryRun) SetID(id uuid.UUID)    { q.ID = id }
func (q *QueryRun) Schema() string        { return "query_runs" }
func (q *QueryRun) IdentifierKey() string { return "queryId" }
func (q *QueryRun) Title() string         { return "query run" }

func (q *QueryRun) Stamp(now time.Time) {
	if q.CreatedDate.IsZero() {
		q.CreatedDate = now
	}
	if q.UpdatedDate.IsZero() {
		q.UpdatedDate = now
	}
}

// Merge replaces the statement text and safety flag; execution state is
// owned by the execution lifecycle, not by PUT.
func (q *QueryRun) Merge(incoming *QueryRun) {
	q.Query = incoming.Query
	q.Safe = incoming.Safe
	q.UpdatedDate = time.Now().UTC()
}

// queryRunRequest tolerates clients sending safe as a bool or the string
// "true"; only those two spellings enable safe mode.
type queryRunRequest struct {
	Query string          `json:"query"`
	Safe  json.RawMessage `json:"safe"`
}

// UnmarshalJSON accepts only the request fields; execution state always
// starts cleared regardless of what the client sends.
func (q *QueryRun) UnmarshalJSON(b []byte) error {
	var req queryRunRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return err
	}
	safe := false
	if len(req.Safe) > 0 {
		var asBool bool
		var asString string
		if err := json.Unmarshal(req.Safe, &asBool); err == nil {
			safe = asBool
		} else if err := json.Unmarshal(req.Safe, &asString); err == nil {
			safe = asString == "true"
		}
	}
	*q = QueryRun{Query: req.Query, Safe: safe}
	return nil
}

// MarkExecuted records a successful execution outcome.
func (q *QueryRun) MarkExecuted(result string) {
	now := time.Now().UTC()
	q.IsExecuted = true
	q.ExecutionResult = &result
	q.ExecutedAt = &now
	q.UpdatedDate = now
}

// MarkExecutionFailed records a failed (or refused) execution outcome.
func (q *QueryRun) MarkExecutionFailed(outcome string) {
	now := time.Now().UTC()
	q.IsExecuted = false
	q.ExecutionResult = &outcome
	q.ExecutedAt = &now
	q.UpdatedDate = now
}
