package controller_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/controller"
	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/repository/sqlite"
)

type envelope struct {
	Code                       int             `json:"code"`
	Error                      string          `json:"error"`
	Identifier                 string          `json:"identifier"`
	DebugErrorDescription      string          `json:"debugErrorDescription"`
	Data                       json.RawMessage `json:"data"`
	IsServerGeneratedError     *bool           `json:"isServerGeneratedError"`
	IsUserShowableErrorMessage *bool           `json:"isUserShowableErrorMessage"`
}

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := sqlite.NewUsers(db)
	notes := sqlite.NewNotes(db)
	categories := sqlite.NewCategories(db)
	profiles := sqlite.NewProfiles(db)
	pivots := sqlite.NewNoteCategories(db)
	runs := sqlite.NewQueryRuns(db)

	r := chi.NewRouter()
	controller.NewResource(func() *model.User { return &model.User{} }, users,
		controller.WithSorting[*model.User](users), controller.WithFiltering[*model.User](users)).Mount(r)
	controller.NewResource(func() *model.Note { return &model.Note{} }, notes,
		controller.WithSorting[*model.Note](notes), controller.WithFiltering[*model.Note](notes)).Mount(r)
	controller.NewResource(func() *model.Category { return &model.Category{} }, categories,
		controller.WithSorting[*model.Category](categories), controller.WithFiltering[*model.Category](categories)).Mount(r)
	controller.NewResource(func() *model.Profile { return &model.Profile{} }, profiles,
		controller.WithSorting[*model.Profile](profiles), controller.WithFiltering[*model.Profile](profiles)).Mount(r)
	controller.NewUserNotes(users, notes).Mount(r)
	controller.NewNoteCategoryRelation(users, notes, categories, pivots).Mount(r)
	controller.NewQueryRun(db, runs).Mount(r)
	controller.NewResource(func() *model.QueryRun { return &model.QueryRun{} }, runs).Mount(r)
	return r
}

func do(t *testing.T, r chi.Router, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return rec, env
}

func userBody(n int) string {
	return fmt.Sprintf(`{
		"name": "Test Person",
		"userName": "user_%03d",
		"email": "user%03d@example.com",
		"phone": "98765432%02d",
		"zipcode": "560001",
		"countryCode": "91"
	}`, n, n, n)
}

func createUser(t *testing.T, r chi.Router, n int) model.User {
	t.Helper()
	rec, env := do(t, r, http.MethodPost, "/api/v1/users", userBody(n))
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var u model.User
	require.NoError(t, json.Unmarshal(env.Data, &u))
	return u
}

func createNote(t *testing.T, r chi.Router, owner model.User, text string) model.Note {
	t.Helper()
	body := fmt.Sprintf(`{"note":%q,"cardColor":"#ffffff","userId":%q}`, text, owner.ID)
	rec, env := do(t, r, http.MethodPost, "/api/v1/notes", body)
	require.Equal(t, http.StatusCreated, rec.Code, "body: %s", rec.Body.String())
	var n model.Note
	require.NoError(t, json.Unmarshal(env.Data, &n))
	return n
}

func TestCreateAndFetchUser(t *testing.T) {
	r := newTestRouter(t)

	created := createUser(t, r, 1)
	assert.NotEmpty(t, created.ID)

	rec, env := do(t, r, http.MethodGet, "/api/v1/users/"+created.ID.String(), "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, http.StatusOK, env.Code)
	assert.Empty(t, env.Error)
	assert.Nil(t, env.IsServerGeneratedError)

	var fetched model.User
	require.NoError(t, json.Unmarshal(env.Data, &fetched))
	assert.Equal(t, created.ID, fetched.ID)
	assert.Equal(t, created.Email, fetched.Email)

	rec, env = do(t, r, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var all []model.User
	require.NoError(t, json.Unmarshal(env.Data, &all))
	assert.Len(t, all, 1)
}

func TestCreateUserRejectsBadEmail(t *testing.T) {
	r := newTestRouter(t)

	body := strings.Replace(userBody(2), "user002@example.com", "not-an-email", 1)
	rec, env := do(t, r, http.MethodPost, "/api/v1/users", body)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "InvalidEmail", env.Identifier)
	assert.Contains(t, env.Error, "Email Format is Invalid")
	require.NotNil(t, env.IsUserShowableErrorMessage)
	assert.True(t, *env.IsUserShowableErrorMessage)
	require.NotNil(t, env.IsServerGeneratedError)
	assert.False(t, *env.IsServerGeneratedError)
}

func TestDuplicateEmailConflicts(t *testing.T) {
	r := newTestRouter(t)

	createUser(t, r, 3)
	body := strings.Replace(userBody(4), "user004@example.com", "user003@example.com", 1)
	rec, _ := do(t, r, http.MethodPost, "/api/v1/users", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestConflictDetailRedactedInRelease(t *testing.T) {
	apperror.SetReleaseMode(true)
	t.Cleanup(func() { apperror.SetReleaseMode(false) })

	r := newTestRouter(t)
	rec, _ := do(t, r, http.MethodPost, "/api/v1/categories", `{"name":"work"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := do(t, r, http.MethodPost, "/api/v1/categories", `{"name":"work"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, apperror.RedactedReason, env.Error)
	assert.NotContains(t, env.Error, "UNIQUE constraint failed")
	assert.Empty(t, env.DebugErrorDescription)
}

func TestFetchMalformedAndMissingIDs(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodGet, "/api/v1/users/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, env.Error, "must be a valid UUID")

	rec, env = do(t, r, http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000001", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, env.Error, "Unable to find the user for requested id")
}

func TestUpdateMergesAndAccepts(t *testing.T) {
	r := newTestRouter(t)

	created := createUser(t, r, 5)
	replacement := strings.Replace(userBody(5), "Test Person", "Renamed Person", 1)
	rec, env := do(t, r, http.MethodPut, "/api/v1/users/"+created.ID.String(), replacement)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	var updated model.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed Person", updated.Name.String())
	assert.Equal(t, created.CreatedDate, updated.CreatedDate)
	assert.True(t, updated.UpdatedDate.After(created.UpdatedDate) || updated.UpdatedDate.Equal(created.UpdatedDate))
}

func TestUpdateMissingUserIsBadRequest(t *testing.T) {
	r := newTestRouter(t)

	rec, _ := do(t, r, http.MethodPut, "/api/v1/users/00000000-0000-0000-0000-000000000002", userBody(6))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteReturnsSnapshotThenNotFound(t *testing.T) {
	r := newTestRouter(t)

	created := createUser(t, r, 7)
	rec, env := do(t, r, http.MethodDelete, "/api/v1/users/"+created.ID.String(), "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var deleted model.User
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, created.ID, deleted.ID)

	rec, _ = do(t, r, http.MethodDelete, "/api/v1/users/"+created.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollectionMutationsNeedAnID(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPut, "/api/v1/users", userBody(8))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID for path to update for a user item must be present, eg: users/{userID}.", env.Error)

	rec, env = do(t, r, http.MethodDelete, "/api/v1/users", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "ID for path to delete for a user item must be present, eg: users/{userID}.", env.Error)
}

func TestUpdateByBodyID(t *testing.T) {
	r := newTestRouter(t)

	created := createUser(t, r, 17)
	replacement := strings.Replace(userBody(17), `"name": "Test Person"`,
		fmt.Sprintf(`"id": %q, "name": "Body Id Person"`, created.ID), 1)
	rec, env := do(t, r, http.MethodPut, "/api/v1/users", replacement)

	assert.Equal(t, http.StatusAccepted, rec.Code, "body: %s", rec.Body.String())
	var updated model.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Body Id Person", updated.Name.String())
}

func TestSortedNotes(t *testing.T) {
	r := newTestRouter(t)
	owner := createUser(t, r, 9)

	createNote(t, r, owner, "first")
	createNote(t, r, owner, "second")
	createNote(t, r, owner, "third")

	rec, env := do(t, r, http.MethodGet, "/api/v1/notes/sorted?sortOrder=ascending", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var ascending []model.Note
	require.NoError(t, json.Unmarshal(env.Data, &ascending))
	require.Len(t, ascending, 3)
	assert.False(t, ascending[0].Date.After(ascending[2].Date))

	// Any other sortOrder value means descending.
	rec, env = do(t, r, http.MethodGet, "/api/v1/notes/sorted?sortOrder=bogus", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var descending []model.Note
	require.NoError(t, json.Unmarshal(env.Data, &descending))
	require.Len(t, descending, 3)
	assert.False(t, descending[0].Date.Before(descending[2].Date))
}

func TestFilterNotes(t *testing.T) {
	r := newTestRouter(t)
	owner := createUser(t, r, 10)

	createNote(t, r, owner, "buy milk")
	createNote(t, r, owner, "buy bread")
	createNote(t, r, owner, "standup")

	// Default is exact equality.
	rec, env := do(t, r, http.MethodGet, "/api/v1/notes/filter?query=standup", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var exact []model.Note
	require.NoError(t, json.Unmarshal(env.Data, &exact))
	assert.Len(t, exact, 1)

	rec, env = do(t, r, http.MethodGet, "/api/v1/notes/filter?query=buy&isLikeWise=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var fuzzy []model.Note
	require.NoError(t, json.Unmarshal(env.Data, &fuzzy))
	assert.Len(t, fuzzy, 2)

	rec, env = do(t, r, http.MethodGet, "/api/v1/notes/filter", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Query Value not present to filter, must have query Field.", env.Error)
}

func TestNotesNestedUnderUser(t *testing.T) {
	r := newTestRouter(t)
	alice := createUser(t, r, 11)
	bob := createUser(t, r, 12)

	createNote(t, r, alice, "alice groceries")
	createNote(t, r, alice, "alice standup")
	createNote(t, r, bob, "bob only")

	rec, env := do(t, r, http.MethodGet, "/api/v1/users/"+alice.ID.String()+"/notes?sortOrder=ascending", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var notes []model.Note
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	assert.Len(t, notes, 2)

	// The filter needs both parameters; query alone is ignored.
	rec, env = do(t, r, http.MethodGet, "/api/v1/users/"+alice.ID.String()+"/notes?query=groceries", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	assert.Len(t, notes, 2)

	rec, env = do(t, r, http.MethodGet, "/api/v1/users/"+alice.ID.String()+"/notes?query=groceries&isLikeWise=true", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &notes))
	require.Len(t, notes, 1)
	assert.Equal(t, "alice groceries", notes[0].Note)

	rec, _ = do(t, r, http.MethodGet, "/api/v1/users/00000000-0000-0000-0000-000000000003/notes", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachAndDetachCategories(t *testing.T) {
	r := newTestRouter(t)
	owner := createUser(t, r, 13)
	note := createNote(t, r, owner, "tagged")

	rec, env := do(t, r, http.MethodPost, "/api/v1/categories", `{"name":"work"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var category model.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))

	attachPath := "/api/v1/users/" + owner.ID.String() + "/notes/" + note.ID.String() + "/categories/" + category.ID.String()
	rec, env = do(t, r, http.MethodPost, attachPath, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	var pivot model.NoteCategoryPivot
	require.NoError(t, json.Unmarshal(env.Data, &pivot))
	assert.Equal(t, note.ID, pivot.NoteID)
	assert.Equal(t, category.ID, pivot.CategoryID)

	rec, env = do(t, r, http.MethodGet, "/api/v1/users/"+owner.ID.String()+"/notes/"+note.ID.String()+"/categories", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var attached []model.Category
	require.NoError(t, json.Unmarshal(env.Data, &attached))
	require.Len(t, attached, 1)
	assert.Equal(t, "work", attached[0].Name)

	rec, _ = do(t, r, http.MethodDelete, attachPath, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = do(t, r, http.MethodDelete, attachPath, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachToMissingNote(t *testing.T) {
	r := newTestRouter(t)
	owner := createUser(t, r, 14)

	rec, env := do(t, r, http.MethodPost, "/api/v1/categories", `{"name":"orphan"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var category model.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))

	rec, _ = do(t, r, http.MethodPost, "/api/v1/users/"+owner.ID.String()+"/notes/00000000-0000-0000-0000-000000000004/categories/"+category.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAttachToAnotherUsersNote(t *testing.T) {
	r := newTestRouter(t)
	owner := createUser(t, r, 15)
	stranger := createUser(t, r, 16)
	note := createNote(t, r, owner, "private")

	rec, env := do(t, r, http.MethodPost, "/api/v1/categories", `{"name":"sneaky"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var category model.Category
	require.NoError(t, json.Unmarshal(env.Data, &category))

	rec, _ = do(t, r, http.MethodPost, "/api/v1/users/"+stranger.ID.String()+"/notes/"+note.ID.String()+"/categories/"+category.ID.String(), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// queryRunView decodes the query-run response body. model.QueryRun cannot
// be used here: its UnmarshalJSON deliberately drops execution state, since
// clients must not inject it on the way in.
type queryRunView struct {
	ID              string  `json:"id"`
	Query           string  `json:"query"`
	Safe            bool    `json:"safe"`
	IsExecuted      bool    `json:"isExecuted"`
	ExecutionResult *string `json:"executionResult"`
	ExecutedAt      *string `json:"executedAt"`
}

func TestQueryRunExecutesSelect(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"SELECT 1 AS answer","safe":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var run queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.True(t, run.IsExecuted)
	require.NotNil(t, run.ExecutionResult)
	assert.Contains(t, *run.ExecutionResult, `"rowCount":1`)
	assert.Contains(t, *run.ExecutionResult, `"answer":1`)
	require.NotNil(t, run.ExecutedAt)
}

func TestQueryRunSafeModeRefusesNonSelect(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"DROP TABLE users","safe":"true"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var run queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.False(t, run.IsExecuted)
	require.NotNil(t, run.ExecutionResult)
	assert.Equal(t, "Safe mode: Only SELECT queries allowed.", *run.ExecutionResult)

	// The users table survived the refused statement.
	rec, _ = do(t, r, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestQueryRunWithoutSafeExecutesAnything(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"delete from profiles"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var run queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.True(t, run.IsExecuted)
}

func TestQueryRunRecordsFailure(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"SELECT FROM nowhere","safe":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var run queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.False(t, run.IsExecuted)
	require.NotNil(t, run.ExecutionResult)
	assert.Contains(t, *run.ExecutionResult, "Query failed:")
}

func TestQueryRunEmptyQueryRecordedAsFailure(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"   "}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var run queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &run))
	assert.False(t, run.IsExecuted)
	require.NotNil(t, run.ExecutionResult)
	assert.Contains(t, *run.ExecutionResult, "empty query")
}

func TestQueryRunAuditLogRoutes(t *testing.T) {
	r := newTestRouter(t)

	rec, env := do(t, r, http.MethodPost, "/api/v1/test", `{"query":"SELECT 1","safe":true}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &created))

	rec, env = do(t, r, http.MethodGet, "/api/v1/query_runs", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var all []queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &all))
	require.Len(t, all, 1)
	assert.Equal(t, created.ID, all[0].ID)

	rec, env = do(t, r, http.MethodGet, "/api/v1/query_runs/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var found queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.True(t, found.IsExecuted)

	// PUT merges only the statement text and safety flag.
	rec, env = do(t, r, http.MethodPut, "/api/v1/query_runs/"+created.ID, `{"query":"SELECT 2","safe":false}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	var updated queryRunView
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "SELECT 2", updated.Query)

	rec, _ = do(t, r, http.MethodDelete, "/api/v1/query_runs/"+created.ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, _ = do(t, r, http.MethodDelete, "/api/v1/query_runs/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
