package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/apipath"
	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/respond"
)

type userFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type userNoteLister interface {
	ForUser(ctx context.Context, userID uuid.UUID, ascending bool, query string, substring bool) ([]*model.Note, error)
}

// UserNotes serves the notes nested under a user:
//
//	GET /api/v1/users/{userID}/notes
//
// The listing is always ordered by note date; sortOrder=ascending flips the
// direction. A filter narrows the listing only when both query and
// isLikeWise are present.
type UserNotes struct {
	users userFinder
	notes userNoteLister
}

// NewUserNotes builds the nested note-listing controller.
func NewUserNotes(users userFinder, notes userNoteLister) *UserNotes {
	return &UserNotes{users: users, notes: notes}
}

// Mount registers the route on r.
func (c *UserNotes) Mount(r chi.Router) {
	pattern := apipath.V1.Path().
		Constant("users").Parameter("userID").
		Constant("notes").
		String()
	r.Get(pattern, c.list)
}

func (c *UserNotes) list(w http.ResponseWriter, r *http.Request) {
	userID, err := parseParam(r, "userID", "user")
	if err != nil {
		fail(w, err)
		return
	}
	if _, err := c.users.Find(r.Context(), userID); err != nil {
		fail(w, err)
		return
	}

	params := r.URL.Query()
	ascending := params.Get("sortOrder") == "ascending"
	query := ""
	substring := false
	if params.Has("query") && params.Has("isLikeWise") {
		query = params.Get("query")
		substring = params.Get("isLikeWise") == "true"
	}

	notes, err := c.notes.ForUser(r.Context(), userID, ascending, query, substring)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, notes)
}
