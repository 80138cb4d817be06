package controller

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/apipath"
	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/model"
	"github.com/noteskit/noteskit/internal/respond"
)

type noteFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*model.Note, error)
}

type categoryFinder interface {
	Find(ctx context.Context, id uuid.UUID) (*model.Category, error)
}

type pivotStore interface {
	Attach(ctx context.Context, noteID, categoryID uuid.UUID) (*model.NoteCategoryPivot, error)
	Detach(ctx context.Context, noteID, categoryID uuid.UUID) (*model.NoteCategoryPivot, error)
	CategoriesForNote(ctx context.Context, noteID uuid.UUID) ([]*model.Category, error)
}

// NoteCategoryRelation serves the note/category many-to-many routes, nested
// under the owning user:
//
//	GET    /api/v1/users/{userID}/notes/{noteID}/categories                 attached categories
//	POST   /api/v1/users/{userID}/notes/{noteID}/categories/{categoryID}    attach
//	DELETE /api/v1/users/{userID}/notes/{noteID}/categories/{categoryID}    detach
//
// Every id in the path is resolved before the join table is touched; a note
// that exists but belongs to a different user reads as not found.
type NoteCategoryRelation struct {
	users      userFinder
	notes      noteFinder
	categories categoryFinder
	pivots     pivotStore
}

// NewNoteCategoryRelation builds the relation controller.
func NewNoteCategoryRelation(users userFinder, notes noteFinder, categories categoryFinder, pivots pivotStore) *NoteCategoryRelation {
	return &NoteCategoryRelation{users: users, notes: notes, categories: categories, pivots: pivots}
}

// Mount registers the routes on r.
func (c *NoteCategoryRelation) Mount(r chi.Router) {
	collection := apipath.V1.Path().
		Constant("users").Parameter("userID").
		Constant("notes").Parameter("noteID").
		Constant("categories")
	item := collection.Parameter("categoryID")

	r.Get(collection.String(), c.list)
	r.Post(item.String(), c.attach)
	r.Delete(item.String(), c.detach)
}

func (c *NoteCategoryRelation) list(w http.ResponseWriter, r *http.Request) {
	note, err := c.ownedNote(r)
	if err != nil {
		fail(w, err)
		return
	}
	categories, err := c.pivots.CategoriesForNote(r.Context(), note.ID)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, categories)
}

func (c *NoteCategoryRelation) attach(w http.ResponseWriter, r *http.Request) {
	note, category, err := c.relation(r)
	if err != nil {
		fail(w, err)
		return
	}
	pivot, err := c.pivots.Attach(r.Context(), note.ID, category.ID)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusCreated, pivot)
}

func (c *NoteCategoryRelation) detach(w http.ResponseWriter, r *http.Request) {
	note, category, err := c.relation(r)
	if err != nil {
		fail(w, err)
		return
	}
	pivot, err := c.pivots.Detach(r.Context(), note.ID, category.ID)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, pivot)
}

// ownedNote resolves the user and the note and checks ownership.
func (c *NoteCategoryRelation) ownedNote(r *http.Request) (*model.Note, error) {
	userID, err := parseParam(r, "userID", "user")
	if err != nil {
		return nil, err
	}
	noteID, err := parseParam(r, "noteID", "note")
	if err != nil {
		return nil, err
	}
	if _, err := c.users.Find(r.Context(), userID); err != nil {
		return nil, err
	}
	note, err := c.notes.Find(r.Context(), noteID)
	if err != nil {
		return nil, err
	}
	if note.UserID != userID {
		return nil, apperror.NotFound("note", noteID.String())
	}
	return note, nil
}

// relation resolves the full note/category pair for attach and detach.
func (c *NoteCategoryRelation) relation(r *http.Request) (*model.Note, *model.Category, error) {
	note, err := c.ownedNote(r)
	if err != nil {
		return nil, nil, err
	}
	categoryID, err := parseParam(r, "categoryID", "category")
	if err != nil {
		return nil, nil, err
	}
	category, err := c.categories.Find(r.Context(), categoryID)
	if err != nil {
		return nil, nil, err
	}
	return note, category, nil
}
