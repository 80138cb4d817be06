// Package controller wires HTTP routes to repositories. One generic
// Resource controller serves the canonical CRUD routes for every routable
// type; the remaining files hold the routes that fall outside that shape,
// the nested note listings and the raw-query endpoint.
package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/apipath"
	"github.com/noteskit/noteskit/internal/apperror"
	"github.com/noteskit/noteskit/internal/resource"
	"github.com/noteskit/noteskit/internal/respond"
)

// Resource serves the canonical routes for one routable type:
//
//	GET    /api/v1/{schema}          list
//	POST   /api/v1/{schema}          create
//	GET    /api/v1/{schema}/sorted   list by the declared sort field
//	GET    /api/v1/{schema}/filter   list by the declared filter field
//	GET    /api/v1/{schema}/{id}     fetch one
//	PUT    /api/v1/{schema}/{id}     merge-update
//	DELETE /api/v1/{schema}/{id}     delete, returning the removed record
//
// The sorted and filter routes are mounted only when the matching
// capability was supplied at construction.
type Resource[T resource.Routable[T]] struct {
	factory  func() T
	repo     resource.Repository[T]
	sorter   resource.Sorter[T]
	filterer resource.Filterer[T]

	schema string
	idKey  string
	title  string
}

// Option configures optional capabilities on a Resource.
type Option[T resource.Routable[T]] func(*Resource[T])

// WithSorting enables the /sorted route.
func WithSorting[T resource.Routable[T]](s resource.Sorter[T]) Option[T] {
	return func(c *Resource[T]) { c.sorter = s }
}

// WithFiltering enables the /filter route.
func WithFiltering[T resource.Routable[T]](f resource.Filterer[T]) Option[T] {
	return func(c *Resource[T]) { c.filterer = f }
}

// NewResource builds a controller for the type produced by factory.
func NewResource[T resource.Routable[T]](factory func() T, repo resource.Repository[T], opts ...Option[T]) *Resource[T] {
	prototype := factory()
	c := &Resource[T]{
		factory: factory,
		repo:    repo,
		schema:  prototype.Schema(),
		idKey:   prototype.IdentifierKey(),
		title:   prototype.Title(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Mount registers the routes on r.
func (c *Resource[T]) Mount(r chi.Router) {
	base := apipath.V1.Path().Constant(c.schema)
	item := base.Parameter(c.idKey)

	r.Get(base.String(), c.list)
	r.Post(base.String(), c.create)
	if c.sorter != nil {
		r.Get(base.Constant("sorted").String(), c.sorted)
	}
	if c.filterer != nil {
		r.Get(base.Constant("filter").String(), c.filter)
	}
	r.Get(item.String(), c.get)
	r.Put(item.String(), c.update)
	r.Delete(item.String(), c.delete)

	// PUT on the collection falls back to an id embedded in the body;
	// DELETE on the collection has no id to act on at all.
	r.Put(base.String(), c.updateByBodyID)
	r.Delete(base.String(), c.idRequired("delete"))
}

func (c *Resource[T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.repo.List(r.Context())
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, items)
}

func (c *Resource[T]) create(w http.ResponseWriter, r *http.Request) {
	item := c.factory()
	if err := json.NewDecoder(r.Body).Decode(item); err != nil {
		respond.Failure(w, http.StatusBadRequest, apperror.Wrap(err))
		return
	}
	if err := c.repo.Insert(r.Context(), item); err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusCreated, item)
}

func (c *Resource[T]) get(w http.ResponseWriter, r *http.Request) {
	id, err := c.pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	item, err := c.repo.Find(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, item)
}

// update is read-merge-write: load the persisted record, apply the merge
// rule with the incoming representation, store the result. A PUT against an
// id that does not exist is treated as a bad request, not a create.
func (c *Resource[T]) update(w http.ResponseWriter, r *http.Request) {
	id, err := c.pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	incoming := c.factory()
	if err := json.NewDecoder(r.Body).Decode(incoming); err != nil {
		respond.Failure(w, http.StatusBadRequest, apperror.Wrap(err))
		return
	}
	c.applyUpdate(w, r, id, incoming)
}

// updateByBodyID serves PUT on the collection path: with no id segment, the
// id embedded in the body locates the record instead.
func (c *Resource[T]) updateByBodyID(w http.ResponseWriter, r *http.Request) {
	incoming := c.factory()
	if err := json.NewDecoder(r.Body).Decode(incoming); err != nil {
		respond.Failure(w, http.StatusBadRequest, apperror.Wrap(err))
		return
	}
	id := incoming.GetID()
	if id == uuid.Nil {
		c.idRequired("update")(w, r)
		return
	}
	c.applyUpdate(w, r, id, incoming)
}

func (c *Resource[T]) applyUpdate(w http.ResponseWriter, r *http.Request, id uuid.UUID, incoming T) {
	existing, err := c.repo.Find(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			respond.Failure(w, http.StatusBadRequest, apperror.Wrap(err))
			return
		}
		fail(w, err)
		return
	}
	existing.Merge(incoming)
	if err := c.repo.Update(r.Context(), existing); err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusAccepted, existing)
}

func (c *Resource[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, err := c.pathID(r)
	if err != nil {
		fail(w, err)
		return
	}
	deleted, err := c.repo.Delete(r.Context(), id)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, deleted)
}

func (c *Resource[T]) sorted(w http.ResponseWriter, r *http.Request) {
	ascending := r.URL.Query().Get("sortOrder") == "ascending"
	items, err := c.sorter.ListSorted(r.Context(), ascending)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, items)
}

func (c *Resource[T]) filter(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		fail(w, apperror.Validation("Query Value not present to filter, must have query Field."))
		return
	}
	substring := r.URL.Query().Get("isLikeWise") == "true"
	items, err := c.filterer.ListFiltered(r.Context(), query, substring)
	if err != nil {
		fail(w, err)
		return
	}
	respond.Success(w, http.StatusOK, items)
}

func (c *Resource[T]) idRequired(method string) http.HandlerFunc {
	message := fmt.Sprintf("ID for path to %s for a %s item must be present, eg: %s/{%s}.",
		method, c.title, c.schema, c.idKey)
	return func(w http.ResponseWriter, r *http.Request) {
		fail(w, apperror.Validation(message))
	}
}

func (c *Resource[T]) pathID(r *http.Request) (uuid.UUID, error) {
	return parseParam(r, c.idKey, c.title)
}

// parseParam reads and validates a uuid path parameter.
func parseParam(r *http.Request, key, title string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.Validation(
			fmt.Sprintf("ID for path must be a valid UUID for a %s item, eg: {%s}.", title, key))
	}
	return id, nil
}

// fail maps the error chain to an HTTP status and writes the envelope. The
// wrap is attributed to fail's caller so the debug description points at
// the handler, not here.
func fail(w http.ResponseWriter, err error) {
	respond.Failure(w, statusFor(err), apperror.WrapSkip(err, 1))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
