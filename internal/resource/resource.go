// Package resource declares the capability contracts a domain type must
// satisfy to be served by the generic controller. Capability checks happen
// at composition time: a resource's routes only compile if its repository
// implements the needed interfaces, and the optional sorted/filter routes
// are enabled by handing the controller the optional capability values.
package resource

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Object is the minimal contract every routable resource satisfies:
// a store-assigned UUID identity plus the naming constants used for path
// and error-message construction.
type Object interface {
	GetID() uuid.UUID
	SetID(uuid.UUID)

	// Stamp initializes creation timestamps on first persist; it leaves
	// already-set values alone so loaded records keep their history.
	Stamp(now time.Time)

	// Schema is the path segment and table name, e.g. "users".
	Schema() string
	// IdentifierKey names the id path parameter, e.g. "userID".
	IdentifierKey() string
	// Title is the lowercase display name used in error messages.
	Title() string
}

// Merger applies the update rule for PUT: copy mutable fields from an
// incoming representation onto the persisted instance, refresh the
// updated timestamp, and never touch identity or creation time.
type Merger[T any] interface {
	Merge(incoming T)
}

// Routable is what the generic controller requires of its type parameter.
type Routable[T any] interface {
	Object
	Merger[T]
}

// Repository is the store contract backing the five canonical routes.
// Find and Delete report a missing record with apperror.ErrNotFound.
// Update is a plain read-merge-write: there is no version token, so
// concurrent updates on the same id are last-write-wins.
type Repository[T any] interface {
	List(ctx context.Context) ([]T, error)
	Find(ctx context.Context, id uuid.UUID) (T, error)
	Insert(ctx context.Context, obj T) error
	Update(ctx context.Context, obj T) error
	Delete(ctx context.Context, id uuid.UUID) (T, error)
}

// Sorter lists by the resource's one declared sort field.
type Sorter[T any] interface {
	ListSorted(ctx context.Context, ascending bool) ([]T, error)
}

// Filterer lists records matching the resource's one declared filter
// field, by substring when substring is true, exact equality otherwise.
type Filterer[T any] interface {
	ListFiltered(ctx context.Context, query string, substring bool) ([]T, error)
}
