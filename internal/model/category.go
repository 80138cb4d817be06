package model

import (
	"time"

	"github.com/google/uuid"
)

// Category labels notes; names are unique.
type Category struct {
	ID          uuid.UUID `json:"id,omitzero"`
	Name        string    `json:"name"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

func (c *Category) GetID() uuid.UUID      { return c.ID }
func (c *Category) SetID(id uuid.UUID)    { c.ID = id }
func (c *Category) Schema() string        { return "categories" }
func (c *Category) IdentifierKey() string { return "categoryID" }
func (c *Category) Title() string         { return "category" }

func (c *Category) Stamp(now time.Time) {
	if c.CreatedDate.IsZero() {
		c.CreatedDate = now
	}
	if c.UpdatedDate.IsZero() {
		c.UpdatedDate = now
	}
}

// Merge renames the category and refreshes UpdatedDate.
func (c *Category) Merge(incoming *Category) {
	c.Name = incoming.Name
	c.UpdatedDate = time.Now().UTC()
}
