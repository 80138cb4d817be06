package model

import (
	"time"

	"github.com/google/uuid"
)

// Note belongs to exactly one user and carries a many-to-many category
// relation through NoteCategoryPivot.
type Note struct {
	ID        uuid.UUID `json:"id,omitzero"`
	Note      string    `json:"note"`
	CardColor string    `json:"cardColor"`
	UserID    uuid.UUID `json:"userId"`
	Date      time.Time `json:"date"`
}

func (n *Note) GetID() uuid.UUID      { return n.ID }
func (n *Note) SetID(id uuid.UUID)    { n.ID = id }
func (n *Note) Schema() string        { return "notes" }
func (n *Note) IdentifierKey() string { return "noteID" }
func (n *Note) Title() string         { return "note" }

func (n *Note) Stamp(now time.Time) {
	if n.Date.IsZero() {
		n.Date = now
	}
}

// Merge replaces the note text, color and date; the owning user and
// identity stay put.
func (n *Note) Merge(incoming *Note) {
	n.Note = incoming.Note
	n.CardColor = incoming.CardColor
	if !incoming.Date.IsZero() {
		n.Date = incoming.Date
	} else {
		n.Date = time.Now().UTC()
	}
}
