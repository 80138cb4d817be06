package model

import (
	"time"

	"github.com/google/uuid"
)

// NoteCategoryPivot is a join row of the note/category many-to-many
// relation. Rows cascade away when either side is deleted.
type NoteCategoryPivot struct {
	ID          uuid.UUID `json:"id,omitzero"`
	NoteID      uuid.UUID `json:"noteID"`
	CategoryID  uuid.UUID `json:"categoryID"`
	CreatedDate time.Time `json:"createdDate"`
	UpdatedDate time.Time `json:"updatedDate"`
}

func (p *NoteCategoryPivot) GetID() uuid.UUID      { return p.ID }
func (p *NoteCategoryPivot) SetID(id uuid.UUID)    { p.ID = id }
func (p *NoteCategoryPivot) Schema() string        { return "note_categories" }
func (p *NoteCategoryPivot) IdentifierKey() string { return "noteCategoryID" }
func (p *NoteCategoryPivot) Title() string         { return "note category" }

func (p *NoteCategoryPivot) Stamp(now time.Time) {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = now
	}
	if p.UpdatedDate.IsZero() {
		p.UpdatedDate = now
	}
}

// Merge repoints the join row and refreshes UpdatedDate.
func (p *NoteCategoryPivot) Merge(incoming *NoteCategoryPivot) {
	p.NoteID = incoming.NoteID
	p.CategoryID = incoming.CategoryID
	p.UpdatedDate = time.Now().UTC()
}
