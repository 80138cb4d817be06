package model

import (
	"time"

	"github.com/google/uuid"
)

// Profile is a display name plus image reference.
type Profile struct {
	ID           uuid.UUID `json:"id,omitzero"`
	ProfileName  string    `json:"profileName"`
	ProfileImage string    `json:"profileImage"`
	CreatedDate  time.Time `json:"createdDate"`
	UpdatedDate  time.Time `json:"updatedDate"`
}

func (p *Profile) GetID() uuid.UUID      { return p.ID }
func (p *Profile) SetID(id uuid.UUID)    { p.ID = id }
func (p *Profile) Schema() string        { return "profiles" }
func (p *Profile) IdentifierKey() string { return "profileID" }
func (p *Profile) Title() string         { return "profile" }

func (p *Profile) Stamp(now time.Time) {
	if p.CreatedDate.IsZero() {
		p.CreatedDate = now
	}
	if p.UpdatedDate.IsZero() {
		p.UpdatedDate = now
	}
}

// Merge replaces the display fields and refreshes UpdatedDate.
func (p *Profile) Merge(incoming *Profile) {
	p.ProfileName = incoming.ProfileName
	p.ProfileImage = incoming.ProfileImage
	p.UpdatedDate = time.Now().UTC()
}
