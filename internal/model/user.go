// Package model defines the domain records served by the API. Each routable
// type carries its schema constants and the Merge rule the PUT handler
// applies; identity and creation time are never merged.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/noteskit/noteskit/internal/model/field"
)

// User owns notes. Email and phone are unique across users.
type User struct {
	ID          uuid.UUID         `json:"id,omitzero"`
	Name        field.Name        `json:"name"`
	UserName    field.UserName    `json:"userName"`
	Email       field.Email       `json:"email"`
	Phone       field.PhoneNumber `json:"phone"`
	ZipCode     field.ZipCode     `json:"zipcode"`
	CountryCode field.CountryCode `json:"countryCode"`
	CreatedDate time.Time         `json:"createdDate"`
	UpdatedDate time.Time         `json:"updatedDate"`
}

func (u *User) GetID() uuid.UUID     { return u.ID }
func (u *User) SetID(id uuid.UUID)   { u.ID = id }
func (u *User) Schema() string       { return "users" }
func (u *User) IdentifierKey() string { return "userID" }
func (u *User) Title() string        { return "user" }

func (u *User) Stamp(now time.Time) {
	if u.CreatedDate.IsZero() {
		u.CreatedDate = now
	}
	if u.UpdatedDate.IsZero() {
		u.UpdatedDate = now
	}
}

// Merge copies the mutable profile fields and refreshes UpdatedDate.
func (u *User) Merge(incoming *User) {
	u.Name = incoming.Name
	u.UserName = incoming.UserName
	u.Email = incoming.Email
	u.Phone = incoming.Phone
	u.ZipCode = incoming.ZipCode
	u.CountryCode = incoming.CountryCode
	u.UpdatedDate = time.Now().UTC()
}
