package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Account represents an account in the remote account directory.
// The directory owns the record; this type only mirrors it on the wire.
type Account struct {
	// ID is the unique identifier for the account (UUID format).
	ID string `json:"id,omitempty"`

	// FamilyID is the family this account belongs to, nil if none.
	// An account belongs to at most one family at a time.
	FamilyID *string `json:"familyId,omitempty"`

	// FirstName is the account holder's first name.
	FirstName string `json:"firstName,omitempty"`

	// LastName is the account holder's last name.
	LastName string `json:"lastName,omitempty"`

	// Email is the account's email address, always lower-cased.
	// Assign through SetEmail so the invariant holds everywhere.
	Email string `json:"email,omitempty"`

	// Password is the opaque credential forwarded to the directory on
	// registration. Never set on records read back from the directory.
	Password string `json:"password,omitempty"`

	// Created is when the account was registered.
	Created time.Time `json:"created,omitzero"`

	// Enabled reports whether the account has been activated.
	Enabled bool `json:"enabled"`
}

// AccountForm carries the fields of the registration form.
type AccountForm struct {
	FirstName        string
	LastName         string
	Email            string
	Password         string
	RepeatedPassword string
}

// NewAccount builds a directory-ready account from a registration form.
// The email is lower-cased and the account starts disabled until activated.
func NewAccount(form AccountForm) *Account {
	a := &Account{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Password:  form.Password,
		Created:   time.Now(),
		Enabled:   false,
	}
	a.SetEmail(form.Email)
	return a
}

// SetEmail assigns the email, lower-casing it.
func (a *Account) SetEmail(email string) {
	a.Email = strings.ToLower(email)
}

// HasFamily reports whether the account is already assigned to a family.
func (a *Account) HasFamily() bool {
	return a.FamilyID != nil
}

// UnmarshalJSON decodes an account and normalizes the email, so records
// arriving from the directory honor the lower-case invariant too.
func (a *Account) UnmarshalJSON(data []byte) error {
	type plain Account
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*a = Account(p)
	a.Email = strings.ToLower(a.Email)
	return nil
}
