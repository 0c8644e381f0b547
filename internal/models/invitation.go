package models

import "time"

// Invitation is a pending offer for an email address to join a family,
// stored in the remote family registry. At most one invitation should exist
// per (email, familyId) pair; the registry does not enforce this, so callers
// replace on conflict (delete any existing match, then insert).
//
// Invitations are never updated in place: every life-cycle event is a
// delete+insert or a delete.
type Invitation struct {
	// ID is the unique identifier for the invitation (UUID format).
	ID string `json:"id,omitempty"`

	// FamilyID is the family the invitee is asked to join.
	FamilyID string `json:"familyId,omitempty"`

	// Email is the invitee's address, lower-cased.
	Email string `json:"email,omitempty"`

	// InvitationCode is the one-time code guarding link-based acceptance.
	InvitationCode string `json:"invitationCode,omitempty"`

	// Created is when the invitation was issued.
	Created time.Time `json:"created,omitzero"`

	// Registered records whether the invitee had no account when the
	// invitation was issued. The name is inherited from the registry's
	// wire contract and is kept as-is, inverted as it reads.
	Registered bool `json:"registered"`
}

// NewInvitation builds a registry-ready invitation.
func NewInvitation(email, familyID, invitationCode string, registered bool) *Invitation {
	return &Invitation{
		FamilyID:       familyID,
		Email:          email,
		InvitationCode: invitationCode,
		Created:        time.Now(),
		Registered:     registered,
	}
}
