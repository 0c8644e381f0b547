package models

// The two invite mail payloads are separate types rather than one struct
// with optional fields, so each notification path carries exactly the data
// it needs and the compiler keeps the branches honest.

// ExistingUserInvite is the mail payload for inviting someone who already
// has an account. The invitee joins through a coded link, so the payload
// carries the invitation code.
type ExistingUserInvite struct {
	// Inviter is the family owner on whose behalf the mail is sent.
	Inviter Account

	// Invitee is the account being invited.
	Invitee Account

	// Family is the family the invitee is asked to join.
	Family Family

	// InvitationCode is embedded in the acceptance link.
	InvitationCode string
}

// NewUserInvite is the mail payload for inviting an email address with no
// account yet. There is no code: the guest registers first and then joins
// through the family creation form, driven by their authenticated identity.
type NewUserInvite struct {
	// Inviter is whoever performed the invite, which may differ from
	// the family owner.
	Inviter Account

	// Email is the invitee's address.
	Email string

	// Family is the family the invitee is asked to join.
	Family Family
}
