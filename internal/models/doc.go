// Package models defines the domain types the coordinator exchanges with
// its three remote collaborators.
//
// # Ownership
//
// None of this state lives here. Accounts belong to the account directory,
// families and invitations to the family registry; these types mirror their
// wire representations and carry the few invariants the coordinator must
// uphold on its side:
//
//   - Email addresses are lower-cased everywhere they cross this code
//     (assignment, JSON decoding, lookups).
//   - An account's family membership is its nullable FamilyID; use
//     Account.HasFamily rather than inspecting the pointer.
//   - Invitations are replace-on-conflict: see Invitation.
//
// # Mail payloads
//
// ExistingUserInvite and NewUserInvite are transient, built fresh per
// notification send and never persisted. They are distinct types on purpose:
// the two invite paths carry different data and should not share a struct
// of optionals.
package models
