// Package clients provides access to the three remote services the
// coordinator orchestrates: the account directory, the family registry and
// the mail service.
package clients

import (
	"context"

	"github.com/homebudget/coordinator/internal/models"
)

// AccountDirectory defines the operations consumed from the remote account
// service. Lookups model absence as a nil result, not an error.
// This abstraction allows the service layer to be tested against fakes.
type AccountDirectory interface {
	// FindAccountByID retrieves an account by its ID.
	// Returns (nil, nil) if no such account exists.
	FindAccountByID(ctx context.Context, id string) (*models.Account, error)

	// FindAccountByEmail retrieves an account by email. The email is
	// lower-cased before the lookup. Returns (nil, nil) if absent.
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)

	// CreateAccount registers a new account and returns the stored record.
	// Returns ErrConflict if the email is already registered.
	CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error)

	// CreateActivationCode asks the directory for a fresh activation code
	// for the given account.
	CreateActivationCode(ctx context.Context, accountID string) (string, error)

	// CheckCredentials verifies a hashed password against the directory.
	// Returns false, not an error, when the password does not match or the
	// account is unknown.
	CheckCredentials(ctx context.Context, accountID, hashedPassword string) (bool, error)

	// AssignFamily sets the family on an account. Returns false when the
	// account or family does not exist.
	AssignFamily(ctx context.Context, accountID, familyID string) (bool, error)
}

// FamilyRegistry defines the operations consumed from the remote family
// service, which owns both families and invitations.
type FamilyRegistry interface {
	// FindFamilyByID retrieves a family by ID. Returns (nil, nil) if absent.
	FindFamilyByID(ctx context.Context, id string) (*models.Family, error)

	// SaveFamily creates a family and returns the stored record with its
	// assigned ID. Returns ErrConflict if the family already exists.
	SaveFamily(ctx context.Context, family *models.Family) (*models.Family, error)

	// UpdateFamily replaces an existing family record.
	UpdateFamily(ctx context.Context, family *models.Family) (*models.Family, error)

	// DeleteFamilyByID removes a family. Returns false when absent.
	DeleteFamilyByID(ctx context.Context, id string) (bool, error)

	// FindInvitationByID retrieves an invitation by ID.
	// Returns (nil, nil) if absent.
	FindInvitationByID(ctx context.Context, id string) (*models.Invitation, error)

	// FindInvitationByEmailAndFamilyID retrieves the invitation for an
	// (email, family) pair. Returns (nil, nil) if absent. The registry does
	// not enforce uniqueness of the pair; when several match, the first is
	// returned.
	FindInvitationByEmailAndFamilyID(ctx context.Context, email, familyID string) (*models.Invitation, error)

	// FindInvitationsByEmail lists all invitations addressed to an email.
	FindInvitationsByEmail(ctx context.Context, email string) ([]models.Invitation, error)

	// FindInvitationsByFamilyID lists all pending invitations to a family.
	FindInvitationsByFamilyID(ctx context.Context, familyID string) ([]models.Invitation, error)

	// SaveInvitation creates an invitation and returns the stored record.
	SaveInvitation(ctx context.Context, invitation *models.Invitation) (*models.Invitation, error)

	// DeleteInvitationByID removes an invitation. Returns false when absent.
	DeleteInvitationByID(ctx context.Context, id string) (bool, error)
}

// Notifier defines the operations consumed from the remote mail service.
// Sends are fire-and-acknowledge: a nil error means the service accepted
// the mail, nothing is retried here.
type Notifier interface {
	// SendExistingUserInvite mails a coded acceptance link to an invitee
	// who already has an account.
	SendExistingUserInvite(ctx context.Context, invite models.ExistingUserInvite) error

	// SendNewUserInvite mails a registration nudge to an invitee with no
	// account yet.
	SendNewUserInvite(ctx context.Context, invite models.NewUserInvite) error

	// SendSignUpConfirmation mails the activation code for a freshly
	// registered account.
	SendSignUpConfirmation(ctx context.Context, account models.Account, activationCode string) error
}
