package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/homebudget/coordinator/internal/auth"
	"github.com/homebudget/coordinator/internal/clients"
	"github.com/homebudget/coordinator/internal/models"
)

// InvitationService is the single authority for invitation state
// transitions. It is stateless between requests: every operation re-fetches
// what it needs from the account directory and the family registry, and all
// shared mutable state lives in those remote services.
//
// The invariants it guards (an account belongs to at most one family, at
// most one invitation per (email, family) pair) span services with no
// common transaction boundary, so they are enforced by read-then-write
// orchestration. Concurrent requests for the same pair can interleave
// between the read and the write; that race is accepted and the semantics
// are last-write-wins.
type InvitationService struct {
	accounts   clients.AccountDirectory
	families   clients.FamilyRegistry
	mailer     clients.Notifier
	gatewayURL string
}

// NewInvitationService creates the orchestrator over the three remote
// collaborators. gatewayURL prefixes every redirect target.
func NewInvitationService(accounts clients.AccountDirectory, families clients.FamilyRegistry, mailer clients.Notifier, gatewayURL string) *InvitationService {
	return &InvitationService{
		accounts:   accounts,
		families:   families,
		mailer:     mailer,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
	}
}

func (s *InvitationService) familyHome() Outcome {
	return Redirect(s.gatewayURL + "/budget/family")
}

func (s *InvitationService) loginPage() Outcome {
	return Redirect(s.gatewayURL + "/login")
}

// InviteToFamily invites an email address into a family. Existing users get
// a mail with a coded acceptance link sent on behalf of the family owner;
// addresses without an account get a registration invite sent on behalf of
// whoever is performing the action, which may differ from the owner.
//
// Either way the operation ends by replacing any previous invitation for
// the (email, family) pair with a fresh one. A mail that went out before a
// later step fails is not compensated; the operation simply aborts.
func (s *InvitationService) InviteToFamily(ctx context.Context, identity auth.Identity, family models.Family, newMemberEmail string) (Outcome, error) {
	newMemberEmail = strings.ToLower(newMemberEmail)
	invitationCode := uuid.NewString()
	isNewUser := false

	slog.Info("inviting to family",
		"family_id", family.ID,
		"email", newMemberEmail,
		"invited_by", identity.Email,
	)

	newMember, err := s.accounts.FindAccountByEmail(ctx, newMemberEmail)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitee lookup: %w", err)
	}

	if newMember != nil {
		owner, err := s.accounts.FindAccountByID(ctx, family.OwnerID)
		if err != nil {
			return Outcome{}, fmt.Errorf("owner lookup: %w", err)
		}
		if owner == nil {
			return Outcome{}, notFound("owner")
		}
		invite := models.ExistingUserInvite{
			Inviter:        *owner,
			Invitee:        *newMember,
			Family:         family,
			InvitationCode: invitationCode,
		}
		if err := s.mailer.SendExistingUserInvite(ctx, invite); err != nil {
			return Outcome{}, fmt.Errorf("invite mail: %w", err)
		}
	} else {
		// No account for this address yet: the code never travels by mail,
		// the guest later joins via the family creation form instead.
		isNewUser = true
		inviter, err := s.accounts.FindAccountByEmail(ctx, identity.Email)
		if err != nil {
			return Outcome{}, fmt.Errorf("inviter lookup: %w", err)
		}
		if inviter == nil {
			slog.Error("inviter account missing for authenticated principal", "email", identity.Email)
			return Outcome{}, internal("inviter lookup failed")
		}
		invite := models.NewUserInvite{
			Inviter: *inviter,
			Email:   newMemberEmail,
			Family:  family,
		}
		if err := s.mailer.SendNewUserInvite(ctx, invite); err != nil {
			return Outcome{}, fmt.Errorf("invite mail: %w", err)
		}
	}

	if err := s.replaceInvitation(ctx, newMemberEmail, family.ID, invitationCode, isNewUser); err != nil {
		return Outcome{}, err
	}

	slog.Info("invitation issued", "family_id", family.ID, "email", newMemberEmail, "new_user", isNewUser)
	return s.familyHome(), nil
}

// replaceInvitation deletes any invitation already held for the pair and
// inserts a fresh one. The registry offers no atomic upsert, so this is the
// closest approximation of the at-most-one invariant.
func (s *InvitationService) replaceInvitation(ctx context.Context, email, familyID, invitationCode string, registered bool) error {
	existing, err := s.families.FindInvitationByEmailAndFamilyID(ctx, email, familyID)
	if err != nil {
		return fmt.Errorf("invitation lookup: %w", err)
	}
	if existing != nil {
		if _, err := s.families.DeleteInvitationByID(ctx, existing.ID); err != nil {
			return fmt.Errorf("replace invitation: %w", err)
		}
		slog.Info("replaced previous invitation", "invitation_id", existing.ID, "email", email, "family_id", familyID)
	}
	if _, err := s.families.SaveInvitation(ctx, models.NewInvitation(email, familyID, invitationCode, registered)); err != nil {
		return fmt.Errorf("save invitation: %w", err)
	}
	return nil
}

// ResendInvitation re-sends the mail for a pending invitation. The record
// itself is left untouched: the stored code stays valid and nothing is
// written to the registry. An unknown invitation id is a silent no-op.
//
// When the invitee still has no account, the mail goes out on behalf of
// whoever triggered the resend, not the original inviter.
func (s *InvitationService) ResendInvitation(ctx context.Context, identity auth.Identity, invitationID string) (Outcome, error) {
	invitation, err := s.families.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitation lookup: %w", err)
	}
	if invitation == nil {
		slog.Info("resend requested for unknown invitation", "invitation_id", invitationID)
		return s.familyHome(), nil
	}

	family, err := s.families.FindFamilyByID(ctx, invitation.FamilyID)
	if err != nil {
		return Outcome{}, fmt.Errorf("family lookup: %w", err)
	}
	if family == nil {
		return Outcome{}, notFound("family")
	}

	invitee, err := s.accounts.FindAccountByEmail(ctx, invitation.Email)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitee lookup: %w", err)
	}

	if invitee != nil {
		owner, err := s.accounts.FindAccountByID(ctx, family.OwnerID)
		if err != nil {
			return Outcome{}, fmt.Errorf("owner lookup: %w", err)
		}
		if owner == nil {
			return Outcome{}, notFound("owner")
		}
		invite := models.ExistingUserInvite{
			Inviter:        *owner,
			Invitee:        *invitee,
			Family:         *family,
			InvitationCode: invitation.InvitationCode,
		}
		if err := s.mailer.SendExistingUserInvite(ctx, invite); err != nil {
			return Outcome{}, fmt.Errorf("resend mail: %w", err)
		}
	} else {
		inviter, err := s.accounts.FindAccountByEmail(ctx, identity.Email)
		if err != nil {
			return Outcome{}, fmt.Errorf("inviter lookup: %w", err)
		}
		if inviter == nil {
			return Outcome{}, notFound("inviter")
		}
		invite := models.NewUserInvite{
			Inviter: *inviter,
			Email:   invitation.Email,
			Family:  *family,
		}
		if err := s.mailer.SendNewUserInvite(ctx, invite); err != nil {
			return Outcome{}, fmt.Errorf("resend mail: %w", err)
		}
	}

	slog.Info("invitation resent", "invitation_id", invitationID, "resent_by", identity.Email)
	return s.familyHome(), nil
}

// AddAccountToFamily accepts an invitation via the coded link. The account
// joins the family only when the family and account exist, the account is
// not in a family yet, and the supplied code exactly matches the stored
// invitation. Mismatch and absence render the same error page.
func (s *InvitationService) AddAccountToFamily(ctx context.Context, familyID, accountID, invitationCode string) (Outcome, error) {
	slog.Info("link-based acceptance attempt", "family_id", familyID, "account_id", accountID)

	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		return Outcome{}, fmt.Errorf("account lookup: %w", err)
	}
	family, err := s.families.FindFamilyByID(ctx, familyID)
	if err != nil {
		return Outcome{}, fmt.Errorf("family lookup: %w", err)
	}
	if account == nil || family == nil {
		// Not enough context to even render an error; defer to login.
		return s.loginPage(), nil
	}

	if account.HasFamily() {
		slog.Info("account already in a family", "account_id", account.ID)
		return ErrorPage(ErrorAlreadyInFamily), nil
	}

	invitation, err := s.families.FindInvitationByEmailAndFamilyID(ctx, account.Email, familyID)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitation lookup: %w", err)
	}
	if invitation == nil {
		slog.Warn("no invitation for acceptance attempt", "email", account.Email, "family_id", familyID)
		return ErrorPage(ErrorInvalidInvitationLink), nil
	}
	if invitation.InvitationCode != invitationCode {
		slog.Warn("invitation code mismatch", "invitation_id", invitation.ID, "family_id", familyID)
		return ErrorPage(ErrorInvalidInvitationLink), nil
	}

	if _, err := s.accounts.AssignFamily(ctx, accountID, familyID); err != nil {
		return Outcome{}, fmt.Errorf("assign family: %w", err)
	}
	if _, err := s.families.DeleteInvitationByID(ctx, invitation.ID); err != nil {
		return Outcome{}, fmt.Errorf("consume invitation: %w", err)
	}

	slog.Info("invitation accepted", "account_id", accountID, "family_id", familyID)
	return s.loginPage(), nil
}

// AcceptInCreationForm joins the current principal to the family of the
// given owner. This is the path for invitees who registered after being
// invited: acceptance is driven by the authenticated identity, so no
// invitation code is checked. Any matching invitation record is consumed.
func (s *InvitationService) AcceptInCreationForm(ctx context.Context, identity auth.Identity, ownerID string) (Outcome, error) {
	invitee, err := s.accounts.FindAccountByEmail(ctx, identity.Email)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitee lookup: %w", err)
	}
	if invitee == nil {
		slog.Error("invitee account missing for authenticated principal", "email", identity.Email)
		return Outcome{}, internal("invitee lookup failed")
	}

	owner, err := s.accounts.FindAccountByID(ctx, ownerID)
	if err != nil {
		return Outcome{}, fmt.Errorf("owner lookup: %w", err)
	}
	if owner == nil || !owner.HasFamily() {
		slog.Error("acceptance against missing or familyless owner", "owner_id", ownerID)
		return Outcome{}, internal("owner has no family to join")
	}
	familyID := *owner.FamilyID

	invitation, err := s.families.FindInvitationByEmailAndFamilyID(ctx, invitee.Email, familyID)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitation lookup: %w", err)
	}
	if invitation != nil {
		if _, err := s.families.DeleteInvitationByID(ctx, invitation.ID); err != nil {
			return Outcome{}, fmt.Errorf("consume invitation: %w", err)
		}
	}

	if _, err := s.accounts.AssignFamily(ctx, invitee.ID, familyID); err != nil {
		return Outcome{}, fmt.Errorf("assign family: %w", err)
	}

	slog.Info("invitation accepted via creation form", "account_id", invitee.ID, "family_id", familyID)
	return s.familyHome(), nil
}

// RemoveInvitation deletes a pending invitation. There is no ownership
// check beyond being logged in; the acting principal is recorded in the
// log. An unknown id is a no-op.
func (s *InvitationService) RemoveInvitation(ctx context.Context, identity auth.Identity, invitationID string) (Outcome, error) {
	invitation, err := s.families.FindInvitationByID(ctx, invitationID)
	if err != nil {
		return Outcome{}, fmt.Errorf("invitation lookup: %w", err)
	}
	if invitation != nil {
		if _, err := s.families.DeleteInvitationByID(ctx, invitationID); err != nil {
			return Outcome{}, fmt.Errorf("delete invitation: %w", err)
		}
		slog.Info("invitation removed",
			"invitation_id", invitationID,
			"email", invitation.Email,
			"removed_by", identity.Email,
		)
	}
	return s.familyHome(), nil
}

// PendingInvitations lists the invitations outstanding for a family, for
// the family page.
func (s *InvitationService) PendingInvitations(ctx context.Context, familyID string) ([]models.Invitation, error) {
	invitations, err := s.families.FindInvitationsByFamilyID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}

// InvitationsForEmail lists the invitations addressed to an email, shown on
// the family creation form so a fresh registrant can join instead of
// creating a family.
func (s *InvitationService) InvitationsForEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	invitations, err := s.families.FindInvitationsByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return invitations, nil
}
