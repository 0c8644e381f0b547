package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/homebudget/coordinator/internal/auth"
	"github.com/homebudget/coordinator/internal/clients"
	"github.com/homebudget/coordinator/internal/models"
)

// FamilyService handles family lifecycle around the invitation flows:
// creation from the family form, renaming, and disbanding. Like the
// invitation workflows it is stateless and re-fetches on every call.
type FamilyService struct {
	accounts clients.AccountDirectory
	families clients.FamilyRegistry
}

// NewFamilyService creates the family service over the directory and the
// registry.
func NewFamilyService(accounts clients.AccountDirectory, families clients.FamilyRegistry) *FamilyService {
	return &FamilyService{accounts: accounts, families: families}
}

// CreateFamily creates a family owned by the current principal and assigns
// the principal to it. An account already in a family cannot create one.
//
// The save and the assignment are two independent remote writes; a crash
// between them leaves an ownerless family behind, which is accepted the
// same way invitation inconsistencies are.
func (s *FamilyService) CreateFamily(ctx context.Context, identity auth.Identity, form models.FamilyCreationForm) (*models.Family, error) {
	owner, err := s.accounts.FindAccountByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("owner lookup: %w", err)
	}
	if owner == nil {
		slog.Error("owner account missing for authenticated principal", "email", identity.Email)
		return nil, internal("owner lookup failed")
	}
	if owner.HasFamily() {
		return nil, ErrAlreadyInFamily
	}

	created, err := s.families.SaveFamily(ctx, models.NewFamily(form, owner.ID))
	if err != nil {
		return nil, fmt.Errorf("create family: %w", err)
	}

	ok, err := s.accounts.AssignFamily(ctx, owner.ID, created.ID)
	if err != nil {
		return nil, fmt.Errorf("assign owner: %w", err)
	}
	if !ok {
		return nil, internal("owner assignment rejected")
	}

	slog.Info("family created", "family_id", created.ID, "owner_id", owner.ID)
	return created, nil
}

// FamilyOf returns the family the current principal belongs to, nil when
// the principal has none.
func (s *FamilyService) FamilyOf(ctx context.Context, identity auth.Identity) (*models.Family, error) {
	account, err := s.accounts.FindAccountByEmail(ctx, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil || !account.HasFamily() {
		return nil, nil
	}
	family, err := s.families.FindFamilyByID(ctx, *account.FamilyID)
	if err != nil {
		return nil, fmt.Errorf("family lookup: %w", err)
	}
	return family, nil
}

// RenameFamily changes the family's title. Only the owner may rename.
func (s *FamilyService) RenameFamily(ctx context.Context, identity auth.Identity, familyID, title string) (*models.Family, error) {
	family, err := s.families.FindFamilyByID(ctx, familyID)
	if err != nil {
		return nil, fmt.Errorf("family lookup: %w", err)
	}
	if family == nil {
		return nil, notFound("family")
	}
	if family.OwnerID != identity.AccountID {
		return nil, notFound("family")
	}

	family.Title = title
	updated, err := s.families.UpdateFamily(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("rename family: %w", err)
	}
	slog.Info("family renamed", "family_id", familyID)
	return updated, nil
}

// DisbandFamily deletes a family and withdraws its pending invitations.
// Only the owner may disband. Member accounts keep their stale family id
// until the directory reconciles them; the registry is cleaned up here.
func (s *FamilyService) DisbandFamily(ctx context.Context, identity auth.Identity, familyID string) error {
	family, err := s.families.FindFamilyByID(ctx, familyID)
	if err != nil {
		return fmt.Errorf("family lookup: %w", err)
	}
	if family == nil {
		return notFound("family")
	}
	if family.OwnerID != identity.AccountID {
		return notFound("family")
	}

	invitations, err := s.families.FindInvitationsByFamilyID(ctx, familyID)
	if err != nil {
		return fmt.Errorf("list invitations: %w", err)
	}
	for _, invitation := range invitations {
		if _, err := s.families.DeleteInvitationByID(ctx, invitation.ID); err != nil {
			return fmt.Errorf("withdraw invitation %s: %w", invitation.ID, err)
		}
	}

	if _, err := s.families.DeleteFamilyByID(ctx, familyID); err != nil {
		return fmt.Errorf("delete family: %w", err)
	}

	slog.Info("family disbanded", "family_id", familyID, "disbanded_by", identity.Email, "withdrawn_invitations", len(invitations))
	return nil
}
