package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/homebudget/coordinator/internal/models"
)

const familyBasePath = "/api/family-mgt/v1"

// Ensure HTTPFamilyRegistry implements FamilyRegistry.
var _ FamilyRegistry = (*HTTPFamilyRegistry)(nil)

// HTTPFamilyRegistry talks to the remote family management service, which
// owns families and invitations.
type HTTPFamilyRegistry struct {
	rest *restClient
}

// NewFamilyRegistry creates a registry client for the given base URL.
func NewFamilyRegistry(baseURL string, httpClient *http.Client, username, password string) (*HTTPFamilyRegistry, error) {
	rest, err := newRESTClient(baseURL, httpClient, username, password)
	if err != nil {
		return nil, err
	}
	return &HTTPFamilyRegistry{rest: rest}, nil
}

// invitationPage is the registry's paged response for invitation queries.
type invitationPage struct {
	Items []models.Invitation `json:"items"`
}

// FindFamilyByID retrieves a family by ID, nil when absent.
func (r *HTTPFamilyRegistry) FindFamilyByID(ctx context.Context, id string) (*models.Family, error) {
	var family models.Family
	path := fmt.Sprintf("%s/families/%s", familyBasePath, url.PathEscape(id))
	if err := r.rest.do(ctx, http.MethodGet, path, nil, nil, &family); err != nil {
		if errors.Is(err, errNotFound) {
			slog.Debug("family not found", "family_id", id)
			return nil, nil
		}
		return nil, fmt.Errorf("find family by id: %w", err)
	}
	return &family, nil
}

// SaveFamily creates a family. ErrConflict when it already exists.
func (r *HTTPFamilyRegistry) SaveFamily(ctx context.Context, family *models.Family) (*models.Family, error) {
	var created models.Family
	if err := r.rest.do(ctx, http.MethodPost, familyBasePath+"/families", nil, family, &created); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create family: %w", err)
	}
	return &created, nil
}

// UpdateFamily replaces an existing family record.
func (r *HTTPFamilyRegistry) UpdateFamily(ctx context.Context, family *models.Family) (*models.Family, error) {
	var updated models.Family
	path := fmt.Sprintf("%s/families/%s", familyBasePath, url.PathEscape(family.ID))
	if err := r.rest.do(ctx, http.MethodPut, path, nil, family, &updated); err != nil {
		return nil, fmt.Errorf("update family %s: %w", family.ID, err)
	}
	return &updated, nil
}

// DeleteFamilyByID removes a family. False when absent.
func (r *HTTPFamilyRegistry) DeleteFamilyByID(ctx context.Context, id string) (bool, error) {
	path := fmt.Sprintf("%s/families/%s", familyBasePath, url.PathEscape(id))
	if err := r.rest.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete family: %w", err)
	}
	return true, nil
}

// FindInvitationByID retrieves an invitation by ID, nil when absent.
func (r *HTTPFamilyRegistry) FindInvitationByID(ctx context.Context, id string) (*models.Invitation, error) {
	var invitation models.Invitation
	path := fmt.Sprintf("%s/invitations/%s", familyBasePath, url.PathEscape(id))
	if err := r.rest.do(ctx, http.MethodGet, path, nil, nil, &invitation); err != nil {
		if errors.Is(err, errNotFound) {
			slog.Debug("invitation not found", "invitation_id", id)
			return nil, nil
		}
		return nil, fmt.Errorf("find invitation by id: %w", err)
	}
	return &invitation, nil
}

// FindInvitationByEmailAndFamilyID retrieves the invitation for an
// (email, family) pair, nil when absent.
func (r *HTTPFamilyRegistry) FindInvitationByEmailAndFamilyID(ctx context.Context, email, familyID string) (*models.Invitation, error) {
	query := url.Values{}
	query.Set("email", strings.ToLower(email))
	query.Set("familyId", familyID)
	page, err := r.queryInvitations(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(page) == 0 {
		return nil, nil
	}
	return &page[0], nil
}

// FindInvitationsByEmail lists all invitations addressed to an email.
func (r *HTTPFamilyRegistry) FindInvitationsByEmail(ctx context.Context, email string) ([]models.Invitation, error) {
	query := url.Values{}
	query.Set("email", strings.ToLower(email))
	return r.queryInvitations(ctx, query)
}

// FindInvitationsByFamilyID lists all pending invitations to a family.
func (r *HTTPFamilyRegistry) FindInvitationsByFamilyID(ctx context.Context, familyID string) ([]models.Invitation, error) {
	query := url.Values{}
	query.Set("familyId", familyID)
	return r.queryInvitations(ctx, query)
}

func (r *HTTPFamilyRegistry) queryInvitations(ctx context.Context, query url.Values) ([]models.Invitation, error) {
	var page invitationPage
	path := familyBasePath + "/invitations?" + query.Encode()
	if err := r.rest.do(ctx, http.MethodGet, path, nil, nil, &page); err != nil {
		if errors.Is(err, errNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query invitations: %w", err)
	}
	return page.Items, nil
}

// SaveInvitation creates an invitation and returns the stored record.
func (r *HTTPFamilyRegistry) SaveInvitation(ctx context.Context, invitation *models.Invitation) (*models.Invitation, error) {
	var created models.Invitation
	if err := r.rest.do(ctx, http.MethodPost, familyBasePath+"/invitations", nil, invitation, &created); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return &created, nil
}

// DeleteInvitationByID removes an invitation. False when absent.
func (r *HTTPFamilyRegistry) DeleteInvitationByID(ctx context.Context, id string) (bool, error) {
	path := fmt.Sprintf("%s/invitations/%s", familyBasePath, url.PathEscape(id))
	if err := r.rest.do(ctx, http.MethodDelete, path, nil, nil, nil); err != nil {
		if errors.Is(err, errNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("delete invitation: %w", err)
	}
	return true, nil
}
