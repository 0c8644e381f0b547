package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/homebudget/coordinator/internal/clients"
	"github.com/homebudget/coordinator/internal/models"
)

// In-memory stand-ins for the three remote services. They record writes so
// tests can assert on exactly what the workflows touched.

type assignment struct {
	accountID string
	familyID  string
}

type fakeDirectory struct {
	accounts    []*models.Account
	assignments []assignment
	assignErr   error
	nextID      int
	codes       map[string]string
	goodHash    string
}

var _ clients.AccountDirectory = (*fakeDirectory)(nil)

func (d *fakeDirectory) FindAccountByID(_ context.Context, id string) (*models.Account, error) {
	for _, a := range d.accounts {
		if a.ID == id {
			found := *a
			return &found, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	email = strings.ToLower(email)
	for _, a := range d.accounts {
		if a.Email == email {
			found := *a
			return &found, nil
		}
	}
	return nil, nil
}

func (d *fakeDirectory) CreateAccount(_ context.Context, account *models.Account) (*models.Account, error) {
	for _, a := range d.accounts {
		if a.Email == account.Email {
			return nil, clients.ErrConflict
		}
	}
	d.nextID++
	created := *account
	created.ID = fmt.Sprintf("acc-%d", d.nextID)
	d.accounts = append(d.accounts, &created)
	result := created
	return &result, nil
}

func (d *fakeDirectory) CreateActivationCode(_ context.Context, accountID string) (string, error) {
	if d.codes == nil {
		d.codes = make(map[string]string)
	}
	code := "code-" + accountID
	d.codes[accountID] = code
	return code, nil
}

func (d *fakeDirectory) CheckCredentials(_ context.Context, accountID, hashedPassword string) (bool, error) {
	return hashedPassword == d.goodHash, nil
}

func (d *fakeDirectory) AssignFamily(_ context.Context, accountID, familyID string) (bool, error) {
	if d.assignErr != nil {
		return false, d.assignErr
	}
	d.assignments = append(d.assignments, assignment{accountID: accountID, familyID: familyID})
	return true, nil
}

type fakeRegistry struct {
	families    map[string]*models.Family
	invitations map[string]*models.Invitation
	deleted     []string
	nextID      int
	saveErr     error
}

var _ clients.FamilyRegistry = (*fakeRegistry)(nil)

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		families:    make(map[string]*models.Family),
		invitations: make(map[string]*models.Invitation),
	}
}

func (r *fakeRegistry) FindFamilyByID(_ context.Context, id string) (*models.Family, error) {
	family, ok := r.families[id]
	if !ok {
		return nil, nil
	}
	found := *family
	return &found, nil
}

func (r *fakeRegistry) SaveFamily(_ context.Context, family *models.Family) (*models.Family, error) {
	r.nextID++
	created := *family
	created.ID = fmt.Sprintf("fam-%d", r.nextID)
	r.families[created.ID] = &created
	result := created
	return &result, nil
}

func (r *fakeRegistry) UpdateFamily(_ context.Context, family *models.Family) (*models.Family, error) {
	if _, ok := r.families[family.ID]; !ok {
		return nil, fmt.Errorf("family %s missing", family.ID)
	}
	updated := *family
	r.families[family.ID] = &updated
	result := updated
	return &result, nil
}

func (r *fakeRegistry) DeleteFamilyByID(_ context.Context, id string) (bool, error) {
	if _, ok := r.families[id]; !ok {
		return false, nil
	}
	delete(r.families, id)
	return true, nil
}

func (r *fakeRegistry) FindInvitationByID(_ context.Context, id string) (*models.Invitation, error) {
	invitation, ok := r.invitations[id]
	if !ok {
		return nil, nil
	}
	found := *invitation
	return &found, nil
}

func (r *fakeRegistry) FindInvitationByEmailAndFamilyID(_ context.Context, email, familyID string) (*models.Invitation, error) {
	for _, invitation := range r.invitations {
		if invitation.Email == email && invitation.FamilyID == familyID {
			found := *invitation
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeRegistry) FindInvitationsByEmail(_ context.Context, email string) ([]models.Invitation, error) {
	var result []models.Invitation
	for _, invitation := range r.invitations {
		if invitation.Email == email {
			result = append(result, *invitation)
		}
	}
	return result, nil
}

func (r *fakeRegistry) FindInvitationsByFamilyID(_ context.Context, familyID string) ([]models.Invitation, error) {
	var result []models.Invitation
	for _, invitation := range r.invitations {
		if invitation.FamilyID == familyID {
			result = append(result, *invitation)
		}
	}
	return result, nil
}

func (r *fakeRegistry) SaveInvitation(_ context.Context, invitation *models.Invitation) (*models.Invitation, error) {
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	r.nextID++
	created := *invitation
	created.ID = fmt.Sprintf("inv-%d", r.nextID)
	r.invitations[created.ID] = &created
	result := created
	return &result, nil
}

func (r *fakeRegistry) DeleteInvitationByID(_ context.Context, id string) (bool, error) {
	if _, ok := r.invitations[id]; !ok {
		return false, nil
	}
	delete(r.invitations, id)
	r.deleted = append(r.deleted, id)
	return true, nil
}

// addInvitation seeds an invitation with a fixed id.
func (r *fakeRegistry) addInvitation(invitation models.Invitation) {
	r.invitations[invitation.ID] = &invitation
}

type fakeNotifier struct {
	existingInvites []models.ExistingUserInvite
	newUserInvites  []models.NewUserInvite
	confirmations   []string
	sendErr         error
}

var _ clients.Notifier = (*fakeNotifier)(nil)

func (n *fakeNotifier) SendExistingUserInvite(_ context.Context, invite models.ExistingUserInvite) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.existingInvites = append(n.existingInvites, invite)
	return nil
}

func (n *fakeNotifier) SendNewUserInvite(_ context.Context, invite models.NewUserInvite) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.newUserInvites = append(n.newUserInvites, invite)
	return nil
}

func (n *fakeNotifier) SendSignUpConfirmation(_ context.Context, account models.Account, activationCode string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.confirmations = append(n.confirmations, account.Email+":"+activationCode)
	return nil
}
