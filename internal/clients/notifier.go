package clients

import (
	"context"
	"fmt"
	"net/http"

	"github.com/homebudget/coordinator/internal/models"
)

const mailBasePath = "/api/mail/v1"

// Ensure HTTPNotifier implements Notifier.
var _ Notifier = (*HTTPNotifier)(nil)

// HTTPNotifier talks to the remote mail service.
type HTTPNotifier struct {
	rest *restClient
}

// NewNotifier creates a mail client for the given base URL.
func NewNotifier(baseURL string, httpClient *http.Client, username, password string) (*HTTPNotifier, error) {
	rest, err := newRESTClient(baseURL, httpClient, username, password)
	if err != nil {
		return nil, err
	}
	return &HTTPNotifier{rest: rest}, nil
}

// familyInvitationPayload is the mail service's wire shape for both invite
// mails. The guest flag selects the template on the mail side: true for
// invitees without an account, false for existing users.
type familyInvitationPayload struct {
	Guest          bool            `json:"guest"`
	Invitee        *models.Account `json:"invitee,omitempty"`
	Inviter        *models.Account `json:"inviter"`
	Family         *models.Family  `json:"family"`
	InvitationCode string          `json:"invitationCode,omitempty"`
	Email          string          `json:"email,omitempty"`
}

// signUpConfirmationPayload is the wire shape for the activation mail.
type signUpConfirmationPayload struct {
	Account        *models.Account `json:"account"`
	ActivationCode string          `json:"activationCode"`
}

// SendExistingUserInvite mails a coded acceptance link to an existing user.
func (n *HTTPNotifier) SendExistingUserInvite(ctx context.Context, invite models.ExistingUserInvite) error {
	payload := familyInvitationPayload{
		Guest:          false,
		Invitee:        &invite.Invitee,
		Inviter:        &invite.Inviter,
		Family:         &invite.Family,
		InvitationCode: invite.InvitationCode,
		Email:          invite.Invitee.Email,
	}
	if err := n.rest.do(ctx, http.MethodPost, mailBasePath+"/family-invitations", nil, payload, nil); err != nil {
		return fmt.Errorf("send existing user invite: %w", err)
	}
	return nil
}

// SendNewUserInvite mails a registration nudge to an address without an
// account. No invitation code travels with this mail.
func (n *HTTPNotifier) SendNewUserInvite(ctx context.Context, invite models.NewUserInvite) error {
	payload := familyInvitationPayload{
		Guest:   true,
		Inviter: &invite.Inviter,
		Family:  &invite.Family,
		Email:   invite.Email,
	}
	if err := n.rest.do(ctx, http.MethodPost, mailBasePath+"/family-invitations", nil, payload, nil); err != nil {
		return fmt.Errorf("send new user invite: %w", err)
	}
	return nil
}

// SendSignUpConfirmation mails the activation code for a new account.
func (n *HTTPNotifier) SendSignUpConfirmation(ctx context.Context, account models.Account, activationCode string) error {
	payload := signUpConfirmationPayload{
		Account:        &account,
		ActivationCode: activationCode,
	}
	if err := n.rest.do(ctx, http.MethodPost, mailBasePath+"/account-activations", nil, payload, nil); err != nil {
		return fmt.Errorf("send sign-up confirmation: %w", err)
	}
	return nil
}
