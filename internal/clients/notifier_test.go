package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homebudget/coordinator/internal/models"
)

func newNotifier(t *testing.T, handler http.HandlerFunc) *HTTPNotifier {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	notifier, err := NewNotifier(server.URL, server.Client(), "svc", "pw")
	if err != nil {
		t.Fatalf("NewNotifier failed: %v", err)
	}
	return notifier
}

func TestSendExistingUserInvite(t *testing.T) {
	var payload familyInvitationPayload
	notifier := newNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/mail/v1/family-invitations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	invite := models.ExistingUserInvite{
		Inviter:        models.Account{ID: "O1", Email: "owner@x.com"},
		Invitee:        models.Account{ID: "A1", Email: "e@x.com"},
		Family:         models.Family{ID: "F1", Title: "Home"},
		InvitationCode: "code-1",
	}
	if err := notifier.SendExistingUserInvite(context.Background(), invite); err != nil {
		t.Fatalf("SendExistingUserInvite failed: %v", err)
	}

	if payload.Guest {
		t.Error("guest: expected false for an existing user")
	}
	if payload.Invitee == nil || payload.Invitee.ID != "A1" {
		t.Errorf("invitee: expected A1, got %+v", payload.Invitee)
	}
	if payload.InvitationCode != "code-1" {
		t.Errorf("code: expected code-1, got %q", payload.InvitationCode)
	}
	if payload.Email != "e@x.com" {
		t.Errorf("email: expected e@x.com, got %s", payload.Email)
	}
}

func TestSendNewUserInvite(t *testing.T) {
	var payload familyInvitationPayload
	notifier := newNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/mail/v1/family-invitations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	invite := models.NewUserInvite{
		Inviter: models.Account{ID: "O1", Email: "owner@x.com"},
		Email:   "nobody@x.com",
		Family:  models.Family{ID: "F1", Title: "Home"},
	}
	if err := notifier.SendNewUserInvite(context.Background(), invite); err != nil {
		t.Fatalf("SendNewUserInvite failed: %v", err)
	}

	if !payload.Guest {
		t.Error("guest: expected true for an address without an account")
	}
	if payload.Invitee != nil {
		t.Errorf("invitee: expected none, got %+v", payload.Invitee)
	}
	if payload.InvitationCode != "" {
		t.Errorf("expected no invitation code in a guest mail, got %q", payload.InvitationCode)
	}
	if payload.Email != "nobody@x.com" {
		t.Errorf("email: expected nobody@x.com, got %s", payload.Email)
	}
}

func TestSendSignUpConfirmation(t *testing.T) {
	var payload signUpConfirmationPayload
	notifier := newNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/mail/v1/account-activations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload failed: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	account := models.Account{ID: "A1", Email: "a@x.com"}
	if err := notifier.SendSignUpConfirmation(context.Background(), account, "act-1"); err != nil {
		t.Fatalf("SendSignUpConfirmation failed: %v", err)
	}

	if payload.Account == nil || payload.Account.ID != "A1" {
		t.Errorf("account: expected A1, got %+v", payload.Account)
	}
	if payload.ActivationCode != "act-1" {
		t.Errorf("activation code: expected act-1, got %s", payload.ActivationCode)
	}
}

func TestSendMailFailure(t *testing.T) {
	notifier := newNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	invite := models.NewUserInvite{
		Inviter: models.Account{ID: "O1"},
		Email:   "nobody@x.com",
		Family:  models.Family{ID: "F1"},
	}
	if err := notifier.SendNewUserInvite(context.Background(), invite); err == nil {
		t.Fatal("expected an error for a failing mail service")
	}
}
