package clients

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/homebudget/coordinator/internal/models"
)

func newRegistry(t *testing.T, handler http.HandlerFunc) *HTTPFamilyRegistry {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	registry, err := NewFamilyRegistry(server.URL, server.Client(), "svc", "pw")
	if err != nil {
		t.Fatalf("NewFamilyRegistry failed: %v", err)
	}
	return registry
}

func TestFindFamilyByID(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/family-mgt/v1/families/F1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(models.Family{ID: "F1", OwnerID: "A1", Title: "Home"})
	})

	family, err := registry.FindFamilyByID(context.Background(), "F1")
	if err != nil {
		t.Fatalf("FindFamilyByID failed: %v", err)
	}
	if family == nil || family.Title != "Home" {
		t.Errorf("expected family Home, got %+v", family)
	}
}

func TestFindFamilyByID_Absent(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	family, err := registry.FindFamilyByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected nil error for 404, got %v", err)
	}
	if family != nil {
		t.Errorf("expected nil family for 404, got %+v", family)
	}
}

func TestFindInvitationByEmailAndFamilyID(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/family-mgt/v1/invitations" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		query := r.URL.Query()
		if got := query.Get("email"); got != "e@x.com" {
			t.Errorf("email query: expected lower-cased e@x.com, got %s", got)
		}
		if got := query.Get("familyId"); got != "F1" {
			t.Errorf("familyId query: expected F1, got %s", got)
		}
		json.NewEncoder(w).Encode(invitationPage{Items: []models.Invitation{
			{ID: "inv-1", FamilyID: "F1", Email: "e@x.com", InvitationCode: "code"},
		}})
	})

	invitation, err := registry.FindInvitationByEmailAndFamilyID(context.Background(), "E@X.com", "F1")
	if err != nil {
		t.Fatalf("FindInvitationByEmailAndFamilyID failed: %v", err)
	}
	if invitation == nil || invitation.ID != "inv-1" {
		t.Errorf("expected invitation inv-1, got %+v", invitation)
	}
}

func TestFindInvitationByEmailAndFamilyID_EmptyPage(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(invitationPage{})
	})

	invitation, err := registry.FindInvitationByEmailAndFamilyID(context.Background(), "e@x.com", "F1")
	if err != nil {
		t.Fatalf("FindInvitationByEmailAndFamilyID failed: %v", err)
	}
	if invitation != nil {
		t.Errorf("expected nil for an empty page, got %+v", invitation)
	}
}

func TestFindInvitationsByFamilyID(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("familyId"); got != "F1" {
			t.Errorf("familyId query: expected F1, got %s", got)
		}
		if r.URL.Query().Has("email") {
			t.Error("expected no email filter")
		}
		json.NewEncoder(w).Encode(invitationPage{Items: []models.Invitation{
			{ID: "inv-1", FamilyID: "F1"},
			{ID: "inv-2", FamilyID: "F1"},
		}})
	})

	invitations, err := registry.FindInvitationsByFamilyID(context.Background(), "F1")
	if err != nil {
		t.Fatalf("FindInvitationsByFamilyID failed: %v", err)
	}
	if len(invitations) != 2 {
		t.Errorf("expected 2 invitations, got %d", len(invitations))
	}
}

func TestSaveInvitation(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/family-mgt/v1/invitations" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var in models.Invitation
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Errorf("decode request failed: %v", err)
		}
		if in.Email != "e@x.com" || in.InvitationCode != "code" {
			t.Errorf("unexpected invitation body %+v", in)
		}
		in.ID = "inv-1"
		json.NewEncoder(w).Encode(in)
	})

	created, err := registry.SaveInvitation(context.Background(), models.NewInvitation("e@x.com", "F1", "code", false))
	if err != nil {
		t.Fatalf("SaveInvitation failed: %v", err)
	}
	if created.ID != "inv-1" {
		t.Errorf("expected the assigned id inv-1, got %s", created.ID)
	}
}

func TestDeleteInvitationByID(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/family-mgt/v1/invitations/inv-1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	ok, err := registry.DeleteInvitationByID(context.Background(), "inv-1")
	if err != nil {
		t.Fatalf("DeleteInvitationByID failed: %v", err)
	}
	if !ok {
		t.Error("expected delete to succeed")
	}
}

func TestDeleteInvitationByID_Absent(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ok, err := registry.DeleteInvitationByID(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected nil error for 404, got %v", err)
	}
	if ok {
		t.Error("expected delete to report absence")
	}
}

func TestQueryInvitations_ServerError(t *testing.T) {
	registry := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	if _, err := registry.FindInvitationsByEmail(context.Background(), "e@x.com"); err == nil {
		t.Fatal("expected an error for a 500 response")
	}
}
