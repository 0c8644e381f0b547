package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/homebudget/coordinator/internal/middleware"
	"github.com/homebudget/coordinator/internal/models"
	"github.com/homebudget/coordinator/internal/service"
)

// FamilyHandler exposes the family page and family lifecycle routes.
type FamilyHandler struct {
	families    *service.FamilyService
	invitations *service.InvitationService
	gatewayURL  string
}

// NewFamilyHandler creates the handler over the family and invitation
// services.
func NewFamilyHandler(families *service.FamilyService, invitations *service.InvitationService, gatewayURL string) *FamilyHandler {
	return &FamilyHandler{
		families:    families,
		invitations: invitations,
		gatewayURL:  strings.TrimRight(gatewayURL, "/"),
	}
}

// RegisterRoutes mounts the family routes on an authenticated router.
func (h *FamilyHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/budget/family", h.FamilyPage).Methods(http.MethodGet)
	router.HandleFunc("/budget/family/create", h.CreateFamily).Methods(http.MethodPost)
	router.HandleFunc("/budget/family/creation-form", h.CreationForm).Methods(http.MethodGet)
	router.HandleFunc("/budget/family/rename", h.RenameFamily).Methods(http.MethodPost)
	router.HandleFunc("/budget/family/delete", h.DisbandFamily).Methods(http.MethodPost)
}

// FamilyPage returns the principal's family and its pending invitations.
// A principal without a family is sent to the creation form.
func (h *FamilyHandler) FamilyPage(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	family, err := h.families.FamilyOf(r.Context(), identity)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if family == nil {
		http.Redirect(w, r, h.gatewayURL+"/budget/family/creation-form", http.StatusSeeOther)
		return
	}

	pending, err := h.invitations.PendingInvitations(r.Context(), family.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"family":      family,
		"invitations": pending,
	})
}

// CreationForm returns the data behind the family creation form: any
// invitations addressed to the principal, so a fresh registrant can accept
// one instead of creating a family.
func (h *FamilyHandler) CreationForm(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	invitations, err := h.invitations.InvitationsForEmail(r.Context(), identity.Email)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invitations": invitations,
	})
}

// CreateFamily creates a family owned by the principal.
func (h *FamilyHandler) CreateFamily(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	form := models.FamilyCreationForm{Title: r.FormValue("title")}
	_, err := h.families.CreateFamily(r.Context(), identity, form)
	if errors.Is(err, service.ErrAlreadyInFamily) {
		writeErrorPage(w, service.ErrorAlreadyInFamily, http.StatusOK)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	http.Redirect(w, r, h.gatewayURL+"/budget/family", http.StatusSeeOther)
}

// RenameFamily changes the family title.
func (h *FamilyHandler) RenameFamily(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	_, err := h.families.RenameFamily(r.Context(), identity, r.FormValue("familyId"), r.FormValue("title"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	http.Redirect(w, r, h.gatewayURL+"/budget/family", http.StatusSeeOther)
}

// DisbandFamily deletes the family and withdraws its invitations.
func (h *FamilyHandler) DisbandFamily(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	if err := h.families.DisbandFamily(r.Context(), identity, r.FormValue("familyId")); err != nil {
		writeServiceError(w, err)
		return
	}
	http.Redirect(w, r, h.gatewayURL+"/budget/family/creation-form", http.StatusSeeOther)
}
