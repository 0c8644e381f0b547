package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/homebudget/coordinator/internal/middleware"
	"github.com/homebudget/coordinator/internal/models"
	"github.com/homebudget/coordinator/internal/service"
)

// InvitationHandler exposes the invitation workflows.
type InvitationHandler struct {
	invitations *service.InvitationService
}

// NewInvitationHandler creates the handler over the invitation service.
func NewInvitationHandler(invitations *service.InvitationService) *InvitationHandler {
	return &InvitationHandler{invitations: invitations}
}

// RegisterRoutes mounts the invitation routes. The router passed in is
// expected to require authentication; the coded acceptance link is mounted
// separately via RegisterPublicRoutes since invitees follow it pre-login.
func (h *InvitationHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/budget/family/invitations/invite-to-family", h.InviteToFamily).Methods(http.MethodPost)
	router.HandleFunc("/budget/family/invitations/invite-to-family/resend-invitation", h.ResendInvitation).Methods(http.MethodPost)
	router.HandleFunc("/budget/family/invitations/accept-invitation-in-family-creation-form", h.AcceptInCreationForm).Methods(http.MethodPost)
	router.HandleFunc("/budget/family/invitations/remove", h.RemoveInvitation).Methods(http.MethodPost)
}

// RegisterPublicRoutes mounts the routes reachable without a session.
func (h *InvitationHandler) RegisterPublicRoutes(router *mux.Router) {
	router.HandleFunc("/budget/family/invitations/{familyId}/addMember/{id}/{invitationCode}", h.AddAccountToFamily).Methods(http.MethodGet)
}

// InviteToFamily handles the invite form posted from the family page. The
// form carries the family the inviter is acting for.
func (h *InvitationHandler) InviteToFamily(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	newMemberEmail := r.FormValue("newMemberEmail")
	family := models.Family{
		ID:       r.FormValue("familyId"),
		OwnerID:  r.FormValue("ownerId"),
		BudgetID: r.FormValue("budgetId"),
		Title:    r.FormValue("title"),
	}
	if newMemberEmail == "" || family.ID == "" {
		writeErrorPage(w, service.ErrorProcessing, http.StatusBadRequest)
		return
	}

	outcome, err := h.invitations.InviteToFamily(r.Context(), identity, family, newMemberEmail)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// ResendInvitation re-sends the mail for a pending invitation.
func (h *InvitationHandler) ResendInvitation(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	outcome, err := h.invitations.ResendInvitation(r.Context(), identity, r.FormValue("invitationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// AddAccountToFamily handles the coded acceptance link from the invite
// mail.
func (h *InvitationHandler) AddAccountToFamily(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	outcome, err := h.invitations.AddAccountToFamily(r.Context(), vars["familyId"], vars["id"], vars["invitationCode"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// AcceptInCreationForm joins the current principal to the inviting owner's
// family, from the family creation form.
func (h *InvitationHandler) AcceptInCreationForm(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	outcome, err := h.invitations.AcceptInCreationForm(r.Context(), identity, r.FormValue("familyOwnerId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOutcome(w, r, outcome)
}

// RemoveInvitation withdraws a pending invitation.
func (h *InvitationHandler) RemoveInvitation(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.GetIdentity(r.Context())
	if !ok {
		writeErrorPage(w, service.ErrorProcessing, http.StatusUnauthorized)
		return
	}

	outcome, err := h.invitations.RemoveInvitation(r.Context(), identity, r.FormValue("invitationId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeOutcome(w, r, outcome)
}
