package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/homebudget/coordinator/internal/auth"
	"github.com/homebudget/coordinator/internal/models"
	"github.com/homebudget/coordinator/internal/service"
)

// AccountHandler exposes registration and session routes.
type AccountHandler struct {
	accounts   *service.AccountService
	jwtManager *auth.JWTManager
	gatewayURL string
}

// NewAccountHandler creates the handler over the account service.
func NewAccountHandler(accounts *service.AccountService, jwtManager *auth.JWTManager, gatewayURL string) *AccountHandler {
	return &AccountHandler{
		accounts:   accounts,
		jwtManager: jwtManager,
		gatewayURL: strings.TrimRight(gatewayURL, "/"),
	}
}

// RegisterRoutes mounts the account routes. All of them are public.
func (h *AccountHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	router.HandleFunc("/logout", h.Logout).Methods(http.MethodPost)
}

// Register creates an account from the sign-up form and redirects to the
// login page; the activation mail goes out as a side effect.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	form := models.AccountForm{
		FirstName:        r.FormValue("firstName"),
		LastName:         r.FormValue("lastName"),
		Email:            r.FormValue("email"),
		Password:         r.FormValue("password"),
		RepeatedPassword: r.FormValue("repeatedPassword"),
	}
	if form.Email == "" || form.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "email and password are required"})
		return
	}

	_, err := h.accounts.Register(r.Context(), form)
	switch {
	case errors.Is(err, service.ErrEmailExists):
		writeJSON(w, http.StatusConflict, map[string]string{"error": "email already registered"})
		return
	case errors.Is(err, service.ErrPasswordMismatch):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "passwords do not match"})
		return
	case err != nil:
		writeServiceError(w, err)
		return
	}

	http.Redirect(w, r, h.gatewayURL+"/login?registered", http.StatusSeeOther)
}

// Login verifies credentials, sets the session cookie and redirects to the
// family page.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := r.FormValue("email")
	password := r.FormValue("password")

	account, err := h.accounts.Login(r.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		http.Redirect(w, r, h.gatewayURL+"/login?error", http.StatusSeeOther)
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.jwtManager.Generate(account)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.gatewayURL+"/budget/family", http.StatusSeeOther)
}

// Logout clears the session cookie.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.gatewayURL+"/login?logout", http.StatusSeeOther)
}
