// Package handlers exposes the coordinator's workflows over browser-facing
// HTTP routes. Handlers stay thin: decode the request, hand off to a
// service, translate the outcome into a redirect or an error page.
package handlers

import (
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/homebudget/coordinator/internal/service"
)

// errorPage is the minimal error view. It renders only the error kind; no
// upstream detail, identifiers or stack traces reach the browser.
var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html>
<head><title>Something went wrong</title></head>
<body>
<main data-error="{{.Kind}}">
<h1>Something went wrong</h1>
<p>{{.Message}}</p>
</main>
</body>
</html>
`))

var errorMessages = map[service.ErrorKind]string{
	service.ErrorInvalidInvitationLink: "This invitation link is not valid.",
	service.ErrorAlreadyInFamily:       "This account already belongs to a family.",
	service.ErrorInvalidActivationLink: "This activation link is not valid.",
	service.ErrorProcessing:            "Your request could not be processed. Please try again later.",
}

// writeErrorPage renders the error view for the given kind.
func writeErrorPage(w http.ResponseWriter, kind service.ErrorKind, status int) {
	message, ok := errorMessages[kind]
	if !ok {
		message = errorMessages[service.ErrorProcessing]
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := errorPage.Execute(w, map[string]any{"Kind": kind, "Message": message}); err != nil {
		slog.Error("error page render failed", "error", err)
	}
}

// writeOutcome translates a workflow outcome: redirects become 303s, error
// pages render with a 200 as views of the flow, not transport failures.
func writeOutcome(w http.ResponseWriter, r *http.Request, outcome service.Outcome) {
	if outcome.Redirect != "" {
		http.Redirect(w, r, outcome.Redirect, http.StatusSeeOther)
		return
	}
	writeErrorPage(w, outcome.Error, http.StatusOK)
}

// writeServiceError maps workflow errors onto responses: missing mandatory
// entities are 404s, everything else is the generic 500 page.
func writeServiceError(w http.ResponseWriter, err error) {
	var nf *service.NotFoundError
	if errors.As(err, &nf) {
		slog.Warn("required entity missing", "entity", nf.Entity)
		writeErrorPage(w, service.ErrorProcessing, http.StatusNotFound)
		return
	}
	slog.Error("workflow failed", "error", err)
	writeErrorPage(w, service.ErrorProcessing, http.StatusInternalServerError)
}

// writeJSON encodes a JSON response body.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}
