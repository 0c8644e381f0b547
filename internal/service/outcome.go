package service

// ErrorKind keys the error page shown to the user. The values double as
// view identifiers, so keep them stable.
type ErrorKind string

const (
	// ErrorInvalidInvitationLink covers both a missing invitation and a
	// wrong invitation code. The two are deliberately indistinguishable to
	// the caller, so the page cannot be used as a code-guessing oracle.
	ErrorInvalidInvitationLink ErrorKind = "invalidInvitationLink"

	// ErrorAlreadyInFamily is shown when the account accepting an
	// invitation already belongs to a family.
	ErrorAlreadyInFamily ErrorKind = "alreadyInFamily"

	// ErrorInvalidActivationLink is shown for a bad account activation.
	ErrorInvalidActivationLink ErrorKind = "invalidActivationLink"

	// ErrorProcessing is the generic failure page. No upstream detail,
	// stack traces or identifiers leak through it.
	ErrorProcessing ErrorKind = "processingException"
)

// Outcome is the terminal result of a workflow operation: either a redirect
// target or an error page. Exactly one of the two fields is set.
type Outcome struct {
	// Redirect is the location the caller should be sent to.
	Redirect string

	// Error selects the error page to render.
	Error ErrorKind
}

// Redirect builds a redirect outcome.
func Redirect(target string) Outcome {
	return Outcome{Redirect: target}
}

// ErrorPage builds an error page outcome.
func ErrorPage(kind ErrorKind) Outcome {
	return Outcome{Error: kind}
}
