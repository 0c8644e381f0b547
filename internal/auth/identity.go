package auth

// Identity is the authenticated principal of a request. Workflow operations
// take it as an explicit parameter instead of reading it from ambient state,
// so they stay independently testable.
type Identity struct {
	// AccountID is the principal's account ID in the account directory.
	AccountID string

	// Email is the principal's email address, lower-cased.
	Email string
}

// IdentityFromClaims builds an Identity from validated session claims.
func IdentityFromClaims(claims *Claims) Identity {
	return Identity{
		AccountID: claims.AccountID,
		Email:     claims.Email,
	}
}
