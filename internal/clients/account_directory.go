package clients

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/homebudget/coordinator/internal/models"
)

const accountBasePath = "/api/account-mgt/v1"

// Ensure HTTPAccountDirectory implements AccountDirectory.
var _ AccountDirectory = (*HTTPAccountDirectory)(nil)

// HTTPAccountDirectory talks to the remote account management service.
type HTTPAccountDirectory struct {
	rest *restClient
}

// NewAccountDirectory creates a directory client for the given base URL,
// authenticating every call with the service credentials.
func NewAccountDirectory(baseURL string, httpClient *http.Client, username, password string) (*HTTPAccountDirectory, error) {
	rest, err := newRESTClient(baseURL, httpClient, username, password)
	if err != nil {
		return nil, err
	}
	return &HTTPAccountDirectory{rest: rest}, nil
}

// FindAccountByID retrieves an account by ID, nil when absent.
func (d *HTTPAccountDirectory) FindAccountByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	path := fmt.Sprintf("%s/accounts/%s?findBy=id", accountBasePath, url.PathEscape(id))
	if err := d.rest.do(ctx, http.MethodGet, path, nil, nil, &account); err != nil {
		if errors.Is(err, errNotFound) {
			slog.Debug("account not found", "account_id", id)
			return nil, nil
		}
		return nil, fmt.Errorf("find account by id: %w", err)
	}
	return &account, nil
}

// FindAccountByEmail retrieves an account by email, nil when absent.
// The email is lower-cased before the lookup.
func (d *HTTPAccountDirectory) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	email = strings.ToLower(email)
	var account models.Account
	path := fmt.Sprintf("%s/accounts/%s?findBy=email", accountBasePath, url.PathEscape(email))
	if err := d.rest.do(ctx, http.MethodGet, path, nil, nil, &account); err != nil {
		if errors.Is(err, errNotFound) {
			slog.Debug("account not found", "email", email)
			return nil, nil
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &account, nil
}

// CreateAccount registers a new account. ErrConflict when the email is taken.
func (d *HTTPAccountDirectory) CreateAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	var created models.Account
	if err := d.rest.do(ctx, http.MethodPost, accountBasePath+"/accounts", nil, account, &created); err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	return &created, nil
}

// CreateActivationCode asks the directory for an activation code.
func (d *HTTPAccountDirectory) CreateActivationCode(ctx context.Context, accountID string) (string, error) {
	var resp struct {
		ActivationCode string `json:"activationCode"`
	}
	path := fmt.Sprintf("%s/accounts/%s/activation-codes", accountBasePath, url.PathEscape(accountID))
	if err := d.rest.do(ctx, http.MethodPost, path, nil, nil, &resp); err != nil {
		return "", fmt.Errorf("create activation code: %w", err)
	}
	return resp.ActivationCode, nil
}

// CheckCredentials verifies a hashed password. The hash travels in a header,
// mirroring the directory's contract; a 400 or 404 means "not matched".
func (d *HTTPAccountDirectory) CheckCredentials(ctx context.Context, accountID, hashedPassword string) (bool, error) {
	path := fmt.Sprintf("%s/accounts/%s/credentials", accountBasePath, url.PathEscape(accountID))
	headers := map[string]string{"password": hashedPassword}
	err := d.rest.do(ctx, http.MethodGet, path, headers, nil, nil)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errNotFound):
		slog.Debug("credential check against unknown account", "account_id", accountID)
		return false, nil
	default:
		slog.Warn("credential check rejected", "account_id", accountID, "error", err)
		return false, nil
	}
}

// AssignFamily sets the family on an account. False when either side is
// unknown to the directory.
func (d *HTTPAccountDirectory) AssignFamily(ctx context.Context, accountID, familyID string) (bool, error) {
	path := fmt.Sprintf("%s/accounts/%s/families/%s",
		accountBasePath, url.PathEscape(accountID), url.PathEscape(familyID))
	if err := d.rest.do(ctx, http.MethodPut, path, nil, nil, nil); err != nil {
		if errors.Is(err, errNotFound) {
			slog.Info("assign family target missing", "account_id", accountID, "family_id", familyID)
			return false, nil
		}
		return false, fmt.Errorf("assign family: %w", err)
	}
	return true, nil
}
