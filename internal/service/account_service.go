package service

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"

	"github.com/homebudget/coordinator/internal/clients"
	"github.com/homebudget/coordinator/internal/models"
)

// AccountService handles registration and credential checks. All account
// state lives in the remote directory; passwords are verified there, this
// side only forwards a digest of what the user typed.
type AccountService struct {
	accounts clients.AccountDirectory
	mailer   clients.Notifier
}

// NewAccountService creates the account service over the directory and the
// mail sender.
func NewAccountService(accounts clients.AccountDirectory, mailer clients.Notifier) *AccountService {
	return &AccountService{accounts: accounts, mailer: mailer}
}

// Register creates a directory account from the sign-up form and mails the
// activation code. The account starts disabled until activated.
func (s *AccountService) Register(ctx context.Context, form models.AccountForm) (*models.Account, error) {
	if form.Password != form.RepeatedPassword {
		return nil, ErrPasswordMismatch
	}

	account := models.NewAccount(form)
	created, err := s.accounts.CreateAccount(ctx, account)
	if err != nil {
		if errors.Is(err, clients.ErrConflict) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("register account: %w", err)
	}

	activationCode, err := s.accounts.CreateActivationCode(ctx, created.ID)
	if err != nil {
		return nil, fmt.Errorf("activation code: %w", err)
	}
	if err := s.mailer.SendSignUpConfirmation(ctx, *created, activationCode); err != nil {
		return nil, fmt.Errorf("confirmation mail: %w", err)
	}

	slog.Info("account registered", "account_id", created.ID, "email", created.Email)
	return created, nil
}

// Login verifies the email and password against the directory and returns
// the account when they match. Wrong email and wrong password are not
// distinguished.
func (s *AccountService) Login(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.accounts.FindAccountByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}

	ok, err := s.accounts.CheckCredentials(ctx, account.ID, hashPassword(password))
	if err != nil {
		return nil, fmt.Errorf("credential check: %w", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	slog.Info("login succeeded", "account_id", account.ID)
	return account, nil
}

// hashPassword digests the password before it leaves this process. The
// directory performs the actual verification against its stored credential.
func hashPassword(password string) string {
	sum := sha512.Sum512([]byte(password))
	return hex.EncodeToString(sum[:])
}
