// Package auth manages one role collection of users (sellers or buyers):
// registration with a password strength policy, password checks and the
// two-phase login with a one-time code.
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/shop_cli/internal/logging"
	"github.com/Skotchmaster/shop_cli/internal/models"
	"github.com/Skotchmaster/shop_cli/internal/otp"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

var (
	ErrInvalidUsername    = errors.New("invalid username")
	ErrUserExists         = errors.New("user already exists")
	ErrWeakPassword       = errors.New("password is not strong enough")
	ErrNotFound           = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidCode        = errors.New("invalid code")
)

type Service struct {
	Role  string
	Store *store.Store[[]models.User]
	Codes *otp.Service
}

func NewService(role string, s *store.Store[[]models.User], codes *otp.Service) *Service {
	return &Service{Role: role, Store: s, Codes: codes}
}

// Find returns the first user with the given username, or ErrNotFound.
func (s *Service) Find(ctx context.Context, username string) (*models.User, error) {
	users, err := s.Store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if u := findUser(users, username); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("%s %q: %w", s.Role, username, ErrNotFound)
}

// Register appends a new user to the collection. The username must be
// non-empty and unused within this role, and the password must satisfy the
// strength policy.
func (s *Service) Register(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.register", "role", s.Role, "username", username)

	if username == "" {
		l.Warn("register_failed", "reason", "empty username")
		return ErrInvalidUsername
	}
	if !IsPasswordStrong(password) {
		l.Warn("register_failed", "reason", "weak password")
		return ErrWeakPassword
	}

	err := s.Store.Update(ctx, func(users []models.User) ([]models.User, error) {
		if findUser(users, username) != nil {
			return nil, fmt.Errorf("%s %q: %w", s.Role, username, ErrUserExists)
		}
		return append(users, models.User{Username: username, Password: password}), nil
	})
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			l.Warn("register_failed", "reason", "duplicate username")
		} else {
			l.Error("register_error", "error", err)
		}
		return err
	}

	l.Info("register_success")
	return nil
}

// Authenticate checks username/password against the persisted collection,
// reloading it on every call so out-of-band edits are honored. With an
// empty code only the password is checked; callers are expected to come
// back a second time with the code issued in between. A successful code
// check consumes the code and clears the user's pending entry.
func (s *Service) Authenticate(ctx context.Context, username, password, code string) error {
	l := logging.FromContext(ctx).With("svc", "auth.authenticate", "role", s.Role, "username", username)

	user, err := s.Find(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.Warn("authenticate_failed", "reason", "user not found")
			return fmt.Errorf("%s %q: %w", s.Role, username, ErrInvalidCredentials)
		}
		return err
	}
	if user.Password != password {
		l.Warn("authenticate_failed", "reason", "password mismatch")
		return fmt.Errorf("%s %q: %w", s.Role, username, ErrInvalidCredentials)
	}

	if code != "" {
		ok, err := s.Codes.Verify(ctx, username, code)
		if err != nil {
			return err
		}
		if !ok {
			l.Warn("authenticate_failed", "reason", "invalid code")
			return fmt.Errorf("%s %q: %w", s.Role, username, ErrInvalidCode)
		}
		if err := s.clearPendingCode(ctx, username); err != nil {
			return err
		}
	}

	l.Info("authenticate_success", "with_code", code != "")
	return nil
}

// IssueCode generates a one-time code for an existing user, records it as
// the user's pending code and returns it for out-of-band delivery.
func (s *Service) IssueCode(ctx context.Context, username string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.issue_code", "role", s.Role, "username", username)

	if _, err := s.Find(ctx, username); err != nil {
		l.Warn("issue_code_failed", "reason", "user not found")
		return "", err
	}

	code, err := s.Codes.Issue(ctx, username)
	if err != nil {
		return "", err
	}

	err = s.Store.Update(ctx, func(users []models.User) ([]models.User, error) {
		if u := findUser(users, username); u != nil {
			u.PendingCode = code
		}
		return users, nil
	})
	if err != nil {
		l.Error("issue_code_error", "error", err)
		return "", err
	}

	l.Info("issue_code_success")
	return code, nil
}

func (s *Service) clearPendingCode(ctx context.Context, username string) error {
	return s.Store.Update(ctx, func(users []models.User) ([]models.User, error) {
		if u := findUser(users, username); u != nil {
			u.PendingCode = ""
		}
		return users, nil
	})
}

// findUser returns a pointer into users, so callers may mutate the record
// in place before persisting the slice.
func findUser(users []models.User, username string) *models.User {
	for i := range users {
		if users[i].Username == username {
			return &users[i]
		}
	}
	return nil
}
