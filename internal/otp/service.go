// Package otp issues and verifies single-use numeric login codes.
package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/Skotchmaster/shop_cli/internal/logging"
	"github.com/Skotchmaster/shop_cli/internal/store"
)

const (
	codeMin = 100000
	codeMax = 999999
)

type Service struct {
	Store *store.Store[map[string]string]
}

func NewService(s *store.Store[map[string]string]) *Service {
	return &Service{Store: s}
}

// Init creates the codes document when it is missing.
func (s *Service) Init(ctx context.Context) error {
	return s.Store.EnsureExists(ctx, map[string]string{})
}

// Issue generates a fresh 6-digit code for username, overwriting any code
// issued earlier, and persists it. The caller is responsible for delivery.
func (s *Service) Issue(ctx context.Context, username string) (string, error) {
	l := logging.FromContext(ctx).With("svc", "otp.issue", "username", username)

	code, err := generateCode()
	if err != nil {
		l.Error("issue_code_error", "reason", "cannot generate code", "error", err)
		return "", err
	}

	err = s.Store.Update(ctx, func(codes map[string]string) (map[string]string, error) {
		if codes == nil {
			codes = make(map[string]string)
		}
		codes[username] = code
		return codes, nil
	})
	if err != nil {
		l.Error("issue_code_error", "reason", "cannot persist code", "error", err)
		return "", err
	}

	l.Info("issue_code_success")
	return code, nil
}

// Verify reports whether code matches the outstanding code for username and
// deletes it on success. A mismatch, or no outstanding code, leaves the
// stored state unchanged.
func (s *Service) Verify(ctx context.Context, username, code string) (bool, error) {
	l := logging.FromContext(ctx).With("svc", "otp.verify", "username", username)

	ok := false
	err := s.Store.Update(ctx, func(codes map[string]string) (map[string]string, error) {
		if stored, found := codes[username]; found && stored == code {
			ok = true
			delete(codes, username)
		}
		return codes, nil
	})
	if err != nil {
		l.Error("verify_code_error", "error", err)
		return false, err
	}

	l.Info("verify_code_done", "valid", ok)
	return ok, nil
}

// generateCode draws a uniformly random integer in [codeMin, codeMax].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+codeMin), nil
}
