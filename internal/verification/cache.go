// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package verification implements the short-lived code cache that bridges the
// two-step email challenge flows (registration and password recovery).
package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/taxiunn/interactions/internal/models"
)

// TTLs of cache entries.
const (
	// CodeTTL is how long a verification code and its pending payload live.
	CodeTTL = time.Hour
	// ApprovalTTL is how long a verified recovery request may change the password.
	ApprovalTTL = 5 * time.Minute
)

// Cache key prefixes.
const (
	codePrefix     = "verification_code:"
	pendingPrefix  = "pending_registration:"
	recoveryPrefix = "password_recovery:"
)

// ErrCodeMismatch is returned when the submitted code does not match the
// stored one, or no code is stored for the email.
var ErrCodeMismatch = errors.New("verification code mismatch")

// PendingRegistration holds the registration fields cached between the
// register and activate steps. The password is kept in clear text so the
// activation step can run the same creation path as direct registration.
type PendingRegistration struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	FullName *string     `json:"full_name,omitempty"`
}

// Cache is the ephemeral store backing both verification flows. Entries are
// keyed per email; a second save for the same email overwrites the first.
type Cache interface {
	// SaveRegistration stores a code and the pending payload under CodeTTL.
	SaveRegistration(ctx context.Context, email, code string, pending *PendingRegistration) error
	// VerifyRegistration compares the submitted code with the stored one and
	// returns the pending payload on match. The entry is deleted on success,
	// so a code is single-use.
	VerifyRegistration(ctx context.Context, email, code string) (*PendingRegistration, error)
	// SaveRecovery stores a password-recovery code under CodeTTL.
	SaveRecovery(ctx context.Context, email, code string) error
	// VerifyRecovery compares the submitted code with the stored one. On
	// match it deletes the code and sets the approval flag under ApprovalTTL.
	VerifyRecovery(ctx context.Context, email, code string) error
	// CheckRecovery reports whether a password change is currently approved.
	CheckRecovery(ctx context.Context, email string) (bool, error)
	// ConsumeRecovery clears the approval flag after a password change.
	ConsumeRecovery(ctx context.Context, email string) error
}

// GenerateCode returns a uniform random five-digit decimal code in the range
// 10000-99999.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(90000))
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return fmt.Sprintf("%05d", n.Int64()+10000), nil
}
