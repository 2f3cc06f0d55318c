// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package auth orchestrates registration, login, and password recovery.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/repository"
	"github.com/taxiunn/interactions/internal/services/email"
	"github.com/taxiunn/interactions/internal/token"
	"github.com/taxiunn/interactions/internal/verification"
)

var (
	ErrEmailExists        = errors.New("an account with this email already exists")
	ErrEmailNotFound      = errors.New("an account with this email does not exist")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMailDelivery       = errors.New("failed to deliver verification email")
	ErrNotApproved        = errors.New("password change is not approved")

	// ErrCodeMismatch re-exported for callers that only import this package.
	ErrCodeMismatch = verification.ErrCodeMismatch
)

// dummyHash is used for constant-time login to prevent timing attacks.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("dummy-password-for-timing"), bcrypt.DefaultCost)

// Service wires the credential store, the verification cache, the token
// manager, and the mailer into the account flows.
type Service struct {
	repo   *repository.Repository
	cache  verification.Cache
	tokens *token.Manager
	mailer email.Mailer
}

// NewService creates a new auth service.
func NewService(repo *repository.Repository, cache verification.Cache, tokens *token.Manager, mailer email.Mailer) *Service {
	return &Service{
		repo:   repo,
		cache:  cache,
		tokens: tokens,
		mailer: mailer,
	}
}

// RegisterParams holds the fields of a registration request.
type RegisterParams struct {
	Email    string
	Password string
	Role     models.Role
	FullName *string
}

// StartRegistration caches the registration payload together with a fresh
// verification code and mails the code. Nothing is persisted until the code
// is confirmed via CompleteRegistration. A mail delivery failure leaves the
// cached payload in place so the client may retry.
func (s *Service) StartRegistration(ctx context.Context, params RegisterParams) error {
	exists, err := s.repo.EmployeeEmailExists(ctx, params.Email)
	if err != nil {
		return fmt.Errorf("failed to check existing employee: %w", err)
	}
	if exists {
		return ErrEmailExists
	}
	if !params.Role.Valid() {
		return ErrInvalidRole
	}

	code, err := verification.GenerateCode()
	if err != nil {
		return err
	}

	pending := &verification.PendingRegistration{
		Email:    params.Email,
		Password: params.Password,
		Role:     params.Role,
		FullName: params.FullName,
	}
	if err := s.cache.SaveRegistration(ctx, params.Email, code, pending); err != nil {
		return fmt.Errorf("failed to cache registration: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, params.Email, code); err != nil {
		slog.Warn("registration_mail_failed", "email", params.Email, "error", err)
		return ErrMailDelivery
	}

	slog.Info("registration_code_sent", "email", params.Email)
	return nil
}

// CompleteRegistration validates the submitted code and, on match, replays
// the cached payload through the same creation path as direct creation.
func (s *Service) CompleteRegistration(ctx context.Context, emailAddr, code string) (*models.Employee, error) {
	pending, err := s.cache.VerifyRegistration(ctx, emailAddr, code)
	if err != nil {
		return nil, err
	}

	employee, err := s.CreateEmployee(ctx, RegisterParams{
		Email:    pending.Email,
		Password: pending.Password,
		Role:     pending.Role,
		FullName: pending.FullName,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("registration_verified", "employee_id", employee.ID, "email", emailAddr)
	return employee, nil
}

// CreateEmployee persists a new employee directly, hashing the password.
// Shared by CompleteRegistration and administrative bootstrap.
func (s *Service) CreateEmployee(ctx context.Context, params RegisterParams) (*models.Employee, error) {
	exists, err := s.repo.EmployeeEmailExists(ctx, params.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing employee: %w", err)
	}
	if exists {
		return nil, ErrEmailExists
	}
	if !params.Role.Valid() {
		return nil, ErrInvalidRole
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	employee := &models.Employee{
		Email:        params.Email,
		PasswordHash: string(passwordHash),
		Role:         params.Role,
		FullName:     params.FullName,
		IsActive:     true,
	}
	if err := s.repo.CreateEmployee(ctx, employee); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	return employee, nil
}

// EnsureAdmin creates an administrator account unless one already exists.
func (s *Service) EnsureAdmin(ctx context.Context, emailAddr, password string) error {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	_, err = s.CreateEmployee(ctx, RegisterParams{
		Email:    emailAddr,
		Password: password,
		Role:     models.RoleAdmin,
	})
	if err != nil && !errors.Is(err, ErrEmailExists) {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}

// Login authenticates the credentials and issues a token pair.
func (s *Service) Login(ctx context.Context, emailAddr, password string) (token.Pair, error) {
	employee, err := s.repo.GetEmployeeByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Constant-time: always perform bcrypt comparison to prevent timing attacks
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			slog.Warn("login_failed", "email", emailAddr, "reason", "employee_not_found")
			return token.Pair{}, ErrEmailNotFound
		}
		return token.Pair{}, fmt.Errorf("failed to get employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		slog.Warn("login_failed", "email", emailAddr, "reason", "invalid_password")
		return token.Pair{}, ErrInvalidCredentials
	}

	pair, err := s.tokens.IssuePair(employee)
	if err != nil {
		return token.Pair{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	slog.Info("login_success", "employee_id", employee.ID, "email", emailAddr)
	return pair, nil
}

// Refresh exchanges a valid refresh token for a new access token.
func (s *Service) Refresh(_ context.Context, refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}

// StartRecovery caches a recovery code for an existing account and mails it.
func (s *Service) StartRecovery(ctx context.Context, emailAddr string) error {
	exists, err := s.repo.EmployeeEmailExists(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to check existing employee: %w", err)
	}
	if !exists {
		return ErrEmailNotFound
	}

	code, err := verification.GenerateCode()
	if err != nil {
		return err
	}
	if err := s.cache.SaveRecovery(ctx, emailAddr, code); err != nil {
		return fmt.Errorf("failed to cache recovery code: %w", err)
	}

	if err := s.mailer.SendVerificationCode(ctx, emailAddr, code); err != nil {
		slog.Warn("recovery_mail_failed", "email", emailAddr, "error", err)
		return ErrMailDelivery
	}

	slog.Info("recovery_code_sent", "email", emailAddr)
	return nil
}

// VerifyRecovery checks the submitted recovery code. On match the cache
// approves a password change for a short window.
func (s *Service) VerifyRecovery(ctx context.Context, emailAddr, code string) error {
	exists, err := s.repo.EmployeeEmailExists(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to check existing employee: %w", err)
	}
	if !exists {
		return ErrEmailNotFound
	}

	return s.cache.VerifyRecovery(ctx, emailAddr, code)
}

// ChangePassword overwrites the password hash, provided a recovery approval
// is currently in effect for the email.
func (s *Service) ChangePassword(ctx context.Context, emailAddr, password string) error {
	employee, err := s.repo.GetEmployeeByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEmailNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	approved, err := s.cache.CheckRecovery(ctx, emailAddr)
	if err != nil {
		return fmt.Errorf("failed to check recovery approval: %w", err)
	}
	if !approved {
		return ErrNotApproved
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.repo.UpdateEmployeePassword(ctx, employee.ID, string(passwordHash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.cache.ConsumeRecovery(ctx, emailAddr); err != nil {
		slog.Warn("recovery_consume_failed", "email", emailAddr, "error", err)
	}

	slog.Info("password_changed", "employee_id", employee.ID, "email", emailAddr)
	return nil
}
