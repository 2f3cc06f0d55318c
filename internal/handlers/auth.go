// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/services/auth"
)

// AuthHandlers contains handlers for the staff endpoint family.
type AuthHandlers struct {
	auth     *auth.Service
	validate *validator.Validate
}

// NewAuth creates a new AuthHandlers instance.
func NewAuth(svc *auth.Service) *AuthHandlers {
	return &AuthHandlers{
		auth:     svc,
		validate: newValidator(),
	}
}

// RegisterRequest is the request body for starting registration.
type RegisterRequest struct {
	Email    string  `json:"email" validate:"required,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=128"`
	Role     string  `json:"role" validate:"required"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// Register validates the registration fields, caches them with a fresh
// verification code, and mails the code. The account is created only once
// the code is confirmed via Activate.
func (h *AuthHandlers) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	err := h.auth.StartRegistration(c.Request().Context(), auth.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(req.Role),
		FullName: req.FullName,
	})
	switch {
	case errors.Is(err, auth.ErrEmailExists):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email already exists!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrInvalidRole):
		fe := FieldErrors{}
		fe.Add("role", "Role must be either 'admin' or 'worker'!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrMailDelivery):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Email not found!"})
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "You've successfully registered!"})
}

// ActivateRequest is the request body for confirming registration.
type ActivateRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

// Activate confirms the emailed code and persists the cached registration.
func (h *AuthHandlers) Activate(c echo.Context) error {
	var req ActivateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	_, err := h.auth.CompleteRegistration(c.Request().Context(), req.Email, req.VerificationCode)
	switch {
	case errors.Is(err, auth.ErrCodeMismatch):
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Incorrect verification code!"})
	case errors.Is(err, auth.ErrEmailExists):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email already exists!")
		return c.JSON(http.StatusBadRequest, fe)
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "You've successfully registered!"})
}

// LoginRequest is the request body for authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates the credentials and returns a refresh/access pair.
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email does not exist!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusBadRequest, map[string]string{"password": "Incorrect password!"})
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// RefreshRequest is the request body for refreshing an access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh exchanges a valid refresh token for a new access token.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if req.RefreshToken == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"refresh": "refresh - this field is required!"})
	}

	access, err := h.auth.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"refresh": "refresh code is not active!"})
	}

	return c.JSON(http.StatusOK, map[string]string{"access": access})
}

// RecoveryRequest is the request body for starting password recovery.
type RecoveryRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// PasswordRecovery mails a recovery code to an existing account.
func (h *AuthHandlers) PasswordRecovery(c echo.Context) error {
	var req RecoveryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	err := h.auth.StartRecovery(c.Request().Context(), req.Email)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email does not exist!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrMailDelivery):
		fe := FieldErrors{}
		fe.Add("email", "The email not found.")
		return c.JSON(http.StatusBadRequest, fe)
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Check your email for the verification_code."})
}

// RecoveryVerifyRequest is the request body for verifying a recovery code.
type RecoveryVerifyRequest struct {
	Email            string `json:"email" validate:"required,email"`
	VerificationCode string `json:"verification_code" validate:"required"`
}

// PasswordRecoveryVerify checks the recovery code and approves a password
// change for a short window.
func (h *AuthHandlers) PasswordRecoveryVerify(c echo.Context) error {
	var req RecoveryVerifyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	err := h.auth.VerifyRecovery(c.Request().Context(), req.Email, req.VerificationCode)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email does not exist!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrCodeMismatch):
		fe := FieldErrors{}
		fe.Add("verification_code", "The verification code is not active.")
		return c.JSON(http.StatusBadRequest, fe)
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Verification was successful."})
}

// RecoveryChangeRequest is the request body for setting the new password.
type RecoveryChangeRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// PasswordRecoveryChange overwrites the password once recovery is approved.
func (h *AuthHandlers) PasswordRecoveryChange(c echo.Context) error {
	var req RecoveryChangeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	err := h.auth.ChangePassword(c.Request().Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, auth.ErrEmailNotFound):
		fe := FieldErrors{}
		fe.Add("email", "An account with this email does not exist!")
		return c.JSON(http.StatusBadRequest, fe)
	case errors.Is(err, auth.ErrNotApproved):
		fe := FieldErrors{}
		fe.Add("email", "Something went wrong.")
		return c.JSON(http.StatusBadRequest, fe)
	case err != nil:
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password successfully changed."})
}
