// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/middleware"
	"github.com/taxiunn/interactions/internal/repository"
)

// ProfileHandlers contains handlers for the caller's own record.
type ProfileHandlers struct {
	repo     *repository.Repository
	validate *validator.Validate
}

// NewProfile creates a new ProfileHandlers instance.
func NewProfile(repo *repository.Repository) *ProfileHandlers {
	return &ProfileHandlers{
		repo:     repo,
		validate: newValidator(),
	}
}

// ProfileResponse is the view of an employee's own record.
type ProfileResponse struct {
	ID       int64   `json:"id"`
	Email    string  `json:"email"`
	FullName *string `json:"full_name"`
	Role     string  `json:"role"`
}

// Profile returns the authenticated employee's record.
func (h *ProfileHandlers) Profile(c echo.Context) error {
	employee := middleware.CurrentEmployee(c)

	return c.JSON(http.StatusOK, ProfileResponse{
		ID:       employee.ID,
		Email:    employee.Email,
		FullName: employee.FullName,
		Role:     string(employee.Role),
	})
}

// ProfileEditRequest is the request body for updating the display name.
type ProfileEditRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

// ProfileEdit updates the authenticated employee's display name. Only the
// display name may be changed here.
func (h *ProfileHandlers) ProfileEdit(c echo.Context) error {
	employee := middleware.CurrentEmployee(c)

	var req ProfileEditRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "Invalid request body!"})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, fieldErrors(err))
	}

	if err := h.repo.UpdateEmployeeFullName(c.Request().Context(), employee.ID, req.FullName); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]*string{"full_name": req.FullName})
}
