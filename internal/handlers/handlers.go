// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package handlers contains the HTTP handlers for all endpoint families.
package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/repository"
)

// Handlers contains handlers with no endpoint family of their own.
type Handlers struct {
	repo *repository.Repository
}

// New creates a new Handlers instance.
func New(repo *repository.Repository) *Handlers {
	return &Handlers{repo: repo}
}

// Health returns the health status.
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}
