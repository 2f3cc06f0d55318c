// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

// Package middleware provides echo middleware for bearer authentication.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/models"
	"github.com/taxiunn/interactions/internal/token"
)

// employeeKey is the echo context key the authenticated employee is stored under.
const employeeKey = "employee"

// EmployeeLoader loads the full employee record for an authenticated request.
type EmployeeLoader interface {
	GetEmployeeByID(ctx context.Context, id int64) (*models.Employee, error)
}

// RequireAuth parses the bearer access token, loads the employee, and stores
// it in the request context. Missing or invalid credentials end the request
// with 401.
func RequireAuth(tokens *token.Manager, loader EmployeeLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "Authentication credentials were not provided.",
				})
			}

			id, err := tokens.ParseAccess(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "Invalid or expired token.",
				})
			}

			employee, err := loader.GetEmployeeByID(c.Request().Context(), id)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"message": "Invalid or expired token.",
				})
			}

			c.Set(employeeKey, employee)
			return next(c)
		}
	}
}

// CurrentEmployee returns the authenticated employee, or nil outside
// RequireAuth.
func CurrentEmployee(c echo.Context) *models.Employee {
	employee, _ := c.Get(employeeKey).(*models.Employee)
	return employee
}

// SetCurrentEmployee stores the employee on the context. Exposed for handler
// tests.
func SetCurrentEmployee(c echo.Context, e *models.Employee) {
	c.Set(employeeKey, e)
}
