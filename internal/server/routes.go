// Copyright 2025 TaxiUNN
// Licensed under the EUPL-1.2

package server

import (
	"github.com/labstack/echo/v4"

	"github.com/taxiunn/interactions/internal/handlers"
	"github.com/taxiunn/interactions/internal/middleware"
	"github.com/taxiunn/interactions/internal/repository"
	"github.com/taxiunn/interactions/internal/services/auth"
	"github.com/taxiunn/interactions/internal/token"
)

func setupRoutes(e *echo.Echo, repo *repository.Repository, authSvc *auth.Service, tokens *token.Manager) {
	h := handlers.New(repo)
	ah := handlers.NewAuth(authSvc)
	ph := handlers.NewProfile(repo)
	pj := handlers.NewProjects(repo)

	e.GET("/health", h.Health)

	staff := e.Group("/staff")
	staff.POST("/register", ah.Register)
	staff.POST("/activate", ah.Activate)
	staff.POST("/login", ah.Login)
	staff.POST("/refresh", ah.Refresh)
	staff.POST("/password-recovery", ah.PasswordRecovery)
	staff.POST("/password-recovery/verify", ah.PasswordRecoveryVerify)
	staff.POST("/password-recovery/change", ah.PasswordRecoveryChange)

	authRequired := middleware.RequireAuth(tokens, repo)

	manager := e.Group("/manager", authRequired)
	manager.GET("/profile", ph.Profile)
	manager.PUT("/profile/edit", ph.ProfileEdit)
	manager.PATCH("/profile/edit", ph.ProfileEdit)
	manager.POST("/projects/create", pj.Create)
	manager.GET("/projects/list", pj.List)
	manager.GET("/projects/:id", pj.Get)
	manager.PATCH("/projects/:id", pj.Update)
	manager.DELETE("/projects/:id", pj.Delete)

	worker := e.Group("/worker", authRequired)
	worker.GET("/profile", ph.Profile)
	worker.PUT("/profile/edit", ph.ProfileEdit)
	worker.PATCH("/profile/edit", ph.ProfileEdit)
}
