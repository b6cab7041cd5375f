package handler

import (
	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(app *fiber.App, h *AuthHandler) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
	auth.Post("/logout", h.RequireAuth, h.Logout)
	auth.Post("/token/refresh", h.Refresh)
	auth.Post("/password/reset", h.PasswordResetRequest)
	auth.Post("/password/reset/confirm", h.PasswordResetConfirm)
	auth.Post("/password/change", h.RequireAuth, h.ChangePassword)
	auth.Get("/security", h.RequireAuth, h.Security)
	auth.Post("/security", h.RequireAuth, h.SecurityAction)
	auth.Get("/health", h.Health)

	users := api.Group("/users", h.RequireAuth)
	users.Get("/me", h.Me)
	users.Put("/me", h.UpdateMe)
	users.Patch("/me", h.UpdateMe)
	users.Get("/dashboard", h.Dashboard)
}
