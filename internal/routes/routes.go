package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/handlers"
	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/services"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	mailService := services.NewMailService(cfg)

	authHandler := handlers.NewAuthHandler(db, cfg, mailService)
	userHandler := handlers.NewUserHandler(db)

	api := app.Group("/api")
	requireAuth := middleware.AuthMiddleware(cfg)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/send-verify-otp", requireAuth, authHandler.SendVerifyOtp)
	auth.Post("/verify-email", requireAuth, authHandler.VerifyEmail)
	auth.Get("/is-auth", requireAuth, authHandler.IsAuthenticated)
	auth.Post("/send-reset-otp", authHandler.SendResetOtp)
	auth.Post("/reset-password", authHandler.ResetPassword)

	user := api.Group("/user", requireAuth)
	user.Get("/data", userHandler.GetUserData)
}
