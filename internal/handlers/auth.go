package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/accounts/internal/config"
	"github.com/example/accounts/internal/middleware"
	"github.com/example/accounts/internal/models"
	"github.com/example/accounts/internal/utils"
)

// Mailer is the outbound notification sink used by the auth endpoints.
type Mailer interface {
	SendWelcome(to string) error
	SendVerifyOtp(to, otp string) error
	SendResetOtp(to, otp string) error
}

// AuthHandler bundles dependencies for authentication endpoints.
type AuthHandler struct {
	db   *gorm.DB
	cfg  *config.Config
	mail Mailer
	now  func() time.Time
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(db *gorm.DB, cfg *config.Config, mail Mailer) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg, mail: mail, now: time.Now}
}

// sessionCookie builds the session cookie with the deployment-dependent
// attribute profile. Both the set and clear paths go through here so the
// attributes can never diverge between them.
func (h *AuthHandler) sessionCookie(value string, expires time.Time) *fiber.Cookie {
	sameSite := "Strict"
	if h.cfg.Production {
		sameSite = "None"
	}
	return &fiber.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Expires:  expires,
		HTTPOnly: true,
		Secure:   h.cfg.Production,
		SameSite: sameSite,
	}
}

func (h *AuthHandler) issueSession(c *fiber.Ctx, userID uuid.UUID) error {
	issuedAt := h.now()
	token, err := utils.GenerateToken(h.cfg.JWTSecret, userID, h.cfg.TokenExpires, issuedAt)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate token")
	}
	c.Cookie(h.sessionCookie(token, issuedAt.Add(h.cfg.TokenExpires)))
	return nil
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates a new user account, starts a session and sends the
// welcome mail. The user row is committed before the mail goes out, so a
// mail failure surfaces as a 500 while the account remains.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing Details")
	}

	var existing models.User
	if err := h.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return fiber.NewError(fiber.StatusConflict, "User already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
	}

	if err := h.db.Create(&user).Error; err != nil {
		return err
	}

	if err := h.issueSession(c, user.ID); err != nil {
		return err
	}

	if err := h.mail.SendWelcome(user.Email); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "User registered successfully",
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an existing user and starts a session.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Password == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid email")
		}
		return err
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid password")
	}

	if err := h.issueSession(c, user.ID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true})
}

// Logout clears the session cookie using the same attribute profile it was
// set with.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(h.sessionCookie("", h.now().Add(-time.Hour)))
	return c.JSON(fiber.Map{"success": true, "message": "Logged Out"})
}

// SendVerifyOtp issues an account-verification code to the authenticated
// user's email.
func (h *AuthHandler) SendVerifyOtp(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not Authorized. Login Again")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User Not Found")
		}
		return err
	}

	if user.IsAccountVerified {
		return fiber.NewError(fiber.StatusConflict, "Account Already verified")
	}

	otp, err := utils.GenerateOtp()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	user.IssueVerifyOtp(otp, h.now())
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if err := h.mail.SendVerifyOtp(user.Email, otp); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Verification OTP Sent on Email"})
}

type verifyEmailRequest struct {
	Otp string `json:"otp"`
}

// VerifyEmail consumes the pending verification code and marks the account
// verified. A wrong or expired code leaves the pending OTP retriable.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	userID, ok := middleware.GetCurrentUserID(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not Authorized. Login Again")
	}

	var req verifyEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Otp == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Missing Details")
	}

	var user models.User
	if err := h.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	if user.IsAccountVerified {
		return fiber.NewError(fiber.StatusConflict, "Account is already verified")
	}

	if err := user.ConsumeVerifyOtp(req.Otp, h.now()); err != nil {
		switch {
		case errors.Is(err, models.ErrExpiredOtp):
			return fiber.NewError(fiber.StatusBadRequest, "OTP Expired")
		case errors.Is(err, models.ErrInvalidOtp):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
		}
		return err
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Email verified successfully"})
}

// IsAuthenticated reports whether the session token is still valid. The
// auth middleware has already done the work by the time this runs.
func (h *AuthHandler) IsAuthenticated(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true})
}

type sendResetOtpRequest struct {
	Email string `json:"email"`
}

// SendResetOtp issues a password-reset code to the given email.
func (h *AuthHandler) SendResetOtp(c *fiber.Ctx) error {
	var req sendResetOtpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email is required")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	otp, err := utils.GenerateOtp()
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to generate OTP")
	}

	user.IssueResetOtp(otp, h.now())
	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	if err := h.mail.SendResetOtp(user.Email, otp); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "OTP sent to your email"})
}

type resetPasswordRequest struct {
	Email       string `json:"email"`
	Otp         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

// ResetPassword consumes the pending reset code and replaces the stored
// password hash.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req resetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if req.Email == "" || req.Otp == "" || req.NewPassword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Email, OTP and new password are required")
	}

	var user models.User
	if err := h.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}

	passwordHash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to hash password")
	}

	if err := user.ConsumeResetOtp(req.Otp, passwordHash, h.now()); err != nil {
		switch {
		case errors.Is(err, models.ErrExpiredOtp):
			return fiber.NewError(fiber.StatusBadRequest, "Reset OTP Expired")
		case errors.Is(err, models.ErrInvalidOtp):
			return fiber.NewError(fiber.StatusBadRequest, "Invalid OTP")
		}
		return err
	}

	if err := h.db.Save(&user).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "message": "Password has been reset successfully"})
}
