package services

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/example/accounts/internal/config"
)

// MailService delivers transactional mail over SMTP.
type MailService struct {
	dialer *gomail.Dialer
	sender string
}

// NewMailService creates a MailService from SMTP configuration.
func NewMailService(cfg *config.Config) *MailService {
	return &MailService{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		sender: cfg.SenderEmail,
	}
}

func (s *MailService) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.sender)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

// SendWelcome greets a freshly registered account.
func (s *MailService) SendWelcome(to string) error {
	body := fmt.Sprintf("Welcome to website. Your account has been created with email id: %s", to)
	return s.send(to, "Welcome to our group!", body)
}

// SendVerifyOtp delivers an account-verification code.
func (s *MailService) SendVerifyOtp(to, otp string) error {
	body := fmt.Sprintf("Your OTP is %s. Verify your account using this OTP", otp)
	return s.send(to, "Account Verification OTP", body)
}

// SendResetOtp delivers a password-reset code.
func (s *MailService) SendResetOtp(to, otp string) error {
	body := fmt.Sprintf("Your OTP for resetting your password is %s. Use this OTP to proceed with resetting your password.", otp)
	return s.send(to, "Password Reset OTP", body)
}
