package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	// ErrInvalidOtp is returned when no OTP is pending or the code does not match.
	ErrInvalidOtp = errors.New("invalid otp")
	// ErrExpiredOtp is returned when the pending OTP expired before consumption.
	ErrExpiredOtp = errors.New("otp expired")
)

// BaseModel provides shared columns for all tables.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate ensures UUIDs are generated for new records.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// User represents an account holder.
type User struct {
	BaseModel
	Name              string    `json:"name"`
	Email             string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash      string    `json:"-"`
	IsAccountVerified bool      `json:"is_account_verified"`
	VerifyOtp         string    `json:"-"`
	VerifyOtpExpireAt time.Time `json:"-"`
	ResetOtp          string    `json:"-"`
	ResetOtpExpireAt  time.Time `json:"-"`
}

// IssueVerifyOtp stores a pending account-verification code. The expiry
// window is deliberately long: the user may open the mail much later.
func (u *User) IssueVerifyOtp(code string, now time.Time) {
	u.VerifyOtp = code
	u.VerifyOtpExpireAt = now.Add(24 * time.Hour)
}

// IssueResetOtp stores a pending password-reset code with a short expiry
// window, since a reset code authorizes a credential change.
func (u *User) IssueResetOtp(code string, now time.Time) {
	u.ResetOtp = code
	u.ResetOtpExpireAt = now.Add(15 * time.Minute)
}

// ConsumeVerifyOtp checks the submitted code against the pending
// verification OTP and, on success, marks the account verified and clears
// the pending state. A mismatch or expired code leaves the stored OTP
// untouched so the user can retry.
func (u *User) ConsumeVerifyOtp(code string, now time.Time) error {
	if err := matchOtp(u.VerifyOtp, u.VerifyOtpExpireAt, code, now); err != nil {
		return err
	}
	u.IsAccountVerified = true
	u.VerifyOtp = ""
	u.VerifyOtpExpireAt = time.Time{}
	return nil
}

// ConsumeResetOtp checks the submitted code against the pending reset OTP
// and, on success, replaces the stored password hash and clears the pending
// state. Failure leaves the stored OTP untouched.
func (u *User) ConsumeResetOtp(code, newPasswordHash string, now time.Time) error {
	if err := matchOtp(u.ResetOtp, u.ResetOtpExpireAt, code, now); err != nil {
		return err
	}
	u.PasswordHash = newPasswordHash
	u.ResetOtp = ""
	u.ResetOtpExpireAt = time.Time{}
	return nil
}

func matchOtp(stored string, expireAt time.Time, code string, now time.Time) error {
	if stored == "" || stored != code {
		return ErrInvalidOtp
	}
	if expireAt.Before(now) {
		return ErrExpiredOtp
	}
	return nil
}
