package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	// Otp and OtpExpires are always set together (forgot-password)
	// and cleared together (successful reset).
	Otp        *string
	OtpExpires *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
