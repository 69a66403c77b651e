package events

import (
	"time"

	"github.com/google/uuid"
)

// OtpRequested is published when a password-reset code has been stored for
// a user and needs to go out by email.
type OtpRequested struct {
	UserId      uuid.UUID `json:"user_id"`
	Email       string    `json:"email"`
	Otp         string    `json:"otp"`
	RequestedAt time.Time `json:"requested_at"`
}
