package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatRole is a closed enumeration; messages only ever carry one of the
// two constants below.
type ChatRole string

const (
	ChatRoleUser      ChatRole = "USER"
	ChatRoleAssistant ChatRole = "ASSISTANT"
)

type ChatSession struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// ChatMessage is immutable once created; CreatedAt ascending defines the
// reconstructed conversation order.
type ChatMessage struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Role          ChatRole
	Content       string
	CreatedAt     time.Time
}
