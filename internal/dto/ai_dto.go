package dto

import "github.com/google/uuid"

type SearchRequest struct {
	Query string `json:"query"`
}

type ChatRequest struct {
	SessionId *uuid.UUID `json:"sessionId,omitempty"`
	Message   string     `json:"message" validate:"required"`
}

type ChatResponse struct {
	SessionId uuid.UUID `json:"sessionId"`
	Assistant string    `json:"assistant"`
}
