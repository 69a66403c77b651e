package service

import (
	"context"
	"strings"
	"time"

	"lumenra-be/internal/constant"
	"lumenra-be/internal/dto"
	"lumenra-be/internal/entity"
	"lumenra-be/internal/pkg/apperror"
	"lumenra-be/internal/pkg/logger"
	"lumenra-be/internal/repository/specification"
	"lumenra-be/internal/repository/unitofwork"
	"lumenra-be/pkg/llm"

	"github.com/google/uuid"
)

type IAiService interface {
	Search(ctx context.Context, query string) (string, error)
	Chat(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, message string) (*dto.ChatResponse, error)
}

type aiService struct {
	uowFactory  unitofwork.RepositoryFactory
	llmProvider llm.Provider
	log         logger.ILogger
}

func NewAiService(uowFactory unitofwork.RepositoryFactory, llmProvider llm.Provider, log logger.ILogger) IAiService {
	return &aiService{
		uowFactory:  uowFactory,
		llmProvider: llmProvider,
		log:         log,
	}
}

// Search is single-shot and stateless: one completion call, nothing
// persisted.
func (s *aiService) Search(ctx context.Context, query string) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", apperror.NewValidation("Query cannot be empty")
	}

	history := []llm.Message{
		{Role: "system", Content: constant.AiSearchSystemPrompt},
		{Role: "user", Content: query},
	}

	answer, err := s.llmProvider.Chat(ctx, history,
		llm.WithTemperature(constant.AiTemperature),
		llm.WithMaxTokens(constant.AiSearchMaxTokens),
	)
	if err != nil {
		return "", apperror.NewExternal(err.Error(), err)
	}

	return answer, nil
}

// Chat reconstructs the session transcript (creation order), appends the
// new user turn, completes, and persists the USER/ASSISTANT pair. An
// unresolved sessionId degrades to an empty transcript and a fresh session.
func (s *aiService) Chat(ctx context.Context, userId uuid.UUID, sessionId *uuid.UUID, message string) (*dto.ChatResponse, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperror.NewValidation("Message cannot be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	var session *entity.ChatSession
	transcript := []llm.Message{
		{Role: "system", Content: constant.AiChatSystemPrompt},
	}

	if sessionId != nil {
		found, err := uow.ChatSessionRepository().FindOne(ctx, specification.ByID{ID: *sessionId})
		if err != nil {
			return nil, err
		}
		if found != nil {
			session = found
			history, err := uow.ChatMessageRepository().FindAll(ctx,
				specification.ByChatSessionID{ChatSessionID: session.Id},
				specification.OrderBy{Field: "created_at"},
			)
			if err != nil {
				return nil, err
			}
			for _, m := range history {
				transcript = append(transcript, llm.Message{
					Role:    strings.ToLower(string(m.Role)),
					Content: m.Content,
				})
			}
		}
	}

	transcript = append(transcript, llm.Message{Role: "user", Content: message})

	reply, err := s.llmProvider.Chat(ctx, transcript,
		llm.WithTemperature(constant.AiTemperature),
		llm.WithMaxTokens(constant.AiChatMaxTokens),
	)
	if err != nil {
		return nil, apperror.NewExternal(err.Error(), err)
	}

	now := time.Now()

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	if session == nil {
		session = &entity.ChatSession{
			Id:        uuid.New(),
			UserId:    userId,
			CreatedAt: now,
		}
		if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
			return nil, err
		}
	}

	userMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleUser,
		Content:       message,
		CreatedAt:     now,
	}
	// Stamped after the user row so created_at ordering stays strict.
	assistantMessage := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          entity.ChatRoleAssistant,
		Content:       reply,
		CreatedAt:     now.Add(1 * time.Second),
	}

	if err := uow.ChatMessageRepository().Create(ctx, userMessage); err != nil {
		return nil, err
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	return &dto.ChatResponse{
		SessionId: session.Id,
		Assistant: reply,
	}, nil
}
