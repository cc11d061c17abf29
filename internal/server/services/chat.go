package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/mindcare/internal/common"
	"github.com/dmitrijs2005/mindcare/internal/server/chathistory"
)

// MaxChatMessageLength caps a single user message, in runes.
const MaxChatMessageLength = 4000

type ChatService struct {
	assistant Assistant
	history   chathistory.Store
	now       func() time.Time
}

func NewChatService(a Assistant, h chathistory.Store) *ChatService {
	return &ChatService{assistant: a, history: h, now: time.Now}
}

// Send forwards message to the assistant and records both sides of the
// exchange. The reply is returned even when recording fails.
func (s *ChatService) Send(ctx context.Context, userID int64, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("%w: message is required", common.ErrorValidation)
	}
	if len([]rune(message)) > MaxChatMessageLength {
		return "", fmt.Errorf("%w: message is longer than %d characters", common.ErrorValidation, MaxChatMessageLength)
	}

	asked := s.now().UTC()
	reply := s.assistant.Ask(ctx, message)

	err := s.history.Append(ctx, userID,
		chathistory.Message{Role: chathistory.RoleUser, Content: message, Timestamp: asked},
		chathistory.Message{Role: chathistory.RoleAssistant, Content: reply, Timestamp: s.now().UTC()},
	)
	if err != nil {
		return reply, fmt.Errorf("error recording chat history: %w", err)
	}
	return reply, nil
}

func (s *ChatService) History(ctx context.Context, userID int64) ([]chathistory.Message, error) {
	return s.history.List(ctx, userID)
}

func (s *ChatService) Clear(ctx context.Context, userID int64) error {
	return s.history.Clear(ctx, userID)
}
