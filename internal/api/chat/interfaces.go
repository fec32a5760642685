package chat

import (
	"context"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

// ChatUsecase answers questions and manages the conversation history.
type ChatUsecase interface {
	SendMessage(ctx context.Context, text string) (*entity.ChatMessage, error)
	SendMessageStream(ctx context.Context, text string) <-chan entity.StreamEvent
	GetHistory(ctx context.Context) []entity.ChatMessage
	ClearHistory(ctx context.Context)
}
