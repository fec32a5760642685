package chat

import (
	"context"
	"time"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Usecase answers questions from the ingested documents and maintains the
// conversation history.
type Usecase struct {
	embedder     EmbeddingConnector
	store        VectorStoreConnector
	history      History
	settings     Settings
	tokenDelay   time.Duration
	streamBuffer int
	logger       *zap.Logger
}

func NewUsecase(
	embedder EmbeddingConnector,
	store VectorStoreConnector,
	history History,
	settings Settings,
	tokenDelay time.Duration,
	streamBuffer int,
	logger *zap.Logger,
) *Usecase {
	return &Usecase{
		embedder:     embedder,
		store:        store,
		history:      history,
		settings:     settings,
		tokenDelay:   tokenDelay,
		streamBuffer: streamBuffer,
		logger:       logger,
	}
}

// SendMessage answers a query in one shot. The user turn is appended first;
// an upstream failure is absorbed into the conversation as a fixed apologetic
// assistant message rather than propagated as a protocol error.
func (uc *Usecase) SendMessage(ctx context.Context, text string) (*entity.ChatMessage, error) {
	user := newMessage(entity.RoleUser, text, nil)
	uc.history.Append(user)

	answer, sources, err := uc.answer(ctx, text)
	if err != nil {
		ctxzap.Error(ctx, "query failed, absorbing into conversation", zap.Error(err))
		assistant := newMessage(entity.RoleAssistant, upstreamFailureMessage, nil)
		uc.history.Append(assistant)
		return &assistant, nil
	}

	assistant := newMessage(entity.RoleAssistant, answer, sources)
	uc.history.Append(assistant)

	ctxzap.Info(ctx, "query answered",
		zap.Int("response_length", len(answer)),
		zap.Strings("sources", sources),
	)

	return &assistant, nil
}

// answer runs the retrieval pipeline and assembles the response text.
func (uc *Usecase) answer(ctx context.Context, text string) (string, []string, error) {
	count, err := uc.store.CountPoints(ctx)
	if err != nil {
		return "", nil, err
	}

	if count == 0 {
		resp := Assemble(text, nil, true)
		return resp.Text, resp.Sources, nil
	}

	passages, err := uc.retrieve(ctx, text)
	if err != nil {
		return "", nil, err
	}

	resp := Assemble(text, passages, false)
	return resp.Text, resp.Sources, nil
}

// GetHistory returns the conversation in chronological order.
func (uc *Usecase) GetHistory(ctx context.Context) []entity.ChatMessage {
	return uc.history.List()
}

// ClearHistory irreversibly resets the conversation.
func (uc *Usecase) ClearHistory(ctx context.Context) {
	uc.history.Clear()
	ctxzap.Info(ctx, "chat history cleared")
}

func newMessage(role entity.MessageRole, content string, sources []string) entity.ChatMessage {
	return entity.ChatMessage{
		ID:        uuid.New().String(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
		Sources:   sources,
	}
}
