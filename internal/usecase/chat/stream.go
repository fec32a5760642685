package chat

import (
	"context"
	"strings"
	"time"

	"github.com/avolkhin/docchat-backend/internal/entity"
	"github.com/avolkhin/docchat-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// SendMessageStream answers a query as an event sequence: one start event,
// tokens whose concatenation reproduces the response text exactly, then a
// terminal end (success) or error (failure) event, after which the channel
// is closed. The producer runs detached from the request context and paces
// tokens with a fixed delay; the buffered channel means a consumer has to
// fall far behind before the producer ever blocks. The assistant turn is
// appended to the history only when the stream completes; on error no
// partial message is recorded.
func (uc *Usecase) SendMessageStream(ctx context.Context, text string) <-chan entity.StreamEvent {
	user := newMessage(entity.RoleUser, text, nil)
	uc.history.Append(user)

	events := make(chan entity.StreamEvent, uc.streamBuffer)

	bgCtx := logger.AddFields(ctxzap.ToContext(context.Background(), ctxzap.Extract(ctx)),
		zap.String("action", "SendMessageStream-async"),
	)

	go func() {
		defer close(events)

		answer, sources, err := uc.answer(bgCtx, text)
		if err != nil {
			ctxzap.Error(bgCtx, "streaming query failed", zap.Error(err))
			events <- entity.ErrorEvent("Failed to process message with vector search")
			return
		}

		assistant := newMessage(entity.RoleAssistant, answer, sources)
		events <- entity.StartEvent(assistant.ID, assistant.Timestamp)

		for _, token := range tokenize(answer) {
			events <- entity.TokenEvent(assistant.ID, token)
			time.Sleep(uc.tokenDelay)
		}

		uc.history.Append(assistant)
		events <- entity.EndEvent(&assistant)

		ctxzap.Info(bgCtx, "stream completed",
			zap.Int("response_length", len(answer)),
			zap.Strings("sources", sources),
		)
	}()

	return events
}

// tokenize splits text into whitespace-delimited fragments that concatenate
// back to text exactly.
func tokenize(text string) []string {
	words := strings.Split(text, " ")
	tokens := make([]string, 0, len(words))
	for i, w := range words {
		if i < len(words)-1 {
			w += " "
		}
		if w == "" {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
