// Package history keeps the in-process conversation log. The log is
// append-only apart from Clear and is not persisted across restarts. It is
// also unbounded, matching the reference behavior; a size cap would slot
// into Append if one is ever needed.
package history

import (
	"sync"

	"github.com/avolkhin/docchat-backend/internal/entity"
)

type Log struct {
	mu       sync.Mutex
	messages []entity.ChatMessage
}

func NewLog() *Log {
	return &Log{}
}

// Append adds a message to the end of the log.
func (l *Log) Append(msg entity.ChatMessage) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

// List returns the full log in chronological order, most recent last.
func (l *Log) List() []entity.ChatMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]entity.ChatMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// Clear resets the log to empty. Irreversible.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = nil
}
