package entity

import "time"

type StreamEventType string

const (
	EventStart StreamEventType = "start"
	EventToken StreamEventType = "token"
	EventEnd   StreamEventType = "end"
	EventError StreamEventType = "error"
)

// StreamEvent is one element of a streaming chat response. A well-formed
// stream is exactly one start event, zero or more token events whose
// concatenated content equals the final message text, and a single terminal
// event: end on success or error on failure.
type StreamEvent struct {
	Type      StreamEventType `json:"type"`
	ID        string          `json:"id,omitempty"`
	Role      MessageRole     `json:"role,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	Content   string          `json:"content,omitempty"`
	Message   *ChatMessage    `json:"message,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// StartEvent begins a stream for the assistant message with the given id.
func StartEvent(id string, ts time.Time) StreamEvent {
	return StreamEvent{Type: EventStart, ID: id, Role: RoleAssistant, Timestamp: &ts}
}

// TokenEvent carries one fragment of the response text.
func TokenEvent(id, content string) StreamEvent {
	return StreamEvent{Type: EventToken, ID: id, Content: content}
}

// EndEvent terminates a successful stream with the materialized message.
func EndEvent(msg *ChatMessage) StreamEvent {
	return StreamEvent{Type: EventEnd, Message: msg}
}

// ErrorEvent terminates a failed stream.
func ErrorEvent(description string) StreamEvent {
	return StreamEvent{Type: EventError, Error: description}
}
