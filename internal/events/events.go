package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	SourceName   = "quiz-service"
	EventVersion = "1.0"

	TopicAttempts = "quiz.attempts"

	TypeAttemptSaved   = "attempt.saved"
	TypeAttemptDeleted = "attempt.deleted"
)

// Event is the envelope for every message this service emits.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

func NewEvent(eventType string, data interface{}) Event {
	return Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    SourceName,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// AttemptSavedData describes a freshly persisted attempt.
type AttemptSavedData struct {
	AttemptID   uint      `json:"attempt_id"`
	QuizID      uint      `json:"quiz_id"`
	UserName    string    `json:"user_name"`
	Score       int       `json:"score"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AttemptDeletedData identifies an attempt removed by a reviewer.
type AttemptDeletedData struct {
	AttemptID uint   `json:"attempt_id"`
	DeletedBy string `json:"deleted_by"`
}
