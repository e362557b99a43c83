package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventCategoryCreated     EventType = "category_created"
	EventCategoryDeleted     EventType = "category_deleted"
	EventTransactionRecorded EventType = "transaction_recorded"
)

// Event represents a domain event emitted by services. UserID is the acting
// principal.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    int64       `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
}

// CategoryCreatedPayload payload.
type CategoryCreatedPayload struct {
	CategoryID int64  `json:"category_id"`
	Title      string `json:"title"`
}

// CategoryDeletedPayload payload.
type CategoryDeletedPayload struct {
	CategoryID int64 `json:"category_id"`
}

// TransactionRecordedPayload payload.
type TransactionRecordedPayload struct {
	TransactionID int64   `json:"transaction_id"`
	CategoryID    int64   `json:"category_id"`
	Amount        float64 `json:"amount"`
}
