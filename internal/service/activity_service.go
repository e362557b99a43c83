package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/expense-tracker/internal/events"
)

// ActivityEntry is one row in a user's recent-activity feed.
type ActivityEntry struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"timestamp"`
}

// ActivityService listens for domain events and keeps a capped per-user feed
// in Redis. Feeds are keyed by the owning user, so a caller only ever reads
// their own entries.
type ActivityService struct {
	dispatcher events.Dispatcher
	client     *redis.Client
	logger     *zap.Logger
	maxEntries int64
}

// NewActivityService constructs the service. A nil client disables recording.
func NewActivityService(dispatcher events.Dispatcher, client *redis.Client, logger *zap.Logger, maxEntries int64) *ActivityService {
	if maxEntries <= 0 {
		maxEntries = 50
	}
	return &ActivityService{dispatcher: dispatcher, client: client, logger: logger, maxEntries: maxEntries}
}

// RegisterHandlers subscribes the recorder to all event types.
func (s *ActivityService) RegisterHandlers() {
	if s.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventUserRegistered,
		events.EventCategoryCreated,
		events.EventCategoryDeleted,
		events.EventTransactionRecorded,
	} {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

// Recent returns the caller's newest feed entries.
func (s *ActivityService) Recent(ctx context.Context, userID int64) ([]ActivityEntry, error) {
	if s.client == nil {
		return []ActivityEntry{}, nil
	}

	raw, err := s.client.LRange(ctx, feedKey(userID), 0, s.maxEntries-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, 0, len(raw))
	for _, item := range raw {
		var entry ActivityEntry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (s *ActivityService) record(ctx context.Context, event events.Event) error {
	if s.client == nil {
		return nil
	}

	entry := ActivityEntry{
		ID:        event.ID,
		Type:      string(event.Type),
		Detail:    describe(event),
		Timestamp: event.Timestamp,
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := feedKey(event.UserID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, s.maxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Warn("failed to record activity", zap.Error(err))
		return err
	}
	return nil
}

func describe(event events.Event) string {
	switch payload := event.Payload.(type) {
	case events.UserRegisteredPayload:
		return "account registered"
	case events.CategoryCreatedPayload:
		return fmt.Sprintf("category %q created", payload.Title)
	case events.CategoryDeletedPayload:
		return fmt.Sprintf("category %d deleted", payload.CategoryID)
	case events.TransactionRecordedPayload:
		return fmt.Sprintf("expense of %.2f recorded in category %d", payload.Amount, payload.CategoryID)
	default:
		return string(event.Type)
	}
}

func feedKey(userID int64) string {
	return fmt.Sprintf("activity:user:%d", userID)
}
