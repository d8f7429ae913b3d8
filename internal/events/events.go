package events

import (
	"context"
	"time"
)

const (
	TopicUser     = "user_events"
	TopicSecurity = "security_events"
)

const (
	TypeUserCreated          = "user_created"
	TypeUserLoggedIn         = "user_logged_in"
	TypeSessionRefreshed     = "session_refreshed"
	TypeRefreshTokenReplayed = "refresh_token_replayed"
)

// Event is the JSON value written to every topic. Empty fields are omitted.
type Event struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	SessionID  string    `json:"session_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Role       string    `json:"role,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, topic, key string, event Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, string, Event) error { return nil }
func (Nop) Close() error                                         { return nil }

// New returns a Kafka producer for brokers, or Nop when brokers is empty.
func New(brokers []string) Publisher {
	if len(brokers) == 0 {
		return Nop{}
	}
	return NewProducer(brokers)
}
