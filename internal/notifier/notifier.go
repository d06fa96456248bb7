package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/clickempire/click-empire/pkg/logger"
)

// Redis pub/sub channels. Every API instance subscribes to fan events out to
// its own websocket or polling clients, so cross-instance delivery goes
// through Redis rather than process memory.
const (
	ChannelCounter      = "events:counter"
	ChannelCoolNumbers  = "events:cool_numbers"
	ChannelAchievements = "events:achievements"
	ChannelMilestones   = "events:milestones"
	ChannelChat         = "events:chat"
)

// Event is the wire envelope for all published events.
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// CounterEvent announces a new global counter value.
type CounterEvent struct {
	GlobalCount int64  `json:"global_count"`
	Username    string `json:"username"`
}

// CoolNumberEvent announces a cool number hit.
type CoolNumberEvent struct {
	Username string `json:"username"`
	Number   int64  `json:"number"`
	Type     string `json:"type"`
	Rarity   string `json:"rarity"`
	Coins    int64  `json:"coins"`
}

// AchievementEvent announces an achievement unlock.
type AchievementEvent struct {
	Username    string `json:"username"`
	Achievement string `json:"achievement"`
	Icon        string `json:"icon"`
}

// MilestoneEvent announces a global counter milestone.
type MilestoneEvent struct {
	Count int64 `json:"count"`
}

// ChatEvent announces a new chat message.
type ChatEvent struct {
	Username  string `json:"username"`
	IsPremium bool   `json:"is_premium"`
	Message   string `json:"message"`
}

// Publisher broadcasts game events. Implementations must be safe for
// concurrent use; publish failures are the caller's to log, never to
// propagate into request handling.
type Publisher interface {
	Publish(ctx context.Context, channel, eventType string, payload any) error
}

// RedisPublisher publishes events over Redis pub/sub.
type RedisPublisher struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisPublisher creates a publisher backed by the given Redis client.
func NewRedisPublisher(client *redis.Client, log *logger.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

// Publish marshals the payload into the event envelope and publishes it.
func (p *RedisPublisher) Publish(ctx context.Context, channel, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	event := Event{
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", eventType, err)
	}

	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", channel, err)
	}

	p.log.Debug().
		Str("channel", channel).
		Str("event_type", eventType).
		Msg("Published event")
	return nil
}

// Subscribe returns a Redis subscription for the given channels. The caller
// owns the subscription and must Close it.
func (p *RedisPublisher) Subscribe(ctx context.Context, channels ...string) *redis.PubSub {
	return p.client.Subscribe(ctx, channels...)
}

// NopPublisher discards events. Used in tests and when Redis is disabled.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
