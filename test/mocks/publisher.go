// Package mocks provides shared test doubles.
package mocks

import (
	"context"
	"sync"
)

// PublishedEvent captures one Publish call.
type PublishedEvent struct {
	Channel string
	Type    string
	Payload any
}

// RecordingPublisher is an in-memory notifier.Publisher that records every
// published event. Used for testing without requiring a real Redis instance.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []PublishedEvent
}

// NewRecordingPublisher creates a new recording publisher.
func NewRecordingPublisher() *RecordingPublisher {
	return &RecordingPublisher{}
}

// Publish records the event.
func (p *RecordingPublisher) Publish(_ context.Context, channel, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, PublishedEvent{Channel: channel, Type: eventType, Payload: payload})
	return nil
}

// Events returns a copy of the recorded events.
func (p *RecordingPublisher) Events() []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PublishedEvent, len(p.events))
	copy(out, p.events)
	return out
}

// EventsOn returns the recorded events for one channel.
func (p *RecordingPublisher) EventsOn(channel string) []PublishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []PublishedEvent
	for _, e := range p.events {
		if e.Channel == channel {
			out = append(out, e)
		}
	}
	return out
}
