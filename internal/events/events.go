// Package events publishes portfolio changes to downstream consumers.
package events

import (
	"context"
	"encoding/json"
	"time"
)

const (
	PositionMerged      = "position.merged"
	PositionReduced     = "position.reduced"
	PositionRemoved     = "position.removed"
	PositionQuantitySet = "position.quantity_set"
	SnapshotGenerated   = "snapshot.generated"
)

// Event is one change notification. Key orders events per symbol (or per date
// for snapshots) on partitioned transports.
type Event struct {
	Type       string    `json:"type"`
	Key        string    `json:"key"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

func New(typ, key string, payload any) Event {
	return Event{Type: typ, Key: key, OccurredAt: time.Now().UTC(), Payload: payload}
}

func encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                         { return nil }

// Gated drops events while Enabled reports false.
type Gated struct {
	Next    Publisher
	Enabled func(ctx context.Context) bool
}

func (g Gated) Publish(ctx context.Context, evt Event) error {
	if g.Next == nil {
		return nil
	}
	if g.Enabled != nil && !g.Enabled(ctx) {
		return nil
	}
	return g.Next.Publish(ctx, evt)
}

func (g Gated) Close() error {
	if g.Next == nil {
		return nil
	}
	return g.Next.Close()
}
