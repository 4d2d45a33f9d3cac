package service

import (
	"context"
	"sync"

	"github.com/NabirasulA/Galaxy/internal/events"
)

type recordingPublisher struct {
	mu  sync.Mutex
	got []events.Event

	// onPublish runs before the event is recorded.
	onPublish func(evt events.Event)
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	if p.onPublish != nil {
		p.onPublish(evt)
	}
	p.mu.Lock()
	p.got = append(p.got, evt)
	p.mu.Unlock()
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.got))
	for _, e := range p.got {
		out = append(out, e.Type)
	}
	return out
}
