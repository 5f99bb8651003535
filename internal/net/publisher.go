package net

import (
	"context"
	"sync"

	"StudyBoard/internal/logger"
	"StudyBoard/internal/state"
)

// Publisher moves frame encoding off the UI goroutine. Snapshots submitted
// faster than they can be encoded are coalesced; only the newest is sent.
type Publisher struct {
	hub *Hub
	log logger.Logger

	mu      sync.Mutex
	pending *state.Snapshot
	wake    chan struct{}
}

func NewPublisher(h *Hub, l logger.Logger) *Publisher {
	return &Publisher{hub: h, log: l, wake: make(chan struct{}, 1)}
}

// Submit queues snap for broadcast. It never blocks.
func (p *Publisher) Submit(snap state.Snapshot) {
	p.mu.Lock()
	p.pending = &snap
	p.mu.Unlock()
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Publisher) take() (state.Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pending == nil {
		return state.Snapshot{}, false
	}
	snap := *p.pending
	p.pending = nil
	return snap, true
}

// Run publishes submitted snapshots until ctx is done.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.wake:
			snap, ok := p.take()
			if !ok {
				continue
			}
			if err := p.hub.PublishSnapshot(snap); err != nil {
				p.log.Error("[SHARE] Publish failed", err)
			}
		}
	}
}
