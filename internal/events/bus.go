// Package events provides the in-process publish/subscribe bus used to fan
// out deal updates to other components of the same process.
package events

import (
	"sync"

	"github.com/twa-market/marketplace-go-app/internal/models"
)

// DealUpdated is published after every successful deal status transition
type DealUpdated struct {
	DealID string            `json:"dealId"`
	Status models.DealStatus `json:"status"`
}

// Bus fans out events to subscribers. Publishing never blocks: a subscriber
// whose buffer is full misses the event and is expected to re-read the store.
type Bus struct {
	mu   sync.RWMutex
	subs map[int]chan DealUpdated
	next int
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{subs: make(map[int]chan DealUpdated)}
}

// Subscribe registers a subscriber with the given channel buffer and returns
// the channel plus a cancel function. Cancel closes the channel.
func (b *Bus) Subscribe(buffer int) (<-chan DealUpdated, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	ch := make(chan DealUpdated, buffer)

	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = ch
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, cancel
}

// Publish delivers e to every subscriber, dropping it for slow consumers
func (b *Bus) Publish(e DealUpdated) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// SubscriberCount returns the number of active subscribers
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
