package wm

import (
	"context"
	"sync"

	"github.com/1broseidon/tsumiki/internal/platform"
)

// chanSub is a channel subscriber. The channel has a single slot; when the
// reader falls behind, undelivered kinds are merged into the slot so a kind
// is never lost and the loop never blocks.
type chanSub struct {
	mu     sync.Mutex
	ch     chan platform.Change
	closed bool
}

func (c *chanSub) deliver(change platform.Change) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case old := <-c.ch:
		change |= old
	default:
	}
	c.ch <- change
}

func (c *chanSub) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.ch)
	}
}

// Subscribe returns a channel receiving change kinds until ctx is done, at
// which point the channel is closed.
func (s *Service) Subscribe(ctx context.Context) <-chan platform.Change {
	sub := &chanSub{ch: make(chan platform.Change, 1)}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.chanSubs[id] = sub
	s.mu.Unlock()

	context.AfterFunc(ctx, func() {
		s.mu.Lock()
		delete(s.chanSubs, id)
		s.mu.Unlock()
		sub.close()
	})
	return sub.ch
}
