package backup

import (
	"context"
	"sync"
)

// Controller hands out single-flight cancellation tokens. Each pipeline kind
// owns one Controller: beginning a new operation cancels whichever operation
// is currently holding the live token, so at most one run per kind is ever
// in flight.
type Controller struct {
	mu      sync.Mutex
	current context.Context
	cancel  context.CancelFunc
}

// Begin returns a fresh cancellation token, superseding (cancelling) any
// in-flight one.
func (c *Controller) Begin(parent context.Context) context.Context {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	c.current = ctx
	c.cancel = cancel
	return ctx
}

// End releases ctx if it is still the live token. A token that was already
// superseded by a newer Begin is left alone.
func (c *Controller) End(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != ctx {
		return
	}
	c.cancel()
	c.current = nil
	c.cancel = nil
}

// Cancel signals the in-flight operation, if any. The operation observes the
// signal at its next cooperative check and returns a cancellation result.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}

// cancelled is the cooperative check used between records and before each
// batch commit.
func cancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
