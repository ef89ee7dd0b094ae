package services

import "sync"

// OnlineCounter aggregates reachability results into an online count.
//
// The count is monotonic-until-reset: it only ever increments, and the
// increments are guarded by a one-way latch. Once any probe reports a
// service down, DisableIncrement trips the latch and the count freezes
// until the next collection fetch calls Reset. The frozen count is
// therefore "online among the services checked so far", not a live
// total; that simplification is intentional and kept as-is.
type OnlineCounter struct {
	mu           sync.Mutex
	count        int
	canIncrement bool
}

func NewOnlineCounter() *OnlineCounter {
	return &OnlineCounter{canIncrement: true}
}

// Increment adds one to the count, unless the latch is tripped.
func (c *OnlineCounter) Increment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.canIncrement {
		c.count++
	}
}

// DisableIncrement trips the latch. Only Reset re-enables it.
func (c *OnlineCounter) DisableIncrement() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canIncrement = false
}

// Reset returns the counter to its initial state: zero, latch enabled.
func (c *OnlineCounter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.canIncrement = true
}

// Value returns the current count.
func (c *OnlineCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}
