package flowchart

import (
	"strconv"
	"sync"
)

// IDAllocator hands out node IDs as an incrementing integer counter.
// It is process-scoped state owned by the graph mutation layer; loading a
// project reseeds it so freshly created nodes never collide with loaded ones.
type IDAllocator struct {
	mu   sync.Mutex
	next int
}

// NewIDAllocator returns an allocator whose first ID is "1".
func NewIDAllocator() *IDAllocator {
	return &IDAllocator{next: 1}
}

// NextID returns the next node ID and advances the counter.
func (a *IDAllocator) NextID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	id := strconv.Itoa(a.next)
	a.next++
	return id
}

// Reset rewinds the counter to its initial state. Used when starting a new
// empty project.
func (a *IDAllocator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.next = 1
}

// Current returns the counter value the next NextID call will hand out.
// Exposed so the autosave slot can persist and restore the counter.
func (a *IDAllocator) Current() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.next
}

// SetCurrent sets the counter directly, e.g. when restoring an autosaved
// session. Values below 1 are clamped to 1.
func (a *IDAllocator) SetCurrent(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n < 1 {
		n = 1
	}
	a.next = n
}

// Reseed sets the counter to max(existing numeric IDs) + 1 so that IDs
// allocated after a project load cannot collide. Non-numeric IDs are
// ignored. An empty node set resets the counter.
func (a *IDAllocator) Reseed(nodes []Node) {
	a.mu.Lock()
	defer a.mu.Unlock()
	max := 0
	for _, n := range nodes {
		if v, err := strconv.Atoi(n.ID); err == nil && v > max {
			max = v
		}
	}
	a.next = max + 1
}
