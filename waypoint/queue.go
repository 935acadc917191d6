package waypoint

import (
	"sync"
)

// Queue is the ordered set of waypoints the follower drives through. It is appended to while
// a path is acquired, read while it is executed, and may be cleared at any time. All methods
// are safe for concurrent use.
type Queue struct {
	mu         sync.RWMutex
	waypoints  []Waypoint
	generation uint64
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Append adds a waypoint to the tail and returns the new length.
func (q *Queue) Append(w Waypoint) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.waypoints = append(q.waypoints, w)
	return len(q.waypoints)
}

// Clear empties the queue and starts a new generation. Snapshots taken earlier are unaffected
// but ResetSince reports the clear to anyone holding their generation.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	// a new backing array so earlier snapshots never alias later appends
	q.waypoints = nil
	q.generation++
}

// Snapshot returns a copy of the waypoints in arrival order together with the generation it
// was taken in.
func (q *Queue) Snapshot() ([]Waypoint, uint64) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Waypoint, len(q.waypoints))
	copy(out, q.waypoints)
	return out, q.generation
}

// Len returns the number of queued waypoints.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.waypoints)
}

// Generation returns the number of times the queue has been cleared.
func (q *Queue) Generation() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.generation
}

// ResetSince returns true if the queue has been cleared since generation was observed, or is
// empty.
func (q *Queue) ResetSince(generation uint64) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.generation != generation || len(q.waypoints) == 0
}
