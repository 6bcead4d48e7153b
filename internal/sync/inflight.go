package sync

import "sync"

// inflightGuard rejects overlapping mutations for the same cart line.
// Mutations for different products may proceed concurrently.
type inflightGuard struct {
	mu   sync.Mutex
	busy map[string]struct{}
}

func newInflightGuard() *inflightGuard {
	return &inflightGuard{busy: make(map[string]struct{})}
}

// tryAcquire claims the key. Returns false if a mutation for the same key is
// already in flight.
func (g *inflightGuard) tryAcquire(key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.busy[key]; exists {
		return false
	}
	g.busy[key] = struct{}{}
	return true
}

func (g *inflightGuard) release(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.busy, key)
}

func lineKey(userID, productID string) string {
	return userID + ":" + productID
}
