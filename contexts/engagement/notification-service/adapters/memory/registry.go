package memory

import (
	"sync"

	"sentinel/contexts/engagement/notification-service/ports"
)

// Registry tracks live connections per user. Register and Unregister are
// idempotent so reconnect churn cannot leave duplicates or dangling entries.
type Registry struct {
	mu          sync.RWMutex
	connections map[string][]ports.Connection
}

func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string][]ports.Connection),
	}
}

func (r *Registry) Register(userID string, conn ports.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.connections[userID] {
		if existing == conn {
			return
		}
	}
	r.connections[userID] = append(r.connections[userID], conn)
}

func (r *Registry) Unregister(userID string, conn ports.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.connections[userID]
	filtered := make([]ports.Connection, 0, len(items))
	for _, existing := range items {
		if existing != conn {
			filtered = append(filtered, existing)
		}
	}
	if len(filtered) == 0 {
		delete(r.connections, userID)
		return
	}
	r.connections[userID] = filtered
}

func (r *Registry) ConnectionsFor(userID string) []ports.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]ports.Connection(nil), r.connections[userID]...)
}
