package schema

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Notifier fans schema refresh events out to registered listeners. Admin
// dashboards subscribe to rebuild their resource views when a staff member's
// requests change what the registry exposes.
type Notifier struct {
	mu        sync.RWMutex
	listeners []func(context.Context, uuid.UUID, map[string]any)
}

// NewNotifier constructs an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Register adds a listener keyed by the acting user. Nil listeners are ignored.
func (n *Notifier) Register(listener func(context.Context, uuid.UUID, map[string]any)) {
	if listener == nil {
		return
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.listeners = append(n.listeners, listener)
}

// Notify delivers a refresh event for userID to every registered listener.
func (n *Notifier) Notify(ctx context.Context, userID uuid.UUID, metadata map[string]any) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	for _, listener := range n.listeners {
		listener(ctx, userID, metadata)
	}
}
