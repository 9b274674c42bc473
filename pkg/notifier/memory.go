package notifier

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// MemoryNotifier queues notifications in memory until the rendering layer
// drains them, and mirrors each one to the structured log.
type MemoryNotifier struct {
	mu      sync.Mutex
	pending []Notification
	log     *slog.Logger
}

// NewMemoryNotifier creates an empty queue. A nil logger disables mirroring.
func NewMemoryNotifier(log *slog.Logger) *MemoryNotifier {
	return &MemoryNotifier{log: log}
}

func (n *MemoryNotifier) Success(ctx context.Context, message string) {
	n.push(ctx, KindSuccess, message)
}

func (n *MemoryNotifier) Error(ctx context.Context, message string) {
	n.push(ctx, KindError, message)
}

func (n *MemoryNotifier) Info(ctx context.Context, message string) {
	n.push(ctx, KindInfo, message)
}

func (n *MemoryNotifier) push(ctx context.Context, kind Kind, message string) {
	n.mu.Lock()
	n.pending = append(n.pending, Notification{
		Kind:      kind,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	})
	n.mu.Unlock()

	if n.log != nil {
		n.log.InfoContext(ctx, "user notification", "kind", string(kind), "message", message)
	}
}

// Drain returns all queued notifications and empties the queue.
func (n *MemoryNotifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	drained := n.pending
	n.pending = nil
	return drained
}

// Pending returns a copy of the queued notifications without draining.
func (n *MemoryNotifier) Pending() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Notification, len(n.pending))
	copy(out, n.pending)
	return out
}
