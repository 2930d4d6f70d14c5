package tracker

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultNotificationTTL mirrors the 3-second toast window of the web UI.
const DefaultNotificationTTL = 3 * time.Second

// Notifier is a fire-and-forget FIFO queue of transient messages. Entries
// retire oldest-first once their display window elapses, unless dismissed
// earlier. Nothing is retried or escalated.
type Notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	queue  []Notification
	timers map[string]*time.Timer
}

// NewNotifier creates a sink whose entries live for ttl. A non-positive ttl
// falls back to DefaultNotificationTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl, timers: make(map[string]*time.Timer)}
}

// Publish appends an entry with a fresh id and returns that id.
func (n *Notifier) Publish(kind NotificationKind, message string) string {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.NewString()
	n.queue = append(n.queue, Notification{ID: id, Kind: kind, Message: message})
	n.timers[id] = time.AfterFunc(n.ttl, func() { n.Dismiss(id) })
	return id
}

// Dismiss removes a specific entry immediately, regardless of its position.
// Unknown ids are ignored.
func (n *Notifier) Dismiss(id string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.remove(id)
}

// Active returns a snapshot of the queue, oldest first.
func (n *Notifier) Active() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := make([]Notification, len(n.queue))
	copy(out, n.queue)
	return out
}

// Drain returns the active entries and empties the queue. The CLI calls it
// once per command to print pending messages exactly once.
func (n *Notifier) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()

	out := n.queue
	n.queue = nil
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	return out
}

// remove assumes n.mu is held.
func (n *Notifier) remove(id string) {
	for i, note := range n.queue {
		if note.ID == id {
			n.queue = append(n.queue[:i], n.queue[i+1:]...)
			break
		}
	}
	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
}
