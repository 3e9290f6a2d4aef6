package events

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// clientBuffer is how many events a slow client may fall behind before
// events are dropped for it.
const clientBuffer = 32

// Broadcaster keeps the connected clients and delivers every published
// event to each of them.
type Broadcaster struct {
	log *logrus.Logger

	mu      sync.RWMutex
	clients map[string]chan Event
}

// NewBroadcaster creates a Broadcaster with no clients.
func NewBroadcaster(log *logrus.Logger) *Broadcaster {
	return &Broadcaster{log: log, clients: make(map[string]chan Event)}
}

// Subscribe registers a client and returns its ID and event channel. The
// channel is closed by Unsubscribe.
func (b *Broadcaster) Subscribe() (string, <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan Event, clientBuffer)
	b.clients[id] = ch
	b.log.WithField("client", id).Debug("event client subscribed")
	return id, ch
}

// Unsubscribe removes the client and closes its channel. Unknown IDs are
// ignored.
func (b *Broadcaster) Unsubscribe(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.clients[id]; ok {
		close(ch)
		delete(b.clients, id)
		b.log.WithField("client", id).Debug("event client removed")
	}
}

// Publish delivers e to every client without blocking. A client whose
// buffer is full misses the event. Publish reports how many clients got it.
func (b *Broadcaster) Publish(e Event) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for id, ch := range b.clients {
		select {
		case ch <- e:
			delivered++
		default:
			b.log.WithFields(logrus.Fields{"client": id, "event": e.Name}).Warn("event client lagging; event dropped")
		}
	}
	return delivered
}

// Clients returns the IDs of the connected clients.
func (b *Broadcaster) Clients() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	ids := make([]string, 0, len(b.clients))
	for id := range b.clients {
		ids = append(ids, id)
	}
	return ids
}
