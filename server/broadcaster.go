package server

import (
	"sync"

	"movfeed/feeds"

	log "github.com/sirupsen/logrus"
)

// Broadcaster fans rendered pages out to the connected SSE clients
type Broadcaster struct {
	sync.RWMutex
	clients map[string]chan feeds.Page
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		clients: make(map[string]chan feeds.Page),
	}
}

// Broadcast never blocks, a client whose buffer is full misses the page
func (b *Broadcaster) Broadcast(page feeds.Page) {
	b.RLock()
	defer b.RUnlock()

	for id, client := range b.clients {
		select {
		case client <- page:
		default:
			log.Warnf("Client channel full, skipping feed update for client: %v", id)
		}
	}
}

func (b *Broadcaster) AddClient(key string, client chan feeds.Page) {
	b.Lock()
	defer b.Unlock()
	b.clients[key] = client
	sseClients.Set(float64(len(b.clients)))
	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Adding client to broadcaster")
}

// RemoveClient closes the client's channel. Unknown keys are ignored.
func (b *Broadcaster) RemoveClient(key string) {
	b.Lock()
	defer b.Unlock()

	client, ok := b.clients[key]
	if !ok {
		return
	}
	close(client)
	delete(b.clients, key)
	sseClients.Set(float64(len(b.clients)))

	log.WithFields(log.Fields{
		"key":   key,
		"count": len(b.clients),
	}).Info("Removed client from broadcaster")
}

func (b *Broadcaster) Len() int {
	b.RLock()
	defer b.RUnlock()
	return len(b.clients)
}

func (b *Broadcaster) Shutdown() {
	log.Info("Shutting down broadcaster")
	b.Lock()
	defer b.Unlock()
	for key, client := range b.clients {
		close(client)
		delete(b.clients, key)
	}
	sseClients.Set(0)
}
