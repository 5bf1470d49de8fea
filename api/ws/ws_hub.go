package ws

import (
	"context"
	"encoding/json"
	"log"

	"github.com/dkoval/notewave/cache"
	"github.com/dkoval/notewave/service"
)

// Hub maintains the set of connected clients and routes sync events, fanned
// in from Redis pub/sub, to the clients of the affected owner.
type Hub struct {
	notewaveCache cache.NotewaveCache
	OpenCh        chan *Client
	CloseCh       chan *Client
	EventCh       chan service.SyncEventMessage
	ownerClients  map[string]map[*Client]struct{}
}

func NewHub(notewaveCache cache.NotewaveCache) *Hub {
	return &Hub{
		notewaveCache: notewaveCache,
		OpenCh:        make(chan *Client, 256),
		CloseCh:       make(chan *Client, 256),
		EventCh:       make(chan service.SyncEventMessage, 1024),
		ownerClients:  make(map[string]map[*Client]struct{}),
	}
}

const maxConnectionsPerUser = 3

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.OpenCh:
			if _, ok := h.ownerClients[client.user.Id]; !ok {
				h.ownerClients[client.user.Id] = make(map[*Client]struct{})
			}

			if len(h.ownerClients[client.user.Id]) >= maxConnectionsPerUser {
				log.Printf("User %s reached max connections (%d)", client.user.Id, maxConnectionsPerUser)
				close(client.Send)
				continue
			}

			h.ownerClients[client.user.Id][client] = struct{}{}

		case client := <-h.CloseCh:
			delete(h.ownerClients[client.user.Id], client)
			if len(h.ownerClients[client.user.Id]) == 0 {
				delete(h.ownerClients, client.user.Id)
			}

		case event := <-h.EventCh:
			clients, ok := h.ownerClients[event.OwnerId]
			if !ok {
				continue
			}
			eventBytes, err := json.Marshal(event)
			if err != nil {
				continue
			}
			for client := range clients {
				select {
				case client.Send <- eventBytes:
				default:
					// Slow consumer: drop the event rather than block the hub.
				}
			}
		}
	}
}

// InitSubscriptions wires the hub to the sync-events pub/sub channel.
func (h *Hub) InitSubscriptions(shutdownCtx context.Context) error {
	err := h.notewaveCache.Subscribe(shutdownCtx, service.SyncEventsChannel, func(message []byte) {
		var event service.SyncEventMessage
		if err := json.Unmarshal(message, &event); err != nil {
			log.Printf("Failed to unmarshal sync event: %v", err)
			return
		}
		h.EventCh <- event
	})
	if err != nil {
		log.Printf("WS hub failed to subscribe to %s: %v", service.SyncEventsChannel, err)
		return err
	}

	return nil
}
