package ws

import (
	"context"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/dkoval/notewave/service"
)

type Handler struct {
	Service *service.Service
	hub     *Hub
}

func NewHandler(svc *service.Service, hub *Hub) *Handler {
	return &Handler{Service: svc, hub: hub}
}

func (h *Handler) NewWsUpgrader(requiredOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if requiredOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == requiredOrigin
		},
	}
}

// ServeWS authenticates the request, upgrades it, and registers the client
// with the hub. The token travels as a query parameter: browsers cannot set
// headers on websocket handshakes.
func (h *Handler) ServeWS(upgrader websocket.Upgrader, w http.ResponseWriter, r *http.Request, shutdownCtx context.Context) {
	token := r.URL.Query().Get("token")
	user, err := h.Service.ResolveOwner(r.Context(), token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WS upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, user)
	h.hub.OpenCh <- client

	go client.WritePump(shutdownCtx)
	go client.ReadPump()
}
