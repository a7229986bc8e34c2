package ws

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsarena-go/internal/dependencies/random"
	"github.com/mcoot/rpsarena-go/internal/session"
)

const connIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The server is origin-agnostic; access control is out of scope here.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades HTTP requests to websocket connections and hands them to
// the session tracker.
type Handler struct {
	hub     *Hub
	tracker *session.Tracker
	random  random.Random
	logger  *slog.Logger
}

// NewHandler creates a websocket Handler
func NewHandler(hub *Hub, tracker *session.Tracker, rand random.Random, logger *slog.Logger) *Handler {
	return &Handler{
		hub:     hub,
		tracker: tracker,
		random:  rand,
		logger:  logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP upgrades the request and starts the client's pumps
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	id := h.random.String(12, connIDAlphabet)
	client := newClient(id, conn, h.hub, h.tracker, h.logger)

	h.hub.register(client)
	h.logger.Info("client connected", slog.String("conn", id))

	// The connection outlives the HTTP request, whose context is canceled
	// once ServeHTTP returns; the pumps run on the background context.
	ctx := context.Background()

	go client.writePump()
	go client.readPump(ctx)

	h.tracker.HandleConnect(ctx, client)
}
