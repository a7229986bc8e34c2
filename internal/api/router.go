// Package api exposes the HTTP surface: the websocket endpoint, the
// read-only room inspection routes, and the health check.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/rpsarena-go/internal/api/handler"
	"github.com/mcoot/rpsarena-go/internal/middleware"
	"github.com/mcoot/rpsarena-go/internal/services/room"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger         *slog.Logger
	RoomController *room.Controller
	WSHandler      http.Handler
	Connections    handler.ConnectionCounter
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	roomHandler := handler.NewRoomHandler(cfg.RoomController)
	healthHandler := handler.NewHealthHandler(cfg.RoomController, cfg.Connections)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)

	r.Handle("/ws", cfg.WSHandler)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/rooms", roomHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/rooms/{id}", roomHandler.Get).Methods(http.MethodGet)

	return r
}
