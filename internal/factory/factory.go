// Package factory wires the application's components together.
package factory

import (
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/mcoot/rpsarena-go/internal/dependencies/clock"
	"github.com/mcoot/rpsarena-go/internal/dependencies/random"
	"github.com/mcoot/rpsarena-go/internal/services/game"
	"github.com/mcoot/rpsarena-go/internal/services/match"
	"github.com/mcoot/rpsarena-go/internal/services/room"
	"github.com/mcoot/rpsarena-go/internal/session"
	"github.com/mcoot/rpsarena-go/internal/storage"
	"github.com/mcoot/rpsarena-go/internal/storage/memory"
	redisstorage "github.com/mcoot/rpsarena-go/internal/storage/redis"
	"github.com/mcoot/rpsarena-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Resolver        *game.Resolver
	RoomController  *room.Controller
	MatchController *match.Controller

	// Transport
	Hub       *ws.Hub
	Tracker   *session.Tracker
	WSHandler *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// GraceDelay is how long an emptied room survives awaiting a reconnect
	// If zero, defaults to session.DefaultGraceDelay
	GraceDelay time.Duration
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, cfg.GraceDelay, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, graceDelay time.Duration, logger *slog.Logger) *App {
	resolver := game.NewResolver()
	roomController := room.NewController(store, resolver, clk)
	matchController := match.NewController(store, resolver, clk)

	hub := ws.NewHub(logger)
	tracker := session.NewTracker(roomController, matchController, hub, clk, graceDelay, logger)
	wsHandler := ws.NewHandler(hub, tracker, rnd, logger)

	return &App{
		Storage:         store,
		Clock:           clk,
		Random:          rnd,
		Resolver:        resolver,
		RoomController:  roomController,
		MatchController: matchController,
		Hub:             hub,
		Tracker:         tracker,
		WSHandler:       wsHandler,
	}
}
