package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/courtminton/courtminton-web/internal/backend"
	"github.com/courtminton/courtminton-web/internal/session"
	"github.com/courtminton/courtminton-web/internal/timeslot"
	"github.com/courtminton/courtminton-web/internal/web"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction  bool
	ProdOrigins   string
	BackendURL    string
	SessionSecret string
	SessionTTL    time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TemplatesGlob string
	StaticDir     string
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router   *gin.Engine
	Sessions *session.Manager
}

// NewContainer initializes all modules and returns the container. With no
// Redis address configured, sessions live in process memory.
func NewContainer(ctx context.Context, cfg Config) (*Container, error) {
	var store session.Store
	if cfg.RedisAddr != "" {
		rs := session.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := rs.Ping(ctx); err != nil {
			return nil, err
		}
		store = rs
	} else {
		store = session.NewMemoryStore()
	}

	codec := session.NewCodec(cfg.SessionSecret, cfg.SessionTTL)
	sessions := session.NewManager(store, codec, cfg.SessionTTL)

	client := backend.New(cfg.BackendURL)
	registry := web.NewRegistry(client)

	router := web.NewRouter(web.Config{
		IsProduction:  cfg.IsProduction,
		ProdOrigins:   cfg.ProdOrigins,
		TemplatesGlob: cfg.TemplatesGlob,
		StaticDir:     cfg.StaticDir,
		Client:        client,
		Sessions:      sessions,
		Registry:      registry,
		Grid:          timeslot.Default,
	})

	return &Container{
		Router:   router,
		Sessions: sessions,
	}, nil
}
