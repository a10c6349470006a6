// Package app wires the relay daemon: configuration, room table, socket
// handler, and the HTTP surface.
package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Linnore/PyTeach/internal/config"
	"github.com/Linnore/PyTeach/internal/relay"
)

// Application owns the relay daemon's components and their lifecycle.
type Application struct {
	config     *config.Config
	rooms      *relay.Rooms
	handler    *relay.Handler
	httpServer *http.Server
}

// NewApplication builds the component graph: config -> rooms -> socket
// handler -> router -> HTTP server.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	rooms := relay.NewRooms()
	handler := relay.NewHandler(rooms, relay.Options{
		PingInterval: cfg.WebSocket.PingInterval,
		ReadTimeout:  cfg.WebSocket.ReadTimeout,
		WriteTimeout: cfg.WebSocket.WriteTimeout,
		BufferSize:   cfg.WebSocket.BufferSize,
	})

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
	}))
	r.Get("/ws", handler.HandleWebSocket)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"stats":  rooms.Stats(),
		})
	})

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	return &Application{
		config:     cfg,
		rooms:      rooms,
		handler:    handler,
		httpServer: httpServer,
	}, nil
}

// Start brings the HTTP server up and verifies it is accepting
// connections before returning.
func (app *Application) Start(ctx context.Context) error {
	log.Printf("Starting relay on %s", app.httpServer.Addr)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := app.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case err := <-serverErrCh:
		return err
	case <-time.After(100 * time.Millisecond):
		log.Printf("Relay started")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop shuts the HTTP server down; in-flight socket connections close
// with it. Nothing needs flushing: the relay holds no durable state.
func (app *Application) Stop(ctx context.Context) error {
	log.Printf("Shutting down relay")

	if err := app.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Printf("Relay shutdown complete")
	return nil
}

// GetAddr returns the server address for external connections.
func (app *Application) GetAddr() string {
	return app.httpServer.Addr
}
