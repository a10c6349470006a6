// Package config holds the settings for the relay daemon and the
// client-side contexts. Precedence: environment variables (PYTEACH_*)
// over defaults; .env files are loaded by main before this runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTP      *HTTPConfig
	WebSocket *WebSocketConfig
	Clients   *ClientConfig
}

// HTTPConfig tunes the relay's HTTP surface.
type HTTPConfig struct {
	Host           string
	Port           int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// WebSocketConfig tunes the relay's socket connections.
type WebSocketConfig struct {
	PingInterval time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BufferSize   int
}

// ClientConfig points the client-side contexts at their collaborators.
type ClientConfig struct {
	RelayURL       string
	ChatBackendURL string
	TTSURL         string
	ContentDir     string
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: &HTTPConfig{
			Host:           "0.0.0.0",
			Port:           8765,
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			AllowedOrigins: []string{"*"},
		},
		WebSocket: &WebSocketConfig{
			PingInterval: 30 * time.Second,
			ReadTimeout:  60 * time.Second,
			WriteTimeout: 10 * time.Second,
			BufferSize:   100,
		},
		Clients: &ClientConfig{
			RelayURL:       "ws://localhost:8765/ws",
			ChatBackendURL: "http://localhost:8000",
			TTSURL:         "http://localhost:5002",
			ContentDir:     "./content",
		},
	}
}

func (c *Config) Validate() error {
	if c.HTTP == nil {
		return fmt.Errorf("HTTP configuration is required")
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("HTTP port must be between 1 and 65535")
	}
	if c.HTTP.Host == "" {
		return fmt.Errorf("HTTP host cannot be empty")
	}
	if c.HTTP.ReadTimeout <= 0 {
		return fmt.Errorf("HTTP read timeout must be positive")
	}
	if c.HTTP.WriteTimeout <= 0 {
		return fmt.Errorf("HTTP write timeout must be positive")
	}
	if len(c.HTTP.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}

	if c.WebSocket == nil {
		return fmt.Errorf("WebSocket configuration is required")
	}
	if c.WebSocket.PingInterval <= 0 {
		return fmt.Errorf("WebSocket ping interval must be positive")
	}
	if c.WebSocket.ReadTimeout <= 0 {
		return fmt.Errorf("WebSocket read timeout must be positive")
	}
	if c.WebSocket.WriteTimeout <= 0 {
		return fmt.Errorf("WebSocket write timeout must be positive")
	}
	if c.WebSocket.BufferSize <= 0 {
		return fmt.Errorf("WebSocket buffer size must be positive")
	}

	if c.Clients == nil {
		return fmt.Errorf("client configuration is required")
	}
	if c.Clients.RelayURL == "" {
		return fmt.Errorf("relay URL cannot be empty")
	}
	if c.Clients.ChatBackendURL == "" {
		return fmt.Errorf("chat backend URL cannot be empty")
	}
	if c.Clients.ContentDir == "" {
		return fmt.Errorf("content directory cannot be empty")
	}

	return nil
}

// LoadFromEnv returns the defaults with PYTEACH_* overrides applied.
// Malformed values fall back to the default rather than failing.
func LoadFromEnv() *Config {
	config := DefaultConfig()

	if host := os.Getenv("PYTEACH_HTTP_HOST"); host != "" {
		config.HTTP.Host = host
	}
	if port := os.Getenv("PYTEACH_HTTP_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.HTTP.Port = p
		}
	}
	if timeout := os.Getenv("PYTEACH_HTTP_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.HTTP.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("PYTEACH_HTTP_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.HTTP.WriteTimeout = d
		}
	}
	if origins := os.Getenv("PYTEACH_ALLOWED_ORIGINS"); origins != "" {
		config.HTTP.AllowedOrigins = splitOrigins(origins)
	}

	if interval := os.Getenv("PYTEACH_WEBSOCKET_PING_INTERVAL"); interval != "" {
		if d, err := time.ParseDuration(interval); err == nil {
			config.WebSocket.PingInterval = d
		}
	}
	if timeout := os.Getenv("PYTEACH_WEBSOCKET_READ_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.WebSocket.ReadTimeout = d
		}
	}
	if timeout := os.Getenv("PYTEACH_WEBSOCKET_WRITE_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			config.WebSocket.WriteTimeout = d
		}
	}
	if size := os.Getenv("PYTEACH_WEBSOCKET_BUFFER_SIZE"); size != "" {
		if n, err := strconv.Atoi(size); err == nil {
			config.WebSocket.BufferSize = n
		}
	}

	if url := os.Getenv("PYTEACH_RELAY_URL"); url != "" {
		config.Clients.RelayURL = url
	}
	if url := os.Getenv("PYTEACH_CHAT_BACKEND_URL"); url != "" {
		config.Clients.ChatBackendURL = url
	}
	if url := os.Getenv("PYTEACH_TTS_URL"); url != "" {
		config.Clients.TTSURL = url
	}
	if dir := os.Getenv("PYTEACH_CONTENT_DIR"); dir != "" {
		config.Clients.ContentDir = dir
	}

	return config
}

func splitOrigins(value string) []string {
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
