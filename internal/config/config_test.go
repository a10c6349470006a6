package config

import (
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default configuration must validate, got %v", err)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("PYTEACH_HTTP_PORT", "9001")
	t.Setenv("PYTEACH_HTTP_HOST", "127.0.0.1")
	t.Setenv("PYTEACH_WEBSOCKET_PING_INTERVAL", "15s")
	t.Setenv("PYTEACH_WEBSOCKET_BUFFER_SIZE", "250")
	t.Setenv("PYTEACH_RELAY_URL", "ws://relay.example:9001/ws")
	t.Setenv("PYTEACH_CHAT_BACKEND_URL", "http://llm.example:8000")
	t.Setenv("PYTEACH_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := LoadFromEnv()

	if cfg.HTTP.Port != 9001 {
		t.Errorf("Expected port 9001, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.Host != "127.0.0.1" {
		t.Errorf("Expected host 127.0.0.1, got %s", cfg.HTTP.Host)
	}
	if cfg.WebSocket.PingInterval != 15*time.Second {
		t.Errorf("Expected 15s ping interval, got %v", cfg.WebSocket.PingInterval)
	}
	if cfg.WebSocket.BufferSize != 250 {
		t.Errorf("Expected buffer size 250, got %d", cfg.WebSocket.BufferSize)
	}
	if cfg.Clients.RelayURL != "ws://relay.example:9001/ws" {
		t.Errorf("Unexpected relay URL %s", cfg.Clients.RelayURL)
	}
	if cfg.Clients.ChatBackendURL != "http://llm.example:8000" {
		t.Errorf("Unexpected chat backend URL %s", cfg.Clients.ChatBackendURL)
	}
	if len(cfg.HTTP.AllowedOrigins) != 2 || cfg.HTTP.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("Unexpected origins %v", cfg.HTTP.AllowedOrigins)
	}
}

func TestLoadFromEnvIgnoresMalformedValues(t *testing.T) {
	t.Setenv("PYTEACH_HTTP_PORT", "not-a-port")
	t.Setenv("PYTEACH_WEBSOCKET_READ_TIMEOUT", "soon")

	cfg := LoadFromEnv()
	defaults := DefaultConfig()

	if cfg.HTTP.Port != defaults.HTTP.Port {
		t.Errorf("Malformed port must keep the default, got %d", cfg.HTTP.Port)
	}
	if cfg.WebSocket.ReadTimeout != defaults.WebSocket.ReadTimeout {
		t.Errorf("Malformed timeout must keep the default, got %v", cfg.WebSocket.ReadTimeout)
	}
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"missing http", func(c *Config) { c.HTTP = nil }},
		{"port too high", func(c *Config) { c.HTTP.Port = 70000 }},
		{"zero port", func(c *Config) { c.HTTP.Port = 0 }},
		{"empty host", func(c *Config) { c.HTTP.Host = "" }},
		{"no origins", func(c *Config) { c.HTTP.AllowedOrigins = nil }},
		{"missing websocket", func(c *Config) { c.WebSocket = nil }},
		{"zero ping interval", func(c *Config) { c.WebSocket.PingInterval = 0 }},
		{"zero buffer", func(c *Config) { c.WebSocket.BufferSize = 0 }},
		{"missing clients", func(c *Config) { c.Clients = nil }},
		{"empty relay url", func(c *Config) { c.Clients.RelayURL = "" }},
		{"empty content dir", func(c *Config) { c.Clients.ContentDir = "" }},
	}

	for _, tc := range cases {
		cfg := DefaultConfig()
		tc.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected a validation error", tc.name)
		}
	}
}
