package app

import (
	"testing"

	"github.com/Linnore/PyTeach/internal/config"
)

func TestNewApplicationWithDefaults(t *testing.T) {
	application, err := NewApplication(nil)
	if err != nil {
		t.Fatalf("NewApplication with defaults failed: %v", err)
	}
	if application.GetAddr() != "0.0.0.0:8765" {
		t.Errorf("Unexpected address %s", application.GetAddr())
	}
}

func TestNewApplicationRejectsInvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HTTP.Port = 0

	if _, err := NewApplication(cfg); err == nil {
		t.Error("Expected an error for an invalid configuration")
	}
}

func TestNewApplicationAppliesHTTPSettings(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = 9100

	application, err := NewApplication(cfg)
	if err != nil {
		t.Fatalf("NewApplication failed: %v", err)
	}
	if application.GetAddr() != "127.0.0.1:9100" {
		t.Errorf("Unexpected address %s", application.GetAddr())
	}
}
