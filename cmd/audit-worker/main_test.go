package main

import (
	"testing"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
)

func init() {
	log = logger.New("audit-worker-test")
}

func TestParseMessage_AllFields(t *testing.T) {
	ts := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	msg := redislib.XMessage{
		ID: "1-0",
		Values: map[string]interface{}{
			"type":       "login_success",
			"user_id":    "user-123",
			"email":      "alice@example.com",
			"timestamp":  "1773576000",
			"ip":         "203.0.113.195",
			"user_agent": "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		},
	}

	event, ok := parseMessage(msg)
	if !ok {
		t.Fatal("expected message to parse")
	}

	if event.EventType != "login_success" {
		t.Errorf("expected event type 'login_success', got '%s'", event.EventType)
	}
	if event.UserID != "user-123" {
		t.Errorf("expected user ID 'user-123', got '%s'", event.UserID)
	}
	if event.Email != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got '%s'", event.Email)
	}
	if event.IPAddress != "203.0.113.195" {
		t.Errorf("expected IP '203.0.113.195', got '%s'", event.IPAddress)
	}
	if !event.OccurredAt.Equal(ts) {
		t.Errorf("expected occurred_at %v, got %v", ts, event.OccurredAt)
	}
	if event.Browser != "Chrome" {
		t.Errorf("expected enriched browser 'Chrome', got '%s'", event.Browser)
	}
	if event.EventID == "" {
		t.Error("expected a generated event ID")
	}
}

func TestParseMessage_MissingType(t *testing.T) {
	msg := redislib.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"user_id": "user-123"},
	}

	if _, ok := parseMessage(msg); ok {
		t.Error("message without a type must not parse")
	}
}

func TestParseMessage_OptionalFieldsAbsent(t *testing.T) {
	msg := redislib.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"type": "password_reset_completed"},
	}

	event, ok := parseMessage(msg)
	if !ok {
		t.Fatal("expected message to parse")
	}
	if event.UserID != "" || event.Email != "" || event.IPAddress != "" {
		t.Error("absent fields must stay empty")
	}
	if event.Browser != "" {
		t.Error("no user agent means no enrichment")
	}
	if event.OccurredAt.IsZero() {
		t.Error("occurred_at should default to now")
	}
}
