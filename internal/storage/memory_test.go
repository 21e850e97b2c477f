package storage

import (
	"context"
	"testing"
	"time"
)

func TestMemoryUserStorage_CreateAndLookup(t *testing.T) {
	s := NewMemoryUserStorage()
	ctx := context.Background()

	user, err := s.CreateUser(ctx, "Alice", "alice@example.com", "hash-1")
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	byEmail, err := s.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || byEmail == nil {
		t.Fatalf("lookup by email failed: %v", err)
	}
	if byEmail.PasswordHash != "hash-1" {
		t.Error("email lookup should include the password hash for verification")
	}

	byID, err := s.GetUserByID(ctx, user.ID)
	if err != nil || byID == nil {
		t.Fatalf("lookup by ID failed: %v", err)
	}
	if byID.PasswordHash != "" {
		t.Error("ID lookup must not expose the password hash")
	}

	missing, err := s.GetUserByEmail(ctx, "nobody@example.com")
	if err != nil || missing != nil {
		t.Errorf("miss should be (nil, nil), got (%v, %v)", missing, err)
	}
}

func TestMemoryUserStorage_DuplicateEmail(t *testing.T) {
	s := NewMemoryUserStorage()
	ctx := context.Background()

	if _, err := s.CreateUser(ctx, "Alice", "alice@example.com", "hash-1"); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := s.CreateUser(ctx, "Other", "alice@example.com", "hash-2"); err != ErrEmailExists {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestMemoryUserStorage_ConsumeResetToken(t *testing.T) {
	s := NewMemoryUserStorage()
	ctx := context.Background()

	user, _ := s.CreateUser(ctx, "Alice", "alice@example.com", "old-hash")
	if err := s.SetResetToken(ctx, user.ID, "token-hash", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("set token failed: %v", err)
	}

	consumed, err := s.ConsumeResetToken(ctx, "token-hash", "new-hash")
	if err != nil || consumed == nil {
		t.Fatalf("consume failed: (%v, %v)", consumed, err)
	}

	// Second consume must miss
	again, err := s.ConsumeResetToken(ctx, "token-hash", "newer-hash")
	if err != nil || again != nil {
		t.Fatalf("consumed token must not consume again, got (%v, %v)", again, err)
	}

	byEmail, _ := s.GetUserByEmail(ctx, "alice@example.com")
	if byEmail.PasswordHash != "new-hash" {
		t.Errorf("expected password hash 'new-hash', got '%s'", byEmail.PasswordHash)
	}
	if byEmail.ResetTokenHash != "" || byEmail.ResetTokenExpiresAt != nil {
		t.Error("consume must clear both reset fields")
	}
}

func TestMemoryUserStorage_ExpiredTokenDoesNotConsume(t *testing.T) {
	s := NewMemoryUserStorage()
	ctx := context.Background()

	user, _ := s.CreateUser(ctx, "Alice", "alice@example.com", "old-hash")
	s.SetResetToken(ctx, user.ID, "token-hash", time.Now().Add(-time.Minute))

	if u, _ := s.GetUserByValidResetHash(ctx, "token-hash"); u != nil {
		t.Error("expired token must not match")
	}
	if u, _ := s.ConsumeResetToken(ctx, "token-hash", "new-hash"); u != nil {
		t.Error("expired token must not consume")
	}

	byEmail, _ := s.GetUserByEmail(ctx, "alice@example.com")
	if byEmail.PasswordHash != "old-hash" {
		t.Error("password must be untouched by a failed consume")
	}
}

func TestMemoryWatchlistStorage(t *testing.T) {
	s := NewMemoryWatchlistStorage()
	ctx := context.Background()

	if _, err := s.Add(ctx, "user-1", "AAPL"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := s.Add(ctx, "user-1", "AAPL"); err != ErrAlreadyInWatchlist {
		t.Fatalf("expected ErrAlreadyInWatchlist, got %v", err)
	}

	entries, err := s.ListByUser(ctx, "user-1")
	if err != nil || len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d (%v)", len(entries), err)
	}

	if err := s.Remove(ctx, "user-1", "MSFT"); err != ErrNotInWatchlist {
		t.Fatalf("expected ErrNotInWatchlist, got %v", err)
	}
	if err := s.Remove(ctx, "user-1", "AAPL"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	entries, _ = s.ListByUser(ctx, "user-1")
	if len(entries) != 0 {
		t.Errorf("expected empty watchlist, got %d entries", len(entries))
	}
}

func TestMemoryPredictionStorage(t *testing.T) {
	s := NewMemoryPredictionStorage()
	ctx := context.Background()

	if _, err := s.Save(ctx, "user-1", "TSLA", 420.69); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := s.Save(ctx, "user-1", "TSLA", 500); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	predictions, err := s.ListByUser(ctx, "user-1")
	if err != nil || len(predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %d (%v)", len(predictions), err)
	}

	other, _ := s.ListByUser(ctx, "user-2")
	if len(other) != 0 {
		t.Error("predictions must be scoped per user")
	}
}
