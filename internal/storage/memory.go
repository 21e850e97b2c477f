package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stockbuddy/stockbuddy-api/internal/models"
	usermodel "github.com/stockbuddy/stockbuddy-api/internal/models/user"
)

// In-memory store implementations, used by tests and local development.

type MemoryUserStorage struct {
	mu    sync.RWMutex
	users map[string]*usermodel.User // keyed by user ID
}

func NewMemoryUserStorage() *MemoryUserStorage {
	return &MemoryUserStorage{
		users: make(map[string]*usermodel.User),
	}
}

func (s *MemoryUserStorage) CreateUser(ctx context.Context, name, email, passwordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == email {
			return nil, ErrEmailExists
		}
	}

	now := time.Now()
	user := &usermodel.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[user.ID] = user

	return copyUser(user), nil
}

func (s *MemoryUserStorage) GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}

	return nil, nil
}

func (s *MemoryUserStorage) GetUserByID(ctx context.Context, userID string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, exists := s.users[userID]
	if !exists {
		return nil, nil
	}

	out := copyUser(u)
	out.PasswordHash = ""
	return out, nil
}

func (s *MemoryUserStorage) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, exists := s.users[userID]; exists {
		u.PasswordHash = passwordHash
		u.UpdatedAt = time.Now()
	}

	return nil
}

func (s *MemoryUserStorage) SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u, exists := s.users[userID]; exists {
		u.ResetTokenHash = tokenHash
		u.ResetTokenExpiresAt = &expiresAt
		u.UpdatedAt = time.Now()
	}

	return nil
}

func (s *MemoryUserStorage) GetUserByValidResetHash(ctx context.Context, tokenHash string) (*usermodel.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ResetTokenHash == tokenHash && u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(time.Now()) {
			return copyUser(u), nil
		}
	}

	return nil, nil
}

func (s *MemoryUserStorage) ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*usermodel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.ResetTokenHash == tokenHash && u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(time.Now()) {
			u.PasswordHash = newPasswordHash
			u.ResetTokenHash = ""
			u.ResetTokenExpiresAt = nil
			u.UpdatedAt = time.Now()
			return copyUser(u), nil
		}
	}

	return nil, nil
}

func copyUser(u *usermodel.User) *usermodel.User {
	out := *u
	if u.ResetTokenExpiresAt != nil {
		expiry := *u.ResetTokenExpiresAt
		out.ResetTokenExpiresAt = &expiry
	}
	return &out
}

type MemoryWatchlistStorage struct {
	mu      sync.RWMutex
	entries map[string][]*models.WatchlistEntry // keyed by user ID
}

func NewMemoryWatchlistStorage() *MemoryWatchlistStorage {
	return &MemoryWatchlistStorage{
		entries: make(map[string][]*models.WatchlistEntry),
	}
}

func (s *MemoryWatchlistStorage) ListByUser(ctx context.Context, userID string) ([]*models.WatchlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]*models.WatchlistEntry, 0, len(s.entries[userID]))
	entries = append(entries, s.entries[userID]...)
	return entries, nil
}

func (s *MemoryWatchlistStorage) Add(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries[userID] {
		if entry.Symbol == symbol {
			return nil, ErrAlreadyInWatchlist
		}
	}

	entry := &models.WatchlistEntry{
		ID:      uuid.New().String(),
		UserID:  userID,
		Symbol:  symbol,
		AddedAt: time.Now(),
	}
	s.entries[userID] = append(s.entries[userID], entry)

	return entry, nil
}

func (s *MemoryWatchlistStorage) Remove(ctx context.Context, userID, symbol string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.entries[userID]
	for i, entry := range entries {
		if entry.Symbol == symbol {
			s.entries[userID] = append(entries[:i], entries[i+1:]...)
			return nil
		}
	}

	return ErrNotInWatchlist
}

type MemoryPredictionStorage struct {
	mu          sync.RWMutex
	predictions map[string][]*models.Prediction // keyed by user ID
}

func NewMemoryPredictionStorage() *MemoryPredictionStorage {
	return &MemoryPredictionStorage{
		predictions: make(map[string][]*models.Prediction),
	}
}

func (s *MemoryPredictionStorage) Save(ctx context.Context, userID, symbol string, predictedPrice float64) (*models.Prediction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	prediction := &models.Prediction{
		ID:             uuid.New().String(),
		UserID:         userID,
		Symbol:         symbol,
		PredictedPrice: predictedPrice,
		CreatedAt:      time.Now(),
	}
	s.predictions[userID] = append(s.predictions[userID], prediction)

	return prediction, nil
}

func (s *MemoryPredictionStorage) ListByUser(ctx context.Context, userID string) ([]*models.Prediction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	predictions := make([]*models.Prediction, 0, len(s.predictions[userID]))
	predictions = append(predictions, s.predictions[userID]...)
	return predictions, nil
}
