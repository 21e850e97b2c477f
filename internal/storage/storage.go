package storage

import (
	"context"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/models"
	usermodel "github.com/stockbuddy/stockbuddy-api/internal/models/user"
)

// UserStore is the credential store. Lookup misses return (nil, nil); errors
// are reserved for the store itself being unavailable or misbehaving.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*usermodel.User, error)
	GetUserByEmail(ctx context.Context, email string) (*usermodel.User, error)
	GetUserByID(ctx context.Context, userID string) (*usermodel.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetResetToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetUserByValidResetHash(ctx context.Context, tokenHash string) (*usermodel.User, error)

	// ConsumeResetToken atomically sets the new password hash and clears both
	// reset fields, but only if the stored hash matches and has not expired.
	// Returns (nil, nil) when no record qualifies.
	ConsumeResetToken(ctx context.Context, tokenHash, newPasswordHash string) (*usermodel.User, error)
}

type WatchlistStore interface {
	ListByUser(ctx context.Context, userID string) ([]*models.WatchlistEntry, error)
	Add(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error)
	Remove(ctx context.Context, userID, symbol string) error
}

type PredictionStore interface {
	Save(ctx context.Context, userID, symbol string, predictedPrice float64) (*models.Prediction, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Prediction, error)
}
