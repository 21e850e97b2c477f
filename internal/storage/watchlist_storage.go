package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stockbuddy/stockbuddy-api/internal/database"
	"github.com/stockbuddy/stockbuddy-api/internal/models"
)

type WatchlistStorage struct {
	db *database.DBManager
}

func NewWatchlistStorage(db *database.DBManager) *WatchlistStorage {
	return &WatchlistStorage{db: db}
}

func (s *WatchlistStorage) ListByUser(ctx context.Context, userID string) ([]*models.WatchlistEntry, error) {
	query := `
		SELECT id, user_id, symbol, added_at
		FROM watchlist
		WHERE user_id = $1
		ORDER BY added_at DESC
	`

	rows, err := s.db.Read().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list watchlist: %w", err)
	}
	defer rows.Close()

	entries := make([]*models.WatchlistEntry, 0)
	for rows.Next() {
		var entry models.WatchlistEntry
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Symbol, &entry.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist rows: %w", err)
	}

	return entries, nil
}

func (s *WatchlistStorage) Add(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error) {
	query := `
		INSERT INTO watchlist (id, user_id, symbol, added_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, symbol, added_at
	`

	var entry models.WatchlistEntry
	err := s.db.Write().QueryRow(ctx, query, uuid.New().String(), userID, symbol, time.Now()).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Symbol,
		&entry.AddedAt,
	)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrAlreadyInWatchlist
		}
		return nil, fmt.Errorf("failed to add to watchlist: %w", err)
	}

	return &entry, nil
}

func (s *WatchlistStorage) Remove(ctx context.Context, userID, symbol string) error {
	query := `
		DELETE FROM watchlist
		WHERE user_id = $1 AND symbol = $2
	`

	tag, err := s.db.Write().Exec(ctx, query, userID, symbol)
	if err != nil {
		return fmt.Errorf("failed to remove from watchlist: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotInWatchlist
	}

	return nil
}
