package service

import (
	"context"
	"strings"

	"github.com/stockbuddy/stockbuddy-api/internal/models"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

type WatchlistService struct {
	watchlist storage.WatchlistStore
}

func NewWatchlistService(watchlist storage.WatchlistStore) *WatchlistService {
	return &WatchlistService{watchlist: watchlist}
}

func (s *WatchlistService) List(ctx context.Context, userID string) ([]*models.WatchlistEntry, error) {
	return s.watchlist.ListByUser(ctx, userID)
}

func (s *WatchlistService) Add(ctx context.Context, userID, symbol string) (*models.WatchlistEntry, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validation.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	return s.watchlist.Add(ctx, userID, symbol)
}

func (s *WatchlistService) Remove(ctx context.Context, userID, symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validation.ValidateSymbol(symbol); err != nil {
		return err
	}

	return s.watchlist.Remove(ctx, userID, symbol)
}
