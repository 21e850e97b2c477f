package service

import (
	"context"
	"errors"
	"strings"

	"github.com/stockbuddy/stockbuddy-api/internal/models"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

var ErrPredictedPriceRequired = errors.New("predictedPrice must be greater than zero")

type PredictionService struct {
	predictions storage.PredictionStore
}

func NewPredictionService(predictions storage.PredictionStore) *PredictionService {
	return &PredictionService{predictions: predictions}
}

func (s *PredictionService) Save(ctx context.Context, userID, symbol string, predictedPrice float64) (*models.Prediction, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if err := validation.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if predictedPrice <= 0 {
		return nil, ErrPredictedPriceRequired
	}

	return s.predictions.Save(ctx, userID, symbol, predictedPrice)
}

func (s *PredictionService) List(ctx context.Context, userID string) ([]*models.Prediction, error) {
	return s.predictions.ListByUser(ctx, userID)
}
