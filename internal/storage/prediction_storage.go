package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stockbuddy/stockbuddy-api/internal/database"
	"github.com/stockbuddy/stockbuddy-api/internal/models"
)

type PredictionStorage struct {
	db *database.DBManager
}

func NewPredictionStorage(db *database.DBManager) *PredictionStorage {
	return &PredictionStorage{db: db}
}

func (s *PredictionStorage) Save(ctx context.Context, userID, symbol string, predictedPrice float64) (*models.Prediction, error) {
	query := `
		INSERT INTO predictions (id, user_id, symbol, predicted_price, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, symbol, predicted_price, created_at
	`

	var prediction models.Prediction
	err := s.db.Write().QueryRow(ctx, query,
		uuid.New().String(),
		userID,
		symbol,
		predictedPrice,
		time.Now(),
	).Scan(
		&prediction.ID,
		&prediction.UserID,
		&prediction.Symbol,
		&prediction.PredictedPrice,
		&prediction.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to save prediction: %w", err)
	}

	return &prediction, nil
}

func (s *PredictionStorage) ListByUser(ctx context.Context, userID string) ([]*models.Prediction, error) {
	query := `
		SELECT id, user_id, symbol, predicted_price, created_at
		FROM predictions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Read().Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list predictions: %w", err)
	}
	defer rows.Close()

	predictions := make([]*models.Prediction, 0)
	for rows.Next() {
		var prediction models.Prediction
		err := rows.Scan(
			&prediction.ID,
			&prediction.UserID,
			&prediction.Symbol,
			&prediction.PredictedPrice,
			&prediction.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, &prediction)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating prediction rows: %w", err)
	}

	return predictions, nil
}
