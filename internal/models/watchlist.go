package models

import "time"

type WatchlistEntry struct {
	ID      string    `json:"id"`
	UserID  string    `json:"-"`
	Symbol  string    `json:"symbol"`
	AddedAt time.Time `json:"added_at"`
}

type Prediction struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	Symbol         string    `json:"symbol"`
	PredictedPrice float64   `json:"predicted_price"`
	CreatedAt      time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
