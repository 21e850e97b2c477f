package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
	"github.com/stockbuddy/stockbuddy-api/internal/service"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

type PredictionHandler struct {
	predictionService *service.PredictionService
	log               *logger.Logger
}

func NewPredictionHandler(predictionService *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		predictionService: predictionService,
		log:               logger.New("prediction-handler"),
	}
}

type AddPredictionRequest struct {
	Symbol         string  `json:"symbol"`
	PredictedPrice float64 `json:"predictedPrice"`
}

func (h *PredictionHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AddPredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())

	prediction, err := h.predictionService.Save(r.Context(), userID, req.Symbol, req.PredictedPrice)
	if err != nil {
		switch {
		case validation.IsValidationError(err), errors.Is(err, service.ErrPredictedPriceRequired):
			respondError(w, http.StatusBadRequest, "Symbol and predictedPrice are required.")
		default:
			h.log.Error("Failed to save prediction: %v", err)
			respondError(w, http.StatusInternalServerError, "Server Error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success":    true,
		"message":    "Prediction saved successfully.",
		"prediction": prediction,
	})
}

func (h *PredictionHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.GetUserID(r.Context())

	predictions, err := h.predictionService.List(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list predictions: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"predictions": predictions,
	})
}
