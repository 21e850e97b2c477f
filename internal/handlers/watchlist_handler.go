package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
	"github.com/stockbuddy/stockbuddy-api/internal/service"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

type WatchlistHandler struct {
	watchlistService *service.WatchlistService
	log              *logger.Logger
}

func NewWatchlistHandler(watchlistService *service.WatchlistService) *WatchlistHandler {
	return &WatchlistHandler{
		watchlistService: watchlistService,
		log:              logger.New("watchlist-handler"),
	}
}

type SymbolRequest struct {
	Symbol string `json:"symbol"`
}

func (h *WatchlistHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.GetUserID(r.Context())

	entries, err := h.watchlistService.List(r.Context(), userID)
	if err != nil {
		h.log.Error("Failed to list watchlist: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"watchlist": entries,
	})
}

func (h *WatchlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SymbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())

	entry, err := h.watchlistService.Add(r.Context(), userID, req.Symbol)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrAlreadyInWatchlist):
			respondError(w, http.StatusBadRequest, "Stock already in watchlist.")
		default:
			h.log.Error("Failed to add to watchlist: %v", err)
			respondError(w, http.StatusInternalServerError, "Server Error")
		}
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "Stock added to watchlist.",
		"entry":   entry,
	})
}

func (h *WatchlistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SymbolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := middleware.GetUserID(r.Context())

	if err := h.watchlistService.Remove(r.Context(), userID, req.Symbol); err != nil {
		switch {
		case validation.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, storage.ErrNotInWatchlist):
			respondError(w, http.StatusNotFound, "Stock not found in your watchlist.")
		default:
			h.log.Error("Failed to remove from watchlist: %v", err)
			respondError(w, http.StatusInternalServerError, "Server Error")
		}
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Stock removed from watchlist.",
	})
}
