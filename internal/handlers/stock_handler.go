package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/marketdata"
)

const defaultOutputSize = 30

type StockHandler struct {
	market *marketdata.Client
	log    *logger.Logger
}

func NewStockHandler(market *marketdata.Client) *StockHandler {
	return &StockHandler{
		market: market,
		log:    logger.New("stock-handler"),
	}
}

func (h *StockHandler) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		respondError(w, http.StatusBadRequest, `Query parameter "q" is required.`)
		return
	}

	matches, err := h.market.SearchSymbols(r.Context(), query)
	if err != nil {
		if errors.Is(err, marketdata.ErrUpstream) {
			h.log.Warn("Symbol search rejected upstream: %v", err)
			respondError(w, http.StatusBadGateway, "Market data provider error.")
			return
		}
		h.log.Error("Symbol search failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"results": matches,
	})
}

func (h *StockHandler) TimeSeries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	symbol := r.URL.Query().Get("symbol")
	interval := r.URL.Query().Get("interval")
	if symbol == "" || interval == "" {
		respondError(w, http.StatusBadRequest, `Query parameters "symbol" and "interval" are required.`)
		return
	}

	outputSize := defaultOutputSize
	if raw := r.URL.Query().Get("outputsize"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			outputSize = n
		}
	}

	candles, err := h.market.TimeSeries(r.Context(), symbol, interval, outputSize)
	if err != nil {
		if errors.Is(err, marketdata.ErrUpstream) {
			h.log.Warn("Time series rejected upstream: %v", err)
			respondError(w, http.StatusBadGateway, "Market data provider error.")
			return
		}
		h.log.Error("Time series fetch failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"symbol":     symbol,
		"interval":   interval,
		"timeSeries": candles,
	})
}
