package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/clickhouse"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
)

const defaultActivityLimit = 20

// ActivityHandler serves the account's recent security events (logins, reset
// requests) out of the audit store.
type ActivityHandler struct {
	clickhouse *clickhouse.Client
	log        *logger.Logger
}

func NewActivityHandler(chClient *clickhouse.Client) *ActivityHandler {
	return &ActivityHandler{
		clickhouse: chClient,
		log:        logger.New("activity-handler"),
	}
}

type ActivityEntry struct {
	EventType  string    `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`
	IPAddress  string    `json:"ip_address"`
	Browser    string    `json:"browser"`
	OS         string    `json:"os"`
	DeviceType string    `json:"device_type"`
}

func (h *ActivityHandler) GetActivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.GetUserID(r.Context())

	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	events, err := h.clickhouse.GetRecentActivity(r.Context(), userID, limit)
	if err != nil {
		h.log.Error("Failed to fetch activity: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	activity := make([]ActivityEntry, 0, len(events))
	for _, event := range events {
		activity = append(activity, ActivityEntry{
			EventType:  event.EventType,
			OccurredAt: event.OccurredAt,
			IPAddress:  event.IPAddress,
			Browser:    event.Browser,
			OS:         event.OS,
			DeviceType: event.DeviceType,
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"activity": activity,
	})
}
