package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/events"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
	"github.com/stockbuddy/stockbuddy-api/internal/service"
	"github.com/stockbuddy/stockbuddy-api/internal/validation"
)

type AuthHandler struct {
	authService *service.AuthService
	audit       *events.AuditProducer
	log         *logger.Logger
}

func NewAuthHandler(authService *service.AuthService, audit *events.AuditProducer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		audit:       audit,
		log:         logger.New("auth-handler"),
	}
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

type UserPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    UserPayload `json:"user"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Signup(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case validation.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailExists):
			respondError(w, http.StatusBadRequest, "User already exists")
		default:
			h.log.Error("Signup failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Server error during signup")
		}
		return
	}

	h.publishAudit(r, events.EventSignup, result.User.ID, result.User.Email)

	respondJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Token:   result.Token,
		User: UserPayload{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
		},
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			h.publishAudit(r, events.EventLoginFailed, "", req.Email)
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.log.Error("Login failed: %v", err)
		respondError(w, http.StatusServiceUnavailable, "Service temporarily unavailable")
		return
	}

	h.publishAudit(r, events.EventLoginSuccess, result.User.ID, result.User.Email)

	respondJSON(w, http.StatusCreated, AuthResponse{
		Success: true,
		Token:   result.Token,
		User: UserPayload{
			ID:    result.User.ID,
			Name:  result.User.Name,
			Email: result.User.Email,
		},
	})
}

func (h *AuthHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	userID := middleware.GetUserID(r.Context())

	user, err := h.authService.GetUser(r.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, "User not found.")
			return
		}
		h.log.Error("Failed to fetch user: %v", err)
		respondError(w, http.StatusInternalServerError, "Server Error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resetToken, err := h.authService.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		h.log.Error("Password reset request failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error processing password reset request.")
		return
	}

	if resetToken != "" {
		h.publishAudit(r, events.EventPasswordResetRequested, "", req.Email)
	}

	// Same message whether or not the email is registered. The plaintext
	// token rides along until email delivery is wired up; it is never stored.
	resp := map[string]interface{}{
		"success": true,
		"message": "If an account with that email exists, you will receive a reset link.",
	}
	if resetToken != "" {
		resp["resetToken"] = resetToken
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		respondError(w, http.StatusBadRequest, "Token and new password are required.")
		return
	}

	if err := h.authService.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken):
			respondError(w, http.StatusBadRequest, "Password reset token is invalid or has expired.")
		case validation.IsValidationError(err):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.log.Error("Password reset failed: %v", err)
			respondError(w, http.StatusInternalServerError, "Error resetting password.")
		}
		return
	}

	h.publishAudit(r, events.EventPasswordResetCompleted, "", "")

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password has been reset successfully.",
	})
}

func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	token := strings.TrimPrefix(r.URL.Path, "/api/auth/reset-password/")
	if token == "" || strings.Contains(token, "/") {
		respondError(w, http.StatusBadRequest, "Invalid or expired token.")
		return
	}

	if err := h.authService.ValidateResetToken(r.Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidOrExpiredToken) {
			respondError(w, http.StatusBadRequest, "Invalid or expired token.")
			return
		}
		h.log.Error("Reset token validation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "Error validating token.")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Token is valid.",
	})
}

// publishAudit is best-effort: audit pipeline failures never fail the request.
func (h *AuthHandler) publishAudit(r *http.Request, eventType, userID, email string) {
	if h.audit == nil {
		return
	}

	event := &events.AuditEvent{
		Type:      eventType,
		UserID:    userID,
		Email:     email,
		Timestamp: time.Now().Unix(),
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
	}

	if err := h.audit.Publish(r.Context(), event); err != nil {
		h.log.Warn("Failed to publish audit event: %v", err)
	}
}
