package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stockbuddy/stockbuddy-api/internal/auth"
	"github.com/stockbuddy/stockbuddy-api/internal/middleware"
	"github.com/stockbuddy/stockbuddy-api/internal/service"
	"github.com/stockbuddy/stockbuddy-api/internal/storage"
)

func newTestAuthStack(t *testing.T) (*AuthHandler, *middleware.AuthMiddleware, *storage.MemoryUserStorage) {
	t.Helper()

	users := storage.NewMemoryUserStorage()
	jwtManager := auth.NewJWTManager("test-secret-key", time.Hour)
	authService := service.NewAuthService(users, jwtManager)
	handler := NewAuthHandler(authService, nil)
	authMw := middleware.NewAuthMiddleware(jwtManager)

	return handler, authMw, users
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)

	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return out
}

func signupUser(t *testing.T, handler *AuthHandler, name, email, password string) string {
	t.Helper()

	rec := postJSON(t, handler.Signup, "/api/auth/signup", SignupRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("signup failed with status %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("signup response missing token")
	}
	return token
}

func TestSignup_Success(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "password123",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Error("expected success to be true")
	}
	if body["token"] == "" || body["token"] == nil {
		t.Error("expected a token in the response")
	}

	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a user object in the response")
	}
	if user["email"] != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got %v", user["email"])
	}
	if _, hasHash := user["password_hash"]; hasHash {
		t.Error("password hash must never appear in responses")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	rec := postJSON(t, handler.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice Again",
		Email:    "alice@example.com",
		Password: "password456",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate email, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Error("expected success to be false")
	}
}

func TestSignup_InvalidEmail(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "not-an-email",
		Password: "password123",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", rec.Code)
	}
}

func TestSignup_ShortPassword(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.Signup, "/api/auth/signup", SignupRequest{
		Name:     "Alice",
		Email:    "alice@example.com",
		Password: "short",
	})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for short password, got %d", rec.Code)
	}
}

func TestLogin_Success(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "password123",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["token"] == "" || body["token"] == nil {
		t.Error("expected a token in the response")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong-password",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for wrong password, got %d", rec.Code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "nobody@example.com",
		Password: "password123",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unknown email, got %d", rec.Code)
	}
}

func TestGetUser_WithValidToken(t *testing.T) {
	handler, authMw, _ := newTestAuthStack(t)
	token := signupUser(t, handler, "Alice", "alice@example.com", "password123")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	authMw.RequireAuth(handler.GetUser)(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	user, ok := body["user"].(map[string]interface{})
	if !ok {
		t.Fatal("expected a user object in the response")
	}
	if user["email"] != "alice@example.com" {
		t.Errorf("expected email 'alice@example.com', got %v", user["email"])
	}
}

func TestGetUser_NoToken(t *testing.T) {
	handler, authMw, _ := newTestAuthStack(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	rec := httptest.NewRecorder()
	authMw.RequireAuth(handler.GetUser)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "No token provided, authorization denied." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestGetUser_InvalidToken(t *testing.T) {
	handler, authMw, _ := newTestAuthStack(t)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	authMw.RequireAuth(handler.GetUser)(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for invalid token, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Invalid or expired token, please login again." {
		t.Errorf("unexpected message: %v", body["message"])
	}
}

func TestForgotPassword_KnownEmail(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "alice@example.com",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if token, _ := body["resetToken"].(string); token == "" {
		t.Error("expected a reset token for a registered email")
	}
}

func TestForgotPassword_UnknownEmail_SameResponse(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	knownRec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	unknownRec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "nobody@example.com",
	})

	if knownRec.Code != unknownRec.Code {
		t.Errorf("status must not reveal account existence: %d vs %d", knownRec.Code, unknownRec.Code)
	}

	knownBody := decodeBody(t, knownRec)
	unknownBody := decodeBody(t, unknownRec)
	if knownBody["message"] != unknownBody["message"] {
		t.Errorf("message must not reveal account existence: %v vs %v", knownBody["message"], unknownBody["message"])
	}
	if _, hasToken := unknownBody["resetToken"]; hasToken {
		t.Error("unknown email must not receive a reset token")
	}
}

func TestResetPassword_FullFlow(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "old-password-1")

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	body := decodeBody(t, rec)
	resetToken, _ := body["resetToken"].(string)
	if resetToken == "" {
		t.Fatal("expected a reset token")
	}

	rec = postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       resetToken,
		NewPassword: "new-password-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for valid reset, got %d: %s", rec.Code, rec.Body.String())
	}

	// Old password no longer works
	rec = postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "old-password-1",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected old password to be rejected, got %d", rec.Code)
	}

	// New password does
	rec = postJSON(t, handler.Login, "/api/auth/login", LoginRequest{
		Email:    "alice@example.com",
		Password: "new-password-1",
	})
	if rec.Code != http.StatusCreated {
		t.Errorf("expected new password to work, got %d", rec.Code)
	}
}

func TestResetPassword_TokenIsSingleUse(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "old-password-1")

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	body := decodeBody(t, rec)
	resetToken, _ := body["resetToken"].(string)

	rec = postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       resetToken,
		NewPassword: "new-password-1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("first reset should succeed, got %d", rec.Code)
	}

	rec = postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       resetToken,
		NewPassword: "new-password-2",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("reusing a consumed token must fail with 400, got %d", rec.Code)
	}
}

func TestResetPassword_MissingFields(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Token: "some-token",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", rec.Code)
	}

	rec = postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		NewPassword: "new-password-1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", rec.Code)
	}
}

func TestResetPassword_BogusToken(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)

	rec := postJSON(t, handler.ResetPassword, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       "deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef",
		NewPassword: "new-password-1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bogus token, got %d", rec.Code)
	}
}

func TestValidateResetToken(t *testing.T) {
	handler, _, _ := newTestAuthStack(t)
	signupUser(t, handler, "Alice", "alice@example.com", "password123")

	rec := postJSON(t, handler.ForgotPassword, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "alice@example.com",
	})
	body := decodeBody(t, rec)
	resetToken, _ := body["resetToken"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/reset-password/"+resetToken, nil)
	validRec := httptest.NewRecorder()
	handler.ValidateResetToken(validRec, req)
	if validRec.Code != http.StatusOK {
		t.Errorf("expected 200 for valid token, got %d", validRec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/auth/reset-password/not-a-token", nil)
	invalidRec := httptest.NewRecorder()
	handler.ValidateResetToken(invalidRec, req)
	if invalidRec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bogus token, got %d", invalidRec.Code)
	}
}
