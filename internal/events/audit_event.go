package events

const (
	EventSignup                 = "signup"
	EventLoginSuccess           = "login_success"
	EventLoginFailed            = "login_failed"
	EventPasswordResetRequested = "password_reset_requested"
	EventPasswordResetCompleted = "password_reset_completed"
)

type AuditEvent struct {
	Type      string
	UserID    string
	Email     string
	Timestamp int64
	IP        string
	UserAgent string
}
