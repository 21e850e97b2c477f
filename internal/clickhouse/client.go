package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stockbuddy/stockbuddy-api/internal/config"
)

type Client struct {
	conn driver.Conn
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      time.Second * 30,
		MaxOpenConns:     cfg.MaxConns,
		MaxIdleConns:     cfg.MaxConns / 2,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return &Client{conn: conn}, nil
}

func (c *Client) Close() error {
	return c.conn.Close()
}

type AuditEvent struct {
	EventID    string
	EventType  string
	UserID     string
	Email      string
	OccurredAt time.Time

	IPAddress      string
	UserAgent      string
	Browser        string
	BrowserVersion string
	OS             string
	DeviceType     string
}

func (c *Client) InsertAuditEvents(ctx context.Context, events []AuditEvent) error {
	if len(events) == 0 {
		return nil
	}

	batch, err := c.conn.PrepareBatch(ctx, `INSERT INTO security.audit_events (
		event_id, event_type, user_id, email, occurred_at,
		ip_address, user_agent, browser, browser_version, os, device_type
	)`)
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, event := range events {
		err := batch.Append(
			event.EventID,
			event.EventType,
			event.UserID,
			event.Email,
			event.OccurredAt,
			event.IPAddress,
			event.UserAgent,
			event.Browser,
			event.BrowserVersion,
			event.OS,
			event.DeviceType,
		)
		if err != nil {
			return fmt.Errorf("failed to append event: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// GetRecentActivity returns the latest audit events for a single user, newest
// first.
func (c *Client) GetRecentActivity(ctx context.Context, userID string, limit int) ([]AuditEvent, error) {
	query := `
		SELECT
			event_id, event_type, user_id, email, occurred_at,
			ip_address, user_agent, browser, browser_version, os, device_type
		FROM security.audit_events
		WHERE user_id = ?
		ORDER BY occurred_at DESC
		LIMIT ?
	`

	rows, err := c.conn.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var event AuditEvent
		err := rows.Scan(
			&event.EventID,
			&event.EventType,
			&event.UserID,
			&event.Email,
			&event.OccurredAt,
			&event.IPAddress,
			&event.UserAgent,
			&event.Browser,
			&event.BrowserVersion,
			&event.OS,
			&event.DeviceType,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit event: %w", err)
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return events, nil
}
