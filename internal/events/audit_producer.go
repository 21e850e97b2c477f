package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// AuditProducer publishes authentication audit events to a Redis stream for
// the audit worker to drain into ClickHouse.
type AuditProducer struct {
	client     *redis.Client
	streamName string
}

func NewAuditProducer(client *redis.Client, streamName string) *AuditProducer {
	return &AuditProducer{
		client:     client,
		streamName: streamName,
	}
}

func (p *AuditProducer) Publish(ctx context.Context, event *AuditEvent) error {
	fields := map[string]interface{}{
		"type":      event.Type,
		"timestamp": event.Timestamp,
	}

	if event.UserID != "" {
		fields["user_id"] = event.UserID
	}
	if event.Email != "" {
		fields["email"] = event.Email
	}
	if event.IP != "" {
		fields["ip"] = event.IP
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		Values: fields,
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	return nil
}

func (p *AuditProducer) StreamLength(ctx context.Context) (int64, error) {
	result := p.client.XLen(ctx, p.streamName)
	return result.Val(), result.Err()
}
