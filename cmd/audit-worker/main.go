package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stockbuddy/stockbuddy-api/internal/clickhouse"
	"github.com/stockbuddy/stockbuddy-api/internal/config"
	"github.com/stockbuddy/stockbuddy-api/internal/enrichment"
	"github.com/stockbuddy/stockbuddy-api/internal/logger"
	"github.com/stockbuddy/stockbuddy-api/internal/redis"
)

var (
	log           *logger.Logger
	streamName    string
	consumerGroup string
	consumerName  string
	batchSize     int
	pollInterval  time.Duration
	blockTime     time.Duration
)

func main() {
	log = logger.New("audit-worker")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: %v", err)
	}

	streamName = cfg.Redis.AuditStream
	consumerGroup = cfg.Audit.ConsumerGroup
	consumerName = cfg.Audit.ConsumerName
	batchSize = cfg.Audit.BatchSize
	pollInterval = cfg.Audit.PollInterval
	blockTime = cfg.Audit.BlockTime

	ctx := context.Background()

	redisClient, err := redis.NewRedisClient(ctx, redis.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	chClient, err := clickhouse.NewClient(cfg.ClickHouse)
	if err != nil {
		log.Fatal("Failed to connect to ClickHouse: %v", err)
	}
	defer chClient.Close()

	err = redisClient.GetClient().XGroupCreateMkStream(ctx, streamName, consumerGroup, "0").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		log.Fatal("Failed to create consumer group: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	log.Info("Processing audit events")
	go processEvents(ctx, redisClient.GetClient(), chClient)

	<-sigChan
	log.Info("Shutting down")
}

func processEvents(ctx context.Context, client *redislib.Client, chClient *clickhouse.Client) {
	for {
		messages, err := client.XReadGroup(ctx, &redislib.XReadGroupArgs{
			Group:    consumerGroup,
			Consumer: consumerName,
			Streams:  []string{streamName, ">"},
			Count:    int64(batchSize),
			Block:    blockTime,
		}).Result()

		if err != nil {
			if err == redislib.Nil {
				continue
			}
			log.Error("Failed to read from stream: %v", err)
			time.Sleep(pollInterval)
			continue
		}

		for _, stream := range messages {
			if len(stream.Messages) == 0 {
				continue
			}

			events := make([]clickhouse.AuditEvent, 0, len(stream.Messages))
			messageIDs := make([]string, 0, len(stream.Messages))

			for _, msg := range stream.Messages {
				event, ok := parseMessage(msg)
				if !ok {
					log.Warn("Invalid message format: %v", msg.ID)
					continue
				}

				events = append(events, event)
				messageIDs = append(messageIDs, msg.ID)
			}

			if len(events) > 0 {
				if err := chClient.InsertAuditEvents(ctx, events); err != nil {
					log.Error("Failed to insert audit events: %v", err)
					continue
				}
				log.Debug("Processed %d audit events", len(events))
			}

			if len(messageIDs) > 0 {
				if err := acknowledgeMessages(ctx, client, messageIDs); err != nil {
					log.Error("Failed to acknowledge messages: %v", err)
				}
			}
		}
	}
}

func parseMessage(msg redislib.XMessage) (clickhouse.AuditEvent, bool) {
	eventType, ok := msg.Values["type"].(string)
	if !ok {
		return clickhouse.AuditEvent{}, false
	}

	event := clickhouse.AuditEvent{
		EventID:    uuid.New().String(),
		EventType:  eventType,
		UserID:     stringField(msg, "user_id"),
		Email:      stringField(msg, "email"),
		OccurredAt: time.Now(),
		IPAddress:  stringField(msg, "ip"),
		UserAgent:  stringField(msg, "user_agent"),
	}

	if raw := stringField(msg, "timestamp"); raw != "" {
		if ts, err := strconv.ParseInt(raw, 10, 64); err == nil {
			event.OccurredAt = time.Unix(ts, 0)
		}
	}

	if event.UserAgent != "" {
		ua := enrichment.ParseUserAgent(event.UserAgent)
		event.Browser = ua.Browser
		event.BrowserVersion = ua.BrowserVersion
		event.OS = ua.OS
		event.DeviceType = ua.DeviceType
	}

	return event, true
}

func stringField(msg redislib.XMessage, key string) string {
	if v, ok := msg.Values[key].(string); ok {
		return v
	}
	return ""
}

func acknowledgeMessages(ctx context.Context, client *redislib.Client, messageIDs []string) error {
	return client.XAck(ctx, streamName, consumerGroup, messageIDs...).Err()
}
