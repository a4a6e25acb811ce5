package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/legilight/backend/internal/metrics"
	"github.com/legilight/backend/internal/storage/models"
	"github.com/legilight/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

func NewClient(host string, port int, password string, db int, ttl time.Duration) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client, ttl: ttl}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

func (c *Client) SetRecord(ctx context.Context, record *models.AnalysisRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := c.client.Set(ctx, recordKey(record.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache record: %w", err)
	}
	return nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*models.AnalysisRecord, bool, error) {
	data, err := c.client.Get(ctx, recordKey(id)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("record").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read record cache: %w", err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}

	metrics.CacheHits.WithLabelValues("record").Inc()
	return &record, true, nil
}

func (c *Client) DeleteRecord(ctx context.Context, id string) error {
	return c.client.Del(ctx, recordKey(id)).Err()
}

func (c *Client) SetSummaries(ctx context.Context, limit int, summaries []models.RecordSummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}

	if err := c.client.Set(ctx, summariesKey(limit), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache summaries: %w", err)
	}
	return nil
}

func (c *Client) GetSummaries(ctx context.Context, limit int) ([]models.RecordSummary, bool, error) {
	data, err := c.client.Get(ctx, summariesKey(limit)).Bytes()
	if err == redis.Nil {
		metrics.CacheMisses.WithLabelValues("summaries").Inc()
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read summaries cache: %w", err)
	}

	var summaries []models.RecordSummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached summaries: %w", err)
	}

	metrics.CacheHits.WithLabelValues("summaries").Inc()
	return summaries, true, nil
}

// InvalidateSummaries drops every cached listing; called after a record is
// created or deleted.
func (c *Client) InvalidateSummaries(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "summaries:*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Warn("Failed to delete cache key", zap.Error(err))
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to iterate cache keys: %w", err)
	}
	return nil
}

func recordKey(id string) string {
	return "record:" + id
}

func summariesKey(limit int) string {
	return fmt.Sprintf("summaries:%d", limit)
}
