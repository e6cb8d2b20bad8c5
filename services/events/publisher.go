// Package events publishes booking events for the presentation layer.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"spabook/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Publisher emits fire-and-forget booking events.
type Publisher interface {
	Publish(ctx context.Context, event models.BookingEvent) error
}

// RedisPublisher publishes events on a Redis pub/sub channel.
type RedisPublisher struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger
}

// NewRedisPublisher builds a publisher for channel.
func NewRedisPublisher(client *redis.Client, channel string, logger *zap.Logger) *RedisPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPublisher{client: client, channel: channel, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, event models.BookingEvent) error {
	if event.At == "" {
		event.At = time.Now().UTC().Format(time.RFC3339Nano)
	}
	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode booking event: %w", err)
	}
	receivers, err := p.client.Publish(ctx, p.channel, b).Result()
	if err != nil {
		return fmt.Errorf("publish %s for %s: %w", event.Type, event.BookingID, err)
	}
	p.logger.Debug("Booking event published",
		zap.String("type", event.Type),
		zap.String("bookingId", event.BookingID),
		zap.Int64("receivers", receivers),
	)
	return nil
}

// Subscribe streams decoded events until ctx is done. Malformed payloads are skipped.
func (p *RedisPublisher) Subscribe(ctx context.Context) (<-chan models.BookingEvent, error) {
	sub := p.client.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", p.channel, err)
	}

	out := make(chan models.BookingEvent)
	go func() {
		defer close(out)
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var evt models.BookingEvent
				if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
					p.logger.Warn("Dropping malformed booking event", zap.Error(err))
					continue
				}
				select {
				case out <- evt:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
