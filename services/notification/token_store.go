package notification

import (
	"context"
	"errors"
	"fmt"

	"spabook/utils"

	"github.com/go-redis/redis/v8"
)

// TokenStore is the Redis registry of push tokens and explicit refusals.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore wraps a Redis client.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Register stores a device token and clears any earlier refusal.
func (s *TokenStore) Register(ctx context.Context, recipientID, token string) error {
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, utils.PushTokenPrefix+recipientID, token, utils.PushTokenTTL)
	pipe.Del(ctx, utils.PushDeniedPrefix+recipientID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("register push token for %s: %w", recipientID, err)
	}
	return nil
}

// Revoke drops the token and records that the recipient refused push.
func (s *TokenStore) Revoke(ctx context.Context, recipientID string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, utils.PushTokenPrefix+recipientID)
	pipe.Set(ctx, utils.PushDeniedPrefix+recipientID, "1", utils.PushTokenTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("revoke push token for %s: %w", recipientID, err)
	}
	return nil
}

// Lookup returns the recipient's token and the permission it implies.
func (s *TokenStore) Lookup(ctx context.Context, recipientID string) (string, PermissionState, error) {
	token, err := s.client.Get(ctx, utils.PushTokenPrefix+recipientID).Result()
	if err == nil && token != "" {
		return token, PermissionGranted, nil
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", PermissionDefault, fmt.Errorf("lookup push token for %s: %w", recipientID, err)
	}

	denied, err := s.client.Exists(ctx, utils.PushDeniedPrefix+recipientID).Result()
	if err != nil {
		return "", PermissionDefault, fmt.Errorf("lookup push refusal for %s: %w", recipientID, err)
	}
	if denied > 0 {
		return "", PermissionDenied, nil
	}
	return "", PermissionDefault, nil
}
