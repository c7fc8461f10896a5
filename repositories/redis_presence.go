package repositories

import (
	"context"
	"errors"
	"fmt"
	"kerek/contract"
	"kerek/domain"
	"time"

	"github.com/redis/go-redis/v9"
)

var _ contract.PresenceStore = (*RedisPresenceRepository)(nil)

// RedisPresenceRepository keeps user status in a redis hash so several relay
// instances can share it.
type RedisPresenceRepository struct {
	client *redis.Client
}

func NewRedisPresenceRepository(ctx context.Context, redisURL string) (*RedisPresenceRepository, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisPresenceRepository{client: client}, nil
}

func (r *RedisPresenceRepository) Close() error {
	return r.client.Close()
}

func redisPresenceKey(user domain.UserID) string {
	return fmt.Sprintf("presence:%s", user)
}

func (r *RedisPresenceRepository) SetUserOnline(ctx context.Context, user domain.UserID, online bool) error {
	err := r.client.HSet(ctx, redisPresenceKey(user),
		"online", online,
		"updatedAt", time.Now().Unix(),
	).Err()
	if err != nil {
		return fmt.Errorf("set presence of %s: %w", user, err)
	}
	return nil
}

func (r *RedisPresenceRepository) GetUserStatus(ctx context.Context, user domain.UserID) (UserStatus, error) {
	var status UserStatus
	values, err := r.client.HMGet(ctx, redisPresenceKey(user), "online", "updatedAt").Result()
	if errors.Is(err, redis.Nil) {
		return status, nil
	}
	if err != nil {
		return status, err
	}
	if online, ok := values[0].(string); ok {
		status.Online = online == "1" || online == "true"
	}
	if at, ok := values[1].(string); ok {
		_, _ = fmt.Sscan(at, &status.UpdatedAt)
	}
	return status, nil
}
