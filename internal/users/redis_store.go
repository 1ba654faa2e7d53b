package users

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"
	"github.com/redis/go-redis/v9/maintnotifications"

	"github.com/usersapi/users-api/internal/config"
)

// NewRedisClient creates a client for cfg without connecting. Maintenance
// notifications are off since the store talks to a single plain node.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.Database,
		MaintNotificationsConfig: &maintnotifications.Config{
			Mode: maintnotifications.ModeDisabled,
		},
	})
}

// RedisStore implements UserStore on a single Redis hash mapping
// userId to name.
type RedisStore struct {
	client   *redis.Client
	key      string
	pageSize int64
}

// NewRedisStore creates a store keeping its users in the hash at key.
func NewRedisStore(client *redis.Client, key string, pageSize int64) *RedisStore {
	if pageSize <= 0 {
		pageSize = 100
	}
	return &RedisStore{
		client:   client,
		key:      key,
		pageSize: pageSize,
	}
}

func (s *RedisStore) GetUser(ctx context.Context, userID string) (*User, error) {
	name, err := s.client.HGet(ctx, s.key, userID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis hget failed: %w", err)
	}
	return &User{UserID: userID, Name: name}, nil
}

func (s *RedisStore) PutUser(ctx context.Context, user *User) error {
	if err := s.client.HSet(ctx, s.key, user.UserID, user.Name).Err(); err != nil {
		return fmt.Errorf("redis hset failed: %w", err)
	}
	return nil
}

func (s *RedisStore) DeleteUser(ctx context.Context, userID string) error {
	if err := s.client.HDel(ctx, s.key, userID).Err(); err != nil {
		return fmt.Errorf("redis hdel failed: %w", err)
	}
	return nil
}

// ScanUsers follows the HSCAN cursor until Redis reports it exhausted.
// HSCAN may return a field more than once, so results are deduplicated.
func (s *RedisStore) ScanUsers(ctx context.Context) ([]*User, error) {
	seen := make(map[string]struct{})
	result := make([]*User, 0)

	var cursor uint64
	for {
		kv, next, err := s.client.HScan(ctx, s.key, cursor, "", s.pageSize).Result()
		if err != nil {
			return nil, fmt.Errorf("redis hscan failed: %w", err)
		}
		// kv alternates field, value
		for i := 0; i+1 < len(kv); i += 2 {
			if _, dup := seen[kv[i]]; dup {
				continue
			}
			seen[kv[i]] = struct{}{}
			result = append(result, &User{UserID: kv[i], Name: kv[i+1]})
		}
		if next == 0 {
			return result, nil
		}
		cursor = next
	}
}
