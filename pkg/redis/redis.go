package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/veissa/tiredOfLife/config"
	"github.com/veissa/tiredOfLife/pkg/logger"
)

const blacklistPrefix = "blacklist:"

// Blacklist records revoked bearer tokens until they would have expired anyway.
type Blacklist struct {
	client *redis.Client
}

// Connect opens a client and pings it.
func Connect(ctx context.Context, cfg *config.RedisConfig) (*Blacklist, error) {
	logger.Info("Initializing Redis connection", logger.Fields{
		"addr": cfg.Addr(),
		"db":   cfg.DB,
	})

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, logger.Fields{"addr": cfg.Addr()})
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully")
	return NewBlacklist(client), nil
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

func (b *Blacklist) Close() error {
	logger.Info("Closing Redis connection")
	return b.client.Close()
}

func blacklistKey(token string) string {
	return blacklistPrefix + token
}

// Revoke blacklists token for ttl. A non-positive ttl is a no-op since the
// token is already unusable.
func (b *Blacklist) Revoke(ctx context.Context, token string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	logger.Debug("Adding token to blacklist", logger.Fields{"ttl": ttl.String()})

	if err := b.client.Set(ctx, blacklistKey(token), "revoked", ttl).Err(); err != nil {
		logger.Error("Failed to blacklist token", err)
		return err
	}
	return nil
}

// IsRevoked reports whether token was blacklisted.
func (b *Blacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	val, err := b.client.Get(ctx, blacklistKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		logger.Error("Failed to check token blacklist", err)
		return false, err
	}
	return val == "revoked", nil
}
