// File: utils/cache.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"studiobook/config"
)

// NewRedisClient connects to the configured Redis server using logical
// database db and verifies the connection.
func NewRedisClient(db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis db %d: %w", db, err)
	}
	return client, nil
}
