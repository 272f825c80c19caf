package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// maxUpdateAttempts bounds optimistic retries when a watched key changes
// under an Update.
const maxUpdateAttempts = 10

var ErrUpdateConflict = errors.New("storage update kept conflicting")

type redisStorage struct {
	client *redis.Client
}

func NewRedisStorage(client *redis.Client) Storage {
	return &redisStorage{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the server answers.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func (s *redisStorage) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		slog.Info(err.Error())
		return nil, err
	}
	return value, nil
}

func (s *redisStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *redisStorage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (s *redisStorage) Update(ctx context.Context, key string, fn func(current []byte) ([]byte, error)) error {
	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrKeyNotFound
			}
			return err
		}

		next, err := fn(current)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxUpdateAttempts; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrKeyNotFound) {
			slog.Info(err.Error())
		}
		return err
	}
	return fmt.Errorf("%w: %s", ErrUpdateConflict, key)
}
