package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type redisRecordRepository struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisRecordRepository stores records as plain Redis strings under
// keyPrefix:key. Records never expire.
func NewRedisRecordRepository(client *redis.Client, keyPrefix string) RecordRepository {
	return &redisRecordRepository{client: client, keyPrefix: keyPrefix}
}

func (r *redisRecordRepository) redisKey(key string) string {
	if r.keyPrefix == "" {
		return key
	}
	return fmt.Sprintf("%s:%s", r.keyPrefix, key)
}

func (r *redisRecordRepository) Get(ctx context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}

	value, err := r.client.Get(ctx, r.redisKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to get record: %w", err)
	}
	return value, nil
}

func (r *redisRecordRepository) Put(ctx context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.redisKey(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to put record: %w", err)
	}
	return nil
}

func (r *redisRecordRepository) Delete(ctx context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	if err := r.client.Del(ctx, r.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

func (r *redisRecordRepository) Close() error {
	return r.client.Close()
}
