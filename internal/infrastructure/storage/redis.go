package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bakano/bakano-web/internal/application/ports"
)

var _ ports.StorageBackend = (*RedisBackend)(nil)

// RedisBackend guarda cada clave como <prefix>:<sid>:<key> con expiración.
type RedisBackend struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisBackend conecta con redisURL y verifica la conexión.
func NewRedisBackend(redisURL, prefix string, ttl time.Duration) (*RedisBackend, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	return NewRedisBackendWithClient(client, prefix, ttl), nil
}

// NewRedisBackendWithClient usa un cliente ya construido.
func NewRedisBackendWithClient(client *redis.Client, prefix string, ttl time.Duration) *RedisBackend {
	if prefix == "" {
		prefix = "bakano"
	}
	return &RedisBackend{client: client, prefix: prefix, ttl: ttl}
}

// Namespace devuelve el almacenamiento de una sesión.
func (b *RedisBackend) Namespace(sessionID string) ports.ClientStorage {
	return &redisStorage{backend: b, sid: sessionID}
}

// Ping comprueba que Redis responde.
func (b *RedisBackend) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close cierra la conexión.
func (b *RedisBackend) Close() error {
	return b.client.Close()
}

type redisStorage struct {
	backend *RedisBackend
	sid     string
}

func (s *redisStorage) key(k string) string {
	return s.backend.prefix + ":" + s.sid + ":" + k
}

func (s *redisStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	v, err := s.backend.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *redisStorage) SetItem(ctx context.Context, key, value string) error {
	if err := s.backend.client.Set(ctx, s.key(key), value, s.backend.ttl).Err(); err != nil {
		return fmt.Errorf("storage set %s: %w", key, err)
	}
	return nil
}

func (s *redisStorage) RemoveItem(ctx context.Context, key string) error {
	if err := s.backend.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("storage remove %s: %w", key, err)
	}
	return nil
}
