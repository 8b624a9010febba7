package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "identity:"
	snapshotKeySegment = "snapshot:"
	stateKeySegment    = "state:"
)

// RedisStore is a Store backed by Redis. Snapshots are stored as JSON.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix overrides the default "identity:" key prefix.
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// NewRedisStore creates a RedisStore on top of an existing client.
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) snapshotKey(token string) string {
	return s.prefix + snapshotKeySegment + token
}

func (s *RedisStore) stateKey(state string) string {
	return s.prefix + stateKeySegment + state
}

func (s *RedisStore) SaveSnapshot(ctx context.Context, token string, snap *Snapshot, ttl time.Duration) error {
	if snap == nil {
		return s.DeleteSnapshot(ctx, token)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, s.snapshotKey(token), data, ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadSnapshot(ctx context.Context, token string) (*Snapshot, error) {
	data, err := s.client.Get(ctx, s.snapshotKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisStore) DeleteSnapshot(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.snapshotKey(token)).Err(); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (s *RedisStore) SaveState(ctx context.Context, state, returnTo string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.stateKey(state), returnTo, ttl).Err(); err != nil {
		return fmt.Errorf("save login state: %w", err)
	}
	return nil
}

// ConsumeState uses GETDEL so a state can be redeemed exactly once.
func (s *RedisStore) ConsumeState(ctx context.Context, state string) (string, error) {
	returnTo, err := s.client.GetDel(ctx, s.stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrInvalidState
	}
	if err != nil {
		return "", fmt.Errorf("consume login state: %w", err)
	}
	return returnTo, nil
}

var _ Store = (*RedisStore)(nil)
