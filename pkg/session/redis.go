package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists sessions in Redis, for deployments where any
// server may pick up a reconnecting client. Data keys carry a native
// TTL; a ZSET index scored by expiry supports sweeping.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	ttl        time.Duration
	ownsClient bool
}

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithRedisPrefix sets the key prefix. Default: "graft:session:".
func WithRedisPrefix(prefix string) RedisOption {
	return func(s *RedisStore) { s.prefix = prefix }
}

// WithRedisTTL sets the session lifetime. Zero disables expiry.
func WithRedisTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) { s.ttl = ttl }
}

// NewRedisStore connects to Redis and creates a store. The store owns
// the client and closes it.
func NewRedisStore(addr, password string, db int, opts ...RedisOption) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	store := NewRedisStoreFromClient(client, opts...)
	store.ownsClient = true
	return store
}

// NewRedisStoreFromClient creates a store over an existing client.
// The caller keeps ownership of the client.
func NewRedisStoreFromClient(client *redis.Client, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: "graft:session:",
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) indexKey() string {
	return s.prefix + "index"
}

// score is the index entry's expiry in Unix milliseconds. Sessions
// without a TTL sort at a far-future sentinel so sweeps skip them.
func (s *RedisStore) score() float64 {
	if s.ttl <= 0 {
		return 4102444800000 // 2100-01-01
	}
	return float64(time.Now().Add(s.ttl).UnixMilli())
}

// Save writes the snapshot with TTL and indexes it, in one pipeline.
func (s *RedisStore) Save(ctx context.Context, state *State) error {
	data, err := state.Encode()
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(state.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: s.score(), Member: state.ID})
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: redis save: %w", err)
	}
	return nil
}

// Load retrieves a snapshot. Redis expires data keys natively, so a
// missing key covers both "never existed" and "expired".
func (s *RedisStore) Load(ctx context.Context, id string) (*State, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: redis load: %w", err)
	}
	return DecodeState(data)
}

// Delete removes the snapshot and its index entry.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("session: redis delete: %w", err)
	}
	return nil
}

// Touch extends the data key's TTL and re-scores the index entry.
func (s *RedisStore) Touch(ctx context.Context, id string) error {
	if s.ttl <= 0 {
		// Nothing expires; just confirm the session exists.
		n, err := s.client.Exists(ctx, s.key(id)).Result()
		if err != nil {
			return fmt.Errorf("session: redis touch: %w", err)
		}
		if n == 0 {
			return ErrNotFound
		}
		return nil
	}

	ok, err := s.client.Expire(ctx, s.key(id), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("session: redis touch: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return s.client.ZAdd(ctx, s.indexKey(), redis.Z{Score: s.score(), Member: id}).Err()
}

// Sweep prunes index entries whose sessions have expired and returns
// how many were removed. The data keys are already gone (native TTL);
// this keeps the index from growing without bound.
func (s *RedisStore) Sweep(ctx context.Context) (int, error) {
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	n, err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", now).Result()
	if err != nil {
		return 0, fmt.Errorf("session: redis sweep: %w", err)
	}
	return int(n), nil
}

// Close closes the client if the store owns it.
func (s *RedisStore) Close() error {
	if s.ownsClient {
		return s.client.Close()
	}
	return nil
}
