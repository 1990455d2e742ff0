package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix      = "session:"
	maxUpdateTries = 5
	DefaultTTL     = 2 * time.Hour
)

// RedisStore keeps snapshots as JSON under session:<id>, expiring after ttl
// of inactivity.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

// NewRedisStore creates a store on client.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, now: func() time.Time { return time.Now().UTC() }}
}

func sessionKey(id string) string {
	return keyPrefix + id
}

// TTL returns how long an idle session is kept.
func (s *RedisStore) TTL() time.Duration {
	return s.ttl
}

func (s *RedisStore) Create(ctx context.Context) (*Snapshot, error) {
	snap := NewSnapshot(uuid.New().String(), s.now())
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encode session: %w", err)
	}
	ok, err := s.client.SetNX(ctx, sessionKey(snap.ID), data, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("store session %s: %w", snap.ID, ErrConflict)
	}
	return snap, nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Snapshot, error) {
	raw, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return decode(raw)
}

func (s *RedisStore) Update(ctx context.Context, id string, fn func(*Snapshot) error) (*Snapshot, error) {
	key := sessionKey(id)
	var updated *Snapshot

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		snap, err := decode(raw)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
		snap.UpdatedAt = s.now()

		data, err := json.Marshal(snap)
		if err != nil {
			return fmt.Errorf("encode session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = snap
		return nil
	}

	for i := 0; i < maxUpdateTries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, ErrConflict
}

func (s *RedisStore) Touch(ctx context.Context, id string) error {
	ok, err := s.client.Expire(ctx, sessionKey(id), s.ttl).Result()
	if err != nil {
		return fmt.Errorf("touch session: %w", err)
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	n, err := s.client.Del(ctx, sessionKey(id)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func decode(raw []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &snap, nil
}
