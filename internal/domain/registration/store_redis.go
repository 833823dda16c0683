package registration

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "onboarding:draft:"

// RedisStore keeps sealed sessions under keys that expire with the session.
type RedisStore struct {
	client redis.UniversalClient
	codec  *Codec
	now    func() time.Time
}

func NewRedisStore(client redis.UniversalClient, codec *Codec) *RedisStore {
	return &RedisStore{client: client, codec: codec, now: time.Now}
}

func redisKey(id string) string { return redisKeyPrefix + id }

func (r *RedisStore) ttl(s *Session) time.Duration {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	ok, err := r.client.SetNX(ctx, redisKey(s.ID), blob, r.ttl(s)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrSessionExists
	}
	return nil
}

func (r *RedisStore) Save(ctx context.Context, s *Session) error {
	blob, err := r.codec.Encode(s)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKey(s.ID), blob, r.ttl(s)).Err()
}

func (r *RedisStore) Load(ctx context.Context, id string) (*Session, error) {
	blob, err := r.client.Get(ctx, redisKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.codec.Decode(blob)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, redisKey(id)).Err()
}

// DeleteExpired is a no-op: Redis drops the keys itself.
func (r *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
