package storage

import (
	"time"

	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

const keyPrefix = "user:"

// RedisStore persists user records in Redis, one key per user id.
// Every write (re)applies the retention TTL; a zero retention keeps
// records forever.
type RedisStore struct {
	rdb       *redis.Client
	retention time.Duration
}

func NewRedisStore(rdb *redis.Client, retention time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, retention: retention}
}

func (s *RedisStore) Load(id string) ([]byte, error) {
	raw, err := s.rdb.Get(keyPrefix + id).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load user record")
	}
	return raw, nil
}

func (s *RedisStore) Save(id string, raw []byte) error {
	if err := s.rdb.Set(keyPrefix+id, raw, s.retention).Err(); err != nil {
		return errors.Wrap(err, "failed to save user record")
	}
	return nil
}
