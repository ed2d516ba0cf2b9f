package game

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RoomPersistence puts room snapshots somewhere durable and gets them
// back. Redis backs it in production; tests use an in-memory fake.
type RoomPersistence interface {
	Save(ctx context.Context, code string, snap RoomSnapshot) error
	Load(ctx context.Context, code string) (RoomSnapshot, bool, error)
}

type RedisRoomStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisRoomStore(rdb *redis.Client, ttl time.Duration) *RedisRoomStore {
	return &RedisRoomStore{rdb: rdb, ttl: ttl}
}

func (s *RedisRoomStore) key(code string) string {
	return fmt.Sprintf("room:%s:snapshot", code)
}

func (s *RedisRoomStore) Save(ctx context.Context, code string, snap RoomSnapshot) error {
	b, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, s.key(code), b, s.ttl).Err()
}

func (s *RedisRoomStore) Load(ctx context.Context, code string) (RoomSnapshot, bool, error) {
	val, err := s.rdb.Get(ctx, s.key(code)).Bytes()
	if err == redis.Nil {
		return RoomSnapshot{}, false, nil
	}
	if err != nil {
		return RoomSnapshot{}, false, err
	}

	var snap RoomSnapshot
	if err := json.Unmarshal(val, &snap); err != nil {
		return RoomSnapshot{}, false, err
	}
	return snap, true, nil
}
