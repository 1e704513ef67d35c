package intake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const defaultRedisPrefix = "jobs:intake:"

// RedisSessions stores sessions as JSON. A zero TTL keeps sessions until they are discarded.
type RedisSessions struct {
	Client *redis.Client
	TTL    time.Duration
	Prefix string
}

func NewRedisSessions(client *redis.Client, ttl time.Duration) *RedisSessions {
	return &RedisSessions{Client: client, TTL: ttl, Prefix: defaultRedisPrefix}
}

// NewRedisClient parses a redis:// URL.
func NewRedisClient(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

func (s *RedisSessions) key(userID int64) string {
	prefix := s.Prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return prefix + strconv.FormatInt(userID, 10)
}

func (s *RedisSessions) Get(ctx context.Context, userID int64) (Session, bool, error) {
	data, err := s.Client.Get(ctx, s.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, fmt.Errorf("load intake session: %w", err)
	}
	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return Session{}, false, fmt.Errorf("decode intake session: %w", err)
	}
	return session, true, nil
}

func (s *RedisSessions) Put(ctx context.Context, session Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	if err := s.Client.Set(ctx, s.key(session.UserID), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("store intake session: %w", err)
	}
	return nil
}

func (s *RedisSessions) Delete(ctx context.Context, userID int64) error {
	if err := s.Client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("discard intake session: %w", err)
	}
	return nil
}
