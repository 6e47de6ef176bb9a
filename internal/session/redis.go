package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/M0SENI/VisaBot/internal/domain"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient is the subset of the redis client used by RedisStore
type RedisClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Del(ctx context.Context, keys ...string) error
	Ping(ctx context.Context) error
	Close() error
}

var _ RedisClient = (*redisClient)(nil)

type redisClient struct {
	cli *redis.Client
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (RedisClient, error) {
	c := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := c.Ping(ctx).Err(); err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &redisClient{cli: c}, nil
}

func (c *redisClient) Get(ctx context.Context, key string) (string, error) {
	return c.cli.Get(ctx, key).Result()
}

func (c *redisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.cli.Set(ctx, key, value, expiration).Err()
}

func (c *redisClient) Del(ctx context.Context, keys ...string) error {
	return c.cli.Del(ctx, keys...).Err()
}

func (c *redisClient) Ping(ctx context.Context) error { return c.cli.Ping(ctx).Err() }

func (c *redisClient) Close() error { return c.cli.Close() }

var _ Store = (*RedisStore)(nil)

// RedisStore keeps sessions in Redis so they survive restarts.
// Each user's session and history live under one key whose TTL is the idle expiry.
// Redis errors are logged and the session is treated as absent.
type RedisStore struct {
	client RedisClient
	ttl    time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// NewRedisStore creates a Redis backed store
func NewRedisStore(client RedisClient, ttl time.Duration, logger *zap.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

func (s *RedisStore) key(userID int64) string {
	return fmt.Sprintf("visabot:session:%d", userID)
}

func (s *RedisStore) load(ctx context.Context, userID int64) (*record, bool) {
	raw, err := s.client.Get(ctx, s.key(userID))
	if errors.Is(err, redis.Nil) {
		return &record{}, false
	}
	if err != nil {
		s.logger.Error("Failed to load session", zap.Int64("user_id", userID), zap.Error(err))
		return &record{}, false
	}

	var rec record
	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()
	if err := dec.Decode(&rec); err != nil {
		s.logger.Error("Failed to decode session", zap.Int64("user_id", userID), zap.Error(err))
		return &record{}, false
	}
	if rec.Current.Data == nil {
		rec.Current.Data = domain.Data{}
	}
	return &rec, true
}

func (s *RedisStore) save(ctx context.Context, userID int64, rec *record) {
	rec.Current.UpdatedAt = s.now()
	payload, err := json.Marshal(rec)
	if err != nil {
		s.logger.Error("Failed to encode session", zap.Int64("user_id", userID), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, s.key(userID), payload, s.ttl); err != nil {
		s.logger.Error("Failed to save session", zap.Int64("user_id", userID), zap.Error(err))
	}
}

func (s *RedisStore) Get(ctx context.Context, userID int64) (domain.Session, bool) {
	rec, ok := s.load(ctx, userID)
	if !ok || !rec.Current.Active() {
		return domain.Session{Data: domain.Data{}}, false
	}
	return rec.Current, true
}

func (s *RedisStore) State(ctx context.Context, userID int64) domain.State {
	sess, _ := s.Get(ctx, userID)
	return sess.State
}

func (s *RedisStore) Data(ctx context.Context, userID int64) domain.Data {
	sess, _ := s.Get(ctx, userID)
	return sess.Data
}

func (s *RedisStore) Field(ctx context.Context, userID int64, key string) (any, bool) {
	rec, ok := s.load(ctx, userID)
	if !ok {
		return nil, false
	}
	v, ok := rec.Current.Data[key]
	return v, ok
}

func (s *RedisStore) SetState(ctx context.Context, userID int64, state domain.State, data domain.Data) {
	rec, _ := s.load(ctx, userID)
	rec.setState(state, data)
	s.save(ctx, userID, rec)
}

func (s *RedisStore) Transition(ctx context.Context, userID int64, state domain.State, data domain.Data) {
	rec, _ := s.load(ctx, userID)
	rec.transition(state, data)
	s.save(ctx, userID, rec)
}

func (s *RedisStore) UpdateField(ctx context.Context, userID int64, key string, value any) {
	rec, ok := s.load(ctx, userID)
	if !ok || !rec.Current.Active() {
		return
	}
	rec.Current.Data[key] = value
	s.save(ctx, userID, rec)
}

func (s *RedisStore) AppendToList(ctx context.Context, userID int64, key, item string) {
	rec, ok := s.load(ctx, userID)
	if !ok || !rec.Current.Active() {
		return
	}
	rec.appendToList(key, item)
	s.save(ctx, userID, rec)
}

func (s *RedisStore) Back(ctx context.Context, userID int64) (domain.Session, bool) {
	rec, ok := s.load(ctx, userID)
	if !ok {
		return domain.Session{}, false
	}
	sess, ok := rec.back()
	if !ok {
		return domain.Session{}, false
	}
	s.save(ctx, userID, rec)
	return sess, true
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) {
	if err := s.client.Del(ctx, s.key(userID)); err != nil {
		s.logger.Error("Failed to clear session", zap.Int64("user_id", userID), zap.Error(err))
	}
}
