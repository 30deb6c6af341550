package storage

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	logx "reviewbot/pkg/logx"
)

const (
	redisCursorKey   = "reviewbot:cursor"
	redisJournalKey  = "reviewbot:deliveries"
	redisJournalKeep = 1000
)

type redisStore struct {
	client *redis.Client
	log    logx.Logger
}

func openRedis(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("storage.addr is required for redis driver")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Probe the connection, but don't make boot depend on redis being up:
	// the watcher degrades to sentinel-cursor behavior until it recovers.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable at startup", logx.String("addr", cfg.Addr), logx.Err(err))
	}

	return &redisStore{client: client, log: log}, nil
}

func (s *redisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *redisStore) LoadCursor(ctx context.Context) (int64, bool, error) {
	if s == nil || s.client == nil {
		return 0, false, ErrDisabled
	}
	raw, err := s.client.Get(ctx, redisCursorKey).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, errors.New("corrupt cursor value: " + raw)
	}
	return v, true, nil
}

func (s *redisStore) SaveCursor(ctx context.Context, value int64) error {
	if s == nil || s.client == nil {
		return ErrDisabled
	}
	return s.client.Set(ctx, redisCursorKey, strconv.FormatInt(value, 10), 0).Err()
}

func (s *redisStore) AppendDelivery(ctx context.Context, e DeliveryEntry) error {
	if s == nil || s.client == nil {
		return ErrDisabled
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, redisJournalKey, data)
	pipe.LTrim(ctx, redisJournalKey, 0, redisJournalKeep-1)
	_, err = pipe.Exec(ctx)
	return err
}
