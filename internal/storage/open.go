// Package storage persists the watcher's small durable state: the query
// cursor and a journal of delivered notifications.
package storage

import (
	"context"
	"errors"
	"strings"

	logx "reviewbot/pkg/logx"
)

// Store is the minimal persistence API used by the watcher.
type Store interface {
	// LoadCursor returns the checkpointed cursor; ok is false when no
	// checkpoint exists yet.
	LoadCursor(ctx context.Context) (value int64, ok bool, err error)
	SaveCursor(ctx context.Context, value int64) error
	AppendDelivery(ctx context.Context, e DeliveryEntry) error
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	case "redis":
		return openRedis(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
