package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures the state store.
//
// Driver values:
//   - "file": dependency-free backend (json state + jsonl journal)
//   - "sqlite": SQLite database file
//   - "redis": Redis instance
//
// If Driver is empty or "none", storage is disabled.
type Config struct {
	Driver      string
	Path        string        // file, sqlite
	Addr        string        // redis
	Password    string        // redis
	DB          int           // redis
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DeliveryEntry records one notification delivery attempt.
// Keep it compact and schema-stable.
type DeliveryEntry struct {
	At   time.Time `json:"at"`
	Text string    `json:"text"`
	OK   bool      `json:"ok"`
}
