package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables that override file-sourced credentials.
// These are the only secrets the process needs.
const (
	EnvAPIToken      = "YA_TOKEN"
	EnvNotifierToken = "TOKEN"
	EnvDestination   = "MASTER_ID"
)

const DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"

type Config struct {
	Practicum PracticumConfig `json:"practicum"`
	Telegram  TelegramConfig  `json:"telegram"`
	Watch     WatchConfig     `json:"watch"`
	Logging   LoggingConfig   `json:"logging"`
	Notify    *NotifyConfig   `json:"notify,omitempty"`
	Storage   *StorageConfig  `json:"storage,omitempty"`
}

// PracticumConfig points at the review-status API.
type PracticumConfig struct {
	Token    string `json:"token"`
	Endpoint string `json:"endpoint"`
	// Timeout is a Go duration string (e.g. "10s").
	Timeout string `json:"timeout"`
}

type TelegramConfig struct {
	Token string `json:"token"`
	// ChatID is the destination chat, as a string so it can come straight
	// from the environment.
	ChatID string `json:"chat_id"`
	// Timeout is a Go duration string for outbound API calls.
	Timeout string `json:"timeout"`
}

type WatchConfig struct {
	// Schedule is the poll cadence: a Go duration ("10m"), HH:MM ("00:10"),
	// or a cron expression ("*/10 * * * *"). Default: "10m".
	Schedule string `json:"schedule"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// NotifyConfig controls outbound delivery pacing.
//
// DedupWindow suppresses re-sending an identical text within the window
// (useful for repeated failure notifications during an outage). "0s" or
// omitted disables dedup.
type NotifyConfig struct {
	RatePerSec  int    `json:"rate_per_sec"`
	DedupWindow string `json:"dedup_window,omitempty"`
}

// StorageConfig controls the optional state store (cursor checkpoint +
// delivery journal).
//
// Driver values: "none" (default), "file", "sqlite", "redis".
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path,omitempty"`         // file, sqlite
	Addr        string `json:"addr,omitempty"`         // redis
	Password    string `json:"password,omitempty"`     // redis
	DB          int    `json:"db,omitempty"`           // redis
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite, Go duration string
}

// ApplyEnv overlays environment credentials on top of the file config.
// Environment wins so secrets never need to live in the file.
func (c *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIToken)); v != "" {
		c.Practicum.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvNotifierToken)); v != "" {
		c.Telegram.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvDestination)); v != "" {
		c.Telegram.ChatID = v
	}
}

// ApplyDefaults fills in non-credential defaults.
func (c *Config) ApplyDefaults() {
	if strings.TrimSpace(c.Practicum.Endpoint) == "" {
		c.Practicum.Endpoint = DefaultEndpoint
	}
	if strings.TrimSpace(c.Watch.Schedule) == "" {
		c.Watch.Schedule = "10m"
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "INFO"
	}
}

// MissingCredentialError names the credentials absent at startup.
// This is the one fatal, non-retried condition in the system.
type MissingCredentialError struct {
	Names []string
}

func (e *MissingCredentialError) Error() string {
	return "missing credentials: " + strings.Join(e.Names, ", ")
}

// CheckCredentials verifies the startup precondition: all three credential
// values must be non-empty and the destination must be a chat id.
func (c *Config) CheckCredentials() error {
	var missing []string
	if strings.TrimSpace(c.Practicum.Token) == "" {
		missing = append(missing, EnvAPIToken)
	}
	if strings.TrimSpace(c.Telegram.Token) == "" {
		missing = append(missing, EnvNotifierToken)
	}
	if strings.TrimSpace(c.Telegram.ChatID) == "" {
		missing = append(missing, EnvDestination)
	}
	if len(missing) > 0 {
		return &MissingCredentialError{Names: missing}
	}
	if _, err := c.ChatID(); err != nil {
		return err
	}
	return nil
}

// ChatID parses the destination identifier.
func (c *Config) ChatID() (int64, error) {
	s := strings.TrimSpace(c.Telegram.ChatID)
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("telegram.chat_id: invalid chat id %q", c.Telegram.ChatID)
	}
	if id == 0 {
		return 0, errors.New("telegram.chat_id must be non-zero")
	}
	return id, nil
}
