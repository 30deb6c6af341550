package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	logx "reviewbot/pkg/logx"
)

// fileStore is the dependency-free persistence backend.
//
// Files:
//   - <prefix>.state.json       (cursor checkpoint, atomic rewrite)
//   - <prefix>.deliveries.jsonl (append-only delivery journal)
type fileStore struct {
	log logx.Logger

	mu sync.Mutex

	statePath   string
	journalFile *os.File

	cursor    int64
	hasCursor bool
}

type fileState struct {
	Cursor int64 `json:"cursor"`
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, errors.New("storage.path is required for file driver")
	}

	dir := filepath.Dir(path)
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(filepath.Base(path)))
	prefix := filepath.Join(dir, base)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	statePath := prefix + ".state.json"
	journalPath := prefix + ".deliveries.jsonl"

	s := &fileStore{log: log, statePath: statePath}

	if b, err := os.ReadFile(statePath); err == nil {
		var st fileState
		if jerr := json.Unmarshal(b, &st); jerr != nil {
			log.Warn("state file unreadable; ignoring", logx.String("path", statePath), logx.Err(jerr))
		} else if st.Cursor > 0 {
			s.cursor = st.Cursor
			s.hasCursor = true
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	jf, err := os.OpenFile(journalPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}
	s.journalFile = jf

	return s, nil
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile != nil {
		err := s.journalFile.Close()
		s.journalFile = nil
		return err
	}
	return nil
}

func (s *fileStore) LoadCursor(ctx context.Context) (int64, bool, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor, s.hasCursor, nil
}

func (s *fileStore) SaveCursor(ctx context.Context, value int64) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := json.Marshal(fileState{Cursor: value})
	if err != nil {
		return err
	}
	// Atomic rewrite: a crash mid-write must not corrupt the checkpoint.
	tmp := s.statePath + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.statePath); err != nil {
		return err
	}
	s.cursor = value
	s.hasCursor = true
	return nil
}

func (s *fileStore) AppendDelivery(ctx context.Context, e DeliveryEntry) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.journalFile == nil {
		return errors.New("delivery journal closed")
	}
	return json.NewEncoder(s.journalFile).Encode(e)
}
