package watch

import (
	logx "reviewbot/pkg/logx"
)

// InitialCursor is the sentinel lower bound guaranteeing the first query
// covers all history.
const InitialCursor int64 = 1

// Cursor holds the server-time boundary of the next query window.
//
// It is owned exclusively by the watch loop: one cycle runs to completion
// before the next, so no locking is needed or wanted here.
type Cursor struct {
	value int64
	log   logx.Logger
}

func NewCursor(start int64, log logx.Logger) *Cursor {
	if start <= 0 {
		start = InitialCursor
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Cursor{value: start, log: log}
}

// Value returns the current window start.
func (c *Cursor) Value() int64 { return c.value }

// Advance replaces the cursor with a server-supplied timestamp.
//
// Monotonicity guard: a non-positive value or one earlier than the current
// cursor is rejected (logged, no-op) to protect against a misbehaving
// server. Returns whether the cursor changed or was confirmed equal.
func (c *Cursor) Advance(v int64) bool {
	if v <= 0 {
		c.log.Warn("rejecting cursor advance: non-positive timestamp", logx.Int64("value", v))
		return false
	}
	if v < c.value {
		c.log.Warn("rejecting cursor advance: would move backwards",
			logx.Int64("value", v), logx.Int64("cursor", c.value))
		return false
	}
	c.value = v
	return true
}
