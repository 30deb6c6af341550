// Package transport defines the messaging-channel boundary.
//
// The core only needs one outbound operation (send text to a chat); the
// concrete protocol lives behind Adapter so tests can substitute a fake.
package transport

import "context"

// ChatTarget identifies a delivery destination.
type ChatTarget struct {
	ChatID   int64
	ThreadID int
}

// MessageRef points at a sent message.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// SendOptions tweaks outbound formatting.
type SendOptions struct {
	ParseMode      string
	DisablePreview bool
}

// Adapter is the outbound messaging transport.
type Adapter interface {
	SendText(ctx context.Context, to ChatTarget, text string, opt *SendOptions) (MessageRef, error)
}
