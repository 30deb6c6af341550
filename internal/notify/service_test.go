package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	kit "reviewbot/internal/transport"
	logx "reviewbot/pkg/logx"
)

type fakeAdapter struct {
	sent []string
	err  error
}

func (f *fakeAdapter) SendText(ctx context.Context, to kit.ChatTarget, text string, opt *kit.SendOptions) (kit.MessageRef, error) {
	if f.err != nil {
		return kit.MessageRef{}, f.err
	}
	f.sent = append(f.sent, text)
	return kit.MessageRef{ChatID: to.ChatID, MessageID: len(f.sent)}, nil
}

func TestDeliverSuccess(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{}
	s := New(Config{RatePerSec: 100}, ad, kit.ChatTarget{ChatID: 42}, logx.Nop())

	if !s.Deliver(context.Background(), "hello") {
		t.Fatal("Deliver returned false")
	}
	if len(ad.sent) != 1 || ad.sent[0] != "hello" {
		t.Fatalf("sent = %v", ad.sent)
	}
}

func TestDeliverFailureIsNonFatal(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{err: errors.New("telegram down")}
	s := New(Config{RatePerSec: 100}, ad, kit.ChatTarget{ChatID: 42}, logx.Nop())

	if s.Deliver(context.Background(), "hello") {
		t.Fatal("Deliver returned true despite adapter error")
	}
}

func TestDeliverDedupWindow(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{}
	s := New(Config{RatePerSec: 100, DedupWindow: time.Hour}, ad, kit.ChatTarget{ChatID: 42}, logx.Nop())

	ctx := context.Background()
	if !s.Deliver(ctx, "same text") || !s.Deliver(ctx, "same text") {
		t.Fatal("Deliver returned false")
	}
	if len(ad.sent) != 1 {
		t.Fatalf("sent %d times, want 1 (second suppressed)", len(ad.sent))
	}

	// A different text is not suppressed.
	if !s.Deliver(ctx, "other text") {
		t.Fatal("Deliver returned false")
	}
	if len(ad.sent) != 2 {
		t.Fatalf("sent = %v", ad.sent)
	}
}

func TestDeliverDedupDisabledByDefault(t *testing.T) {
	t.Parallel()
	ad := &fakeAdapter{}
	s := New(Config{RatePerSec: 100}, ad, kit.ChatTarget{ChatID: 42}, logx.Nop())

	ctx := context.Background()
	s.Deliver(ctx, "same text")
	s.Deliver(ctx, "same text")
	if len(ad.sent) != 2 {
		t.Fatalf("sent %d times, want 2", len(ad.sent))
	}
}
