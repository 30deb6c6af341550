package watch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"reviewbot/internal/eventbus"
	"reviewbot/internal/practicum"
	"reviewbot/internal/runtime/supervisor"
	"reviewbot/internal/schedule"
	"reviewbot/internal/storage"
	logx "reviewbot/pkg/logx"
)

// Poller fetches the raw review-status payload for a query window.
type Poller interface {
	Fetch(ctx context.Context, from int64) (json.RawMessage, error)
}

// Notifier delivers text to the configured destination.
// A false return is non-fatal to the cycle.
type Notifier interface {
	Deliver(ctx context.Context, text string) bool
}

type Config struct {
	Cadence  schedule.Spec
	Verdicts Verdicts
}

// CycleEvent is the bus payload for cycle.completed / cycle.failed.
type CycleEvent struct {
	From  int64  `json:"from"`
	To    int64  `json:"to,omitempty"`
	Items int    `json:"items"`
	Stage string `json:"stage,omitempty"`
	Error string `json:"error,omitempty"`
}

// DeliveryEvent is the bus payload for notify.delivered / notify.failed.
type DeliveryEvent struct {
	Text string `json:"text"`
}

// Service is the scheduling loop: one cycle runs to completion (including
// blocking I/O) before the next begins, so the cursor is never touched by
// overlapping cycles.
type Service struct {
	mu  sync.Mutex
	cfg Config

	poller   Poller
	notifier Notifier
	store    storage.Store // may be nil
	bus      eventbus.Bus  // may be nil
	log      logx.Logger

	cursor *Cursor
	beat   func() // optional liveness callback, invoked once per cycle

	sup *supervisor.Supervisor
}

func New(cfg Config, poller Poller, notifier Notifier, store storage.Store, bus eventbus.Bus, log logx.Logger) *Service {
	if log.IsZero() {
		log = logx.Nop()
	}
	if cfg.Verdicts == nil {
		cfg.Verdicts = DefaultVerdicts()
	}
	return &Service{
		cfg:      cfg,
		poller:   poller,
		notifier: notifier,
		store:    store,
		bus:      bus,
		log:      log,
		cursor:   NewCursor(InitialCursor, log),
	}
}

// SetBeat installs a per-cycle liveness callback (systemd watchdog).
func (s *Service) SetBeat(fn func()) {
	s.mu.Lock()
	s.beat = fn
	s.mu.Unlock()
}

// Apply updates the cadence/catalog. Takes effect before the next sleep.
func (s *Service) Apply(cfg Config) {
	s.mu.Lock()
	if cfg.Verdicts == nil {
		cfg.Verdicts = s.cfg.Verdicts
	}
	s.cfg = cfg
	s.mu.Unlock()
}

func (s *Service) cadence() schedule.Spec {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Cadence
}

func (s *Service) verdicts() Verdicts {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg.Verdicts
}

func (s *Service) beatFn() func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.beat
}

// Cursor returns the loop's cursor. Exposed for wiring/tests only; it must
// not be mutated while the loop is running.
func (s *Service) Cursor() *Cursor { return s.cursor }

func (s *Service) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.mu.Lock()
	if s.sup != nil {
		s.mu.Unlock()
		return
	}
	s.sup = supervisor.New(ctx, supervisor.WithLogger(s.log))
	sup := s.sup
	s.mu.Unlock()

	s.restoreCursor(ctx)

	sup.Go0("watch.loop", s.run)
	s.log.Info("watch loop started", logx.String("cadence", s.cadence().String()), logx.Int64("cursor", s.cursor.Value()))
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	sup := s.sup
	s.sup = nil
	s.mu.Unlock()
	if sup == nil {
		return
	}
	sup.Cancel()
	if err := sup.Wait(ctx); err != nil {
		s.log.Warn("watch stop incomplete", logx.Err(err))
	}
}

func (s *Service) restoreCursor(ctx context.Context) {
	if s.store == nil {
		return
	}
	v, ok, err := s.store.LoadCursor(ctx)
	if err != nil {
		s.log.Warn("cursor restore failed; querying all history", logx.Err(err))
		return
	}
	if ok && s.cursor.Advance(v) {
		s.log.Info("cursor restored", logx.Int64("cursor", v))
	}
}

func (s *Service) run(ctx context.Context) {
	for {
		s.runCycle(ctx)
		if ctx.Err() != nil {
			return
		}
		if beat := s.beatFn(); beat != nil {
			beat()
		}

		// Same cadence after success and failure; no backoff.
		next := s.cadence().Next(time.Now())
		wait := time.Until(next)
		if wait < 0 {
			wait = 0
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// runCycle executes one poll-validate-translate-notify pass.
func (s *Service) runCycle(ctx context.Context) {
	from := s.cursor.Value()

	payload, err := s.poller.Fetch(ctx, from)
	if err != nil {
		s.failCycle(ctx, "poll", from, err)
		return
	}

	report, err := practicum.Validate(payload)
	if err != nil {
		s.failCycle(ctx, "validate", from, err)
		return
	}

	// Translate everything first: one unresolved item withholds the whole
	// cycle's notifications, and the unchanged cursor re-queries the same
	// window next cycle. At-least-once, never silent loss.
	verdicts := s.verdicts()
	messages := make([]string, 0, len(report.Items))
	for _, item := range report.Items {
		text, terr := Translate(item, verdicts)
		if terr != nil {
			s.log.Error("translation failed; withholding cycle notifications",
				logx.String("name", item.Name),
				logx.String("status", item.Status),
				logx.Err(terr))
			s.publish(eventbus.TypeCycleFailed, CycleEvent{From: from, Stage: "translate", Error: terr.Error()})
			return
		}
		messages = append(messages, text)
	}

	for _, text := range messages {
		ok := s.notifier.Deliver(ctx, text)
		if ok {
			s.publish(eventbus.TypeNotifyDelivered, DeliveryEvent{Text: text})
		} else {
			// The status change is already durably recorded server-side, so a
			// failed delivery does not abort the cycle or hold the cursor back.
			s.log.Warn("notification not delivered")
			s.publish(eventbus.TypeNotifyFailed, DeliveryEvent{Text: text})
		}
		s.journal(ctx, text, ok)
	}

	if report.HasDate {
		if s.cursor.Advance(report.CurrentDate) {
			s.checkpoint(ctx)
		}
	} else {
		s.log.Warn("response lacks usable current_date; window will be re-queried", logx.Int64("from", from))
	}

	s.publish(eventbus.TypeCycleCompleted, CycleEvent{From: from, To: s.cursor.Value(), Items: len(report.Items)})
}

func (s *Service) failCycle(ctx context.Context, stage string, from int64, err error) {
	s.log.Error("cycle failed", logx.String("stage", stage), logx.Int64("from", from), logx.Err(err))

	// Best-effort operator notification; its own failure is only logged.
	text := fmt.Sprintf("Сбой в работе программы: %v.", err)
	if !s.notifier.Deliver(ctx, text) {
		s.log.Warn("failure notification not delivered")
	}

	s.publish(eventbus.TypeCycleFailed, CycleEvent{From: from, Stage: stage, Error: err.Error()})
}

func (s *Service) checkpoint(ctx context.Context) {
	if s.store == nil {
		return
	}
	if err := s.store.SaveCursor(ctx, s.cursor.Value()); err != nil {
		s.log.Warn("cursor checkpoint failed", logx.Int64("cursor", s.cursor.Value()), logx.Err(err))
	}
}

func (s *Service) journal(ctx context.Context, text string, ok bool) {
	if s.store == nil {
		return
	}
	entry := storage.DeliveryEntry{At: time.Now(), Text: text, OK: ok}
	if err := s.store.AppendDelivery(ctx, entry); err != nil {
		s.log.Debug("delivery journal write failed", logx.Err(err))
	}
}

func (s *Service) publish(typ string, data any) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: typ, Data: data})
}
