// Package app assembles the daemon: config, logging, transport, storage,
// delivery and the watch loop, with hot reload for the tunable parts.
package app

import (
	"context"
	"fmt"

	"reviewbot/internal/config"
	"reviewbot/internal/eventbus"
	"reviewbot/internal/notify"
	"reviewbot/internal/practicum"
	"reviewbot/internal/runtime/supervisor"
	"reviewbot/internal/schedule"
	"reviewbot/internal/storage"
	kit "reviewbot/internal/transport"
	"reviewbot/internal/transport/telegram"
	"reviewbot/internal/watch"
	logx "reviewbot/pkg/logx"
)

// Startup greeting, sent once after the wiring is up.
const startupText = "Старт бота"

type App struct {
	cfgMgr *config.Manager
	cfg    *config.Config

	logs *logx.Service
	log  logx.Logger

	adapter  *telegram.Adapter
	store    storage.Store
	notifier *notify.Service
	bus      eventbus.Bus
	watcher  *watch.Service

	sup   *supervisor.Supervisor
	cfgCh chan *config.Config
}

// New builds the full object graph from the config file. Credentials are
// checked here; a missing credential is the one fatal startup condition.
func New(path string) (*App, error) {
	mgr := config.NewManager(path)
	cfg, err := mgr.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.CheckCredentials(); err != nil {
		return nil, err
	}

	logs, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})
	mgr.SetLogger(log.With(logx.String("comp", "config")))
	mgr.SetValidator(validateConfig)

	a := &App{cfgMgr: mgr, cfg: cfg, logs: logs, log: log}

	teleTimeout, err := config.ParseDurationField("telegram.timeout", cfg.Telegram.Timeout)
	if err != nil {
		return nil, a.failEarly(err)
	}
	adapter, err := telegram.New(telegram.Config{
		Token:   cfg.Telegram.Token,
		Timeout: teleTimeout,
	}, log.With(logx.String("comp", "telegram")))
	if err != nil {
		return nil, a.failEarly(err)
	}
	a.adapter = adapter

	chatID, err := cfg.ChatID()
	if err != nil {
		return nil, a.failEarly(err)
	}

	notifyCfg, err := buildNotifyConfig(cfg)
	if err != nil {
		return nil, a.failEarly(err)
	}
	a.notifier = notify.New(notifyCfg, adapter, kit.ChatTarget{ChatID: chatID},
		log.With(logx.String("comp", "notify")))

	storeCfg, err := buildStorageConfig(cfg)
	if err != nil {
		return nil, a.failEarly(err)
	}
	store, err := storage.Open(storeCfg, log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, a.failEarly(fmt.Errorf("open storage: %w", err))
	}
	a.store = store

	apiTimeout, err := config.ParseDurationField("practicum.timeout", cfg.Practicum.Timeout)
	if err != nil {
		return nil, a.failEarly(err)
	}
	client, err := practicum.NewClient(practicum.Config{
		Token:    cfg.Practicum.Token,
		Endpoint: cfg.Practicum.Endpoint,
		Timeout:  apiTimeout,
	}, log.With(logx.String("comp", "practicum")))
	if err != nil {
		return nil, a.failEarly(err)
	}

	spec, err := schedule.Parse(cfg.Watch.Schedule)
	if err != nil {
		return nil, a.failEarly(fmt.Errorf("watch.schedule: %w", err))
	}

	a.bus = eventbus.New()
	a.watcher = watch.New(watch.Config{Cadence: spec}, client, a.notifier,
		store, a.bus, log.With(logx.String("comp", "watch")))

	return a, nil
}

// Logger returns the root logger; the caller uses it for process-level
// messages once the app owns the sinks.
func (a *App) Logger() logx.Logger { return a.log }

// Watcher exposes the watch loop for liveness wiring.
func (a *App) Watcher() *watch.Service { return a.watcher }

func (a *App) Start(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	a.sup = supervisor.New(ctx, supervisor.WithLogger(a.log))
	sched := a.cfg.Watch.Schedule

	// Best effort: the loop does not depend on the greeting arriving.
	if !a.notifier.Deliver(ctx, startupText) {
		a.log.Warn("startup message not delivered")
	}

	a.watcher.Start(ctx)

	a.cfgCh = a.cfgMgr.Subscribe(4)
	a.sup.Go("config.watch", a.cfgMgr.Watch)
	a.sup.Go0("config.reload", a.reloadLoop)

	busCh, unsub := a.bus.Subscribe(16)
	a.sup.Go0("bus.debug", func(ctx context.Context) {
		defer unsub()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-busCh:
				if !ok {
					return
				}
				a.log.Debug("event", logx.String("type", ev.Type), logx.Any("data", ev.Data))
			}
		}
	})

	a.log.Info("started", logx.String("schedule", sched))
}

func (a *App) Stop(ctx context.Context) {
	a.watcher.Stop(ctx)

	if a.sup != nil {
		a.sup.Cancel()
		if err := a.sup.Wait(ctx); err != nil {
			a.log.Warn("shutdown incomplete", logx.Err(err))
		}
	}
	a.cfgMgr.Unsubscribe(a.cfgCh)

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("storage close failed", logx.Err(err))
		}
	}

	a.log.Info("stopped")
	_ = a.logs.Close()
}

func (a *App) reloadLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg, ok := <-a.cfgCh:
			if !ok {
				return
			}
			a.applyConfig(cfg)
		}
	}
}

// applyConfig pushes a reloaded config into the running components.
// Transport, endpoint and storage changes need a restart; everything the
// loop consults per cycle is swapped live.
func (a *App) applyConfig(cfg *config.Config) {
	prev := a.cfg
	a.cfg = cfg

	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File:    logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
	})

	if ncfg, err := buildNotifyConfig(cfg); err == nil {
		a.notifier.Apply(ncfg)
	} else {
		a.log.Warn("notify config not applied", logx.Err(err))
	}

	if cfg.Watch.Schedule != prev.Watch.Schedule {
		spec, err := schedule.Parse(cfg.Watch.Schedule)
		if err != nil {
			a.log.Warn("schedule not applied", logx.Err(err))
		} else {
			a.watcher.Apply(watch.Config{Cadence: spec})
			a.log.Info("schedule applied", logx.String("schedule", spec.String()))
		}
	}

	if storageChanged(prev, cfg) {
		a.log.Warn("storage config changed; restart required to take effect")
	}
	if cfg.Telegram != prev.Telegram || cfg.Practicum != prev.Practicum {
		a.log.Warn("transport config changed; restart required to take effect")
	}
}

// validateConfig is the reload gate: a config that cannot drive the loop
// is rejected before commit.
func validateConfig(ctx context.Context, cfg *config.Config) error {
	if err := cfg.CheckCredentials(); err != nil {
		return err
	}
	if _, err := schedule.Parse(cfg.Watch.Schedule); err != nil {
		return fmt.Errorf("watch.schedule: %w", err)
	}
	if _, err := buildNotifyConfig(cfg); err != nil {
		return err
	}
	if _, err := buildStorageConfig(cfg); err != nil {
		return err
	}
	if _, err := config.ParseDurationField("practicum.timeout", cfg.Practicum.Timeout); err != nil {
		return err
	}
	if _, err := config.ParseDurationField("telegram.timeout", cfg.Telegram.Timeout); err != nil {
		return err
	}
	return nil
}

func buildNotifyConfig(cfg *config.Config) (notify.Config, error) {
	out := notify.Config{}
	if cfg.Notify == nil {
		return out, nil
	}
	out.RatePerSec = cfg.Notify.RatePerSec
	window, err := config.ParseDurationField("notify.dedup_window", cfg.Notify.DedupWindow)
	if err != nil {
		return out, err
	}
	out.DedupWindow = window
	return out, nil
}

func buildStorageConfig(cfg *config.Config) (storage.Config, error) {
	out := storage.Config{}
	if cfg.Storage == nil {
		return out, nil
	}
	busy, err := config.ParseDurationField("storage.busy_timeout", cfg.Storage.BusyTimeout)
	if err != nil {
		return out, err
	}
	out = storage.Config{
		Driver:      cfg.Storage.Driver,
		Path:        cfg.Storage.Path,
		Addr:        cfg.Storage.Addr,
		Password:    cfg.Storage.Password,
		DB:          cfg.Storage.DB,
		BusyTimeout: busy,
	}
	return out, nil
}

func storageChanged(a, b *config.Config) bool {
	switch {
	case a.Storage == nil && b.Storage == nil:
		return false
	case a.Storage == nil || b.Storage == nil:
		return true
	default:
		return *a.Storage != *b.Storage
	}
}

// failEarly closes already-acquired resources when construction aborts.
func (a *App) failEarly(err error) error {
	if a.store != nil {
		_ = a.store.Close()
	}
	if a.logs != nil {
		_ = a.logs.Close()
	}
	return err
}
