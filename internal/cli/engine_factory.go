package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/dialogs"
	"github.com/aretw0/dialogs/internal/config"
	"github.com/aretw0/dialogs/internal/sample"
	"github.com/aretw0/dialogs/pkg/adapters/file"
	"github.com/aretw0/dialogs/pkg/adapters/memory"
	"github.com/aretw0/dialogs/pkg/adapters/redis"
	"github.com/aretw0/dialogs/pkg/bot"
	"github.com/aretw0/dialogs/pkg/persistence/middleware"
	"github.com/aretw0/dialogs/pkg/ports"
	"github.com/aretw0/dialogs/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Runtime is an Engine plus the resources it owns.
type Runtime struct {
	Engine *dialogs.Engine

	// Registry is nil when metrics are disabled.
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases store connections.
func (r *Runtime) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// NewRuntime builds the sample conversation on the store, locking, encryption
// and metrics selected by cfg.
func NewRuntime(cfg config.Config, logger *slog.Logger) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rt := &Runtime{}
	opts := []dialogs.Option{dialogs.WithLogger(logger)}

	store, err := rt.openStore(cfg, logger, &opts)
	if err != nil {
		return nil, err
	}
	opts = append(opts, dialogs.WithStore(store))

	if cfg.Store.EncryptionKey != "" {
		mw, err := encryption(cfg.Store)
		if err != nil {
			_ = rt.Close()
			return nil, err
		}
		opts = append(opts, dialogs.WithStoreMiddleware(mw))
	}

	if cfg.Session.LockTTL > 0 {
		opts = append(opts, dialogs.WithSessionOptions(session.WithLockTTL(cfg.Session.LockTTL)))
	}
	if cfg.Bot.MaxInputSize > 0 {
		opts = append(opts, dialogs.WithMaxInputSize(cfg.Bot.MaxInputSize))
	}
	if cfg.Bot.Welcome != "" {
		opts = append(opts, dialogs.WithBotOptions(bot.WithWelcome(cfg.Bot.Welcome)))
	}

	if cfg.Metrics {
		rt.Registry = prometheus.NewRegistry()
		rt.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		opts = append(opts, dialogs.WithMetrics(rt.Registry))
	}

	engine, err := dialogs.New(sample.NewSet(cfg.Bot.DefaultLocale), sample.RootID, opts...)
	if err != nil {
		_ = rt.Close()
		return nil, err
	}
	rt.Engine = engine
	return rt, nil
}

func (rt *Runtime) openStore(cfg config.Config, logger *slog.Logger, opts *[]dialogs.Option) (ports.StateStore, error) {
	switch cfg.Store.Kind {
	case config.StoreFile:
		logger.Debug("using file store", "dir", cfg.Store.File.Dir)
		return file.New(cfg.Store.File.Dir), nil
	case config.StoreRedis:
		rc := cfg.Store.Redis
		logger.Debug("using redis store", "addr", rc.Addr, "db", rc.DB)
		store := redis.New(rc.Addr, rc.Password, rc.DB, redis.WithPrefix(rc.Prefix), redis.WithTTL(rc.TTL))
		rt.closers = append(rt.closers, store.Close)
		*opts = append(*opts, dialogs.WithSessionOptions(
			session.WithLocker(redis.NewLocker(store.Client(), store.Prefix())),
		))
		return store, nil
	case config.StoreMemory:
		return memory.NewStore(), nil
	}
	return nil, fmt.Errorf("unknown store kind %q", cfg.Store.Kind)
}

func encryption(sc config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(sc.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("store.encryption_key: %w", err)
	}
	fallbacks := make([][]byte, 0, len(sc.FallbackKeys))
	for i, k := range sc.FallbackKeys {
		key, err := middleware.ParseKey(k)
		if err != nil {
			return nil, fmt.Errorf("store.fallback_keys[%d]: %w", i, err)
		}
		fallbacks = append(fallbacks, key)
	}
	return middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    active,
		FallbackKeys: fallbacks,
	}), nil
}
