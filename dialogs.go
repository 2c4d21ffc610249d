package dialogs

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/pkg/adapters/console"
	transport "github.com/aretw0/dialogs/pkg/adapters/http"
	"github.com/aretw0/dialogs/pkg/adapters/memory"
	"github.com/aretw0/dialogs/pkg/bot"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/observability"
	"github.com/aretw0/dialogs/pkg/persistence/middleware"
	"github.com/aretw0/dialogs/pkg/ports"
	"github.com/aretw0/dialogs/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Version is the release of the library and the dialogs binary.
var Version = "0.1.0"

// Engine wires a dialog set to persistence, locking, observability and transports.
type Engine struct {
	dialogs *dialog.Set
	rootID  string

	store       ports.StateStore
	middlewares []middleware.Middleware
	sessionOpts []session.Option
	botOpts     []bot.Option
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
	registerer  prometheus.Registerer
	maxInput    int

	sessions *session.Manager
	bot      *bot.DialogBot
	metrics  *observability.Metrics
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithStore sets the conversation store (default: in-memory).
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithStoreMiddleware wraps the store, first listed outermost.
func WithStoreMiddleware(mws ...middleware.Middleware) Option {
	return func(e *Engine) {
		e.middlewares = append(e.middlewares, mws...)
	}
}

// WithSessionOptions configures the session manager (distributed locking, lock TTL).
func WithSessionOptions(opts ...session.Option) Option {
	return func(e *Engine) {
		e.sessionOpts = append(e.sessionOpts, opts...)
	}
}

// WithBotOptions configures the DialogBot (welcome text, interruptions).
func WithBotOptions(opts ...bot.Option) Option {
	return func(e *Engine) {
		e.botOpts = append(e.botOpts, opts...)
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics registers Prometheus collectors with reg.
// When reg is also a Gatherer, Handler serves it at /metrics.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(e *Engine) {
		e.registerer = reg
	}
}

// WithMaxInputSize caps each user-supplied string accepted by Handler and Console.
func WithMaxInputSize(n int) Option {
	return func(e *Engine) {
		e.maxInput = n
	}
}

// New builds an Engine that runs rootID for every conversation.
func New(dialogs *dialog.Set, rootID string, opts ...Option) (*Engine, error) {
	e := &Engine{
		dialogs: dialogs,
		rootID:  rootID,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.logger == nil {
		e.logger = logging.NewNop()
	}
	if e.store == nil {
		e.store = memory.NewStore()
	}
	store := middleware.Chain(e.store, e.middlewares...)

	hooks := []domain.LifecycleHooks{observability.LogHooks(e.logger)}
	if e.registerer != nil {
		e.metrics = observability.NewMetrics(e.registerer)
		hooks = append(hooks, e.metrics.Hooks())
	}
	hooks = append(hooks, e.hooks)

	e.sessions = session.NewManager(store, append([]session.Option{session.WithLogger(e.logger)}, e.sessionOpts...)...)

	botOpts := append([]bot.Option{
		bot.WithLogger(e.logger),
		bot.WithLifecycleHooks(observability.Merge(hooks...)),
	}, e.botOpts...)
	b, err := bot.New(e.dialogs, rootID, e.sessions, botOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	e.bot = b
	return e, nil
}

// Process runs one turn for activity, delivering replies through sender.
func (e *Engine) Process(ctx context.Context, activity *domain.Activity, sender ports.ActivitySender) error {
	return e.bot.OnTurn(ctx, dialog.NewTurnContext(activity, sender))
}

// Bot returns the underlying DialogBot.
func (e *Engine) Bot() *bot.DialogBot {
	return e.bot
}

// Sessions returns the session manager.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Dialogs returns the registered dialog set.
func (e *Engine) Dialogs() *dialog.Set {
	return e.dialogs
}

// Metrics returns the collectors, or nil when metrics are disabled.
func (e *Engine) Metrics() *observability.Metrics {
	return e.metrics
}

// Handler returns the HTTP transport for the engine.
func (e *Engine) Handler(opts ...transport.Option) http.Handler {
	base := []transport.Option{transport.WithLogger(e.logger), transport.WithMaxInputSize(e.maxInput)}
	if g, ok := e.registerer.(prometheus.Gatherer); ok {
		base = append(base, transport.WithMetricsHandler(promhttp.HandlerFor(g, promhttp.HandlerOpts{})))
	}
	return transport.NewHandler(e.bot, e.sessions, append(base, opts...)...)
}

// Console returns a console transport for the engine.
func (e *Engine) Console(opts ...console.Option) *console.Console {
	base := []console.Option{console.WithLogger(e.logger), console.WithMaxInputSize(e.maxInput)}
	return console.New(e.bot, append(base, opts...)...)
}
