package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/expression"
	"github.com/aretw0/dialogs/pkg/session"
)

// Event names understood by DialogBot.
const (
	EventReprompt = "reprompt"
	EventCancel   = "cancel"
)

// Interruption words.
const (
	InterruptCancel  = "cancel"
	InterruptRestart = "restart"
)

// LastResultKey is the conversation value holding the root dialog's last result.
const LastResultKey = "last_result"

// ErrMissingConversation is returned for activities without a conversation id.
var ErrMissingConversation = errors.New("activity has no conversation id")

// DialogBot runs a root dialog for every conversation.
type DialogBot struct {
	dialogs  *dialog.Set
	rootID   string
	sessions *session.Manager

	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	welcome      string
	cancelled    string
	errorMessage string
	interrupts   map[string]string
}

// Option configures a DialogBot.
type Option func(*DialogBot)

// WithLogger sets the bot's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *DialogBot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLifecycleHooks registers dialog and turn observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *DialogBot) {
		b.hooks = hooks
	}
}

// WithWelcome sets the message sent to members joining a conversation.
// An empty text disables the greeting.
func WithWelcome(text string) Option {
	return func(b *DialogBot) {
		b.welcome = text
	}
}

// WithErrorMessage sets the apology sent when a turn fails.
func WithErrorMessage(text string) Option {
	return func(b *DialogBot) {
		b.errorMessage = text
	}
}

// WithInterruption maps a user utterance to InterruptCancel or InterruptRestart.
func WithInterruption(word, action string) Option {
	return func(b *DialogBot) {
		b.interrupts[strings.ToLower(strings.TrimSpace(word))] = action
	}
}

// New creates a DialogBot. rootID must be registered in dialogs.
func New(dialogs *dialog.Set, rootID string, sessions *session.Manager, opts ...Option) (*DialogBot, error) {
	if _, ok := dialogs.Find(rootID); !ok {
		return nil, fmt.Errorf("%w: root %q", domain.ErrDialogNotFound, rootID)
	}
	b := &DialogBot{
		dialogs:      dialogs,
		rootID:       rootID,
		sessions:     sessions,
		logger:       logging.NewNop(),
		welcome:      "Welcome! Say anything to get started.",
		cancelled:    "Ok, cancelled.",
		errorMessage: "Sorry, something went wrong.",
		interrupts: map[string]string{
			InterruptCancel:  InterruptCancel,
			InterruptRestart: InterruptRestart,
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Dialogs returns the registered dialog set.
func (b *DialogBot) Dialogs() *dialog.Set {
	return b.dialogs
}

// Sessions returns the session manager.
func (b *DialogBot) Sessions() *session.Manager {
	return b.sessions
}

// OnTurn processes one inbound activity. A failing turn is not persisted.
func (b *DialogBot) OnTurn(ctx context.Context, tc *dialog.TurnContext) error {
	id := tc.Activity.Conversation.ID
	if id == "" {
		return ErrMissingConversation
	}

	start := time.Now()
	var (
		result domain.TurnResult
		depth  int
	)
	err := b.sessions.Update(ctx, id, func(ctx context.Context, state *domain.ConversationState) error {
		before := state.Clone()
		state.Turns++
		if tc.Activity.Locale != "" {
			state.Locale = tc.Locale()
		}

		dc := dialog.NewContext(b.dialogs, tc, state,
			dialog.WithLifecycleHooks(b.hooks),
			dialog.WithLogger(b.logger),
		)

		var err error
		result, err = b.route(dc).run(ctx, tc)
		if err != nil {
			return err
		}
		depth = dc.Depth()
		if !result.HasActive && result.HasResult {
			state.Values[LastResultKey] = result.Result
		}
		if d := domain.Diff(before, state); d != nil {
			b.logger.DebugContext(ctx, "turn applied", "conversation_id", id,
				"pushed", d.Pushed, "popped", d.Popped, "changed_values", len(d.Values))
		}
		return nil
	})

	b.emitTurn(ctx, id, time.Since(start), result, depth, err)
	if err != nil {
		b.logger.ErrorContext(ctx, "turn failed", "conversation_id", id, "err", err)
		if b.errorMessage != "" {
			if sendErr := tc.SendText(ctx, b.errorMessage); sendErr != nil {
				b.logger.WarnContext(ctx, "failed to send error message", "conversation_id", id, "err", sendErr)
			}
		}
		return fmt.Errorf("turn %s: %w", id, err)
	}
	return nil
}

// EndConversation cancels every dialog of a conversation and removes it from the store.
func (b *DialogBot) EndConversation(ctx context.Context, conversationID string) error {
	if _, err := b.sessions.Load(ctx, conversationID); err != nil {
		return err
	}
	activity := &domain.Activity{
		Type:         domain.ActivityEndOfConversation,
		Conversation: domain.ConversationRef{ID: conversationID},
	}
	tc := dialog.NewTurnContext(activity, nil)
	err := b.sessions.Update(ctx, conversationID, func(ctx context.Context, state *domain.ConversationState) error {
		dc := dialog.NewContext(b.dialogs, tc, state,
			dialog.WithLifecycleHooks(b.hooks),
			dialog.WithLogger(b.logger),
		)
		_, err := dc.CancelAllDialogs(ctx)
		return err
	})
	if err != nil {
		return err
	}
	return b.sessions.Delete(ctx, conversationID)
}

// turn binds the routing table to one dialog context.
type turn struct {
	b      *DialogBot
	dc     *dialog.Context
	result domain.TurnResult
}

func (b *DialogBot) route(dc *dialog.Context) *turn {
	return &turn{b: b, dc: dc, result: domain.Empty()}
}

func (t *turn) run(ctx context.Context, tc *dialog.TurnContext) (domain.TurnResult, error) {
	h := &ActivityHandler{
		OnMessage:           t.onMessage,
		OnMembersAdded:      t.onMembersAdded,
		OnEvent:             t.onEvent,
		OnEndOfConversation: t.onEndOfConversation,
	}
	if err := h.OnTurn(ctx, tc); err != nil {
		return domain.TurnResult{}, err
	}
	return t.result, nil
}

func (t *turn) onMessage(ctx context.Context, tc *dialog.TurnContext) error {
	switch t.b.interrupts[strings.ToLower(tc.Text())] {
	case InterruptCancel:
		return t.cancel(ctx, tc, true)
	case InterruptRestart:
		if err := t.cancel(ctx, tc, false); err != nil {
			return err
		}
		return t.beginRoot(ctx, tc)
	}
	return t.runDialog(ctx, tc)
}

func (t *turn) onMembersAdded(ctx context.Context, members []domain.Account, tc *dialog.TurnContext) error {
	if t.b.welcome == "" {
		return nil
	}
	for range members {
		if err := tc.SendText(ctx, t.b.welcome); err != nil {
			return err
		}
	}
	return nil
}

func (t *turn) onEvent(ctx context.Context, tc *dialog.TurnContext) error {
	switch tc.Activity.Name {
	case EventReprompt:
		return t.dc.RepromptDialog(ctx)
	case EventCancel:
		return t.cancel(ctx, tc, false)
	}
	if t.dc.Depth() == 0 {
		return nil
	}
	var err error
	t.result, err = t.dc.ContinueDialog(ctx)
	return err
}

func (t *turn) onEndOfConversation(ctx context.Context, tc *dialog.TurnContext) error {
	return t.cancel(ctx, tc, false)
}

// runDialog continues the active dialog, or begins the root when the stack is empty.
func (t *turn) runDialog(ctx context.Context, tc *dialog.TurnContext) error {
	if t.dc.Depth() == 0 {
		return t.beginRoot(ctx, tc)
	}
	var err error
	t.result, err = t.dc.ContinueDialog(ctx)
	return err
}

func (t *turn) beginRoot(ctx context.Context, tc *dialog.TurnContext) error {
	args := domain.None()
	if expression.Exists(tc.Activity.Value) {
		args = domain.Some(tc.Activity.Value)
	}
	var err error
	t.result, err = t.dc.BeginDialog(ctx, t.b.rootID, args)
	return err
}

func (t *turn) cancel(ctx context.Context, tc *dialog.TurnContext, notify bool) error {
	wasActive := t.dc.Depth() > 0
	var err error
	t.result, err = t.dc.CancelAllDialogs(ctx)
	if err != nil {
		return err
	}
	if notify && wasActive && t.b.cancelled != "" {
		return tc.SendText(ctx, t.b.cancelled)
	}
	return nil
}

func (b *DialogBot) emitTurn(ctx context.Context, id string, d time.Duration, result domain.TurnResult, depth int, err error) {
	if b.hooks.OnTurn == nil {
		return
	}
	b.hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{
			Timestamp:      time.Now(),
			Type:           domain.EventTurn,
			ConversationID: id,
		},
		Duration: d,
		Result:   result,
		Depth:    depth,
		Err:      err,
	})
}
