package dialog

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/pkg/domain"
)

// Context is the dialog stack manager for one conversation during one turn.
// It is not safe for concurrent use; callers serialise turns per conversation.
type Context struct {
	set    *Set
	turn   *TurnContext
	state  *domain.ConversationState
	hooks  domain.LifecycleHooks
	logger *slog.Logger
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) ContextOption {
	return func(dc *Context) {
		dc.hooks = hooks
	}
}

// WithLogger sets a structured logger for stack operations.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(dc *Context) {
		if logger != nil {
			dc.logger = logger
		}
	}
}

// NewContext binds a dialog set, a turn and a conversation's persisted state.
// The stack in state is mutated in place.
func NewContext(set *Set, turn *TurnContext, state *domain.ConversationState, opts ...ContextOption) *Context {
	if state == nil {
		state = domain.NewConversationState(turn.Activity.Conversation.ID)
	}
	dc := &Context{
		set:    set,
		turn:   turn,
		state:  state,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(dc)
	}
	dc.logger = dc.logger.With("conversation_id", state.ConversationID)
	return dc
}

// Turn returns the turn being processed.
func (dc *Context) Turn() *TurnContext {
	return dc.turn
}

// State returns the conversation state the stack lives in.
func (dc *Context) State() *domain.ConversationState {
	return dc.state
}

// Dialogs returns the dialog set used for lookups.
func (dc *Context) Dialogs() *Set {
	return dc.set
}

// ActiveDialog returns the top-of-stack instance, or nil.
// Dialogs should mutate the instance's State map only; the slot itself can move
// when the stack grows.
func (dc *Context) ActiveDialog() *domain.DialogInstance {
	return dc.state.Active()
}

// Depth returns the number of instances on the stack.
func (dc *Context) Depth() int {
	return len(dc.state.Stack)
}

// Stack returns a copy of the stack, bottom first.
func (dc *Context) Stack() []domain.DialogInstance {
	out := make([]domain.DialogInstance, len(dc.state.Stack))
	for i, inst := range dc.state.Stack {
		out[i] = inst.Clone()
	}
	return out
}

// BeginDialog pushes a new instance of the dialog id and calls its Begin.
func (dc *Context) BeginDialog(ctx context.Context, id string, args domain.Optional) (domain.TurnResult, error) {
	if id == "" {
		return domain.TurnResult{}, domain.ErrInvalidDialogID
	}
	e, ok := dc.set.lookup(id)
	if !ok {
		return domain.TurnResult{}, fmt.Errorf("%w: %s", domain.ErrDialogNotFound, id)
	}

	dc.state.Stack = append(dc.state.Stack, *domain.NewDialogInstance(id))
	dc.logger.DebugContext(ctx, "dialog begin", "dialog_id", id, "depth", dc.Depth())
	dc.emitBegin(ctx, id)

	return e.dialog.Begin(ctx, dc, args)
}

// Prompt begins a prompt dialog with the given options.
func (dc *Context) Prompt(ctx context.Context, id string, options any) (domain.TurnResult, error) {
	return dc.BeginDialog(ctx, id, domain.Some(options))
}

// ContinueDialog hands the new turn to the active dialog.
// A dialog without Continue is ended with no result instead.
func (dc *Context) ContinueDialog(ctx context.Context) (domain.TurnResult, error) {
	inst := dc.ActiveDialog()
	if inst == nil {
		return domain.Empty(), nil
	}
	e, ok := dc.set.lookup(inst.ID)
	if !ok {
		return domain.TurnResult{}, fmt.Errorf("%w: %s (active)", domain.ErrDialogNotFound, inst.ID)
	}

	if !e.caps.Has(CanContinue) {
		dc.logger.DebugContext(ctx, "dialog has no continue, ending", "dialog_id", inst.ID)
		return dc.EndDialog(ctx, domain.None())
	}
	return e.dialog.(Continuer).Continue(ctx, dc)
}

// EndDialog pops the active dialog with reason completed and returns control
// to its parent with result. A parent without Resume is ended in turn and the
// result is forwarded unchanged. When the stack empties the result is
// surfaced in the returned TurnResult.
func (dc *Context) EndDialog(ctx context.Context, result domain.Optional) (domain.TurnResult, error) {
	if dc.ActiveDialog() != nil {
		if err := dc.popActive(ctx, domain.EndCompleted); err != nil {
			return domain.TurnResult{}, err
		}
	}
	return dc.resumeParent(ctx, result)
}

func (dc *Context) resumeParent(ctx context.Context, result domain.Optional) (domain.TurnResult, error) {
	parent := dc.ActiveDialog()
	if parent == nil {
		return domain.TurnResult{
			HasActive: false,
			HasResult: result.IsPresent(),
			Result:    result.Get(),
		}, nil
	}
	e, ok := dc.set.lookup(parent.ID)
	if !ok {
		return domain.TurnResult{}, fmt.Errorf("%w: %s (parent)", domain.ErrDialogNotFound, parent.ID)
	}

	if !e.caps.Has(CanResume) {
		dc.logger.DebugContext(ctx, "dialog has no resume, forwarding result", "dialog_id", parent.ID)
		return dc.EndDialog(ctx, result)
	}
	return e.dialog.(Resumer).Resume(ctx, dc, result)
}

// CancelAllDialogs tears the whole stack down, innermost first, delivering
// EndCancelled to every instance.
func (dc *Context) CancelAllDialogs(ctx context.Context) (domain.TurnResult, error) {
	cancelled := dc.Depth()
	for dc.ActiveDialog() != nil {
		if err := dc.popActive(ctx, domain.EndCancelled); err != nil {
			return domain.TurnResult{}, err
		}
	}
	if cancelled > 0 {
		dc.logger.InfoContext(ctx, "dialog stack cancelled", "count", cancelled)
	}
	return domain.Empty(), nil
}

// ReplaceDialog ends the active dialog with EndReplaced, without resuming its
// parent, and begins id in its place.
func (dc *Context) ReplaceDialog(ctx context.Context, id string, args domain.Optional) (domain.TurnResult, error) {
	if dc.ActiveDialog() != nil {
		if err := dc.popActive(ctx, domain.EndReplaced); err != nil {
			return domain.TurnResult{}, err
		}
	}
	return dc.BeginDialog(ctx, id, args)
}

// RepromptDialog asks the active dialog to re-issue its prompt.
// It is a no-op for dialogs without Reprompt and never advances state.
func (dc *Context) RepromptDialog(ctx context.Context) error {
	inst := dc.ActiveDialog()
	if inst == nil {
		return nil
	}
	e, ok := dc.set.lookup(inst.ID)
	if !ok {
		return fmt.Errorf("%w: %s (active)", domain.ErrDialogNotFound, inst.ID)
	}
	if !e.caps.Has(CanReprompt) {
		return nil
	}
	return e.dialog.(Repromptor).Reprompt(ctx, dc.turn, inst)
}

// popActive notifies the active dialog's End hook and removes it.
func (dc *Context) popActive(ctx context.Context, reason domain.EndReason) error {
	top := len(dc.state.Stack) - 1
	inst := &dc.state.Stack[top]

	if e, ok := dc.set.lookup(inst.ID); ok && e.caps.Has(CanEnd) {
		if err := e.dialog.(Ender).End(ctx, dc.turn, inst, reason); err != nil {
			return err
		}
	}

	id := inst.ID
	dc.state.Stack[top] = domain.DialogInstance{}
	dc.state.Stack = dc.state.Stack[:top]

	dc.logger.DebugContext(ctx, "dialog end", "dialog_id", id, "reason", reason, "depth", dc.Depth())
	dc.emitEnd(ctx, id, reason)
	return nil
}

func (dc *Context) emitBegin(ctx context.Context, id string) {
	if dc.hooks.OnDialogBegin == nil {
		return
	}
	dc.hooks.OnDialogBegin(ctx, &domain.DialogEvent{
		EventBase: domain.EventBase{
			Timestamp:      time.Now(),
			Type:           domain.EventDialogBegin,
			ConversationID: dc.state.ConversationID,
		},
		DialogID: id,
		Depth:    dc.Depth(),
	})
}

func (dc *Context) emitEnd(ctx context.Context, id string, reason domain.EndReason) {
	if dc.hooks.OnDialogEnd == nil {
		return
	}
	dc.hooks.OnDialogEnd(ctx, &domain.DialogEvent{
		EventBase: domain.EventBase{
			Timestamp:      time.Now(),
			Type:           domain.EventDialogEnd,
			ConversationID: dc.state.ConversationID,
		},
		DialogID: id,
		Depth:    dc.Depth(),
		Reason:   reason,
	})
}
