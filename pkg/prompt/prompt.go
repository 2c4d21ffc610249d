package prompt

import (
	"context"
	"log/slog"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

const (
	stateOptions  = "options"
	stateAttempts = "attempts"
)

// Recognized is the outcome of recognising one reply.
type Recognized[T any] struct {
	Succeeded bool
	Value     T

	// Text is the raw reply.
	Text string

	// AttemptCount counts replies received by this prompt instance, including this one.
	AttemptCount int

	Options  Options
	Activity *domain.Activity
}

// Validator decides whether a recognised reply is acceptable. It may send its
// own message through tc; the prompt then skips its retry message.
type Validator[T any] func(ctx context.Context, tc *dialog.TurnContext, r *Recognized[T]) (bool, error)

// behavior is what concrete prompts plug into the shared lifecycle.
type behavior[T any] interface {
	recognize(ctx context.Context, tc *dialog.TurnContext, opts Options) (Recognized[T], error)
	decorate(tc *dialog.TurnContext, opts Options, activity *domain.Activity) *domain.Activity
}

// base implements Begin, Continue, Resume and Reprompt for every prompt.
type base[T any] struct {
	dialog.Base
	impl      behavior[T]
	validator Validator[T]
	logger    *slog.Logger
}

func newBase[T any](id string, impl behavior[T], validator Validator[T]) *base[T] {
	return &base[T]{
		Base:      dialog.NewBase(id),
		impl:      impl,
		validator: validator,
		logger:    logging.NewNop(),
	}
}

// SetLogger replaces the prompt's logger.
func (p *base[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		p.logger = logger
	}
}

// Begin stores the options, sends the prompt and waits.
func (p *base[T]) Begin(ctx context.Context, dc *dialog.Context, args domain.Optional) (domain.TurnResult, error) {
	opts, err := optionsFrom(args.Get())
	if err != nil {
		return domain.TurnResult{}, err
	}

	inst := dc.ActiveDialog()
	inst.State[stateOptions] = opts
	inst.State[stateAttempts] = 0

	if err := p.send(ctx, dc.Turn(), opts, false); err != nil {
		return domain.TurnResult{}, err
	}
	return domain.EndOfTurn(), nil
}

// Continue recognises the reply and either ends with the value or re-prompts.
func (p *base[T]) Continue(ctx context.Context, dc *dialog.Context) (domain.TurnResult, error) {
	tc := dc.Turn()
	if !tc.Activity.IsMessage() {
		return domain.EndOfTurn(), nil
	}

	inst := dc.ActiveDialog()
	opts, err := optionsFrom(inst.State[stateOptions])
	if err != nil {
		return domain.TurnResult{}, err
	}
	attempts := dialog.Int(inst.State[stateAttempts]) + 1
	inst.State[stateAttempts] = attempts

	recognized, err := p.impl.recognize(ctx, tc, opts)
	if err != nil {
		return domain.TurnResult{}, err
	}
	recognized.AttemptCount = attempts
	recognized.Options = opts
	recognized.Activity = tc.Activity

	valid := recognized.Succeeded
	if valid && p.validator != nil {
		valid, err = p.validator(ctx, tc, &recognized)
		if err != nil {
			return domain.TurnResult{}, err
		}
	}

	if valid {
		p.logger.DebugContext(ctx, "prompt recognized", "dialog_id", p.ID(), "attempts", attempts)
		return dc.EndDialog(ctx, domain.Some(recognized.Value))
	}

	p.logger.DebugContext(ctx, "prompt retry", "dialog_id", p.ID(), "attempts", attempts, "text", recognized.Text)
	if !tc.Responded() {
		if err := p.send(ctx, tc, opts, true); err != nil {
			return domain.TurnResult{}, err
		}
	}
	return domain.EndOfTurn(), nil
}

// Resume re-prompts: a prompt only gets control back if it started a child,
// and its question is still unanswered.
func (p *base[T]) Resume(ctx context.Context, dc *dialog.Context, result domain.Optional) (domain.TurnResult, error) {
	if err := p.Reprompt(ctx, dc.Turn(), dc.ActiveDialog()); err != nil {
		return domain.TurnResult{}, err
	}
	return domain.EndOfTurn(), nil
}

// Reprompt re-sends the original prompt without touching the attempt count.
func (p *base[T]) Reprompt(ctx context.Context, tc *dialog.TurnContext, instance *domain.DialogInstance) error {
	opts, err := optionsFrom(instance.State[stateOptions])
	if err != nil {
		return err
	}
	return p.send(ctx, tc, opts, false)
}

func (p *base[T]) send(ctx context.Context, tc *dialog.TurnContext, opts Options, isRetry bool) error {
	activity := opts.Prompt
	if isRetry && opts.RetryPrompt != nil {
		activity = opts.RetryPrompt
	}
	if activity == nil {
		return nil
	}
	out := p.impl.decorate(tc, opts, activity)
	if out.InputHint == "" {
		out.InputHint = domain.InputExpecting
	}
	return tc.Send(ctx, out)
}
