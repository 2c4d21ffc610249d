package dialog

import (
	"context"
	"log/slog"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/pkg/domain"
)

const (
	stateStepIndex  = "step"
	stateValues     = "values"
	stateOptions    = "options"
	stateHasOptions = "has_options"
)

// WaterfallStep is one stage of a Waterfall.
type WaterfallStep func(ctx context.Context, step *StepContext) (domain.TurnResult, error)

// StepContext is handed to each waterfall step.
type StepContext struct {
	*Context

	// Index is the zero-based position of the running step.
	Index int

	// Options are the args the waterfall was begun with.
	Options domain.Optional

	// Result is the previous step's outcome: a child's result or the user's reply.
	Result domain.Optional

	// Values persists across steps of this instance.
	Values map[string]any

	w *Waterfall
}

// Next skips to the following step with the given result.
func (s *StepContext) Next(ctx context.Context, result domain.Optional) (domain.TurnResult, error) {
	return s.w.runStep(ctx, s.Context, s.Index+1, result)
}

// Waterfall runs its steps in order, one per turn or child completion.
// Running past the last step ends the dialog with the last result.
type Waterfall struct {
	Base
	steps  []WaterfallStep
	logger *slog.Logger
}

// WaterfallOption configures a Waterfall.
type WaterfallOption func(*Waterfall)

// WithWaterfallLogger sets the logger used by the waterfall.
func WithWaterfallLogger(logger *slog.Logger) WaterfallOption {
	return func(w *Waterfall) {
		w.logger = logger
	}
}

// NewWaterfall creates a waterfall dialog.
func NewWaterfall(id string, steps []WaterfallStep, opts ...WaterfallOption) *Waterfall {
	w := &Waterfall{
		Base:   NewBase(id),
		steps:  steps,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// AddStep appends a step. Only call while wiring, before any turn runs.
func (w *Waterfall) AddStep(step WaterfallStep) *Waterfall {
	w.steps = append(w.steps, step)
	return w
}

// Begin stores the options and runs the first step.
func (w *Waterfall) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	inst := dc.ActiveDialog()
	inst.State[stateHasOptions] = args.IsPresent()
	inst.State[stateOptions] = args.Get()
	inst.State[stateValues] = map[string]any{}
	return w.runStep(ctx, dc, 0, domain.None())
}

// Continue advances with the user's reply. Non-message activities are ignored.
func (w *Waterfall) Continue(ctx context.Context, dc *Context) (domain.TurnResult, error) {
	if !dc.Turn().Activity.IsMessage() {
		return domain.EndOfTurn(), nil
	}
	inst := dc.ActiveDialog()
	return w.runStep(ctx, dc, Int(inst.State[stateStepIndex])+1, domain.Some(dc.Turn().Activity.Text))
}

// Resume advances with the result of the child that just ended.
func (w *Waterfall) Resume(ctx context.Context, dc *Context, result domain.Optional) (domain.TurnResult, error) {
	inst := dc.ActiveDialog()
	return w.runStep(ctx, dc, Int(inst.State[stateStepIndex])+1, result)
}

// End logs how far the waterfall got.
func (w *Waterfall) End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error {
	w.logger.DebugContext(ctx, "waterfall ended",
		"dialog_id", w.ID(),
		"step", Int(instance.State[stateStepIndex]),
		"steps", len(w.steps),
		"reason", reason,
	)
	return nil
}

func (w *Waterfall) runStep(ctx context.Context, dc *Context, index int, result domain.Optional) (domain.TurnResult, error) {
	if index >= len(w.steps) {
		return dc.EndDialog(ctx, result)
	}

	inst := dc.ActiveDialog()
	inst.State[stateStepIndex] = index

	values, _ := inst.State[stateValues].(map[string]any)
	if values == nil {
		values = map[string]any{}
		inst.State[stateValues] = values
	}

	options := domain.None()
	if hasOptions, _ := inst.State[stateHasOptions].(bool); hasOptions {
		options = domain.Some(inst.State[stateOptions])
	}

	w.logger.DebugContext(ctx, "waterfall step", "dialog_id", w.ID(), "step", index)
	return w.steps[index](ctx, &StepContext{
		Context: dc,
		Index:   index,
		Options: options,
		Result:  result,
		Values:  values,
		w:       w,
	})
}
