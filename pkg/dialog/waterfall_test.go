package dialog

import (
	"context"
	"testing"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoPrompt asks a question and ends with the user's reply.
type echoPrompt struct {
	Base
}

func (p *echoPrompt) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	if err := dc.Turn().SendText(ctx, args.Get().(string)); err != nil {
		return domain.TurnResult{}, err
	}
	return domain.EndOfTurn(), nil
}

func (p *echoPrompt) Continue(ctx context.Context, dc *Context) (domain.TurnResult, error) {
	return dc.EndDialog(ctx, domain.Some(dc.Turn().Text()))
}

func newProfileWaterfall() *Waterfall {
	return NewWaterfall("profile", []WaterfallStep{
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			return step.Prompt(ctx, "ask", "What is your name?")
		},
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			step.Values["name"] = step.Result.Get()
			if err := step.Turn().SendText(ctx, "Thanks "+step.Result.Get().(string)+". Your city?"); err != nil {
				return domain.TurnResult{}, err
			}
			return domain.EndOfTurn(), nil
		},
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			step.Values["city"] = step.Result.Get()
			return step.EndDialog(ctx, domain.Some(map[string]any{
				"name": step.Values["name"],
				"city": step.Values["city"],
			}))
		},
	})
}

func TestWaterfall_RunsStepsAcrossPersistedTurns(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	set := NewSet(newProfileWaterfall(), &echoPrompt{Base: NewBase("ask")})
	state := domain.NewConversationState("conv-1")

	result, err := newTestContext(set, rec, state, "").BeginDialog(ctx, "profile", domain.None())
	require.NoError(t, err)
	assert.True(t, result.IsEndOfTurn())
	assert.Equal(t, []string{"profile", "ask"}, state.StackIDs())

	state = roundTrip(t, state)
	result, err = newTestContext(set, rec, state, "Ana").ContinueDialog(ctx)
	require.NoError(t, err)
	assert.True(t, result.IsEndOfTurn())
	assert.Equal(t, []string{"profile"}, state.StackIDs())

	state = roundTrip(t, state)
	result, err = newTestContext(set, rec, state, "Recife").ContinueDialog(ctx)
	require.NoError(t, err)

	assert.False(t, result.HasActive)
	assert.True(t, result.HasResult)
	assert.Equal(t, map[string]any{"name": "Ana", "city": "Recife"}, result.Result)
	assert.Empty(t, state.Stack)
	assert.Equal(t, []string{"What is your name?", "Thanks Ana. Your city?"}, rec.texts())
}

func TestWaterfall_OptionsAndNext(t *testing.T) {
	ctx := context.Background()
	var seen []domain.Optional

	w := NewWaterfall("skip", []WaterfallStep{
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			seen = append(seen, step.Options)
			return step.Next(ctx, domain.Some("from-first"))
		},
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			seen = append(seen, step.Result)
			return step.Next(ctx, step.Result)
		},
	})
	set := NewSet(w)

	result, err := newTestContext(set, &recorder{}, nil, "").BeginDialog(ctx, "skip", domain.Some(nil))
	require.NoError(t, err)

	assert.Equal(t, domain.Completed("from-first"), result, "running past the last step ends with the last result")
	require.Len(t, seen, 2)
	assert.True(t, seen[0].IsPresent(), "present-but-nil options survive")
	assert.Nil(t, seen[0].Get())
	assert.Equal(t, domain.Some("from-first"), seen[1])
}

func TestWaterfall_IgnoresNonMessageActivities(t *testing.T) {
	ctx := context.Background()
	rec := &recorder{}
	set := NewSet(NewWaterfall("wait", []WaterfallStep{
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			return domain.EndOfTurn(), nil
		},
		func(ctx context.Context, step *StepContext) (domain.TurnResult, error) {
			return step.EndDialog(ctx, step.Result)
		},
	}))
	state := domain.NewConversationState("conv-1")

	_, err := newTestContext(set, rec, state, "").BeginDialog(ctx, "wait", domain.None())
	require.NoError(t, err)

	typing := NewTurnContext(&domain.Activity{Type: domain.ActivityTyping}, rec)
	result, err := NewContext(set, typing, state).ContinueDialog(ctx)
	require.NoError(t, err)
	assert.True(t, result.IsEndOfTurn())
	assert.Equal(t, []string{"wait"}, state.StackIDs())
}

func TestDecode(t *testing.T) {
	type opts struct {
		Name    string   `json:"name"`
		Retries int      `json:"retries"`
		Tags    []string `json:"tags"`
	}

	var out opts
	err := Decode(map[string]any{"name": "x", "retries": float64(3), "tags": []any{"a", "b"}}, &out)
	require.NoError(t, err)
	assert.Equal(t, opts{Name: "x", Retries: 3, Tags: []string{"a", "b"}}, out)

	assert.Equal(t, 3, Int(float64(3)))
	assert.Equal(t, 3, Int(3))
	assert.Equal(t, 0, Int("3"))
}
