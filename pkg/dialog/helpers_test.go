package dialog

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/stretchr/testify/require"
)

// recorder collects outbound activities and end notifications.
type recorder struct {
	sent []*domain.Activity
	ends []string
}

func (r *recorder) Send(ctx context.Context, activities ...*domain.Activity) error {
	r.sent = append(r.sent, activities...)
	return nil
}

func (r *recorder) texts() []string {
	out := make([]string, len(r.sent))
	for i, a := range r.sent {
		out[i] = a.Text
	}
	return out
}

func (r *recorder) endHook(instance *domain.DialogInstance, reason domain.EndReason) {
	r.ends = append(r.ends, fmt.Sprintf("%s:%s", instance.ID, reason))
}

func message(text string) *domain.Activity {
	return &domain.Activity{
		Type:         domain.ActivityMessage,
		ID:           "in-1",
		Text:         text,
		Conversation: domain.ConversationRef{ID: "conv-1"},
		From:         domain.Account{ID: "user"},
		Recipient:    domain.Account{ID: "bot"},
	}
}

func newTestContext(set *Set, rec *recorder, state *domain.ConversationState, text string) *Context {
	if state == nil {
		state = domain.NewConversationState("conv-1")
	}
	return NewContext(set, NewTurnContext(message(text), rec), state)
}

// roundTrip simulates persistence between turns.
func roundTrip(t *testing.T, state *domain.ConversationState) *domain.ConversationState {
	t.Helper()
	data, err := json.Marshal(state)
	require.NoError(t, err)
	var out domain.ConversationState
	require.NoError(t, json.Unmarshal(data, &out))
	return &out
}

// waitDialog stays active after Begin and has no Continue or Resume.
type waitDialog struct {
	Base
	rec *recorder
}

func (d *waitDialog) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	return domain.EndOfTurn(), nil
}

func (d *waitDialog) End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error {
	d.rec.endHook(instance, reason)
	return nil
}

// endingContinueDialog is waitDialog with a Continue that ends without a result.
type endingContinueDialog struct {
	waitDialog
}

func (d *endingContinueDialog) Continue(ctx context.Context, dc *Context) (domain.TurnResult, error) {
	return dc.EndDialog(ctx, domain.None())
}

// answerDialog waits one turn, then ends with a fixed answer.
type answerDialog struct {
	Base
	rec    *recorder
	answer domain.Optional
}

func (d *answerDialog) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	return domain.EndOfTurn(), nil
}

func (d *answerDialog) Continue(ctx context.Context, dc *Context) (domain.TurnResult, error) {
	return dc.EndDialog(ctx, d.answer)
}

func (d *answerDialog) End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error {
	d.rec.endHook(instance, reason)
	return nil
}

// parentDialog begins child and records what it is resumed with.
type parentDialog struct {
	Base
	rec     *recorder
	child   string
	resumed []domain.Optional
}

func (d *parentDialog) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	return dc.BeginDialog(ctx, d.child, domain.None())
}

func (d *parentDialog) Resume(ctx context.Context, dc *Context, result domain.Optional) (domain.TurnResult, error) {
	d.resumed = append(d.resumed, result)
	return domain.EndOfTurn(), nil
}

func (d *parentDialog) End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error {
	d.rec.endHook(instance, reason)
	return nil
}

// passThroughDialog begins child and has no Resume.
type passThroughDialog struct {
	Base
	rec   *recorder
	child string
}

func (d *passThroughDialog) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	return dc.BeginDialog(ctx, d.child, domain.None())
}

func (d *passThroughDialog) End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error {
	d.rec.endHook(instance, reason)
	return nil
}

// forwardingResumeDialog is passThroughDialog with a Resume that ends forwarding the result.
type forwardingResumeDialog struct {
	passThroughDialog
}

func (d *forwardingResumeDialog) Resume(ctx context.Context, dc *Context, result domain.Optional) (domain.TurnResult, error) {
	return dc.EndDialog(ctx, result)
}

// repromptDialog counts reprompts.
type repromptDialog struct {
	Base
	reprompts int
}

func (d *repromptDialog) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	dc.ActiveDialog().State["asked"] = 1
	return domain.EndOfTurn(), dc.Turn().SendText(ctx, "question?")
}

func (d *repromptDialog) Reprompt(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance) error {
	d.reprompts++
	return tc.SendText(ctx, "question?")
}
