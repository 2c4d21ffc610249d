package sample_test

import (
	"context"
	"strings"
	"testing"

	"github.com/aretw0/dialogs"
	"github.com/aretw0/dialogs/internal/sample"
	"github.com/aretw0/dialogs/pkg/bot"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	sent []*domain.Activity
}

func (r *recorder) Send(ctx context.Context, activities ...*domain.Activity) error {
	r.sent = append(r.sent, activities...)
	return nil
}

func (r *recorder) last() *domain.Activity {
	return r.sent[len(r.sent)-1]
}

func say(t *testing.T, e *dialogs.Engine, out *recorder, locale, text string) {
	t.Helper()
	a := &domain.Activity{
		Type:         domain.ActivityMessage,
		Text:         text,
		Locale:       locale,
		Conversation: domain.ConversationRef{ID: "demo"},
		From:         domain.Account{ID: "user"},
		Recipient:    domain.Account{ID: "bot"},
	}
	require.NoError(t, e.Process(context.Background(), a, out))
}

func TestOnboarding(t *testing.T) {
	e, err := dialogs.New(sample.NewSet("en-us"), sample.RootID)
	require.NoError(t, err)
	out := &recorder{}

	say(t, e, out, "", "hello")
	assert.Equal(t, "What should I call you?", out.last().Text)

	say(t, e, out, "", "   ")
	assert.Contains(t, out.last().Text, "at most 50 characters")

	say(t, e, out, "", strings.Repeat("x", sample.MaxNameLength+1))
	assert.Contains(t, out.last().Text, "at most 50 characters")

	say(t, e, out, "", "  Ada ")
	assert.Equal(t, "Nice to meet you, **Ada**. Do you want to receive updates?", out.last().Text)
	assert.Equal(t, []string{"Yes", "No"}, out.last().SuggestedActions)

	say(t, e, out, "", "maybe")
	assert.Equal(t, "Please answer yes or no.", out.last().Text)

	say(t, e, out, "", "yes")
	assert.Equal(t, "Done, you are subscribed.", out.last().Text)

	state, err := e.Sessions().Load(context.Background(), "demo")
	require.NoError(t, err)
	assert.Empty(t, state.Stack)
	assert.Equal(t, sample.Profile{Name: "Ada", Subscribed: true}, state.Values[bot.LastResultKey])
}

func TestOnboarding_LocalizedChoices(t *testing.T) {
	e, err := dialogs.New(sample.NewSet("pt-br"), sample.RootID)
	require.NoError(t, err)
	out := &recorder{}

	say(t, e, out, "", "oi")
	say(t, e, out, "", "Ada")
	assert.Equal(t, []string{"Sim", "Não"}, out.last().SuggestedActions)

	say(t, e, out, "", "não")
	assert.Equal(t, "No problem, you will not receive updates.", out.last().Text)
}

func TestNewSet_RegistersAllDialogs(t *testing.T) {
	set := sample.NewSet("")
	assert.ElementsMatch(t, []string{sample.RootID, sample.NameID, sample.ConfirmID}, set.IDs())
}
