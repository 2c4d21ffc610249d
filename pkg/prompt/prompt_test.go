package prompt_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/prompt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sink struct {
	sent []*domain.Activity
}

func (s *sink) Send(ctx context.Context, activities ...*domain.Activity) error {
	s.sent = append(s.sent, activities...)
	return nil
}

func (s *sink) last() *domain.Activity {
	if len(s.sent) == 0 {
		return nil
	}
	return s.sent[len(s.sent)-1]
}

type harness struct {
	t     *testing.T
	set   *dialog.Set
	out   *sink
	state *domain.ConversationState
}

func newHarness(t *testing.T, dialogs ...dialog.Dialog) *harness {
	return &harness{
		t:     t,
		set:   dialog.NewSet(dialogs...),
		out:   &sink{},
		state: domain.NewConversationState("conv-1"),
	}
}

func (h *harness) dc(activity *domain.Activity) *dialog.Context {
	activity.Conversation = domain.ConversationRef{ID: "conv-1"}
	return dialog.NewContext(h.set, dialog.NewTurnContext(activity, h.out), h.state)
}

func (h *harness) begin(id string, opts prompt.Options, locale string) domain.TurnResult {
	h.t.Helper()
	result, err := h.dc(&domain.Activity{Type: domain.ActivityMessage, Locale: locale}).Prompt(context.Background(), id, opts)
	require.NoError(h.t, err)
	return result
}

func (h *harness) reply(text, locale string) domain.TurnResult {
	h.t.Helper()
	result, err := h.dc(&domain.Activity{Type: domain.ActivityMessage, Text: text, Locale: locale}).ContinueDialog(context.Background())
	require.NoError(h.t, err)
	return result
}

// persist simulates a store round trip between turns.
func (h *harness) persist() {
	h.t.Helper()
	data, err := json.Marshal(h.state)
	require.NoError(h.t, err)
	var out domain.ConversationState
	require.NoError(h.t, json.Unmarshal(data, &out))
	h.state = &out
}

func TestConfirmPrompt_RendersInlineAndRecognizesYes(t *testing.T) {
	h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))

	result := h.begin("confirm", prompt.Text("Proceed?", ""), "en-US")
	assert.True(t, result.IsEndOfTurn())
	require.Len(t, h.out.sent, 1)
	assert.Equal(t, "Proceed? (1) Yes or (2) No", h.out.last().Text)
	assert.Equal(t, domain.InputExpecting, h.out.last().InputHint)

	result = h.reply("yes", "en-US")
	assert.Equal(t, domain.Completed(true), result)
	assert.Empty(t, h.state.Stack)
}

func TestConfirmPrompt_RetryPrompt(t *testing.T) {
	t.Run("uses retry prompt when supplied", func(t *testing.T) {
		h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
		h.begin("confirm", prompt.Text("Proceed?", "Please answer yes or no."), "")

		result := h.reply("maybe", "")
		assert.True(t, result.IsEndOfTurn())
		assert.Equal(t, "Please answer yes or no. (1) Yes or (2) No", h.out.last().Text)
		assert.Equal(t, []string{"confirm"}, h.state.StackIDs())

		result = h.reply("2", "")
		assert.Equal(t, domain.Completed(false), result)
	})

	t.Run("re-renders the original prompt otherwise", func(t *testing.T) {
		h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
		h.begin("confirm", prompt.Text("Proceed?", ""), "")

		h.reply("maybe", "")
		require.Len(t, h.out.sent, 2)
		assert.Equal(t, h.out.sent[0].Text, h.out.sent[1].Text)
	})
}

func TestConfirmPrompt_LocaleLookup(t *testing.T) {
	t.Run("exact lower-cased locale", func(t *testing.T) {
		h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
		h.begin("confirm", prompt.Text("Continuar?", ""), "pt-BR")
		assert.Equal(t, "Continuar? (1) Sim ou (2) Não", h.out.last().Text)

		assert.Equal(t, domain.Completed(true), h.reply("Sim", "pt-BR"))
	})

	t.Run("fallback vocabulary for unknown locale", func(t *testing.T) {
		p := prompt.NewConfirmPrompt("confirm", nil, "")
		assert.Equal(t, p.ChoiceDefaults[prompt.FallbackLocale], p.Choices("xx-yy"))
	})

	t.Run("only lower-case keys match", func(t *testing.T) {
		p := prompt.NewConfirmPrompt("confirm", nil, "")
		p.ChoiceDefaults["EN-GB"] = prompt.ConfirmChoices{Yes: "Aye", No: "Nay"}
		assert.Equal(t, p.ChoiceDefaults[prompt.FallbackLocale], p.Choices("en-gb"))

		p.ChoiceDefaults["en-gb"] = prompt.ConfirmChoices{Yes: "Aye", No: "Nay", InlineOr: " or "}
		assert.Equal(t, "Aye", p.Choices("EN-GB").Yes)
	})

	t.Run("default locale when activity has none", func(t *testing.T) {
		h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, "de-DE"))
		h.begin("confirm", prompt.Text("Weiter?", ""), "")
		assert.Equal(t, "Weiter? (1) Ja oder (2) Nein", h.out.last().Text)
	})

	t.Run("explicit choices override locale", func(t *testing.T) {
		p := prompt.NewConfirmPrompt("confirm", nil, "")
		p.ConfirmChoices = &prompt.ConfirmChoices{Yes: "Go", No: "Stop", InlineOr: " / "}
		h := newHarness(t, p)
		h.begin("confirm", prompt.Text("Ready?", ""), "fr-FR")
		assert.Equal(t, "Ready? Go / Stop", h.out.last().Text)
		assert.Equal(t, domain.Completed(false), h.reply("stop", "fr-FR"))
	})

	t.Run("per-call choices relabel the locale vocabulary", func(t *testing.T) {
		h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
		opts := prompt.Text("Salvar?", "")
		opts.Choices = []string{"Salvar", "Descartar"}
		h.begin("confirm", opts, "pt-BR")
		assert.Equal(t, "Salvar? (1) Salvar ou (2) Descartar", h.out.last().Text)
		assert.Equal(t, domain.Completed(false), h.reply("descartar", "pt-BR"))
	})
}

func TestConfirmPrompt_ListStyles(t *testing.T) {
	tests := []struct {
		name      string
		style     prompt.ListStyle
		wantText  string
		wantHints []string
	}{
		{name: "none", style: prompt.StyleNone, wantText: "Proceed?"},
		{name: "list", style: prompt.StyleList, wantText: "Proceed?\n\n   1. Yes\n   2. No"},
		{name: "inline", style: prompt.StyleInline, wantText: "Proceed? (1) Yes or (2) No"},
		{name: "suggested", style: prompt.StyleSuggestedAction, wantText: "Proceed?", wantHints: []string{"Yes", "No"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
			opts := prompt.Text("Proceed?", "")
			opts.Style = tt.style
			h.begin("confirm", opts, "en-us")

			assert.Equal(t, tt.wantText, h.out.last().Text)
			assert.Equal(t, tt.wantHints, h.out.last().SuggestedActions)
			assert.Empty(t, opts.Prompt.SuggestedActions, "decoration never mutates the caller's activity")
		})
	}
}

func TestConfirmPrompt_ValidatorMessageSuppressesRetry(t *testing.T) {
	validator := func(ctx context.Context, tc *dialog.TurnContext, r *prompt.Recognized[bool]) (bool, error) {
		if !r.Value {
			return false, tc.SendText(ctx, "You must accept to continue.")
		}
		return true, nil
	}
	h := newHarness(t, prompt.NewConfirmPrompt("terms", validator, ""))
	h.begin("terms", prompt.Text("Accept the terms?", "Retry"), "")

	result := h.reply("no", "")
	assert.True(t, result.IsEndOfTurn())
	require.Len(t, h.out.sent, 2)
	assert.Equal(t, "You must accept to continue.", h.out.last().Text)

	assert.Equal(t, domain.Completed(true), h.reply("yes", ""))
}

func TestConfirmPrompt_AttemptCountSurvivesPersistence(t *testing.T) {
	var attempts []int
	validator := func(ctx context.Context, tc *dialog.TurnContext, r *prompt.Recognized[bool]) (bool, error) {
		attempts = append(attempts, r.AttemptCount)
		return r.AttemptCount >= 2, nil
	}
	h := newHarness(t, prompt.NewConfirmPrompt("confirm", validator, ""))
	h.begin("confirm", prompt.Text("Proceed?", "Again?"), "")

	h.persist()
	assert.True(t, h.reply("yes", "").IsEndOfTurn())
	assert.Equal(t, "Again? (1) Yes or (2) No", h.out.last().Text, "options decoded after a store round trip")

	h.persist()
	assert.Equal(t, domain.Completed(true), h.reply("yes", ""))
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestConfirmPrompt_Reprompt(t *testing.T) {
	h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
	h.begin("confirm", prompt.Text("Proceed?", "Retry?"), "")
	before := h.state.Clone()

	require.NoError(t, h.dc(&domain.Activity{Type: domain.ActivityEvent}).RepromptDialog(context.Background()))

	require.Len(t, h.out.sent, 2)
	assert.Equal(t, "Proceed? (1) Yes or (2) No", h.out.last().Text)
	assert.Equal(t, before.Stack, h.state.Stack)
}

func TestConfirmPrompt_IgnoresNonMessages(t *testing.T) {
	h := newHarness(t, prompt.NewConfirmPrompt("confirm", nil, ""))
	h.begin("confirm", prompt.Text("Proceed?", ""), "")

	result, err := h.dc(&domain.Activity{Type: domain.ActivityTyping}).ContinueDialog(context.Background())
	require.NoError(t, err)
	assert.True(t, result.IsEndOfTurn())
	assert.Len(t, h.out.sent, 1)
}

func TestTextPrompt(t *testing.T) {
	h := newHarness(t, prompt.NewTextPrompt("name", nil))
	h.begin("name", prompt.Text("Your name?", "I need a name."), "")

	assert.True(t, h.reply("   ", "").IsEndOfTurn())
	assert.Equal(t, "I need a name.", h.out.last().Text)

	assert.Equal(t, domain.Completed("Ana"), h.reply(" Ana ", ""))
}

func TestRecognizeBool(t *testing.T) {
	en := prompt.DefaultChoices()["en-us"]
	es := prompt.DefaultChoices()["es-es"]

	tests := []struct {
		text    string
		choices prompt.ConfirmChoices
		want    bool
		wantOK  bool
	}{
		{"Yes", en, true, true},
		{"no.", en, false, true},
		{"Y", en, true, true},
		{"1", en, true, true},
		{"2", en, false, true},
		{"true", en, true, true},
		{"sí", es, true, true},
		{"maybe", en, false, false},
		{"2", prompt.ConfirmChoices{Yes: "a", No: "b"}, false, false},
	}

	for _, tt := range tests {
		got, ok := prompt.RecognizeBool(tt.text, tt.choices)
		assert.Equal(t, tt.wantOK, ok, tt.text)
		assert.Equal(t, tt.want, got, tt.text)
	}
}
