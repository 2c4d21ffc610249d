// Package sample holds the demo conversation served by the dialogs binary.
package sample

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/prompt"
)

// Dialog IDs registered by NewSet.
const (
	RootID    = "onboarding"
	NameID    = "onboarding.name"
	ConfirmID = "onboarding.subscribe"
)

// MaxNameLength bounds the accepted name in runes.
const MaxNameLength = 50

// Profile is the result the onboarding dialog ends with.
type Profile struct {
	Name       string `json:"name"`
	Subscribed bool   `json:"subscribed"`
}

// NewSet returns the onboarding waterfall and its prompts.
// defaultLocale picks the confirm vocabulary when a message carries no locale.
func NewSet(defaultLocale string) *dialog.Set {
	confirm := prompt.NewConfirmPrompt(ConfirmID, nil, defaultLocale)
	confirm.Style = prompt.StyleSuggestedAction

	return dialog.NewSet(
		onboarding(),
		prompt.NewTextPrompt(NameID, validateName),
		confirm,
	)
}

func onboarding() *dialog.Waterfall {
	return dialog.NewWaterfall(RootID, []dialog.WaterfallStep{
		askName,
		askSubscribe,
		finish,
	})
}

func askName(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
	return step.Prompt(ctx, NameID, prompt.Text(
		"What should I call you?",
		fmt.Sprintf("Please type a name of at most %d characters.", MaxNameLength),
	))
}

func askSubscribe(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
	name := strings.TrimSpace(fmt.Sprint(step.Result.Get()))
	step.Values["name"] = name
	return step.Prompt(ctx, ConfirmID, prompt.Text(
		fmt.Sprintf("Nice to meet you, **%s**. Do you want to receive updates?", name),
		"Please answer yes or no.",
	))
}

func finish(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
	subscribed, _ := step.Result.Get().(bool)
	profile := Profile{Name: fmt.Sprint(step.Values["name"]), Subscribed: subscribed}

	msg := "No problem, you will not receive updates."
	if subscribed {
		msg = "Done, you are subscribed."
	}
	if err := step.Turn().SendText(ctx, msg); err != nil {
		return domain.TurnResult{}, err
	}
	return step.EndDialog(ctx, domain.Some(profile))
}

func validateName(ctx context.Context, tc *dialog.TurnContext, r *prompt.Recognized[string]) (bool, error) {
	name := strings.TrimSpace(r.Value)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return false, nil
	}
	r.Value = name
	return true, nil
}
