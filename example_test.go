package dialogs_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/dialogs"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/ports"
	"github.com/aretw0/dialogs/pkg/prompt"
)

// ExampleNew runs a confirm prompt over two turns.
func ExampleNew() {
	root := dialog.NewWaterfall("root", []dialog.WaterfallStep{
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.Prompt(ctx, "confirm", prompt.Text("Shall we start?", ""))
		},
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.EndDialog(ctx, step.Result)
		},
	})
	set := dialog.NewSet(root, prompt.NewConfirmPrompt("confirm", nil, ""))

	eng, err := dialogs.New(set, "root")
	if err != nil {
		log.Fatal(err)
	}

	printer := ports.SenderFunc(func(ctx context.Context, activities ...*domain.Activity) error {
		for _, a := range activities {
			fmt.Println(a.Text)
		}
		return nil
	})

	ctx := context.Background()
	for _, text := range []string{"hi", "yes"} {
		msg := domain.NewMessage(text)
		msg.Conversation.ID = "example"
		msg.Locale = "fr-FR"
		if err := eng.Process(ctx, msg, printer); err != nil {
			log.Fatal(err)
		}
	}

	state, _ := eng.Sessions().Load(ctx, "example")
	fmt.Println(state.Values["last_result"])
	// Output:
	// Shall we start? (1) Oui ou (2) Non
	// true
}
