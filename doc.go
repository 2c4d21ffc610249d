/*
Package dialogs runs multi-turn conversations as a stack of dialogs.

A dialog is a unit of conversation that can span several turns. Dialogs are
pushed onto a per-conversation stack: the top of the stack receives the user's
next message, and when it ends its result is handed to the dialog below it.
The stack is persisted between turns, so a conversation survives restarts and
can move between replicas.

# Concepts

  - Dialog: anything with a Begin method. Continue, Resume, Reprompt and End
    are optional; a dialog without Continue ends on the next message, one
    without Resume passes its child's result straight to its own parent.
  - TurnResult: whether the stack is still waiting (HasActive) and, when it
    emptied, whether a result was produced. A nil result is still a result.
  - EndReason: completed when a dialog finishes, cancelled when the stack is
    torn down, replaced when a dialog is swapped for another.
  - Prompts: TextPrompt and ConfirmPrompt ask a question, validate the reply
    and re-prompt until it is recognised. ConfirmPrompt renders localised
    yes/no choices.

# Usage

	root := dialog.NewWaterfall("root", []dialog.WaterfallStep{
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.Prompt(ctx, "confirm", prompt.Text("Shall we start?", ""))
		},
		func(ctx context.Context, step *dialog.StepContext) (domain.TurnResult, error) {
			return step.EndDialog(ctx, step.Result)
		},
	})
	set := dialog.NewSet(root, prompt.NewConfirmPrompt("confirm", nil, ""))

	eng, err := dialogs.New(set, "root", dialogs.WithStore(redis.New("localhost:6379", "", 0)))
	if err != nil {
		log.Fatal(err)
	}
	http.ListenAndServe(":8080", eng.Handler())

The dialogs binary (cmd/dialogs) wires the same engine from a YAML file and
offers chat, serve and conversations subcommands.
*/
package dialogs
