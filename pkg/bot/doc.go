/*
Package bot connects inbound activities to a dialog stack.

ActivityHandler routes an activity to a callback by type. DialogBot builds on
it: each turn runs under the conversation's session lock, continues the active
dialog (or begins the root dialog when nothing is active) and persists the
resulting stack.

	set := dialog.NewSet(root, prompt.NewConfirmPrompt("confirm", nil, ""))
	b, err := bot.New(set, "root", session.NewManager(memory.NewStore()))
	...
	err = b.OnTurn(ctx, dialog.NewTurnContext(activity, sender))
*/
package bot
