/*
Package prompt provides dialogs that ask the user a question and recognise the
reply.

A prompt sends Options.Prompt when it begins and waits. On each reply it runs
its recogniser and optional validator: success ends the prompt with the
recognised value; failure sends Options.RetryPrompt (or the original prompt
when no retry was given) and waits again. Both outcomes of a failed attempt
return domain.EndOfTurn(); recognition failures are never errors.
*/
package prompt
