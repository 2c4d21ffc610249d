/*
Package domain contains the core data model of the dialogs runtime.

It defines the records that flow between a dialog implementation and the stack
manager that drives it during a conversational turn. This package is kept pure
and free of I/O or persistence concerns, following Hexagonal Architecture
principles.

# Key Entities

  - TurnResult: outcome of a begin/continue/resume call (HasActive, HasResult, Result).
  - EndOfTurn: returns the "still active, no result yet" TurnResult.
  - EndReason: why an instance left the stack (completed, cancelled, replaced).
  - DialogInstance: the per-dialog record persisted on a conversation's stack.
  - ConversationState: the persisted snapshot of one conversation (stack + values).
  - Activity: a channel-neutral inbound or outbound message.
*/
package domain
