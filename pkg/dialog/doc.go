/*
Package dialog implements the turn lifecycle contract and the stack manager
that drives it.

A Dialog is a unit of conversational logic. Every dialog must implement Begin;
Continue, Resume, Reprompt and End are optional capabilities expressed as
separate interfaces. Their absence is meaningful:

  - no Continue: the dialog auto-ends (without a result) on the next turn.
  - no Resume: the dialog auto-ends when a child finishes, forwarding the
    child's result to its own parent unchanged.
  - no Reprompt / End: nothing happens.

Capabilities are resolved once when a dialog is added to a Set, so absence is
a checkable value (see Capability) rather than a probe at every turn.

The Context type is the stack manager: it owns one conversation's stack for the
duration of a single turn and is not safe for concurrent use.
*/
package dialog
