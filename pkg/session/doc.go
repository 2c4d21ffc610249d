/*
Package session serialises access to conversation state.

A dialog stack is not designed for concurrent mutation, so every turn of a
conversation runs while holding that conversation's lock. The Manager keeps a
reference-counted in-process mutex per conversation and can additionally take
a distributed lock, so several replicas can share one store.
*/
package session
