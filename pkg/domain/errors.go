package domain

import "errors"

// ErrConversationNotFound is returned when a conversation ID cannot be found in the store.
var ErrConversationNotFound = errors.New("conversation not found")

// ErrDialogNotFound is returned when a dialog ID is not registered in the dialog set.
var ErrDialogNotFound = errors.New("dialog not found")

// ErrDuplicateDialog is returned when a dialog ID is added to a set twice.
var ErrDuplicateDialog = errors.New("duplicate dialog id")

// ErrInvalidDialogID is returned for an empty dialog ID.
var ErrInvalidDialogID = errors.New("invalid dialog id")

// ErrNoActiveDialog is returned by operations that need an active dialog on the stack.
var ErrNoActiveDialog = errors.New("no active dialog")
