package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventDialogBegin EventType = "dialog_begin"
	EventDialogEnd   EventType = "dialog_end"
	EventTurn        EventType = "turn"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp      time.Time `json:"timestamp"`
	Type           EventType `json:"type"`
	ConversationID string    `json:"conversation_id"`
}

// DialogEvent represents a push onto, or a pop from, the dialog stack.
type DialogEvent struct {
	EventBase
	DialogID string    `json:"dialog_id"`
	Depth    int       `json:"depth"`            // stack depth after the operation
	Reason   EndReason `json:"reason,omitempty"` // set on EventDialogEnd only
}

// TurnEvent summarises a processed turn.
type TurnEvent struct {
	EventBase
	Duration time.Duration `json:"duration"`
	Result   TurnResult    `json:"result"`
	Depth    int           `json:"depth"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for runtime observability.
type LifecycleHooks struct {
	OnDialogBegin func(context.Context, *DialogEvent)
	OnDialogEnd   func(context.Context, *DialogEvent)
	OnTurn        func(context.Context, *TurnEvent)
}
