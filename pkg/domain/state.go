package domain

import "time"

// ConversationState is the persisted snapshot of one conversation.
type ConversationState struct {
	// ConversationID identifies the conversation across turns.
	ConversationID string `json:"conversation_id"`

	// Stack holds the active dialog instances. Index 0 is the bottom (root),
	// the last element is the active dialog.
	Stack []DialogInstance `json:"stack"`

	// Locale is the last locale observed on an inbound activity.
	Locale string `json:"locale,omitempty"`

	// Values is a conversation-scoped bag for bot code (not owned by any dialog).
	Values map[string]any `json:"values,omitempty"`

	// Turns counts processed turns.
	Turns int `json:"turns"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewConversationState creates an empty conversation snapshot.
func NewConversationState(conversationID string) *ConversationState {
	return &ConversationState{
		ConversationID: conversationID,
		Stack:          []DialogInstance{},
		Values:         make(map[string]any),
	}
}

// Active returns the top-of-stack instance, or nil when the stack is empty.
func (s *ConversationState) Active() *DialogInstance {
	if len(s.Stack) == 0 {
		return nil
	}
	return &s.Stack[len(s.Stack)-1]
}

// Clone returns a deep copy safe for independent mutation.
func (s *ConversationState) Clone() *ConversationState {
	if s == nil {
		return nil
	}
	next := *s
	next.Stack = make([]DialogInstance, len(s.Stack))
	for i, inst := range s.Stack {
		next.Stack[i] = inst.Clone()
	}
	next.Values = CopyMap(s.Values)
	return &next
}

// StackIDs lists the dialog ids on the stack, bottom first.
func (s *ConversationState) StackIDs() []string {
	ids := make([]string, len(s.Stack))
	for i, inst := range s.Stack {
		ids[i] = inst.ID
	}
	return ids
}
