package domain

import (
	"reflect"
)

// StateDiff represents the changes a turn made to a conversation.
// It is designed to be serialized to JSON for partial updates on the client.
type StateDiff struct {
	// ConversationID is always present to identify the target.
	ConversationID string `json:"conversation_id"`

	// Popped lists dialog ids removed from the top of the stack, innermost first.
	Popped []string `json:"popped,omitempty"`

	// Pushed lists dialog ids added on top of the common prefix, bottom first.
	Pushed []string `json:"pushed,omitempty"`

	// Values contains only changed, added or deleted keys.
	// For deletions, the key is present with a nil value.
	Values map[string]any `json:"values,omitempty"`

	Locale *string `json:"locale,omitempty"`
}

// Diff calculates the difference between oldState and newState.
// If oldState is nil, it returns a diff representing the entire newState (initial load).
func Diff(oldState, newState *ConversationState) *StateDiff {
	if newState == nil {
		return nil
	}

	diff := &StateDiff{
		ConversationID: newState.ConversationID,
	}

	// 1. Stack changes relative to the longest common prefix
	var oldStack []DialogInstance
	if oldState != nil {
		oldStack = oldState.Stack
	}
	common := 0
	for common < len(oldStack) && common < len(newState.Stack) &&
		oldStack[common].ID == newState.Stack[common].ID {
		common++
	}
	for i := len(oldStack) - 1; i >= common; i-- {
		diff.Popped = append(diff.Popped, oldStack[i].ID)
	}
	for i := common; i < len(newState.Stack); i++ {
		diff.Pushed = append(diff.Pushed, newState.Stack[i].ID)
	}

	// 2. Values
	var oldValues map[string]any
	if oldState != nil {
		oldValues = oldState.Values
	}
	diff.Values = diffValues(oldValues, newState.Values)

	// 3. Locale
	if oldState == nil || oldState.Locale != newState.Locale {
		if newState.Locale != "" || oldState != nil {
			locale := newState.Locale
			diff.Locale = &locale
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffValues(old, new map[string]any) map[string]any {
	delta := make(map[string]any)

	for k, newVal := range new {
		oldVal, exists := old[k]
		if !exists || !reflect.DeepEqual(oldVal, newVal) {
			delta[k] = newVal
		}
	}

	for k := range old {
		if _, exists := new[k]; !exists {
			delta[k] = nil
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *StateDiff) IsEmpty() bool {
	return len(d.Popped) == 0 &&
		len(d.Pushed) == 0 &&
		len(d.Values) == 0 &&
		d.Locale == nil
}
