package domain

// DialogInstance is the record kept for each dialog on a conversation's stack.
type DialogInstance struct {
	// ID names the dialog definition this instance was created from.
	ID string `json:"id"`

	// State is private to the owning dialog and survives between turns.
	State map[string]any `json:"state"`
}

// NewDialogInstance creates an instance with an empty state bag.
func NewDialogInstance(id string) *DialogInstance {
	return &DialogInstance{
		ID:    id,
		State: make(map[string]any),
	}
}

// Clone copies the instance, including nested maps and slices in its state.
func (i DialogInstance) Clone() DialogInstance {
	return DialogInstance{ID: i.ID, State: CopyMap(i.State)}
}

// CopyMap deep-copies the map and slice containers of a JSON-like value tree.
// Leaf values are copied by assignment.
func CopyMap(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return CopyMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = copyValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
