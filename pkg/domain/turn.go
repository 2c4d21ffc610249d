package domain

// TurnResult is the value returned by every turn-processing operation
// (begin, continue, resume).
//
// HasActive and HasResult are independent signals: a completed child can
// produce a result while its parent stays active. Result may be nil even when
// HasResult is true.
type TurnResult struct {
	HasActive bool `json:"has_active"`
	HasResult bool `json:"has_result"`
	Result    any  `json:"result,omitempty"`
}

// EndOfTurn signals "still active, no result yet, stop processing this turn".
// Each call returns a fresh value, so no caller can alter what another sees.
func EndOfTurn() TurnResult {
	return TurnResult{HasActive: true, HasResult: false}
}

// Empty is the result of a turn where nothing was on the stack.
func Empty() TurnResult {
	return TurnResult{}
}

// Completed reports a finished stack that produced v (v may be nil).
func Completed(v any) TurnResult {
	return TurnResult{HasResult: true, Result: v}
}

// CompletedWithoutResult reports a finished stack that produced no value.
func CompletedWithoutResult() TurnResult {
	return TurnResult{}
}

// IsEndOfTurn reports whether r has the shape EndOfTurn returns.
func (r TurnResult) IsEndOfTurn() bool {
	return r.HasActive && !r.HasResult && r.Result == nil
}

// Value returns the result as an Optional, keeping "no result" distinct from
// "result is nil".
func (r TurnResult) Value() Optional {
	if !r.HasResult {
		return None()
	}
	return Some(r.Result)
}

// EndReason distinguishes why a dialog instance left the stack.
// It is attached to the termination notification and never persisted.
type EndReason string

const (
	// EndCompleted marks a normal end call.
	EndCompleted EndReason = "completed"
	// EndCancelled marks a forced removal (e.g. cancelling the whole stack).
	EndCancelled EndReason = "cancelled"
	// EndReplaced marks an instance swapped out by ReplaceDialog.
	EndReplaced EndReason = "replaced"
)

func (r EndReason) String() string {
	return string(r)
}
