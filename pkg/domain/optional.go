package domain

import "fmt"

// Optional is a dialog payload (begin args, child results) that may be absent.
// A present Optional can still hold nil; the two states are never conflated.
type Optional struct {
	present bool
	value   any
}

// Some wraps v as a present value.
func Some(v any) Optional {
	return Optional{present: true, value: v}
}

// None returns an absent value.
func None() Optional {
	return Optional{}
}

// IsPresent reports whether a value was supplied, even if it is nil.
func (o Optional) IsPresent() bool {
	return o.present
}

// Get returns the wrapped value, or nil when absent.
func (o Optional) Get() any {
	return o.value
}

// OrElse returns the wrapped value, or fallback when absent.
func (o Optional) OrElse(fallback any) any {
	if !o.present {
		return fallback
	}
	return o.value
}

func (o Optional) String() string {
	if !o.present {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}
