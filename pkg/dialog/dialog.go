package dialog

import (
	"context"
	"strings"

	"github.com/aretw0/dialogs/pkg/domain"
)

// Dialog is the mandatory surface of every dialog variant.
type Dialog interface {
	// ID is the immutable lookup key of the dialog in its Set.
	ID() string

	// Begin is called exactly once, when the instance is pushed onto the stack.
	// The dialog may finish immediately by calling dc.EndDialog.
	Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error)
}

// Continuer is implemented by dialogs that handle a new user turn while active.
type Continuer interface {
	Continue(ctx context.Context, dc *Context) (domain.TurnResult, error)
}

// Resumer is implemented by dialogs that get control back when a child ends.
// The result is untyped: it depends on which child ran.
type Resumer interface {
	Resume(ctx context.Context, dc *Context, result domain.Optional) (domain.TurnResult, error)
}

// Repromptor is implemented by dialogs that can re-issue their prompt
// without advancing state.
type Repromptor interface {
	Reprompt(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance) error
}

// Ender is implemented by dialogs that need cleanup when their instance leaves
// the stack. Nested dialogs may already be gone when End runs.
type Ender interface {
	End(ctx context.Context, tc *TurnContext, instance *domain.DialogInstance, reason domain.EndReason) error
}

// Capability is the set of optional operations a dialog implements.
type Capability uint8

const (
	CanContinue Capability = 1 << iota
	CanResume
	CanReprompt
	CanEnd
)

// Has reports whether all flags in c2 are set.
func (c Capability) Has(c2 Capability) bool {
	return c&c2 == c2
}

func (c Capability) String() string {
	var parts []string
	if c.Has(CanContinue) {
		parts = append(parts, "continue")
	}
	if c.Has(CanResume) {
		parts = append(parts, "resume")
	}
	if c.Has(CanReprompt) {
		parts = append(parts, "reprompt")
	}
	if c.Has(CanEnd) {
		parts = append(parts, "end")
	}
	if len(parts) == 0 {
		return "begin-only"
	}
	return "begin+" + strings.Join(parts, "+")
}

// Capabilities inspects d once and returns the optional operations it supports.
func Capabilities(d Dialog) Capability {
	var c Capability
	if _, ok := d.(Continuer); ok {
		c |= CanContinue
	}
	if _, ok := d.(Resumer); ok {
		c |= CanResume
	}
	if _, ok := d.(Repromptor); ok {
		c |= CanReprompt
	}
	if _, ok := d.(Ender); ok {
		c |= CanEnd
	}
	return c
}

// Base carries the immutable id shared by all concrete dialogs.
// Embed it to satisfy the ID half of Dialog.
type Base struct {
	id string
}

// NewBase fixes the dialog id for the lifetime of the dialog.
func NewBase(id string) Base {
	return Base{id: id}
}

// ID returns the dialog id.
func (b Base) ID() string {
	return b.id
}

// Func adapts a begin function into a begin-only Dialog.
// Useful for dialogs that perform a side effect and end immediately.
type Func struct {
	Base
	fn func(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error)
}

// NewFunc creates a begin-only dialog.
func NewFunc(id string, fn func(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error)) *Func {
	return &Func{Base: NewBase(id), fn: fn}
}

// Begin calls the wrapped function.
func (f *Func) Begin(ctx context.Context, dc *Context, args domain.Optional) (domain.TurnResult, error) {
	return f.fn(ctx, dc, args)
}
