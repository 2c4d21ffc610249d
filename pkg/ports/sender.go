package ports

import (
	"context"

	"github.com/aretw0/dialogs/pkg/domain"
)

// ActivitySender delivers outbound activities to a channel.
// Channel adapters (HTTP, console) implement it; dialogs never talk to a
// channel directly.
type ActivitySender interface {
	Send(ctx context.Context, activities ...*domain.Activity) error
}

// SenderFunc adapts a function to ActivitySender.
type SenderFunc func(ctx context.Context, activities ...*domain.Activity) error

// Send calls f.
func (f SenderFunc) Send(ctx context.Context, activities ...*domain.Activity) error {
	return f(ctx, activities...)
}
