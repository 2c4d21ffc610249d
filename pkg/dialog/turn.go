package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/aretw0/dialogs/pkg/ports"
)

// TurnContext carries the inbound activity of one turn and the channel used
// to answer it.
type TurnContext struct {
	Activity *domain.Activity

	sender    ports.ActivitySender
	responded bool
}

// NewTurnContext binds an inbound activity to the sender that delivers replies.
func NewTurnContext(activity *domain.Activity, sender ports.ActivitySender) *TurnContext {
	if activity == nil {
		activity = &domain.Activity{}
	}
	return &TurnContext{
		Activity: activity,
		sender:   sender,
	}
}

// Send addresses the activities to the sender of the inbound activity and
// delivers them.
func (tc *TurnContext) Send(ctx context.Context, activities ...*domain.Activity) error {
	if len(activities) == 0 {
		return nil
	}
	if tc.sender == nil {
		return fmt.Errorf("turn context has no activity sender")
	}

	addressed := make([]*domain.Activity, 0, len(activities))
	for _, a := range activities {
		if a == nil {
			continue
		}
		addressed = append(addressed, tc.Activity.Address(a))
	}
	if err := tc.sender.Send(ctx, addressed...); err != nil {
		return err
	}
	tc.responded = true
	return nil
}

// SendText sends a plain message.
func (tc *TurnContext) SendText(ctx context.Context, text string) error {
	return tc.Send(ctx, domain.NewMessage(text))
}

// Responded reports whether anything was sent during this turn.
func (tc *TurnContext) Responded() bool {
	return tc.responded
}

// Locale returns the lower-cased locale of the inbound activity.
func (tc *TurnContext) Locale() string {
	return strings.ToLower(tc.Activity.Locale)
}

// Text returns the trimmed text of the inbound activity.
func (tc *TurnContext) Text() string {
	return strings.TrimSpace(tc.Activity.Text)
}
