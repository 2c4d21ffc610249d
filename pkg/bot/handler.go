package bot

import (
	"context"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

// Handler processes one turn.
type Handler interface {
	OnTurn(ctx context.Context, tc *dialog.TurnContext) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, tc *dialog.TurnContext) error

// OnTurn calls f.
func (f HandlerFunc) OnTurn(ctx context.Context, tc *dialog.TurnContext) error {
	return f(ctx, tc)
}

// MembersFunc handles a membership change. The bot's own account is filtered out.
type MembersFunc func(ctx context.Context, members []domain.Account, tc *dialog.TurnContext) error

// ActivityHandler routes an activity to the callback matching its type.
// Nil callbacks are skipped.
type ActivityHandler struct {
	OnMessage           HandlerFunc
	OnMembersAdded      MembersFunc
	OnMembersRemoved    MembersFunc
	OnEvent             HandlerFunc
	OnEndOfConversation HandlerFunc
	OnUnrecognized      HandlerFunc
}

// OnTurn dispatches the activity.
func (h *ActivityHandler) OnTurn(ctx context.Context, tc *dialog.TurnContext) error {
	a := tc.Activity
	switch a.Type {
	case domain.ActivityMessage:
		return call(ctx, h.OnMessage, tc)
	case domain.ActivityConversationUpdate:
		if added := others(a.MembersAdded, a.Recipient); len(added) > 0 && h.OnMembersAdded != nil {
			if err := h.OnMembersAdded(ctx, added, tc); err != nil {
				return err
			}
		}
		if removed := others(a.MembersRemoved, a.Recipient); len(removed) > 0 && h.OnMembersRemoved != nil {
			return h.OnMembersRemoved(ctx, removed, tc)
		}
		return nil
	case domain.ActivityEvent:
		return call(ctx, h.OnEvent, tc)
	case domain.ActivityEndOfConversation:
		return call(ctx, h.OnEndOfConversation, tc)
	default:
		return call(ctx, h.OnUnrecognized, tc)
	}
}

func call(ctx context.Context, fn HandlerFunc, tc *dialog.TurnContext) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, tc)
}

// others drops the bot's own account from a member list.
func others(members []domain.Account, self domain.Account) []domain.Account {
	var out []domain.Account
	for _, m := range members {
		if self.ID != "" && m.ID == self.ID {
			continue
		}
		out = append(out, m)
	}
	return out
}
