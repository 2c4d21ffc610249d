package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/dialogs/pkg/domain"
)

// LogHooks returns lifecycle hooks that write structured log records.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDialogBegin: func(ctx context.Context, e *domain.DialogEvent) {
			logger.DebugContext(ctx, "dialog_begin",
				"conversation_id", e.ConversationID,
				"dialog_id", e.DialogID,
				"depth", e.Depth,
			)
		},
		OnDialogEnd: func(ctx context.Context, e *domain.DialogEvent) {
			logger.DebugContext(ctx, "dialog_end",
				"conversation_id", e.ConversationID,
				"dialog_id", e.DialogID,
				"depth", e.Depth,
				"reason", e.Reason.String(),
			)
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			if e.Err != nil {
				logger.ErrorContext(ctx, "turn failed",
					"conversation_id", e.ConversationID,
					"duration", e.Duration,
					"err", e.Err,
				)
				return
			}
			logger.InfoContext(ctx, "turn",
				"conversation_id", e.ConversationID,
				"duration", e.Duration,
				"depth", e.Depth,
				"has_active", e.Result.HasActive,
				"has_result", e.Result.HasResult,
			)
		},
	}
}

// Merge fans every event out to each set of hooks in order.
func Merge(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnDialogBegin: func(ctx context.Context, e *domain.DialogEvent) {
			for _, h := range all {
				if h.OnDialogBegin != nil {
					h.OnDialogBegin(ctx, e)
				}
			}
		},
		OnDialogEnd: func(ctx context.Context, e *domain.DialogEvent) {
			for _, h := range all {
				if h.OnDialogEnd != nil {
					h.OnDialogEnd(ctx, e)
				}
			}
		},
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			for _, h := range all {
				if h.OnTurn != nil {
					h.OnTurn(ctx, e)
				}
			}
		},
	}
}
