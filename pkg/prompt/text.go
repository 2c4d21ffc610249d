package prompt

import (
	"context"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

// TextPrompt accepts any non-empty reply and ends with it.
type TextPrompt struct {
	*base[string]
}

// NewTextPrompt creates a text prompt. validator may be nil.
func NewTextPrompt(id string, validator Validator[string]) *TextPrompt {
	p := &TextPrompt{}
	p.base = newBase[string](id, p, validator)
	return p
}

func (p *TextPrompt) recognize(ctx context.Context, tc *dialog.TurnContext, opts Options) (Recognized[string], error) {
	text := tc.Text()
	return Recognized[string]{Succeeded: text != "", Value: text, Text: text}, nil
}

func (p *TextPrompt) decorate(tc *dialog.TurnContext, opts Options, activity *domain.Activity) *domain.Activity {
	out := *activity
	return &out
}
