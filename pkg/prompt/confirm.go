package prompt

import (
	"context"
	"fmt"
	"strings"

	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

// BoolRecognizer maps a reply to yes/no. ok is false when the reply is neither.
type BoolRecognizer func(text string, choices ConfirmChoices) (value bool, ok bool)

// ConfirmPrompt asks a yes/no question and ends with a bool.
type ConfirmPrompt struct {
	*base[bool]

	// ChoiceDefaults holds the per-locale vocabularies. Keys are lower-cased
	// locale codes plus FallbackLocale.
	ChoiceDefaults map[string]ConfirmChoices

	// ConfirmChoices, when set, replaces the locale lookup.
	ConfirmChoices *ConfirmChoices

	// Style is the default list style; Options.Style overrides it per call.
	Style ListStyle

	// DefaultLocale is used when the inbound activity carries no locale.
	DefaultLocale string

	// Recognizer interprets replies. Defaults to RecognizeBool.
	Recognizer BoolRecognizer
}

// NewConfirmPrompt creates a confirm prompt. validator may be nil.
func NewConfirmPrompt(id string, validator Validator[bool], defaultLocale string) *ConfirmPrompt {
	p := &ConfirmPrompt{
		ChoiceDefaults: DefaultChoices(),
		Style:          StyleAuto,
		DefaultLocale:  defaultLocale,
		Recognizer:     RecognizeBool,
	}
	p.base = newBase[bool](id, p, validator)
	return p
}

// Choices returns the vocabulary used for locale.
func (p *ConfirmPrompt) Choices(locale string) ConfirmChoices {
	if p.ConfirmChoices != nil {
		return *p.ConfirmChoices
	}
	c, _ := lookupChoices(p.ChoiceDefaults, locale)
	return c
}

// choicesFor applies per-call labels from opts over the locale vocabulary.
func (p *ConfirmPrompt) choicesFor(tc *dialog.TurnContext, opts Options) ConfirmChoices {
	c := p.Choices(p.culture(tc))
	if len(opts.Choices) >= 2 {
		c.Yes, c.No = opts.Choices[0], opts.Choices[1]
	}
	return c
}

// culture resolves the locale: activity, then DefaultLocale, then en-us.
func (p *ConfirmPrompt) culture(tc *dialog.TurnContext) string {
	if l := tc.Locale(); l != "" {
		return l
	}
	if p.DefaultLocale != "" {
		return strings.ToLower(p.DefaultLocale)
	}
	return "en-us"
}

func (p *ConfirmPrompt) recognize(ctx context.Context, tc *dialog.TurnContext, opts Options) (Recognized[bool], error) {
	text := tc.Text()
	r := Recognized[bool]{Text: text}
	if text == "" {
		return r, nil
	}
	recognizer := p.Recognizer
	if recognizer == nil {
		recognizer = RecognizeBool
	}
	r.Value, r.Succeeded = recognizer(text, p.choicesFor(tc, opts))
	return r, nil
}

func (p *ConfirmPrompt) decorate(tc *dialog.TurnContext, opts Options, activity *domain.Activity) *domain.Activity {
	out := *activity
	out.SuggestedActions = append([]string(nil), activity.SuggestedActions...)

	style := opts.Style
	if style == "" {
		style = p.Style
	}
	choices := p.choicesFor(tc, opts)

	switch style {
	case StyleNone:
	case StyleList:
		out.Text = renderList(out.Text, choices)
	case StyleSuggestedAction:
		out.SuggestedActions = append(out.SuggestedActions, choices.Yes, choices.No)
	default: // auto, inline
		out.Text = renderInline(out.Text, choices)
	}
	return &out
}

func renderInline(text string, c ConfirmChoices) string {
	yes, no := c.Yes, c.No
	if c.IncludeNumbers {
		yes, no = "(1) "+yes, "(2) "+no
	}
	inline := yes + c.InlineOr + no
	if text == "" {
		return inline
	}
	return text + " " + inline
}

func renderList(text string, c ConfirmChoices) string {
	var b strings.Builder
	b.WriteString(text)
	for i, choice := range []string{c.Yes, c.No} {
		b.WriteString("\n")
		if i == 0 && text != "" {
			b.WriteString("\n")
		}
		if c.IncludeNumbers {
			fmt.Fprintf(&b, "   %d. %s", i+1, choice)
		} else {
			fmt.Fprintf(&b, "   - %s", choice)
		}
	}
	return b.String()
}

var (
	yesWords = []string{"y", "yes", "yeah", "yep", "sure", "ok", "okay", "true"}
	noWords  = []string{"n", "no", "nope", "nah", "false", "0"}
)

// RecognizeBool is the default recogniser: the locale's choice words, the
// ordinals "1"/"2" when numbers are shown, and common English yes/no words.
func RecognizeBool(text string, choices ConfirmChoices) (bool, bool) {
	clean := strings.ToLower(strings.Trim(strings.TrimSpace(text), ".!"))

	switch clean {
	case strings.ToLower(choices.Yes):
		return true, true
	case strings.ToLower(choices.No):
		return false, true
	}

	if choices.IncludeNumbers {
		switch clean {
		case "1":
			return true, true
		case "2":
			return false, true
		}
	}

	for _, w := range yesWords {
		if clean == w {
			return true, true
		}
	}
	for _, w := range noWords {
		if clean == w {
			return false, true
		}
	}
	return false, false
}
