package prompt

import (
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
)

// ListStyle controls how choices are rendered into the prompt.
type ListStyle string

const (
	StyleNone            ListStyle = "none"
	StyleAuto            ListStyle = "auto"
	StyleInline          ListStyle = "inline"
	StyleList            ListStyle = "list"
	StyleSuggestedAction ListStyle = "suggestedAction"
)

// Options are passed as the begin args of a prompt.
type Options struct {
	Prompt      *domain.Activity `json:"prompt,omitempty"`
	RetryPrompt *domain.Activity `json:"retry_prompt,omitempty"`

	// Choices relabels the options for this call. ConfirmPrompt reads the
	// first two entries as its yes and no labels.
	Choices []string `json:"choices,omitempty"`

	// Style overrides the prompt's default list style for this call.
	Style ListStyle `json:"style,omitempty"`

	// Validations is handed to the validator untouched.
	Validations any `json:"validations,omitempty"`
}

// Text is shorthand for Options with plain-text prompt and retry messages.
func Text(prompt, retry string) Options {
	opts := Options{Prompt: domain.NewMessage(prompt)}
	if retry != "" {
		opts.RetryPrompt = domain.NewMessage(retry)
	}
	return opts
}

// optionsFrom accepts the shapes options take before and after persistence.
func optionsFrom(v any) (Options, error) {
	switch o := v.(type) {
	case nil:
		return Options{}, nil
	case Options:
		return o, nil
	case *Options:
		if o == nil {
			return Options{}, nil
		}
		return *o, nil
	case string:
		return Text(o, ""), nil
	default:
		var opts Options
		if err := dialog.Decode(o, &opts); err != nil {
			return Options{}, err
		}
		return opts, nil
	}
}
