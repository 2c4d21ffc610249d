// Package sanitize cleans inbound activities before they reach the bot.
package sanitize

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/aretw0/dialogs/pkg/domain"
)

// DefaultMaxInputSize caps one user-supplied string at 4KB.
const DefaultMaxInputSize = 4096

// EnvMaxInputSize overrides DefaultMaxInputSize when no explicit limit is set.
const EnvMaxInputSize = "DIALOGS_MAX_INPUT_SIZE"

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// Sanitizer validates and cleans the user-controlled strings of an activity.
// Oversized or malformed strings are rejected, never truncated.
type Sanitizer struct {
	limit int
}

// New returns a Sanitizer with a per-string byte limit. A limit <= 0 falls
// back to EnvMaxInputSize, then DefaultMaxInputSize.
func New(limit int) *Sanitizer {
	if limit <= 0 {
		limit = limitFromEnv()
	}
	return &Sanitizer{limit: limit}
}

// Limit returns the active per-string limit in bytes.
func (s *Sanitizer) Limit() int {
	return s.limit
}

// Activity cleans a's text, event name and every string inside Value in place.
// The returned error names the offending field.
func (s *Sanitizer) Activity(a *domain.Activity) error {
	text, err := s.Text(a.Text)
	if err != nil {
		return fmt.Errorf("text: %w", err)
	}
	name, err := s.Text(a.Name)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	value, err := s.value(a.Value, 0)
	if err != nil {
		return fmt.Errorf("value: %w", err)
	}
	a.Text, a.Name, a.Value = text, name, value
	return nil
}

// maxDepth bounds recursion into Value.
const maxDepth = 32

func (s *Sanitizer) value(v any, depth int) (any, error) {
	if depth > maxDepth {
		return nil, errors.New("value nested too deeply")
	}
	switch x := v.(type) {
	case string:
		return s.Text(x)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, item := range x {
			key, err := s.Text(k)
			if err != nil {
				return nil, err
			}
			if out[key], err = s.value(item, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			var err error
			if out[i], err = s.value(item, depth+1); err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	return v, nil
}

// Text enforces the size limit, validates UTF-8 and strips control
// characters other than newline, tab and carriage return.
func (s *Sanitizer) Text(input string) (string, error) {
	if len(input) > s.limit {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), s.limit)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}
	if strings.IndexFunc(input, unsafeControl) < 0 {
		return input, nil
	}
	return strings.Map(func(r rune) rune {
		if unsafeControl(r) {
			return -1
		}
		return r
	}, input), nil
}

func unsafeControl(r rune) bool {
	return unicode.IsControl(r) && r != '\n' && r != '\t' && r != '\r'
}

func limitFromEnv() int {
	if val := os.Getenv(EnvMaxInputSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxInputSize
}
