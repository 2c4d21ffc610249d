// Package console runs a conversation over line-oriented standard streams.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/dialogs/internal/logging"
	"github.com/aretw0/dialogs/internal/presentation/tui"
	"github.com/aretw0/dialogs/internal/sanitize"
	"github.com/aretw0/dialogs/pkg/bot"
	"github.com/aretw0/dialogs/pkg/dialog"
	"github.com/aretw0/dialogs/pkg/domain"
	"github.com/google/uuid"
)

// ChannelID tags activities produced by the console.
const ChannelID = "console"

// Console drives a bot from an input stream and writes replies to an output stream.
type Console struct {
	bot    bot.Handler
	in     io.Reader
	out    io.Writer
	render tui.Renderer
	logger *slog.Logger

	conversationID string
	locale         string
	user           domain.Account
	self           domain.Account
	banner         bool
	prompt         string
	maxInput       int
	sanitizer      *sanitize.Sanitizer
}

// Option configures the Console.
type Option func(*Console)

// WithInput sets the input stream (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(c *Console) { c.in = r }
}

// WithOutput sets the output stream (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(c *Console) { c.out = w }
}

// WithRenderer overrides the renderer picked for the output stream.
func WithRenderer(r tui.Renderer) Option {
	return func(c *Console) { c.render = r }
}

// WithConversationID resumes a stored conversation instead of starting a new one.
func WithConversationID(id string) Option {
	return func(c *Console) { c.conversationID = id }
}

// WithLocale sets the locale stamped on every activity.
func WithLocale(locale string) Option {
	return func(c *Console) { c.locale = locale }
}

// WithBanner toggles the startup banner.
func WithBanner(enabled bool) Option {
	return func(c *Console) { c.banner = enabled }
}

// WithMaxInputSize caps the bytes of one input line. Zero keeps the sanitize default.
func WithMaxInputSize(n int) Option {
	return func(c *Console) { c.maxInput = n }
}

// WithLogger sets the console's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Console) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a console bound to h.
func New(h bot.Handler, opts ...Option) *Console {
	c := &Console{
		bot:    h,
		in:     os.Stdin,
		out:    os.Stdout,
		logger: logging.NewNop(),
		user:   domain.Account{ID: "user", Name: "User"},
		self:   domain.Account{ID: "bot", Name: "Bot"},
		prompt: "> ",
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sanitizer = sanitize.New(c.maxInput)
	if c.render == nil {
		c.render = tui.RendererFor(c.out)
	}
	if c.conversationID == "" {
		c.conversationID = uuid.NewString()
	}
	return c
}

// ConversationID returns the id of the console's conversation.
func (c *Console) ConversationID() string {
	return c.conversationID
}

// Send writes outbound activities. It implements ports.ActivitySender.
func (c *Console) Send(ctx context.Context, activities ...*domain.Activity) error {
	for _, a := range activities {
		if a.Type != domain.ActivityMessage || a.Text == "" {
			continue
		}
		text, err := c.render(a.Text)
		if err != nil {
			c.logger.Warn("render failed, writing plain text", "err", err)
			text = a.Text
		}
		if !strings.HasSuffix(text, "\n") {
			text += "\n"
		}
		if _, err := io.WriteString(c.out, text); err != nil {
			return err
		}
		if len(a.SuggestedActions) > 0 {
			if _, err := fmt.Fprintf(c.out, "[%s]\n", strings.Join(a.SuggestedActions, "] [")); err != nil {
				return err
			}
		}
	}
	return nil
}

// Run greets the user and processes one line per turn until the input ends,
// the user types /quit, or ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	if c.banner {
		tui.PrintBanner(c.out)
	}

	join := c.activity(domain.ActivityConversationUpdate)
	join.MembersAdded = []domain.Account{c.user}
	if err := c.turn(ctx, join); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	for {
		fmt.Fprint(c.out, c.prompt)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(c.out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if strings.TrimSpace(line) == "/quit" {
				return c.turn(ctx, c.activity(domain.ActivityEndOfConversation))
			}
			msg := c.activity(domain.ActivityMessage)
			msg.Text = line
			if err := c.sanitizer.Activity(msg); err != nil {
				fmt.Fprintf(c.out, "! %v\n", err)
				continue
			}
			if err := c.turn(ctx, msg); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				// The bot already apologised; keep the session going.
				c.logger.Error("turn failed", "conversation_id", c.conversationID, "err", err)
			}
		}
	}
}

func (c *Console) turn(ctx context.Context, a *domain.Activity) error {
	return c.bot.OnTurn(ctx, dialog.NewTurnContext(a, c))
}

func (c *Console) activity(t domain.ActivityType) *domain.Activity {
	return &domain.Activity{
		Type:         t,
		ID:           uuid.NewString(),
		ChannelID:    ChannelID,
		Conversation: domain.ConversationRef{ID: c.conversationID},
		From:         c.user,
		Recipient:    c.self,
		Locale:       c.locale,
	}
}
