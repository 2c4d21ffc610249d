package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType classifies an Activity.
type ActivityType string

// Standard Activity Types
const (
	ActivityMessage            ActivityType = "message"
	ActivityConversationUpdate ActivityType = "conversationUpdate"
	ActivityEvent              ActivityType = "event"
	ActivityEndOfConversation  ActivityType = "endOfConversation"
	ActivityTyping             ActivityType = "typing"
)

// InputHint tells the channel whether the bot is waiting for a reply.
type InputHint string

const (
	InputExpecting InputHint = "expectingInput"
	InputAccepting InputHint = "acceptingInput"
	InputIgnoring  InputHint = "ignoringInput"
)

// Account identifies a participant (user or bot).
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// ConversationRef identifies the conversation an activity belongs to.
type ConversationRef struct {
	ID string `json:"id"`
}

// Activity is a channel-neutral message exchanged with the bot.
type Activity struct {
	Type         ActivityType    `json:"type"`
	ID           string          `json:"id,omitempty"`
	Timestamp    time.Time       `json:"timestamp,omitempty"`
	ChannelID    string          `json:"channel_id,omitempty"`
	Conversation ConversationRef `json:"conversation"`
	From         Account         `json:"from"`
	Recipient    Account         `json:"recipient"`
	ReplyToID    string          `json:"reply_to_id,omitempty"`

	Text   string `json:"text,omitempty"`
	Locale string `json:"locale,omitempty"`

	// Value carries structured payloads (event data, card submissions).
	Value any    `json:"value,omitempty"`
	Name  string `json:"name,omitempty"` // event name

	MembersAdded   []Account `json:"members_added,omitempty"`
	MembersRemoved []Account `json:"members_removed,omitempty"`

	SuggestedActions []string  `json:"suggested_actions,omitempty"`
	InputHint        InputHint `json:"input_hint,omitempty"`
}

// NewMessage creates an outbound message activity without addressing.
func NewMessage(text string) *Activity {
	return &Activity{
		Type: ActivityMessage,
		Text: text,
	}
}

// Reply builds a message addressed back to the sender of a.
func (a *Activity) Reply(text string) *Activity {
	return &Activity{
		Type:         ActivityMessage,
		ID:           uuid.NewString(),
		Timestamp:    time.Now().UTC(),
		ChannelID:    a.ChannelID,
		Conversation: a.Conversation,
		From:         a.Recipient,
		Recipient:    a.From,
		ReplyToID:    a.ID,
		Text:         text,
		Locale:       a.Locale,
	}
}

// Address fills routing fields of an outbound activity from the inbound one.
// Fields already set on out are preserved.
func (a *Activity) Address(out *Activity) *Activity {
	addressed := *out
	if addressed.ID == "" {
		addressed.ID = uuid.NewString()
	}
	if addressed.Timestamp.IsZero() {
		addressed.Timestamp = time.Now().UTC()
	}
	if addressed.ChannelID == "" {
		addressed.ChannelID = a.ChannelID
	}
	if addressed.Conversation.ID == "" {
		addressed.Conversation = a.Conversation
	}
	if addressed.From.ID == "" {
		addressed.From = a.Recipient
	}
	if addressed.Recipient.ID == "" {
		addressed.Recipient = a.From
	}
	if addressed.ReplyToID == "" {
		addressed.ReplyToID = a.ID
	}
	if addressed.Locale == "" {
		addressed.Locale = a.Locale
	}
	return &addressed
}

// IsMessage reports whether a is a message activity.
func (a *Activity) IsMessage() bool {
	return a != nil && a.Type == ActivityMessage
}
