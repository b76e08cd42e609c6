package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"adspark/internal/metrics"
	"adspark/internal/models"

	"github.com/google/uuid"
)

var ErrEmptyMessage = errors.New("message is empty")

type MessageType string

const (
	MessageTypeUser  MessageType = "user"
	MessageTypeAgent MessageType = "agent"
)

type Message struct {
	ID        string      `json:"id"`
	Type      MessageType `json:"type"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// Responder picks the agent's reply. campaign is nil when no campaign
// exists yet.
type Responder interface {
	Respond(ctx context.Context, input string, campaign *models.Campaign) (string, error)
}

// Transcript is the ordered conversation with the growth agent.
type Transcript struct {
	mu          sync.Mutex
	messages    []Message
	suggestions []string
	responder   Responder
	now         func() time.Time
}

func NewTranscript(script Script, responder Responder) *Transcript {
	t := &Transcript{
		suggestions: append([]string(nil), script.Suggestions...),
		responder:   responder,
		now:         time.Now,
	}
	t.messages = []Message{t.newMessage(MessageTypeAgent, script.Greeting)}
	return t
}

func (t *Transcript) newMessage(typ MessageType, content string) Message {
	return Message{
		ID:        uuid.New().String(),
		Type:      typ,
		Content:   content,
		Timestamp: t.now(),
	}
}

// Messages returns a copy of the transcript.
func (t *Transcript) Messages() []Message {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Message(nil), t.messages...)
}

// Suggestions returns the quick prompts offered next to the input box.
func (t *Transcript) Suggestions() []string {
	return append([]string(nil), t.suggestions...)
}

// Send appends the user's message, asks the responder and appends its
// reply. The user's message stays in the transcript even if the responder
// fails.
func (t *Transcript) Send(ctx context.Context, input string, campaign *models.Campaign) (Message, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Message{}, ErrEmptyMessage
	}

	t.mu.Lock()
	t.messages = append(t.messages, t.newMessage(MessageTypeUser, input))
	t.mu.Unlock()

	reply, err := t.responder.Respond(ctx, input, campaign)
	if err != nil {
		return Message{}, fmt.Errorf("failed to get agent response: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	msg := t.newMessage(MessageTypeAgent, reply)
	t.messages = append(t.messages, msg)
	metrics.IncChatMessages()
	return msg, nil
}
