// Package conversation holds the messages exchanged with the model.
package conversation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSystemPrompt is used when none is configured.
const DefaultSystemPrompt = "You are a helpful assistant."

// Role identifies who wrote a message.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message is a single role-tagged message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ErrEmpty is returned when loading a file with no messages in it.
var ErrEmpty = errors.New("conversation is empty")

// Conversation is an ordered list of messages, starting with the system
// prompt.
type Conversation struct {
	Messages []Message
}

// New starts a conversation with the given system prompt.
func New(systemPrompt string) *Conversation {
	if systemPrompt == "" {
		systemPrompt = DefaultSystemPrompt
	}
	return &Conversation{
		Messages: []Message{{Role: System, Content: systemPrompt}},
	}
}

// AddUser appends a user message.
func (c *Conversation) AddUser(content string) {
	c.Messages = append(c.Messages, Message{Role: User, Content: content})
}

// AddAssistant appends an assistant message.
func (c *Conversation) AddAssistant(content string) {
	c.Messages = append(c.Messages, Message{Role: Assistant, Content: content})
}

// DropLast removes the newest message, unless it is the system prompt.
func (c *Conversation) DropLast() {
	if len(c.Messages) > 0 && c.Messages[len(c.Messages)-1].Role != System {
		c.Messages = c.Messages[:len(c.Messages)-1]
	}
}

// Last returns the newest message.
func (c *Conversation) Last() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// LastAssistant returns the newest assistant message.
func (c *Conversation) LastAssistant() (string, bool) {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == Assistant {
			return c.Messages[i].Content, true
		}
	}
	return "", false
}

// Reset drops everything but the system prompt.
func (c *Conversation) Reset() {
	if len(c.Messages) > 0 && c.Messages[0].Role == System {
		c.Messages = c.Messages[:1]
		return
	}
	c.Messages = c.Messages[:0]
}

// HasHistory reports whether anything beyond the system prompt was said.
func (c *Conversation) HasHistory() bool {
	for _, m := range c.Messages {
		if m.Role != System {
			return true
		}
	}
	return false
}

// SetSystemPrompt replaces the system prompt, adding one if missing.
func (c *Conversation) SetSystemPrompt(prompt string) {
	if len(c.Messages) > 0 && c.Messages[0].Role == System {
		c.Messages[0].Content = prompt
		return
	}
	c.Messages = append([]Message{{Role: System, Content: prompt}}, c.Messages...)
}

// Transcript renders the exchange as plain text, one "User:" or
// "Assistant:" line per message. The system prompt is left out.
func (c *Conversation) Transcript() string {
	var b strings.Builder
	for _, m := range c.Messages {
		switch m.Role {
		case User:
			fmt.Fprintf(&b, "User: %s\n", m.Content)
		case Assistant:
			fmt.Fprintf(&b, "Assistant: %s\n", m.Content)
		}
	}
	return b.String()
}

// Save writes the messages to path as a JSON array, creating parent
// directories as needed.
func (c *Conversation) Save(path string) error {
	data, err := json.MarshalIndent(c.Messages, "", "  ")
	if err != nil {
		return fmt.Errorf("encode conversation: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create conversation dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write conversation: %w", err)
	}
	return nil
}

// Load reads a conversation written by Save. The file replaces the whole
// conversation, system prompt included.
func Load(path string) (*Conversation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read conversation: %w", err)
	}

	var msgs []Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("decode conversation %s: %w", path, err)
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmpty)
	}
	for i, m := range msgs {
		switch m.Role {
		case System, User, Assistant:
		default:
			return nil, fmt.Errorf("%s: message %d has unknown role %q", path, i, m.Role)
		}
	}
	return &Conversation{Messages: msgs}, nil
}
