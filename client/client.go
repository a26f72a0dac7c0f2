// Package client talks to an OpenAI-compatible chat completions API.
package client

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/heycli/hey/conversation"
	"github.com/heycli/hey/flow"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/ssestream"
)

const (
	// TitleModel is used to name conversations.
	TitleModel = "gpt-3.5-turbo"
	// UntitledConversation is the title used when none could be generated.
	UntitledConversation = "Untitled Conversation"

	titlePrompt    = "Generate a concise title (max 5 words) for the following conversation. Respond with the title only, without quotes or special characters."
	titleMaxTokens = 10
)

// ErrNoAPIKey is returned when no API key is configured.
var ErrNoAPIKey = errors.New("no API key: set the OPENAI_API_KEY environment variable")

// Env is read from the process environment.
type Env struct {
	APIKey  string `env:"OPENAI_API_KEY"`
	BaseURL string `env:"OPENAI_BASE_URL"`
}

// Request is one chat completion request.
type Request struct {
	Model     string
	MaxTokens int
	Messages  []conversation.Message
}

// Client is a chat completions client.
type Client struct {
	api openai.Client
}

// NewClient returns a client for the API described by env. Extra options are
// passed to the underlying SDK.
func NewClient(env Env, opts ...option.RequestOption) (*Client, error) {
	if env.APIKey == "" {
		return nil, ErrNoAPIKey
	}
	o := []option.RequestOption{option.WithAPIKey(env.APIKey)}
	if env.BaseURL != "" {
		o = append(o, option.WithBaseURL(env.BaseURL))
	}
	o = append(o, opts...)
	return &Client{api: openai.NewClient(o...)}, nil
}

func messageParams(msgs []conversation.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case conversation.System:
			out = append(out, openai.SystemMessage(m.Content))
		case conversation.Assistant:
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

func (r Request) params() openai.ChatCompletionNewParams {
	p := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(r.Model),
		Messages: messageParams(r.Messages),
	}
	if r.MaxTokens > 0 {
		p.MaxTokens = openai.Int(int64(r.MaxTokens))
	}
	return p
}

// Stream starts a streaming completion. Errors, including a failed
// connection, surface through the returned stream's Err.
func (c *Client) Stream(ctx context.Context, req Request) flow.Stream {
	log.Debug("Starting completion", "model", req.Model, "messages", len(req.Messages))
	return &chunkStream{s: c.api.Chat.Completions.NewStreaming(ctx, req.params())}
}

// chunkStream adapts the SDK's event stream to the text chunks the renderer
// consumes.
type chunkStream struct {
	s      *ssestream.Stream[openai.ChatCompletionChunk]
	closed bool
}

func (c *chunkStream) Next() bool {
	if c.closed {
		return false
	}
	if c.s.Next() {
		return true
	}
	c.closed = true
	if err := c.s.Close(); err != nil {
		log.Debug("Closing stream", "err", err)
	}
	return false
}

func (c *chunkStream) Current() string {
	chunk := c.s.Current()
	if len(chunk.Choices) == 0 {
		return ""
	}
	return chunk.Choices[0].Delta.Content
}

func (c *chunkStream) Err() error {
	return c.s.Err()
}

// Title asks the model for a short title for transcript. An empty answer
// gives UntitledConversation.
func (c *Client) Title(ctx context.Context, transcript string) (string, error) {
	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(TitleModel),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(titlePrompt),
			openai.UserMessage(transcript),
		},
		MaxTokens: openai.Int(titleMaxTokens),
	})
	if err != nil {
		return "", fmt.Errorf("generate title: %w", err)
	}
	if len(resp.Choices) == 0 {
		return UntitledConversation, nil
	}
	title := strings.Trim(strings.TrimSpace(resp.Choices[0].Message.Content), `"'`)
	if title == "" {
		return UntitledConversation, nil
	}
	return title, nil
}

var chatModelPrefixes = []string{"gpt-", "o1", "o3", "o4", "chatgpt"}

// Models lists the IDs of the chat models the API offers, sorted.
func (c *Client) Models(ctx context.Context) ([]string, error) {
	var ids []string
	iter := c.api.Models.ListAutoPaging(ctx)
	for iter.Next() {
		id := iter.Current().ID
		for _, p := range chatModelPrefixes {
			if strings.HasPrefix(id, p) {
				ids = append(ids, id)
				break
			}
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
