package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/heycli/hey/conversation"
	"github.com/heycli/hey/flow"
	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chunkEvent(content string) string {
	return fmt.Sprintf(`data: {"id":"c1","object":"chat.completion.chunk","created":1,"model":"gpt-4o","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`+"\n\n", content)
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Env{APIKey: "test-key", BaseURL: srv.URL + "/"}, option.WithMaxRetries(0))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Env{})
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestStream(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)

		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{"Hel", "lo, wor", "ld!\n", "Second line, no newline"} {
			_, _ = io.WriteString(w, chunkEvent(part))
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	})

	conv := conversation.New("sys")
	conv.AddUser("hi")

	var out strings.Builder
	full, err := flow.Render(context.Background(), c.Stream(context.Background(), Request{
		Model:     "gpt-4o",
		MaxTokens: 64,
		Messages:  conv.Messages,
	}), &out, flow.Config{})
	require.NoError(t, err)

	assert.Equal(t, "Hello, world!\nSecond line, no newline", full)
	assert.Equal(t, full, out.String())

	assert.Equal(t, "gpt-4o", body["model"])
	assert.EqualValues(t, 64, body["max_tokens"])
	assert.Equal(t, true, body["stream"])
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
}

func TestStreamHTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	})

	var out strings.Builder
	_, err := flow.Render(context.Background(), c.Stream(context.Background(), Request{Model: "gpt-4o"}), &out, flow.Config{})
	var se *flow.StreamError
	require.ErrorAs(t, err, &se)
	assert.Empty(t, out.String())
}

func TestTitle(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"trimmed", "  \"Go Generics Primer\"\n", "Go Generics Primer"},
		{"empty", "", UntitledConversation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				data, _ := io.ReadAll(r.Body)
				_ = json.Unmarshal(data, &body)
				assert.Equal(t, TitleModel, body["model"])
				assert.EqualValues(t, titleMaxTokens, body["max_tokens"])

				w.Header().Set("Content-Type", "application/json")
				resp := map[string]any{
					"id": "c1", "object": "chat.completion", "created": 1, "model": TitleModel,
					"choices": []any{map[string]any{
						"index":         0,
						"finish_reason": "stop",
						"message":       map[string]any{"role": "assistant", "content": tt.content},
					}},
				}
				_ = json.NewEncoder(w).Encode(resp)
			})

			got, err := c.Title(context.Background(), "User: hi\nAssistant: hello\n")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModels(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"object":"list","data":[
			{"id":"gpt-4o","object":"model","created":1,"owned_by":"openai"},
			{"id":"whisper-1","object":"model","created":1,"owned_by":"openai"},
			{"id":"gpt-3.5-turbo","object":"model","created":1,"owned_by":"openai"},
			{"id":"o1-mini","object":"model","created":1,"owned_by":"openai"}
		]}`)
	})

	got, err := c.Models(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-3.5-turbo", "gpt-4o", "o1-mini"}, got)
}
