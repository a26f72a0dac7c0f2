package conversation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStartsWithSystemPrompt(t *testing.T) {
	c := New("")
	require.Len(t, c.Messages, 1)
	assert.Equal(t, Message{Role: System, Content: DefaultSystemPrompt}, c.Messages[0])
	assert.False(t, c.HasHistory())

	c = New("be brief")
	assert.Equal(t, "be brief", c.Messages[0].Content)
}

func TestResetKeepsSystemPrompt(t *testing.T) {
	c := New("sys")
	c.AddUser("hi")
	c.AddAssistant("hello")
	require.True(t, c.HasHistory())

	c.Reset()
	assert.Equal(t, []Message{{Role: System, Content: "sys"}}, c.Messages)
	assert.False(t, c.HasHistory())
}

func TestDropLast(t *testing.T) {
	c := New("sys")
	c.AddUser("hi")
	c.DropLast()
	assert.Len(t, c.Messages, 1)

	// the system prompt stays
	c.DropLast()
	assert.Len(t, c.Messages, 1)
}

func TestLastAssistant(t *testing.T) {
	c := New("sys")
	_, ok := c.LastAssistant()
	assert.False(t, ok)

	c.AddUser("q1")
	c.AddAssistant("a1")
	c.AddUser("q2")
	got, ok := c.LastAssistant()
	assert.True(t, ok)
	assert.Equal(t, "a1", got)

	last, ok := c.Last()
	assert.True(t, ok)
	assert.Equal(t, Message{Role: User, Content: "q2"}, last)
}

func TestTranscript(t *testing.T) {
	c := New("secret instructions")
	c.AddUser("What is Go?")
	c.AddAssistant("A programming language.")

	want := "User: What is Go?\nAssistant: A programming language.\n"
	assert.Equal(t, want, c.Transcript())
}

func TestSetSystemPrompt(t *testing.T) {
	c := New("old")
	c.AddUser("hi")
	c.SetSystemPrompt("new")
	assert.Equal(t, "new", c.Messages[0].Content)

	c = &Conversation{Messages: []Message{{Role: User, Content: "hi"}}}
	c.SetSystemPrompt("added")
	assert.Equal(t, []Message{{Role: System, Content: "added"}, {Role: User, Content: "hi"}}, c.Messages)
}

func TestSaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "chat.json")

	c := New("sys")
	c.AddUser("hi")
	c.AddAssistant("hello\n```go\nfmt.Println()\n```")
	require.NoError(t, c.Save(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"role": "assistant"`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c.Messages, loaded.Messages)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		return p
	}

	_, err := Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	_, err = Load(write("bad.json", "{not json"))
	assert.Error(t, err)

	_, err = Load(write("empty.json", "[]"))
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Load(write("role.json", `[{"role":"robot","content":"x"}]`))
	assert.ErrorContains(t, err, "unknown role")
}
