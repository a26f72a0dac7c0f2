package ui

import (
	"time"
)

// Settings are the parts of the configuration that can change while a
// session is running, when the config file is edited.
type Settings struct {
	Theme        string
	Highlighting bool
	Colors       bool
	Animations   bool
	WrapWidth    int
}

// Config contains REPL-specific configuration.
type Config struct {
	Settings

	SystemPrompt        string
	Model               string
	MaxTokens           int
	Greetings           bool
	ConversationsFolder string
	HistoryFile         string

	// For debugging the UI
	CharDelay   time.Duration `env:"HEY_CHAR_DELAY"     envDefault:"5ms"`
	KeepCursor  bool          `env:"HEY_KEEP_CURSOR"    envDefault:"false"`
	NoLineInput bool          `env:"HEY_NO_LINE_EDITOR" envDefault:"false"`
}
