// Package ui is the interactive chat loop: it reads input, runs
// slash-commands and streams replies through the renderer.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/heycli/hey/client"
	"github.com/heycli/hey/conversation"
	"github.com/heycli/hey/editor"
	"github.com/heycli/hey/flow"
	"github.com/heycli/hey/highlight"
	"github.com/heycli/hey/snail"
	"github.com/heycli/hey/wrap"
	"github.com/muesli/termenv"
	"github.com/peterh/liner"
)

// Chatter is the model API the session talks to.
type Chatter interface {
	Stream(ctx context.Context, req client.Request) flow.Stream
	Title(ctx context.Context, transcript string) (string, error)
	Models(ctx context.Context) ([]string, error)
}

// Prompter reads a line of input.
type Prompter interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

// Session is one interactive conversation. It owns the conversation, the
// active model and theme, and the output; nothing is shared globally.
type Session struct {
	cfg      Config
	settings Settings
	client   Chatter
	themes   *highlight.Store
	theme    *highlight.Theme
	conv     *conversation.Conversation
	model    string

	out        io.Writer
	term       *termenv.Output
	profile    termenv.Profile
	profileSet bool
	isTTY      bool
	width      wrap.WidthFunc
	styles     styles

	prompt     Prompter
	line       *liner.State
	loadedFile string
	reload     chan Settings

	copy    func(string) error
	compose func(string) (string, error)
}

// Option configures a Session.
type Option func(*Session)

// WithOutput sets where the session writes. isTTY enables cursor handling.
func WithOutput(w io.Writer, isTTY bool) Option {
	return func(s *Session) {
		s.out = w
		s.isTTY = isTTY
	}
}

// WithProfile forces a color profile instead of detecting one.
func WithProfile(p termenv.Profile) Option {
	return func(s *Session) {
		s.profile = p
		s.profileSet = true
	}
}

// WithPrompter replaces the line editor.
func WithPrompter(p Prompter) Option {
	return func(s *Session) {
		s.prompt = p
	}
}

// WithConversation starts from an existing conversation.
func WithConversation(c *conversation.Conversation, file string) Option {
	return func(s *Session) {
		s.conv = c
		s.loadedFile = file
	}
}

// WithWidth sets how the terminal width is found.
func WithWidth(fn wrap.WidthFunc) Option {
	return func(s *Session) {
		s.width = fn
	}
}

// NewSession creates a session. The configured theme must exist in themes.
func NewSession(cfg Config, c Chatter, themes *highlight.Store, opts ...Option) (*Session, error) {
	if c == nil {
		return nil, errors.New("client cannot be nil")
	}
	if themes == nil {
		themes = highlight.NewStore()
	}

	s := &Session{
		cfg:      cfg,
		settings: cfg.Settings,
		client:   c,
		themes:   themes,
		model:    cfg.Model,
		out:      os.Stdout,
		width:    wrap.TerminalWidth(os.Stdout),
		reload:   make(chan Settings, 1),
		copy:     clipboard.WriteAll,
		compose:  editor.Compose,
	}
	for _, o := range opts {
		o(s)
	}

	if s.settings.Theme == "" {
		s.settings.Theme = highlight.DefaultTheme
	}
	theme, err := themes.Get(s.settings.Theme)
	if err != nil {
		return nil, err
	}
	s.theme = theme

	if s.conv == nil {
		s.conv = conversation.New(cfg.SystemPrompt)
	}
	if !s.profileSet {
		s.profile = termenv.NewOutput(s.out).EnvColorProfile()
	}
	s.applyProfile()
	return s, nil
}

// applyProfile rebuilds everything that depends on the color settings.
func (s *Session) applyProfile() {
	p := s.profile
	if !s.settings.Colors {
		p = termenv.Ascii
	}
	s.term = termenv.NewOutput(s.out, termenv.WithProfile(p))
	r := lipgloss.NewRenderer(s.out, termenv.WithProfile(p))
	r.SetColorProfile(p)
	s.styles = newStyles(r)
}

func (s *Session) colorProfile() termenv.Profile {
	if !s.settings.Colors {
		return termenv.Ascii
	}
	return s.profile
}

// Conversation returns the current conversation.
func (s *Session) Conversation() *conversation.Conversation {
	return s.conv
}

// Model returns the active model.
func (s *Session) Model() string {
	return s.model
}

// Theme returns the active theme.
func (s *Session) Theme() *highlight.Theme {
	return s.theme
}

// UpdateSettings hands new settings to the session; they take effect before
// the next prompt. It may be called from any goroutine.
func (s *Session) UpdateSettings(st Settings) {
	for {
		select {
		case s.reload <- st:
			return
		default:
		}
		// replace a pending update nobody picked up yet
		select {
		case <-s.reload:
		default:
		}
	}
}

func (s *Session) applyPendingSettings() {
	select {
	case st := <-s.reload:
		s.applySettings(st)
	default:
	}
}

func (s *Session) applySettings(st Settings) {
	if st.Theme == "" {
		st.Theme = s.settings.Theme
	}
	theme, err := s.themes.Get(st.Theme)
	if err != nil {
		s.warn(fmt.Sprintf("Keeping theme %s: %v", s.theme.Name(), err))
		st.Theme = s.settings.Theme
	} else {
		s.theme = theme
	}
	s.settings = st
	s.applyProfile()
	log.Debug("Settings reloaded", "theme", st.Theme, "width", st.WrapWidth, "animations", st.Animations)
}

// renderConfig builds the renderer settings for one response.
func (s *Session) renderConfig(paced bool) flow.Config {
	cfg := flow.Config{
		Width: wrap.Resolve(s.settings.WrapWidth, s.width),
	}
	if s.settings.Highlighting {
		cfg.Highlighter = highlight.New(s.theme, highlight.WithProfile(s.colorProfile()))
	}
	if paced && s.settings.Animations {
		cfg.Delay = s.cfg.CharDelay
	}
	return cfg
}

// Ask sends a single message and renders the reply.
func (s *Session) Ask(ctx context.Context, message string) error {
	s.conv.AddUser(message)
	return s.respond(ctx)
}

// respond streams the model's answer to the conversation so far.
func (s *Session) respond(ctx context.Context) error {
	stream := s.client.Stream(ctx, client.Request{
		Model:     s.model,
		MaxTokens: s.cfg.MaxTokens,
		Messages:  s.conv.Messages,
	})

	if s.isTTY && !s.cfg.KeepCursor {
		s.term.HideCursor()
		defer s.term.ShowCursor()
	}

	full, err := flow.Render(ctx, stream, s.out, s.renderConfig(true))
	if err != nil {
		s.conv.DropLast()
		var se *flow.StreamError
		if errors.As(err, &se) {
			s.printError(se.Err)
			return se
		}
		return err
	}

	if full != "" && !strings.HasSuffix(full, "\n") {
		fmt.Fprintln(s.out) //nolint:errcheck
	}
	s.conv.AddAssistant(full)
	return nil
}

// Run is the read-eval-print loop. It returns when the user exits or input
// ends.
func (s *Session) Run(ctx context.Context) error {
	if s.prompt == nil {
		if s.cfg.NoLineInput {
			s.prompt = newPlainPrompter(os.Stdin, s.out)
		} else {
			s.openLineEditor()
			defer s.closeLineEditor()
		}
	}

	s.greet("Hey!")
	defer s.greet("Bye!")
	s.checkConversationsDir()

	for {
		s.applyPendingSettings()

		raw, err := s.prompt.Prompt("> ")
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted) {
				fmt.Fprintln(s.out) //nolint:errcheck
				return nil
			}
			return err
		}

		input := strings.TrimSpace(raw)
		if input == "" {
			continue
		}
		if s.line != nil {
			s.line.AppendHistory(input)
		}

		if strings.HasPrefix(input, "/") {
			exit, err := s.handleCommand(ctx, input)
			if err != nil {
				s.printError(err)
			}
			if exit {
				return nil
			}
			continue
		}

		// respond reports stream errors itself; the loop carries on
		if err := s.Ask(ctx, input); err != nil {
			var se *flow.StreamError
			if !errors.As(err, &se) {
				return err
			}
		}
		if ctx.Err() != nil {
			return nil
		}
	}
}

func (s *Session) openLineEditor() {
	s.line = liner.NewLiner()
	s.line.SetCtrlCAborts(true)
	s.line.SetCompleter(completeCommand)
	s.prompt = s.line

	if s.cfg.HistoryFile == "" {
		return
	}
	if f, err := os.Open(s.cfg.HistoryFile); err == nil {
		if _, err := s.line.ReadHistory(f); err != nil {
			log.Debug("Could not read history", "err", err)
		}
		_ = f.Close()
	}
}

func (s *Session) closeLineEditor() {
	if s.line == nil {
		return
	}
	if s.cfg.HistoryFile != "" {
		if f, err := os.Create(s.cfg.HistoryFile); err == nil {
			if _, err := s.line.WriteHistory(f); err != nil {
				log.Debug("Could not write history", "err", err)
			}
			_ = f.Close()
		}
	}
	_ = s.line.Close()
	s.line = nil
}

// completeCommand offers slash-command names for tab completion.
func completeCommand(line string) []string {
	if !strings.HasPrefix(line, "/") || strings.Contains(line, " ") {
		return nil
	}
	var out []string
	for _, c := range commands {
		for _, n := range c.names {
			if strings.HasPrefix("/"+n, line) {
				out = append(out, "/"+n)
			}
		}
	}
	return out
}

func (s *Session) greet(text string) {
	if !s.cfg.Greetings {
		return
	}
	delay := s.cfg.CharDelay
	if !s.settings.Animations {
		delay = 0
	}
	_ = snail.NewWriter(s.out, delay).Emit(s.styles.greeting.Render(text) + "\n")
}

func (s *Session) printError(err error) {
	fmt.Fprintf(s.out, "%s %v\n", s.styles.errorPrefix.Render("Error:"), err) //nolint:errcheck
}

func (s *Session) warn(msg string) {
	fmt.Fprintf(s.out, "%s %s\n", s.styles.warnPrefix.Render("Warning:"), msg) //nolint:errcheck
}

func (s *Session) info(msg string) {
	fmt.Fprintf(s.out, "%s %s\n", s.styles.infoPrefix.Render("Info:"), msg) //nolint:errcheck
}

// PrintHistory replays the conversation: user messages as typed, replies
// through the renderer without pacing.
func (s *Session) PrintHistory(ctx context.Context) error {
	if !s.conv.HasHistory() {
		s.info("No conversation history available.")
		return nil
	}
	for _, m := range s.conv.Messages {
		switch m.Role {
		case conversation.User:
			fmt.Fprintf(s.out, "%s %s\n", s.styles.userPrompt.Render(">"), s.styles.userText.Render(m.Content)) //nolint:errcheck
		case conversation.Assistant:
			if err := flow.RenderString(ctx, m.Content, s.out, s.renderConfig(false)); err != nil {
				return err
			}
			if !strings.HasSuffix(m.Content, "\n") {
				fmt.Fprintln(s.out) //nolint:errcheck
			}
			fmt.Fprintln(s.out) //nolint:errcheck
		}
	}
	return nil
}
