package ui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/heycli/hey/client"
	"github.com/heycli/hey/conversation"
	"github.com/heycli/hey/flow"
	"github.com/heycli/hey/highlight"
	"github.com/heycli/hey/utils"
)

var errInvalidCommand = errors.New("Invalid command. Type /help for a list of commands.") //nolint:revive,stylecheck

// handleCommand runs a slash-command. exit reports whether the session
// should end.
func (s *Session) handleCommand(ctx context.Context, input string) (exit bool, err error) {
	cmd, arg := ParseCommand(input)
	log.Debug("Command", "cmd", cmd, "arg", arg)

	switch cmd {
	case CmdExit:
		return true, nil
	case CmdClear:
		s.term.ClearScreen()
	case CmdReset:
		s.conv.Reset()
		s.loadedFile = ""
		s.info("Conversation reset.")
	case CmdModel:
		err = s.pickModel(ctx, arg)
	case CmdTheme:
		err = s.pickTheme(ctx, arg)
	case CmdSave:
		err = s.save(ctx)
	case CmdLoad:
		err = s.load(ctx)
	case CmdHistory:
		err = s.PrintHistory(ctx)
	case CmdCopy:
		err = s.copyLast()
	case CmdEdit:
		err = s.edit(ctx, arg)
	case CmdHelp:
		err = writeHelp(s.out, s.styles)
	default:
		err = errInvalidCommand
	}

	if errors.Is(err, errCancelled) {
		return false, nil
	}
	return false, err
}

func (s *Session) pickModel(ctx context.Context, query string) error {
	models, err := s.client.Models(ctx)
	if err != nil {
		if query == "" {
			return err
		}
		s.warn(fmt.Sprintf("Could not list models, using %s as given: %v", query, err))
		s.model = query
		return nil
	}

	labels := make([]string, len(models))
	for i, m := range models {
		if m == s.model {
			labels[i] = "(current)"
		}
	}
	model, err := s.choose("Models:", models, labels, query)
	if err != nil {
		return err
	}
	s.model = model
	s.info("Model set to " + model + ".")
	return nil
}

func (s *Session) pickTheme(ctx context.Context, query string) error {
	names := s.themes.Names()
	labels := make([]string, len(names))
	for i, n := range names {
		if n == s.theme.Name() {
			labels[i] = "(current)"
		}
	}
	name, err := s.choose("Themes:", names, labels, query)
	if err != nil {
		return err
	}
	theme, err := s.themes.Get(name)
	if err != nil {
		return err
	}
	s.theme = theme
	s.settings.Theme = name
	s.info("Theme set to " + name + ".")
	return flow.RenderString(ctx, highlight.Sample, s.out, s.renderConfig(false))
}

// checkConversationsDir warns when the conversations folder is missing, so
// the question on the first /save or /load doesn't come as a surprise.
func (s *Session) checkConversationsDir() {
	if s.cfg.ConversationsFolder == "" {
		return
	}
	dir := utils.ExpandPath(s.cfg.ConversationsFolder)
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return
	}
	s.warn(fmt.Sprintf("Conversations folder %s does not exist. You will be asked to create it on /save.", dir))
}

// conversationsDir returns the folder conversations are saved to. When it
// doesn't exist the user is asked whether to create it; otherwise the
// working directory is used.
func (s *Session) conversationsDir() (string, error) {
	dir := utils.ExpandPath(s.cfg.ConversationsFolder)
	if dir == "" {
		return ".", nil
	}
	if fi, err := os.Stat(dir); err == nil && fi.IsDir() {
		return dir, nil
	}

	ok, err := s.confirm(fmt.Sprintf("Folder %s does not exist. Create it?", dir))
	if err != nil {
		return "", err
	}
	if !ok {
		return ".", nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	return dir, nil
}

func (s *Session) save(ctx context.Context) error {
	if !s.conv.HasHistory() {
		s.info("No conversation history to save.")
		return nil
	}
	dir, err := s.conversationsDir()
	if err != nil {
		return err
	}

	name := filepath.Base(s.loadedFile)
	if s.loadedFile == "" {
		title, err := s.client.Title(ctx, s.conv.Transcript())
		if err != nil {
			s.warn(err.Error())
			title = client.UntitledConversation
		}
		name = utils.Slugify(title) + ".json"
	}

	name, err = s.prompt.PromptWithSuggestion("File name: ", name, -1)
	if err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return errCancelled
	}
	if !strings.EqualFold(filepath.Ext(name), ".json") {
		name += ".json"
	}

	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}
	if err := s.conv.Save(path); err != nil {
		return err
	}
	s.loadedFile = path
	s.info("Conversation saved to " + path + ".")
	return nil
}

func (s *Session) load(ctx context.Context) error {
	dir := utils.ExpandPath(s.cfg.ConversationsFolder)
	if dir == "" {
		dir = "."
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		ok, err := s.confirm(fmt.Sprintf("Folder %s does not exist. Load from the current directory instead?", dir))
		if err != nil {
			return err
		}
		if !ok {
			return errCancelled
		}
		dir = "."
	}

	saved, err := listConversations(dir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if len(saved) == 0 {
		s.info("No saved conversations in " + dir + ".")
		return nil
	}

	now := time.Now()
	names := make([]string, len(saved))
	labels := make([]string, len(saved))
	for i, c := range saved {
		names[i] = c.Name
		labels[i] = utils.RelativeTime(c.Modtime, now)
	}
	name, err := s.choose("Saved conversations:", names, labels, "")
	if err != nil {
		return err
	}

	path := filepath.Join(dir, name)
	conv, err := conversation.Load(path)
	if err != nil {
		return err
	}
	s.conv = conv
	s.loadedFile = path
	s.info("Loaded " + name + ".")
	return s.PrintHistory(ctx)
}

func (s *Session) copyLast() error {
	text, ok := s.conv.LastAssistant()
	if !ok {
		s.info("Nothing to copy yet.")
		return nil
	}
	if err := s.copy(text); err != nil {
		return fmt.Errorf("copy to clipboard: %w", err)
	}
	s.info("Copied the last response to the clipboard.")
	return nil
}

func (s *Session) edit(ctx context.Context, initial string) error {
	text, err := s.compose(initial)
	if err != nil {
		return err
	}
	if text == "" {
		s.info("Empty message, nothing sent.")
		return nil
	}
	fmt.Fprintf(s.out, "%s %s\n", s.styles.userPrompt.Render(">"), s.styles.userText.Render(text)) //nolint:errcheck

	err = s.Ask(ctx, text)
	var se *flow.StreamError
	if errors.As(err, &se) {
		// already reported
		return nil
	}
	return err
}
