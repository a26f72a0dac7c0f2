package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Command is a REPL slash-command.
type Command int

const (
	CmdInvalid Command = iota
	CmdExit
	CmdClear
	CmdReset
	CmdModel
	CmdTheme
	CmdSave
	CmdLoad
	CmdHistory
	CmdCopy
	CmdEdit
	CmdHelp
)

type commandInfo struct {
	cmd   Command
	names []string
	args  string
	help  string
}

var commands = []commandInfo{
	{CmdExit, []string{"exit", "quit", "q", "x"}, "", "Exit hey"},
	{CmdClear, []string{"clear", "c"}, "", "Clear the screen"},
	{CmdReset, []string{"reset", "r"}, "", "Start over, keeping the system prompt"},
	{CmdModel, []string{"model", "m"}, "[name]", "Pick the model to talk to"},
	{CmdTheme, []string{"theme", "t"}, "[name]", "Pick a highlighting theme"},
	{CmdSave, []string{"save", "s"}, "", "Save the conversation"},
	{CmdLoad, []string{"load", "l"}, "", "Load a saved conversation"},
	{CmdHistory, []string{"history", "hist"}, "", "Show the conversation so far"},
	{CmdCopy, []string{"copy", "y"}, "", "Copy the last response to the clipboard"},
	{CmdEdit, []string{"edit", "e"}, "[text]", "Write the next message in $EDITOR"},
	{CmdHelp, []string{"help", "h"}, "", "Show this help"},
}

// ParseCommand parses a line starting with "/" into a command and the rest
// of the line. A bare "/" asks for help.
func ParseCommand(input string) (Command, string) {
	input = strings.TrimSpace(strings.TrimPrefix(input, "/"))
	if input == "" {
		return CmdHelp, ""
	}

	name, arg, _ := strings.Cut(input, " ")
	name = strings.ToLower(name)
	for _, c := range commands {
		for _, n := range c.names {
			if n == name {
				return c.cmd, strings.TrimSpace(arg)
			}
		}
	}
	return CmdInvalid, ""
}

// writeHelp prints the command table.
func writeHelp(w io.Writer, st styles) error {
	usages := make([]string, len(commands))
	width := 0
	for i, c := range commands {
		u := "/" + strings.Join(c.names, ", /")
		if c.args != "" {
			u += " " + c.args
		}
		usages[i] = u
		width = max(width, runewidth.StringWidth(u))
	}

	var b strings.Builder
	b.WriteString("Commands:\n")
	for i, c := range commands {
		fmt.Fprintf(&b, "  %s  %s\n",
			st.keyword.Render(runewidth.FillRight(usages[i], width)),
			st.subtle.Render(c.help))
	}
	b.WriteString("\nAnything else is sent to the model.\n")
	_, err := io.WriteString(w, b.String())
	return err
}
