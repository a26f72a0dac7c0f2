package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// plainPrompter reads lines without any editing, for terminals the line
// editor can't drive.
type plainPrompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPlainPrompter(in io.Reader, out io.Writer) *plainPrompter {
	return &plainPrompter{in: bufio.NewReader(in), out: out}
}

func (p *plainPrompter) Prompt(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt) //nolint:errcheck
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// PromptWithSuggestion shows the suggestion and keeps it when the user just
// presses enter.
func (p *plainPrompter) PromptWithSuggestion(prompt, text string, _ int) (string, error) {
	line, err := p.Prompt(fmt.Sprintf("%s[%s] ", prompt, text))
	if err != nil {
		return "", err
	}
	if line == "" {
		return text, nil
	}
	return line, nil
}
