// Package editor lets the user write a message in their own editor.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/charmbracelet/x/editor"
)

// Cmd returns a *exec.Cmd editing the given path with $EDITOR, wired to the
// process's terminal.
func Cmd(path string) (*exec.Cmd, error) {
	c, err := editor.Cmd("hey", path)
	if err != nil {
		return nil, err
	}
	c.Stdin = os.Stdin
	c.Stdout = os.Stdout
	c.Stderr = os.Stderr
	return c, nil
}

// Compose opens the editor on a scratch file holding initial and returns
// what the user saved, with surrounding whitespace trimmed.
func Compose(initial string) (string, error) {
	f, err := os.CreateTemp("", "hey-*.md")
	if err != nil {
		return "", fmt.Errorf("create scratch file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path) //nolint:errcheck

	if _, err := f.WriteString(initial); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("write scratch file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	c, err := Cmd(path)
	if err != nil {
		return "", err
	}
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("run editor: %w", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read scratch file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}
