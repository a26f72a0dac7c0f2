package main

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/heycli/hey/editor"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
)

const defaultConfig = `# system prompt sent at the start of every conversation
system_prompt = "You are a helpful assistant."
# model to talk to
model = "gpt-4o"
# upper bound on the length of a reply
max_tokens = 2048
# keep chatting after answering a message given on the command line
enter_repl = false
# print replies character by character
animations = false
# colors and highlighting
ansi_colors = true
syntax_highlighting = true
theme = "ansi"
# word-wrap at width, 0 to disable
wrap_width = 100
# say hey and bye
greetings = true
# where /save and /load look for conversations
conversations_folder = "~/.local/share/hey/conversations"
`

func defaultConfigFile() string {
	scope := gap.NewScope(gap.User, "hey")
	path, _ := scope.ConfigPath("hey.toml")
	return path
}

var configCmd = &cobra.Command{
	Use:     "config",
	Hidden:  false,
	Short:   "Edit the hey config file",
	Long:    paragraph(fmt.Sprintf("\n%s the hey config file. We’ll use EDITOR to determine which editor to use. If the config file doesn't exist, it will be created.", keyword("Edit"))),
	Example: paragraph("hey config\nhey config --config path/to/config.toml"),
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := ensureConfigFile(); err != nil {
			return err
		}

		c, err := editor.Cmd(configFile)
		if err != nil {
			return err
		}
		if err := c.Run(); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Wrote config file to:", configFile) //nolint:errcheck
		return nil
	},
}

func ensureConfigFile() error {
	if configFile == "" {
		configFile = defaultConfigFile()
		if err := os.MkdirAll(filepath.Dir(configFile), 0o755); err != nil {
			return fmt.Errorf("Could not write config file: %w", err)
		}
	}

	if ext := path.Ext(configFile); ext != ".toml" {
		return fmt.Errorf("'%s' is not a supported config type: use '%s'", ext, ".toml")
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		// File doesn't exist yet, create all necessary directories and
		// write the default config file
		if err := os.MkdirAll(filepath.Dir(configFile), 0o700); err != nil {
			return err
		}

		f, err := os.Create(configFile)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()

		if _, err := f.WriteString(defaultConfig); err != nil {
			return err
		}
	} else if err != nil {
		return err
	}
	return nil
}
