package main

import (
	"fmt"

	mcobra "github.com/muesli/mango-cobra"
	"github.com/muesli/roff"
	"github.com/spf13/cobra"
)

var manCmd = &cobra.Command{
	Use:                   "man",
	Short:                 "Print the hey man page",
	Example:               paragraph("hey man > hey.1"),
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Hidden:                true,
	Args:                  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		page, err := mcobra.NewManPage(1, rootCmd)
		if err != nil {
			return fmt.Errorf("unable to instantiate man page: %w", err)
		}
		page = page.WithSection("Configuration", "hey reads hey.toml from $HEY_CONFIG_HOME, "+
			"$XDG_CONFIG_HOME/hey or the user config directory. Run 'hey config' to edit it.")
		page = page.WithSection("Environment", "OPENAI_API_KEY is required. OPENAI_BASE_URL points hey at "+
			"another OpenAI-compatible server.")
		if _, err := fmt.Fprint(cmd.OutOrStdout(), page.Build(roff.NewDocument())); err != nil {
			return fmt.Errorf("unable to build man page: %w", err)
		}
		return nil
	},
}
