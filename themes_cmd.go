package main

import (
	"fmt"

	"github.com/heycli/hey/flow"
	"github.com/heycli/hey/highlight"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var (
	showSample bool

	themesCmd = &cobra.Command{
		Use:     "themes",
		Short:   "List the highlighting themes",
		Long:    paragraph(fmt.Sprintf("\nList the built-in highlighting themes, the ones found in %s and every chroma style.", keyword("themes_dir"))),
		Example: paragraph("hey themes\nhey themes --sample"),
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			profile := termenv.NewOutput(out).EnvColorProfile()
			if noColor {
				profile = termenv.Ascii
			}

			for _, name := range themes.Names() {
				label := name
				if name == theme {
					label += " " + keyword("(current)")
				}
				if _, err := fmt.Fprintln(out, label); err != nil {
					return err
				}
				if !showSample {
					continue
				}

				t, err := themes.Get(name)
				if err != nil {
					return err
				}
				cfg := flow.Config{Highlighter: highlight.New(t, highlight.WithProfile(profile))}
				if err := flow.RenderString(cmd.Context(), highlight.Sample, out, cfg); err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out); err != nil {
					return err
				}
			}
			return nil
		},
	}
)

func init() {
	themesCmd.Flags().BoolVarP(&showSample, "sample", "s", false, "render a sample with each theme")
}
