// cmd/nikoblog/gen.go
package main

import (
	"fmt"
	"nikoblog/internal/config"
	"nikoblog/internal/shell"

	"github.com/spf13/cobra"
)

func newGenCmd(a *app) *cobra.Command {
	var unsafe bool
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Render the site shell preview into public/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "--- Generating site shell ---")
			if err := a.buildShell(a.site, true, unsafe); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Success! Site shell written to %s/.\n", outputDir)
			return nil
		},
	}
	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "do not sanitize HTML in the tagline and copyright")
	return cmd
}

func (a *app) buildShell(site config.SiteConfig, clean, unsafe bool) error {
	tmpl, err := shell.LoadTemplates(templatesDir)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	opts := shell.Options{
		CleanDestination: clean,
		Unsafe:           unsafe,
		Logger:           a.log,
	}
	if err := shell.Build(outputDir, staticDir, site, tmpl, opts); err != nil {
		return fmt.Errorf("site generation failed: %w", err)
	}
	return nil
}
