// cmd/nikoblog/export.go
package main

import (
	"fmt"
	"nikoblog/internal/manifest"
	"os"

	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the configuration in the site engine's schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := manifest.ParseFormat(format)
			if err != nil {
				return err
			}

			if out == "" {
				return manifest.Write(cmd.OutOrStdout(), a.site, f)
			}
			if err := writeManifestFile(out, a, f); err != nil {
				return err
			}
			a.log.Info().Str("file", out).Str("format", string(f)).Msg("manifest written")
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func writeManifestFile(path string, a *app, f manifest.Format) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create %s: %w", path, err)
	}
	if err := manifest.Write(file, a.site, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}
	return nil
}
