// cmd/nikoblog/root.go
package main

import (
	"fmt"
	"nikoblog/internal/config"
	"nikoblog/internal/logging"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// skipConfig marks commands that run before a site exists.
const skipConfig = "skip-config"

// app holds the state shared by every command.
type app struct {
	configPath string
	debug      bool
	logFormat  string

	now      func() time.Time
	log      zerolog.Logger
	site     config.SiteConfig
	fromFile bool
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "nikoblog",
		Short: "Site configuration tool for Niko Blog",
		Long: `nikoblog validates the Niko Blog site configuration, exports it in the
site engine's config schema, renders a preview of the site shell and
scaffolds new sites and posts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.log = logging.New(cmd.ErrOrStderr(), a.debug, a.logFormat)
			if cmd.Annotations[skipConfig] == "true" {
				return nil
			}
			return a.loadConfig(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", configFile, "site configuration file")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "console", "log output format: console or json")

	root.AddCommand(
		newCheckCmd(a),
		newExportCmd(a),
		newGenCmd(a),
		newServeCmd(a),
		newNewCmd(a),
	)
	return root
}

// loadConfig resolves the site configuration for the current year. A
// missing site.yaml falls back to the built-in configuration unless --config
// named it.
func (a *app) loadConfig(cmd *cobra.Command) error {
	explicit := cmd.Flags().Changed("config")
	site, fromFile, err := config.Resolve(a.configPath, explicit, a.now().Year())
	if err != nil {
		return err
	}
	a.site, a.fromFile = site, fromFile

	if fromFile {
		a.log.Debug().Str("path", a.configPath).Msg("loaded site configuration")
	} else {
		a.log.Debug().Msg("no site configuration file, using built-in configuration")
	}
	return nil
}

func (a *app) source() string {
	if a.fromFile {
		return a.configPath
	}
	return "built-in configuration"
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the site configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "✅ %s is valid: %q at %s%s\n",
				a.source(), a.site.Title, a.site.URL, a.site.BaseURL)
			return nil
		},
	}
}
