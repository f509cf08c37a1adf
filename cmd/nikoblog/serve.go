// cmd/nikoblog/serve.go
package main

import (
	"nikoblog/internal/server"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		port   int
		unsafe bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the site shell with live reload",
		Long: `serve renders the site shell, serves it locally and rebuilds whenever the
configuration, templates or static files change. Open pages reload
themselves after each successful rebuild.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			build := func(clean bool) error {
				// The first build uses the config already resolved for this run.
				if !clean {
					if err := a.loadConfig(cmd); err != nil {
						return err
					}
				}
				return a.buildShell(a.site, clean, unsafe)
			}

			opts := server.Options{
				Addr:       ":" + strconv.Itoa(port),
				OutputDir:  outputDir,
				WatchPaths: []string{a.configPath, templatesDir, staticDir},
				Logger:     a.log,
			}
			return server.Run(ctx, opts, build)
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 3000, "port for the preview server")
	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "do not sanitize HTML in the tagline and copyright")
	return cmd
}
