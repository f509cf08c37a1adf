// cmd/nikoblog/main.go
package main

import (
	"errors"
	"fmt"
	"io"
	"nikoblog/internal/config"
	"nikoblog/internal/scaffold"
	"os"
	"time"
)

// Paths are relative to the site root, the working directory.
const (
	configFile   = scaffold.ConfigFile
	staticDir    = scaffold.StaticDir
	templatesDir = scaffold.TemplatesDir
	blogDir      = scaffold.BlogDir
	archetype    = scaffold.PostArchetype
	outputDir    = "public"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cmd := newRootCmd(&app{now: time.Now})
	cmd.SetArgs(args)
	return cmd.Execute()
}

func printError(w io.Writer, err error) {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(w, "❌ Invalid site configuration:")
		for _, p := range verr.Problems {
			fmt.Fprintf(w, "   - %s\n", p)
		}
		return
	}
	fmt.Fprintf(w, "❌ Operation failed: %v\n", err)
}
