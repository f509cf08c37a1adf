// cmd/nikoblog/new.go
package main

import (
	"fmt"
	"nikoblog/internal/scaffold"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newNewCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new site or blog post",
	}
	cmd.AddCommand(newSiteCmd(a), newPostCmd(a))
	return cmd
}

func newSiteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "site <dir>",
		Short:       "Scaffold a new site directory",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := scaffold.CreateNewSite(args[0]); err != nil {
				return err
			}
			a.log.Debug().Str("dir", args[0]).Msg("site scaffolded")
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Success! New site created in %s.\n", args[0])
			return nil
		},
	}
}

func newPostCmd(a *app) *cobra.Command {
	var (
		author string
		date   string
		dir    string
	)
	cmd := &cobra.Command{
		Use:   "post <title>",
		Short: "Create a blog post stub from the post archetype",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			post := scaffold.Post{
				Title:  strings.Join(args, " "),
				Author: author,
				Date:   a.now(),
			}
			if post.Author == "" {
				post.Author = a.site.OrganizationName
			}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", date)
				}
				post.Date = d
			}

			path, err := scaffold.CreateNewPost(dir, archetype, post)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Success! Created %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVar(&author, "author", "", "post author (default organization_name)")
	cmd.Flags().StringVar(&date, "date", "", "post date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&dir, "dir", blogDir, "directory the post is written to")
	return cmd
}
