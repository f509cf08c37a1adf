// internal/shell/shell.go
package shell

import (
	"fmt"
	"html/template"
	"io"
	"nikoblog/internal/config"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Options controls a shell build.
type Options struct {
	CleanDestination bool
	// Unsafe skips sanitizing the HTML allowed in the tagline and copyright.
	Unsafe bool
	Logger zerolog.Logger
}

// PageData is the value passed to the shell templates.
type PageData struct {
	Site    config.SiteConfig
	Tagline template.HTML
	// Description is the tagline with all markup removed.
	Description string
	Copyright   template.HTML
	NavLeft     []config.LinkItem
	NavRight    []config.LinkItem
	Feeds       []Feed
}

// Feed is a <link rel="alternate"> entry for one of the blog's feeds.
type Feed struct {
	Label     string
	MediaType string
	Href      string
}

// CanonicalURL is the public root of the site.
func (p PageData) CanonicalURL() string {
	return strings.TrimSuffix(p.Site.URL, "/") + p.Site.BaseURL
}

// AssetURL resolves a site-relative asset path against the preview root,
// where the copied static directory lives.
func (p PageData) AssetURL(asset string) string {
	return strings.TrimPrefix(strings.TrimPrefix(asset, "./"), "/")
}

// LinkURL returns the href a navbar or footer item renders to once the site
// is deployed under its base URL.
func (p PageData) LinkURL(item config.LinkItem) string {
	if item.External() {
		return item.Href
	}
	return joinPath(p.Site.BaseURL, item.To)
}

// FooterStyle defaults to dark, matching the engine.
func (p PageData) FooterStyle() string {
	if p.Site.Theme.Footer.Style == "" {
		return "dark"
	}
	return p.Site.Theme.Footer.Style
}

// NewPageData prepares the template data for site.
func NewPageData(site config.SiteConfig, opts Options) PageData {
	data := PageData{
		Site:      site,
		Tagline:     renderFragment(site.Tagline, opts.Unsafe),
		Description: plainText(site.Tagline),
		Copyright:   renderFragment(site.Theme.Footer.Copyright, opts.Unsafe),
	}
	for _, item := range site.Theme.Navbar.Items {
		if item.Position == "right" {
			data.NavRight = append(data.NavRight, item)
		} else {
			data.NavLeft = append(data.NavLeft, item)
		}
	}
	for _, ft := range site.Blog.FeedTypes {
		feed := Feed{Href: joinPath(site.BaseURL, site.Blog.RouteBasePath, string(ft)+".xml")}
		switch ft {
		case config.FeedRSS:
			feed.Label, feed.MediaType = "RSS", "application/rss+xml"
		case config.FeedAtom:
			feed.Label, feed.MediaType = "Atom", "application/atom+xml"
		}
		data.Feeds = append(data.Feeds, feed)
	}
	return data
}

// Build renders the site shell into outputDir/index.html and copies static
// assets from staticDir. A missing staticDir is not an error.
func Build(outputDir, staticDir string, site config.SiteConfig, tmpl *template.Template, opts Options) error {
	log := opts.Logger
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	if opts.CleanDestination {
		log.Debug().Str("dir", outputDir).Msg("cleaning destination directory")
		entries, err := os.ReadDir(outputDir)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := os.RemoveAll(filepath.Join(outputDir, entry.Name())); err != nil {
				return err
			}
		}
	}

	outPath := filepath.Join(outputDir, "index.html")
	if err := renderPage(tmpl, outPath, NewPageData(site, opts)); err != nil {
		return fmt.Errorf("failed to render %s: %w", outPath, err)
	}
	log.Debug().Str("file", outPath).Msg("rendered shell")

	copied, err := copyStaticAssets(staticDir, outputDir)
	if err != nil {
		return fmt.Errorf("failed to copy static assets: %w", err)
	}
	log.Debug().Int("files", copied).Str("from", staticDir).Msg("copied static assets")
	return nil
}

// staticExts lists the file extensions copied from the static directory.
var staticExts = map[string]bool{
	".css": true, ".js": true, ".txt": true, ".svg": true, ".ico": true,
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
	".woff": true, ".woff2": true,
}

func copyStaticAssets(staticDir, outputDir string) (int, error) {
	if _, err := os.Stat(staticDir); os.IsNotExist(err) {
		return 0, nil
	}
	copied := 0
	err := filepath.Walk(staticDir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !staticExts[strings.ToLower(filepath.Ext(info.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(staticDir, p)
		if err != nil {
			return err
		}
		dest := filepath.Join(outputDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := copyFile(p, dest); err != nil {
			return err
		}
		copied++
		return nil
	})
	return copied, err
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func renderPage(tmpl *template.Template, outPath string, data PageData) error {
	outFile, err := os.Create(outPath)
	if err != nil {
		return err
	}
	if err := tmpl.ExecuteTemplate(outFile, "main", data); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

// joinPath joins URL path segments, keeping the leading slash of base.
func joinPath(base string, elems ...string) string {
	return path.Join(append([]string{"/", base}, elems...)...)
}
