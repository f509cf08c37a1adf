// internal/manifest/manifest.go
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"nikoblog/internal/config"
	"strings"

	"gopkg.in/yaml.v3"
)

// PresetName is the engine preset the blog and theme options are attached to.
const PresetName = "@docusaurus/preset-classic"

// Manifest mirrors the field names and shapes the site engine expects in
// its config file. Field order follows the engine's documentation.
type Manifest struct {
	Title                 string      `json:"title" yaml:"title"`
	Tagline               string      `json:"tagline" yaml:"tagline"`
	Favicon               string      `json:"favicon,omitempty" yaml:"favicon,omitempty"`
	URL                   string      `json:"url" yaml:"url"`
	BaseURL               string      `json:"baseUrl" yaml:"baseUrl"`
	OrganizationName      string      `json:"organizationName,omitempty" yaml:"organizationName,omitempty"`
	ProjectName           string      `json:"projectName,omitempty" yaml:"projectName,omitempty"`
	OnBrokenLinks         string      `json:"onBrokenLinks" yaml:"onBrokenLinks"`
	OnBrokenMarkdownLinks string      `json:"onBrokenMarkdownLinks" yaml:"onBrokenMarkdownLinks"`
	I18n                  I18n        `json:"i18n" yaml:"i18n"`
	Presets               []any       `json:"presets" yaml:"presets"`
	ThemeConfig           ThemeConfig `json:"themeConfig" yaml:"themeConfig"`
	Plugins               []any       `json:"plugins" yaml:"plugins"`
	Markdown              Markdown    `json:"markdown" yaml:"markdown"`
	Themes                []string    `json:"themes" yaml:"themes"`
}

type I18n struct {
	DefaultLocale string   `json:"defaultLocale" yaml:"defaultLocale"`
	Locales       []string `json:"locales" yaml:"locales"`
}

// PresetOptions is the options object of the classic preset.
type PresetOptions struct {
	// Docs is false when the docs plugin is disabled, else an options object.
	Docs  any         `json:"docs" yaml:"docs"`
	Gtag  *Gtag       `json:"gtag,omitempty" yaml:"gtag,omitempty"`
	Blog  Blog        `json:"blog" yaml:"blog"`
	Theme PresetTheme `json:"theme" yaml:"theme"`
}

type Gtag struct {
	TrackingID  string `json:"trackingID" yaml:"trackingID"`
	AnonymizeIP bool   `json:"anonymizeIP" yaml:"anonymizeIP"`
}

type Blog struct {
	RouteBasePath          string      `json:"routeBasePath" yaml:"routeBasePath"`
	BlogSidebarTitle       string      `json:"blogSidebarTitle" yaml:"blogSidebarTitle"`
	BlogSidebarCount       int         `json:"blogSidebarCount" yaml:"blogSidebarCount"`
	ShowReadingTime        bool        `json:"showReadingTime" yaml:"showReadingTime"`
	FeedOptions            FeedOptions `json:"feedOptions" yaml:"feedOptions"`
	OnInlineTags           string      `json:"onInlineTags" yaml:"onInlineTags"`
	OnInlineAuthors        string      `json:"onInlineAuthors" yaml:"onInlineAuthors"`
	OnUntruncatedBlogPosts string      `json:"onUntruncatedBlogPosts" yaml:"onUntruncatedBlogPosts"`
}

type FeedOptions struct {
	Type []string `json:"type" yaml:"type"`
	XSLT bool     `json:"xslt" yaml:"xslt"`
}

type PresetTheme struct {
	CustomCSS string `json:"customCss,omitempty" yaml:"customCss,omitempty"`
}

type ThemeConfig struct {
	Image   string  `json:"image,omitempty" yaml:"image,omitempty"`
	Navbar  Navbar  `json:"navbar" yaml:"navbar"`
	Footer  Footer  `json:"footer" yaml:"footer"`
	Prism   Prism   `json:"prism" yaml:"prism"`
	Mermaid Mermaid `json:"mermaid" yaml:"mermaid"`
}

type Navbar struct {
	Title string `json:"title" yaml:"title"`
	Logo  *Logo  `json:"logo,omitempty" yaml:"logo,omitempty"`
	Items []Link `json:"items" yaml:"items"`
}

type Logo struct {
	Alt string `json:"alt" yaml:"alt"`
	Src string `json:"src" yaml:"src"`
}

// Link is a navbar or footer item; the engine tells internal from external
// links by which of To or Href is present.
type Link struct {
	Label    string `json:"label" yaml:"label"`
	To       string `json:"to,omitempty" yaml:"to,omitempty"`
	Href     string `json:"href,omitempty" yaml:"href,omitempty"`
	Position string `json:"position,omitempty" yaml:"position,omitempty"`
}

type Footer struct {
	Style     string      `json:"style,omitempty" yaml:"style,omitempty"`
	Links     []LinkGroup `json:"links" yaml:"links"`
	Copyright string      `json:"copyright" yaml:"copyright"`
}

type LinkGroup struct {
	Title string `json:"title" yaml:"title"`
	Items []Link `json:"items" yaml:"items"`
}

type Prism struct {
	Theme     string `json:"theme" yaml:"theme"`
	DarkTheme string `json:"darkTheme" yaml:"darkTheme"`
}

type Mermaid struct {
	Theme MermaidTheme `json:"theme" yaml:"theme"`
}

type MermaidTheme struct {
	Light string `json:"light" yaml:"light"`
	Dark  string `json:"dark" yaml:"dark"`
}

type Markdown struct {
	Mermaid bool `json:"mermaid" yaml:"mermaid"`
}

// Build maps a validated SiteConfig onto the engine's config schema.
func Build(cfg config.SiteConfig) Manifest {
	m := Manifest{
		Title:                 cfg.Title,
		Tagline:               cfg.Tagline,
		Favicon:               cfg.Favicon,
		URL:                   cfg.URL,
		BaseURL:               cfg.BaseURL,
		OrganizationName:      cfg.OrganizationName,
		ProjectName:           cfg.ProjectName,
		OnBrokenLinks:         string(cfg.OnBrokenLinks),
		OnBrokenMarkdownLinks: string(cfg.OnBrokenMarkdownLinks),
		I18n: I18n{
			DefaultLocale: cfg.I18n.DefaultLocale,
			Locales:       append([]string{}, cfg.I18n.Locales...),
		},
		Presets:     []any{[]any{PresetName, presetOptions(cfg)}},
		ThemeConfig: themeConfig(cfg.Theme),
		Plugins:     make([]any, 0, len(cfg.Plugins)),
		Markdown:    Markdown{Mermaid: cfg.Markdown.Mermaid},
		Themes:      append([]string{}, cfg.Themes...),
	}
	for _, p := range cfg.Plugins {
		if len(p.Options) == 0 {
			m.Plugins = append(m.Plugins, p.Name)
		} else {
			m.Plugins = append(m.Plugins, []any{p.Name, p.Options})
		}
	}
	return m
}

func presetOptions(cfg config.SiteConfig) PresetOptions {
	opts := PresetOptions{
		Docs: false,
		Blog: Blog{
			RouteBasePath:    cfg.Blog.RouteBasePath,
			BlogSidebarTitle: cfg.Blog.SidebarTitle,
			BlogSidebarCount: cfg.Blog.SidebarCount,
			ShowReadingTime:  cfg.Blog.ShowReadingTime,
			FeedOptions: FeedOptions{
				Type: make([]string, 0, len(cfg.Blog.FeedTypes)),
				XSLT: cfg.Blog.FeedTransform,
			},
			OnInlineTags:           string(cfg.Blog.OnInlineTags),
			OnInlineAuthors:        string(cfg.Blog.OnInlineAuthors),
			OnUntruncatedBlogPosts: string(cfg.Blog.OnUntruncatedBlogPosts),
		},
		Theme: PresetTheme{CustomCSS: cfg.Theme.CustomCSS},
	}
	if cfg.Docs {
		opts.Docs = map[string]any{}
	}
	for _, ft := range cfg.Blog.FeedTypes {
		opts.Blog.FeedOptions.Type = append(opts.Blog.FeedOptions.Type, string(ft))
	}
	if cfg.Analytics.TrackingID != "" {
		opts.Gtag = &Gtag{
			TrackingID:  cfg.Analytics.TrackingID,
			AnonymizeIP: cfg.Analytics.AnonymizeIP,
		}
	}
	return opts
}

func themeConfig(t config.ThemeConfig) ThemeConfig {
	tc := ThemeConfig{
		Image: t.SocialImage,
		Navbar: Navbar{
			Title: t.Navbar.Title,
			Items: links(t.Navbar.Items),
		},
		Footer: Footer{
			Style:     t.Footer.Style,
			Links:     make([]LinkGroup, 0, len(t.Footer.Links)),
			Copyright: t.Footer.Copyright,
		},
		Prism: Prism{Theme: t.CodeThemes.Light, DarkTheme: t.CodeThemes.Dark},
		Mermaid: Mermaid{Theme: MermaidTheme{
			Light: t.MermaidThemes.Light,
			Dark:  t.MermaidThemes.Dark,
		}},
	}
	if t.Navbar.Logo.Src != "" {
		tc.Navbar.Logo = &Logo{Alt: t.Navbar.Logo.Alt, Src: t.Navbar.Logo.Src}
	}
	for _, g := range t.Footer.Links {
		tc.Footer.Links = append(tc.Footer.Links, LinkGroup{Title: g.Title, Items: links(g.Items)})
	}
	return tc
}

func links(items []config.LinkItem) []Link {
	out := make([]Link, 0, len(items))
	for _, it := range items {
		out = append(out, Link{Label: it.Label, To: it.To, Href: it.Href, Position: it.Position})
	}
	return out
}

// Format selects the serialization Write produces.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown manifest format %q (want json or yaml)", s)
}

// Write serializes the manifest for cfg to w.
func Write(w io.Writer, cfg config.SiteConfig, format Format) error {
	m := Build(cfg)
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encoding manifest as json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return fmt.Errorf("encoding manifest as yaml: %w", err)
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown manifest format %q", format)
}
