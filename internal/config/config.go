// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Policy is a build-time strictness level the engine applies to a class of
// problems (broken links, inline tags, untruncated posts).
type Policy string

const (
	PolicyIgnore Policy = "ignore"
	PolicyWarn   Policy = "warn"
	PolicyThrow  Policy = "throw"
)

// Valid reports whether p is one of the known policies.
func (p Policy) Valid() bool {
	switch p {
	case PolicyIgnore, PolicyWarn, PolicyThrow:
		return true
	}
	return false
}

// FeedType names a syndication format the engine can emit.
type FeedType string

const (
	FeedRSS  FeedType = "rss"
	FeedAtom FeedType = "atom"
)

// SiteConfig is the complete configuration record handed to the site engine.
// It is built once per build/serve run and must be treated as read-only.
type SiteConfig struct {
	Title            string `yaml:"title"`
	Tagline          string `yaml:"tagline"`
	Favicon          string `yaml:"favicon"`
	URL              string `yaml:"url"`
	BaseURL          string `yaml:"base_url"`
	OrganizationName string `yaml:"organization_name"`
	ProjectName      string `yaml:"project_name"`

	OnBrokenLinks         Policy `yaml:"on_broken_links"`
	OnBrokenMarkdownLinks Policy `yaml:"on_broken_markdown_links"`

	I18n      I18nConfig      `yaml:"i18n"`
	Docs      bool            `yaml:"docs"`
	Blog      BlogOptions     `yaml:"blog"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Theme     ThemeConfig     `yaml:"theme"`
	Markdown  MarkdownConfig  `yaml:"markdown"`

	Plugins []PluginRef `yaml:"plugins"`
	Themes  []string    `yaml:"themes"`
}

// I18nConfig lists the site locales. DefaultLocale must be one of Locales.
type I18nConfig struct {
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
}

// BlogOptions configures the blog plugin of the classic preset.
type BlogOptions struct {
	RouteBasePath   string     `yaml:"route_base_path"`
	SidebarTitle    string     `yaml:"sidebar_title"`
	SidebarCount    int        `yaml:"sidebar_count"`
	ShowReadingTime bool       `yaml:"show_reading_time"`
	FeedTypes       []FeedType `yaml:"feed_types"`
	// FeedTransform enables the XSLT stylesheet attached to generated feeds.
	FeedTransform bool `yaml:"feed_transform"`

	OnInlineTags           Policy `yaml:"on_inline_tags"`
	OnInlineAuthors        Policy `yaml:"on_inline_authors"`
	OnUntruncatedBlogPosts Policy `yaml:"on_untruncated_blog_posts"`
}

// AnalyticsConfig is passed through to the engine's gtag integration.
type AnalyticsConfig struct {
	TrackingID  string `yaml:"tracking_id"`
	AnonymizeIP bool   `yaml:"anonymize_ip"`
}

type ThemeConfig struct {
	SocialImage   string    `yaml:"social_image"`
	CustomCSS     string    `yaml:"custom_css"`
	Navbar        Navbar    `yaml:"navbar"`
	Footer        Footer    `yaml:"footer"`
	CodeThemes    ThemePair `yaml:"code_themes"`
	MermaidThemes ThemePair `yaml:"mermaid_themes"`
}

// ThemePair names one theme per color mode.
type ThemePair struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

type Navbar struct {
	Title string     `yaml:"title"`
	Logo  Logo       `yaml:"logo"`
	Items []LinkItem `yaml:"items"`
}

type Logo struct {
	Alt string `yaml:"alt"`
	Src string `yaml:"src"`
}

// LinkItem is a navbar or footer entry. Exactly one of To (a root-relative
// path inside the site) or Href (an absolute external URL) is set.
type LinkItem struct {
	Label    string `yaml:"label"`
	To       string `yaml:"to,omitempty"`
	Href     string `yaml:"href,omitempty"`
	Position string `yaml:"position,omitempty"`
}

// Target returns whichever of To or Href is set.
func (l LinkItem) Target() string {
	if l.To != "" {
		return l.To
	}
	return l.Href
}

// External reports whether the item points outside the site.
func (l LinkItem) External() bool {
	return l.Href != ""
}

type Footer struct {
	Style string      `yaml:"style"`
	Links []LinkGroup `yaml:"links"`
	// Copyright may contain the {year} placeholder before loading.
	Copyright string `yaml:"copyright"`
}

type LinkGroup struct {
	Title string     `yaml:"title"`
	Items []LinkItem `yaml:"items"`
}

type MarkdownConfig struct {
	Mermaid bool `yaml:"mermaid"`
}

// YearPlaceholder is replaced with the build year in the footer copyright.
const YearPlaceholder = "{year}"

// Load reads a site.yaml file on top of the built-in defaults, applies
// NIKOBLOG_* environment overrides, expands the copyright year and validates
// the result. Invariant violations are returned as *ValidationError.
func Load(path string, year int) (SiteConfig, error) {
	cfg := defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	// Sequences in the file replace the default sequences wholesale.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	applyEnvOverrides(&cfg)
	return finalize(cfg, year)
}

// Resolve loads the config at path. When path was not given explicitly and
// the default file does not exist, the built-in configuration is used.
// It reports whether a file was read.
func Resolve(path string, explicit bool, year int) (SiteConfig, bool, error) {
	cfg, err := Load(path, year)
	if err == nil {
		return cfg, true, nil
	}
	if !explicit && errors.Is(err, fs.ErrNotExist) {
		cfg, err := Default(year)
		return cfg, false, err
	}
	return SiteConfig{}, false, err
}

// finalize expands the copyright template and validates.
func finalize(cfg SiteConfig, year int) (SiteConfig, error) {
	cfg.Theme.Footer.Copyright = expandYear(cfg.Theme.Footer.Copyright, year)
	if err := cfg.Validate(year); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

func expandYear(s string, year int) string {
	return strings.ReplaceAll(s, YearPlaceholder, fmt.Sprintf("%04d", year))
}
