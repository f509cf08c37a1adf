// internal/config/defaults.go
package config

// Default returns the built-in Niko Blog configuration with the footer
// copyright stamped for year. It reads no files, environment or clock.
func Default(year int) (SiteConfig, error) {
	return finalize(defaults(), year)
}

// Template returns the built-in configuration before the copyright year is
// expanded and before validation. Scaffolding writes it out as site.yaml.
func Template() SiteConfig {
	return defaults()
}

func defaults() SiteConfig {
	return SiteConfig{
		Title:            "Niko Blog",
		Tagline:          "Niko typing...",
		Favicon:          "img/logo.jpg",
		URL:              "https://blog.0xniko.dev",
		BaseURL:          "/",
		OrganizationName: "niko0xdev",
		ProjectName:      "0xblog",

		OnBrokenLinks:         PolicyIgnore,
		OnBrokenMarkdownLinks: PolicyWarn,

		I18n: I18nConfig{
			DefaultLocale: "en",
			Locales:       []string{"en"},
		},
		Docs: false,
		Blog: BlogOptions{
			RouteBasePath:          "/",
			SidebarTitle:           "Recent posts",
			SidebarCount:           3,
			ShowReadingTime:        true,
			FeedTypes:              []FeedType{FeedRSS, FeedAtom},
			FeedTransform:          true,
			OnInlineTags:           PolicyWarn,
			OnInlineAuthors:        PolicyWarn,
			OnUntruncatedBlogPosts: PolicyWarn,
		},
		Analytics: AnalyticsConfig{
			TrackingID:  "G-8J84G37YMT",
			AnonymizeIP: true,
		},
		Theme: ThemeConfig{
			SocialImage: "img/logo.jpg",
			CustomCSS:   "./src/css/custom.css",
			Navbar: Navbar{
				Title: "Niko Blog",
				Logo:  Logo{Alt: "Niko Blog Logo", Src: "img/logo.jpg"},
				Items: []LinkItem{
					{Label: "About me", Href: "https://0xniko.dev", Position: "left"},
					{Label: "GitHub", Href: "https://github.com/niko0xdev", Position: "right"},
				},
			},
			Footer: Footer{
				Style: "dark",
				Links: []LinkGroup{
					{
						Title: "Readee",
						Items: []LinkItem{
							{Label: "RSS", To: "/rss.xml"},
							{Label: "ATOM", To: "/atom.xml"},
						},
					},
					{
						Title: "Community",
						Items: []LinkItem{
							{Label: "LinkedIn", Href: "https://www.linkedin.com/in/duyluongphung/"},
							{Label: "Twitter", Href: "https://x.com/nikoderdev"},
						},
					},
					{
						Title: "More",
						Items: []LinkItem{
							{Label: "GitHub", Href: "https://github.com/niko0xdev/0xblog"},
						},
					},
				},
				Copyright: "Copyright © " + YearPlaceholder + " Niko Blog.",
			},
			CodeThemes:    ThemePair{Light: "github", Dark: "dracula"},
			MermaidThemes: ThemePair{Light: "neutral", Dark: "forest"},
		},
		Markdown: MarkdownConfig{Mermaid: true},
		Plugins: []PluginRef{
			{Name: "./plugins/tailwind-config.cjs"},
		},
		Themes: []string{"@docusaurus/theme-mermaid"},
	}
}
