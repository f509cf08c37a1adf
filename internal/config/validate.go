// internal/config/validate.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/language"
)

// ValidationError lists every invariant a SiteConfig violates. Configuration
// errors are fatal: the build must stop and the operator must fix the file.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid site configuration: " + strings.Join(e.Problems, "; ")
}

type problems []string

func (p *problems) addf(format string, args ...any) {
	*p = append(*p, fmt.Sprintf(format, args...))
}

// Validate checks cfg against its invariants for the given build year and
// returns a *ValidationError naming every problem found, or nil.
func (c SiteConfig) Validate(year int) error {
	var errs problems

	if c.Title == "" {
		errs.addf("title is required")
	}
	if err := checkSiteURL(c.URL); err != nil {
		errs.addf("url %q %v", c.URL, err)
	}
	if !strings.HasPrefix(c.BaseURL, "/") || !strings.HasSuffix(c.BaseURL, "/") {
		errs.addf("base_url %q must start and end with /", c.BaseURL)
	}
	checkPolicy(&errs, "on_broken_links", c.OnBrokenLinks)
	checkPolicy(&errs, "on_broken_markdown_links", c.OnBrokenMarkdownLinks)

	c.I18n.validate(&errs)
	c.Blog.validate(&errs)
	c.Theme.validate(&errs, year)

	for i, p := range c.Plugins {
		if strings.TrimSpace(p.Name) == "" {
			errs.addf("plugins[%d] has no name", i)
		}
	}
	for i, t := range c.Themes {
		if strings.TrimSpace(t) == "" {
			errs.addf("themes[%d] is empty", i)
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Problems: errs}
	}
	return nil
}

func (i I18nConfig) validate(errs *problems) {
	if len(i.Locales) == 0 {
		errs.addf("i18n.locales must not be empty")
	}
	// Keyed by canonical tag, so en-US and en-us are the same locale.
	seen := make(map[string]bool, len(i.Locales))
	for _, loc := range i.Locales {
		tag, err := language.Parse(loc)
		if err != nil {
			errs.addf("i18n.locales: %q is not a valid locale", loc)
			continue
		}
		if seen[tag.String()] {
			errs.addf("i18n.locales: %q is listed twice", loc)
		}
		seen[tag.String()] = true
	}
	if tag, err := language.Parse(i.DefaultLocale); err != nil || !seen[tag.String()] {
		errs.addf("i18n.default_locale %q is not one of i18n.locales", i.DefaultLocale)
	}
}

func (b BlogOptions) validate(errs *problems) {
	if !strings.HasPrefix(b.RouteBasePath, "/") {
		errs.addf("blog.route_base_path %q must start with /", b.RouteBasePath)
	}
	if b.SidebarCount < 0 {
		errs.addf("blog.sidebar_count must not be negative, got %d", b.SidebarCount)
	}
	seen := make(map[FeedType]bool, len(b.FeedTypes))
	for _, ft := range b.FeedTypes {
		if ft != FeedRSS && ft != FeedAtom {
			errs.addf("blog.feed_types: unknown feed type %q", ft)
		}
		if seen[ft] {
			errs.addf("blog.feed_types: %q is listed twice", ft)
		}
		seen[ft] = true
	}
	checkPolicy(errs, "blog.on_inline_tags", b.OnInlineTags)
	checkPolicy(errs, "blog.on_inline_authors", b.OnInlineAuthors)
	checkPolicy(errs, "blog.on_untruncated_blog_posts", b.OnUntruncatedBlogPosts)
}

func (t ThemeConfig) validate(errs *problems, year int) {
	for i, item := range t.Navbar.Items {
		field := fmt.Sprintf("theme.navbar.items[%d]", i)
		checkLink(errs, field, item)
		switch item.Position {
		case "", "left", "right":
		default:
			errs.addf("%s.position %q must be left or right", field, item.Position)
		}
	}

	switch t.Footer.Style {
	case "", "dark", "light":
	default:
		errs.addf("theme.footer.style %q must be dark or light", t.Footer.Style)
	}
	for g, group := range t.Footer.Links {
		for i, item := range group.Items {
			checkLink(errs, fmt.Sprintf("theme.footer.links[%d].items[%d]", g, i), item)
		}
	}

	if year < 1000 || year > 9999 {
		errs.addf("build year %d is not a 4-digit year", year)
	} else if !strings.Contains(t.Footer.Copyright, fmt.Sprintf("%04d", year)) {
		errs.addf("theme.footer.copyright must contain the year %d (use %s)", year, YearPlaceholder)
	}
}

func checkPolicy(errs *problems, field string, p Policy) {
	if !p.Valid() {
		errs.addf("%s %q must be one of ignore, warn, throw", field, p)
	}
}

func checkLink(errs *problems, field string, item LinkItem) {
	if strings.TrimSpace(item.Label) == "" {
		errs.addf("%s has no label", field)
	}
	switch {
	case item.To == "" && item.Href == "":
		errs.addf("%s needs one of to or href", field)
	case item.To != "" && item.Href != "":
		errs.addf("%s sets both to and href", field)
	case item.To != "":
		if !strings.HasPrefix(item.To, "/") {
			errs.addf("%s.to %q must be a path starting with /", field, item.To)
		}
	default:
		if err := checkAbsoluteURL(item.Href); err != nil {
			errs.addf("%s.href %q %v", field, item.Href, err)
		}
	}
}

func checkAbsoluteURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("is not a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must be an absolute http(s) URL")
	}
	if u.Host == "" {
		return errors.New("has no host")
	}
	return nil
}

// checkSiteURL accepts only a scheme and host. Sub-paths belong in base_url.
func checkSiteURL(raw string) error {
	if err := checkAbsoluteURL(raw); err != nil {
		return err
	}
	u, _ := url.Parse(raw)
	switch {
	case u.User != nil:
		return errors.New("must not contain user info")
	case u.Path != "" && u.Path != "/":
		return errors.New("must not contain a path (use base_url for sub-paths)")
	case u.RawQuery != "" || u.ForceQuery:
		return errors.New("must not contain a query")
	case u.Fragment != "":
		return errors.New("must not contain a fragment")
	}
	return nil
}
