package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestDefault(t *testing.T) {
	cfg, err := Default(2025)
	require.NoError(t, err)

	assert.Equal(t, "Niko Blog", cfg.Title)
	assert.Equal(t, "https://blog.0xniko.dev", cfg.URL)
	assert.Contains(t, cfg.I18n.Locales, cfg.I18n.DefaultLocale)
	assert.True(t, strings.HasPrefix(cfg.BaseURL, "/"))
	assert.True(t, strings.HasSuffix(cfg.BaseURL, "/"))
	assert.GreaterOrEqual(t, cfg.Blog.SidebarCount, 0)
	assert.Equal(t, "Copyright © 2025 Niko Blog.", cfg.Theme.Footer.Copyright)
	assert.Equal(t, []FeedType{FeedRSS, FeedAtom}, cfg.Blog.FeedTypes)
	require.Len(t, cfg.Plugins, 1)
	assert.Equal(t, "./plugins/tailwind-config.cjs", cfg.Plugins[0].Name)
}

func TestDefault_CopyrightCarriesYear(t *testing.T) {
	for _, year := range []int{1999, 2024, 2031, 9999} {
		cfg, err := Default(year)
		require.NoError(t, err)
		assert.Contains(t, cfg.Theme.Footer.Copyright, strconv.Itoa(year))
	}
}

func TestDefault_RejectsBadYear(t *testing.T) {
	_, err := Default(99)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "4-digit year")
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a, err := Default(2025)
	require.NoError(t, err)
	a.I18n.Locales[0] = "de"
	a.Theme.Navbar.Items[0].Label = "changed"

	b, err := Default(2025)
	require.NoError(t, err)
	assert.Equal(t, "en", b.I18n.Locales[0])
	assert.Equal(t, "About me", b.Theme.Navbar.Items[0].Label)
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
title: Test Blog
url: https://example.com
base_url: /blog/
i18n:
  default_locale: fr
  locales: [en, fr]
blog:
  sidebar_count: 0
  feed_types: [atom]
theme:
  footer:
    copyright: "(c) {year} Test"
`)
	cfg, err := Load(path, 2026)
	require.NoError(t, err)

	assert.Equal(t, "Test Blog", cfg.Title)
	assert.Equal(t, "/blog/", cfg.BaseURL)
	assert.Equal(t, []string{"en", "fr"}, cfg.I18n.Locales)
	assert.Equal(t, "fr", cfg.I18n.DefaultLocale)
	assert.Equal(t, 0, cfg.Blog.SidebarCount)
	assert.Equal(t, []FeedType{FeedAtom}, cfg.Blog.FeedTypes)
	assert.Equal(t, "(c) 2026 Test", cfg.Theme.Footer.Copyright)

	// Untouched keys keep their built-in values.
	assert.Equal(t, "Niko typing...", cfg.Tagline)
	assert.Equal(t, "Recent posts", cfg.Blog.SidebarTitle)
	assert.Len(t, cfg.Theme.Footer.Links, 3)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), 2025)
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid: [yaml: content")
	_, err := Load(path, 2025)
	require.Error(t, err)

	var verr *ValidationError
	assert.False(t, errors.As(err, &verr), "parse errors are not validation errors")
}

func TestLoad_ValidationFailure(t *testing.T) {
	path := writeConfig(t, `
url: not-a-url
base_url: blog
blog:
  sidebar_count: -1
`)
	_, err := Load(path, 2025)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
	assert.Contains(t, err.Error(), `url "not-a-url"`)
	assert.Contains(t, err.Error(), "base_url")
	assert.Contains(t, err.Error(), "sidebar_count")
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
title: From File
url: https://file.example.com
`)
	t.Setenv(EnvTitle, "From Env")
	t.Setenv(EnvURL, "https://env.example.com")
	t.Setenv(EnvBaseURL, "/preview/")
	t.Setenv(EnvTrackingID, "G-TEST")

	cfg, err := Load(path, 2025)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Title)
	assert.Equal(t, "https://env.example.com", cfg.URL)
	assert.Equal(t, "/preview/", cfg.BaseURL)
	assert.Equal(t, "G-TEST", cfg.Analytics.TrackingID)
}

func TestLoad_EnvOverrideIsValidated(t *testing.T) {
	path := writeConfig(t, "title: x\n")
	t.Setenv(EnvDefaultLocale, "fr")

	_, err := Load(path, 2025)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), `default_locale "fr"`)
}

func TestResolve(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "site.yaml")

	t.Run("implicit missing file falls back to built-in", func(t *testing.T) {
		cfg, fromFile, err := Resolve(missing, false, 2025)
		require.NoError(t, err)
		assert.False(t, fromFile)
		assert.Equal(t, "Niko Blog", cfg.Title)
	})

	t.Run("explicit missing file is an error", func(t *testing.T) {
		_, _, err := Resolve(missing, true, 2025)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("existing file is read", func(t *testing.T) {
		path := writeConfig(t, "title: Mine\n")
		cfg, fromFile, err := Resolve(path, false, 2025)
		require.NoError(t, err)
		assert.True(t, fromFile)
		assert.Equal(t, "Mine", cfg.Title)
	})

	t.Run("invalid file does not fall back", func(t *testing.T) {
		path := writeConfig(t, "url: nope\n")
		_, _, err := Resolve(path, false, 2025)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}

func TestLinkItem(t *testing.T) {
	internal := LinkItem{Label: "RSS", To: "/rss.xml"}
	external := LinkItem{Label: "GitHub", Href: "https://github.com"}

	assert.Equal(t, "/rss.xml", internal.Target())
	assert.False(t, internal.External())
	assert.Equal(t, "https://github.com", external.Target())
	assert.True(t, external.External())
}
