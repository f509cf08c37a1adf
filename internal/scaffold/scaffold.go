// internal/scaffold/scaffold.go
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"nikoblog/internal/config"
	"nikoblog/internal/shell"
	"nikoblog/internal/util"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"gopkg.in/yaml.v3"
)

// Layout of a scaffolded site, relative to its root.
const (
	ConfigFile    = "site.yaml"
	BlogDir       = "blog"
	StaticDir     = "static"
	TemplatesDir  = "templates/shell"
	ArchetypeDir  = "archetypes"
	PostArchetype = "archetypes/post.md"
)

// CreateNewSite lays out a new site under root: site.yaml holding the
// built-in configuration, the shell templates, a stylesheet and the blog
// directory. It refuses to overwrite an existing site.yaml.
func CreateNewSite(root string) error {
	cfgPath := filepath.Join(root, ConfigFile)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists", cfgPath)
	}

	for _, dir := range []string{BlogDir, ArchetypeDir, filepath.Join(StaticDir, "css"), filepath.Join(StaticDir, "img")} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	siteYAML, err := renderSiteYAML()
	if err != nil {
		return err
	}
	stylesheet := filepath.Join(StaticDir, "css", "style.css")
	files := map[string][]byte{
		ConfigFile:    siteYAML,
		PostArchetype: []byte(postArchetypeContent),
		stylesheet:    []byte(styleCSSContent),
	}
	for path, content := range files {
		if err := os.WriteFile(filepath.Join(root, path), content, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
	}

	if err := shell.WriteBuiltinTemplates(filepath.Join(root, TemplatesDir)); err != nil {
		return fmt.Errorf("failed to write shell templates: %w", err)
	}
	return nil
}

func renderSiteYAML() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("# Site configuration. " + config.YearPlaceholder + " in the copyright is replaced with the build year.\n")
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(config.Template()); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", ConfigFile, err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Post describes a new blog post stub.
type Post struct {
	Title  string
	Author string
	Date   time.Time
}

// CreateNewPost renders the post archetype into blogDir as
// <yyyy-mm-dd>-<slug>.md and returns the path written. archetypePath may
// point at a missing file, in which case the built-in archetype is used.
// An existing post is never overwritten.
func CreateNewPost(blogDir, archetypePath string, post Post) (string, error) {
	slug := util.Slugify(post.Title)
	if slug == "" {
		return "", fmt.Errorf("title %q has no characters usable in a file name", post.Title)
	}

	archetype := postArchetypeContent
	if archetypePath != "" {
		data, err := os.ReadFile(archetypePath)
		switch {
		case err == nil:
			archetype = string(data)
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("could not read archetype file %s: %w", archetypePath, err)
		}
	}

	tmpl, err := template.New("archetype").Funcs(archetypeFuncs).Parse(archetype)
	if err != nil {
		return "", fmt.Errorf("failed to parse archetype %s: %w", archetypePath, err)
	}

	data := struct {
		Post
		Slug string
	}{Post: post, Slug: slug}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, data); err != nil {
		return "", fmt.Errorf("failed to execute archetype template: %w", err)
	}

	if err := os.MkdirAll(blogDir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(blogDir, post.Date.Format("2006-01-02")+"-"+slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("post %s already exists", path)
		}
		return "", err
	}
	if _, err := f.Write(output.Bytes()); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

var archetypeFuncs = template.FuncMap{"yamlQuote": yamlQuote}

// yamlQuote renders s as a double-quoted YAML scalar, escaping quotes and
// backslashes.
func yamlQuote(s string) (string, error) {
	out, err := yaml.Marshal(&yaml.Node{
		Kind:  yaml.ScalarNode,
		Tag:   "!!str",
		Style: yaml.DoubleQuotedStyle,
		Value: s,
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

const postArchetypeContent = `---
title: {{ yamlQuote .Title }}
slug: {{ .Slug }}
authors: [{{ yamlQuote .Author }}]
date: {{ .Date.Format "2006-01-02" }}
tags: []
---

A one-paragraph summary shown on the blog index.

<!-- truncate -->

Write the rest of the post here.
`

const styleCSSContent = `body {
  font-family: system-ui, sans-serif;
  margin: 0;
  color: #1c1e21;
  background: #fff;
}
.navbar {
  display: flex;
  align-items: center;
  gap: 1.5em;
  padding: 0.5em 1em;
  box-shadow: 0 1px 2px rgba(0, 0, 0, 0.1);
}
.navbar a { color: inherit; text-decoration: none; }
.navbar-brand { display: flex; align-items: center; gap: 0.5em; font-weight: 700; }
.navbar ul { display: flex; gap: 1em; list-style: none; margin: 0; padding: 0; }
.navbar-right { margin-left: auto; }
main { max-width: 700px; margin: 4em auto; padding: 0 1em; text-align: center; }
.tagline { color: #606770; font-size: 1.2em; }
footer { padding: 2em 1em; }
.footer-dark footer { background: #303846; color: #ebedf0; }
.footer-dark footer a { color: #ebedf0; }
.footer-links { display: flex; justify-content: space-around; flex-wrap: wrap; }
.footer-col ul { list-style: none; padding: 0; }
.copyright { text-align: center; margin-top: 1em; font-size: 0.9em; }
`
