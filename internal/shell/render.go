// internal/shell/render.go
package shell

import (
	"embed"
	"fmt"
	"html"
	"html/template"
	"os"
	"path/filepath"

	"github.com/microcosm-cc/bluemonday"
)

//go:embed templates/*.html
var builtinTemplates embed.FS

// templateFiles are the partials every shell theme provides. "main" is
// defined in layout.html and pulls in "header" and "footer".
var templateFiles = []string{"layout.html", "header.html", "footer.html"}

// fragmentPolicy allows the inline markup a copyright or tagline needs
// (links, emphasis, line breaks) and nothing else.
var fragmentPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	p.RequireNoFollowOnLinks(true)
	p.AllowElements("b", "strong", "i", "em", "small", "span", "br", "code")
	return p
}()

var textPolicy = bluemonday.StrictPolicy()

// plainText strips all markup from s, for attribute values such as the
// meta description.
func plainText(s string) string {
	return html.UnescapeString(textPolicy.Sanitize(s))
}

// renderFragment turns a config string that may hold inline HTML into a
// value html/template will not escape again.
func renderFragment(s string, unsafe bool) template.HTML {
	if unsafe {
		return template.HTML(s)
	}
	return template.HTML(fragmentPolicy.Sanitize(s))
}

// LoadTemplates parses the shell templates from dir. When dir is empty or
// does not exist the templates compiled into the binary are used.
func LoadTemplates(dir string) (*template.Template, error) {
	if dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			paths := make([]string, 0, len(templateFiles))
			for _, name := range templateFiles {
				paths = append(paths, filepath.Join(dir, name))
			}
			return template.ParseFiles(paths...)
		}
	}
	return template.ParseFS(builtinTemplates, "templates/*.html")
}

// WriteBuiltinTemplates copies the templates compiled into the binary to dir
// so a site can customize them.
func WriteBuiltinTemplates(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, name := range templateFiles {
		data, err := builtinTemplates.ReadFile("templates/" + name)
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
			return fmt.Errorf("failed to write template %s: %w", name, err)
		}
	}
	return nil
}
