package ui

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"os"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

//go:embed static
var embeddedStatic embed.FS

var errNoTemplates = errors.New("ui: no templates found")

// StaticFS returns the embedded css/js served under /assets/.
func StaticFS() (fs.FS, error) {
	return fs.Sub(embeddedStatic, "static")
}

// Renderer executes page and fragment templates. In dev mode templates are reparsed from
// disk on every render.
type Renderer struct {
	source  fs.FS
	pattern string
	dev     bool
	cache   *template.Template
}

// Part is one template execution within a response.
type Part struct {
	Name string
	Data any
}

// NewRenderer parses templates from dir, or from the embedded set when dir is empty.
func NewRenderer(dir string, dev bool) (*Renderer, error) {
	var source fs.FS = embeddedTemplates
	pattern := "templates/*.tmpl"
	if dir != "" {
		source = os.DirFS(dir)
		pattern = "*.tmpl"
	}
	r := &Renderer{source: source, pattern: pattern, dev: dev && dir != ""}
	tmpl, err := parseTemplates(source, pattern)
	if err != nil {
		return nil, err
	}
	r.cache = tmpl
	return r, nil
}

func parseTemplates(source fs.FS, pattern string) (*template.Template, error) {
	matches, err := fs.Glob(source, pattern)
	if err != nil {
		return nil, fmt.Errorf("ui: glob templates: %w", err)
	}
	if len(matches) == 0 {
		return nil, errNoTemplates
	}
	tmpl, err := template.New("_root").Funcs(funcMap).ParseFS(source, pattern)
	if err != nil {
		return nil, fmt.Errorf("ui: parse templates: %w", err)
	}
	return tmpl, nil
}

var funcMap = template.FuncMap{
	"add": func(a, b int) int { return a + b },
}

func (r *Renderer) templates() (*template.Template, error) {
	if r.dev {
		return parseTemplates(r.source, r.pattern)
	}
	return r.cache, nil
}

// Render executes parts in order into one response. Output is buffered so a failing
// template never leaves a half-written body.
func (r *Renderer) Render(w http.ResponseWriter, status int, parts ...Part) error {
	tmpl, err := r.templates()
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	for _, part := range parts {
		if err := tmpl.ExecuteTemplate(&buf, part.Name, part.Data); err != nil {
			return fmt.Errorf("ui: execute %s: %w", part.Name, err)
		}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err = buf.WriteTo(w)
	return err
}
