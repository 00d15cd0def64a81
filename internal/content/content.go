// Package content loads the static storefront content: categories, banner slides,
// services and gallery images. Content is read once at startup and never mutated.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"

	"github.com/Gowri0016/Creator/internal/catalog"
)

//go:embed default.yaml
var defaultContent []byte

// ErrEmpty is returned when the content file has no services.
var ErrEmpty = errors.New("content: no services defined")

// Content is the immutable input of every mounted view.
type Content struct {
	Brand      string
	Tagline    string
	Categories []catalog.Category
	Slides     []catalog.Slide
	Services   []catalog.CatalogItem
	Gallery    []catalog.GalleryImage

	descriptions map[int]template.HTML
}

// DescriptionHTML returns the sanitised HTML rendering of a service description.
func (c *Content) DescriptionHTML(id int) template.HTML {
	if c == nil {
		return ""
	}
	return c.descriptions[id]
}

// ValidationError lists every problem found in a content file.
type ValidationError struct {
	Problems []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: invalid content [%s]", strings.Join(e.Problems, "; "))
}

type fileFormat struct {
	Brand      string        `yaml:"brand"`
	Tagline    string        `yaml:"tagline"`
	Categories []string      `yaml:"categories"`
	Slides     []slideEntry  `yaml:"slides"`
	Services   []serviceItem `yaml:"services"`
	Gallery    []imageEntry  `yaml:"gallery"`
}

type slideEntry struct {
	ID       int    `yaml:"id"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
	Image    string `yaml:"image"`
	Tone     string `yaml:"tone"`
}

type serviceItem struct {
	ID          int    `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
	Icon        string `yaml:"icon"`
}

type imageEntry struct {
	ID       int    `yaml:"id"`
	Src      string `yaml:"src"`
	Category string `yaml:"category"`
	Title    string `yaml:"title"`
}

// Default returns the embedded content.
func Default() (*Content, error) {
	return Parse(defaultContent)
}

// Load reads content from path, or the embedded content when path is empty.
func Load(path string) (*Content, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	c, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML content document.
func Parse(raw []byte) (*Content, error) {
	var doc fileFormat
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	if len(doc.Services) == 0 {
		return nil, ErrEmpty
	}
	if err := validate(doc); err != nil {
		return nil, err
	}

	c := &Content{
		Brand:        strings.TrimSpace(doc.Brand),
		Tagline:      strings.TrimSpace(doc.Tagline),
		Categories:   categories(doc.Categories),
		descriptions: make(map[int]template.HTML, len(doc.Services)),
	}
	md := goldmark.New()
	policy := bluemonday.UGCPolicy()
	for _, s := range doc.Services {
		c.Services = append(c.Services, catalog.CatalogItem{
			ID:          s.ID,
			Name:        strings.TrimSpace(s.Name),
			Description: strings.TrimSpace(s.Description),
			Price:       strings.TrimSpace(s.Price),
			Category:    catalog.Category(strings.TrimSpace(s.Category)),
			ImageRef:    strings.TrimSpace(s.Image),
			Icon:        strings.TrimSpace(s.Icon),
		})
		html, err := renderDescription(md, policy, s.Description)
		if err != nil {
			return nil, fmt.Errorf("content: service %d description: %w", s.ID, err)
		}
		c.descriptions[s.ID] = html
	}
	for _, s := range doc.Slides {
		c.Slides = append(c.Slides, catalog.Slide{ID: s.ID, Title: s.Title, Subtitle: s.Subtitle, Image: s.Image, Tone: s.Tone})
	}
	for _, g := range doc.Gallery {
		c.Gallery = append(c.Gallery, catalog.GalleryImage{ID: g.ID, Src: g.Src, Category: g.Category, Title: g.Title})
	}
	if c.Brand == "" {
		c.Brand = "Creato.in"
	}
	return c, nil
}

func renderDescription(md goldmark.Markdown, policy *bluemonday.Policy, src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(strings.TrimSpace(src)), &buf); err != nil {
		return "", err
	}
	// sanitized output is safe to embed verbatim
	return template.HTML(policy.SanitizeBytes(buf.Bytes())), nil
}

func categories(raw []string) []catalog.Category {
	if len(raw) == 0 {
		return append([]catalog.Category(nil), catalog.Categories...)
	}
	out := make([]catalog.Category, 0, len(raw))
	for _, c := range raw {
		out = append(out, catalog.Category(strings.TrimSpace(c)))
	}
	return out
}

func validate(doc fileFormat) error {
	var problems []string

	known := map[string]struct{}{}
	if len(doc.Categories) > 0 {
		hasAll := false
		for _, c := range doc.Categories {
			c = strings.TrimSpace(c)
			if c == "" {
				problems = append(problems, "blank category")
				continue
			}
			if c == string(catalog.CategoryAll) {
				hasAll = true
			}
			known[c] = struct{}{}
		}
		if !hasAll {
			problems = append(problems, fmt.Sprintf("categories must include %q", catalog.CategoryAll))
		}
	} else {
		for _, c := range catalog.Categories {
			known[string(c)] = struct{}{}
		}
	}

	seen := map[int]struct{}{}
	for i, s := range doc.Services {
		if _, dup := seen[s.ID]; dup {
			problems = append(problems, fmt.Sprintf("services[%d]: duplicate id %d", i, s.ID))
		}
		seen[s.ID] = struct{}{}
		if strings.TrimSpace(s.Name) == "" {
			problems = append(problems, fmt.Sprintf("services[%d]: name is required", i))
		}
		cat := strings.TrimSpace(s.Category)
		if cat == string(catalog.CategoryAll) {
			problems = append(problems, fmt.Sprintf("services[%d]: category %q is reserved", i, cat))
		} else if _, ok := known[cat]; !ok {
			problems = append(problems, fmt.Sprintf("services[%d]: unknown category %q", i, cat))
		}
	}

	seen = map[int]struct{}{}
	for i, g := range doc.Gallery {
		if _, dup := seen[g.ID]; dup {
			problems = append(problems, fmt.Sprintf("gallery[%d]: duplicate id %d", i, g.ID))
		}
		seen[g.ID] = struct{}{}
		if strings.TrimSpace(g.Src) == "" {
			problems = append(problems, fmt.Sprintf("gallery[%d]: src is required", i))
		}
	}

	seen = map[int]struct{}{}
	for i, s := range doc.Slides {
		if _, dup := seen[s.ID]; dup {
			problems = append(problems, fmt.Sprintf("slides[%d]: duplicate id %d", i, s.ID))
		}
		seen[s.ID] = struct{}{}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
