package page

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gerunddev/mdsite/internal/markdown"
)

// Template placeholders
const (
	TitlePlaceholder   = "{{ Title }}"
	ContentPlaceholder = "{{ Content }}"
)

// ErrNoTitle is returned when a document has no level-1 heading
var ErrNoTitle = errors.New("no title found")

// FrontMatter holds the optional YAML header of a content file
type FrontMatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Draft       bool     `yaml:"draft"`
	Tags        []string `yaml:"tags"`
}

// Page is a fully rendered content file
type Page struct {
	Title       string
	FrontMatter FrontMatter
	Content     string // rendered body, without the template
	HTML        string // final document
}

// Generate renders Markdown source into template. Root-relative links in the
// result are rewritten to basePath.
func Generate(source, template, basePath string) (*Page, error) {
	fm, body, err := ExtractFrontMatter(source)
	if err != nil {
		return nil, err
	}

	content, err := markdown.ToHTML(body)
	if err != nil {
		return nil, fmt.Errorf("failed to convert markdown: %w", err)
	}

	title := fm.Title
	if title == "" {
		title, err = ExtractTitle(body)
		if err != nil {
			return nil, err
		}
	}

	html := Render(template, title, content)
	html = RewriteBasePath(html, basePath)

	return &Page{
		Title:       title,
		FrontMatter: fm,
		Content:     content,
		HTML:        html,
	}, nil
}

// ExtractTitle returns the text of the first line starting with "# "
func ExtractTitle(md string) (string, error) {
	for _, line := range strings.Split(md, "\n") {
		if title, ok := strings.CutPrefix(line, "# "); ok {
			return strings.TrimSpace(title), nil
		}
	}
	return "", ErrNoTitle
}

// Render substitutes the title and content placeholders in template
func Render(template, title, content string) string {
	out := strings.ReplaceAll(template, TitlePlaceholder, title)
	return strings.ReplaceAll(out, ContentPlaceholder, content)
}

// RewriteBasePath prefixes root-relative href and src attributes with
// basePath. A base path of "/" leaves the document unchanged.
func RewriteBasePath(html, basePath string) string {
	if basePath == "" || basePath == "/" {
		return html
	}
	if !strings.HasSuffix(basePath, "/") {
		basePath += "/"
	}
	html = strings.ReplaceAll(html, `href="/`, `href="`+basePath)
	return strings.ReplaceAll(html, `src="/`, `src="`+basePath)
}

// ExtractFrontMatter splits a leading "---" delimited YAML block from the
// document body. Documents without front matter are returned unchanged.
func ExtractFrontMatter(content string) (FrontMatter, string, error) {
	var fm FrontMatter

	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return fm, content, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			end = i
			break
		}
	}
	if end == -1 {
		// An opening rule without a closing one is a horizontal rule, not a header.
		return fm, content, nil
	}

	yamlContent := strings.Join(lines[1:end], "\n")
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return fm, "", fmt.Errorf("failed to parse front matter: %w", err)
	}

	body := strings.Join(lines[end+1:], "\n")
	return fm, strings.TrimLeft(body, "\n"), nil
}
