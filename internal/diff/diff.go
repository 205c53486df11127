package diff

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/glamour"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/page"
	"github.com/gerunddev/mdsite/internal/site"
)

// Format represents the output format for diffs
type Format int

const (
	// FormatRendered renders diffs through glamour (default)
	FormatRendered Format = iota
	// FormatPlain returns the raw unified diff
	FormatPlain
)

// wrapWidth is the glamour word wrap for rendered diffs
const wrapWidth = 120

// Generate diffs the page currently on disk for source against what a build
// would write now. A page that was never built diffs against an empty file.
// An empty string means the output is up to date.
func Generate(cfg *config.Config, source string, format Format) (string, error) {
	src, err := os.ReadFile(source)
	if err != nil {
		return "", fmt.Errorf("failed to read source file: %w", err)
	}
	template, err := os.ReadFile(cfg.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	dest, err := site.OutputPath(cfg.ContentDir, cfg.OutputDir, source)
	if err != nil {
		return "", err
	}
	current, err := os.ReadFile(dest)
	if err != nil && !os.IsNotExist(err) {
		return "", fmt.Errorf("failed to read output file: %w", err)
	}

	p, err := page.Generate(string(src), string(template), cfg.BasePath)
	if err != nil {
		return "", fmt.Errorf("failed to generate page: %w", err)
	}

	unified := Unified(dest, filepath.Base(source), string(current), p.HTML)
	if unified == "" {
		return "", nil
	}

	switch format {
	case FormatPlain:
		return unified, nil
	case FormatRendered:
		return Render(unified), nil
	default:
		return "", fmt.Errorf("unsupported diff format: %d", format)
	}
}

// Unified returns a unified diff turning before into after, or an empty
// string when they are equal
func Unified(beforeName, afterName, before, after string) string {
	edits := myers.ComputeEdits(span.URIFromPath(beforeName), before, after)
	return fmt.Sprint(gotextdiff.ToUnified(beforeName, afterName, before, edits))
}

// Render highlights a unified diff for the terminal. The fenced diff is
// returned as is if glamour fails.
func Render(unified string) string {
	fenced := fmt.Sprintf("```diff\n%s```\n", unified)

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err != nil {
		return fenced
	}

	rendered, err := renderer.Render(fenced)
	if err != nil {
		return fenced
	}
	return rendered
}
