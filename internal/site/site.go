package site

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/page"
	"github.com/gerunddev/mdsite/internal/state"
)

// MarkdownExt is the extension of content files
const MarkdownExt = ".md"

// Builder generates the site described by a config
type Builder struct {
	config *config.Config
	state  *state.State
	logger *logger.Logger
	now    func() time.Time
	DryRun bool // If true, report what would be built without writing anything
}

// NewBuilder creates a new builder instance
func NewBuilder(cfg *config.Config, st *state.State) *Builder {
	return &Builder{
		config: cfg,
		state:  st,
		logger: logger.Discard(),
		now:    time.Now,
	}
}

// SetLogger sets the logger for the builder
func (b *Builder) SetLogger(l *logger.Logger) {
	b.logger = l
}

// Options controls a single build
type Options struct {
	Clean bool // remove the output directory first
	Force bool // regenerate pages even when unchanged
}

// PageResult describes what happened to one content file
type PageResult struct {
	Source string
	Dest   string
	Title  string
	Action string // "generated", "skipped", "draft", "failed"
	Err    error
}

// BuildResult represents the result of a build
type BuildResult struct {
	BuildID        string
	PagesGenerated int
	PagesSkipped   int
	Drafts         int
	AssetsCopied   int
	Removed        int
	Pages          []PageResult
	Errors         []error
	StartTime      time.Time
	EndTime        time.Time
}

// Build copies static assets and generates every content page. Failures of
// individual pages are collected in the result; errors that prevent the
// build as a whole are returned.
func (b *Builder) Build(ctx context.Context, opts Options) (*BuildResult, error) {
	result := &BuildResult{
		StartTime: b.now(),
	}
	b.logger.BuildStarted(b.config.ContentDir, b.config.OutputDir)

	template, err := os.ReadFile(b.config.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	templateChanged, templateHash, err := b.state.TemplateChanged(b.config.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to hash template: %w", err)
	}

	if opts.Clean && !b.DryRun {
		if err := os.RemoveAll(b.config.OutputDir); err != nil {
			return nil, fmt.Errorf("failed to clean output directory: %w", err)
		}
		b.state.Reset()
	}
	if !b.DryRun {
		if err := os.MkdirAll(b.config.OutputDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if b.config.StaticDir != "" && !b.DryRun {
		copied, err := CopyStatic(b.config.StaticDir, b.config.OutputDir, b.logger.AssetCopied)
		if err != nil {
			return nil, fmt.Errorf("failed to copy static files: %w", err)
		}
		result.AssetsCopied = copied
	}

	sources, err := ScanDirectory(b.config.ContentDir, MarkdownExt, b.config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content directory: %w", err)
	}

	force := opts.Force || opts.Clean || templateChanged || b.state.BasePathChanged(b.config.BasePath)
	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seen[src] = true

		pr := b.buildPage(src, string(template), force)
		result.Pages = append(result.Pages, pr)
		switch pr.Action {
		case "generated":
			result.PagesGenerated++
		case "skipped":
			result.PagesSkipped++
		case "draft":
			result.Drafts++
		case "failed":
			result.Errors = append(result.Errors, pr.Err)
		}
	}

	if !b.DryRun {
		result.Removed = b.removeStale(seen)
		b.state.TemplateHash = templateHash
		b.state.BasePath = b.config.BasePath
		result.BuildID = b.state.BeginBuild(b.now())
	}

	result.EndTime = b.now()
	b.logger.BuildCompleted(result.PagesGenerated, result.PagesSkipped, len(result.Errors), result.EndTime.Sub(result.StartTime))
	return result, nil
}

// buildPage generates one page unless it is unchanged since the last build
func (b *Builder) buildPage(src, template string, force bool) PageResult {
	pr := PageResult{Source: src}

	dest, err := OutputPath(b.config.ContentDir, b.config.OutputDir, src)
	if err != nil {
		return b.failed(pr, err)
	}
	pr.Dest = dest

	if !force {
		changed, err := b.state.HasChanged(src)
		if err != nil {
			return b.failed(pr, err)
		}
		if !changed && fileExists(dest) {
			pr.Action = "skipped"
			b.logger.PageSkipped(src, "unchanged")
			return pr
		}
	}

	source, err := os.ReadFile(src)
	if err != nil {
		return b.failed(pr, err)
	}
	p, err := page.Generate(string(source), template, b.config.BasePath)
	if err != nil {
		return b.failed(pr, err)
	}
	pr.Title = p.Title

	if p.FrontMatter.Draft {
		pr.Action = "draft"
		b.logger.PageSkipped(src, "draft")
		if !b.DryRun {
			if fs, ok := b.state.Files[src]; ok && fs.Output != "" {
				if err := os.Remove(fs.Output); err != nil && !os.IsNotExist(err) {
					b.logger.FileError(fs.Output, err)
				}
			}
			b.state.Forget(src)
		}
		return pr
	}

	pr.Action = "generated"
	if b.DryRun {
		return pr
	}

	if err := writeFile(dest, p.HTML); err != nil {
		return b.failed(pr, err)
	}
	if err := b.state.Update(src, dest); err != nil {
		b.logger.StateError("update", err)
	}
	b.logger.PageGenerated(src, dest, p.Title)
	return pr
}

func (b *Builder) failed(pr PageResult, err error) PageResult {
	pr.Action = "failed"
	pr.Err = fmt.Errorf("%s: %w", pr.Source, err)
	b.logger.PageError(pr.Source, err)
	if !b.DryRun {
		b.state.Invalidate(pr.Source)
	}
	return pr
}

// removeStale deletes outputs whose source no longer exists. Sources outside
// the content directory are left alone.
func (b *Builder) removeStale(seen map[string]bool) int {
	removed := 0
	for src, fs := range b.state.Files {
		if seen[src] {
			continue
		}
		if _, err := OutputPath(b.config.ContentDir, b.config.OutputDir, src); err != nil {
			continue
		}
		if fs.Output != "" {
			if err := os.Remove(fs.Output); err != nil && !os.IsNotExist(err) {
				b.logger.FileError(fs.Output, err)
				continue
			}
		}
		b.state.Forget(src)
		removed++
	}
	return removed
}

// Render generates the page for source without writing it
func (b *Builder) Render(source string) (*page.Page, error) {
	template, err := os.ReadFile(b.config.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	src, err := os.ReadFile(source)
	if err != nil {
		return nil, err
	}
	return page.Generate(string(src), string(template), b.config.BasePath)
}

// OutputPath maps a content file to its HTML destination, mirroring the
// directory structure below contentDir
func OutputPath(contentDir, outputDir, source string) (string, error) {
	rel, err := filepath.Rel(contentDir, source)
	if err != nil {
		return "", err
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s is outside %s", source, contentDir)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".html"
	return filepath.Join(outputDir, rel), nil
}

// ScanDirectory scans a directory for files with given extension. Files and
// directories whose base name matches an exclude pattern are skipped.
func ScanDirectory(dir string, ext string, excludes []string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if path != dir && isExcluded(info.Name(), excludes) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if !info.IsDir() && filepath.Ext(path) == ext {
			files = append(files, path)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}

func isExcluded(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0644)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Duration returns how long the build took
func (r *BuildResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// String returns a human-readable summary of the build result
func (r *BuildResult) String() string {
	return fmt.Sprintf(
		"Build complete: %d pages generated, %d unchanged, %d assets copied, %d errors (took %v)",
		r.PagesGenerated,
		r.PagesSkipped,
		r.AssetsCopied,
		len(r.Errors),
		r.Duration().Round(time.Millisecond),
	)
}
