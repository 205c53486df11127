package site

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/logger"
	"github.com/gerunddev/mdsite/internal/state"
)

const testTemplate = "<html><head><title>{{ Title }}</title></head><body>{{ Content }}</body></html>"

// newTestSite lays out a content, static and template tree under a temp dir
func newTestSite(t *testing.T, pages map[string]string) *config.Config {
	t.Helper()
	tmpDir := t.TempDir()

	cfg := &config.Config{
		ContentDir:   filepath.Join(tmpDir, "content"),
		StaticDir:    filepath.Join(tmpDir, "static"),
		OutputDir:    filepath.Join(tmpDir, "docs"),
		TemplatePath: filepath.Join(tmpDir, "template.html"),
		BasePath:     "/",
		Interval:     time.Second,
	}

	for rel, content := range pages {
		writeTestFile(t, filepath.Join(cfg.ContentDir, rel), content)
	}
	writeTestFile(t, filepath.Join(cfg.StaticDir, "index.css"), "body { color: black; }")
	writeTestFile(t, filepath.Join(cfg.StaticDir, "images", "logo.png"), "png")
	writeTestFile(t, cfg.TemplatePath, testTemplate)

	return cfg
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

func readTestFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func TestBuild(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md":              "# Home\n\nWelcome **home**.",
		"blog/first/index.md":   "# First Post\n\n- one\n- two",
		"contact/index.md":      "# Contact\n\n[mail](/contact/mail)",
		"notes/ignored.txt":     "not markdown",
		"blog/second/second.md": "# Second\n\n> quoted",
	})

	b := NewBuilder(cfg, state.NewState())
	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if result.PagesGenerated != 4 {
		t.Errorf("PagesGenerated = %d, want 4", result.PagesGenerated)
	}
	if result.AssetsCopied != 2 {
		t.Errorf("AssetsCopied = %d, want 2", result.AssetsCopied)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Errors = %v, want none", result.Errors)
	}
	if result.BuildID == "" {
		t.Error("BuildID should be set")
	}

	got := readTestFile(t, filepath.Join(cfg.OutputDir, "index.html"))
	want := "<html><head><title>Home</title></head><body><div><h1>Home</h1><p>Welcome <b>home</b>.</p></div></body></html>"
	if got != want {
		t.Errorf("index.html =\n%s\nwant\n%s", got, want)
	}

	for _, rel := range []string{
		"blog/first/index.html",
		"blog/second/second.html",
		"contact/index.html",
		"index.css",
		"images/logo.png",
	} {
		if _, err := os.Stat(filepath.Join(cfg.OutputDir, rel)); err != nil {
			t.Errorf("expected output %s: %v", rel, err)
		}
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "notes", "ignored.html")); err == nil {
		t.Error("non-markdown files should not be converted")
	}
}

func TestBuildIncremental(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home",
		"about.md": "# About",
	})
	st := state.NewState()
	b := NewBuilder(cfg, st)

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("first Build() error = %v", err)
	}

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second Build() error = %v", err)
	}
	if result.PagesGenerated != 0 || result.PagesSkipped != 2 {
		t.Errorf("unchanged rebuild: generated=%d skipped=%d, want 0 and 2", result.PagesGenerated, result.PagesSkipped)
	}

	writeTestFile(t, filepath.Join(cfg.ContentDir, "about.md"), "# About Us")
	future := time.Now().Add(time.Hour)
	if err := os.Chtimes(filepath.Join(cfg.ContentDir, "about.md"), future, future); err != nil {
		t.Fatalf("Failed to set mtime: %v", err)
	}

	result, err = b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("third Build() error = %v", err)
	}
	if result.PagesGenerated != 1 || result.PagesSkipped != 1 {
		t.Errorf("after edit: generated=%d skipped=%d, want 1 and 1", result.PagesGenerated, result.PagesSkipped)
	}
	if got := readTestFile(t, filepath.Join(cfg.OutputDir, "about.html")); !strings.Contains(got, "<title>About Us</title>") {
		t.Errorf("about.html was not regenerated:\n%s", got)
	}

	result, err = b.Build(context.Background(), Options{Force: true})
	if err != nil {
		t.Fatalf("forced Build() error = %v", err)
	}
	if result.PagesGenerated != 2 {
		t.Errorf("forced rebuild generated %d pages, want 2", result.PagesGenerated)
	}
}

func TestBuildTemplateChangeRegenerates(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home"})
	b := NewBuilder(cfg, state.NewState())

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	writeTestFile(t, cfg.TemplatePath, "<main>{{ Title }}|{{ Content }}</main>")
	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 {
		t.Errorf("template change regenerated %d pages, want 1", result.PagesGenerated)
	}
	if got := readTestFile(t, filepath.Join(cfg.OutputDir, "index.html")); got != "<main>Home|<div><h1>Home</h1></div></main>" {
		t.Errorf("index.html = %q", got)
	}
}

func TestBuildPageErrorsDoNotAbort(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"good.md":     "# Good",
		"untitled.md": "no heading here",
	})

	var buf bytes.Buffer
	b := NewBuilder(cfg, state.NewState())
	b.SetLogger(logger.New(&buf))

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 {
		t.Errorf("PagesGenerated = %d, want 1", result.PagesGenerated)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error(), "untitled.md") {
		t.Errorf("error should name the page: %v", result.Errors[0])
	}
	if !strings.Contains(buf.String(), "page failed") {
		t.Errorf("page failure was not logged:\n%s", buf.String())
	}
}

func TestBuildDrafts(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home",
		"wip.md":   "---\ndraft: true\n---\n# Work in progress",
	})
	b := NewBuilder(cfg, state.NewState())

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Drafts != 1 || result.PagesGenerated != 1 {
		t.Errorf("drafts=%d generated=%d, want 1 and 1", result.Drafts, result.PagesGenerated)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "wip.html")); err == nil {
		t.Error("draft pages should not be written")
	}
}

func TestBuildRemovesStaleOutputs(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home",
		"old.md":   "# Old",
	})
	st := state.NewState()
	b := NewBuilder(cfg, st)

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := os.Remove(filepath.Join(cfg.ContentDir, "old.md")); err != nil {
		t.Fatalf("Failed to remove source: %v", err)
	}

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutputDir, "old.html")); err == nil {
		t.Error("output of a deleted page should be removed")
	}
	if _, ok := st.Files[filepath.Join(cfg.ContentDir, "old.md")]; ok {
		t.Error("deleted page should be dropped from state")
	}
}

func TestBuildClean(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home"})
	leftover := filepath.Join(cfg.OutputDir, "leftover.html")
	writeTestFile(t, leftover, "stale")

	b := NewBuilder(cfg, state.NewState())
	result, err := b.Build(context.Background(), Options{Clean: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 {
		t.Errorf("PagesGenerated = %d, want 1", result.PagesGenerated)
	}
	if _, err := os.Stat(leftover); err == nil {
		t.Error("clean build should wipe the output directory")
	}
}

func TestBuildDryRun(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home"})
	st := state.NewState()
	b := NewBuilder(cfg, st)
	b.DryRun = true

	result, err := b.Build(context.Background(), Options{Clean: true})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 {
		t.Errorf("PagesGenerated = %d, want 1", result.PagesGenerated)
	}
	if _, err := os.Stat(cfg.OutputDir); err == nil {
		t.Error("dry run should not create the output directory")
	}
	if len(st.Files) != 0 || st.BuildID != "" {
		t.Error("dry run should not touch state")
	}
}

func TestBuildMissingTemplate(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home"})
	cfg.TemplatePath = filepath.Join(t.TempDir(), "missing.html")

	b := NewBuilder(cfg, state.NewState())
	if _, err := b.Build(context.Background(), Options{}); err == nil {
		t.Error("Build() should fail without a template")
	}
}

func TestBuildCancelled(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBuilder(cfg, state.NewState())
	if _, err := b.Build(ctx, Options{}); !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestBuildBasePath(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home\n\n[About](/about) ![logo](/images/logo.png)",
	})
	cfg.BasePath = "/mysite/"

	b := NewBuilder(cfg, state.NewState())
	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	got := readTestFile(t, filepath.Join(cfg.OutputDir, "index.html"))
	for _, want := range []string{`href="/mysite/about"`, `src="/mysite/images/logo.png"`} {
		if !strings.Contains(got, want) {
			t.Errorf("index.html missing %s:\n%s", want, got)
		}
	}
}

func TestBuildBasePathChangeRegenerates(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home\n\n[about](/about.html)",
	})
	st := state.NewState()
	b := NewBuilder(cfg, st)

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	cfg.BasePath = "/repo/"
	pages, err := b.Inspect()
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if len(pages) != 1 || pages[0].Status != StatusStale {
		t.Errorf("pages after base path change = %+v, want one stale page", pages)
	}

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 || result.PagesSkipped != 0 {
		t.Errorf("generated=%d skipped=%d, want 1 and 0", result.PagesGenerated, result.PagesSkipped)
	}
	if got := readTestFile(t, filepath.Join(cfg.OutputDir, "index.html")); !strings.Contains(got, `href="/repo/about.html"`) {
		t.Errorf("index.html not rebuilt with the new base path:\n%s", got)
	}
	if st.BasePath != "/repo/" {
		t.Errorf("state BasePath = %q, want /repo/", st.BasePath)
	}

	result, err = b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesSkipped != 1 {
		t.Errorf("unchanged rebuild skipped %d pages, want 1", result.PagesSkipped)
	}
}

func TestBuildRetriesFailedPages(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home",
		"about.md": "# About",
	})
	b := NewBuilder(cfg, state.NewState())

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// A directory in place of the output makes the write fail
	dest := filepath.Join(cfg.OutputDir, "about.html")
	if err := os.Remove(dest); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}
	writeTestFile(t, filepath.Join(dest, "blocker"), "x")

	writeTestFile(t, cfg.TemplatePath, "<main>{{ Title }}|{{ Content }}</main>")
	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want one", result.Errors)
	}

	if err := os.RemoveAll(dest); err != nil {
		t.Fatalf("Failed to remove blocker: %v", err)
	}
	writeTestFile(t, dest, "old template")

	result, err = b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.PagesGenerated != 1 || result.PagesSkipped != 1 {
		t.Errorf("retry: generated=%d skipped=%d, want 1 and 1", result.PagesGenerated, result.PagesSkipped)
	}
	if got := readTestFile(t, dest); got != "<main>About|<div><h1>About</h1></div></main>" {
		t.Errorf("about.html = %q, want the new template", got)
	}
}

func TestBuildDraftRemovalErrorLogged(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"wip.md": "---\ndraft: true\n---\n# Work in progress",
	})
	src := filepath.Join(cfg.ContentDir, "wip.md")

	// A non-empty directory cannot be removed with os.Remove
	output := filepath.Join(cfg.OutputDir, "wip.html")
	writeTestFile(t, filepath.Join(output, "keep"), "x")

	st := state.NewState()
	st.Files[src] = &state.FileState{Output: output}

	var buf bytes.Buffer
	b := NewBuilder(cfg, st)
	b.SetLogger(logger.New(&buf))

	result, err := b.Build(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if result.Drafts != 1 {
		t.Errorf("Drafts = %d, want 1", result.Drafts)
	}
	if !strings.Contains(buf.String(), "file error") {
		t.Errorf("failed draft output removal was not logged:\n%s", buf.String())
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		want    string
		wantErr bool
	}{
		{"root page", "content/index.md", "docs/index.html", false},
		{"nested page", "content/blog/post/index.md", "docs/blog/post/index.html", false},
		{"md inside name", "content/md.notes.md", "docs/md.notes.html", false},
		{"outside content", "other/index.md", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := OutputPath("content", "docs", filepath.FromSlash(tt.source))
			if (err != nil) != tt.wantErr {
				t.Fatalf("OutputPath() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != filepath.FromSlash(tt.want) {
				t.Errorf("OutputPath() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestScanDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	for _, rel := range []string{
		"index.md",
		"blog/post.md",
		"blog/image.png",
		"drafts/secret.md",
		".hidden.md",
	} {
		writeTestFile(t, filepath.Join(tmpDir, rel), "# x")
	}

	files, err := ScanDirectory(tmpDir, ".md", []string{"drafts", ".*"})
	if err != nil {
		t.Fatalf("ScanDirectory() error = %v", err)
	}

	want := []string{
		filepath.Join(tmpDir, "blog", "post.md"),
		filepath.Join(tmpDir, "index.md"),
	}
	if len(files) != len(want) {
		t.Fatalf("ScanDirectory() = %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Errorf("files[%d] = %s, want %s", i, files[i], want[i])
		}
	}
}

func TestCopyStatic(t *testing.T) {
	src := filepath.Join(t.TempDir(), "static")
	dst := filepath.Join(t.TempDir(), "public")
	writeTestFile(t, filepath.Join(src, "index.css"), "css")
	writeTestFile(t, filepath.Join(src, "images", "a", "b.png"), "png")

	var copied []string
	n, err := CopyStatic(src, dst, func(_, d string) { copied = append(copied, d) })
	if err != nil {
		t.Fatalf("CopyStatic() error = %v", err)
	}
	if n != 2 || len(copied) != 2 {
		t.Errorf("copied %d files (callback %d), want 2", n, len(copied))
	}
	if got := readTestFile(t, filepath.Join(dst, "images", "a", "b.png")); got != "png" {
		t.Errorf("nested file content = %q", got)
	}

	n, err = CopyStatic(filepath.Join(t.TempDir(), "missing"), dst, nil)
	if err != nil || n != 0 {
		t.Errorf("missing static dir: n=%d err=%v, want 0 and nil", n, err)
	}
}

func TestInspect(t *testing.T) {
	cfg := newTestSite(t, map[string]string{
		"index.md": "# Home",
		"about.md": "# About",
	})
	st := state.NewState()
	b := NewBuilder(cfg, st)

	pages, err := b.Inspect()
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	for _, p := range pages {
		if p.Status != StatusNew {
			t.Errorf("%s: status %q before first build, want %q", p.Source, p.Status, StatusNew)
		}
	}

	if _, err := b.Build(context.Background(), Options{}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := os.Remove(filepath.Join(cfg.OutputDir, "about.html")); err != nil {
		t.Fatalf("Failed to remove output: %v", err)
	}

	pages, err = b.Inspect()
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	got := map[string]string{}
	for _, p := range pages {
		got[filepath.Base(p.Source)] = p.Status
	}
	if got["index.md"] != StatusUpToDate {
		t.Errorf("index.md status = %q, want %q", got["index.md"], StatusUpToDate)
	}
	if got["about.md"] != StatusMissing {
		t.Errorf("about.md status = %q, want %q", got["about.md"], StatusMissing)
	}
}

func TestBuildResultString(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := &BuildResult{
		PagesGenerated: 3,
		PagesSkipped:   2,
		AssetsCopied:   4,
		Errors:         []error{errors.New("boom")},
		StartTime:      start,
		EndTime:        start.Add(1500 * time.Millisecond),
	}

	want := "Build complete: 3 pages generated, 2 unchanged, 4 assets copied, 1 errors (took 1.5s)"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRender(t *testing.T) {
	cfg := newTestSite(t, map[string]string{"index.md": "# Home\n\n*not italic* _italic_"})
	b := NewBuilder(cfg, state.NewState())

	p, err := b.Render(filepath.Join(cfg.ContentDir, "index.md"))
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if p.Title != "Home" {
		t.Errorf("Title = %q, want Home", p.Title)
	}
	if !strings.Contains(p.HTML, "<i>italic</i>") {
		t.Errorf("HTML missing italic span:\n%s", p.HTML)
	}
	if _, err := os.Stat(cfg.OutputDir); err == nil {
		t.Error("Render() should not write output")
	}
}
