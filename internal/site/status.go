package site

import (
	"fmt"
	"time"
)

// Page statuses reported by Inspect
const (
	StatusUpToDate = "up to date"
	StatusStale    = "stale"
	StatusNew      = "new"
	StatusMissing  = "output missing"
)

// PageState describes a content file relative to the last build
type PageState struct {
	Source string
	Dest   string
	Status string
	MTime  time.Time // source mtime recorded by the last build
}

// Inspect reports, without building anything, which pages the next build
// would regenerate
func (b *Builder) Inspect() ([]PageState, error) {
	sources, err := ScanDirectory(b.config.ContentDir, MarkdownExt, b.config.ExcludePatterns)
	if err != nil {
		return nil, fmt.Errorf("failed to scan content directory: %w", err)
	}

	rebuildAll := b.state.BasePathChanged(b.config.BasePath)
	if b.config.TemplatePath != "" {
		if changed, _, err := b.state.TemplateChanged(b.config.TemplatePath); err == nil && changed {
			rebuildAll = true
		}
	}

	pages := make([]PageState, 0, len(sources))
	for _, src := range sources {
		dest, err := OutputPath(b.config.ContentDir, b.config.OutputDir, src)
		if err != nil {
			return nil, err
		}
		ps := PageState{
			Source: src,
			Dest:   dest,
			MTime:  b.state.GetMTime(src),
		}

		_, known := b.state.Files[src]
		changed, err := b.state.HasChanged(src)
		if err != nil {
			return nil, err
		}

		switch {
		case !known:
			ps.Status = StatusNew
		case !fileExists(dest):
			ps.Status = StatusMissing
		case changed || rebuildAll:
			ps.Status = StatusStale
		default:
			ps.Status = StatusUpToDate
		}
		pages = append(pages, ps)
	}
	return pages, nil
}
