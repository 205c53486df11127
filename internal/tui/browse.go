package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// PagesMsg is sent when the page list is ready
type PagesMsg struct {
	Pages []site.PageState
	Err   error
}

// ContentMsg carries a diff or preview for the selected page
type ContentMsg struct {
	Title   string
	Content string
	Err     error
}

// PageFunc renders something about a single content file
type PageFunc func(source string) (string, error)

// BrowseModel lists content pages and shows the pending diff or the
// rendered HTML of the selected one
type BrowseModel struct {
	table    table.Model
	viewport viewport.Model
	pages    []site.PageState
	err      error
	ready    bool
	viewing  bool
	title    string
	notice   string

	contentDir  string
	diffFunc    PageFunc
	previewFunc PageFunc
	loadFunc    func() ([]site.PageState, error)
}

// NewBrowseModel creates a new page browser model
func NewBrowseModel(contentDir string, load func() ([]site.PageState, error), diffFunc, previewFunc PageFunc) BrowseModel {
	columns := []table.Column{
		{Title: "Page", Width: 50},
		{Title: "Status", Width: 20},
		{Title: "Output", Width: 40},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(20),
	)
	t.SetStyles(styles.TableStyles())

	vp := viewport.New(100, 20)
	vp.Style = styles.PagerStyle

	return BrowseModel{
		table:       t,
		viewport:    vp,
		contentDir:  contentDir,
		loadFunc:    load,
		diffFunc:    diffFunc,
		previewFunc: previewFunc,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return m.load()
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.table.SetHeight(max(msg.Height-10, 3))
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-6, 3)

	case tea.KeyMsg:
		if m.viewing {
			switch msg.String() {
			case "q", "esc":
				m.viewing = false
				return m, nil
			case "ctrl+c":
				return m, tea.Quit
			}
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.load()
		case "enter", "d":
			if p := m.selected(); p != nil {
				return m, m.show("Diff", p.Source, m.diffFunc)
			}
			return m, nil
		case "p":
			if p := m.selected(); p != nil {
				return m, m.show("Preview", p.Source, m.previewFunc)
			}
			return m, nil
		}
		m.table, cmd = m.table.Update(msg)
		return m, cmd

	case PagesMsg:
		m.ready = true
		m.pages = msg.Pages
		m.err = msg.Err

		rows := make([]table.Row, 0, len(m.pages))
		for _, p := range m.pages {
			rows = append(rows, table.Row{
				m.relative(p.Source),
				fmt.Sprintf("%s %s", StatusIcon(p.Status), p.Status),
				filepath.Base(p.Dest),
			})
		}
		m.table.SetRows(rows)
		return m, nil

	case ContentMsg:
		if msg.Err != nil {
			m.notice = "✗ " + msg.Err.Error()
			return m, nil
		}
		m.notice = ""
		m.viewing = true
		m.title = msg.Title
		content := msg.Content
		if content == "" {
			content = "No changes: the output is up to date."
		}
		m.viewport.SetContent(content)
		m.viewport.GotoTop()
		return m, nil
	}

	return m, nil
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdsite pages"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if !m.ready {
		return b.String()
	}

	if m.viewing {
		b.WriteString(styles.LabelStyle.Render(m.title))
		b.WriteString("\n\n")
		b.WriteString(m.viewport.View())
		b.WriteString("\n\n")
		b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("↑/k up • ↓/j down • %3.f%% • esc/q back", m.viewport.ScrollPercent()*100)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Pages: %d", len(m.pages))))
	b.WriteString("\n\n")
	b.WriteString(styles.TableStyle.Render(m.table.View()))
	b.WriteString("\n\n")
	if m.notice != "" {
		b.WriteString(styles.ErrorStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(styles.HelpStyle.Render("↑/k up • ↓/j down • enter/d diff • p preview • r refresh • q quit"))
	b.WriteString("\n")

	return b.String()
}

func (m BrowseModel) selected() *site.PageState {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.pages) {
		return nil
	}
	return &m.pages[i]
}

func (m BrowseModel) relative(path string) string {
	if rel, err := filepath.Rel(m.contentDir, path); err == nil {
		return rel
	}
	return path
}

func (m BrowseModel) load() tea.Cmd {
	return func() tea.Msg {
		if m.loadFunc == nil {
			return PagesMsg{}
		}
		pages, err := m.loadFunc()
		return PagesMsg{Pages: pages, Err: err}
	}
}

func (m BrowseModel) show(kind, source string, fn PageFunc) tea.Cmd {
	return func() tea.Msg {
		title := fmt.Sprintf("%s: %s", kind, m.relative(source))
		if fn == nil {
			return ContentMsg{Title: title, Err: fmt.Errorf("%s is not available", strings.ToLower(kind))}
		}
		content, err := fn(source)
		return ContentMsg{Title: title, Content: content, Err: err}
	}
}
