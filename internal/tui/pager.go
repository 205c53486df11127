package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/styles"
)

// PagerModel shows a single document in a scrollable viewport
type PagerModel struct {
	viewport viewport.Model
	title    string
}

// NewPagerModel creates a pager over content
func NewPagerModel(title, content string) PagerModel {
	vp := viewport.New(100, 20)
	vp.Style = styles.PagerStyle
	vp.SetContent(content)

	return PagerModel{
		viewport: vp,
		title:    title,
	}
}

func (m PagerModel) Init() tea.Cmd {
	return nil
}

func (m PagerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width - 4
		m.viewport.Height = max(msg.Height-6, 3)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m PagerModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n\n")
	b.WriteString(styles.HelpStyle.Render(fmt.Sprintf("↑/k up • ↓/j down • %3.f%% • q quit", m.viewport.ScrollPercent()*100)))
	b.WriteString("\n")

	return b.String()
}
