package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// maxPendingShown limits the pending page list in the status view
const maxPendingShown = 10

// StatusData holds all the information for the status display
type StatusData struct {
	ContentDir string
	OutputDir  string
	BasePath   string
	Interval   time.Duration
	Pages      []site.PageState

	BuildID   string
	BuiltAt   time.Time
	Running   bool
	PID       int
	LogLines  []string
	LastBuild time.Time // from the log, when the watcher is running
}

// StatusMsg is sent when status data is ready
type StatusMsg struct {
	Data *StatusData
	Err  error
}

// StatusModel shows the site configuration, pending pages and the watcher
type StatusModel struct {
	spinner  spinner.Model
	data     *StatusData
	err      error
	scanning bool
}

// NewStatusModel creates a new status display model
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return StatusModel{
		spinner:  s,
		scanning: true,
	}
}

func (m StatusModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}

	case StatusMsg:
		m.scanning = false
		m.data = msg.Data
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		if m.scanning {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}

	return m, nil
}

func (m StatusModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render("mdsite status"))
	b.WriteString("\n\n")

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Error: "+m.err.Error()) + "\n"
	}

	if m.scanning || m.data == nil {
		b.WriteString(fmt.Sprintf("%s Scanning content...\n", m.spinner.View()))
		return b.String()
	}
	d := m.data

	b.WriteString(styles.LabelStyle.Render("Configuration"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Content directory: %s\n", styles.ValueStyle.Render(d.ContentDir)))
	b.WriteString(fmt.Sprintf("  Output directory:  %s\n", styles.ValueStyle.Render(d.OutputDir)))
	b.WriteString(fmt.Sprintf("  Base path:         %s\n", styles.ValueStyle.Render(d.BasePath)))
	b.WriteString(fmt.Sprintf("  Watch interval:    %s\n", styles.ValueStyle.Render(d.Interval.String())))
	b.WriteString("\n")

	counts := map[string]int{}
	var pending []site.PageState
	for _, p := range d.Pages {
		counts[p.Status]++
		if p.Status != site.StatusUpToDate {
			pending = append(pending, p)
		}
	}

	b.WriteString(styles.LabelStyle.Render("Pages"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  Total:      %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", len(d.Pages)))))
	b.WriteString(fmt.Sprintf("  Up to date: %s\n", styles.SuccessStyle.Render(fmt.Sprintf("%d", counts[site.StatusUpToDate]))))
	if len(pending) == 0 {
		b.WriteString(fmt.Sprintf("  %s\n", styles.SuccessStyle.Render("✓ Nothing to build")))
	} else {
		for i, p := range pending {
			if i == maxPendingShown {
				b.WriteString(styles.DimStyle.Render(fmt.Sprintf("  ... and %d more", len(pending)-maxPendingShown)))
				b.WriteString("\n")
				break
			}
			b.WriteString(fmt.Sprintf("  %s %s\n", StatusStyle(p.Status).Render(StatusIcon(p.Status)), p.Source))
		}
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Last Build"))
	b.WriteString("\n")
	if d.BuildID == "" {
		b.WriteString(fmt.Sprintf("  %s\n", styles.HelpStyle.Render("Never built")))
	} else {
		b.WriteString(fmt.Sprintf("  ID:   %s\n", styles.ValueStyle.Render(d.BuildID)))
		b.WriteString(fmt.Sprintf("  When: %s\n", styles.ValueStyle.Render(d.BuiltAt.Local().Format(time.DateTime))))
	}
	b.WriteString("\n")

	b.WriteString(styles.LabelStyle.Render("Watcher"))
	b.WriteString("\n")
	if d.Running {
		b.WriteString(fmt.Sprintf("  Status: %s\n", styles.SuccessStyle.Render("● Running")))
		b.WriteString(fmt.Sprintf("  PID:    %s\n", styles.ValueStyle.Render(fmt.Sprintf("%d", d.PID))))
		if !d.LastBuild.IsZero() {
			b.WriteString(fmt.Sprintf("  Last build: %s ago\n", styles.ValueStyle.Render(time.Since(d.LastBuild).Round(time.Second).String())))
		}
	} else {
		b.WriteString(fmt.Sprintf("  Status: %s\n", styles.HelpStyle.Render("○ Not running")))
	}
	if len(d.LogLines) > 0 {
		b.WriteString("\n")
		b.WriteString(styles.LabelStyle.Render("Recent Logs"))
		b.WriteString("\n")
		for _, line := range d.LogLines {
			if line == "" {
				continue
			}
			b.WriteString("  " + line + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(styles.HelpStyle.Render("q quit"))
	b.WriteString("\n")

	return b.String()
}

// StatusIcon returns the marker shown next to a page status
func StatusIcon(status string) string {
	switch status {
	case site.StatusUpToDate:
		return "✓"
	case site.StatusStale:
		return "→"
	case site.StatusNew:
		return "+"
	case site.StatusMissing:
		return "!"
	default:
		return "?"
	}
}

// StatusStyle returns the color used for a page status
func StatusStyle(status string) lipgloss.Style {
	switch status {
	case site.StatusUpToDate:
		return styles.SuccessStyle
	case site.StatusStale:
		return styles.WarningStyle
	case site.StatusNew:
		return styles.InfoStyle
	case site.StatusMissing:
		return styles.ErrorStyle
	default:
		return styles.DimStyle
	}
}
