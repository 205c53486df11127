package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/styles"
)

// BuildDoneMsg is sent when a build finishes
type BuildDoneMsg struct {
	Result *site.BuildResult
	Err    error
}

// BuildStatusMsg replaces the status line shown next to the spinner
type BuildStatusMsg string

// BuildModel is the Bubble Tea model for the build progress display
type BuildModel struct {
	spinner  spinner.Model
	status   string
	dryRun   bool
	complete bool
	result   *site.BuildResult
	err      error
}

// NewBuildModel creates a new build progress model
func NewBuildModel(dryRun bool) BuildModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle

	return BuildModel{
		spinner: s,
		status:  "Building site...",
		dryRun:  dryRun,
	}
}

func (m BuildModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m BuildModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case BuildStatusMsg:
		m.status = string(msg)
		return m, nil

	case BuildDoneMsg:
		m.complete = true
		m.result = msg.Result
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m BuildModel) View() string {
	if !m.complete {
		return fmt.Sprintf("\n%s %s\n\n", m.spinner.View(), m.status)
	}

	if m.err != nil {
		return styles.ErrorStyle.Render("✗ Build failed: "+m.err.Error()) + "\n"
	}

	r := m.result
	took := styles.HelpStyle.Render(fmt.Sprintf("Completed in %v", r.Duration().Round(time.Millisecond)))

	verb := "Generated"
	if m.dryRun {
		verb = "Would generate"
	}

	var msg string
	if r.PagesGenerated == 0 && len(r.Errors) == 0 {
		msg = styles.SuccessStyle.Render("✓ Site is up to date")
	} else {
		msg = styles.SuccessStyle.Render(fmt.Sprintf("✓ %s %d page(s)", verb, r.PagesGenerated))
	}
	if r.PagesSkipped > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d unchanged", r.PagesSkipped))
	}
	if r.AssetsCopied > 0 {
		msg += ", " + styles.DimStyle.Render(fmt.Sprintf("%d asset(s) copied", r.AssetsCopied))
	}
	if r.Drafts > 0 {
		msg += ", " + styles.WarningStyle.Render(fmt.Sprintf("%d draft(s)", r.Drafts))
	}
	if len(r.Errors) > 0 {
		msg += ", " + styles.ErrorStyle.Render(fmt.Sprintf("%d error(s)", len(r.Errors)))
	}
	msg += "\n"

	for _, err := range r.Errors {
		msg += styles.ErrorStyle.Render("  ✗ "+err.Error()) + "\n"
	}

	return msg + took + "\n"
}

// Result returns the finished build, or nil while it is running
func (m BuildModel) Result() (*site.BuildResult, error) {
	return m.result, m.err
}
