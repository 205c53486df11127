package commands

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/daemon"
	"github.com/gerunddev/mdsite/internal/diff"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// logTailLines is how much of the log the status view shows
const logTailLines = 8

// Status shows pending pages, the last build and the watcher
func Status() {
	cfg, st := mustLoad("")

	p := tea.NewProgram(tui.NewStatusModel(), tea.WithInput(os.Stdin))

	go func() {
		data, err := CollectStatus(cfg, st)
		p.Send(tui.StatusMsg{Data: data, Err: err})
	}()

	if _, err := p.Run(); err != nil {
		fatal("Error: " + err.Error())
	}
}

// CollectStatus gathers everything the status view shows
func CollectStatus(cfg *config.Config, st *state.State) (*tui.StatusData, error) {
	pages, err := site.NewBuilder(cfg, st).Inspect()
	if err != nil {
		return nil, err
	}

	data := &tui.StatusData{
		ContentDir: cfg.ContentDir,
		OutputDir:  cfg.OutputDir,
		BasePath:   cfg.BasePath,
		Interval:   cfg.Interval,
		Pages:      pages,
		BuildID:    st.BuildID,
		BuiltAt:    st.BuiltAt,
	}

	data.Running, data.PID, _ = daemon.IsRunning()
	if data.Running && cfg.LogFile != "" {
		data.LogLines, data.LastBuild, _ = ParseLogFile(cfg.LogFile, logTailLines)
	}

	return data, nil
}

// Browse opens the interactive page browser
func Browse() {
	cfg, st := mustLoad("")
	builder := site.NewBuilder(cfg, st)

	diffFunc := func(source string) (string, error) {
		return diff.Generate(cfg, source, diff.FormatRendered)
	}
	previewFunc := func(source string) (string, error) {
		page, err := builder.Render(source)
		if err != nil {
			return "", err
		}
		return page.HTML, nil
	}

	m := tui.NewBrowseModel(cfg.ContentDir, builder.Inspect, diffFunc, previewFunc)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fatal("Error: " + err.Error())
	}
}

// Diff prints what a rebuild would change in the output of one page
func Diff(args []string) {
	files := positional(args)
	if len(files) == 0 {
		fatal("Usage: mdsite diff FILE [--plain]")
	}
	cfg, _ := mustLoad("")

	format := diff.FormatRendered
	if hasFlag(args, "--plain") || !interactive() {
		format = diff.FormatPlain
	}

	source, err := resolveSource(cfg, files[0])
	if err != nil {
		fatal(err.Error())
	}

	out, err := diff.Generate(cfg, source, format)
	if err != nil {
		fatal("Error generating diff: " + err.Error())
	}
	if out == "" {
		fmt.Println(styles.SuccessStyle.Render("✓ Output is up to date"))
		return
	}
	fmt.Print(out)
}

// Preview shows the generated HTML of one page in a pager
func Preview(args []string) {
	files := positional(args, "--base")
	if len(files) == 0 {
		fatal("Usage: mdsite preview FILE [--base PATH]")
	}
	cfg, st := mustLoad(flagValue(args, "--base"))

	source, err := resolveSource(cfg, files[0])
	if err != nil {
		fatal(err.Error())
	}

	page, err := site.NewBuilder(cfg, st).Render(source)
	if err != nil {
		fatal("Error generating page: " + err.Error())
	}

	if !interactive() {
		fmt.Print(page.HTML)
		return
	}

	title := fmt.Sprintf("Preview: %s (%s)", filepath.Base(source), page.Title)
	m := tui.NewPagerModel(title, page.HTML)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fatal("Error: " + err.Error())
	}
}

// resolveSource accepts a path as given or relative to the content directory
func resolveSource(cfg *config.Config, file string) (string, error) {
	candidates := []string{file, filepath.Join(cfg.ContentDir, file)}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return filepath.Abs(c)
		}
	}
	return "", fmt.Errorf("no such page: %s", file)
}
