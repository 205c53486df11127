package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/site"
	"github.com/gerunddev/mdsite/internal/state"
	"github.com/gerunddev/mdsite/internal/styles"
	"github.com/gerunddev/mdsite/internal/tui"
)

// BuildArgs are the parsed arguments of the build command
type BuildArgs struct {
	Clean    bool
	Force    bool
	DryRun   bool
	BasePath string
}

// ParseBuildArgs parses `build [--clean] [--force] [--dry-run] [--base PATH] [PATH]`.
// A bare positional argument is taken as the base path.
func ParseBuildArgs(args []string) BuildArgs {
	ba := BuildArgs{
		Clean:    hasFlag(args, "--clean"),
		Force:    hasFlag(args, "--force"),
		DryRun:   hasFlag(args, "--dry-run"),
		BasePath: flagValue(args, "--base"),
	}
	if ba.BasePath == "" {
		if rest := positional(args, "--base"); len(rest) > 0 {
			ba.BasePath = rest[0]
		}
	}
	return ba
}

// Build performs a one-shot site build
func Build(args []string) {
	ba := ParseBuildArgs(args)
	cfg, st := mustLoad(ba.BasePath)

	log, cleanup := fileLogger(cfg)
	defer cleanup()

	builder := site.NewBuilder(cfg, st)
	builder.SetLogger(log)
	builder.DryRun = ba.DryRun
	opts := site.Options{Clean: ba.Clean, Force: ba.Force}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		result *site.BuildResult
		err    error
	)
	if interactive() {
		result, err = buildWithSpinner(ctx, builder, opts, cfg, ba.DryRun)
	} else {
		result, err = builder.Build(ctx, opts)
		printResult(result, err)
	}

	if err != nil {
		os.Exit(1)
	}
	if !ba.DryRun {
		saveState(cfg, st)
	}
	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}

// buildWithSpinner runs the build behind the progress TUI
func buildWithSpinner(ctx context.Context, builder *site.Builder, opts site.Options, cfg *config.Config, dryRun bool) (*site.BuildResult, error) {
	title := "mdsite build"
	if dryRun {
		title += " (dry run)"
	}
	fmt.Println(styles.TitleStyle.Render(title))
	fmt.Printf("%s → %s\n", styles.DimStyle.Render(cfg.ContentDir), styles.DimStyle.Render(cfg.OutputDir))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := tui.NewBuildModel(dryRun)
	p := tea.NewProgram(m, tea.WithInput(os.Stdin))

	go func() {
		if opts.Clean {
			p.Send(tui.BuildStatusMsg("Cleaning " + cfg.OutputDir + "..."))
		}
		result, err := builder.Build(ctx, opts)
		p.Send(tui.BuildDoneMsg{Result: result, Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Error: " + err.Error()))
		return nil, err
	}

	result, buildErr := final.(tui.BuildModel).Result()
	if result == nil && buildErr == nil {
		// Quit before the build finished
		return nil, context.Canceled
	}
	return result, buildErr
}

// printResult writes a plain summary for non-interactive output
func printResult(result *site.BuildResult, err error) {
	if err != nil {
		fmt.Println(styles.ErrorStyle.Render("✗ Build failed: " + err.Error()))
		return
	}
	for _, pageErr := range result.Errors {
		fmt.Println(styles.ErrorStyle.Render("✗ " + pageErr.Error()))
	}
	fmt.Println(result.String())
}

func saveState(cfg *config.Config, st *state.State) {
	if err := st.Save(cfg.StateFilePath()); err != nil {
		fatal("Error saving state: " + err.Error())
	}
}
