package main

import (
	"fmt"
	"os"

	"github.com/gerunddev/mdsite/internal/commands"
	"github.com/gerunddev/mdsite/internal/config"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "build":
		commands.Build(args)
	case "watch":
		commands.Watch(args)
	case "start":
		commands.Start(args)
	case "stop":
		commands.Stop()
	case "status":
		commands.Status()
	case "browse", "pages":
		commands.Browse()
	case "diff":
		commands.Diff(args)
	case "preview":
		commands.Preview(args)
	case "init":
		commands.Init(args)
	case "version", "-v", "--version":
		fmt.Printf("mdsite v%s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	usage := fmt.Sprintf(`mdsite - Static site generator for Markdown

Usage:
  mdsite <command> [options]

Commands:
  build       Build the site (--clean, --force, --dry-run, --base PATH)
  watch       Rebuild in the foreground every interval (--interval 30s)
  start       Start the watcher in the background
  stop        Stop the background watcher
  status      Show pending pages, the last build and the watcher
  browse      Browse pages with their pending diffs and previews
  diff        Show what a rebuild would change in one page (--plain)
  preview     Show the generated HTML of one page
  init        Create mdsite.json, a template and a first page
  version     Show version information
  help        Show this help message

Examples:
  mdsite init
  mdsite build
  mdsite build --clean --base /my-repo/
  mdsite diff blog/post.md
  mdsite start --interval 10s
  mdsite stop

Configuration:
  Config file: %s
  Local file:  ./%s (takes precedence)
`, config.ConfigPath(), config.LocalConfigName)
	fmt.Print(usage)
}
