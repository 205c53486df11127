package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gerunddev/mdsite/internal/config"
	"github.com/gerunddev/mdsite/internal/styles"
)

const defaultTemplate = `<!DOCTYPE html>
<html>
  <head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>{{ Title }}</title>
    <link href="/index.css" rel="stylesheet" />
  </head>
  <body>
    <article>{{ Content }}</article>
  </body>
</html>
`

const defaultIndex = `# Hello

This site was generated by **mdsite**.

- Write pages in the content directory
- Put stylesheets and images in the static directory
`

const defaultStylesheet = `body {
  max-width: 45rem;
  margin: 2rem auto;
  font-family: sans-serif;
  line-height: 1.6;
}
`

// Init writes a project-local config and scaffolds the site directories
func Init(args []string) {
	cfg := config.DefaultConfig()
	if base := flagValue(args, "--base"); base != "" {
		cfg.BasePath = config.NormalizeBasePath(base)
	}

	created, err := Scaffold(".", cfg)
	if err != nil {
		fatal("Error initializing site: " + err.Error())
	}

	if len(created) == 0 {
		fmt.Println(styles.DimStyle.Render("Site already initialized"))
		return
	}
	for _, path := range created {
		fmt.Println(styles.SuccessStyle.Render("✓ Created " + path))
	}
}

// Scaffold creates the config, template, a first page and a stylesheet under
// root. Existing files are left untouched. It returns the files it created.
func Scaffold(root string, cfg *config.Config) ([]string, error) {
	var created []string

	configPath := filepath.Join(root, config.LocalConfigName)
	if !exists(configPath) {
		if err := cfg.SaveFile(configPath); err != nil {
			return created, err
		}
		created = append(created, configPath)
	}

	files := []struct {
		path    string
		content string
	}{
		{filepath.Join(root, cfg.TemplatePath), defaultTemplate},
		{filepath.Join(root, cfg.ContentDir, "index.md"), defaultIndex},
		{filepath.Join(root, cfg.StaticDir, "index.css"), defaultStylesheet},
	}

	for _, f := range files {
		if exists(f.path) {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
			return created, err
		}
		if err := os.WriteFile(f.path, []byte(f.content), 0644); err != nil {
			return created, err
		}
		created = append(created, f.path)
	}

	return created, nil
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
