// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"os"

	"github.com/charmbracelet/log"

	"toolbelt-cli/internal/config"
	"toolbelt-cli/internal/loader"
)

// buildLoader assembles the tool loader from the effective configuration.
// Registration order decides shadowing: the current directory wins over
// configured search paths, which win over the user tools directory, which
// wins over explicitly configured tool paths.
func buildLoader(cfg *config.Config) (*loader.Loader, error) {
	var opts []loader.Option
	if cfg.DataDirName != "" {
		opts = append(opts, loader.WithDataDirName(string(cfg.DataDirName)))
	}
	l := loader.New(opts...)

	if cwd, err := os.Getwd(); err == nil {
		log.Debug("registering search path", "dir", cwd)
		if err := l.AddSearchPath(cwd); err != nil {
			return nil, err
		}
	}

	for _, dir := range cfg.SearchPaths {
		if err := l.AddSearchPath(string(dir)); err != nil {
			return nil, err
		}
	}

	if toolsDir, err := config.ToolsDir(); err == nil {
		if _, statErr := os.Stat(toolsDir); statErr == nil {
			log.Debug("registering tools directory", "dir", toolsDir)
			if err := l.AddPath(toolsDir); err != nil {
				return nil, err
			}
		}
	}

	for _, path := range cfg.ToolPaths {
		if err := l.AddPath(string(path)); err != nil {
			return nil, err
		}
	}

	return l, nil
}

// issueStyle maps the configured color scheme to a glamour style name.
func issueStyle(cfg *config.Config) string {
	switch cfg.UI.ColorScheme {
	case config.ColorSchemeLight:
		return "light"
	case config.ColorSchemeDark:
		return "dark"
	default:
		return "auto"
	}
}
