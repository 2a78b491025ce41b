// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"toolbelt-cli/internal/config"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage toolbelt configuration",
		Long: `Manage the toolbelt configuration file.

The configuration file lives at $HOME/.config/toolbelt/config.cue on Linux
(or the platform equivalent) and registers search paths, tool paths and UI
preferences.`,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE:  showConfig,
	}

	configPathCmd = &cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		RunE:  showConfigPath,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		RunE:  initConfig,
	}

	configDumpCmd = &cobra.Command{
		Use:   "dump",
		Short: "Dump the effective configuration as CUE",
		RunE:  dumpConfig,
	}
)

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configDumpCmd)
}

func showConfig(cmd *cobra.Command, _ []string) error {
	cfg := config.Get()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, TitleStyle.Render("Configuration"))
	if path := config.Path(); path != "" {
		fmt.Fprintln(out, SubtitleStyle.Render("  loaded from: ")+path)
	} else {
		fmt.Fprintln(out, SubtitleStyle.Render("  loaded from: ")+"(defaults, no config file)")
	}

	fmt.Fprintln(out, SubtitleStyle.Render("Search paths:"))
	if len(cfg.SearchPaths) == 0 {
		fmt.Fprintln(out, "  (none, only the current directory is searched)")
	}
	for _, p := range cfg.SearchPaths {
		fmt.Fprintln(out, "  "+ToolStyle.Render(string(p)))
	}

	fmt.Fprintln(out, SubtitleStyle.Render("Tool paths:"))
	if len(cfg.ToolPaths) == 0 {
		fmt.Fprintln(out, "  (none)")
	}
	for _, p := range cfg.ToolPaths {
		fmt.Fprintln(out, "  "+ToolStyle.Render(string(p)))
	}

	dataDir := string(cfg.DataDirName)
	if dataDir == "" {
		dataDir = ".data (default)"
	}
	fmt.Fprintln(out, SubtitleStyle.Render("Data directory name: ")+dataDir)
	fmt.Fprintln(out, SubtitleStyle.Render("Color scheme: ")+string(cfg.UI.ColorScheme))
	fmt.Fprintf(out, "%s%t\n", SubtitleStyle.Render("Verbose: "), cfg.UI.Verbose)
	return nil
}

func showConfigPath(cmd *cobra.Command, _ []string) error {
	if path := config.Path(); path != "" {
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	}
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), dir+"/"+config.ConfigFileName+"."+config.ConfigFileExt)
	return nil
}

func initConfig(cmd *cobra.Command, _ []string) error {
	if err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("creating default config: %w", err)
	}
	config.Reset()
	dir, err := config.ConfigDir()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), SuccessStyle.Render("✓ ")+"Configuration ready in "+ToolStyle.Render(dir))
	return nil
}

func dumpConfig(cmd *cobra.Command, _ []string) error {
	fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(config.Get()))
	return nil
}
