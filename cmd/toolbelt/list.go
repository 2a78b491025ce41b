// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"toolbelt-cli/internal/config"
	"toolbelt-cli/pkg/tooldef"
)

var (
	listAll bool

	listCmd = &cobra.Command{
		Use:   "list [namespace...]",
		Short: "List available tools",
		Long: `List the tools defined in the registered search paths.

Without arguments, lists the top-level tools. With a namespace, lists the
tools directly under it. Use --all to list the whole subtree.`,
		RunE: listTools,
	}
)

func init() {
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "list tools recursively")
}

func listTools(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	ld, err := buildLoader(cfg)
	if err != nil {
		return fmt.Errorf("setting up tool lookup: %w", err)
	}

	tools, err := ld.ListSubtools(args, listAll)
	if err != nil {
		return formatLookupError(cfg, err)
	}

	out := cmd.OutOrStdout()
	header := "Available tools"
	if len(args) > 0 {
		header = fmt.Sprintf("Tools under %q", strings.Join(args, " "))
	}
	fmt.Fprintln(out, TitleStyle.Render(header))

	width := 0
	for _, t := range tools {
		if n := len(listName(t, args)); n > width {
			width = n
		}
	}

	for _, t := range tools {
		name := listName(t, args)
		line := "  " + ToolStyle.Render(name) + strings.Repeat(" ", width-len(name)+2)
		if desc := t.ShortDesc(); desc != "" {
			line += desc
		} else if !t.Runnable() {
			line += SubtitleStyle.Render("(namespace)")
		}
		fmt.Fprintln(out, line)
	}

	if len(tools) == 0 {
		fmt.Fprintln(out, SubtitleStyle.Render("  No tools found. Run 'toolbelt init' to create a starter file."))
	}
	return nil
}

// listName renders a tool's name relative to the listed namespace.
func listName(t *tooldef.Tool, ns []string) string {
	full := t.FullName()
	if len(full) > len(ns) {
		full = full[len(ns):]
	}
	return strings.Join(full, " ")
}
