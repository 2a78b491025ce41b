// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"toolbelt-cli/internal/loader"
)

var (
	initForce bool

	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Create a starter toolbelt file in the current directory",
		Long: `Create a starter ` + loader.DefaultDotFileName + ` in the current directory.

The starter file defines an example tool to copy from. Tools defined in the
current directory shadow same-named tools from configured search paths.`,
		RunE: runInit,
	}
)

// starterToolfile is the content written by 'toolbelt init'.
const starterToolfile = `desc: "Project tools"

tools: {
	hello: {
		desc: "Say hello"
		flags: [
			{key: "shout", desc: "Shout the greeting"},
		]
		optional_args: [
			{key: "name", default: "world", desc: "Who to greet"},
		]
		script: """
			greeting="hello $TOOLBELT_ARG_NAME"
			if [ "$TOOLBELT_OPT_SHOUT" = "true" ]; then
				greeting=$(echo "$greeting" | tr '[:lower:]' '[:upper:]')
			fi
			echo "$greeting"
			"""
	}
}
`

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}

func runInit(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}
	path := filepath.Join(cwd, loader.DefaultDotFileName)

	if _, err := os.Stat(path); err == nil && !initForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", loader.DefaultDotFileName)
	}

	if err := os.WriteFile(path, []byte(starterToolfile), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, SuccessStyle.Render("✓ ")+"Created "+ToolStyle.Render(loader.DefaultDotFileName))
	fmt.Fprintln(out, SubtitleStyle.Render("  Try it: ")+"toolbelt run hello")
	return nil
}
