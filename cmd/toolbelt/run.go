// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"toolbelt-cli/internal/config"
	"toolbelt-cli/internal/issue"
	"toolbelt-cli/internal/runtime"
	"toolbelt-cli/pkg/tooldef"
)

var (
	runRuntimeType string
	runWorkDir     string
	runEnvFiles    []string
	runEnvVars     []string

	runCmd = &cobra.Command{
		Use:   "run <tool> [args...]",
		Short: "Run a tool",
		Long: `Run a tool defined in a toolbelt file.

The longest prefix of the arguments naming a known tool selects the tool;
everything after it is passed to the tool as its own flags and arguments.

Examples:
  toolbelt run build
  toolbelt run db migrate --dry-run
  toolbelt run deploy prod -- --raw-flag`,
		Args: cobra.MinimumNArgs(1),
		RunE: runTool,
	}
)

func init() {
	// Flags after the tool name belong to the tool, not to toolbelt.
	runCmd.Flags().SetInterspersed(false)

	runCmd.Flags().StringVarP(&runRuntimeType, "runtime", "r", "", "runtime to use (native, virtual)")
	runCmd.Flags().StringVarP(&runWorkDir, "workdir", "w", "", "working directory for the tool")
	runCmd.Flags().StringArrayVar(&runEnvFiles, "env-file", nil, "dotenv file to load (repeatable, suffix with ? for optional)")
	runCmd.Flags().StringArrayVarP(&runEnvVars, "env", "e", nil, "extra environment variable KEY=VALUE (repeatable)")
}

func runTool(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	ld, err := buildLoader(cfg)
	if err != nil {
		return fmt.Errorf("setting up tool lookup: %w", err)
	}

	tool, remaining, err := ld.Lookup(args)
	if err != nil {
		return formatLookupError(cfg, err)
	}
	if !tool.Runnable() {
		printIssue(cmd, cfg, issue.ToolNotFoundId)
		return &ExitError{Code: 1, Err: fmt.Errorf("tool %q not found", strings.Join(args, " "))}
	}

	result, err := parseInvocation(tool, remaining)
	if err != nil {
		var parseErrs tooldef.ArgParsingError
		if errors.As(err, &parseErrs) {
			for _, pe := range parseErrs {
				fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+pe.Error())
			}
			fmt.Fprintln(cmd.ErrOrStderr(), SubtitleStyle.Render(
				fmt.Sprintf("Run 'toolbelt describe %s' to see the tool's flags and arguments.", tool.DisplayName())))
			return &ExitError{Code: 2, Err: fmt.Errorf("invalid invocation of %q", tool.DisplayName())}
		}
		return err
	}

	execCtx := runtime.NewExecutionContext(tool, result)
	execCtx.Context = cmd.Context()
	execCtx.WorkDir = runWorkDir
	execCtx.EnvFiles = runEnvFiles
	execCtx.Verbose = verbose
	for _, kv := range runEnvVars {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --env value %q, expected KEY=VALUE", kv)
		}
		execCtx.ExtraEnv[key] = value
	}

	typ := runtime.RuntimeTypeNative
	if runRuntimeType != "" {
		typ = runtime.RuntimeType(runRuntimeType)
	}

	log.Debug("running tool",
		"tool", tool.DisplayName(),
		"runtime", typ,
		"source", tool.Source().DisplayName())

	res := runtime.DefaultRegistry().Execute(typ, execCtx)
	if res.Error != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), ErrorStyle.Render("Error: ")+formatErrorForDisplay(res.Error, verbose))
		return &ExitError{Code: res.ExitCode, Err: res.Error}
	}
	if !res.Success() {
		return &ExitError{Code: res.ExitCode}
	}
	return nil
}

// parseInvocation parses the tool's own argument list against its
// definition.
func parseInvocation(tool *tooldef.Tool, args []string) (*tooldef.ParseResult, error) {
	parser := tooldef.NewArgParser(tool)
	return parser.Parse(args)
}

// formatLookupError turns a loader failure into an actionable CLI error.
func formatLookupError(cfg *config.Config, err error) error {
	if strings.Contains(err.Error(), "alias loop") || strings.Contains(err.Error(), "alias chain") {
		if iss := issue.Get(issue.AliasLoopId); iss != nil {
			if rendered, rerr := iss.Render(issueStyle(cfg)); rerr == nil {
				fmt.Fprint(os.Stderr, rendered)
			}
		}
	}
	return issue.NewErrorContext().
		WithOperation("looking up tool").
		WithSuggestion("Run 'toolbelt list' to see the available tools").
		Wrap(err).
		Build()
}

// printIssue renders an entry from the issue catalog to stderr.
func printIssue(cmd *cobra.Command, cfg *config.Config, id issue.Id) {
	iss := issue.Get(id)
	if iss == nil {
		return
	}
	rendered, err := iss.Render(issueStyle(cfg))
	if err != nil {
		rendered = string(iss.MarkdownMsg())
	}
	fmt.Fprint(cmd.ErrOrStderr(), rendered)
}
