// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"toolbelt-cli/pkg/platform"
)

// NativeRuntime executes tool scripts using the system's default shell
type NativeRuntime struct {
	// Shell overrides the default shell
	Shell string
	// ShellArgs are arguments passed to the shell before the script
	ShellArgs []string
}

// NewNativeRuntime creates a new native runtime
func NewNativeRuntime() *NativeRuntime {
	return &NativeRuntime{}
}

// Name returns the runtime name
func (r *NativeRuntime) Name() string {
	return "native"
}

// Available returns whether this runtime is available
func (r *NativeRuntime) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Validate checks if a tool can be executed
func (r *NativeRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Tool == nil {
		return fmt.Errorf("no tool selected for execution")
	}
	if ctx.Tool.Script() == "" {
		return fmt.Errorf("tool %q has no script to execute", ctx.Tool.DisplayName())
	}
	return nil
}

// Execute runs a tool script using the system shell
func (r *NativeRuntime) Execute(ctx *ExecutionContext) *Result {
	cmd, err := r.prepare(ctx, ctx.Stdout, ctx.Stderr, ctx.Stdin)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute tool: %w", err))
	}

	return NewSuccessResult()
}

// ExecuteCapture runs a tool script and captures its output
func (r *NativeRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	var stdout, stderr bytes.Buffer

	cmd, err := r.prepare(ctx, &stdout, &stderr, nil)
	if err != nil {
		return NewErrorResult(1, err)
	}

	err = cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = ExitCode(exitErr.ExitCode())
		} else {
			result.ExitCode = 1
			result.Error = err
		}
	}

	return result
}

// prepare builds the exec.Cmd for a tool invocation.
func (r *NativeRuntime) prepare(ctx *ExecutionContext, stdout, stderr io.Writer, stdin io.Reader) (*exec.Cmd, error) {
	shell, err := r.getShell()
	if err != nil {
		return nil, err
	}

	args := r.getShellArgs(shell)
	args = append(args, ctx.Tool.Script())
	args = r.appendPositionalArgs(shell, args, positionalArgs(ctx))

	cmd := sandboxCommand(ctx.Context, platform.DetectSandbox(), shell, args)

	if workDir := getWorkDir(ctx); workDir != "" {
		cmd.Dir = workDir
	}

	env, err := buildRuntimeEnv(ctx)
	if err != nil {
		return nil, err
	}
	cmd.Env = append(FilterToolbeltEnvVars(os.Environ()), EnvToSlice(env)...)

	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.Stdin = stdin

	return cmd, nil
}

// sandboxCommand builds the exec.Cmd for a shell invocation. Inside an
// application sandbox (Flatpak, Snap) the shell is spawned through the
// sandbox's host-escape command so tools run against the host system.
func sandboxCommand(ctx context.Context, st platform.SandboxType, shell string, args []string) *exec.Cmd {
	if spawn := platform.SpawnCommandFor(st); spawn != "" {
		argv := append(platform.SpawnArgsFor(st), shell)
		argv = append(argv, args...)
		return exec.CommandContext(ctx, spawn, argv...)
	}
	return exec.CommandContext(ctx, shell, args...)
}

// getShell determines which shell to use
func (r *NativeRuntime) getShell() (string, error) {
	if r.Shell != "" {
		return r.Shell, nil
	}

	switch runtime.GOOS {
	case platform.Windows:
		// Try PowerShell first, then cmd
		if pwsh, err := exec.LookPath("pwsh"); err == nil {
			return pwsh, nil
		}
		if ps, err := exec.LookPath("powershell"); err == nil {
			return ps, nil
		}
		return exec.LookPath("cmd")
	default:
		// Unix-like: use SHELL env var, or fall back to common shells
		if shell := os.Getenv("SHELL"); shell != "" {
			return shell, nil
		}
		if bash, err := exec.LookPath("bash"); err == nil {
			return bash, nil
		}
		if sh, err := exec.LookPath("sh"); err == nil {
			return sh, nil
		}
		return "", fmt.Errorf("no shell found")
	}
}

// getShellArgs returns the arguments to pass to the shell
func (r *NativeRuntime) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return r.ShellArgs
	}

	base := filepath.Base(shell)
	base = strings.TrimSuffix(base, ".exe")

	switch base {
	case "cmd":
		return []string{"/C"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		// Assume POSIX shell
		return []string{"-c"}
	}
}

// appendPositionalArgs appends positional arguments after the script for shell access.
// For POSIX shells (bash, sh, zsh): args become $1, $2, ... (with "toolbelt" as $0)
// For PowerShell: args become $args[0], $args[1], ...
// For cmd.exe: no change (doesn't support inline positional args)
func (r *NativeRuntime) appendPositionalArgs(shell string, args []string, positional []string) []string {
	if len(positional) == 0 {
		return args
	}

	// Extract base name, handling both Unix and Windows path separators
	base := filepath.Base(shell)
	if lastSlash := strings.LastIndex(base, "\\"); lastSlash >= 0 {
		base = base[lastSlash+1:]
	}
	base = strings.TrimSuffix(base, ".exe")

	switch base {
	case "cmd":
		// cmd.exe doesn't support passing args after /C "script"
		// Scripts must use environment variables instead
		return args
	case "powershell", "pwsh":
		// PowerShell: args after -Command are available via $args array
		return append(args, positional...)
	default:
		// POSIX shells: bash -c 'script' $0 $1 $2 ...
		args = append(args, "toolbelt") // $0 placeholder
		return append(args, positional...)
	}
}

// positionalArgs returns the raw invocation arguments for $1, $2, etc.
func positionalArgs(ctx *ExecutionContext) []string {
	if ctx.Args == nil {
		return nil
	}
	return ctx.Args.Raw
}

// getWorkDir determines the working directory. The override from the CLI
// wins; otherwise scripts run in the directory of the file that defined the
// tool, so relative paths inside a script resolve next to its definition.
func getWorkDir(ctx *ExecutionContext) string {
	if ctx.WorkDir != "" {
		return ctx.WorkDir
	}
	if src := ctx.Tool.Source(); src != nil {
		return src.ContextDir()
	}
	return ""
}
