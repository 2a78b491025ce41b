// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRuntime executes tool scripts in the embedded mvdan/sh interpreter.
// It needs no shell on the host, which makes it the fallback when the native
// runtime finds none.
type VirtualRuntime struct{}

// NewVirtualRuntime creates a new virtual runtime
func NewVirtualRuntime() *VirtualRuntime {
	return &VirtualRuntime{}
}

// Name returns the runtime name
func (r *VirtualRuntime) Name() string {
	return "virtual"
}

// Available returns whether this runtime is available
func (r *VirtualRuntime) Available() bool {
	// Virtual runtime is always available as it's built-in
	return true
}

// Validate checks if a tool can be executed
func (r *VirtualRuntime) Validate(ctx *ExecutionContext) error {
	if ctx.Tool == nil {
		return fmt.Errorf("no tool selected for execution")
	}
	script := ctx.Tool.Script()
	if script == "" {
		return fmt.Errorf("tool %q has no script to execute", ctx.Tool.DisplayName())
	}

	_, err := syntax.NewParser().Parse(strings.NewReader(script), "script")
	if err != nil {
		return fmt.Errorf("script syntax error: %w", err)
	}

	return nil
}

// Execute runs a tool script in the embedded interpreter
func (r *VirtualRuntime) Execute(ctx *ExecutionContext) *Result {
	return r.run(ctx, ctx.Stdin, ctx.Stdout, ctx.Stderr, nil)
}

// ExecuteCapture runs a tool script and captures its output
func (r *VirtualRuntime) ExecuteCapture(ctx *ExecutionContext) *Result {
	var stdout, stderr bytes.Buffer
	result := r.run(ctx, nil, &stdout, &stderr, nil)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	return result
}

func (r *VirtualRuntime) run(ctx *ExecutionContext, stdin io.Reader, stdout, stderr io.Writer, extraOpts []interp.RunnerOption) *Result {
	prog, err := syntax.NewParser().Parse(strings.NewReader(ctx.Tool.Script()), "script")
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to parse script: %w", err))
	}

	env, err := buildRuntimeEnv(ctx)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to build environment: %w", err))
	}
	environ := append(FilterToolbeltEnvVars(os.Environ()), EnvToSlice(env)...)

	opts := []interp.RunnerOption{
		interp.Dir(getWorkDir(ctx)),
		interp.Env(expand.ListEnviron(environ...)),
		interp.StdIO(stdin, stdout, stderr),
	}

	// Prepend "--" to signal end of options; without this, args like "-v"
	// are interpreted as shell options by interp.Params()
	if positional := positionalArgs(ctx); len(positional) > 0 {
		params := append([]string{"--"}, positional...)
		opts = append(opts, interp.Params(params...))
	}
	opts = append(opts, extraOpts...)

	runner, err := interp.New(opts...)
	if err != nil {
		return NewErrorResult(1, fmt.Errorf("failed to create interpreter: %w", err))
	}

	execCtx := ctx.Context
	if execCtx == nil {
		execCtx = context.Background()
	}

	if err := runner.Run(execCtx, prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			return NewExitCodeResult(ExitCode(exitStatus))
		}
		return NewErrorResult(1, fmt.Errorf("script execution failed: %w", err))
	}

	return NewSuccessResult()
}
