// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"toolbelt-cli/pkg/tooldef"
)

// Runtime type constants for the execution environments.
const (
	RuntimeTypeNative  RuntimeType = "native"
	RuntimeTypeVirtual RuntimeType = "virtual"
)

type (
	// ExecutionContext contains all information needed to execute a tool
	ExecutionContext struct {
		// Tool is the tool to execute
		Tool *tooldef.Tool
		// Args is the parsed invocation
		Args *tooldef.ParseResult
		// Context is the Go context for cancellation
		Context context.Context
		// Stdout is where to write standard output
		Stdout io.Writer
		// Stderr is where to write standard error
		Stderr io.Writer
		// Stdin is where to read standard input
		Stdin io.Reader
		// ExtraEnv contains additional environment variables
		ExtraEnv map[string]string
		// EnvFiles contains dotenv file paths specified via --env-file.
		// They are loaded after the parsed invocation but before ExtraEnv.
		EnvFiles []string
		// WorkDir overrides the working directory
		WorkDir string
		// Verbose enables verbose output
		Verbose bool
	}

	// Result contains the result of a tool execution
	Result struct {
		// ExitCode is the exit code of the tool
		ExitCode ExitCode
		// Error contains any error that occurred
		Error error
		// Output contains captured stdout (if captured)
		Output string
		// ErrOutput contains captured stderr (if captured)
		ErrOutput string
	}

	// Runtime defines the interface for tool execution
	Runtime interface {
		// Name returns the runtime name
		Name() string
		// Execute runs a tool in this runtime
		Execute(ctx *ExecutionContext) *Result
		// Available returns whether this runtime is available on the current system
		Available() bool
		// Validate checks if a tool can be executed with this runtime
		Validate(ctx *ExecutionContext) error
	}

	// CapturingRuntime is implemented by runtimes that support capturing output.
	CapturingRuntime interface {
		// ExecuteCapture runs a tool and captures stdout/stderr.
		ExecuteCapture(ctx *ExecutionContext) *Result
	}

	// RuntimeType identifies the type of runtime.
	//
	//nolint:revive // RuntimeType is more descriptive than Type for external callers
	RuntimeType string

	// Registry holds all available runtimes
	Registry struct {
		runtimes map[RuntimeType]Runtime
	}
)

// NewExecutionContext creates a new execution context with defaults
func NewExecutionContext(tool *tooldef.Tool, args *tooldef.ParseResult) *ExecutionContext {
	return &ExecutionContext{
		Tool:     tool,
		Args:     args,
		Context:  context.Background(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stdin:    os.Stdin,
		ExtraEnv: make(map[string]string),
	}
}

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Success returns true if the tool executed successfully
func (r *Result) Success() bool {
	return r.ExitCode.IsSuccess() && r.Error == nil
}

// NewRegistry creates a new runtime registry
func NewRegistry() *Registry {
	return &Registry{
		runtimes: make(map[RuntimeType]Runtime),
	}
}

// DefaultRegistry creates a registry with the native and virtual runtimes registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(RuntimeTypeNative, NewNativeRuntime())
	r.Register(RuntimeTypeVirtual, NewVirtualRuntime())
	return r
}

// Register adds a runtime to the registry
func (r *Registry) Register(typ RuntimeType, rt Runtime) {
	r.runtimes[typ] = rt
}

// Get returns a runtime by type
func (r *Registry) Get(typ RuntimeType) (Runtime, error) {
	rt, ok := r.runtimes[typ]
	if !ok {
		return nil, fmt.Errorf("runtime '%s' not registered", typ)
	}
	return rt, nil
}

// Available returns all available runtimes
func (r *Registry) Available() []RuntimeType {
	var types []RuntimeType
	for typ, rt := range r.runtimes {
		if rt.Available() {
			types = append(types, typ)
		}
	}
	return types
}

// Execute runs a tool using the named runtime, falling back from native to
// virtual when no host shell is available.
func (r *Registry) Execute(typ RuntimeType, ctx *ExecutionContext) *Result {
	rt, err := r.Get(typ)
	if err != nil {
		return NewErrorResult(1, err)
	}

	if !rt.Available() {
		if typ == RuntimeTypeNative {
			if fallback, fbErr := r.Get(RuntimeTypeVirtual); fbErr == nil {
				rt = fallback
			}
		}
		if !rt.Available() {
			return NewErrorResult(1, fmt.Errorf("runtime '%s' is not available on this system", rt.Name()))
		}
	}

	if err := rt.Validate(ctx); err != nil {
		return NewErrorResult(1, err)
	}

	return rt.Execute(ctx)
}

// EnvToSlice converts a map of environment variables to a slice
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	return result
}

// FilterToolbeltEnvVars filters out toolbelt-specific environment variables
// from the given environment slice. This prevents leakage of TOOLBELT_OPT_*
// and TOOLBELT_ARG_* variables when a tool's script invokes another tool.
func FilterToolbeltEnvVars(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, found := strings.Cut(e, "=")
		if found && shouldFilterEnvVar(name) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// shouldFilterEnvVar returns true if the environment variable name should be
// filtered to prevent leakage between nested tool invocations.
func shouldFilterEnvVar(name string) bool {
	return strings.HasPrefix(name, "TOOLBELT_OPT_") ||
		strings.HasPrefix(name, "TOOLBELT_ARG_") ||
		name == "TOOLBELT_TOOL" ||
		name == "TOOLBELT_ARGC"
}
