// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"runtime"
	"strings"
	"testing"

	"toolbelt-cli/pkg/platform"
)

func TestNativeRuntime_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("no shell available")
	}

	tool := scriptTool(t, `echo "hello $TOOLBELT_ARG_TARGET"`)
	res := parseArgs(t, tool, []string{"world"})

	result := rt.ExecuteCapture(NewExecutionContext(tool, res))
	if !result.Success() {
		t.Fatalf("execution failed: exit=%d err=%v stderr=%s", result.ExitCode, result.Error, result.ErrOutput)
	}
	if got := strings.TrimSpace(result.Output); got != "hello world" {
		t.Errorf("output = %q", got)
	}
}

func TestNativeRuntime_ExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell test")
	}

	rt := NewNativeRuntime()
	if !rt.Available() {
		t.Skip("no shell available")
	}

	tool := scriptTool(t, "exit 7")
	res := parseArgs(t, tool, []string{"prod"})

	result := rt.ExecuteCapture(NewExecutionContext(tool, res))
	if result.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", result.ExitCode)
	}
}

func TestNativeRuntime_GetShellArgs(t *testing.T) {
	rt := NewNativeRuntime()

	tests := []struct {
		shell string
		want  string
	}{
		{"/bin/bash", "-c"},
		{"/usr/bin/zsh", "-c"},
		{"cmd.exe", "/C"},
		{"pwsh", "-NoProfile"},
	}
	for _, tt := range tests {
		got := rt.getShellArgs(tt.shell)
		if got[0] != tt.want {
			t.Errorf("getShellArgs(%q)[0] = %q, want %q", tt.shell, got[0], tt.want)
		}
	}
}

func TestNativeRuntime_AppendPositionalArgs(t *testing.T) {
	rt := NewNativeRuntime()
	base := []string{"-c", "echo hi"}

	posix := rt.appendPositionalArgs("/bin/sh", base, []string{"a", "b"})
	if len(posix) != 5 || posix[2] != "toolbelt" || posix[3] != "a" {
		t.Errorf("posix args = %v", posix)
	}

	cmd := rt.appendPositionalArgs("cmd.exe", base, []string{"a"})
	if len(cmd) != len(base) {
		t.Errorf("cmd.exe should not receive inline args, got %v", cmd)
	}

	none := rt.appendPositionalArgs("/bin/sh", base, nil)
	if len(none) != len(base) {
		t.Errorf("no positional args should leave the slice alone, got %v", none)
	}
}

func TestSandboxCommand(t *testing.T) {
	ctx := context.Background()
	shellArgs := []string{"-c", "echo hi"}

	tests := []struct {
		name     string
		sandbox  platform.SandboxType
		wantArgv []string
	}{
		{
			name:     "no sandbox runs the shell directly",
			sandbox:  platform.SandboxNone,
			wantArgv: []string{"/bin/sh", "-c", "echo hi"},
		},
		{
			name:     "flatpak escapes to the host",
			sandbox:  platform.SandboxFlatpak,
			wantArgv: []string{"flatpak-spawn", "--host", "/bin/sh", "-c", "echo hi"},
		},
		{
			name:     "snap escapes to the host",
			sandbox:  platform.SandboxSnap,
			wantArgv: []string{"snap", "run", "--shell", "/bin/sh", "-c", "echo hi"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := sandboxCommand(ctx, tt.sandbox, "/bin/sh", shellArgs)
			if len(cmd.Args) != len(tt.wantArgv) {
				t.Fatalf("argv = %v, want %v", cmd.Args, tt.wantArgv)
			}
			for i, want := range tt.wantArgv {
				if cmd.Args[i] != want {
					t.Errorf("argv[%d] = %q, want %q", i, cmd.Args[i], want)
				}
			}
		})
	}
}

func TestNativeRuntime_ShellOverride(t *testing.T) {
	rt := &NativeRuntime{Shell: "/custom/shell"}
	shell, err := rt.getShell()
	if err != nil {
		t.Fatal(err)
	}
	if shell != "/custom/shell" {
		t.Errorf("getShell = %q", shell)
	}
}
