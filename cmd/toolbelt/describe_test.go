// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"strings"
	"testing"

	"toolbelt-cli/pkg/tooldef"
)

// deployTool builds a finished tool with flags and args for describe tests.
func deployTool(t *testing.T) *tooldef.Tool {
	t.Helper()

	tool := tooldef.NewTool([]string{"deploy"}, 0, nil)
	if err := tool.SetShortDesc("Deploy the app"); err != nil {
		t.Fatal(err)
	}
	if err := tool.AddFlag(tooldef.FlagSpec{Key: "dry-run", Desc: "Print actions only"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.AddFlag(tooldef.FlagSpec{Key: "level", Syntax: []string{"--level VALUE"}, Default: "info"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.AddRequiredArg(tooldef.ArgSpec{Key: "target", Desc: "Deployment target"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.AddOptionalArg(tooldef.ArgSpec{Key: "region", Default: "us-east-1"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.SetRemainingArgs(tooldef.ArgSpec{Key: "extras"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.SetScript("echo deploying"); err != nil {
		t.Fatal(err)
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}
	return tool
}

func TestBuildToolModel(t *testing.T) {
	m := buildToolModel(deployTool(t))

	if m.Name != "deploy" {
		t.Errorf("Name = %q", m.Name)
	}
	if !m.Runnable || !m.ArgParsing {
		t.Errorf("Runnable = %v, ArgParsing = %v", m.Runnable, m.ArgParsing)
	}
	if len(m.Flags) != 2 {
		t.Fatalf("Flags = %d, want 2", len(m.Flags))
	}
	if m.Flags[0].Key != "dry-run" || m.Flags[0].Type != "boolean" {
		t.Errorf("first flag = %+v", m.Flags[0])
	}
	if m.Flags[1].Default != "info" {
		t.Errorf("level default = %v", m.Flags[1].Default)
	}
	if len(m.RequiredArgs) != 1 || m.RequiredArgs[0].DisplayName != "TARGET" {
		t.Errorf("RequiredArgs = %+v", m.RequiredArgs)
	}
	if m.RemainingArg == nil || m.RemainingArg.Key != "extras" {
		t.Errorf("RemainingArg = %+v", m.RemainingArg)
	}
}

func TestRenderToolDescription(t *testing.T) {
	out := renderToolDescription(deployTool(t))

	for _, want := range []string{
		"deploy",
		"Deploy the app",
		"--dry-run",
		"--level",
		"TARGET",
		"[REGION]",
		"[EXTRAS...]",
		"(default info)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("description missing %q:\n%s", want, out)
		}
	}
}

func TestUsageLine(t *testing.T) {
	if got := usageLine(deployTool(t)); got != "toolbelt run deploy [flags] TARGET [REGION] [EXTRAS...]" {
		t.Errorf("usageLine = %q", got)
	}
}

func TestUsageLine_ParsingDisabled(t *testing.T) {
	tool := tooldef.NewTool([]string{"raw"}, 0, nil)
	if err := tool.DisableArgParsing(); err != nil {
		t.Fatal(err)
	}
	if err := tool.SetScript("echo raw"); err != nil {
		t.Fatal(err)
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}
	if got := usageLine(tool); got != "toolbelt run raw [args...]" {
		t.Errorf("usageLine = %q", got)
	}
}
