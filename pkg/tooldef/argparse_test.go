// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"testing"
)

// parserTool builds a finished tool with a representative set of flags and
// args: --verbose/-v boolean, --count/-n integer, --label optional value,
// --[no-]color negatable, --tag push handler, one required and one optional
// positional plus a catch-all.
func parserTool(t *testing.T) *Tool {
	t.Helper()
	tool := NewTool([]string{"x"}, 0, nil)

	steps := []error{
		tool.AddFlag(FlagSpec{Key: "verbose", Syntax: []string{"-v", "--verbose"}}),
		tool.AddFlag(FlagSpec{Key: "count", Syntax: []string{"-n VAL", "--count=VAL"}, Acceptor: BuiltinAcceptor(AcceptorInteger), Default: 1}),
		tool.AddFlag(FlagSpec{Key: "label", Syntax: []string{"--label=[VAL]"}}),
		tool.AddFlag(FlagSpec{Key: "color", Syntax: []string{"--[no-]color"}, Default: true}),
		tool.AddFlag(FlagSpec{Key: "tag", Syntax: []string{"--tag=VAL"}, Handler: HandlerPush}),
		tool.AddRequiredArg(ArgSpec{Key: "input"}),
		tool.AddOptionalArg(ArgSpec{Key: "output", Default: "out.txt"}),
		tool.SetRemainingArgs(ArgSpec{Key: "rest"}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}
	return tool
}

func mustParse(t *testing.T, tool *Tool, args ...string) *ParseResult {
	t.Helper()
	result, err := NewArgParser(tool).Parse(args)
	if err != nil {
		t.Fatalf("Parse(%v) returned error: %v", args, err)
	}
	return result
}

func TestArgParser_Defaults(t *testing.T) {
	result := mustParse(t, parserTool(t), "in.txt")

	if result.Data["count"] != 1 {
		t.Errorf("count = %v, want default 1", result.Data["count"])
	}
	if result.Data["color"] != true {
		t.Errorf("color = %v, want default true", result.Data["color"])
	}
	if result.Data["output"] != "out.txt" {
		t.Errorf("output = %v, want default out.txt", result.Data["output"])
	}
	if len(result.Provided) != 0 {
		t.Errorf("Provided = %v, want empty", result.Provided)
	}
}

func TestArgParser_LongFlags(t *testing.T) {
	tool := parserTool(t)

	t.Run("inline value", func(t *testing.T) {
		result := mustParse(t, tool, "--count=3", "in.txt")
		if result.Data["count"] != 3 {
			t.Errorf("count = %v, want 3", result.Data["count"])
		}
		if !result.Provided["count"] {
			t.Error("count should be marked provided")
		}
	})

	t.Run("separate value", func(t *testing.T) {
		result := mustParse(t, tool, "--count", "7", "in.txt")
		if result.Data["count"] != 7 {
			t.Errorf("count = %v, want 7", result.Data["count"])
		}
	})

	t.Run("boolean", func(t *testing.T) {
		result := mustParse(t, tool, "--verbose", "in.txt")
		if result.Data["verbose"] != true {
			t.Errorf("verbose = %v, want true", result.Data["verbose"])
		}
	})

	t.Run("negatable no-form", func(t *testing.T) {
		result := mustParse(t, tool, "--no-color", "in.txt")
		if result.Data["color"] != false {
			t.Errorf("color = %v, want false", result.Data["color"])
		}
	})

	t.Run("optional value omitted stores empty string", func(t *testing.T) {
		result := mustParse(t, tool, "--label", "in.txt")
		if result.Data["label"] != "" {
			t.Errorf("label = %v, want empty string", result.Data["label"])
		}
		if !result.Provided["label"] {
			t.Error("label should be marked provided")
		}
		if result.Data["input"] != "in.txt" {
			t.Errorf("input = %v; the token after an optional-value flag stays positional", result.Data["input"])
		}
	})
}

func TestArgParser_ShortFlags(t *testing.T) {
	tool := parserTool(t)

	t.Run("clustered booleans then value", func(t *testing.T) {
		result := mustParse(t, tool, "-vn3", "in.txt")
		if result.Data["verbose"] != true {
			t.Error("verbose should be true")
		}
		if result.Data["count"] != 3 {
			t.Errorf("count = %v, want 3", result.Data["count"])
		}
	})

	t.Run("value in next token", func(t *testing.T) {
		result := mustParse(t, tool, "-n", "9", "in.txt")
		if result.Data["count"] != 9 {
			t.Errorf("count = %v, want 9", result.Data["count"])
		}
	})
}

func TestArgParser_DoubleDashEndsFlags(t *testing.T) {
	result := mustParse(t, parserTool(t), "--", "--verbose", "-n")

	if result.Data["verbose"] != false && result.Data["verbose"] != nil {
		t.Errorf("verbose = %v, want unset", result.Data["verbose"])
	}
	if result.Data["input"] != "--verbose" {
		t.Errorf("input = %v, want the literal --verbose", result.Data["input"])
	}
	if result.Data["output"] != "-n" {
		t.Errorf("output = %v, want the literal -n", result.Data["output"])
	}
}

func TestArgParser_PushHandler(t *testing.T) {
	result := mustParse(t, parserTool(t), "--tag=a", "--tag=b", "in.txt")

	tags, ok := result.Data["tag"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" || tags[1] != "b" {
		t.Errorf("tag = %v, want [a b]", result.Data["tag"])
	}
}

func TestArgParser_Positional(t *testing.T) {
	result := mustParse(t, parserTool(t), "in.txt", "result.txt", "x", "y")

	if result.Data["input"] != "in.txt" {
		t.Errorf("input = %v, want in.txt", result.Data["input"])
	}
	if result.Data["output"] != "result.txt" {
		t.Errorf("output = %v, want result.txt", result.Data["output"])
	}
	rest, ok := result.Data["rest"].([]any)
	if !ok || len(rest) != 2 || rest[0] != "x" || rest[1] != "y" {
		t.Errorf("rest = %v, want [x y]", result.Data["rest"])
	}
}

func TestArgParser_CollectsAllErrors(t *testing.T) {
	tool := parserTool(t)
	_, err := NewArgParser(tool).Parse([]string{"--bogus", "--count=abc"})
	if err == nil {
		t.Fatal("Parse should have failed")
	}

	var perr ArgParsingError
	if !errors.As(err, &perr) {
		t.Fatalf("error is %T, want ArgParsingError", err)
	}
	if len(perr) != 3 {
		t.Fatalf("collected %d errors, want 3: %v", len(perr), perr)
	}
	if !perr.HasKind(ArgErrUnknownFlag) {
		t.Error("should report the unknown flag")
	}
	if !perr.HasKind(ArgErrUnacceptableValue) {
		t.Error("should report the unacceptable count value")
	}
	if !perr.HasKind(ArgErrMissingRequiredArg) {
		t.Error("should report the missing required argument")
	}
}

func TestArgParser_FlagValueMissing(t *testing.T) {
	tool := parserTool(t)
	_, err := NewArgParser(tool).Parse([]string{"in.txt", "--count"})
	if err == nil {
		t.Fatal("Parse should have failed")
	}
	perr, ok := err.(ArgParsingError)
	if !ok || !perr.HasKind(ArgErrFlagValueMissing) {
		t.Errorf("error = %v, want a flag_value_missing failure", err)
	}
}

func TestArgParser_ExtraArgs(t *testing.T) {
	tool := NewTool([]string{"x"}, 0, nil)
	if err := tool.AddRequiredArg(ArgSpec{Key: "only"}); err != nil {
		t.Fatal(err)
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}

	_, err := NewArgParser(tool).Parse([]string{"a", "b", "c"})
	if err == nil {
		t.Fatal("Parse should have failed")
	}
	perr, ok := err.(ArgParsingError)
	if !ok || !perr.HasKind(ArgErrExtraArgs) {
		t.Errorf("error = %v, want an extra_args failure", err)
	}
}

func TestArgParser_GroupValidation(t *testing.T) {
	tool := NewTool([]string{"x"}, 0, nil)
	steps := []error{
		tool.AddFlagGroup(GroupExactlyOne, "mode", ""),
		tool.AddFlag(FlagSpec{Key: "fast", Group: "mode"}),
		tool.AddFlag(FlagSpec{Key: "slow", Group: "mode"}),
	}
	for _, err := range steps {
		if err != nil {
			t.Fatal(err)
		}
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}

	if _, err := NewArgParser(tool).Parse([]string{"--fast"}); err != nil {
		t.Fatalf("one mode flag should satisfy the group, got %v", err)
	}

	_, err := NewArgParser(tool).Parse([]string{"--fast", "--slow"})
	if err == nil {
		t.Fatal("two mode flags should violate the group")
	}
	perr, ok := err.(ArgParsingError)
	if !ok || !perr.HasKind(ArgErrGroupViolation) {
		t.Errorf("error = %v, want a group_violation failure", err)
	}

	if _, err := NewArgParser(tool).Parse(nil); err == nil {
		t.Error("zero mode flags should violate the group")
	}
}

func TestArgParser_DisabledParsing(t *testing.T) {
	tool := NewTool([]string{"x"}, 0, nil)
	if err := tool.DisableArgParsing(); err != nil {
		t.Fatal(err)
	}
	if err := tool.FinishDefinition(); err != nil {
		t.Fatal(err)
	}

	result := mustParse(t, tool, "--whatever", "-x", "args")
	if len(result.Raw) != 3 || result.Raw[0] != "--whatever" {
		t.Errorf("Raw = %v, want the untouched argument list", result.Raw)
	}
}

func TestArgParser_SingleDashIsPositional(t *testing.T) {
	result := mustParse(t, parserTool(t), "-")
	if result.Data["input"] != "-" {
		t.Errorf("input = %v, want the literal dash", result.Data["input"])
	}
}
