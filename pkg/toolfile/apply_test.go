// SPDX-License-Identifier: MPL-2.0

package toolfile

import (
	"errors"
	"strings"
	"testing"

	"toolbelt-cli/pkg/tooldef"
)

// testBinder materializes tools in a flat map keyed by joined name, the way
// the loader's cache does, and records include requests.
type testBinder struct {
	base     []string
	tools    map[string]*tooldef.Tool
	includes map[string]string
	source   *tooldef.SourceInfo
}

func newTestBinder(base ...string) *testBinder {
	return &testBinder{
		base:     base,
		tools:    map[string]*tooldef.Tool{},
		includes: map[string]string{},
		source:   tooldef.NewMemorySource("test.cue", 0),
	}
}

func (tb *testBinder) at(rel []string) (*tooldef.Tool, error) {
	full := append(append([]string{}, tb.base...), rel...)
	return tb.atFull(full), nil
}

func (tb *testBinder) atFull(full []string) *tooldef.Tool {
	key := strings.Join(full, " ")
	if t, ok := tb.tools[key]; ok {
		return t
	}
	var parent *tooldef.Tool
	if len(full) > 0 {
		parent = tb.atFull(full[:len(full)-1])
	}
	t := tooldef.NewTool(full, 0, parent)
	tb.tools[key] = t
	return t
}

func (tb *testBinder) binder() Binder {
	return Binder{
		Source: tb.source,
		At:     tb.at,
		Include: func(t *tooldef.Tool, path string) error {
			tb.includes[strings.Join(t.FullName(), " ")] = path
			return nil
		},
	}
}

func mustApply(t *testing.T, data string, tb *testBinder) {
	t.Helper()
	decl, err := ParseBytes([]byte(data), "test.cue")
	if err != nil {
		t.Fatalf("ParseBytes returned error: %v", err)
	}
	if err := Apply(decl, tb.binder()); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}
}

func TestApply_BuildsToolTree(t *testing.T) {
	tb := newTestBinder("db")
	mustApply(t, `
desc: "database helpers"
tools: {
	migrate: {
		desc: "run pending migrations"
		acceptors: [{name: "deploy_env", kind: "enum", values: ["dev", "prod"]}]
		flags: [
			{key: "env", syntax: ["--env=VAL"], acceptor: "deploy_env", default: "dev"},
		]
		required_args: [{key: "version"}]
		script: "echo migrating"
	}
}
`, tb)

	root := tb.tools["db"]
	if root == nil || root.ShortDesc() != "database helpers" {
		t.Fatal("base tool should carry the top-level description")
	}
	if root.Source() == nil {
		t.Error("base tool has content, so it should be locked")
	}

	migrate := tb.tools["db migrate"]
	if migrate == nil {
		t.Fatal("db migrate should exist")
	}
	if !migrate.Runnable() || migrate.Script() != "echo migrating" {
		t.Error("script not applied")
	}
	flags := migrate.Flags()
	if len(flags) != 1 || flags[0].Key != "env" {
		t.Fatalf("flags = %v, want one env flag", flags)
	}
	if flags[0].Acceptor == nil || !flags[0].Acceptor.Check("prod").OK {
		t.Error("flag should use the file-local enum acceptor")
	}
	if flags[0].Acceptor.Check("moon").OK {
		t.Error("enum acceptor should reject values outside the set")
	}
	if len(migrate.RequiredArgs()) != 1 {
		t.Error("required arg not applied")
	}
}

func TestApply_NamespaceOnlyDoesNotLock(t *testing.T) {
	tb := newTestBinder()
	mustApply(t, `
tools: {
	db: {
		tools: {migrate: {script: "echo hi"}}
	}
}
`, tb)

	if tb.tools["db"].Source() != nil {
		t.Error("pure namespace tool should not lock the source")
	}
	if tb.tools["db migrate"].Source() == nil {
		t.Error("content-bearing tool should lock the source")
	}
}

func TestApply_SecondSourceCollides(t *testing.T) {
	tb := newTestBinder()
	mustApply(t, `tools: {x: {script: "echo one"}}`, tb)

	decl, err := ParseBytes([]byte(`tools: {x: {desc: "two"}}`), "other.cue")
	if err != nil {
		t.Fatal(err)
	}
	other := tb.binder()
	other.Source = tooldef.NewMemorySource("other.cue", 0)
	err = Apply(decl, other)
	if err == nil {
		t.Fatal("second source defining the same tool should fail")
	}
	if !errors.Is(err, tooldef.ErrToolAlreadyDefined) {
		t.Errorf("error should wrap ErrToolAlreadyDefined, got %v", err)
	}
}

func TestApply_Alias(t *testing.T) {
	tb := newTestBinder("db")
	mustApply(t, `
tools: {
	st: {alias: "status"}
	up: {alias: "/db migrate"}
}
`, tb)

	target, global := tb.tools["db st"].AliasTarget()
	if len(target) != 1 || target[0] != "status" || global {
		t.Errorf("sibling alias = %v global=%v", target, global)
	}

	target, global = tb.tools["db up"].AliasTarget()
	if len(target) != 2 || target[0] != "db" || target[1] != "migrate" || !global {
		t.Errorf("global alias = %v global=%v", target, global)
	}
}

func TestApply_AliasWithContentFails(t *testing.T) {
	tb := newTestBinder()
	decl, err := ParseBytes([]byte(`tools: {x: {alias: "y", script: "echo"}}`), "test.cue")
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(decl, tb.binder()); err == nil {
		t.Error("alias combined with a script should fail")
	}
}

func TestApply_Include(t *testing.T) {
	tb := newTestBinder()
	mustApply(t, `tools: {extra: {include: "shared/extra.cue"}}`, tb)

	if tb.includes["extra"] != "shared/extra.cue" {
		t.Errorf("includes = %v, want extra -> shared/extra.cue", tb.includes)
	}
}

func TestApply_UnknownAcceptorFails(t *testing.T) {
	tb := newTestBinder()
	decl, err := ParseBytes([]byte(`flags: [{key: "k", acceptor: "nope"}]`), "test.cue")
	if err != nil {
		t.Fatal(err)
	}
	err = Apply(decl, tb.binder())
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Errorf("unknown acceptor should fail naming it, got %v", err)
	}
}

func TestApply_BuiltinAcceptorByName(t *testing.T) {
	tb := newTestBinder()
	mustApply(t, `flags: [{key: "count", acceptor: "integer"}]`, tb)

	f := tb.tools[""].Flags()[0]
	if f.Acceptor == nil || !f.Acceptor.Check("5").OK {
		t.Error("builtin acceptor should resolve by name")
	}
	if f.Type != tooldef.FlagTypeValue {
		t.Error("non-boolean acceptor should synthesize a value flag")
	}
}

func TestApply_DisableArgParsingConflicts(t *testing.T) {
	tb := newTestBinder()
	decl, err := ParseBytes([]byte(`
disable_arg_parsing: true
flags: [{key: "k"}]
`), "test.cue")
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(decl, tb.binder()); err == nil {
		t.Error("disable_arg_parsing with flags should fail")
	}
}
