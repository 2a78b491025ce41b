// SPDX-License-Identifier: MPL-2.0

package toolfile

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toolbelt-cli/pkg/tooldef"
)

type (
	// Binder supplies the callbacks Apply needs from the loader: how to get
	// the tool object for a name and how to schedule an include target.
	Binder struct {
		// Source is the source being applied; tools receiving definition
		// content lock against it.
		Source *tooldef.SourceInfo
		// At returns the tool for the given name segments, relative to the
		// tool the file's top level describes.
		At func(rel []string) (*tooldef.Tool, error)
		// Include schedules an include target path for the given tool's
		// namespace.
		Include func(t *tooldef.Tool, path string) error
	}
)

// Apply walks a parsed declaration tree and applies it through the binder.
// Only declarations with content lock the source; pure namespace nesting
// leaves sibling files free to define descendants of the same tool.
func Apply(decl *ToolDecl, b Binder) error {
	return applyAt(decl, b, nil)
}

func applyAt(decl *ToolDecl, b Binder, rel []string) error {
	tool, err := b.At(rel)
	if err != nil {
		return err
	}

	if decl.HasContent() {
		if err := tool.LockSource(b.Source); err != nil {
			return err
		}
		if err := applyContent(decl, tool, b); err != nil {
			return fmt.Errorf("tool %q: %w", tool.DisplayName(), err)
		}
	}

	names := maps.Keys(decl.Tools)
	slices.Sort(names)
	for _, name := range names {
		if err := applyAt(decl.Tools[name], b, append(rel, name)); err != nil {
			return err
		}
	}
	return nil
}

func applyContent(decl *ToolDecl, tool *tooldef.Tool, b Binder) error {
	if decl.Alias != "" {
		if decl.onlyAlias() {
			target, global := parseAliasTarget(decl.Alias)
			return tool.SetAlias(target, global)
		}
		return fmt.Errorf("alias is mutually exclusive with other definition content")
	}

	if decl.DisableArgParsing {
		if len(decl.Flags) > 0 || len(decl.RequiredArgs) > 0 || len(decl.OptionalArgs) > 0 || decl.RemainingArgs != nil {
			return fmt.Errorf("disable_arg_parsing is mutually exclusive with flags and args")
		}
		if err := tool.DisableArgParsing(); err != nil {
			return err
		}
	}

	// Acceptors first so flags and args in the same file can reference them.
	for _, a := range decl.Acceptors {
		acceptor, err := buildAcceptor(a)
		if err != nil {
			return err
		}
		if err := tool.AddAcceptor(acceptor); err != nil {
			return err
		}
	}

	if decl.Desc != "" {
		if err := tool.SetShortDesc(decl.Desc); err != nil {
			return err
		}
	}
	if len(decl.LongDesc) > 0 {
		if err := tool.SetLongDesc(decl.LongDesc); err != nil {
			return err
		}
	}

	if len(decl.DisabledFlags) > 0 {
		if err := tool.DisableFlag(decl.DisabledFlags...); err != nil {
			return err
		}
	}

	for _, g := range decl.FlagGroups {
		if err := tool.AddFlagGroup(tooldef.GroupKind(g.Kind), g.Name, g.Desc); err != nil {
			return err
		}
	}

	for _, f := range decl.Flags {
		acceptor, err := resolveAcceptor(tool, f.Acceptor)
		if err != nil {
			return err
		}
		spec := tooldef.FlagSpec{
			Key:              f.Key,
			Syntax:           f.Syntax,
			Acceptor:         acceptor,
			Default:          f.Default,
			Group:            f.Group,
			ReportCollisions: f.ReportCollisions,
			Desc:             f.Desc,
			LongDesc:         f.LongDesc,
		}
		if f.Handler != "" {
			spec.Handler = f.Handler
		}
		if err := tool.AddFlag(spec); err != nil {
			return err
		}
	}

	for _, a := range decl.RequiredArgs {
		spec, err := argSpec(tool, a)
		if err != nil {
			return err
		}
		if err := tool.AddRequiredArg(spec); err != nil {
			return err
		}
	}
	for _, a := range decl.OptionalArgs {
		spec, err := argSpec(tool, a)
		if err != nil {
			return err
		}
		if err := tool.AddOptionalArg(spec); err != nil {
			return err
		}
	}
	if decl.RemainingArgs != nil {
		spec, err := argSpec(tool, *decl.RemainingArgs)
		if err != nil {
			return err
		}
		if err := tool.SetRemainingArgs(spec); err != nil {
			return err
		}
	}

	if decl.Script != "" {
		if err := tool.SetScript(decl.Script); err != nil {
			return err
		}
	}

	if decl.Include != "" {
		if b.Include == nil {
			return fmt.Errorf("include is not supported here")
		}
		if err := b.Include(tool, decl.Include); err != nil {
			return err
		}
	}
	return nil
}

// onlyAlias reports whether the alias is the declaration's only content.
func (d *ToolDecl) onlyAlias() bool {
	trimmed := *d
	trimmed.Alias = ""
	trimmed.Tools = nil
	return !trimmed.HasContent()
}

// parseAliasTarget splits an alias string into name segments. A leading "/"
// makes the target absolute (resolved from the root); otherwise the first
// segment is resolved among the alias's siblings.
func parseAliasTarget(s string) ([]string, bool) {
	global := strings.HasPrefix(s, "/")
	return strings.Fields(strings.TrimPrefix(s, "/")), global
}

func resolveAcceptor(tool *tooldef.Tool, name string) (*tooldef.Acceptor, error) {
	if name == "" {
		return nil, nil
	}
	a := tool.ResolveAcceptor(name)
	if a == nil {
		return nil, fmt.Errorf("unknown acceptor %q", name)
	}
	return a, nil
}

func argSpec(tool *tooldef.Tool, a ArgDecl) (tooldef.ArgSpec, error) {
	acceptor, err := resolveAcceptor(tool, a.Acceptor)
	if err != nil {
		return tooldef.ArgSpec{}, err
	}
	return tooldef.ArgSpec{
		Key:         a.Key,
		Acceptor:    acceptor,
		Default:     a.Default,
		DisplayName: a.DisplayName,
		Desc:        a.Desc,
		LongDesc:    a.LongDesc,
	}, nil
}

func buildAcceptor(decl AcceptorDecl) (*tooldef.Acceptor, error) {
	switch decl.Kind {
	case "enum":
		if len(decl.Values) == 0 {
			return nil, fmt.Errorf("enum acceptor %q needs at least one value", decl.Name)
		}
		return tooldef.NewEnumAcceptor(decl.Name, decl.Values...), nil
	case "pattern":
		re, err := regexp.Compile(decl.Pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern acceptor %q: %w", decl.Name, err)
		}
		return tooldef.NewPatternAcceptor(decl.Name, re, nil), nil
	}
	return nil, fmt.Errorf("unknown acceptor kind %q", decl.Kind)
}
