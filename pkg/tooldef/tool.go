// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"strings"
)

type (
	// Middleware is a configuration callback that runs while a tool's
	// definition is being finished. Each middleware may adjust the tool
	// before and after the rest of the chain by wrapping the next function.
	Middleware func(t *Tool, next func() error) error

	// Tool is the aggregate definition for one command name: descriptions,
	// flags, flag groups, positional arguments, local registries and the
	// runnable body. A Tool starts in the building state; FinishDefinition
	// locks it permanently.
	//
	// Tools form a parent chain mirroring the name hierarchy. The chain is
	// borrowed for ancestor lookups of acceptors, mixins and templates; tool
	// lifetimes are owned by the loader's cache.
	Tool struct {
		fullName []string
		parent   *Tool
		priority int
		source   *SourceInfo

		shortDesc string
		longDesc  []string

		flagGroups   []*FlagGroup
		groupsByName map[string]*FlagGroup
		requiredArgs []*Arg
		optionalArgs []*Arg
		remainingArg *Arg

		defaultData map[string]any
		usedFlags   map[string]bool

		acceptors map[string]*Acceptor
		mixins    map[string]any
		templates map[string]any

		aliasTarget []string
		aliasGlobal bool

		script            string
		runnable          bool
		argParsingEnabled bool

		middleware []Middleware
		finished   bool
	}
)

// NewTool creates an empty tool definition in the building state. The parent
// is borrowed; it may be nil only for the root tool.
func NewTool(fullName []string, priority int, parent *Tool) *Tool {
	return &Tool{
		fullName:          append([]string(nil), fullName...),
		parent:            parent,
		priority:          priority,
		groupsByName:      map[string]*FlagGroup{},
		defaultData:       map[string]any{},
		usedFlags:         map[string]bool{},
		acceptors:         map[string]*Acceptor{},
		mixins:            map[string]any{},
		templates:         map[string]any{},
		argParsingEnabled: true,
	}
}

// --- Identity ---

// FullName returns a copy of the tool's name segments; empty for the root.
func (t *Tool) FullName() []string {
	return append([]string(nil), t.fullName...)
}

// SimpleName returns the last name segment, or "" for the root.
func (t *Tool) SimpleName() string {
	if len(t.fullName) == 0 {
		return ""
	}
	return t.fullName[len(t.fullName)-1]
}

// DisplayName returns the full name joined with spaces.
func (t *Tool) DisplayName() string {
	return strings.Join(t.fullName, " ")
}

// IsRoot reports whether this is the root tool.
func (t *Tool) IsRoot() bool {
	return len(t.fullName) == 0
}

// Parent returns the parent tool, or nil at the root.
func (t *Tool) Parent() *Tool {
	return t.parent
}

// Priority returns the priority rank of the source world this tool
// definition belongs to.
func (t *Tool) Priority() int {
	return t.priority
}

// Source returns the source that defined this tool's content, or nil.
func (t *Tool) Source() *SourceInfo {
	return t.source
}

// --- State ---

// Finished reports whether the definition has been locked.
func (t *Tool) Finished() bool {
	return t.finished
}

// IsAlias reports whether this tool redirects to another name.
func (t *Tool) IsAlias() bool {
	return t.aliasTarget != nil
}

// AliasTarget returns the alias target segments and whether the target is
// absolute (resolved from the root) rather than sibling-relative.
func (t *Tool) AliasTarget() ([]string, bool) {
	return append([]string(nil), t.aliasTarget...), t.aliasGlobal
}

// Runnable reports whether the tool has a runnable body.
func (t *Tool) Runnable() bool {
	return t.runnable
}

// Script returns the runnable body.
func (t *Tool) Script() string {
	return t.script
}

// ArgParsingEnabled reports whether the invocation parser should interpret
// flags and positional arguments for this tool.
func (t *Tool) ArgParsingEnabled() bool {
	return t.argParsingEnabled
}

// IncludesDefinition reports whether any definition content has been set,
// distinguishing real definitions from placeholders created on the path to
// a descendant.
func (t *Tool) IncludesDefinition() bool {
	return t.shortDesc != "" ||
		len(t.longDesc) > 0 ||
		len(t.flagGroups) > 0 ||
		len(t.requiredArgs) > 0 ||
		len(t.optionalArgs) > 0 ||
		t.remainingArg != nil ||
		t.runnable ||
		t.aliasTarget != nil ||
		!t.argParsingEnabled
}

// --- Accessors ---

// ShortDesc returns the one-line description.
func (t *Tool) ShortDesc() string { return t.shortDesc }

// LongDesc returns the ordered description paragraphs.
func (t *Tool) LongDesc() []string { return append([]string(nil), t.longDesc...) }

// FlagGroups returns the flag groups in declaration order.
func (t *Tool) FlagGroups() []*FlagGroup { return t.flagGroups }

// Flags returns every flag definition across all groups.
func (t *Tool) Flags() []*Flag {
	var out []*Flag
	for _, g := range t.flagGroups {
		out = append(out, g.Flags...)
	}
	return out
}

// RequiredArgs returns the required positional argument definitions.
func (t *Tool) RequiredArgs() []*Arg { return t.requiredArgs }

// OptionalArgs returns the optional positional argument definitions.
func (t *Tool) OptionalArgs() []*Arg { return t.optionalArgs }

// RemainingArg returns the catch-all argument definition, or nil.
func (t *Tool) RemainingArg() *Arg { return t.remainingArg }

// DefaultData returns a copy of the default option values accumulated while
// flags and args were added.
func (t *Tool) DefaultData() map[string]any {
	out := make(map[string]any, len(t.defaultData))
	for k, v := range t.defaultData {
		out[k] = v
	}
	return out
}

// UsedFlags reports whether the given literal flag spelling is claimed.
func (t *Tool) UsedFlag(literal string) bool {
	return t.usedFlags[literal]
}

// --- Guards ---

func (t *Tool) checkBuilding() error {
	if t.finished {
		return newDefinitionError("tool %q is finished and cannot be modified", t.DisplayName())
	}
	return nil
}

func (t *Tool) checkNotAlias() error {
	if t.IsAlias() {
		return newDefinitionError("tool %q is an alias and cannot be given definition content", t.DisplayName())
	}
	return nil
}

// LockSource records the single source allowed to define this tool's
// content. A second lock from a different source is a ToolDefinitionError.
func (t *Tool) LockSource(src *SourceInfo) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if t.source != nil && t.source != src {
		return &ToolDefinitionError{
			FullName:       t.fullName,
			ExistingSource: t.source.DisplayName(),
			NewSource:      src.DisplayName(),
		}
	}
	t.source = src
	return nil
}

// --- Mutators (building state only) ---

// SetShortDesc sets the one-line description.
func (t *Tool) SetShortDesc(desc string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	t.shortDesc = desc
	return nil
}

// SetLongDesc replaces the ordered description paragraphs.
func (t *Tool) SetLongDesc(paragraphs []string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	t.longDesc = append([]string(nil), paragraphs...)
	return nil
}

// AddFlagGroup declares a new flag group. Group names must be unique within
// the tool.
func (t *Tool) AddFlagGroup(kind GroupKind, name, desc string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	if ok, errs := kind.IsValid(); !ok {
		return &DefinitionError{Message: "invalid flag group", Cause: errs[0]}
	}
	if name != "" {
		if _, exists := t.groupsByName[name]; exists {
			return newDefinitionError("flag group %q already defined in tool %q", name, t.DisplayName())
		}
	}
	g := &FlagGroup{Name: name, Kind: kind, Desc: desc}
	t.flagGroups = append(t.flagGroups, g)
	if name != "" {
		t.groupsByName[name] = g
	}
	return nil
}

// defaultGroup returns the tool's default optional group, creating it on
// first use.
func (t *Tool) defaultGroup() *FlagGroup {
	for _, g := range t.flagGroups {
		if g.Name == "" && g.Kind == GroupOptional {
			return g
		}
	}
	g := &FlagGroup{Kind: GroupOptional}
	t.flagGroups = append(t.flagGroups, g)
	return g
}

// AddFlag adds a flag definition built from the given spec. A definition
// whose every spelling collides with an already-claimed spelling is silently
// inactive (unless the spec requests collision reporting).
func (t *Tool) AddFlag(spec FlagSpec) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	if spec.Key == "" {
		return newDefinitionError("flag key must not be empty in tool %q", t.DisplayName())
	}

	var group *FlagGroup
	if spec.Group == "" {
		group = t.defaultGroup()
	} else {
		g, ok := t.groupsByName[spec.Group]
		if !ok {
			return newDefinitionError("unknown flag group %q in tool %q", spec.Group, t.DisplayName())
		}
		group = g
	}

	f, err := newFlag(spec, t.usedFlags)
	if err != nil {
		return err
	}
	if f == nil {
		return nil
	}
	f.Group = group
	group.Flags = append(group.Flags, f)
	t.defaultData[f.Key] = f.Default
	return nil
}

// DisableFlag claims literal flag spellings without defining a flag, so
// later definitions cannot use them. Disabling a spelling already claimed is
// a definition error.
func (t *Tool) DisableFlag(literals ...string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	for _, literal := range literals {
		if t.usedFlags[literal] {
			return newDefinitionError("cannot disable flag %q because it is already claimed", literal)
		}
	}
	for _, literal := range literals {
		t.usedFlags[literal] = true
	}
	return nil
}

// AddRequiredArg appends a required positional argument definition.
func (t *Tool) AddRequiredArg(spec ArgSpec) error {
	if err := t.checkArgMutation(spec.Key); err != nil {
		return err
	}
	a := newArg(spec, ArgRequired)
	t.requiredArgs = append(t.requiredArgs, a)
	return nil
}

// AddOptionalArg appends an optional positional argument definition.
func (t *Tool) AddOptionalArg(spec ArgSpec) error {
	if err := t.checkArgMutation(spec.Key); err != nil {
		return err
	}
	a := newArg(spec, ArgOptional)
	t.optionalArgs = append(t.optionalArgs, a)
	t.defaultData[a.Key] = a.Default
	return nil
}

// SetRemainingArgs sets the catch-all argument collecting trailing values.
// A tool has at most one.
func (t *Tool) SetRemainingArgs(spec ArgSpec) error {
	if err := t.checkArgMutation(spec.Key); err != nil {
		return err
	}
	if t.remainingArg != nil {
		return newDefinitionError("tool %q already has a remaining-args definition", t.DisplayName())
	}
	a := newArg(spec, ArgRemaining)
	t.remainingArg = a
	if a.Default == nil {
		a.Default = []any{}
	}
	t.defaultData[a.Key] = a.Default
	return nil
}

func (t *Tool) checkArgMutation(key string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	if key == "" {
		return newDefinitionError("argument key must not be empty in tool %q", t.DisplayName())
	}
	return nil
}

// DisableArgParsing turns off flag and positional parsing; the raw argument
// list is handed to the runnable body unchanged. Illegal once flags or args
// are defined.
func (t *Tool) DisableArgParsing() error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	if len(t.Flags()) > 0 || len(t.requiredArgs) > 0 || len(t.optionalArgs) > 0 || t.remainingArg != nil {
		return newDefinitionError("cannot disable argument parsing in tool %q because flags or args are already defined", t.DisplayName())
	}
	t.argParsingEnabled = false
	return nil
}

// SetScript sets the runnable body.
func (t *Tool) SetScript(script string) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if err := t.checkNotAlias(); err != nil {
		return err
	}
	t.script = script
	t.runnable = script != ""
	return nil
}

// SetAlias turns this tool into an alias for another name. Target segments
// are sibling-relative unless global is true. Illegal once definition
// content exists.
func (t *Tool) SetAlias(target []string, global bool) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if len(target) == 0 {
		return newDefinitionError("alias target must not be empty in tool %q", t.DisplayName())
	}
	if t.IncludesDefinition() {
		return newDefinitionError("tool %q already has definition content and cannot become an alias", t.DisplayName())
	}
	t.aliasTarget = append([]string(nil), target...)
	t.aliasGlobal = global
	return nil
}

// --- Local registries ---

// AddAcceptor registers a named acceptor local to this tool.
func (t *Tool) AddAcceptor(a *Acceptor) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if a == nil || a.Name() == "" {
		return newDefinitionError("acceptor must have a name in tool %q", t.DisplayName())
	}
	t.acceptors[a.Name()] = a
	return nil
}

// AddMixin registers a named mixin local to this tool.
func (t *Tool) AddMixin(name string, mixin any) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if name == "" {
		return newDefinitionError("mixin must have a name in tool %q", t.DisplayName())
	}
	t.mixins[name] = mixin
	return nil
}

// AddTemplate registers a named template local to this tool.
func (t *Tool) AddTemplate(name string, template any) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	if name == "" {
		return newDefinitionError("template must have a name in tool %q", t.DisplayName())
	}
	t.templates[name] = template
	return nil
}

// ResolveAcceptor looks a named acceptor up in this tool, then the parent
// chain, then the builtin registry. Nearest definition wins.
func (t *Tool) ResolveAcceptor(name string) *Acceptor {
	for cur := t; cur != nil; cur = cur.parent {
		if a, ok := cur.acceptors[name]; ok {
			return a
		}
	}
	return BuiltinAcceptor(name)
}

// ResolveMixin looks a named mixin up in this tool, then the parent chain.
func (t *Tool) ResolveMixin(name string) any {
	for cur := t; cur != nil; cur = cur.parent {
		if m, ok := cur.mixins[name]; ok {
			return m
		}
	}
	return nil
}

// ResolveTemplate looks a named template up in this tool, then the parent
// chain.
func (t *Tool) ResolveTemplate(name string) any {
	for cur := t; cur != nil; cur = cur.parent {
		if tpl, ok := cur.templates[name]; ok {
			return tpl
		}
	}
	return nil
}

// --- Finishing ---

// AddMiddleware registers a configuration callback to run when the
// definition is finished. Middleware fire in reverse registration order:
// the last registered wraps around all earlier ones.
func (t *Tool) AddMiddleware(m Middleware) error {
	if err := t.checkBuilding(); err != nil {
		return err
	}
	t.middleware = append(t.middleware, m)
	return nil
}

// FinishDefinition locks the tool. The middleware chain runs once as nested
// closures, then flag groups sort their members by sort key. Idempotent:
// finishing a finished tool is a no-op.
func (t *Tool) FinishDefinition() error {
	if t.finished {
		return nil
	}

	chain := func() error { return nil }
	for _, m := range t.middleware {
		m, next := m, chain
		chain = func() error { return m(t, next) }
	}
	if err := chain(); err != nil {
		return err
	}

	t.finished = true
	for _, g := range t.flagGroups {
		g.sortFlags()
	}
	return nil
}
