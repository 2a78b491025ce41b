// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"regexp"
	"strings"
)

const (
	// HandlerReplace stores the new value, discarding the previous one. This
	// is the default when no handler is named.
	HandlerReplace = "replace"
	// HandlerPush appends the new value to the previous value, which is
	// expected to start as an empty list.
	HandlerPush = "push"
)

type (
	// Handler combines a newly parsed flag value with the previously stored
	// value and returns the value to store.
	Handler func(newValue, prevValue any) any

	// Flag is one logical flag definition: a set of synonymous spellings
	// sharing a single storage key and one coherent type.
	Flag struct {
		// Key is the storage identifier in the tool's data map.
		Key string
		// Syntaxes are the synonym spellings in declaration order.
		Syntaxes []*FlagSyntax
		// Type is boolean or value after canonicalization.
		Type FlagType
		// ValueType is required or optional; only meaningful for value flags.
		ValueType ValueType
		// ValueLabel is the canonical value display label.
		ValueLabel string
		// ValueDelim is the canonical value delimiter.
		ValueDelim string
		// Acceptor validates supplied values; nil accepts any string.
		Acceptor *Acceptor
		// Default is the value stored when the flag is not supplied.
		Default any
		// Handler combines a new value with the previously stored one.
		Handler Handler
		// Group is the flag group this definition belongs to.
		Group *FlagGroup
		// ShortDesc is the one-line description.
		ShortDesc string
		// LongDesc is the ordered list of description paragraphs.
		LongDesc []string
	}

	// FlagSpec carries the construction inputs for one flag definition.
	FlagSpec struct {
		// Key is the storage identifier; required.
		Key string
		// Syntax lists the literal flag spellings. When empty, a long flag is
		// synthesized from the key.
		Syntax []string
		// Acceptor validates supplied values.
		Acceptor *Acceptor
		// Default is the initial stored value.
		Default any
		// Handler is nil or HandlerReplace for replace semantics, HandlerPush
		// for append semantics, or a custom Handler function.
		Handler any
		// Group names the flag group to add the definition to; empty selects
		// the tool's default group.
		Group string
		// ReportCollisions makes spelling collisions a hard error rather than
		// silently dropping the colliding spellings.
		ReportCollisions bool
		// Desc is the one-line description.
		Desc string
		// LongDesc is the ordered list of description paragraphs.
		LongDesc []string
	}
)

// defaultFlagCleaner strips characters not allowed in a synthesized long
// flag name.
var defaultFlagCleaner = regexp.MustCompile(`[^a-z0-9?-]`)

// newFlag builds a flag definition per the canonicalization algorithm:
// synthesize a default spelling if none given, drop or report spellings
// colliding with usedFlags, seed the type from the first typed spelling
// (short spellings scanned before long ones), verify later typed spellings
// agree, propagate the winning type to untyped spellings, and finally claim
// all surviving literal spellings in usedFlags.
//
// Returns (nil, nil) when every spelling collided and the definition is
// inactive.
func newFlag(spec FlagSpec, usedFlags map[string]bool) (*Flag, error) {
	f := &Flag{
		Key:       spec.Key,
		Acceptor:  spec.Acceptor,
		Default:   spec.Default,
		ShortDesc: spec.Desc,
		LongDesc:  spec.LongDesc,
	}

	handler, err := resolveHandler(spec.Handler)
	if err != nil {
		return nil, err
	}
	f.Handler = handler
	if isPushHandler(spec.Handler) && f.Default == nil {
		f.Default = []any{}
	}

	syntaxStrs := spec.Syntax
	if len(syntaxStrs) == 0 {
		synthesized, err := synthesizeFlagSyntax(spec)
		if err != nil {
			return nil, err
		}
		syntaxStrs = []string{synthesized}
	}

	for _, str := range syntaxStrs {
		s, err := ParseFlagSyntax(str)
		if err != nil {
			return nil, err
		}
		f.Syntaxes = append(f.Syntaxes, s)
	}

	if err := f.removeCollisions(usedFlags, spec.ReportCollisions); err != nil {
		return nil, err
	}
	if len(f.Syntaxes) == 0 {
		// Every spelling collided; the definition is inactive.
		return nil, nil
	}

	if err := f.canonicalize(); err != nil {
		return nil, err
	}

	for _, s := range f.Syntaxes {
		for _, literal := range s.Flags {
			usedFlags[literal] = true
		}
	}
	return f, nil
}

// synthesizeFlagSyntax derives a long flag spelling from the key. The flag
// takes a value when a non-boolean acceptor is present or a non-boolean
// default was given.
func synthesizeFlagSyntax(spec FlagSpec) (string, error) {
	name := strings.ReplaceAll(strings.ToLower(spec.Key), "_", "-")
	name = defaultFlagCleaner.ReplaceAllString(name, "")
	name = strings.Trim(name, "-")
	if name == "" {
		return "", newDefinitionError("cannot synthesize a flag from key %q", spec.Key)
	}

	takesValue := spec.Acceptor != nil && !spec.Acceptor.IsBoolean()
	if !takesValue && spec.Default != nil {
		if _, isBool := spec.Default.(bool); !isBool {
			takesValue = true
		}
	}
	if takesValue {
		return "--" + name + " VALUE", nil
	}
	return "--" + name, nil
}

// removeCollisions drops literal spellings already claimed in usedFlags. A
// syntax entry losing every literal is removed entirely. When report is
// true, any collision is a hard error instead.
func (f *Flag) removeCollisions(usedFlags map[string]bool, report bool) error {
	kept := f.Syntaxes[:0]
	for _, s := range f.Syntaxes {
		literals := s.Flags[:0]
		for _, literal := range s.Flags {
			if usedFlags[literal] {
				if report {
					return newDefinitionError("flag %q collides with an existing flag", literal)
				}
				continue
			}
			literals = append(literals, literal)
		}
		s.Flags = literals
		if len(s.Flags) > 0 {
			kept = append(kept, s)
		}
	}
	f.Syntaxes = kept
	return nil
}

// canonicalize seeds the definition's type from the first typed spelling,
// scanning single-dash entries before double-dash entries, verifies all
// typed spellings agree, and propagates the result to untyped spellings.
// A definition with no typed spelling defaults to boolean.
func (f *Flag) canonicalize() error {
	scan := func(style FlagStyle) error {
		for _, s := range f.Syntaxes {
			if s.Style != style || s.Type == "" {
				continue
			}
			if f.Type == "" {
				f.Type = s.Type
				f.ValueType = s.ValueType
				f.ValueLabel = s.ValueLabel
				f.ValueDelim = s.ValueDelim
				continue
			}
			if s.Type != f.Type {
				return newDefinitionError("flag %q cannot combine boolean and value spellings", f.Key)
			}
			if f.Type == FlagTypeValue && s.ValueType != f.ValueType {
				return newDefinitionError("flag %q cannot combine required-value and optional-value spellings", f.Key)
			}
		}
		return nil
	}
	if err := scan(StyleShort); err != nil {
		return err
	}
	if err := scan(StyleLong); err != nil {
		return err
	}

	if f.Type == "" {
		f.Type = FlagTypeBoolean
	}
	for _, s := range f.Syntaxes {
		s.ConfigureCanonical(f.Type, f.ValueType, f.ValueLabel, f.ValueDelim)
	}
	return nil
}

// resolveHandler maps a handler spec to a Handler function.
func resolveHandler(spec any) (Handler, error) {
	switch h := spec.(type) {
	case nil:
		return replaceHandler, nil
	case string:
		switch h {
		case "", HandlerReplace:
			return replaceHandler, nil
		case HandlerPush:
			return pushHandler, nil
		}
		return nil, newDefinitionError("unknown flag handler %q", h)
	case Handler:
		return h, nil
	case func(any, any) any:
		return Handler(h), nil
	}
	return nil, newDefinitionError("unsupported flag handler spec of type %T", spec)
}

func isPushHandler(spec any) bool {
	s, ok := spec.(string)
	return ok && s == HandlerPush
}

func replaceHandler(newValue, _ any) any {
	return newValue
}

func pushHandler(newValue, prevValue any) any {
	prev, _ := prevValue.([]any)
	return append(prev, newValue)
}

// DisplayName returns the first canonical long spelling's flag literal, or
// the first short one if the flag has no long spelling.
func (f *Flag) DisplayName() string {
	for _, s := range f.Syntaxes {
		if s.Style == StyleLong {
			return s.Flags[0]
		}
	}
	if len(f.Syntaxes) > 0 {
		return f.Syntaxes[0].Flags[0]
	}
	return "--" + f.Key
}

// SortKey returns the key used to order flags for display: the first long
// spelling (or first short spelling if none) with leading dashes stripped.
func (f *Flag) SortKey() string {
	return strings.TrimLeft(f.DisplayName(), "-")
}

// Literals returns every literal spelling claimed by this definition.
func (f *Flag) Literals() []string {
	var out []string
	for _, s := range f.Syntaxes {
		out = append(out, s.Flags...)
	}
	return out
}

// syntaxFor returns the syntax entry claiming the given literal spelling.
func (f *Flag) syntaxFor(literal string) *FlagSyntax {
	for _, s := range f.Syntaxes {
		for _, l := range s.Flags {
			if l == literal {
				return s
			}
		}
	}
	return nil
}

// processValue runs the acceptor over a raw flag value.
func (f *Flag) processValue(raw string) (any, error) {
	if f.Acceptor == nil {
		return raw, nil
	}
	res := f.Acceptor.Check(raw)
	if !res.OK {
		return nil, ArgError{
			Kind:    ArgErrUnacceptableValue,
			Message: "unacceptable value \"" + raw + "\" for flag " + f.DisplayName(),
		}
	}
	return res.Value, nil
}
