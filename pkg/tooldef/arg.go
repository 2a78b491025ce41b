// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"fmt"
	"strings"
)

const (
	// ArgRequired marks a positional argument that must be supplied.
	ArgRequired ArgKind = "required"
	// ArgOptional marks a positional argument with a default.
	ArgOptional ArgKind = "optional"
	// ArgRemaining marks the catch-all argument collecting trailing values.
	ArgRemaining ArgKind = "remaining"
)

type (
	// ArgKind classifies a positional argument definition.
	ArgKind string

	// Arg is one positional argument definition. A tool's positional grammar
	// is all required args first, then all optional args, then at most one
	// remaining-args catch-all.
	Arg struct {
		// Key is the storage identifier in the tool's data map.
		Key string
		// Kind is required, optional or remaining.
		Kind ArgKind
		// Acceptor validates and converts supplied values; nil accepts any
		// string.
		Acceptor *Acceptor
		// Default is the value stored when no value is supplied. Only
		// meaningful for optional and remaining args.
		Default any
		// ShortDesc is the one-line description.
		ShortDesc string
		// LongDesc is the ordered list of description paragraphs.
		LongDesc []string

		displayName string
	}

	// ArgSpec carries the construction inputs for one positional argument.
	ArgSpec struct {
		Key         string
		Acceptor    *Acceptor
		Default     any
		DisplayName string
		Desc        string
		LongDesc    []string
	}
)

func newArg(spec ArgSpec, kind ArgKind) *Arg {
	return &Arg{
		Key:         spec.Key,
		Kind:        kind,
		Acceptor:    spec.Acceptor,
		Default:     spec.Default,
		ShortDesc:   spec.Desc,
		LongDesc:    spec.LongDesc,
		displayName: spec.DisplayName,
	}
}

// DisplayName returns the name used in usage and error messages. It defaults
// to the key upper-cased with hyphens folded to underscores (e.g. "my-arg"
// becomes "MY_ARG").
func (a *Arg) DisplayName() string {
	if a.displayName != "" {
		return a.displayName
	}
	return strings.ToUpper(strings.ReplaceAll(a.Key, "-", "_"))
}

// ProcessValue runs the acceptor over a raw value and returns the converted
// result, or an ArgError referencing the display name on rejection.
func (a *Arg) ProcessValue(raw string) (any, error) {
	if a.Acceptor == nil {
		return raw, nil
	}
	res := a.Acceptor.Check(raw)
	if !res.OK {
		return nil, ArgError{
			Kind:    ArgErrUnacceptableValue,
			Message: fmt.Sprintf("unacceptable value %q for argument %s", raw, a.DisplayName()),
		}
	}
	return res.Value, nil
}
