// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"fmt"
	"sort"
)

const (
	// GroupRequired requires every member flag to be supplied.
	GroupRequired GroupKind = "required"
	// GroupOptional places no constraint on member flags.
	GroupOptional GroupKind = "optional"
	// GroupExactlyOne requires exactly one member flag.
	GroupExactlyOne GroupKind = "exactly_one"
	// GroupAtMostOne permits at most one member flag.
	GroupAtMostOne GroupKind = "at_most_one"
	// GroupAtLeastOne requires at least one member flag.
	GroupAtLeastOne GroupKind = "at_least_one"
)

type (
	// GroupKind is the cardinality constraint a flag group imposes on the
	// set of member flags actually supplied at runtime.
	GroupKind string

	// FlagGroup groups flag definitions under one cardinality constraint.
	FlagGroup struct {
		// Name is the group's unique name within its tool; empty for the
		// default group.
		Name string
		// Kind is the cardinality constraint.
		Kind GroupKind
		// Desc is the one-line description shown in help.
		Desc string
		// Flags are the member definitions in declaration order (sorted for
		// display when the tool definition is finished).
		Flags []*Flag
	}
)

// IsValid returns whether the GroupKind is one of the defined kinds, and a
// list of validation errors if it is not.
func (k GroupKind) IsValid() (bool, []error) {
	switch k {
	case GroupRequired, GroupOptional, GroupExactlyOne, GroupAtMostOne, GroupAtLeastOne:
		return true, nil
	default:
		return false, []error{fmt.Errorf("invalid flag group kind %q", string(k))}
	}
}

// DefaultDesc returns the default description text for the group's kind,
// used when no explicit description was set.
func (k GroupKind) DefaultDesc() string {
	switch k {
	case GroupRequired:
		return "These flags are required."
	case GroupExactlyOne:
		return "Exactly one of these flags must be set."
	case GroupAtMostOne:
		return "At most one of these flags may be set."
	case GroupAtLeastOne:
		return "At least one of these flags must be set."
	default:
		return "These flags are optional."
	}
}

// EffectiveDesc returns the explicit description or the kind default.
func (g *FlagGroup) EffectiveDesc() string {
	if g.Desc != "" {
		return g.Desc
	}
	return g.Kind.DefaultDesc()
}

// Validate checks the group's cardinality constraint against the set of
// flag keys the user actually supplied. Returns nil when satisfied, or an
// ArgError describing the violation.
func (g *FlagGroup) Validate(provided map[string]bool) error {
	var present []*Flag
	for _, f := range g.Flags {
		if provided[f.Key] {
			present = append(present, f)
		}
	}

	switch g.Kind {
	case GroupOptional:
		return nil
	case GroupRequired:
		for _, f := range g.Flags {
			if !provided[f.Key] {
				return g.violation("flag %s is required", f.DisplayName())
			}
		}
		return nil
	case GroupExactlyOne:
		if len(present) == 0 {
			return g.violation("exactly one of these flags is required, but none were provided")
		}
		if len(present) > 1 {
			return g.violation("exactly one of these flags is required, but both %s and %s were provided",
				present[0].DisplayName(), present[1].DisplayName())
		}
		return nil
	case GroupAtMostOne:
		if len(present) > 1 {
			return g.violation("at most one of these flags may be provided, but both %s and %s were provided",
				present[0].DisplayName(), present[1].DisplayName())
		}
		return nil
	case GroupAtLeastOne:
		if len(present) == 0 {
			return g.violation("at least one of these flags is required, but none were provided")
		}
		return nil
	}
	return nil
}

func (g *FlagGroup) violation(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if g.Name != "" {
		msg = fmt.Sprintf("in flag group %q: %s", g.Name, msg)
	}
	return ArgError{Kind: ArgErrGroupViolation, Message: msg}
}

// sortFlags orders member flags by their sort key for display. Called when
// the owning tool's definition is finished.
func (g *FlagGroup) sortFlags() {
	sort.SliceStable(g.Flags, func(i, j int) bool {
		return g.Flags[i].SortKey() < g.Flags[j].SortKey()
	})
}
