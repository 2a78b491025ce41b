// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"regexp"
	"strings"
)

const (
	// StyleShort is a single-dash flag such as "-a".
	StyleShort FlagStyle = "-"
	// StyleLong is a double-dash flag such as "--abc".
	StyleLong FlagStyle = "--"

	// FlagTypeBoolean marks a flag that takes no value.
	FlagTypeBoolean FlagType = "boolean"
	// FlagTypeValue marks a flag that takes a value.
	FlagTypeValue FlagType = "value"

	// ValueTypeRequired marks a value flag whose value must be supplied.
	ValueTypeRequired ValueType = "required"
	// ValueTypeOptional marks a value flag whose value may be omitted.
	ValueTypeOptional ValueType = "optional"
)

type (
	// FlagStyle distinguishes short (single-dash) from long (double-dash)
	// flag spellings.
	FlagStyle string

	// FlagType distinguishes boolean flags from value-taking flags. The zero
	// value means the type has not been determined yet.
	FlagType string

	// ValueType distinguishes required from optional values on value-taking
	// flags. The zero value means undetermined.
	ValueType string

	// FlagSyntax is one parsed flag spelling. A FlagSyntax usually expands to
	// a single literal flag; the negatable form "--[no-]abc" expands to two.
	//
	// A FlagSyntax whose own spelling did not determine a type (e.g. a bare
	// "-a") stays untyped until ConfigureCanonical late-binds the type it
	// inherits from its synonym group.
	FlagSyntax struct {
		// Original is the spelling string as given.
		Original string
		// Flags are the literal flag strings this spelling expands to.
		Flags []string
		// Style is short or long.
		Style FlagStyle
		// Type is boolean or value, or empty if not yet determined.
		Type FlagType
		// ValueType is required or optional; only meaningful for value flags.
		ValueType ValueType
		// ValueDelim is "", " " or "=" for value flags.
		ValueDelim string
		// ValueLabel is the upper-cased display label for the value.
		ValueLabel string
		// Canonical is the normalized spelling string.
		Canonical string
	}
)

// The recognized flag syntax grammars. Order matters only for readability;
// the shapes are mutually exclusive.
var (
	shortBareRegexp     = regexp.MustCompile(`^(-[\?\w])$`)
	shortValueRegexp    = regexp.MustCompile(`^(-[\?\w])( ?)(\w+)$`)
	shortOptValueRegexp = regexp.MustCompile(`^(-[\?\w])( ?)\[(\w+)\]$`)
	longBareRegexp      = regexp.MustCompile(`^(--\w[\?\w-]*)$`)
	negatableRegexp     = regexp.MustCompile(`^--\[no-\](\w[\?\w-]*)$`)
	longValueRegexp     = regexp.MustCompile(`^(--\w[\?\w-]*)([= ])(\w+)$`)
	longOptValueRegexp  = regexp.MustCompile(`^(--\w[\?\w-]*)([= ])\[(\w+)\]$`)
	longOptValue2Regexp = regexp.MustCompile(`^(--\w[\?\w-]*)\[([= ])(\w+)\]$`)
)

// ParseFlagSyntax parses one flag spelling string into its canonical form.
// Returns a DefinitionError if the string matches none of the recognized
// grammars.
func ParseFlagSyntax(str string) (*FlagSyntax, error) {
	s := &FlagSyntax{Original: str}

	switch {
	case shortBareRegexp.MatchString(str):
		m := shortBareRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleShort

	case shortOptValueRegexp.MatchString(str):
		m := shortOptValueRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleShort
		s.Type = FlagTypeValue
		s.ValueType = ValueTypeOptional
		s.ValueDelim = m[2]
		s.ValueLabel = strings.ToUpper(m[3])

	case shortValueRegexp.MatchString(str):
		m := shortValueRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleShort
		s.Type = FlagTypeValue
		s.ValueType = ValueTypeRequired
		s.ValueDelim = m[2]
		s.ValueLabel = strings.ToUpper(m[3])

	case negatableRegexp.MatchString(str):
		m := negatableRegexp.FindStringSubmatch(str)
		s.Flags = []string{"--" + m[1], "--no-" + m[1]}
		s.Style = StyleLong
		s.Type = FlagTypeBoolean

	case longBareRegexp.MatchString(str):
		m := longBareRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleLong

	case longOptValueRegexp.MatchString(str):
		m := longOptValueRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleLong
		s.Type = FlagTypeValue
		s.ValueType = ValueTypeOptional
		s.ValueDelim = m[2]
		s.ValueLabel = strings.ToUpper(m[3])

	case longOptValue2Regexp.MatchString(str):
		m := longOptValue2Regexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleLong
		s.Type = FlagTypeValue
		s.ValueType = ValueTypeOptional
		s.ValueDelim = m[2]
		s.ValueLabel = strings.ToUpper(m[3])

	case longValueRegexp.MatchString(str):
		m := longValueRegexp.FindStringSubmatch(str)
		s.Flags = []string{m[1]}
		s.Style = StyleLong
		s.Type = FlagTypeValue
		s.ValueType = ValueTypeRequired
		s.ValueDelim = m[2]
		s.ValueLabel = strings.ToUpper(m[3])

	default:
		return nil, newDefinitionError("illegal flag syntax: %q", str)
	}

	s.Canonical = s.canonicalString()
	return s, nil
}

// ConfigureCanonical late-binds type information inherited from the synonym
// group. It only applies to spellings whose own type is still unset. The
// delimiter is translated between the long default ("=") and the short
// default ("") when the inherited delimiter came from the other style.
func (s *FlagSyntax) ConfigureCanonical(flagType FlagType, valueType ValueType, label, delim string) {
	if s.Type != "" {
		return
	}
	s.Type = flagType
	if flagType == FlagTypeValue {
		s.ValueType = valueType
		s.ValueLabel = label
		switch s.Style {
		case StyleLong:
			if delim == "" {
				delim = "="
			}
		case StyleShort:
			if delim == "=" {
				delim = ""
			}
		}
		s.ValueDelim = delim
	}
	s.Canonical = s.canonicalString()
}

// canonicalString recomputes the normalized spelling from the current type,
// label and delimiter.
func (s *FlagSyntax) canonicalString() string {
	flag := s.Flags[0]
	if s.Type != FlagTypeValue {
		// Negatable booleans keep their bracketed original shape.
		if len(s.Flags) == 2 {
			return s.Original
		}
		return flag
	}
	if s.ValueType == ValueTypeOptional {
		return flag + s.ValueDelim + "[" + s.ValueLabel + "]"
	}
	return flag + s.ValueDelim + s.ValueLabel
}
