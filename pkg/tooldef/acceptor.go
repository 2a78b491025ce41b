// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

type (
	// Result is the tagged outcome of an acceptor check: either an accepted
	// (possibly converted) value or a rejection. Rejection is represented
	// explicitly rather than by panicking through the acceptor boundary.
	Result struct {
		// OK reports whether the value was accepted.
		OK bool
		// Value is the final typed value; only meaningful when OK is true.
		Value any
	}

	// Acceptor validates and converts one raw string argument or flag value.
	// The zero Acceptor is not usable; construct via NewAcceptor,
	// NewFuncAcceptor, NewPatternAcceptor or NewEnumAcceptor, or resolve a
	// builtin by name with BuiltinAcceptor.
	Acceptor struct {
		name    string
		boolish bool
		check   func(s string) Result
	}
)

// NewAcceptor creates a base acceptor that accepts any string unchanged.
func NewAcceptor(name string) *Acceptor {
	return &Acceptor{
		name: name,
		check: func(s string) Result {
			return Result{OK: true, Value: s}
		},
	}
}

// NewFuncAcceptor creates an acceptor backed by a user function. The function
// runs exactly once per parse; a returned error or a panic is treated as
// rejection.
func NewFuncAcceptor(name string, fn func(s string) (any, error)) *Acceptor {
	return &Acceptor{
		name: name,
		check: func(s string) (res Result) {
			defer func() {
				if recover() != nil {
					res = Result{}
				}
			}()
			v, err := fn(s)
			if err != nil {
				return Result{}
			}
			return Result{OK: true, Value: v}
		},
	}
}

// NewPatternAcceptor creates an acceptor that matches the input against a
// regular expression. On match, convert is called with the full match
// followed by the capture groups; a nil convert returns the raw string.
func NewPatternAcceptor(name string, pattern *regexp.Regexp, convert func(match []string) any) *Acceptor {
	return &Acceptor{
		name: name,
		check: func(s string) Result {
			m := pattern.FindStringSubmatch(s)
			if m == nil {
				return Result{}
			}
			if convert == nil {
				return Result{OK: true, Value: s}
			}
			return Result{OK: true, Value: convert(m)}
		},
	}
}

// NewEnumAcceptor creates an acceptor over a fixed set of allowed values.
// Each value is stringified for comparison against the input; on match the
// original typed value is returned, not its string form.
func NewEnumAcceptor(name string, values ...any) *Acceptor {
	byString := make(map[string]any, len(values))
	for _, v := range values {
		byString[fmt.Sprint(v)] = v
	}
	return &Acceptor{
		name: name,
		check: func(s string) Result {
			v, ok := byString[s]
			if !ok {
				return Result{}
			}
			return Result{OK: true, Value: v}
		},
	}
}

// Name returns the acceptor's display name.
func (a *Acceptor) Name() string {
	return a.name
}

// IsBoolean reports whether this acceptor only accepts boolean spellings.
// Used when deciding whether a synthesized default flag takes a value.
func (a *Acceptor) IsBoolean() bool {
	return a.boolish
}

// Check validates and converts a raw value in one step.
func (a *Acceptor) Check(s string) Result {
	return a.check(s)
}

// Builtin acceptor names resolvable from any tool.
const (
	AcceptorString      = "string"
	AcceptorInteger     = "integer"
	AcceptorFloat       = "float"
	AcceptorBoolean     = "boolean"
	AcceptorStringArray = "string_array"
	AcceptorRegexp      = "regexp"
)

var builtinAcceptors = map[string]*Acceptor{
	AcceptorString:      NewAcceptor(AcceptorString),
	AcceptorInteger:     NewFuncAcceptor(AcceptorInteger, acceptInteger),
	AcceptorFloat:       NewFuncAcceptor(AcceptorFloat, acceptFloat),
	AcceptorBoolean:     newBooleanAcceptor(),
	AcceptorStringArray: NewFuncAcceptor(AcceptorStringArray, acceptStringArray),
	AcceptorRegexp:      NewFuncAcceptor(AcceptorRegexp, acceptRegexp),
}

// BuiltinAcceptor returns the builtin acceptor with the given well-known
// name, or nil if the name is not a builtin.
func BuiltinAcceptor(name string) *Acceptor {
	return builtinAcceptors[name]
}

func newBooleanAcceptor() *Acceptor {
	a := NewFuncAcceptor(AcceptorBoolean, acceptBoolean)
	a.boolish = true
	return a
}

func acceptInteger(s string) (any, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, err
	}
	return int(n), nil
}

func acceptFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// acceptBoolean recognizes "+" and "-" plus case-insensitive prefixes of
// "true"/"yes" and "false"/"no".
func acceptBoolean(s string) (any, error) {
	lower := strings.ToLower(s)
	switch {
	case lower == "+":
		return true, nil
	case lower == "-":
		return false, nil
	case lower == "":
		return nil, fmt.Errorf("empty boolean value")
	case strings.HasPrefix("true", lower), strings.HasPrefix("yes", lower):
		return true, nil
	case strings.HasPrefix("false", lower), strings.HasPrefix("no", lower):
		return false, nil
	}
	return nil, fmt.Errorf("invalid boolean value %q", s)
}

func acceptStringArray(s string) (any, error) {
	if s == "" {
		return []string{}, nil
	}
	return strings.Split(s, ","), nil
}

// acceptRegexp parses a regex literal of the form /pattern/flags where flags
// may include i, m and s.
func acceptRegexp(s string) (any, error) {
	if !strings.HasPrefix(s, "/") {
		return nil, fmt.Errorf("regex literal must start with a slash")
	}
	end := strings.LastIndex(s, "/")
	if end == 0 {
		return nil, fmt.Errorf("regex literal missing closing slash")
	}
	pattern, flags := s[1:end], s[end+1:]
	var mods string
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			mods += string(f)
		default:
			return nil, fmt.Errorf("unknown regex flag %q", string(f))
		}
	}
	if mods != "" {
		pattern = "(?" + mods + ")" + pattern
	}
	return regexp.Compile(pattern)
}
