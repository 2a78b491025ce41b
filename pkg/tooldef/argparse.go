// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"fmt"
	"strings"
)

type (
	// ArgParser parses one live invocation's argument list against a tool
	// definition. The parser does not stop at the first problem; every
	// failure is collected so the user sees all of them at once.
	ArgParser struct {
		tool           *Tool
		flagsByLiteral map[string]*Flag
	}

	// ParseResult is the outcome of parsing one invocation.
	ParseResult struct {
		// Data maps every flag and argument key to its final value,
		// starting from the tool's defaults.
		Data map[string]any
		// Provided records which flag keys were actually supplied.
		Provided map[string]bool
		// Raw is the unparsed argument list, populated only when the tool
		// has argument parsing disabled.
		Raw []string
	}
)

// NewArgParser creates a parser for the given tool. The tool's definition
// should be finished; flags added afterwards are not seen.
func NewArgParser(t *Tool) *ArgParser {
	byLiteral := map[string]*Flag{}
	for _, f := range t.Flags() {
		for _, literal := range f.Literals() {
			byLiteral[literal] = f
		}
	}
	return &ArgParser{tool: t, flagsByLiteral: byLiteral}
}

// Parse interprets the argument list. The returned result always carries the
// tool's default data even on failure; the error, when non-nil, is an
// ArgParsingError listing every problem found.
func (p *ArgParser) Parse(args []string) (*ParseResult, error) {
	result := &ParseResult{
		Data:     p.tool.DefaultData(),
		Provided: map[string]bool{},
	}

	if !p.tool.ArgParsingEnabled() {
		result.Raw = append([]string(nil), args...)
		return result, nil
	}

	var (
		errs       ArgParsingError
		positional []string
	)
	flagsAllowed := true

	for i := 0; i < len(args); i++ {
		token := args[i]
		switch {
		case flagsAllowed && token == "--":
			flagsAllowed = false
		case flagsAllowed && strings.HasPrefix(token, "--"):
			i = p.parseLongFlag(token, args, i, result, &errs)
		case flagsAllowed && len(token) > 1 && strings.HasPrefix(token, "-"):
			i = p.parseShortFlags(token, args, i, result, &errs)
		default:
			positional = append(positional, token)
		}
	}

	p.assignPositional(positional, result, &errs)

	for _, g := range p.tool.FlagGroups() {
		if err := g.Validate(result.Provided); err != nil {
			errs = append(errs, err.(ArgError))
		}
	}

	if len(errs) > 0 {
		return result, errs
	}
	return result, nil
}

// parseLongFlag handles one "--name", "--name=value" or "--name value"
// token and returns the index of the last consumed token.
func (p *ArgParser) parseLongFlag(token string, args []string, i int, result *ParseResult, errs *ArgParsingError) int {
	name, inline, hasInline := strings.Cut(token, "=")

	f, ok := p.flagsByLiteral[name]
	if !ok {
		*errs = append(*errs, ArgError{
			Kind:    ArgErrUnknownFlag,
			Message: fmt.Sprintf("flag %q is not recognized", name),
		})
		return i
	}

	if f.Type == FlagTypeBoolean {
		if hasInline {
			*errs = append(*errs, ArgError{
				Kind:    ArgErrFlagValueMissing,
				Message: fmt.Sprintf("flag %q does not take a value", name),
			})
			return i
		}
		// The negatable spelling's second literal is the "no-" form.
		value := true
		if s := f.syntaxFor(name); s != nil && len(s.Flags) == 2 && s.Flags[1] == name {
			value = false
		}
		p.storeFlag(f, value, result)
		return i
	}

	var raw string
	switch {
	case hasInline:
		raw = inline
	case f.ValueType == ValueTypeRequired:
		if i+1 >= len(args) {
			*errs = append(*errs, ArgError{
				Kind:    ArgErrFlagValueMissing,
				Message: fmt.Sprintf("flag %q requires a value", name),
			})
			return i
		}
		i++
		raw = args[i]
	default:
		// Optional values must be attached inline; omitting the value
		// stores the empty string.
		p.storeFlag(f, "", result)
		return i
	}

	p.acceptAndStore(f, raw, result, errs)
	return i
}

// parseShortFlags handles one single-dash token, which may cluster several
// boolean flags and may end with a value flag taking the rest of the token
// as its value. Returns the index of the last consumed token.
func (p *ArgParser) parseShortFlags(token string, args []string, i int, result *ParseResult, errs *ArgParsingError) int {
	body := token[1:]
	for pos := 0; pos < len(body); pos++ {
		literal := "-" + string(body[pos])
		f, ok := p.flagsByLiteral[literal]
		if !ok {
			*errs = append(*errs, ArgError{
				Kind:    ArgErrUnknownFlag,
				Message: fmt.Sprintf("flag %q is not recognized", literal),
			})
			return i
		}

		if f.Type == FlagTypeBoolean {
			p.storeFlag(f, true, result)
			continue
		}

		rest := body[pos+1:]
		switch {
		case rest != "":
			p.acceptAndStore(f, rest, result, errs)
		case f.ValueType == ValueTypeRequired:
			if i+1 >= len(args) {
				*errs = append(*errs, ArgError{
					Kind:    ArgErrFlagValueMissing,
					Message: fmt.Sprintf("flag %q requires a value", literal),
				})
				return i
			}
			i++
			p.acceptAndStore(f, args[i], result, errs)
		default:
			p.storeFlag(f, "", result)
		}
		return i
	}
	return i
}

// acceptAndStore runs the flag's acceptor over a raw value, recording either
// the converted value or the rejection.
func (p *ArgParser) acceptAndStore(f *Flag, raw string, result *ParseResult, errs *ArgParsingError) {
	value, err := f.processValue(raw)
	if err != nil {
		*errs = append(*errs, err.(ArgError))
		return
	}
	p.storeFlag(f, value, result)
}

// storeFlag combines a parsed value with the previously stored one through
// the flag's handler.
func (p *ArgParser) storeFlag(f *Flag, value any, result *ParseResult) {
	prev := result.Data[f.Key]
	if !result.Provided[f.Key] {
		// The handler chain starts from the declared default, which for
		// push handlers is the empty list rather than a scalar.
		prev = f.Default
	}
	result.Data[f.Key] = f.Handler(value, prev)
	result.Provided[f.Key] = true
}

// assignPositional distributes positional tokens over required args, then
// optional args, then the remaining-args catch-all.
func (p *ArgParser) assignPositional(tokens []string, result *ParseResult, errs *ArgParsingError) {
	next := 0
	take := func() (string, bool) {
		if next >= len(tokens) {
			return "", false
		}
		t := tokens[next]
		next++
		return t, true
	}

	for _, a := range p.tool.RequiredArgs() {
		raw, ok := take()
		if !ok {
			*errs = append(*errs, ArgError{
				Kind:    ArgErrMissingRequiredArg,
				Message: fmt.Sprintf("required argument %s is missing", a.DisplayName()),
			})
			continue
		}
		p.storeArg(a, raw, result, errs)
	}

	for _, a := range p.tool.OptionalArgs() {
		raw, ok := take()
		if !ok {
			break
		}
		p.storeArg(a, raw, result, errs)
	}

	if rem := p.tool.RemainingArg(); rem != nil {
		values := []any{}
		for {
			raw, ok := take()
			if !ok {
				break
			}
			v, err := rem.ProcessValue(raw)
			if err != nil {
				*errs = append(*errs, err.(ArgError))
				continue
			}
			values = append(values, v)
		}
		result.Data[rem.Key] = values
		return
	}

	if next < len(tokens) {
		*errs = append(*errs, ArgError{
			Kind:    ArgErrExtraArgs,
			Message: fmt.Sprintf("extra arguments: %s", strings.Join(tokens[next:], " ")),
		})
	}
}

func (p *ArgParser) storeArg(a *Arg, raw string, result *ParseResult, errs *ArgParsingError) {
	v, err := a.ProcessValue(raw)
	if err != nil {
		*errs = append(*errs, err.(ArgError))
		return
	}
	result.Data[a.Key] = v
}
