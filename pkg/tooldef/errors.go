// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDefinition is the sentinel for all definition-time errors: illegal
	// flag syntax, incompatible flag types, mutation after finish, and so on.
	ErrDefinition = errors.New("tool definition error")

	// ErrToolAlreadyDefined is the sentinel for a tool being defined from two
	// different sources at the same priority.
	ErrToolAlreadyDefined = errors.New("tool already defined")
)

const (
	// ArgErrUnknownFlag reports a flag spelling no definition claims.
	ArgErrUnknownFlag ArgErrorKind = "unknown_flag"
	// ArgErrFlagValueMissing reports a required-value flag given without a value.
	ArgErrFlagValueMissing ArgErrorKind = "flag_value_missing"
	// ArgErrUnacceptableValue reports a value rejected by an acceptor.
	ArgErrUnacceptableValue ArgErrorKind = "unacceptable_value"
	// ArgErrMissingRequiredArg reports a required positional argument that was
	// not supplied.
	ArgErrMissingRequiredArg ArgErrorKind = "missing_required_arg"
	// ArgErrExtraArgs reports positional arguments beyond the declared grammar.
	ArgErrExtraArgs ArgErrorKind = "extra_args"
	// ArgErrGroupViolation reports a flag group cardinality violation.
	ArgErrGroupViolation ArgErrorKind = "group_violation"
)

type (
	// DefinitionError is raised while loading or constructing tool
	// definitions. It wraps ErrDefinition for errors.Is() compatibility.
	DefinitionError struct {
		// Message describes what was illegal about the definition.
		Message string
		// Cause is the underlying error, if any.
		Cause error
	}

	// ToolDefinitionError reports that two sources of equal priority both set
	// definition content for the same tool. It wraps ErrToolAlreadyDefined.
	ToolDefinitionError struct {
		// FullName is the colliding tool's full name segments.
		FullName []string
		// ExistingSource describes the source that defined the tool first.
		ExistingSource string
		// NewSource describes the source that attempted the redefinition.
		NewSource string
	}

	// ArgErrorKind classifies a single invocation parsing failure.
	ArgErrorKind string

	// ArgError is one invalid-argument failure found while parsing a live
	// invocation.
	ArgError struct {
		// Kind classifies the failure.
		Kind ArgErrorKind
		// Message is the human-readable description.
		Message string
	}

	// ArgParsingError collects every invalid-argument failure from one
	// invocation so the user sees all of them at once.
	ArgParsingError []ArgError
)

// newDefinitionError builds a DefinitionError with a formatted message.
func newDefinitionError(format string, args ...any) *DefinitionError {
	return &DefinitionError{Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *DefinitionError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the sentinel (or the cause when one is present).
func (e *DefinitionError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return ErrDefinition
}

// Is reports whether target is ErrDefinition.
func (e *DefinitionError) Is(target error) bool {
	return target == ErrDefinition
}

// Error implements the error interface.
func (e *ToolDefinitionError) Error() string {
	name := strings.Join(e.FullName, " ")
	if name == "" {
		name = "(root)"
	}
	return fmt.Sprintf("tool %q already defined at this path: first defined by %s, redefined by %s",
		name, e.ExistingSource, e.NewSource)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *ToolDefinitionError) Unwrap() error {
	return ErrToolAlreadyDefined
}

// Error implements the error interface.
func (e ArgError) Error() string {
	return e.Message
}

// Error implements the error interface by joining all collected failures.
func (errs ArgParsingError) Error() string {
	switch len(errs) {
	case 0:
		return ""
	case 1:
		return errs[0].Message
	}
	var b strings.Builder
	fmt.Fprintf(&b, "invocation failed with %d problems:", len(errs))
	for _, e := range errs {
		b.WriteString("\n  - ")
		b.WriteString(e.Message)
	}
	return b.String()
}

// HasKind reports whether any collected failure has the given kind.
func (errs ArgParsingError) HasKind(kind ArgErrorKind) bool {
	for _, e := range errs {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
