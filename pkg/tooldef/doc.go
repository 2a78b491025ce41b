// SPDX-License-Identifier: MPL-2.0

// Package tooldef contains the definition model for toolbelt tools: flag
// syntax parsing and canonicalization, flag synonym groups, flag group
// cardinality constraints, positional arguments, value acceptors, source
// bookkeeping, and the Tool aggregate with its building/finished lifecycle.
//
// The package is front-end agnostic: tool source files (see pkg/toolfile)
// mutate definitions exclusively through the exported mutation methods on
// Tool, and the loader (internal/loader) owns tool lifetimes.
package tooldef
