// SPDX-License-Identifier: MPL-2.0

// Package runtime executes tool scripts.
//
// Two runtimes are provided: native runs scripts through the host shell,
// virtual runs them in the embedded mvdan/sh interpreter and therefore works
// even on systems without a POSIX shell. Both receive the parsed invocation
// through the environment: TOOLBELT_OPT_* for flag values, TOOLBELT_ARG_*
// for positional arguments, and the raw arguments as shell positional
// parameters.
package runtime
