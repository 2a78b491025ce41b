// SPDX-License-Identifier: MPL-2.0

// Package cueutil provides shared helpers for parsing CUE documents against
// embedded schemas. Both tool definition files and the toolbelt config file
// go through the same compile-unify-validate-decode flow, so the flow lives
// here once.
package cueutil
