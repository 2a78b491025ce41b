// SPDX-License-Identifier: MPL-2.0

// Package toolfile parses CUE tool definition files and applies them to
// tool definitions. A toolbelt.cue (or <name>.cue) file describes one tool
// and any number of nested subtools: descriptions, flags, flag groups,
// positional arguments, custom acceptors, aliases, includes and the script
// body.
//
// The package is deliberately ignorant of the loader. Applying a parsed
// file goes through a Binder of callbacks, so the loader decides how tool
// objects are created and how include targets are scheduled.
package toolfile
