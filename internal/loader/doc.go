// SPDX-License-Identifier: MPL-2.0

// Package loader finds and materializes tool definitions on demand.
//
// Paths registered with the loader form an ordered list of definition
// worlds: paths added with high priority shadow paths added with low
// priority, and within one priority rank two sources defining the same
// tool is an error. Definition files are CUE documents parsed by
// pkg/toolfile; the loader only reads as much of the registered tree as a
// lookup actually needs, so a large tool directory costs nothing until one
// of its names is referenced.
package loader
