// SPDX-License-Identifier: MPL-2.0

package tooldef

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// SourceFile is a single loadable file.
	SourceFile SourceKind = "file"
	// SourceDirectory is a directory of loadable files.
	SourceDirectory SourceKind = "directory"
	// SourceMemory is an in-memory block with no backing path.
	SourceMemory SourceKind = "memory"
)

type (
	// SourceKind classifies a loadable unit.
	SourceKind string

	// SourceInfo describes one loadable unit: a file, a directory, or an
	// in-memory block. Sources form a parent chain used for ancestor
	// data-directory lookups; a child borrows a reference to its parent and
	// never owns it. Immutable once created.
	SourceInfo struct {
		kind       SourceKind
		path       string
		name       string
		parent     *SourceInfo
		contextDir string
		dataDir    string
		priority   int
	}
)

// NewRootSource creates a SourceInfo for a registered search root. The kind
// is inferred from the filesystem; a path that is neither a regular file nor
// a directory is an error.
func NewRootSource(path string, priority int, dataDirName string) (*SourceInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving source path %s: %w", path, err)
	}
	kind, err := statKind(abs)
	if err != nil {
		return nil, err
	}

	src := &SourceInfo{
		kind:     kind,
		path:     abs,
		name:     abs,
		priority: priority,
	}
	switch kind {
	case SourceFile:
		src.contextDir = filepath.Dir(abs)
	case SourceDirectory:
		src.contextDir = abs
		src.dataDir = existingDir(filepath.Join(abs, dataDirName))
	}
	return src, nil
}

// NewMemorySource creates a SourceInfo for an in-memory block, used by tests
// and embedded tool definitions.
func NewMemorySource(name string, priority int) *SourceInfo {
	return &SourceInfo{
		kind:     SourceMemory,
		name:     name,
		priority: priority,
	}
}

// Kind returns the source kind.
func (s *SourceInfo) Kind() SourceKind { return s.kind }

// Path returns the absolute path, or "" for in-memory sources.
func (s *SourceInfo) Path() string { return s.path }

// Parent returns the parent source, or nil at the chain root.
func (s *SourceInfo) Parent() *SourceInfo { return s.parent }

// ContextDir returns the nearest enclosing directory used for resolving
// relative paths referenced by this source.
func (s *SourceInfo) ContextDir() string { return s.contextDir }

// DataDir returns this source's associated data directory, or "".
func (s *SourceInfo) DataDir() string { return s.dataDir }

// Priority returns the priority rank of the search root this source
// descends from.
func (s *SourceInfo) Priority() int { return s.priority }

// DisplayName returns a human-readable identifier for error messages.
func (s *SourceInfo) DisplayName() string {
	if s.name != "" {
		return s.name
	}
	return "(unnamed source)"
}

// RelativeChild creates a child source for an entry inside this directory
// source. The child keeps this source's context directory and inherits this
// source as its data-lookup parent.
func (s *SourceInfo) RelativeChild(name, dataDirName string) (*SourceInfo, error) {
	if s.kind != SourceDirectory {
		return nil, fmt.Errorf("source %s is not a directory", s.DisplayName())
	}
	childPath := filepath.Join(s.path, name)
	kind, err := statKind(childPath)
	if err != nil {
		return nil, err
	}

	child := &SourceInfo{
		kind:       kind,
		path:       childPath,
		name:       childPath,
		parent:     s,
		contextDir: s.contextDir,
		priority:   s.priority,
	}
	if kind == SourceDirectory {
		child.dataDir = existingDir(filepath.Join(childPath, dataDirName))
	}
	return child, nil
}

// AbsoluteChild creates a child source for an arbitrary path outside this
// source's own tree (e.g. an include target). The child starts a fresh
// context directory but keeps this source as its data-lookup parent.
func (s *SourceInfo) AbsoluteChild(path, dataDirName string) (*SourceInfo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving source path %s: %w", path, err)
	}
	kind, err := statKind(abs)
	if err != nil {
		return nil, err
	}

	child := &SourceInfo{
		kind:     kind,
		path:     abs,
		name:     abs,
		parent:   s,
		priority: s.priority,
	}
	switch kind {
	case SourceFile:
		child.contextDir = filepath.Dir(abs)
	case SourceDirectory:
		child.contextDir = abs
		child.dataDir = existingDir(filepath.Join(abs, dataDirName))
	}
	return child, nil
}

// FindData looks for a data file or directory with the given relative path
// in this source's data directory, delegating to the parent chain when not
// found. The kind filter restricts matches to files or directories; the
// empty kind accepts either. Returns "" when the chain is exhausted.
func (s *SourceInfo) FindData(rel string, kind SourceKind) string {
	if s.dataDir != "" {
		candidate := filepath.Join(s.dataDir, rel)
		if found, err := statKind(candidate); err == nil {
			if kind == "" || kind == found {
				return candidate
			}
		}
	}
	if s.parent != nil {
		return s.parent.FindData(rel, kind)
	}
	return ""
}

// statKind classifies a path as file or directory.
func statKind(path string) (SourceKind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	switch {
	case info.IsDir():
		return SourceDirectory, nil
	case info.Mode().IsRegular():
		return SourceFile, nil
	}
	return "", fmt.Errorf("path %s is neither a regular file nor a directory", path)
}

// existingDir returns path if it exists and is a directory, else "".
func existingDir(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return path
	}
	return ""
}
