// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"toolbelt-cli/pkg/tooldef"
	"toolbelt-cli/pkg/toolfile"
)

// loadUnit is one pending piece of definition input: a file, a directory or
// an in-memory document, attached at a namespace. Units load incrementally;
// a directory unit only reads its index and the children a lookup actually
// asks about.
type loadUnit struct {
	ns     []string
	source *tooldef.SourceInfo
	data   []byte

	fileLoaded  bool
	indexLoaded bool
	loadedSegs  map[string]bool
	fullyLoaded bool
}

func newSourceUnit(ns []string, src *tooldef.SourceInfo) *loadUnit {
	return &loadUnit{
		ns:         append([]string(nil), ns...),
		source:     src,
		loadedSegs: map[string]bool{},
	}
}

func newMemoryUnit(ns []string, src *tooldef.SourceInfo, data []byte) *loadUnit {
	u := newSourceUnit(ns, src)
	u.data = data
	return u
}

// nsPrefixOf reports whether ns is a prefix of words.
func nsPrefixOf(ns, words []string) bool {
	if len(ns) > len(words) {
		return false
	}
	for i := range ns {
		if ns[i] != words[i] {
			return false
		}
	}
	return true
}

// loadPrefix makes sure every registered unit has been read far enough to
// know whether it defines tools along the given name. Loading a unit can
// register further units (directory children, includes), so the scan
// repeats until nothing changes.
func (l *Loader) loadPrefix(words []string) error {
	for {
		changed := false
		for _, u := range l.units {
			if u.fullyLoaded || !nsPrefixOf(u.ns, words) {
				continue
			}
			var (
				did bool
				err error
			)
			if len(u.ns) < len(words) {
				did, err = l.activateForSegment(u, words[len(u.ns)])
			} else {
				did, err = l.activateSelf(u)
			}
			if err != nil {
				return err
			}
			if did {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// loadAllUnder fully loads every unit inside the given namespace.
func (l *Loader) loadAllUnder(words []string) error {
	if err := l.loadPrefix(words); err != nil {
		return err
	}
	for {
		changed := false
		for _, u := range l.units {
			if u.fullyLoaded || !nsPrefixOf(words, u.ns) {
				continue
			}
			did, err := l.activateAll(u)
			if err != nil {
				return err
			}
			if did {
				changed = true
			}
		}
		if !changed {
			return nil
		}
	}
}

// LoadAll eagerly loads every registered unit. Mostly useful for listing
// the full tool tree and in tests; normal lookups stay lazy.
func (l *Loader) LoadAll() error {
	return l.loadAllUnder(nil)
}

// activateSelf loads just enough of a unit to materialize the tool at the
// unit's own namespace: whole file for file units, index only for
// directories.
func (l *Loader) activateSelf(u *loadUnit) (bool, error) {
	switch u.source.Kind() {
	case tooldef.SourceFile, tooldef.SourceMemory:
		return l.loadUnitFile(u)
	case tooldef.SourceDirectory:
		return l.loadDirIndex(u)
	}
	return false, nil
}

// activateForSegment loads enough of a unit to know whether it defines
// anything under the next name segment.
func (l *Loader) activateForSegment(u *loadUnit, seg string) (bool, error) {
	switch u.source.Kind() {
	case tooldef.SourceFile, tooldef.SourceMemory:
		return l.loadUnitFile(u)
	case tooldef.SourceDirectory:
		didIndex, err := l.loadDirIndex(u)
		if err != nil {
			return didIndex, err
		}
		didSeg, err := l.spawnDirChild(u, seg)
		return didIndex || didSeg, err
	}
	return false, nil
}

// activateAll fully loads a unit: the whole file, or the index plus a
// spawned unit per directory entry.
func (l *Loader) activateAll(u *loadUnit) (bool, error) {
	if u.fullyLoaded {
		return false, nil
	}
	switch u.source.Kind() {
	case tooldef.SourceFile, tooldef.SourceMemory:
		did, err := l.loadUnitFile(u)
		if err != nil {
			return did, err
		}
		u.fullyLoaded = true
		return did, nil
	case tooldef.SourceDirectory:
		if _, err := l.loadDirIndex(u); err != nil {
			return true, err
		}
		if err := l.spawnAllDirChildren(u); err != nil {
			return true, err
		}
		u.fullyLoaded = true
		return true, nil
	}
	u.fullyLoaded = true
	return false, nil
}

// loadUnitFile parses and applies a file or memory unit once.
func (l *Loader) loadUnitFile(u *loadUnit) (bool, error) {
	if u.fileLoaded {
		return false, nil
	}
	u.fileLoaded = true
	u.fullyLoaded = true

	var (
		decl *toolfile.ToolDecl
		err  error
	)
	if u.source.Kind() == tooldef.SourceMemory {
		decl, err = toolfile.ParseBytes(u.data, u.source.DisplayName())
	} else {
		decl, err = toolfile.Parse(u.source.Path())
	}
	if err != nil {
		return true, err
	}

	err = toolfile.Apply(decl, toolfile.Binder{
		Source: u.source,
		At: func(rel []string) (*tooldef.Tool, error) {
			full := append(append([]string{}, u.ns...), rel...)
			return l.tool(full, u.source.Priority()), nil
		},
		Include: func(t *tooldef.Tool, path string) error {
			return l.registerInclude(u, t, path)
		},
	})
	return true, err
}

// loadDirIndex loads the directory's index file, which defines the
// directory's own tool, if the file exists.
func (l *Loader) loadDirIndex(u *loadUnit) (bool, error) {
	if u.indexLoaded {
		return false, nil
	}
	u.indexLoaded = true

	indexPath := filepath.Join(u.source.Path(), l.indexFileName)
	if _, err := os.Stat(indexPath); err != nil {
		return true, nil
	}
	child, err := u.source.RelativeChild(l.indexFileName, l.dataDirName)
	if err != nil {
		return true, err
	}
	l.registerUnit(newSourceUnit(u.ns, child))
	return true, nil
}

// spawnDirChild registers units for the directory entries that can define
// the given segment: <seg>.cue and <seg>/.
func (l *Loader) spawnDirChild(u *loadUnit, seg string) (bool, error) {
	if u.loadedSegs[seg] {
		return false, nil
	}
	u.loadedSegs[seg] = true

	did := false
	childNS := append(append([]string{}, u.ns...), seg)
	for _, name := range []string{seg + toolFileExt, seg} {
		if !l.validDirEntry(u, name, seg) {
			continue
		}
		child, err := u.source.RelativeChild(name, l.dataDirName)
		if err != nil {
			continue
		}
		l.registerUnit(newSourceUnit(childNS, child))
		did = true
	}
	return did, nil
}

// validDirEntry reports whether the named directory entry exists and is a
// legitimate definition for seg: <seg>.cue must be a file, <seg> must be a
// directory, and the index and data names are never tool definitions.
func (l *Loader) validDirEntry(u *loadUnit, name, seg string) bool {
	if name == l.indexFileName || name == l.dataDirName || strings.HasPrefix(name, ".") {
		return false
	}
	info, err := os.Stat(filepath.Join(u.source.Path(), name))
	if err != nil {
		return false
	}
	if name == seg {
		return info.IsDir()
	}
	return info.Mode().IsRegular()
}

// spawnAllDirChildren registers a unit per directory entry.
func (l *Loader) spawnAllDirChildren(u *loadUnit) error {
	dirEntries, err := os.ReadDir(u.source.Path())
	if err != nil {
		return fmt.Errorf("reading tool directory %s: %w", u.source.Path(), err)
	}
	for _, entry := range dirEntries {
		name := entry.Name()
		var seg string
		switch {
		case entry.IsDir():
			seg = name
		case strings.HasSuffix(name, toolFileExt):
			seg = strings.TrimSuffix(name, toolFileExt)
		default:
			continue
		}
		if seg == "" {
			continue
		}
		if _, err := l.spawnDirChild(u, seg); err != nil {
			return err
		}
	}
	return nil
}

// registerInclude schedules an include target as a lazy unit in the
// including tool's namespace, at the including file's priority.
func (l *Loader) registerInclude(u *loadUnit, t *tooldef.Tool, path string) error {
	if !filepath.IsAbs(path) {
		contextDir := u.source.ContextDir()
		if contextDir == "" {
			return fmt.Errorf("include %q: relative includes need a file-backed source", path)
		}
		path = filepath.Join(contextDir, path)
	}
	child, err := u.source.AbsoluteChild(path, l.dataDirName)
	if err != nil {
		return fmt.Errorf("include %q: %w", path, err)
	}

	// The same target included twice in one priority world is a no-op
	// rather than an error, and self-inclusion cannot recurse.
	key := fmt.Sprintf("%s|%d|%s", nameKey(t.FullName()), child.Priority(), child.Path())
	if l.seenIncludes == nil {
		l.seenIncludes = map[string]bool{}
	}
	if l.seenIncludes[key] {
		return nil
	}
	l.seenIncludes[key] = true

	l.registerUnit(newSourceUnit(t.FullName(), child))
	return nil
}
