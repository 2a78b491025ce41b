// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toolbelt-cli/pkg/tooldef"
)

const (
	// DefaultIndexFileName is the file inside a tool directory that defines
	// the directory's own tool.
	DefaultIndexFileName = "toolbelt.cue"
	// DefaultDotFileName is the conventional definition file looked for in
	// a search path.
	DefaultDotFileName = ".toolbelt.cue"
	// DefaultDotDirName is the conventional definition directory looked for
	// in a search path.
	DefaultDotDirName = ".toolbelt"
	// DefaultDataDirName is the name of per-directory data directories.
	// Data directories are never treated as tool definitions.
	DefaultDataDirName = ".data"

	// toolFileExt is the extension definition files carry.
	toolFileExt = ".cue"
)

type (
	// Loader finds and materializes tool definitions from an ordered list
	// of registered paths.
	Loader struct {
		indexFileName string
		dotFileName   string
		dotDirName    string
		dataDirName   string

		// nextHigh and nextLow hand out priority ranks. High-priority
		// registrations count up from 1 so the latest prepend wins; normal
		// registrations count down from -1 so the latest append loses.
		nextHigh int
		nextLow  int

		entries      map[string]*toolEntry
		units        []*loadUnit
		middleware   []tooldef.Middleware
		seenIncludes map[string]bool
	}

	// Option configures a Loader.
	Option func(*Loader)

	// toolEntry collects the per-priority tool definitions for one full
	// name. Each priority rank gets an independent definition world; the
	// active definition is the highest-ranked one with real content.
	toolEntry struct {
		definitions map[int]*tooldef.Tool
	}
)

// WithIndexFileName overrides the directory index file name.
func WithIndexFileName(name string) Option {
	return func(l *Loader) { l.indexFileName = name }
}

// WithDataDirName overrides the data directory name.
func WithDataDirName(name string) Option {
	return func(l *Loader) { l.dataDirName = name }
}

// WithDotNames overrides the conventional search path entry names.
func WithDotNames(file, dir string) Option {
	return func(l *Loader) {
		l.dotFileName = file
		l.dotDirName = dir
	}
}

// New creates an empty loader.
func New(opts ...Option) *Loader {
	l := &Loader{
		indexFileName: DefaultIndexFileName,
		dotFileName:   DefaultDotFileName,
		dotDirName:    DefaultDotDirName,
		dataDirName:   DefaultDataDirName,
		nextHigh:      1,
		nextLow:       -1,
		entries:       map[string]*toolEntry{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// AddMiddleware registers a configuration callback attached to every tool
// the loader creates from now on. Middleware run when a tool's definition
// is finished, in reverse registration order.
func (l *Loader) AddMiddleware(m tooldef.Middleware) {
	l.middleware = append(l.middleware, m)
}

// AddPath registers a definition file or directory at the root namespace
// with low priority: already-registered paths shadow it.
func (l *Loader) AddPath(path string) error {
	return l.addPath(path, l.takeLow())
}

// AddPathHighPriority registers a definition file or directory at the root
// namespace with high priority: it shadows every already-registered path.
func (l *Loader) AddPathHighPriority(path string) error {
	return l.addPath(path, l.takeHigh())
}

func (l *Loader) addPath(path string, priority int) error {
	src, err := tooldef.NewRootSource(path, priority, l.dataDirName)
	if err != nil {
		return fmt.Errorf("registering path %s: %w", path, err)
	}
	l.registerUnit(newSourceUnit(nil, src))
	return nil
}

// AddSearchPath registers a directory to be searched for the conventional
// dotfile entries: <dir>/.toolbelt.cue and <dir>/.toolbelt. Entries that do
// not exist are skipped silently. Low priority.
func (l *Loader) AddSearchPath(dir string) error {
	return l.addSearchPath(dir, l.takeLow())
}

// AddSearchPathHighPriority is AddSearchPath at high priority.
func (l *Loader) AddSearchPathHighPriority(dir string) error {
	return l.addSearchPath(dir, l.takeHigh())
}

func (l *Loader) addSearchPath(dir string, priority int) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolving search path %s: %w", dir, err)
	}
	for _, name := range []string{l.dotFileName, l.dotDirName} {
		candidate := filepath.Join(abs, name)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		if err := l.addPath(candidate, priority); err != nil {
			return err
		}
	}
	return nil
}

// AddBytes registers an in-memory definition document at the root
// namespace with low priority. Used by tests and embedded tools.
func (l *Loader) AddBytes(name string, data []byte) {
	src := tooldef.NewMemorySource(name, l.takeLow())
	l.registerUnit(newMemoryUnit(nil, src, data))
}

// AddBytesHighPriority is AddBytes at high priority.
func (l *Loader) AddBytesHighPriority(name string, data []byte) {
	src := tooldef.NewMemorySource(name, l.takeHigh())
	l.registerUnit(newMemoryUnit(nil, src, data))
}

func (l *Loader) takeHigh() int {
	p := l.nextHigh
	l.nextHigh++
	return p
}

func (l *Loader) takeLow() int {
	p := l.nextLow
	l.nextLow--
	return p
}

func (l *Loader) registerUnit(u *loadUnit) {
	l.units = append(l.units, u)
}

// tool returns the definition object for the given full name in the given
// priority world, creating placeholders up the name chain as needed.
func (l *Loader) tool(full []string, priority int) *tooldef.Tool {
	key := nameKey(full)
	entry, ok := l.entries[key]
	if !ok {
		entry = &toolEntry{definitions: map[int]*tooldef.Tool{}}
		l.entries[key] = entry
	}
	if t, ok := entry.definitions[priority]; ok {
		return t
	}

	var parent *tooldef.Tool
	if len(full) > 0 {
		parent = l.tool(full[:len(full)-1], priority)
	}
	t := tooldef.NewTool(full, priority, parent)
	for _, m := range l.middleware {
		// Tools are created unfinished, so attaching cannot fail.
		_ = t.AddMiddleware(m)
	}
	entry.definitions[priority] = t
	return t
}

// entryAt returns the entry for a full name, or nil when no priority world
// has created it yet.
func (l *Loader) entryAt(full []string) *toolEntry {
	return l.entries[nameKey(full)]
}

// activeTool returns the winning definition for one entry: the definition
// with real content from the highest priority world, falling back to the
// highest-ranked placeholder.
func (e *toolEntry) activeTool() *tooldef.Tool {
	if e == nil || len(e.definitions) == 0 {
		return nil
	}
	priorities := maps.Keys(e.definitions)
	slices.Sort(priorities)
	for i := len(priorities) - 1; i >= 0; i-- {
		if t := e.definitions[priorities[i]]; t.IncludesDefinition() {
			return t
		}
	}
	return e.definitions[priorities[len(priorities)-1]]
}

func nameKey(full []string) string {
	return strings.Join(full, "\x00")
}
