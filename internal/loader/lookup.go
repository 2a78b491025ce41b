// SPDX-License-Identifier: MPL-2.0

package loader

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toolbelt-cli/pkg/tooldef"
)

// maxAliasDepth bounds alias chains so mutual aliases cannot spin forever
// even across priority worlds.
const maxAliasDepth = 20

// Lookup finds the tool for an invocation's argument words. The longest
// prefix of words naming a known tool wins; the rest of the words come back
// as the tool's own arguments. Aliases are followed transparently. Only the
// definition files along the name are actually read.
//
// When no prefix names a tool, the root tool is returned with all words as
// remaining arguments.
func (l *Loader) Lookup(words []string) (*tooldef.Tool, []string, error) {
	visited := map[string]bool{}

	for depth := 0; ; depth++ {
		if depth > maxAliasDepth {
			return nil, nil, fmt.Errorf("alias chain too deep resolving %q", strings.Join(words, " "))
		}
		if err := l.loadPrefix(words); err != nil {
			return nil, nil, err
		}

		best := 0
		for i := len(words); i >= 0; i-- {
			if l.entryAt(words[:i]) != nil {
				best = i
				break
			}
		}

		tool := l.entryAt(words[:best]).activeTool()
		if tool == nil {
			// Nothing registered defined anything at all; hand back an
			// empty root so callers can show global help.
			tool = l.tool(nil, 0)
		}
		remaining := append([]string(nil), words[best:]...)

		if tool.IsAlias() {
			key := nameKey(tool.FullName())
			if visited[key] {
				return nil, nil, fmt.Errorf("alias loop detected at %q", tool.DisplayName())
			}
			visited[key] = true

			target, global := tool.AliasTarget()
			var base []string
			if global || best == 0 {
				base = target
			} else {
				parent := words[:best-1]
				base = append(append([]string{}, parent...), target...)
			}
			words = append(base, remaining...)
			continue
		}

		// A query fully consumed by the resolved name is a collection
		// query: everything below that point must be materialized so
		// ToolDefined answers for the whole subtree.
		if len(remaining) == 0 {
			if err := l.loadAllUnder(words[:best]); err != nil {
				return nil, nil, err
			}
		}

		if err := tool.FinishDefinition(); err != nil {
			return nil, nil, err
		}
		return tool, remaining, nil
	}
}

// LookupName is Lookup for an exact tool name: the words must name the tool
// precisely, with no remaining arguments.
func (l *Loader) LookupName(words []string) (*tooldef.Tool, error) {
	tool, remaining, err := l.Lookup(words)
	if err != nil {
		return nil, err
	}
	if len(remaining) > 0 {
		return nil, fmt.Errorf("tool %q not found", strings.Join(words, " "))
	}
	return tool, nil
}

// ToolDefined reports whether a tool with real definition content has been
// materialized for the given name. It never triggers loading; use Lookup
// for that.
func (l *Loader) ToolDefined(words []string) bool {
	entry := l.entryAt(words)
	if entry == nil {
		return false
	}
	t := entry.activeTool()
	return t != nil && t.IncludesDefinition()
}

// ListSubtools returns the finished subtools one level under the given
// name, sorted by simple name. With recursive set, the whole subtree comes
// back in depth-first name order. Listing forces a full load of the
// namespace.
func (l *Loader) ListSubtools(words []string, recursive bool) ([]*tooldef.Tool, error) {
	if err := l.loadAllUnder(words); err != nil {
		return nil, err
	}

	keys := maps.Keys(l.entries)
	slices.Sort(keys)

	prefix := nameKey(words)
	var out []*tooldef.Tool
	for _, key := range keys {
		if key == prefix {
			continue
		}
		full := splitNameKey(key)
		if !nsPrefixOf(words, full) {
			continue
		}
		if !recursive && len(full) != len(words)+1 {
			continue
		}
		tool := l.entries[key].activeTool()
		if tool == nil || tool.IsAlias() {
			continue
		}
		if err := tool.FinishDefinition(); err != nil {
			return nil, err
		}
		out = append(out, tool)
	}
	return out, nil
}

func splitNameKey(key string) []string {
	if key == "" {
		return nil
	}
	return strings.Split(key, "\x00")
}
