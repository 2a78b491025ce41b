// SPDX-License-Identifier: MPL-2.0

package toolfile

type (
	// ToolDecl is the declarative shape of one tool in a definition file.
	// The file's top level is itself a ToolDecl describing the tool the
	// file is named for; the Tools map nests subtool declarations.
	ToolDecl struct {
		// Desc is the one-line description.
		Desc string `json:"desc,omitempty"`
		// LongDesc is the ordered list of description paragraphs.
		LongDesc []string `json:"long_desc,omitempty"`
		// Flags are the flag declarations.
		Flags []FlagDecl `json:"flags,omitempty"`
		// FlagGroups declares named flag groups before any member flags
		// reference them.
		FlagGroups []GroupDecl `json:"flag_groups,omitempty"`
		// RequiredArgs are the required positional arguments in order.
		RequiredArgs []ArgDecl `json:"required_args,omitempty"`
		// OptionalArgs are the optional positional arguments in order.
		OptionalArgs []ArgDecl `json:"optional_args,omitempty"`
		// RemainingArgs is the catch-all argument, if any.
		RemainingArgs *ArgDecl `json:"remaining_args,omitempty"`
		// Acceptors declares named acceptors visible to this tool and its
		// descendants.
		Acceptors []AcceptorDecl `json:"acceptors,omitempty"`
		// Alias redirects this name to another tool. Space-separated
		// segments; a leading "/" resolves from the root instead of among
		// siblings. Mutually exclusive with all definition content.
		Alias string `json:"alias,omitempty"`
		// Include pulls another definition file or directory into this
		// tool's namespace.
		Include string `json:"include,omitempty"`
		// Script is the runnable body.
		Script string `json:"script,omitempty"`
		// DisableArgParsing hands the raw argument list to the script.
		DisableArgParsing bool `json:"disable_arg_parsing,omitempty"`
		// DisabledFlags reserves flag spellings so subtools or mixins
		// cannot claim them.
		DisabledFlags []string `json:"disabled_flags,omitempty"`
		// Tools nests subtool declarations by simple name.
		Tools map[string]*ToolDecl `json:"tools,omitempty"`
	}

	// FlagDecl declares one flag.
	FlagDecl struct {
		Key              string   `json:"key"`
		Syntax           []string `json:"syntax,omitempty"`
		Desc             string   `json:"desc,omitempty"`
		LongDesc         []string `json:"long_desc,omitempty"`
		Default          any      `json:"default,omitempty"`
		Acceptor         string   `json:"acceptor,omitempty"`
		Handler          string   `json:"handler,omitempty"`
		Group            string   `json:"group,omitempty"`
		ReportCollisions bool     `json:"report_collisions,omitempty"`
	}

	// ArgDecl declares one positional argument.
	ArgDecl struct {
		Key         string   `json:"key"`
		Desc        string   `json:"desc,omitempty"`
		LongDesc    []string `json:"long_desc,omitempty"`
		Default     any      `json:"default,omitempty"`
		Acceptor    string   `json:"acceptor,omitempty"`
		DisplayName string   `json:"display_name,omitempty"`
	}

	// GroupDecl declares one named flag group.
	GroupDecl struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
		Desc string `json:"desc,omitempty"`
	}

	// AcceptorDecl declares one named acceptor: a fixed value enum or a
	// regular expression pattern.
	AcceptorDecl struct {
		Name    string `json:"name"`
		Kind    string `json:"kind"`
		Values  []any  `json:"values,omitempty"`
		Pattern string `json:"pattern,omitempty"`
	}
)

// HasContent reports whether the declaration carries definition content of
// its own, as opposed to only nesting subtools. Only declarations with
// content lock their source, so two files may both contribute descendants
// under a shared namespace tool.
func (d *ToolDecl) HasContent() bool {
	return d.Desc != "" ||
		len(d.LongDesc) > 0 ||
		len(d.Flags) > 0 ||
		len(d.FlagGroups) > 0 ||
		len(d.RequiredArgs) > 0 ||
		len(d.OptionalArgs) > 0 ||
		d.RemainingArgs != nil ||
		len(d.Acceptors) > 0 ||
		d.Alias != "" ||
		d.Include != "" ||
		d.Script != "" ||
		d.DisableArgParsing ||
		len(d.DisabledFlags) > 0
}
