// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"toolbelt-cli/internal/config"
	"toolbelt-cli/internal/issue"
	"toolbelt-cli/pkg/tooldef"
)

var (
	describeFormat string

	describeCmd = &cobra.Command{
		Use:   "describe <tool>...",
		Short: "Show a tool's flags, arguments and documentation",
		Args:  cobra.MinimumNArgs(1),
		RunE:  describeTool,
	}
)

type (
	// toolModel is the machine-readable description of a tool.
	toolModel struct {
		Name         string      `json:"name" toml:"name"`
		Description  string      `json:"description,omitempty" toml:"description,omitempty"`
		LongDesc     []string    `json:"long_description,omitempty" toml:"long_description,omitempty"`
		Runnable     bool        `json:"runnable" toml:"runnable"`
		ArgParsing   bool        `json:"arg_parsing" toml:"arg_parsing"`
		Flags        []flagModel `json:"flags,omitempty" toml:"flags,omitempty"`
		RequiredArgs []argModel  `json:"required_args,omitempty" toml:"required_args,omitempty"`
		OptionalArgs []argModel  `json:"optional_args,omitempty" toml:"optional_args,omitempty"`
		RemainingArg *argModel   `json:"remaining_args,omitempty" toml:"remaining_args,omitempty"`
		Source       string      `json:"source,omitempty" toml:"source,omitempty"`
	}

	flagModel struct {
		Key         string   `json:"key" toml:"key"`
		Spellings   []string `json:"spellings" toml:"spellings"`
		Type        string   `json:"type" toml:"type"`
		Default     any      `json:"default,omitempty" toml:"default,omitempty"`
		Group       string   `json:"group,omitempty" toml:"group,omitempty"`
		Description string   `json:"description,omitempty" toml:"description,omitempty"`
	}

	argModel struct {
		Key         string `json:"key" toml:"key"`
		DisplayName string `json:"display_name" toml:"display_name"`
		Default     any    `json:"default,omitempty" toml:"default,omitempty"`
		Description string `json:"description,omitempty" toml:"description,omitempty"`
	}
)

func init() {
	describeCmd.Flags().StringVarP(&describeFormat, "format", "f", "pretty", "output format (pretty, json, toml)")
}

func describeTool(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	ld, err := buildLoader(cfg)
	if err != nil {
		return fmt.Errorf("setting up tool lookup: %w", err)
	}

	tool, err := ld.LookupName(args)
	if err != nil || !tool.IncludesDefinition() {
		printIssue(cmd, cfg, issue.ToolNotFoundId)
		return &ExitError{Code: 1, Err: fmt.Errorf("tool %q not found", strings.Join(args, " "))}
	}

	out := cmd.OutOrStdout()
	switch describeFormat {
	case "pretty":
		fmt.Fprint(out, renderToolDescription(tool))
		return nil
	case "json":
		data, err := json.MarshalIndent(buildToolModel(tool), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return nil
	case "toml":
		data, err := toml.Marshal(buildToolModel(tool))
		if err != nil {
			return err
		}
		fmt.Fprint(out, string(data))
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected pretty, json or toml", describeFormat)
	}
}

func buildToolModel(t *tooldef.Tool) toolModel {
	m := toolModel{
		Name:        t.DisplayName(),
		Description: t.ShortDesc(),
		LongDesc:    t.LongDesc(),
		Runnable:    t.Runnable(),
		ArgParsing:  t.ArgParsingEnabled(),
	}
	if src := t.Source(); src != nil {
		m.Source = src.DisplayName()
	}
	for _, f := range t.Flags() {
		m.Flags = append(m.Flags, flagModel{
			Key:         f.Key,
			Spellings:   f.Literals(),
			Type:        string(f.Type),
			Default:     f.Default,
			Group:       f.Group.Name,
			Description: f.ShortDesc,
		})
	}
	for _, a := range t.RequiredArgs() {
		m.RequiredArgs = append(m.RequiredArgs, newArgModel(a))
	}
	for _, a := range t.OptionalArgs() {
		m.OptionalArgs = append(m.OptionalArgs, newArgModel(a))
	}
	if rem := t.RemainingArg(); rem != nil {
		model := newArgModel(rem)
		m.RemainingArg = &model
	}
	return m
}

func newArgModel(a *tooldef.Arg) argModel {
	return argModel{
		Key:         a.Key,
		DisplayName: a.DisplayName(),
		Default:     a.Default,
		Description: a.ShortDesc,
	}
}

// renderToolDescription builds the human-readable description of a tool.
func renderToolDescription(t *tooldef.Tool) string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(t.DisplayName()))
	if desc := t.ShortDesc(); desc != "" {
		b.WriteString(" - " + desc)
	}
	b.WriteString("\n")
	for _, para := range t.LongDesc() {
		b.WriteString("\n" + para + "\n")
	}

	b.WriteString("\n" + SubtitleStyle.Render("Usage:") + "\n")
	b.WriteString("  " + usageLine(t) + "\n")

	if flags := t.Flags(); len(flags) > 0 {
		b.WriteString("\n" + SubtitleStyle.Render("Flags:") + "\n")
		for _, f := range flags {
			line := "  " + ToolStyle.Render(strings.Join(f.Literals(), ", "))
			if f.Type == tooldef.FlagTypeValue {
				line += " " + f.ValueLabel
			}
			if f.ShortDesc != "" {
				line += "  " + f.ShortDesc
			}
			if f.Default != nil {
				line += SubtitleStyle.Render(fmt.Sprintf(" (default %v)", f.Default))
			}
			b.WriteString(line + "\n")
		}
	}

	writeArgs := func(title string, args []*tooldef.Arg) {
		if len(args) == 0 {
			return
		}
		b.WriteString("\n" + SubtitleStyle.Render(title) + "\n")
		for _, a := range args {
			line := "  " + ToolStyle.Render(a.DisplayName())
			if a.ShortDesc != "" {
				line += "  " + a.ShortDesc
			}
			if a.Default != nil {
				line += SubtitleStyle.Render(fmt.Sprintf(" (default %v)", a.Default))
			}
			b.WriteString(line + "\n")
		}
	}
	writeArgs("Required arguments:", t.RequiredArgs())
	writeArgs("Optional arguments:", t.OptionalArgs())
	if rem := t.RemainingArg(); rem != nil {
		writeArgs("Remaining arguments:", []*tooldef.Arg{rem})
	}

	if src := t.Source(); src != nil {
		b.WriteString("\n" + SubtitleStyle.Render("Defined in: ") + src.DisplayName() + "\n")
	}
	return b.String()
}

// usageLine renders the one-line invocation synopsis for a tool.
func usageLine(t *tooldef.Tool) string {
	parts := []string{"toolbelt", "run", t.DisplayName()}
	if !t.ArgParsingEnabled() {
		return strings.Join(append(parts, "[args...]"), " ")
	}
	if len(t.Flags()) > 0 {
		parts = append(parts, "[flags]")
	}
	for _, a := range t.RequiredArgs() {
		parts = append(parts, a.DisplayName())
	}
	for _, a := range t.OptionalArgs() {
		parts = append(parts, "["+a.DisplayName()+"]")
	}
	if rem := t.RemainingArg(); rem != nil {
		parts = append(parts, "["+rem.DisplayName()+"...]")
	}
	return strings.Join(parts, " ")
}
