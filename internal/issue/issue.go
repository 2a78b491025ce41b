// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type Id int

const (
	ToolNotFoundId Id = iota + 1
	ToolFileParseErrorId
	ToolAlreadyDefinedId
	FlagSyntaxErrorId
	InvalidInvocationId
	AliasLoopId
	ConfigLoadFailedId
	ScriptExecutionFailedId
	ShellNotFoundId
	PermissionDeniedId
)

type MarkdownMsg string

type HttpLink string

type Renderer interface {
	Render(in string, stylePath string) (string, error)
}

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink  // must never be empty, because we need to have docs about all issue types
	extLinks []HttpLink  // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

func (i *Issue) Render(stylePath string) (string, error) {
	extraMd := ""
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		extraMd += "\n\n"
		extraMd += "## See also: "
		for _, link := range i.docLinks {
			extraMd += "- [" + string(link) + "]"
		}
		for _, link := range i.extLinks {
			extraMd += "- [" + string(link) + "]"
		}
	}
	return render(string(i.mdMsg)+extraMd, stylePath)
}

var (
	render = glamour.Render

	toolNotFoundIssue = &Issue{
		id: ToolNotFoundId,
		mdMsg: `
# Tool not found!

The tool you named was not found in any registered definition path.

## Things you can try:
- List all available tools:
~~~
$ toolbelt list
~~~

- Check for typos in the tool name
- Verify the defining file lives in a registered search path
- List the subtools of a namespace:
~~~
$ toolbelt list db
~~~`,
	}

	toolFileParseErrorIssue = &Issue{
		id: ToolFileParseErrorId,
		mdMsg: `
# Failed to parse a tool definition file!

A definition file contains syntax errors or does not match the schema.

## Common issues:
- Invalid CUE syntax (missing quotes, braces, etc.)
- Unknown field names
- Invalid values for known fields
- An illegal flag syntax string

## Things you can try:
- Check the error message above for the specific field path
- Validate the file using the cue command-line tool

## Example of a valid tool definition:
~~~cue
desc: "build the project"
flags: [
	{key: "release", syntax: ["-r", "--release"]},
]
script: "go build ./..."
~~~`,
	}

	toolAlreadyDefinedIssue = &Issue{
		id: ToolAlreadyDefinedId,
		mdMsg: `
# Tool defined twice!

Two definition files at the same priority both define the same tool.

## How priority works:
- Paths registered earlier shadow paths registered later
- Within one path, a directory index and a child file must not both
  define the same tool

## Things you can try:
- Remove or rename one of the two definitions shown above
- Move one definition to a different search path so one shadows the other
- If both files should contribute subtools, give the shared parent no
  content of its own`,
	}

	flagSyntaxErrorIssue = &Issue{
		id: FlagSyntaxErrorId,
		mdMsg: `
# Illegal flag syntax!

A flag definition uses a spelling string the grammar does not recognize.

## Recognized spellings:
- Short: ` + "`-a`" + `, ` + "`-a VALUE`" + `, ` + "`-aVALUE`" + `, ` + "`-a [VALUE]`" + `
- Long: ` + "`--flag`" + `, ` + "`--flag=VALUE`" + `, ` + "`--flag VALUE`" + `, ` + "`--flag=[VALUE]`" + `, ` + "`--flag[=VALUE]`" + `
- Negatable: ` + "`--[no-]flag`" + `

## Things you can try:
- Fix the spelling in the flag's syntax list
- Remember that one flag's spellings must agree on whether they take a value`,
	}

	invalidInvocationIssue = &Issue{
		id: InvalidInvocationId,
		mdMsg: `
# Invalid arguments!

The arguments you passed do not match the tool's flags and positional
arguments. Every problem found is listed above.

## Things you can try:
- Show the tool's usage:
~~~
$ toolbelt describe <tool>
~~~

- Use ` + "`--`" + ` to stop flag parsing and pass the rest through verbatim`,
	}

	aliasLoopIssue = &Issue{
		id: AliasLoopId,
		mdMsg: `
# Alias loop detected!

Following the alias chain came back to a name it already visited.

## Example of a loop:
~~~cue
tools: {
	a: {alias: "b"}
	b: {alias: "a"}  // a -> b -> a
}
~~~

## Things you can try:
- Point one of the aliases at a real tool
- Remove the alias that closes the cycle`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

Could not load the toolbelt configuration file.

## Configuration file locations:
- Linux: ~/.config/toolbelt/config.cue
- macOS: ~/Library/Application Support/toolbelt/config.cue
- Windows: %APPDATA%\toolbelt\config.cue

## Things you can try:
- Create a default configuration:
~~~
$ toolbelt config init
~~~

- Check the configuration syntax
- Remove the config file to use defaults

## Example configuration:
~~~cue
search_paths: [
	"/home/user/projects",
]

ui: {
	color_scheme: "auto"
	verbose: false
}
~~~`,
	}

	scriptExecutionFailedIssue = &Issue{
		id: ScriptExecutionFailedId,
		mdMsg: `
# Script execution failed!

The tool's script failed to execute properly.

## Common causes:
- Command not found in PATH
- Permission denied
- Syntax error in the script
- Missing dependencies

## Things you can try:
- Run with verbose mode for more details:
~~~
$ toolbelt --verbose run <tool>
~~~

- Test the script manually in your shell
- Check file permissions and PATH settings`,
	}

	shellNotFoundIssue = &Issue{
		id: ShellNotFoundId,
		mdMsg: `
# Shell not found!

Could not find a suitable shell to run the tool's script.

## Shells we look for:
- Linux/macOS: $SHELL, bash, sh
- Windows: pwsh, powershell, cmd

## Things you can try:
- Install bash or another POSIX shell
- Set the SHELL environment variable`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to perform this operation.

## Common causes:
- Trying to write to a protected directory
- Script file is not executable

## Things you can try:
- Check file/directory permissions
- Run toolbelt from a directory you own`,
	}

	issues = map[Id]*Issue{
		toolNotFoundIssue.Id():          toolNotFoundIssue,
		toolFileParseErrorIssue.Id():    toolFileParseErrorIssue,
		toolAlreadyDefinedIssue.Id():    toolAlreadyDefinedIssue,
		flagSyntaxErrorIssue.Id():       flagSyntaxErrorIssue,
		invalidInvocationIssue.Id():     invalidInvocationIssue,
		aliasLoopIssue.Id():             aliasLoopIssue,
		configLoadFailedIssue.Id():      configLoadFailedIssue,
		scriptExecutionFailedIssue.Id(): scriptExecutionFailedIssue,
		shellNotFoundIssue.Id():         shellNotFoundIssue,
		permissionDeniedIssue.Id():      permissionDeniedIssue,
	}
)

func Values() []*Issue {
	return maps.Values(issues)
}

func Get(id Id) *Issue {
	return issues[id]
}
