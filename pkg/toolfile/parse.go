// SPDX-License-Identifier: MPL-2.0

package toolfile

import (
	_ "embed"
	"fmt"
	"os"

	"toolbelt-cli/internal/cueutil"
)

//go:embed toolfile_schema.cue
var toolfileSchema string

// Parse reads and parses a tool definition file from the given path.
func Parse(path string) (*ToolDecl, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tool file at %s: %w", path, err)
	}
	return ParseBytes(data, path)
}

// ParseBytes parses tool definition content from bytes. Uses
// cueutil.ParseAndDecodeString for the 3-step CUE parsing flow: compile
// schema, compile user data, validate and decode.
func ParseBytes(data []byte, path string) (*ToolDecl, error) {
	result, err := cueutil.ParseAndDecodeString[ToolDecl](
		toolfileSchema,
		data,
		"#Toolfile",
		cueutil.WithFilename(path),
	)
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}
