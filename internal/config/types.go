// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidSearchPath is returned when a SearchPath value is whitespace-only.
	ErrInvalidSearchPath = errors.New("invalid search path")
	// ErrInvalidToolPath is returned when a ToolPath value is whitespace-only.
	ErrInvalidToolPath = errors.New("invalid tool path")
	// ErrInvalidDataDirName is the sentinel error wrapped by InvalidDataDirNameError.
	ErrInvalidDataDirName = errors.New("invalid data directory name")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// SearchPath is a directory searched for the conventional dotfile
	// entries (.toolbelt.cue and .toolbelt). A valid path must be non-empty
	// and not whitespace-only.
	SearchPath string

	// InvalidSearchPathError is returned when a SearchPath value is
	// empty or whitespace-only. It wraps ErrInvalidSearchPath for errors.Is().
	InvalidSearchPathError struct {
		Value SearchPath
	}

	// ToolPath is a definition file or directory registered directly,
	// without the dotfile convention. A valid path must be non-empty and
	// not whitespace-only.
	ToolPath string

	// InvalidToolPathError is returned when a ToolPath value is
	// empty or whitespace-only. It wraps ErrInvalidToolPath for errors.Is().
	InvalidToolPathError struct {
		Value ToolPath
	}

	// DataDirName is the per-directory data directory name.
	// The zero value ("") is valid and means "use the default name".
	// Non-zero values must be bare names, not paths.
	DataDirName string

	// InvalidDataDirNameError is returned when a DataDirName value is
	// whitespace-only or contains a path separator.
	InvalidDataDirNameError struct {
		Value DataDirName
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// SearchPaths are extra directories searched for dotfile entries,
		// in order of decreasing priority.
		SearchPaths []SearchPath `json:"search_paths" mapstructure:"search_paths"`
		// ToolPaths are definition files or directories registered directly.
		ToolPaths []ToolPath `json:"tool_paths" mapstructure:"tool_paths"`
		// DataDirName overrides the per-directory data directory name.
		DataDirName DataDirName `json:"data_dir_name" mapstructure:"data_dir_name"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
		// Interactive enables interactive prompts
		Interactive bool `json:"interactive" mapstructure:"interactive"`
	}
)

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// String returns the string representation of the SearchPath.
func (p SearchPath) String() string { return string(p) }

// IsValid returns whether the SearchPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p SearchPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidSearchPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSearchPathError.
func (e *InvalidSearchPathError) Error() string {
	return fmt.Sprintf("invalid search path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidSearchPath for errors.Is() compatibility.
func (e *InvalidSearchPathError) Unwrap() error { return ErrInvalidSearchPath }

// String returns the string representation of the ToolPath.
func (p ToolPath) String() string { return string(p) }

// IsValid returns whether the ToolPath is valid.
// A valid path must be non-empty and not whitespace-only.
func (p ToolPath) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidToolPathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidToolPathError.
func (e *InvalidToolPathError) Error() string {
	return fmt.Sprintf("invalid tool path %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidToolPath for errors.Is() compatibility.
func (e *InvalidToolPathError) Unwrap() error { return ErrInvalidToolPath }

// String returns the string representation of the DataDirName.
func (n DataDirName) String() string { return string(n) }

// IsValid returns whether the DataDirName is valid.
// The zero value ("") is valid (means "use the default name").
// Non-zero values must not be whitespace-only and must be bare names.
func (n DataDirName) IsValid() (bool, []error) {
	if n == "" {
		return true, nil
	}
	if strings.TrimSpace(string(n)) == "" || strings.ContainsAny(string(n), `/\`) {
		return false, []error{&InvalidDataDirNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDataDirNameError.
func (e *InvalidDataDirNameError) Error() string {
	return fmt.Sprintf("invalid data directory name %q: must be a bare directory name", e.Value)
}

// Unwrap returns ErrInvalidDataDirName for errors.Is() compatibility.
func (e *InvalidDataDirNameError) Unwrap() error { return ErrInvalidDataDirName }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to each SearchPaths and ToolPaths entry's IsValid(),
// DataDirName.IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	for _, p := range c.SearchPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	for _, p := range c.ToolPaths {
		if valid, fieldErrs := p.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.DataDirName.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		SearchPaths: []SearchPath{},
		ToolPaths:   []ToolPath{},
		DataDirName: "", // Will use loader.DefaultDataDirName if empty
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
			Interactive: false,
		},
	}
}
