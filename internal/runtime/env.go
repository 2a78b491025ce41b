// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// buildRuntimeEnv builds the tool-specific environment variables for an
// execution: TOOLBELT_TOOL, TOOLBELT_OPT_* for flag values, TOOLBELT_ARG_*
// for positional arguments, TOOLBELT_ARGC for the raw argument count, then
// dotenv files from --env-file, then ExtraEnv. Later sources override
// earlier ones.
func buildRuntimeEnv(ctx *ExecutionContext) (map[string]string, error) {
	env := make(map[string]string)

	env["TOOLBELT_TOOL"] = ctx.Tool.DisplayName()

	if ctx.Args != nil {
		for _, f := range ctx.Tool.Flags() {
			if v, ok := ctx.Args.Data[f.Key]; ok {
				env["TOOLBELT_OPT_"+envKey(f.Key)] = formatEnvValue(v)
			}
		}
		for _, a := range ctx.Tool.RequiredArgs() {
			if v, ok := ctx.Args.Data[a.Key]; ok {
				env["TOOLBELT_ARG_"+envKey(a.Key)] = formatEnvValue(v)
			}
		}
		for _, a := range ctx.Tool.OptionalArgs() {
			if v, ok := ctx.Args.Data[a.Key]; ok {
				env["TOOLBELT_ARG_"+envKey(a.Key)] = formatEnvValue(v)
			}
		}
		if rem := ctx.Tool.RemainingArg(); rem != nil {
			if v, ok := ctx.Args.Data[rem.Key]; ok {
				env["TOOLBELT_ARG_"+envKey(rem.Key)] = formatEnvValue(v)
			}
		}
		env["TOOLBELT_ARGC"] = strconv.Itoa(len(ctx.Args.Raw))
	}

	for _, file := range ctx.EnvFiles {
		if err := LoadEnvFile(env, file, ctx.WorkDir); err != nil {
			return nil, err
		}
	}

	for k, v := range ctx.ExtraEnv {
		env[k] = v
	}

	return env, nil
}

// envKey folds a flag or argument key into environment variable form:
// upper-cased with hyphens replaced by underscores.
func envKey(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}

// formatEnvValue renders a parsed value for the environment. Slices join
// their elements with spaces, matching how shells expect word lists.
func formatEnvValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, formatEnvValue(item))
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(val, " ")
	default:
		return fmt.Sprintf("%v", val)
	}
}
