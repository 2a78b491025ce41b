// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCompletionCommand creates the completion command with subcommands for each shell
func newCompletionCommand() *cobra.Command {
	completionCmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for toolbelt.

To load completions:

Bash:
  $ source <(toolbelt completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ toolbelt completion bash > /etc/bash_completion.d/toolbelt
  # macOS:
  $ toolbelt completion bash > $(brew --prefix)/etc/bash_completion.d/toolbelt

Zsh:
  $ source <(toolbelt completion zsh)

  # To load completions for each session, execute once:
  $ toolbelt completion zsh > "${fpath[1]}/_toolbelt"

Fish:
  $ toolbelt completion fish | source

  # To load completions for each session, execute once:
  $ toolbelt completion fish > ~/.config/fish/completions/toolbelt.fish

PowerShell:
  PS> toolbelt completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unsupported shell type %q", args[0])
			}
		},
	}
	return completionCmd
}
