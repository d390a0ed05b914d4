package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

const completionLong = `Prints a script that completes scanctl commands and flags in your shell.

Bash:
  $ source <(scanctl completion bash)
  # permanently, on Linux:
  $ scanctl completion bash > /etc/bash_completion.d/scanctl

Zsh (with compinit enabled):
  $ scanctl completion zsh > "${fpath[1]}/_scanctl"

fish:
  $ scanctl completion fish > ~/.config/fish/completions/scanctl.fish

PowerShell:
  PS> scanctl completion powershell | Out-String | Invoke-Expression
`

// Command creates the `completion` command
func Command() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 "Generate completion script",
		Long:                  completionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.ExactValidArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return fmt.Errorf("unsupported shell %q", args[0])
		},
	}
}
