package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// FullName returns the full command name by concatenating the command names of any parents,
// except the name of the CLI itself.
func FullName(cmd *cobra.Command) string {
	name := ""

	for cmd != nil && cmd.Name() != "scanctl" {
		// Prepending, because we are looking up names from the bottom up: list < configure < scanctl
		// which ends up correctly as 'configure list' (sans scanctl).
		name = fmt.Sprintf("%s %s", cmd.Name(), name)
		cmd = cmd.Parent()
	}

	return strings.TrimSpace(name)
}
