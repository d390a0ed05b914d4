package configure

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	cmds "github.com/scanflow/scanctl/internal/cmd"
	"github.com/scanflow/scanctl/internal/credentials"
	"github.com/scanflow/scanctl/internal/iam"
	"github.com/scanflow/scanctl/internal/msg"
)

func ListCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "list",
		Aliases: []string{
			"ls",
		},
		Short: "Showing the current credentials",
		Run: func(cmd *cobra.Command, args []string) {
			log.Debug().Msgf("Running %s.", cmds.FullName(cmd))
			printCreds(os.Stdout, credentials.Get())
		},
	}

	return cmd
}

func printCreds(w io.Writer, creds iam.Credentials) {
	if !creds.IsSet() && creds.URL == "" {
		_, _ = fmt.Fprintln(w, color.RedString(msg.EmptyCredentials))
		return
	}

	bold := color.New(color.Bold).SprintFunc()
	_, _ = fmt.Fprintf(w, "Currently configured credentials (%s):\n", credentials.Path())
	_, _ = fmt.Fprintf(w, "\t%s %s\n", bold("url:     "), creds.URL)
	_, _ = fmt.Fprintf(w, "\t%s %s\n", bold("token:   "), mask(creds.Token))
	_, _ = fmt.Fprintf(w, "\t%s %s\n", bold("username:"), creds.Username)
	_, _ = fmt.Fprintf(w, "\t%s %s\n", bold("password:"), mask(creds.Password))
}

// mask hides all but the last four characters of s.
func mask(s string) string {
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
