package server

import (
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scanflow/scanctl/internal/config"
	"github.com/scanflow/scanctl/internal/credentials"
	"github.com/scanflow/scanctl/internal/flags"
	"github.com/scanflow/scanctl/internal/http"
	"github.com/scanflow/scanctl/internal/msg"
)

// MinVersion is the oldest server API version scanctl is known to work with.
const MinVersion = "1.2.0"

// Command creates the `server` command
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Show the API version of the scan server",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.SetDefaults(credentials.FromFile())
			cfg, err := config.Load("")
			if err != nil {
				return err
			}
			if cfg.URL == "" {
				return fmt.Errorf("missing server url: use --url, SCANCTL_URL or 'scanctl configure'")
			}

			client := http.NewClient(cfg.RestBase(), cfg.Timeout)
			client.Token = cfg.Token
			info, err := client.ServerInfo(cmd.Context())
			if err != nil {
				log.Err(err).Msg(msg.UnableToCheckServer)
				return err
			}

			fmt.Fprintf(os.Stdout, "Server %s\nAPI version %s\n", cfg.URL, info.Version)
			supported, err := IsSupported(info.Version)
			if err != nil {
				return err
			}
			if !supported {
				msg.LogUnsupportedServer(info.Version, MinVersion)
			}
			return nil
		},
	}

	sc := flags.NewSnakeCharmer(cmd.Flags())
	sc.String(config.KeyURL, config.KeyURL, "", "url of the scan server")
	sc.String(config.KeyRestURL, config.KeyRestURL, "", "url of the REST API, defaults to <url>"+config.RestPath)
	sc.Duration(config.KeyTimeout, config.KeyTimeout, config.DefaultTimeout, "HTTP timeout")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		sc.BindAll()
	}

	return cmd
}

// IsSupported reports whether the server API version v is at least MinVersion.
func IsSupported(v string) (bool, error) {
	have, err := semver.NewVersion(v)
	if err != nil {
		return false, fmt.Errorf("server reported malformed version %q: %w", v, err)
	}
	c, err := semver.NewConstraint(">= " + MinVersion)
	if err != nil {
		return false, err
	}
	return c.Check(have), nil
}
