package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scanflow/scanctl/internal/config"
	"github.com/scanflow/scanctl/internal/credentials"
	"github.com/scanflow/scanctl/internal/flags"
	"github.com/scanflow/scanctl/internal/http"
	"github.com/scanflow/scanctl/internal/msg"
	"github.com/scanflow/scanctl/internal/report/table"
	"github.com/scanflow/scanctl/internal/scan"
	"github.com/scanflow/scanctl/internal/version"
	"github.com/scanflow/scanctl/internal/workflow"
)

var (
	uploadUse     = "upload"
	uploadShort   = "Upload a file or repository and scan it"
	uploadLong    = `Uploads a file or lets the server clone a repository, places the upload in a folder (created on demand) and schedules a license and copyright scan of it.`
	uploadExample = `scanctl upload --file dist/source.tar.gz --folder Releases/1.0
scanctl upload --vcs https://github.com/example/project.git --reuse`
)

// Command creates the `upload` command
func Command() *cobra.Command {
	var cfgFilePath string
	sc := flags.NewSnakeCharmer(nil)

	cmd := &cobra.Command{
		Use:          uploadUse,
		Short:        uploadShort,
		Long:         uploadLong,
		Example:      uploadExample,
		SilenceUsage: true,
		PreRun: func(cmd *cobra.Command, args []string) {
			sc.BindAll()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			println("Running version", version.Version)

			config.SetDefaults(credentials.FromFile())
			cfg, err := config.Load(cfgFilePath)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			return Run(cmd.Context(), cfg, os.Stdout)
		},
	}

	sc.Fset = cmd.Flags()
	cmd.Flags().StringVarP(&cfgFilePath, "config", "c", "", "Specifies which config file to use (default: .scanctl.yml in the working or home directory)")

	// Server and credentials
	sc.String(config.KeyURL, config.KeyURL, "", "URL of the scan server")
	sc.String(config.KeyRestURL, config.KeyRestURL, "", "URL of the REST API (default: <url>"+config.RestPath+")")
	sc.StringP(config.KeyToken, "t", config.KeyToken, "", "Access token")
	sc.StringP(config.KeyUsername, "u", config.KeyUsername, "", "Username, used to mint a token if no token is given")
	sc.StringP(config.KeyPassword, "p", config.KeyPassword, "", "Password, used to mint a token if no token is given")
	sc.String(config.KeyTokenScope, config.KeyTokenScope, config.DefaultTokenScope, "Scope of minted tokens")
	sc.Int(config.KeyTokenValidity, config.KeyTokenValidity, config.DefaultTokenValidity, "Validity of minted tokens in days")

	// Artifact and destination
	sc.StringP(config.KeyFile, "f", config.KeyFile, "", "File to upload")
	sc.String(config.KeyVCS, config.KeyVCS, "", "URL of a git repository for the server to clone")
	sc.String(config.KeyFolder, config.KeyFolder, config.DefaultFolder, "Destination folder path, e.g. Releases/1.0. Missing folders are created.")
	sc.Int(config.KeyGroup, config.KeyGroup, 0, "ID of the group that owns the upload")

	// Scan
	sc.Bool(config.KeyReuse, config.KeyReuse, false, "Reuse the conclusions of the previous upload of the same name")
	sc.String(config.KeyReuseGroup, config.KeyReuseGroup, config.DefaultReuseGroup, "Group of the reused conclusions")
	sc.String(config.KeyScanOptions, config.KeyScanOptions, "", "JSON file with custom scan options")

	// Timing
	sc.Duration(config.KeyPollInterval, config.KeyPollInterval, config.DefaultPollInterval, "Interval between two job status polls")
	sc.Duration(config.KeyTimeout, config.KeyTimeout, config.DefaultTimeout, "Timeout of a single HTTP request")

	return cmd
}

// Run uploads and scans the artifact described by cfg and renders the outcome to out.
func Run(ctx context.Context, cfg config.Config, out io.Writer) error {
	var opts *scan.Options
	if cfg.ScanOptions != "" {
		o, err := scan.LoadOptions(cfg.ScanOptions)
		if err != nil {
			return err
		}
		opts = &o
	}

	interactive := isTerm(os.Stdout.Fd())
	runner := workflow.Runner{
		Service: http.NewClient(cfg.RestBase(), cfg.Timeout),
		Spinner: interactive,
	}
	if interactive {
		runner.Progress = out
	}

	res, err := runner.Run(ctx, workflow.Params{
		Credentials:   cfg.Credentials(),
		TokenScope:    cfg.TokenScope,
		TokenValidity: cfg.TokenValidity,
		Target:        cfg.Target(),
		Folder:        cfg.Folder,
		GroupID:       cfg.GroupID(),
		Reuse:         cfg.Reuse,
		ReuseGroup:    cfg.ReuseGroup,
		PollInterval:  cfg.PollInterval,
		ScanOptions:   opts,
	})
	if err != nil {
		var stepErr *workflow.StepError
		if errors.As(err, &stepErr) {
			msg.LogRunFailure(stepErr.Step)
		}
		log.Err(err).Msg(failureMessage(cfg, res, err))
		return err
	}

	r := table.Reporter{URL: cfg.URL, Dst: out}
	r.Render(res)
	msg.LogRunSuccess(res.Upload.ID)

	return nil
}

func failureMessage(cfg config.Config, res workflow.Result, err error) string {
	var stepErr *workflow.StepError
	if !errors.As(err, &stepErr) {
		return "failed to execute upload command"
	}
	switch stepErr.Step {
	case workflow.StepToken:
		return msg.FailedToObtainToken
	case workflow.StepFolder:
		return fmt.Sprintf(msg.FailedToResolveFolder, cfg.Folder)
	case workflow.StepUpload:
		name, _ := cfg.Target().Name()
		return fmt.Sprintf(msg.FailedToUpload, name)
	case workflow.StepMonitor:
		return fmt.Sprintf(msg.FailedToMonitor, res.Upload.ID)
	case workflow.StepBaseline:
		return fmt.Sprintf(msg.FailedToFindBaseline, res.Upload.Name)
	default:
		return fmt.Sprintf(msg.FailedToTriggerScan, res.Upload.ID)
	}
}

func isTerm(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
