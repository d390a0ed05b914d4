package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/scanflow/scanctl/internal/cmd/completion"
	"github.com/scanflow/scanctl/internal/cmd/configure"
	"github.com/scanflow/scanctl/internal/cmd/server"
	"github.com/scanflow/scanctl/internal/cmd/upload"
	"github.com/scanflow/scanctl/internal/msg"
	"github.com/scanflow/scanctl/internal/version"
)

var (
	cmdUse   = "scanctl [OPTIONS] COMMAND [ARG...]"
	cmdShort = "scanctl"
	cmdLong  = msg.ScanctlLogo + `

Uploads source artifacts to a license compliance server and schedules their scan.

Get started by storing the url of your server and your credentials:
> scanctl configure`
)

func main() {
	cmd := &cobra.Command{
		Use:              cmdUse,
		Short:            cmdShort,
		Long:             cmdLong,
		SilenceUsage:     true,
		TraverseChildren: true,
		Version:          fmt.Sprintf("%s\n(build %s)", version.Version, version.GitCommit),
	}

	cmd.SetVersionTemplate("scanctl version {{.Version}}\n")
	cmd.Flags().BoolP("version", "v", false, "print version")

	verbosity := cmd.PersistentFlags().Bool("verbose", false, "turn on verbose logging")
	trace := cmd.PersistentFlags().Bool("trace", false, "turn on verbose logging including request and response bodies")
	noColor := cmd.PersistentFlags().Bool("no-color", false, "disable colorized output")

	cmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		setupLogging(*verbosity, *trace, *noColor)
	}

	cmd.AddCommand(
		upload.Command(),
		configure.Command(),
		server.Command(),
		completion.Command(),
	)

	if err := cmd.ExecuteContext(newContext()); err != nil {
		os.Exit(1)
	}
}

func setupLogging(verbose, trace, noColor bool) {
	color.NoColor = color.NoColor || noColor
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.DurationFieldInteger = true
	timeFormat := "15:04:05"
	if verbose || trace {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		zerolog.TimeFieldFormat = time.RFC3339Nano
		timeFormat = "15:04:05.000"
	}
	if trace {
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(time.Local)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: timeFormat, NoColor: noColor})
}

// newContext returns a new context that is canceled when a SIGINT is received.
func newContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt)

	go func() {
		for range signals {
			if ctx.Err() != nil {
				os.Exit(1)
			}

			println("\nWaiting for any in-progress actions to stop... (press Ctrl-c again to exit without waiting)\n")
			cancel()
		}
	}()

	return ctx
}
