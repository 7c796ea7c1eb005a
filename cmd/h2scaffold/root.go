package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/h2scaffold/pkg/cli"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	cfgFile  string
	envFiles []string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "h2scaffold",
		Short: "HTTP/1.1 and HTTP/2 server scaffold with request metrics",
		Long: `h2scaffold serves a small set of routes on two listeners: plaintext
HTTP/1.1 and TLS with HTTP/2 negotiation. Every application request is timed
into the http_request_duration_seconds histogram exposed on /metrics.

Admin routes (/ready, /live, /metrics) are never timed or logged.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVarP(&flags.cfgFile, "config", "c", "", "config file path (defaults are used when empty)")
	rootCmd.PersistentFlags().StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load before reading the environment (default .env)")

	rootCmd.AddCommand(
		newRunCmd(flags),
		newVersionCmd(),
		newCertsCmd(),
	)

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string) int {
	return execute(args, os.Stdout, os.Stderr)
}

func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return cli.ExitCode(err)
}
