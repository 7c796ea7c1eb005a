package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"mercator-hq/h2scaffold/pkg/cli"
	"mercator-hq/h2scaffold/pkg/config"
	"mercator-hq/h2scaffold/pkg/server"
	"mercator-hq/h2scaffold/pkg/telemetry/logging"
	"mercator-hq/h2scaffold/pkg/telemetry/metrics"
	"mercator-hq/h2scaffold/pkg/telemetry/tracing"
)

type runFlags struct {
	httpAddress string
	tlsAddress  string
	logLevel    string
	dryRun      bool
}

func newRunCmd(global *globalFlags) *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the HTTP and TLS listeners",
		Long: `Start the plaintext HTTP/1.1 listener and the TLS listener.

The certificate and key are read from security.tls.cert_file and
security.tls.key_file (certs/server.crt and certs/server.key by default).
Any startup failure, such as a missing certificate or a port that is already
bound, is logged and the process exits with status 1.

Examples:
  # Start with defaults (:3000 and :3001)
  h2scaffold run

  # Start in production mode (info-level logs)
  APP_ENV=production h2scaffold run --config config.yaml

  # Override listen addresses
  h2scaffold run --http-address :8080 --tls-address :8443

  # Validate configuration without starting
  h2scaffold run --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd, global, flags)
		},
	}

	cmd.Flags().StringVar(&flags.httpAddress, "http-address", "", "override plaintext listen address")
	cmd.Flags().StringVar(&flags.tlsAddress, "tls-address", "", "override TLS listen address")
	cmd.Flags().StringVar(&flags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "validate config without starting the server")

	return cmd
}

// loadConfig reads the configuration and applies command-line overrides,
// which take precedence over both the file and the environment.
func loadConfig(global *globalFlags, flags *runFlags) (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(global.cfgFile, global.envFiles...)
	if err != nil {
		return nil, cli.NewConfigError(global.cfgFile, err)
	}

	if flags.httpAddress != "" {
		cfg.Server.HTTPAddress = flags.httpAddress
	}
	if flags.tlsAddress != "" {
		cfg.Server.TLSAddress = flags.tlsAddress
	}
	if flags.logLevel != "" {
		cfg.Telemetry.Logging.Level = flags.logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError(global.cfgFile, err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, global *globalFlags, flags *runFlags) error {
	cfg, err := loadConfig(global, flags)
	if err != nil {
		return err
	}

	logCfg := logging.FromConfig(cfg)
	logCfg.Writer = cmd.OutOrStdout()
	logger, err := logging.New(logCfg)
	if err != nil {
		return cli.NewConfigError(global.cfgFile, err)
	}
	restore := logging.SetDefault(logger)
	defer restore()

	if flags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	logger.Info("starting h2scaffold",
		"version", Version,
		"environment", cfg.Environment,
		"http_address", cfg.Server.HTTPAddress,
		"tls_address", cfg.Server.TLSAddress,
		"log_level", logCfg.Level,
	)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())

	tracer, err := tracing.New(&cfg.Telemetry.Tracing,
		tracing.WithServiceVersion(Version),
		tracing.WithGlobal(),
	)
	if err != nil {
		logger.Error("failed to initialise tracing", "error", err)
		return cli.NewCommandError("run", err)
	}

	srv, err := server.NewServer(cfg,
		server.WithLogger(logger),
		server.WithCollector(collector),
		server.WithTracer(tracer),
	)
	if err != nil {
		logger.Error("failed to create server", "error", err)
		return cli.NewCommandError("run", err)
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	if err := srv.Start(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return cli.NewCommandError("run", err)
	}

	return nil
}
