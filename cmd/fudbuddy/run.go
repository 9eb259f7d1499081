package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/cli"
	"fud-buddy/gateway/pkg/config"
	"fud-buddy/gateway/pkg/server"
	"fud-buddy/gateway/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the FUD Buddy gateway",
	Long: `Start the FUD Buddy gateway with the specified configuration.

Settings come from the config file, then FUDBUDDY_* environment variables,
then the flags below. When a config file is given it is watched, and changes
to the log level and upstream timeout apply without a restart.

Examples:
  # Start with defaults (Ollama at http://localhost:11434)
  fudbuddy run

  # Start with a config file
  fudbuddy run --config /etc/fudbuddy/config.yaml

  # Override listen address
  fudbuddy run --listen 0.0.0.0:3001

  # Validate config without starting the server
  fudbuddy run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

// loadRunConfig loads the configuration and applies the run flags on top.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.ConfigErrorFrom(err)
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.ConfigErrorFrom(err)
	}
	return cfg, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}
	config.SetConfig(cfg)

	p, err := printer(cmd)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		p.Success("Configuration valid")
		p.Field("Listen", cfg.Server.ListenAddress)
		p.Field("Ollama", cfg.Ollama.URL)
		p.Field("Model", cfg.Ollama.Model)
		return nil
	}

	logCfg := cfg.Telemetry.Logging
	logger, err := logging.New(logging.Config{
		Level:          logCfg.Level,
		Format:         logCfg.Format,
		AddSource:      logCfg.AddSource,
		RedactPII:      logCfg.RedactPII,
		RedactPatterns: logCfg.RedactPatterns,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	logger.Install()

	opts := []server.Option{
		server.WithLogger(logger),
		server.WithBuildInfo(server.BuildInfo{Version: Version, Commit: GitCommit, BuildTime: BuildDate}),
	}
	if cfgFile != "" {
		opts = append(opts, server.WithConfigPath(cfgFile))
	}

	srv, err := server.New(cfg, opts...)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	printBanner(p, cfg)

	if err := srv.Start(cmd.Context()); err != nil {
		slog.Error("gateway exited", "error", err)
		return cli.NewCommandError("run", err)
	}
	return nil
}

func printBanner(p *cli.Printer, cfg *config.Config) {
	if p.JSON() {
		return
	}
	p.Success("FUD Buddy gateway %s", Version)
	p.Field("Listen", cfg.Server.ListenAddress)
	p.Field("Ollama", fmt.Sprintf("%s (%s)", cfg.Ollama.URL, cfg.Ollama.Model))
	p.Field("Limits", fmt.Sprintf("global %d/%s, chat %d/%s",
		cfg.Limits.Global.MaxRequests, cfg.Limits.Global.Window,
		cfg.Limits.Chat.MaxRequests, cfg.Limits.Chat.Window))
	p.Field("Cache TTL", cfg.Cache.TTL)
	if cfg.Telemetry.Metrics.Enabled {
		p.Field("Metrics", cfg.Telemetry.Metrics.Path)
	}
}
