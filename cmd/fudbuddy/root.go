package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/cli"
)

// DefaultServerURL is where the client commands look for the gateway.
const DefaultServerURL = "http://127.0.0.1:3001"

var (
	// Global flags
	cfgFile   string
	serverURL string
	output    string
)

var rootCmd = &cobra.Command{
	Use:   "fudbuddy",
	Short: "FUD Buddy - AI chat gateway for food recommendations",
	Long: `FUD Buddy is the backend gateway for the FUD Buddy food assistant.

It validates and rate limits chat requests, caches answers and relays them
to a local Ollama model, streaming replies as server-sent events.

The run command starts the gateway. The chat, health and cache commands
talk to a running gateway at --server.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(cli.SetupSignalHandler()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", envOr("FUDBUDDY_SERVER", DefaultServerURL), "gateway base URL for client commands")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", string(cli.FormatText), "output format (text, json)")
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// printer builds the output printer for cmd from --output.
func printer(cmd *cobra.Command) (*cli.Printer, error) {
	format, err := cli.ParseFormat(output)
	if err != nil {
		return nil, err
	}
	return cli.NewPrinter(cmd.OutOrStdout(), format), nil
}
