package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/cli"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/stream"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check a running gateway and its Ollama upstream",
	Long: `Query /api/health on the gateway at --server.

Exits non-zero when the gateway is unreachable or reports Ollama as
disconnected.`,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	var status types.HealthResponse
	if err := stream.NewClient(serverURL).Call(ctx, http.MethodGet, "/api/health", nil, &status); err != nil {
		return cli.NewCommandError("health", err)
	}

	if p.JSON() {
		if err := p.Encode(status); err != nil {
			return err
		}
	} else {
		p.Success("Gateway %s at %s", status.Status, serverURL)
		if status.Ollama == types.UpstreamConnected {
			p.Success("Ollama %s", status.Ollama)
		} else {
			p.Failure("Ollama %s", status.Ollama)
		}
		p.Field("Model", status.Model)
		p.Field("Cached replies", status.CacheSize)
	}

	if status.Ollama != types.UpstreamConnected {
		return cli.NewCommandError("health", errUpstreamDown)
	}
	return nil
}

var errUpstreamDown = errors.New("ollama is not reachable from the gateway")
