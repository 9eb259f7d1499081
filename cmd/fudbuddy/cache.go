package main

import (
	"context"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/cli"
	"fud-buddy/gateway/pkg/proxy/types"
	"fud-buddy/gateway/pkg/stream"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the gateway's response cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached reply",
	Long:  `Call POST /api/cache/clear on the gateway at --server.`,
	RunE:  runCacheClear,
}

func init() {
	cacheCmd.AddCommand(cacheClearCmd)
	rootCmd.AddCommand(cacheCmd)
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	p, err := printer(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
	defer cancel()

	var resp types.CacheClearResponse
	if err := stream.NewClient(serverURL).Call(ctx, http.MethodPost, "/api/cache/clear", nil, &resp); err != nil {
		return cli.NewCommandError("cache clear", err)
	}

	if p.JSON() {
		return p.Encode(resp)
	}
	p.Success("%s (size %d)", resp.Message, resp.Size)
	return nil
}
