package main

import (
	"runtime"

	"github.com/spf13/cobra"

	"fud-buddy/gateway/pkg/telemetry/health"
)

var (
	// Version is the semantic version (set by build flags)
	Version = "0.1.0"
	// GitCommit is the git commit hash (set by build flags)
	GitCommit = "unknown"
	// BuildDate is the build timestamp (set by build flags)
	BuildDate = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print detailed version information including Git commit and build date.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := printer(cmd)
		if err != nil {
			return err
		}
		if p.JSON() {
			return p.Encode(health.VersionInfo{
				Version:   Version,
				Commit:    GitCommit,
				BuildTime: BuildDate,
				GoVersion: runtime.Version(),
			})
		}
		p.Field("FUD Buddy", Version)
		p.Field("Git Commit", GitCommit)
		p.Field("Build Date", BuildDate)
		p.Field("Go Version", runtime.Version())
		p.Field("OS/Arch", runtime.GOOS+"/"+runtime.GOARCH)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
