package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options holds the persistent flags shared by every command.
type options struct {
	configPath string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "museum",
		Short: "Walk the virtual museum from your terminal",
		Long: `Temples, weapons and fossils arranged in rings, a quiz room and a
leaderboard. Run without arguments to enter the museum.

Sessions end after a period without activity (5 minutes by default).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.SetVersionTemplate("museum {{.Version}}\n")
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default: $MUSEUM_CONFIG, ./museum.yaml or ~/.museum/config.yaml)")
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", "", "museum backend URL (overrides config)")

	root.AddCommand(
		newLoginCmd(opts),
		newRegisterCmd(opts),
		newLogoutCmd(opts),
		newWhoamiCmd(opts),
		newLayoutCmd(opts),
		newLeaderboardCmd(opts),
		newAdminCmd(opts),
		newVersionCmd(),
	)
	return root
}
