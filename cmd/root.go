package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/cmd/install"
	"github.com/tphakala/hotspots-go/cmd/nearby"
	"github.com/tphakala/hotspots-go/cmd/packs"
	"github.com/tphakala/hotspots-go/cmd/saved"
	"github.com/tphakala/hotspots-go/cmd/search"
	"github.com/tphakala/hotspots-go/cmd/uninstall"
	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// RootCommand creates and returns the root command
func RootCommand(ctx *runtime.Context) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hotspots",
		Short: "Offline birding hotspot pack cache",
		Long: "hotspots manages a local cache of regional birding-location packs:\n" +
			"installing and updating packs from the remote index, and querying\n" +
			"the cached hotspots by area, distance or name.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if ctx.Settings.Debug {
				datastore.SetLogLevel(slog.LevelDebug)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVar(&ctx.Settings.Debug, "debug", ctx.Settings.Debug, "enable debug output")

	subcommands := []*cobra.Command{
		packs.Command(ctx),
		install.Command(ctx),
		uninstall.Command(ctx),
		search.Command(ctx),
		nearby.Command(ctx),
		saved.Command(ctx),
	}
	rootCmd.AddCommand(subcommands...)

	return rootCmd
}
