// Package install implements the pack install command.
package install

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/errors"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// Command creates the install command.
func Command(ctx *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "install <pack-id>",
		Short: "Download and install a hotspot pack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pack id must be a number, got %q", args[0])
			}
			return runInstall(ctx, cmd, packID)
		},
	}
}

func runInstall(ctx *runtime.Context, cmd *cobra.Command, packID int) error {
	// Ctrl-C cancels the download phase; the store transaction itself is
	// not cancellable and either commits or rolls back.
	cmdCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	lastPct := -1
	err := ctx.Installer.InstallFromIndex(cmdCtx, packID, func(pct int) {
		if pct != lastPct {
			lastPct = pct
			fmt.Fprintf(cmd.OutOrStdout(), "\rdownloading... %3d%%", pct)
		}
	})
	fmt.Fprintln(cmd.OutOrStdout())

	if err != nil {
		if errors.IsCancellation(err) {
			fmt.Fprintln(cmd.OutOrStdout(), "install cancelled")
			return nil
		}
		return err
	}

	pack, err := ctx.Store.GetPack(cmd.Context(), packID)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "installed %q: %d hotspots\n", pack.Name, pack.Hotspots)
	return nil
}
