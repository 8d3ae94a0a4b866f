// Package uninstall implements the pack uninstall command.
package uninstall

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// Command creates the uninstall command.
func Command(ctx *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall <pack-id>",
		Short: "Remove an installed hotspot pack and all its data",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			packID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("pack id must be a number, got %q", args[0])
			}
			if err := ctx.Installer.Uninstall(cmd.Context(), packID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pack %d uninstalled\n", packID)
			return nil
		},
	}
}
