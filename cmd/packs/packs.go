// Package packs implements the pack listing commands.
package packs

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/geo"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// Command creates the packs command.
func Command(ctx *runtime.Context) *cobra.Command {
	var remote bool
	var lat, lng float64
	var nearest bool

	cmd := &cobra.Command{
		Use:   "packs",
		Short: "List installed packs, the remote index, or pending updates",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case nearest:
				return listNearest(ctx, cmd, geo.Point{Lat: lat, Lng: lng})
			case remote:
				return listRemote(ctx, cmd)
			default:
				return listInstalled(ctx, cmd)
			}
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "list packs available in the remote index")
	cmd.Flags().BoolVar(&nearest, "nearest", false, "order remote packs by distance to --lat/--lng")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for --nearest")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude for --nearest")

	cmd.AddCommand(updatesCommand(ctx))
	return cmd
}

func listInstalled(ctx *runtime.Context, cmd *cobra.Command) error {
	packs, err := ctx.Store.GetPacks(cmd.Context())
	if err != nil {
		return err
	}
	if len(packs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no packs installed")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tHOTSPOTS\tVERSION\tINSTALLED")
	for _, p := range packs {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n",
			p.ID, p.Name, p.Hotspots, p.Version, p.InstalledAt.Format("2006-01-02"))
	}
	return w.Flush()
}

func listRemote(ctx *runtime.Context, cmd *cobra.Command) error {
	idx, err := ctx.Index.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tREGION\tNAME\tHOTSPOTS\tUPDATED")
	for _, e := range idx.Packs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", e.ID, e.Region, e.Name, e.Hotspots, e.UpdatedAt)
	}
	return w.Flush()
}

func listNearest(ctx *runtime.Context, cmd *cobra.Command, location geo.Point) error {
	idx, err := ctx.Index.Fetch(cmd.Context())
	if err != nil {
		return err
	}

	ranked := idx.NearestN(location, 10)
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREGION\tHOTSPOTS")
	for i := range ranked {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", ranked[i].ID, ranked[i].Name, ranked[i].Region, ranked[i].Hotspots)
	}
	return w.Flush()
}

func updatesCommand(ctx *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "Show installed packs with a newer remote version",
		RunE: func(cmd *cobra.Command, args []string) error {
			updates, err := ctx.Installer.CheckUpdates(cmd.Context())
			if err != nil {
				return err
			}
			if len(updates) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "all installed packs are up to date")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tINSTALLED\tREMOTE")
			for _, u := range updates {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n",
					u.Installed.ID, u.Installed.Name, u.Installed.RemoteUpdatedAt, u.Remote.UpdatedAt)
			}
			return w.Flush()
		},
	}
}
