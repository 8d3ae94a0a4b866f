// Package search implements the hotspot text search command.
package search

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/geo"
	"github.com/tphakala/hotspots-go/internal/runtime"
	searchsvc "github.com/tphakala/hotspots-go/internal/search"
)

// Command creates the search command.
func Command(ctx *runtime.Context) *cobra.Command {
	var savedOnly bool
	var limit int
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search cached hotspots by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var location *geo.Point
			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lng") {
				location = &geo.Point{Lat: lat, Lng: lng}
			}
			results, err := ctx.Search.Search(cmd.Context(), args[0], limit, savedOnly, location)
			if err != nil {
				return err
			}
			return printResults(ctx, cmd, results)
		},
	}

	cmd.Flags().BoolVar(&savedOnly, "saved", false, "search only saved hotspots")
	cmd.Flags().IntVar(&limit, "limit", 50, "maximum number of results")
	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude for distance sorting")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude for distance sorting")
	return cmd
}

func printResults(ctx *runtime.Context, cmd *cobra.Command, results []searchsvc.Result) error {
	if len(results) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no hotspots found")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSPECIES\tDISTANCE")
	for _, r := range results {
		distance := "-"
		if r.DistanceKm >= 0 {
			distance = ctx.Search.FormatDistance(r.DistanceKm)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.Hotspot.ID, r.Hotspot.Name, r.Hotspot.Species, distance)
	}
	return w.Flush()
}
