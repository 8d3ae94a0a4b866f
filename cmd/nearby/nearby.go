// Package nearby implements the expanding-radius nearby search command.
package nearby

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/geo"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// Command creates the nearby command.
func Command(ctx *runtime.Context) *cobra.Command {
	var savedOnly bool
	var lat, lng float64

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List hotspots near a location, closest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := ctx.Search.Nearby(cmd.Context(), geo.Point{Lat: lat, Lng: lng}, savedOnly)
			if err != nil {
				return err
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no hotspots nearby; try installing a pack for this region")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSPECIES\tDISTANCE")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n",
					r.Hotspot.ID, r.Hotspot.Name, r.Hotspot.Species, ctx.Search.FormatDistance(r.DistanceKm))
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude of the search location")
	cmd.Flags().Float64Var(&lng, "lng", 0, "longitude of the search location")
	cmd.Flags().BoolVar(&savedOnly, "saved", false, "only saved hotspots")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lng")
	return cmd
}
