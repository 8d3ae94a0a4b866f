// Package saved implements the saved hotspots and saved places commands.
package saved

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/tphakala/hotspots-go/internal/datastore"
	"github.com/tphakala/hotspots-go/internal/runtime"
)

// Command creates the saved command tree.
func Command(ctx *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saved",
		Short: "Manage saved hotspots and places",
	}
	cmd.AddCommand(
		addCommand(ctx),
		removeCommand(ctx),
		listCommand(ctx),
		placeCommand(ctx),
	)
	return cmd
}

func addCommand(ctx *runtime.Context) *cobra.Command {
	var notes string
	cmd := &cobra.Command{
		Use:   "add <hotspot-id>",
		Short: "Save a hotspot, or update its notes if already saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Verify the hotspot exists in an installed pack first.
			if _, err := ctx.Store.GetHotspot(cmd.Context(), args[0]); err != nil {
				return err
			}
			return ctx.Store.SaveHotspot(cmd.Context(), args[0], notes)
		},
	}
	cmd.Flags().StringVar(&notes, "notes", "", "free-text notes")
	return cmd
}

func removeCommand(ctx *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <hotspot-id>",
		Short: "Remove a saved hotspot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Store.UnsaveHotspot(cmd.Context(), args[0])
		},
	}
}

func listCommand(ctx *runtime.Context) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved hotspots, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := ctx.Store.GetSavedHotspots(cmd.Context())
			if err != nil {
				return err
			}
			if len(saved) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved hotspots")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSAVED\tNOTES")
			for _, s := range saved {
				fmt.Fprintf(w, "%s\t%s\t%s\n", s.HotspotID, s.SavedAt.Format("2006-01-02"), s.Notes)
			}
			return w.Flush()
		},
	}
}

func placeCommand(ctx *runtime.Context) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Manage user-created places",
	}

	var name, notes, icon string
	var lat, lng float64
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a custom place pin",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := ctx.Store.SavePlace(cmd.Context(), &datastore.SavedPlace{
				Name:  name,
				Notes: notes,
				Icon:  icon,
				Lat:   lat,
				Lng:   lng,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved place %s\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "place name")
	add.Flags().StringVar(&notes, "notes", "", "free-text notes")
	add.Flags().StringVar(&icon, "icon", "pin", "icon name")
	add.Flags().Float64Var(&lat, "lat", 0, "latitude")
	add.Flags().Float64Var(&lng, "lng", 0, "longitude")
	_ = add.MarkFlagRequired("name")
	_ = add.MarkFlagRequired("lat")
	_ = add.MarkFlagRequired("lng")

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved places, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			places, err := ctx.Store.GetSavedPlaces(cmd.Context())
			if err != nil {
				return err
			}
			if len(places) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no saved places")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLAT\tLNG\tSAVED")
			for _, p := range places {
				fmt.Fprintf(w, "%s\t%s\t%.4f\t%.4f\t%s\n",
					p.ID, p.Name, p.Lat, p.Lng, p.SavedAt.Format("2006-01-02"))
			}
			return w.Flush()
		},
	}

	remove := &cobra.Command{
		Use:   "remove <place-id>",
		Short: "Delete a saved place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.Store.DeletePlace(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}
