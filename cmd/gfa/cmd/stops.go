package cmd

import (
	"fmt"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/cmd/gfa/utils"
	"gfa-backend/internal/pickup"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var stopsJSON bool

func init() {
	stopsCmd.Flags().BoolVar(&stopsJSON, "json", false, "print the stops as json")
	stopsCmd.AddCommand(setCoordinateCmd)
	rootCmd.AddCommand(stopsCmd)
}

var stopsCmd = &cobra.Command{
	Use:   "stops",
	Short: "Lists every known stop, one per location.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		store, database, err := openStore(cmd.Context(), g)
		if err != nil {
			return err
		}
		defer database.Close()

		stops, err := store.Stops(cmd.Context())
		if err != nil {
			return err
		}
		if stopsJSON {
			return utils.PrintJSON(stops)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Location", "District", "Street", "Description", "Coordinate"})
		for _, s := range stops {
			coordinate := "-"
			if s.Coordinate != nil {
				coordinate = s.Coordinate.String()
			}
			t.AppendRow(table.Row{s.LocationID, s.District, s.Street, s.Description, coordinate})
		}
		t.AppendFooter(table.Row{fmt.Sprintf("%d stops", len(stops))})
		t.Render()
		return nil
	},
}

var setCoordinateCmd = &cobra.Command{
	Use:   "set-coordinate <location_id> <latitude> <longitude>",
	Short: "Sets the coordinate of a stop.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		latitude, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("latitude: %w", err)
		}
		longitude, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("longitude: %w", err)
		}

		g := globals.Get(cmd.Context())
		store, database, err := openStore(cmd.Context(), g)
		if err != nil {
			return err
		}
		defer database.Close()

		return store.SetCoordinate(cmd.Context(), args[0], pickup.Coordinate{
			Latitude:  latitude,
			Longitude: longitude,
		})
	},
}
