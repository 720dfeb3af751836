package cmd

import (
	"fmt"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/internal/calendar"
	"os"

	"github.com/spf13/cobra"
)

var (
	icsLocation string
	icsOut      string
)

func init() {
	icsCmd.Flags().StringVar(&icsLocation, "location", "", "location id of the stop")
	icsCmd.Flags().StringVarP(&icsOut, "out", "o", "", "write the calendar to a file instead of stdout")
	icsCmd.MarkFlagRequired("location")
	rootCmd.AddCommand(icsCmd)
}

var icsCmd = &cobra.Command{
	Use:   "ics",
	Short: "Exports the stored visits of a stop as an iCalendar feed.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())
		store, database, err := openStore(cmd.Context(), g)
		if err != nil {
			return err
		}
		defer database.Close()

		events, err := store.ByLocation(cmd.Context(), icsLocation)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			return fmt.Errorf("no events stored for %q", icsLocation)
		}

		name := fmt.Sprintf("Farligt avfall-bilen: %s", events[0].Street)
		out, err := calendar.Export(events, name, g.Time.Now())
		if err != nil {
			return err
		}

		if icsOut == "" {
			_, err = fmt.Fprint(os.Stdout, out)
			return err
		}
		return os.WriteFile(icsOut, []byte(out), 0644)
	},
}
