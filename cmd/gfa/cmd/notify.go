package cmd

import (
	"context"
	"fmt"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/internal/notify"
	"gfa-backend/internal/pickup"
	"time"

	"github.com/spf13/cobra"
)

var notifyDate string

func init() {
	notifyCmd.Flags().StringVar(&notifyDate, "date", "", "day to notify for as YYYY-MM-DD, defaults to today in Stockholm")
	rootCmd.AddCommand(notifyCmd)
}

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Emails the subscribers of every stop visited on a day.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		date := notifyDate
		if date == "" {
			date = g.Time.Now().Format(pickup.DateLayout)
		}
		if _, err := time.Parse(pickup.DateLayout, date); err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}

		sent, err := notifyOnce(cmd.Context(), g, date)
		if err != nil {
			return err
		}
		fmt.Printf("sent %d notification(s) for %s\n", sent, date)
		return nil
	},
}

func notifyOnce(ctx context.Context, g *globals.Value, date string) (int, error) {
	store, database, err := openStore(ctx, g)
	if err != nil {
		return 0, err
	}
	defer database.Close()

	notifier := notify.NewNotifier(store, g.Config.Smtp.Mailer(), g.Config.Smtp.UnsubscribeURL, g.Tel)
	return notifier.NotifyDay(ctx, date)
}
