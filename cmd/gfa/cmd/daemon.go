package cmd

import (
	"context"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/internal/components/chrono"
	"gfa-backend/internal/components/telemetry"
	"gfa-backend/internal/pickup"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	report_daemon_scrape = "daemon.scrape"
	report_daemon_notify = "daemon.notify"
)

func init() {
	rootCmd.AddCommand(daemonCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Scrapes and notifies on the configured cron schedules until interrupted.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		g := globals.Get(ctx)
		tel := telemetry.NewScopedAPI("gfa", g.Tel)

		otel, err := telemetry.Setup(ctx, "gfa", g.Config.Otlp)
		if err != nil {
			return err
		}
		defer otel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx, tel)

		cron := chrono.NewStandardCron(tel)
		defer cron.Stop()

		err = cron.Cron(g.Config.Schedule.Scrape, func() {
			result, err := scrapeOnce(ctx, g, false)
			if err != nil {
				tel.ReportBroken(report_daemon_scrape, err)
				return
			}
			tel.ReportDebug("scrape done", result.Pages, result.FailedPages, result.Kept, result.Saved)

			store, database, err := openStore(ctx, g)
			if err != nil {
				tel.ReportBroken(report_daemon_scrape, err)
				return
			}
			defer database.Close()
			pruned, err := store.Prune(ctx, g.Time.Now().Format(pickup.DateLayout))
			if err != nil {
				tel.ReportBroken(report_daemon_scrape, err)
				return
			}
			tel.ReportCount(report_daemon_scrape, pruned)
		})
		if err != nil {
			return err
		}

		err = cron.Cron(g.Config.Schedule.Notify, func() {
			date := g.Time.Now().Format(pickup.DateLayout)
			sent, err := notifyOnce(ctx, g, date)
			if err != nil {
				tel.ReportBroken(report_daemon_notify, err, date)
				return
			}
			tel.ReportCount(report_daemon_notify, int64(sent))
		})
		if err != nil {
			return err
		}

		tel.ReportDebug("daemon started", g.Config.Schedule.Scrape, g.Config.Schedule.Notify)
		<-ctx.Done()
		return nil
	},
}
