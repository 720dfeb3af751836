package cmd

import (
	"context"
	"fmt"
	"gfa-backend/cmd/gfa/globals"
	"gfa-backend/cmd/gfa/utils"
	"gfa-backend/internal/publish"
	"gfa-backend/internal/run"
	"gfa-backend/internal/scrapers/farligtavfall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	scrapeDryRun bool
	scrapeJSON   bool
)

func init() {
	scrapeCmd.Flags().BoolVar(&scrapeDryRun, "dry-run", false, "do not save or publish the scraped events")
	scrapeCmd.Flags().BoolVar(&scrapeJSON, "json", false, "print the kept events as json")
	rootCmd.AddCommand(scrapeCmd)
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrapes every listing page once and stores the upcoming events.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		g := globals.Get(cmd.Context())

		result, err := scrapeOnce(cmd.Context(), g, scrapeDryRun)
		if err != nil {
			return err
		}

		if scrapeJSON {
			return utils.PrintJSON(result.Events)
		}

		t := utils.NewTable()
		t.AppendHeader(table.Row{"Date", "Start", "End", "District", "Street", "Description"})
		for _, e := range result.Events {
			start, _ := e.Start()
			end, _ := e.End()
			t.AppendRow(table.Row{e.Date, start.Format("15:04"), end.Format("15:04"), e.District, e.Street, e.Description})
		}
		t.AppendFooter(table.Row{
			fmt.Sprintf("pages %d (%d failed)", result.Pages, result.FailedPages),
			fmt.Sprintf("parsed %d", result.Parsed),
			fmt.Sprintf("kept %d", result.Kept),
			fmt.Sprintf("saved %d", result.Saved),
		})
		t.Render()
		return nil
	},
}

func scrapeOnce(ctx context.Context, g *globals.Value, dryRun bool) (run.Result, error) {
	client := farligtavfall.NewClient(g.Config.Source.ClientOptions(), g.Tel)
	parser := farligtavfall.NewParser(g.Time)

	var (
		saver     run.Saver
		publisher run.Publisher
	)
	if !dryRun {
		store, database, err := openStore(ctx, g)
		if err != nil {
			return run.Result{}, err
		}
		defer database.Close()
		saver = store

		if g.Config.Nats.URL != "" {
			nats, err := publish.NewNATSPublisher(g.Config.Nats.URL, g.Config.Nats.Subject, g.Tel)
			if err != nil {
				return run.Result{}, err
			}
			defer nats.Close()
			publisher = nats
		}
	}

	scraper := run.NewScraper(
		client,
		parser,
		saver,
		publisher,
		g.Time,
		run.Options{WindowWeeks: g.Config.WindowWeeks},
		g.Tel,
	)
	return scraper.Run(ctx)
}
