package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/report"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show ingested data and analysis state for the configured congress",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()
		congress := cfg.Congress
		fmt.Printf("Congress %d (%s storage)\n\n", congress, storageLabel())

		for _, c := range []struct {
			label      string
			collection string
		}{
			{"members", fmt.Sprintf("members/%d", congress)},
			{"roll calls", fmt.Sprintf("votes/%d", congress)},
			{"bills", fmt.Sprintf("bills/%d", congress)},
			{"profiles", report.ProfileCollection(congress)},
		} {
			records, err := store.List(ctx, c.collection)
			if err != nil {
				return fmt.Errorf("list %s: %w", c.collection, err)
			}
			fmt.Printf("  %-12s %d\n", c.label, len(records))
		}

		fmt.Println()
		printLastRun(ctx, store, congress)
		return nil
	},
}

func storageLabel() string {
	if cfg.Storage.Type == "bolt" {
		return "bolt"
	}
	return "file"
}

func printLastRun(ctx context.Context, store storage.Store, congress int) {
	var rep models.AggregateReport
	err := store.Read(ctx, report.ReportsCollection, report.ReportID(congress), &rep)
	if errors.Is(err, storage.ErrNotFound) {
		fmt.Println("No analysis run recorded. Run 'legis analyze'.")
		return
	}
	if err != nil {
		logger.WithError(err).Warn("could not read aggregate report")
		return
	}

	md := rep.Metadata
	fmt.Printf("Last analysis: %s (run %s)\n", md.AnalysisDate, md.RunID)
	fmt.Printf("  members analyzed: %d, excluded: %d\n", md.MemberCount, md.Excluded)
	if md.Synthetic {
		fmt.Println("  note: last run used synthetic sample data")
	}
}
