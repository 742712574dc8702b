package main

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/analysis"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the voting-consistency analysis batch",
	Long: `Reads ingested members, roll calls, and bill sponsorships for the
configured congress, scores every member, and writes profiles, the
aggregate report, and the trends artifact back to the store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if congress, _ := cmd.Flags().GetInt("congress"); congress > 0 {
			cfg.Congress = congress
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		pipeline := analysis.NewPipeline(store, cfg, logger)
		summary, err := pipeline.Run(cmd.Context())
		if err != nil {
			return err
		}

		logger.WithFields(logrus.Fields{
			"congress":   summary.Congress,
			"run_id":     summary.RunID,
			"members":    summary.Members,
			"qualifying": summary.Qualifying,
			"excluded":   summary.Excluded,
			"roll_calls": summary.RollCalls,
			"errors":     summary.RecordErrors,
			"synthetic":  summary.Synthetic,
			"duration":   summary.Duration.Round(time.Millisecond),
		}).Info("analysis batch complete")

		if summary.Synthetic {
			fmt.Println("No ingested votes found; analysis ran on synthetic sample data.")
		}
		fmt.Printf("Analyzed congress %d: %d members, %d qualifying, %d roll calls\n",
			summary.Congress, summary.Members, summary.Qualifying, summary.RollCalls)
		return nil
	},
}

func init() {
	analyzeCmd.Flags().Int("congress", 0, "override the configured congress")
}
