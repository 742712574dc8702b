package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/congress"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/ingestion"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Pull member, vote, and bill data from the upstream API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if c, _ := cmd.Flags().GetInt("congress"); c > 0 {
			cfg.Congress = c
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		if cfg.Upstream.APIKey == "" {
			return fmt.Errorf("no upstream API key configured (set CONGRESS_API_KEY)")
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		client := congress.NewClient(cfg.Upstream, logger)
		orchestrator := ingestion.NewOrchestrator(client, store, logger)

		result, err := orchestrator.IngestCongress(cmd.Context(), cfg.Congress)
		if err != nil {
			return err
		}

		fmt.Printf("Ingested congress %d: %d members, %d roll calls, %d bills in %s\n",
			result.Congress, result.MemberCount, result.VoteCount, result.BillCount,
			result.Duration.Round(time.Millisecond))
		return nil
	},
}

func init() {
	ingestCmd.Flags().Int("congress", 0, "override the configured congress")
}
