package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/analysis"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/congress"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/ingestion"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/poller"
)

var pollCmd = &cobra.Command{
	Use:   "poll",
	Short: "Run ingest and analysis on a cron schedule",
	Long: `Runs the batch on the configured cron schedule until interrupted.
With poll.ingest_first set, each run pulls fresh upstream data before
re-scoring; otherwise only the analysis batch runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		pipeline := analysis.NewPipeline(store, cfg, logger)

		var orchestrator *ingestion.Orchestrator
		if cfg.Poll.IngestFirst {
			if cfg.Upstream.APIKey == "" {
				return fmt.Errorf("poll.ingest_first requires an upstream API key")
			}
			client := congress.NewClient(cfg.Upstream, logger)
			orchestrator = ingestion.NewOrchestrator(client, store, logger)
		}

		job := poller.JobFunc(func(ctx context.Context) error {
			if orchestrator != nil {
				if _, err := orchestrator.IngestCongress(ctx, cfg.Congress); err != nil {
					return fmt.Errorf("ingest: %w", err)
				}
			}
			_, err := pipeline.Run(ctx)
			return err
		})

		p := poller.New(cfg.Poll.Schedule, job, logger)
		if err := p.Start(cmd.Context()); err != nil {
			return err
		}
		defer p.Stop()

		runNow, _ := cmd.Flags().GetBool("now")
		if runNow {
			p.RunOnce(cmd.Context())
		}

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.WithField("signal", sig.String()).Info("stopping poller")
		return nil
	},
}

func init() {
	pollCmd.Flags().Bool("now", false, "run one batch immediately on startup")
}
