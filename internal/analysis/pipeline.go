package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/aggregate"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/loader"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/report"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

// Pipeline runs the full batch: load, analyze, aggregate, write. It is
// designed to run to completion as one sequential pass and be re-run from
// scratch on failure; there is no partial-resume checkpointing.
type Pipeline struct {
	cfg      *config.Config
	loader   *loader.Loader
	analyzer *Analyzer
	builder  *aggregate.Builder
	writer   *report.Writer
	logger   *logrus.Logger
}

// NewPipeline wires the batch from a store and configuration.
func NewPipeline(store storage.Store, cfg *config.Config, logger *logrus.Logger) *Pipeline {
	return &Pipeline{
		cfg:      cfg,
		loader:   loader.New(store, cfg, logger),
		analyzer: NewAnalyzer(cfg.Analysis, logger),
		builder:  aggregate.NewBuilder(cfg.Analysis),
		writer:   report.NewWriter(store, logger),
		logger:   logger,
	}
}

// RunSummary describes one completed batch.
type RunSummary struct {
	Congress     int           `json:"congress"`
	RunID        string        `json:"run_id"`
	Members      int           `json:"members"`
	Qualifying   int           `json:"qualifying"`
	Excluded     int           `json:"excluded"`
	RollCalls    int           `json:"roll_calls"`
	RecordErrors int           `json:"record_errors"`
	Synthetic    bool          `json:"synthetic"`
	Duration     time.Duration `json:"duration"`
}

// Run executes the batch for the configured congress.
func (p *Pipeline) Run(ctx context.Context) (*RunSummary, error) {
	start := time.Now()
	congress := p.cfg.Congress
	p.logger.WithField("congress", congress).Info("starting analysis batch")

	members, err := p.loader.LoadMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}
	votes, err := p.loader.LoadVotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}
	sponsors, err := p.loader.LoadSponsors(ctx)
	if err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}

	profiles := members.Profiles
	if votes.Synthetic {
		if len(profiles) == 0 {
			// Synthetic votes reference synthetic members; keep them
			// together so the sample never blends with real listings.
			profiles = syntheticProfiles(congress)
			if len(sponsors.Bills) == 0 {
				sponsors.Bills = loader.SampleSponsors()
			}
		} else {
			// Real listings with an empty vote collection analyze as-is.
			p.logger.WithField("members", len(profiles)).
				Warn("no ingested votes for listed members, skipping sample data")
			votes.Votes = nil
			votes.RollCalls = nil
			votes.Synthetic = false
		}
	}

	result := p.analyzer.Run(profiles, votes.Votes, sponsors.Bills)

	patterns := p.builder.VotePatterns(votes.RollCalls)
	partyStats := p.builder.PartyStats(result.Qualifying)
	divisive := p.builder.DivisiveVotes(votes.RollCalls)
	if len(divisive) == 0 {
		divisive = p.builder.DivisiveVotesByRecency(votes.RollCalls)
	}
	trends := p.builder.Trends(votes.RollCalls)

	metadata := p.writer.NewMetadata(congress, p.cfg.Analysis.MinVotes,
		len(profiles), result.Excluded, votes.Synthetic)

	agg := &models.AggregateReport{
		Metadata:      metadata,
		RatingCounts:  p.builder.RatingCounts(result.Qualifying),
		PartyUnity:    partyStats,
		Rankings:      p.builder.Rankings(result.Qualifying),
		VotePatterns:  patterns,
		DivisiveVotes: divisive,
		Trends:        trends,
		Bipartisan:    bipartisanSummary(result),
		Insights:      p.builder.Insights(partyStats, patterns),
	}

	artifact := &models.TrendsArtifact{
		Congress:      congress,
		Synthetic:     votes.Synthetic,
		PartyUnity:    partyUnityMap(partyStats),
		VotePatterns:  patterns,
		Mavericks:     p.builder.Mavericks(result.Qualifying),
		DivisiveVotes: divisive,
		Trends:        trends,
	}

	if err := p.writer.WriteProfiles(ctx, congress, result.Qualifying); err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}
	if err := p.writer.WriteAggregate(ctx, agg); err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}
	if err := p.writer.WriteTrends(ctx, artifact); err != nil {
		return nil, fmt.Errorf("analysis batch: %w", err)
	}

	summary := &RunSummary{
		Congress:     congress,
		RunID:        metadata.RunID,
		Members:      len(profiles),
		Qualifying:   len(result.Qualifying),
		Excluded:     result.Excluded,
		RollCalls:    len(votes.RollCalls),
		RecordErrors: len(members.Errors) + len(votes.Errors) + len(sponsors.Errors),
		Synthetic:    votes.Synthetic,
		Duration:     time.Since(start),
	}
	p.logger.WithFields(logrus.Fields{
		"run_id":     summary.RunID,
		"qualifying": summary.Qualifying,
		"duration":   summary.Duration,
	}).Info("analysis batch complete")
	return summary, nil
}

func syntheticProfiles(congress int) map[string]*models.MemberProfile {
	profiles := make(map[string]*models.MemberProfile)
	for _, rec := range loader.SampleMembers(congress) {
		term, _ := rec.TermFor(congress)
		profiles[rec.MemberID] = &models.MemberProfile{
			MemberID:          rec.MemberID,
			Name:              rec.Name,
			Party:             models.ParseParty(rec.Party),
			State:             rec.State,
			Chamber:           term.Chamber,
			ConsistencyRating: models.RatingUnknown,
		}
	}
	return profiles
}

func bipartisanSummary(result *Result) models.BipartisanSummary {
	summary := models.BipartisanSummary{TopPairs: result.TopPairs}
	if len(result.Qualifying) > 0 {
		sum := 0.0
		for _, p := range result.Qualifying {
			sum += p.BipartisanScore
			summary.SponsoredPairs += p.CrossPartySponsors
		}
		summary.AverageScore = sum / float64(len(result.Qualifying))
	}
	return summary
}

func partyUnityMap(stats []models.PartyStats) map[models.Party]float64 {
	unity := make(map[models.Party]float64, len(stats))
	for _, s := range stats {
		unity[s.Party] = s.Mean
	}
	return unity
}
