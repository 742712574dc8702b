package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/report"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

// ErrMemberNotFound distinguishes a member id that resolves to nothing
// from the expected "analysis has not run yet" empty case.
var ErrMemberNotFound = errors.New("member not found")

// Service answers read queries against written analysis output. When no
// analysis has been run for a congress it returns well-formed empty
// shapes rather than errors; only an unresolvable member id is a miss.
type Service struct {
	store  storage.Store
	logger *logrus.Logger
}

// NewService creates a query service over the given record store.
func NewService(store storage.Store, logger *logrus.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// artifact reads a congress's trends artifact, mapping a missing record
// to (nil, nil) so callers can substitute their empty default.
func (s *Service) artifact(ctx context.Context, congress int) (*models.TrendsArtifact, error) {
	var artifact models.TrendsArtifact
	err := s.store.Read(ctx, report.TrendsCollection, report.TrendsID(congress), &artifact)
	if errors.Is(err, storage.ErrNotFound) {
		s.logger.WithField("congress", congress).Debug("no trends artifact written yet")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read trends artifact: %w", err)
	}
	return &artifact, nil
}

// PartyUnityScores returns the per-party mean unity for a congress.
func (s *Service) PartyUnityScores(ctx context.Context, congress int) (map[models.Party]float64, error) {
	artifact, err := s.artifact(ctx, congress)
	if err != nil {
		return nil, err
	}
	if artifact == nil || artifact.PartyUnity == nil {
		return map[models.Party]float64{}, nil
	}
	return artifact.PartyUnity, nil
}

// VotePatterns returns the party-line vs bipartisan roll-call summary.
func (s *Service) VotePatterns(ctx context.Context, congress int) (models.VotePatternSummary, error) {
	artifact, err := s.artifact(ctx, congress)
	if err != nil || artifact == nil {
		return models.VotePatternSummary{}, err
	}
	return artifact.VotePatterns, nil
}

// Mavericks returns up to limit members ranked by maverick behavior.
// A non-positive limit falls back to 10.
func (s *Service) Mavericks(ctx context.Context, congress, limit int) ([]models.MaverickEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	artifact, err := s.artifact(ctx, congress)
	if err != nil || artifact == nil {
		return []models.MaverickEntry{}, err
	}
	entries := artifact.Mavericks
	if len(entries) > limit {
		entries = entries[:limit]
	}
	if entries == nil {
		entries = []models.MaverickEntry{}
	}
	return entries, nil
}

// DivisiveVotes returns up to limit of the most divisive roll calls.
// A non-positive limit falls back to 5.
func (s *Service) DivisiveVotes(ctx context.Context, congress, limit int) ([]models.DivisiveVote, error) {
	if limit <= 0 {
		limit = 5
	}
	artifact, err := s.artifact(ctx, congress)
	if err != nil || artifact == nil {
		return []models.DivisiveVote{}, err
	}
	votes := artifact.DivisiveVotes
	if len(votes) > limit {
		votes = votes[:limit]
	}
	if votes == nil {
		votes = []models.DivisiveVote{}
	}
	return votes, nil
}

// TemporalTrends returns monthly unity buckets, chronological ascending,
// at most twelve entries.
func (s *Service) TemporalTrends(ctx context.Context, congress int) ([]models.TrendPoint, error) {
	artifact, err := s.artifact(ctx, congress)
	if err != nil || artifact == nil {
		return []models.TrendPoint{}, err
	}
	if artifact.Trends == nil {
		return []models.TrendPoint{}, nil
	}
	return artifact.Trends, nil
}

// MemberProfile resolves one member's written profile. A listed member
// with no written profile (empty or below-threshold vote history) still
// resolves, as an identity-only profile with HasData false; only an id
// absent from the congress's member listing is a miss.
func (s *Service) MemberProfile(ctx context.Context, congress int, memberID string) (*models.MemberProfile, error) {
	var profile models.MemberProfile
	err := s.store.Read(ctx, report.ProfileCollection(congress), memberID, &profile)
	if err == nil {
		return &profile, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("read profile %s: %w", memberID, err)
	}

	var rec models.MemberRecord
	err = s.store.Read(ctx, fmt.Sprintf("members/%d", congress), memberID, &rec)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrMemberNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read member listing %s: %w", memberID, err)
	}

	term, _ := rec.TermFor(congress)
	return &models.MemberProfile{
		MemberID:          rec.MemberID,
		Name:              rec.Name,
		Party:             models.ParseParty(rec.Party),
		State:             rec.State,
		Chamber:           term.Chamber,
		ConsistencyRating: models.RatingUnknown,
	}, nil
}
