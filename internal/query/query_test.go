package query

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/report"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

func newTestService(t *testing.T) (*Service, storage.Store) {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	store, err := storage.NewFileStore(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewService(store, logger), store
}

func seedArtifact(t *testing.T, store storage.Store, congress int) *models.TrendsArtifact {
	t.Helper()
	artifact := &models.TrendsArtifact{
		Congress: congress,
		PartyUnity: map[models.Party]float64{
			models.PartyDemocratic:   0.91,
			models.PartyRepublican: 0.88,
		},
		VotePatterns: models.VotePatternSummary{
			TotalVotes:          40,
			PartyLineVotes:      30,
			BipartisanVotes:     10,
			PartyLinePercentage: 0.75,
		},
		Mavericks: []models.MaverickEntry{
			{MemberID: "M001", Name: "Alpha", Party: models.PartyDemocratic, UnityScore: 0.62, VotesAgainstParty: 19},
			{MemberID: "M002", Name: "Beta", Party: models.PartyRepublican, UnityScore: 0.71, VotesAgainstParty: 12},
			{MemberID: "M003", Name: "Gamma", Party: models.PartyDemocratic, UnityScore: 0.80, VotesAgainstParty: 8},
		},
		DivisiveVotes: []models.DivisiveVote{
			{VoteID: "rc-1", Divisiveness: 0.94},
			{VoteID: "rc-2", Divisiveness: 0.81},
		},
		Trends: []models.TrendPoint{
			{Month: "2025-01", PartyUnity: 0.9, VotesCount: 12},
			{Month: "2025-02", PartyUnity: 0.85, VotesCount: 9},
		},
	}
	require.NoError(t, store.Write(context.Background(), report.TrendsCollection, report.TrendsID(congress), artifact))
	return artifact
}

func TestQueriesAgainstWrittenArtifact(t *testing.T) {
	svc, store := newTestService(t)
	seedArtifact(t, store, 119)
	ctx := context.Background()

	unity, err := svc.PartyUnityScores(ctx, 119)
	require.NoError(t, err)
	assert.InDelta(t, 0.91, unity[models.PartyDemocratic], 1e-9)
	assert.InDelta(t, 0.88, unity[models.PartyRepublican], 1e-9)

	patterns, err := svc.VotePatterns(ctx, 119)
	require.NoError(t, err)
	assert.Equal(t, 40, patterns.TotalVotes)
	assert.InDelta(t, 0.75, patterns.PartyLinePercentage, 1e-9)

	trends, err := svc.TemporalTrends(ctx, 119)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, "2025-01", trends[0].Month)
}

func TestMavericksLimit(t *testing.T) {
	svc, store := newTestService(t)
	seedArtifact(t, store, 119)
	ctx := context.Background()

	entries, err := svc.Mavericks(ctx, 119, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "M001", entries[0].MemberID)

	// non-positive limit falls back to the default of 10
	entries, err = svc.Mavericks(ctx, 119, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDivisiveVotesLimit(t *testing.T) {
	svc, store := newTestService(t)
	seedArtifact(t, store, 119)

	votes, err := svc.DivisiveVotes(context.Background(), 119, 1)
	require.NoError(t, err)
	require.Len(t, votes, 1)
	assert.Equal(t, "rc-1", votes[0].VoteID)
}

func TestEmptyDefaultsWhenNoAnalysisWritten(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	unity, err := svc.PartyUnityScores(ctx, 118)
	require.NoError(t, err)
	assert.Empty(t, unity)
	assert.NotNil(t, unity)

	patterns, err := svc.VotePatterns(ctx, 118)
	require.NoError(t, err)
	assert.Equal(t, models.VotePatternSummary{}, patterns)

	entries, err := svc.Mavericks(ctx, 118, 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)

	votes, err := svc.DivisiveVotes(ctx, 118, 5)
	require.NoError(t, err)
	assert.Empty(t, votes)

	trends, err := svc.TemporalTrends(ctx, 118)
	require.NoError(t, err)
	assert.Empty(t, trends)
}

func TestMemberProfileRoundTripAndNotFound(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	profile := &models.MemberProfile{
		MemberID:        "D000",
		Name:            "Delta",
		Party:           models.PartyDemocratic,
		HasData:         true,
		TotalVotes:      20,
		PartyLineVotes:  15,
		PartyUnityScore: 0.75,
		MaverickScore:   0.25,
	}
	require.NoError(t, store.Write(ctx, report.ProfileCollection(119), profile.MemberID, profile))

	got, err := svc.MemberProfile(ctx, 119, "D000")
	require.NoError(t, err)
	assert.Equal(t, profile.PartyUnityScore, got.PartyUnityScore)
	assert.True(t, got.HasData)

	_, err = svc.MemberProfile(ctx, 119, "NOPE")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestMemberProfileEmptyVoteHistory(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Listed member who never cast a counted vote: no written profile,
	// but the id still resolves with identity fields only.
	rec := models.MemberRecord{
		MemberID: "EMPTY", Name: "Quiet Member", Party: "D", State: "VT",
		Terms: []models.Term{{Congress: 119, Chamber: models.ChamberSenate}},
	}
	require.NoError(t, store.Write(ctx, "members/119", rec.MemberID, rec))

	got, err := svc.MemberProfile(ctx, 119, "EMPTY")
	require.NoError(t, err)
	assert.False(t, got.HasData)
	assert.Zero(t, got.TotalVotes)
	assert.Zero(t, got.PartyUnityScore)
	assert.Equal(t, "Quiet Member", got.Name)
	assert.Equal(t, models.PartyDemocratic, got.Party)
	assert.Equal(t, models.ChamberSenate, got.Chamber)
	assert.Equal(t, models.RatingUnknown, got.ConsistencyRating)

	// An id missing from the listing too is still a true miss.
	_, err = svc.MemberProfile(ctx, 119, "GHOST")
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
