package analysis

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/report"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

func newTestPipeline(t *testing.T) (*Pipeline, storage.Store) {
	t.Helper()
	store, err := storage.NewFileStore(t.TempDir(), nil)
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := config.Default()
	cfg.Congress = 119
	return NewPipeline(store, cfg, logger), store
}

func seedRollCall(t *testing.T, store storage.Store, id, date string, positions []models.MemberVote) {
	t.Helper()
	rc := models.RollCall{
		VoteID: id, Congress: 119, Chamber: models.ChamberSenate,
		BillID: "bill-" + id, BillTitle: "Act " + id, VoteDate: date, VoteType: "passage",
		Positions: positions,
	}
	require.NoError(t, store.Write(context.Background(), "votes/119", id, rc))
}

func seedMember(t *testing.T, store storage.Store, id, party string) {
	t.Helper()
	rec := models.MemberRecord{
		MemberID: id, Name: "Member " + id, Party: party, State: "VT",
		Terms: []models.Term{{Congress: 119, Chamber: models.ChamberSenate}},
	}
	require.NoError(t, store.Write(context.Background(), "members/119", id, rec))
}

func TestPipelineSyntheticFallback(t *testing.T) {
	p, store := newTestPipeline(t)
	ctx := context.Background()

	summary, err := p.Run(ctx)
	require.NoError(t, err)

	assert.True(t, summary.Synthetic)
	assert.NotZero(t, summary.Qualifying)

	var agg models.AggregateReport
	require.NoError(t, store.Read(ctx, report.ReportsCollection, report.ReportID(119), &agg))
	assert.True(t, agg.Metadata.Synthetic, "synthetic data is flagged in report metadata")
	assert.NotEmpty(t, agg.PartyUnity)

	var artifact models.TrendsArtifact
	require.NoError(t, store.Read(ctx, report.TrendsCollection, report.TrendsID(119), &artifact))
	assert.True(t, artifact.Synthetic)
	assert.NotEmpty(t, artifact.Mavericks)
}

func TestPipelineRealData(t *testing.T) {
	p, store := newTestPipeline(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedMember(t, store, fmt.Sprintf("D%03d", i), "D")
		seedMember(t, store, fmt.Sprintf("R%03d", i), "R")
	}
	seedMember(t, store, "THIN", "D") // will have no votes

	positions := func(d0 string) []models.MemberVote {
		return []models.MemberVote{
			{MemberID: "D000", Party: "D", Vote: d0},
			{MemberID: "D001", Party: "D", Vote: "Yea"},
			{MemberID: "D002", Party: "D", Vote: "Yea"},
			{MemberID: "R000", Party: "R", Vote: "Nay"},
			{MemberID: "R001", Party: "R", Vote: "Nay"},
			{MemberID: "R002", Party: "R", Vote: "Nay"},
		}
	}
	seedRollCall(t, store, "v1", "2025-01-10", positions("Yea"))
	seedRollCall(t, store, "v2", "2025-02-10", positions("Nay"))
	seedRollCall(t, store, "v3", "2025-03-10", positions("Yea"))
	seedRollCall(t, store, "v4", "2025-03-20", positions("Yea"))

	summary, err := p.Run(ctx)
	require.NoError(t, err)

	assert.False(t, summary.Synthetic)
	assert.Equal(t, 7, summary.Members)
	assert.Equal(t, 6, summary.Qualifying)
	assert.Equal(t, 1, summary.Excluded, "member with no votes is excluded, not an error")

	// Written profile round-trips.
	var d0 models.MemberProfile
	require.NoError(t, store.Read(ctx, report.ProfileCollection(119), "D000", &d0))
	assert.Equal(t, 4, d0.TotalVotes)
	assert.Equal(t, 3, d0.PartyLineVotes)
	assert.InDelta(t, 0.75, d0.PartyUnityScore, 1e-9)
	assert.InDelta(t, 1.0, d0.PartyUnityScore+d0.MaverickScore, 1e-9)

	// The thin member is written nowhere and ranked nowhere.
	var thin models.MemberProfile
	err = store.Read(ctx, report.ProfileCollection(119), "THIN", &thin)
	assert.True(t, errors.Is(err, storage.ErrNotFound))

	var agg models.AggregateReport
	require.NoError(t, store.Read(ctx, report.ReportsCollection, report.ReportID(119), &agg))
	for metric, ranking := range agg.Rankings {
		for _, row := range ranking {
			assert.NotEqual(t, "THIN", row.MemberID, "excluded member leaked into %s ranking", metric)
		}
	}

	// v1/v3/v4 are fully unified and opposed; v2 has the Democrats at only
	// 2/3 internal unity, so it classifies bipartisan.
	assert.Equal(t, 4, agg.VotePatterns.TotalVotes)
	assert.Equal(t, 3, agg.VotePatterns.PartyLineVotes)
	assert.InDelta(t, 0.75, agg.VotePatterns.PartyLinePercentage, 1e-9)
}

func TestPipelineRealMembersEmptyVotesSkipsSample(t *testing.T) {
	p, store := newTestPipeline(t)
	ctx := context.Background()

	seedMember(t, store, "D000", "D")
	seedMember(t, store, "R000", "R")

	summary, err := p.Run(ctx)
	require.NoError(t, err)

	// Listed members with no ingested votes analyze as-is; sample roll
	// calls never blend with real listings.
	assert.False(t, summary.Synthetic)
	assert.Equal(t, 2, summary.Members)
	assert.Zero(t, summary.Qualifying)
	assert.Equal(t, 2, summary.Excluded)
	assert.Zero(t, summary.RollCalls)

	var agg models.AggregateReport
	require.NoError(t, store.Read(ctx, report.ReportsCollection, report.ReportID(119), &agg))
	assert.False(t, agg.Metadata.Synthetic)
	assert.Zero(t, agg.VotePatterns.TotalVotes)
	for metric, ranking := range agg.Rankings {
		assert.Empty(t, ranking, "no qualifying member may appear in %s", metric)
	}
}

func TestPipelineIdempotentScores(t *testing.T) {
	p, store := newTestPipeline(t)
	ctx := context.Background()

	seedMember(t, store, "D000", "D")
	seedMember(t, store, "D001", "D")
	seedRollCall(t, store, "v1", "2025-01-10", []models.MemberVote{
		{MemberID: "D000", Party: "D", Vote: "Yea"},
		{MemberID: "D001", Party: "D", Vote: "Yea"},
	})
	seedRollCall(t, store, "v2", "2025-01-20", []models.MemberVote{
		{MemberID: "D000", Party: "D", Vote: "Nay"},
		{MemberID: "D001", Party: "D", Vote: "Yea"},
	})
	seedRollCall(t, store, "v3", "2025-02-05", []models.MemberVote{
		{MemberID: "D000", Party: "D", Vote: "Yea"},
		{MemberID: "D001", Party: "D", Vote: "Yea"},
	})

	_, err := p.Run(ctx)
	require.NoError(t, err)
	var first models.MemberProfile
	require.NoError(t, store.Read(ctx, report.ProfileCollection(119), "D000", &first))

	_, err = p.Run(ctx)
	require.NoError(t, err)
	var second models.MemberProfile
	require.NoError(t, store.Read(ctx, report.ProfileCollection(119), "D000", &second))

	assert.Equal(t, first, second, "re-running the batch on identical input replaces records byte-for-byte")
}
