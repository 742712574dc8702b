package analysis

import (
	"fmt"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

func testAnalyzer(opts ...Option) *Analyzer {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return NewAnalyzer(config.Default().Analysis, logger, opts...)
}

func profile(id string, party models.Party) *models.MemberProfile {
	return &models.MemberProfile{
		MemberID:          id,
		Name:              "Member " + id,
		Party:             party,
		ConsistencyRating: models.RatingUnknown,
	}
}

// vote builds a party-line or cross-party record for a bill.
func vote(billID, title string, cross bool) models.VoteRecord {
	position := models.PositionYea
	majority := models.PositionYea
	if cross {
		majority = models.PositionNay
	}
	return models.VoteRecord{
		BillID:        billID,
		VoteDate:      "2025-02-01",
		Position:      position,
		BillTitle:     title,
		VoteType:      "passage",
		PartyMajority: majority,
		CrossParty:    cross,
	}
}

func TestClassifyBoundaries(t *testing.T) {
	a := testAnalyzer()
	tests := []struct {
		score float64
		want  models.ConsistencyRating
	}{
		{1.0, models.RatingLoyalist},
		{0.95, models.RatingLoyalist}, // boundary: exactly 0.95 is Loyalist
		{0.94, models.RatingModerate},
		{0.8, models.RatingModerate},
		{0.61, models.RatingModerate},
		{0.6, models.RatingSwingVoter}, // boundary
		{0.5, models.RatingSwingVoter},
		{0.4, models.RatingSwingVoter}, // boundary
		{0.39, models.RatingModerate},
		{1.0 - 0.85, models.RatingMaverick}, // boundary: maverick score exactly at threshold
		{0.1, models.RatingMaverick},
		{0.0, models.RatingMaverick},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%.2f", tt.score), func(t *testing.T) {
			assert.Equal(t, tt.want, a.Classify(tt.score))
		})
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Same score always yields the same rating, over a dense sweep of [0,1].
	a := testAnalyzer()
	for i := 0; i <= 1000; i++ {
		score := float64(i) / 1000
		first := a.Classify(score)
		assert.Equal(t, first, a.Classify(score))
		assert.NotEqual(t, models.RatingUnknown, first, "every score in [0,1] belongs to a band")
	}
}

func TestScoreUnityInvariants(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		vote("b1", "One", false),
		vote("b2", "Two", false),
		vote("b3", "Three", true),
		vote("b4", "Four", false),
	}}

	result := a.Run(profiles, votes, nil)
	require.Len(t, result.Qualifying, 1)

	p := result.Qualifying[0]
	assert.True(t, p.HasData)
	assert.Equal(t, 4, p.TotalVotes)
	assert.Equal(t, 3, p.PartyLineVotes)
	assert.Equal(t, 1, p.DefectionCount)
	assert.InDelta(t, 1.0, p.PartyUnityScore+p.MaverickScore, 1e-9)
	assert.Equal(t, p.TotalVotes, p.PartyLineVotes+p.DefectionCount)
}

func TestScoreUnityExcludesBelowThreshold(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{
		"thin": profile("thin", models.PartyRepublican),
		"none": profile("none", models.PartyDemocratic),
	}
	votes := map[string][]models.VoteRecord{
		"thin": {vote("b1", "One", false), vote("b2", "Two", false)}, // below MinVotes=3
	}

	result := a.Run(profiles, votes, nil)

	assert.Empty(t, result.Qualifying)
	assert.Equal(t, 2, result.Excluded)
	assert.False(t, profiles["thin"].HasData)
	assert.Equal(t, models.RatingUnknown, profiles["thin"].ConsistencyRating)
	assert.Equal(t, 0.0, profiles["none"].PartyUnityScore)
}

// The worked example from the requirements: 10 votes, 8 with the party,
// 2 cross-party on a bill at least 3 members defected on.
func TestModerateMemberWithMajorDefections(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{
		"m1": profile("m1", models.PartyDemocratic),
		"m2": profile("m2", models.PartyDemocratic),
		"m3": profile("m3", models.PartyDemocratic),
	}

	m1Votes := []models.VoteRecord{
		vote("shared", "Tax Reform Act", true),
		vote("shared2", "Shared Defection II", true),
	}
	for i := 0; i < 8; i++ {
		m1Votes = append(m1Votes, vote(fmt.Sprintf("b%d", i), "Routine", false))
	}

	// Two more members defect on the same bills so both clear the >=3 filter.
	other := []models.VoteRecord{
		vote("shared", "Tax Reform Act", true),
		vote("shared2", "Shared Defection II", true),
		vote("x1", "Routine", false),
	}

	votes := map[string][]models.VoteRecord{"m1": m1Votes, "m2": other, "m3": other}
	result := a.Run(profiles, votes, nil)

	p := profiles["m1"]
	assert.InDelta(t, 0.8, p.PartyUnityScore, 1e-9)
	assert.InDelta(t, 0.2, p.MaverickScore, 1e-9)
	assert.Equal(t, models.RatingModerate, p.ConsistencyRating)

	require.Len(t, p.MajorDefections, 2)
	assert.ElementsMatch(t, []string{"shared", "shared2"}, p.SignificantBreaks)
	for _, d := range p.MajorDefections {
		assert.Equal(t, "Medium", d.Significance, "3 defectors is significant but below the High bar")
	}
	assert.Equal(t, 3, result.DefectionTally["shared"])
}

func TestDefectionSignificanceHigh(t *testing.T) {
	a := testAnalyzer()
	profiles := make(map[string]*models.MemberProfile)
	votes := make(map[string][]models.VoteRecord)
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("m%d", i)
		profiles[id] = profile(id, models.PartyRepublican)
		votes[id] = []models.VoteRecord{
			vote("hot", "Contentious Act", true),
			vote("a", "Routine", false),
			vote("b", "Routine", false),
		}
	}

	a.Run(profiles, votes, nil)

	for _, p := range profiles {
		require.Len(t, p.MajorDefections, 1)
		assert.Equal(t, "High", p.MajorDefections[0].Significance)
	}
}

func TestIsolatedDefectionFiltered(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		vote("solo", "Lone Break Act", true),
		vote("a", "Routine", false),
		vote("b", "Routine", false),
	}}

	a.Run(profiles, votes, nil)

	p := profiles["m1"]
	assert.Equal(t, 1, p.DefectionCount, "the defection still counts against unity")
	assert.Empty(t, p.MajorDefections, "but a lone defection is noise, not a major break")
	assert.Empty(t, p.SignificantBreaks)
}

func TestSponsorshipCollaboration(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{
		"d1": profile("d1", models.PartyDemocratic),
		"d2": profile("d2", models.PartyDemocratic),
		"r1": profile("r1", models.PartyRepublican),
	}
	votes := map[string][]models.VoteRecord{
		"d1": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
		"d2": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
		"r1": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
	}
	bills := []models.BillSponsors{
		{
			BillID: "b1", Title: "One",
			Sponsors:   []models.SponsorRef{{MemberID: "d1", Name: "D One", Party: "D"}},
			Cosponsors: []models.SponsorRef{{MemberID: "r1", Name: "R One", Party: "R"}, {MemberID: "d2", Name: "D Two", Party: "D"}},
		},
		{
			BillID: "b2", Title: "Two",
			Sponsors:   []models.SponsorRef{{MemberID: "d1", Name: "D One", Party: "D"}},
			Cosponsors: []models.SponsorRef{{MemberID: "r1", Name: "R One", Party: "R"}},
		},
	}

	a.Run(profiles, votes, bills)

	// d1-r1 co-sponsored twice; d2-r1 once; d1-d2 same party, never.
	d1 := profiles["d1"]
	require.Len(t, d1.TopCollaborators, 1)
	assert.Equal(t, "r1", d1.TopCollaborators[0].MemberID)
	assert.Equal(t, 2, d1.TopCollaborators[0].Count)
	assert.Equal(t, 2, d1.CrossPartySponsors)

	r1 := profiles["r1"]
	require.Len(t, r1.TopCollaborators, 2)
	assert.Equal(t, "d1", r1.TopCollaborators[0].MemberID, "ranked descending by count")
	assert.Equal(t, 3, r1.CrossPartySponsors)
}

func TestTopPairs(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{
		"d1": profile("d1", models.PartyDemocratic),
		"d2": profile("d2", models.PartyDemocratic),
		"r1": profile("r1", models.PartyRepublican),
	}
	votes := map[string][]models.VoteRecord{
		"d1": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
		"d2": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
		"r1": {vote("b1", "One", false), vote("b2", "Two", false), vote("b3", "Three", false)},
	}
	bills := []models.BillSponsors{
		{
			BillID: "b1", Title: "One",
			Sponsors:   []models.SponsorRef{{MemberID: "d1", Party: "D"}},
			Cosponsors: []models.SponsorRef{{MemberID: "r1", Party: "R"}, {MemberID: "d2", Party: "D"}},
		},
		{
			BillID: "b2", Title: "Two",
			Sponsors:   []models.SponsorRef{{MemberID: "d1", Party: "D"}},
			Cosponsors: []models.SponsorRef{{MemberID: "r1", Party: "R"}},
		},
	}

	result := a.Run(profiles, votes, bills)

	// One entry per unordered pair, descending by count: d1-r1 twice,
	// d2-r1 once, d1-d2 same party and absent.
	require.Len(t, result.TopPairs, 2)
	top := result.TopPairs[0]
	assert.Equal(t, "d1", top.MemberA)
	assert.Equal(t, "r1", top.MemberB)
	assert.Equal(t, "Member d1", top.NameA)
	assert.Equal(t, "Member r1", top.NameB)
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, "d2", result.TopPairs[1].MemberA)
	assert.Equal(t, 1, result.TopPairs[1].Count)
}

func TestTopCollaboratorsCapped(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"d1": profile("d1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{
		"d1": {vote("b", "B", false), vote("c", "C", false), vote("d", "D", false)},
	}

	var bills []models.BillSponsors
	for i := 0; i < 8; i++ {
		id := fmt.Sprintf("r%d", i)
		profiles[id] = profile(id, models.PartyRepublican)
		votes[id] = votes["d1"]
		bills = append(bills, models.BillSponsors{
			BillID:   fmt.Sprintf("bill%d", i),
			Sponsors: []models.SponsorRef{{MemberID: "d1", Party: "D"}, {MemberID: id, Party: "R"}},
		})
	}

	a.Run(profiles, votes, bills)
	assert.Len(t, profiles["d1"].TopCollaborators, 5, "top collaborators list caps at 5")
}

func TestBipartisanScore(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{
		"d1": profile("d1", models.PartyDemocratic),
		"r1": profile("r1", models.PartyRepublican),
		"r2": profile("r2", models.PartyRepublican),
	}
	// d1 votes Yea on b1/b2/b3; r1 votes Yea on b1 and b2 only; r2 Nay everywhere.
	yea := func(bill string) models.VoteRecord {
		return models.VoteRecord{BillID: bill, Position: models.PositionYea, PartyMajority: models.PositionYea}
	}
	nay := func(bill string) models.VoteRecord {
		return models.VoteRecord{BillID: bill, Position: models.PositionNay, PartyMajority: models.PositionNay}
	}
	votes := map[string][]models.VoteRecord{
		"d1": {yea("b1"), yea("b2"), yea("b3")},
		"r1": {yea("b1"), yea("b2"), nay("b3")},
		"r2": {nay("b1"), nay("b2"), nay("b3")},
	}

	a.Run(profiles, votes, nil)

	assert.InDelta(t, 2.0/3.0, profiles["d1"].BipartisanScore, 1e-9,
		"two of three votes matched by a cross-party member")
	assert.InDelta(t, 2.0/3.0, profiles["r1"].BipartisanScore, 1e-9)
	assert.InDelta(t, 0.0, profiles["r2"].BipartisanScore, 1e-9,
		"r2 only ever matches fellow Republicans")
}

func TestSwingVoterScore(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		vote("b1", "Tax Relief Act", false),            // contested, party line
		vote("b2", "Healthcare Expansion Act", true),   // contested, break
		vote("b3", "Climate Action Now", true),         // contested, break
		vote("b4", "Immigration Modernization", false), // contested, party line
		vote("b5", "Post Office Renaming", true),       // not contested
	}}

	a.Run(profiles, votes, nil)
	assert.InDelta(t, 0.5, profiles["m1"].SwingVoterScore, 1e-9)
}

func TestSwingVoterScoreNoContestedVotes(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		vote("b1", "Post Office Renaming", true),
		vote("b2", "Commemorative Coin Act", true),
		vote("b3", "National Day Designation", true),
	}}

	a.Run(profiles, votes, nil)
	assert.Equal(t, 0.0, profiles["m1"].SwingVoterScore, "undefined without contested votes, stays 0.0")
}

func TestIdeologicalConsistency(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		// healthcare bucket: 3 votes, 2 party line -> 2/3
		vote("h1", "Health Coverage Act", false),
		vote("h2", "Medicare Extension", false),
		vote("h3", "Drug Pricing Act", true),
		// defense bucket: 3 votes, all party line -> 1.0
		vote("d1", "Defense Authorization", false),
		vote("d2", "Military Housing Act", false),
		vote("d3", "Veterans Care Act", false),
		// environment bucket: only 2 votes, excluded from the mean
		vote("e1", "Climate Resilience", true),
		vote("e2", "Clean Water Act", true),
	}}

	a.Run(profiles, votes, nil)
	assert.InDelta(t, (2.0/3.0+1.0)/2.0, profiles["m1"].IdeologicalConsistency, 1e-9)
}

func TestIdeologicalConsistencyNoQualifyingBucket(t *testing.T) {
	a := testAnalyzer()
	profiles := map[string]*models.MemberProfile{"m1": profile("m1", models.PartyDemocratic)}
	votes := map[string][]models.VoteRecord{"m1": {
		vote("x1", "Health Coverage Act", false),
		vote("x2", "Defense Authorization", false),
		vote("x3", "Clean Water Act", false),
	}}

	a.Run(profiles, votes, nil)
	assert.Equal(t, 0.0, profiles["m1"].IdeologicalConsistency)
}

func TestIssueClassifierFirstBucketWins(t *testing.T) {
	issues := DefaultIssues()
	// "health" appears before "tax" in bucket order.
	assert.Equal(t, "healthcare", issues.Issue("Health Savings Tax Act"))
	assert.Equal(t, "economy", issues.Issue("Small Business Tax Act"))
	assert.Equal(t, "other", issues.Issue("Post Office Renaming"))
}

func TestRunIsIdempotent(t *testing.T) {
	build := func() (map[string]*models.MemberProfile, map[string][]models.VoteRecord) {
		profiles := map[string]*models.MemberProfile{
			"m1": profile("m1", models.PartyDemocratic),
			"m2": profile("m2", models.PartyRepublican),
		}
		votes := map[string][]models.VoteRecord{
			"m1": {vote("b1", "Tax Act", false), vote("b2", "Routine", true), vote("b3", "Routine", false)},
			"m2": {vote("b1", "Tax Act", false), vote("b2", "Routine", false), vote("b3", "Routine", true)},
		}
		return profiles, votes
	}

	a := testAnalyzer()
	p1, v1 := build()
	p2, v2 := build()
	a.Run(p1, v1, nil)
	a.Run(p2, v2, nil)
	assert.Equal(t, p1, p2, "identical input must produce identical profiles")
}
