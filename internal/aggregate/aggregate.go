package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// Builder rolls per-member engine results into party-level statistics,
// rankings, vote-pattern classification, and temporal trends.
type Builder struct {
	cfg config.AnalysisConfig
}

// NewBuilder creates a builder with the given thresholds.
func NewBuilder(cfg config.AnalysisConfig) *Builder {
	return &Builder{cfg: cfg}
}

// Metric names used as ranking keys.
const (
	MetricUnity       = "party_unity_score"
	MetricMaverick    = "maverick_score"
	MetricBipartisan  = "bipartisan_score"
	MetricSwing       = "swing_voter_score"
	MetricIdeological = "ideological_consistency"
)

// rankingMetrics maps each ranking key to its score extractor, in the
// order rankings are built.
var rankingMetrics = []struct {
	name  string
	score func(*models.MemberProfile) float64
}{
	{MetricUnity, func(p *models.MemberProfile) float64 { return p.PartyUnityScore }},
	{MetricMaverick, func(p *models.MemberProfile) float64 { return p.MaverickScore }},
	{MetricBipartisan, func(p *models.MemberProfile) float64 { return p.BipartisanScore }},
	{MetricSwing, func(p *models.MemberProfile) float64 { return p.SwingVoterScore }},
	{MetricIdeological, func(p *models.MemberProfile) float64 { return p.IdeologicalConsistency }},
}

// RatingCounts tallies qualifying members per consistency rating.
func (b *Builder) RatingCounts(qualifying []*models.MemberProfile) map[models.ConsistencyRating]int {
	counts := make(map[models.ConsistencyRating]int)
	for _, p := range qualifying {
		counts[p.ConsistencyRating]++
	}
	return counts
}

// PartyStats computes mean, median, and population standard deviation of
// unity scores per party. Stdev is 0.0 below two members; an empty party
// never appears.
func (b *Builder) PartyStats(qualifying []*models.MemberProfile) []models.PartyStats {
	byParty := make(map[models.Party][]float64)
	for _, p := range qualifying {
		byParty[p.Party] = append(byParty[p.Party], p.PartyUnityScore)
	}

	stats := make([]models.PartyStats, 0, len(byParty))
	for party, scores := range byParty {
		stats = append(stats, models.PartyStats{
			Party:   party,
			Members: len(scores),
			Mean:    mean(scores),
			Median:  median(scores),
			Stdev:   populationStdev(scores),
		})
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Party < stats[j].Party })
	return stats
}

// Rankings builds the top-N list for every metric. The sort is stable so
// ties keep input order; no secondary key is defined.
func (b *Builder) Rankings(qualifying []*models.MemberProfile) map[string][]models.RankedMember {
	rankings := make(map[string][]models.RankedMember, len(rankingMetrics))
	for _, metric := range rankingMetrics {
		rankings[metric.name] = b.topN(qualifying, metric.score, b.cfg.RankingSize)
	}
	return rankings
}

// Mavericks is the narrower top list served by the trends endpoint.
func (b *Builder) Mavericks(qualifying []*models.MemberProfile) []models.MaverickEntry {
	ranked := b.topN(qualifying, func(p *models.MemberProfile) float64 { return p.MaverickScore }, b.cfg.MaverickLimit)

	byID := make(map[string]*models.MemberProfile, len(qualifying))
	for _, p := range qualifying {
		byID[p.MemberID] = p
	}

	entries := make([]models.MaverickEntry, 0, len(ranked))
	for _, r := range ranked {
		p := byID[r.MemberID]
		entries = append(entries, models.MaverickEntry{
			MemberID:          p.MemberID,
			Name:              p.Name,
			Party:             p.Party,
			UnityScore:        p.PartyUnityScore,
			VotesAgainstParty: p.DefectionCount,
		})
	}
	return entries
}

func (b *Builder) topN(qualifying []*models.MemberProfile, score func(*models.MemberProfile) float64, n int) []models.RankedMember {
	ranked := make([]models.RankedMember, 0, len(qualifying))
	for _, p := range qualifying {
		ranked = append(ranked, models.RankedMember{
			MemberID: p.MemberID,
			Name:     p.Name,
			Party:    p.Party,
			Score:    score(p),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// Insights renders the free-text report lines from the computed statistics.
func (b *Builder) Insights(stats []models.PartyStats, patterns models.VotePatternSummary) []string {
	var insights []string

	var dem, rep *models.PartyStats
	for i := range stats {
		switch stats[i].Party {
		case models.PartyDemocratic:
			dem = &stats[i]
		case models.PartyRepublican:
			rep = &stats[i]
		}
	}
	if dem != nil && rep != nil && dem.Mean != rep.Mean {
		higher, lower := dem, rep
		if rep.Mean > dem.Mean {
			higher, lower = rep, dem
		}
		insights = append(insights, fmt.Sprintf("%s members show higher average unity (%.1f%% vs %.1f%%)",
			higher.Party, higher.Mean*100, lower.Mean*100))
	}

	if patterns.TotalVotes > 0 {
		insights = append(insights, fmt.Sprintf("%.1f%% of %d roll calls were party-line votes",
			patterns.PartyLinePercentage*100, patterns.TotalVotes))
	}
	return insights
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

// populationStdev is 0.0 below two samples, never NaN.
func populationStdev(values []float64) float64 {
	if len(values) < 2 {
		return 0.0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
