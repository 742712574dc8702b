package aggregate

import (
	"fmt"
	"math"
	"sort"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// partyTally is one party's counted Yea/Nay breakdown within a roll call.
type partyTally struct {
	yea, nay int
}

func (t partyTally) total() int { return t.yea + t.nay }

// unity is the internal cohesion of the party on this roll call.
func (t partyTally) unity() float64 {
	if t.total() == 0 {
		return 0.0
	}
	return float64(max(t.yea, t.nay)) / float64(t.total())
}

// yeaShare is the fraction of counted votes cast Yea.
func (t partyTally) yeaShare() float64 {
	if t.total() == 0 {
		return 0.0
	}
	return float64(t.yea) / float64(t.total())
}

// minorityShare is the losing side's fraction of counted votes.
func (t partyTally) minorityShare() float64 {
	if t.total() == 0 {
		return 0.0
	}
	return float64(min(t.yea, t.nay)) / float64(t.total())
}

func (t partyTally) split() string { return fmt.Sprintf("%d-%d", t.yea, t.nay) }

// tallyParties counts Yea/Nay per party for one roll call.
func tallyParties(rc *models.RollCall) map[models.Party]partyTally {
	tallies := make(map[models.Party]partyTally)
	for _, pos := range rc.Positions {
		party := models.ParseParty(pos.Party)
		t := tallies[party]
		switch models.ParsePosition(pos.Vote) {
		case models.PositionYea:
			t.yea++
		case models.PositionNay:
			t.nay++
		}
		tallies[party] = t
	}
	return tallies
}

// VotePatterns classifies every roll call as party-line or bipartisan.
// A roll call is party-line only when both major parties are internally
// unified at or above the threshold AND their majority positions oppose
// each other; everything else counts as bipartisan. This is a stricter,
// roll-call-level definition than per-member unity.
func (b *Builder) VotePatterns(rollCalls []models.RollCall) models.VotePatternSummary {
	summary := models.VotePatternSummary{TotalVotes: len(rollCalls)}
	for i := range rollCalls {
		if b.isPartyLine(&rollCalls[i]) {
			summary.PartyLineVotes++
		} else {
			summary.BipartisanVotes++
		}
	}
	if summary.TotalVotes > 0 {
		summary.PartyLinePercentage = float64(summary.PartyLineVotes) / float64(summary.TotalVotes)
	}
	return summary
}

func (b *Builder) isPartyLine(rc *models.RollCall) bool {
	tallies := tallyParties(rc)
	dem, rep := tallies[models.PartyDemocratic], tallies[models.PartyRepublican]
	if dem.total() == 0 || rep.total() == 0 {
		return false
	}
	if dem.unity() < b.cfg.PartyLineUnity || rep.unity() < b.cfg.PartyLineUnity {
		return false
	}
	return (dem.yea > dem.nay) != (rep.yea > rep.nay)
}

// DivisiveVotes ranks roll calls by the magnitude of the R/D yea-share
// divergence. This is the canonical definition; the recency-ranked
// variant below serves the legacy reporting surface.
func (b *Builder) DivisiveVotes(rollCalls []models.RollCall) []models.DivisiveVote {
	var divisive []models.DivisiveVote
	for i := range rollCalls {
		rc := &rollCalls[i]
		tallies := tallyParties(rc)
		dem, rep := tallies[models.PartyDemocratic], tallies[models.PartyRepublican]
		if dem.total() == 0 || rep.total() == 0 {
			continue
		}
		divergence := math.Abs(rep.yeaShare() - dem.yeaShare())
		if divergence < b.cfg.DivergenceThreshold {
			continue
		}
		divisive = append(divisive, b.divisiveVote(rc, tallies, divergence))
	}

	sort.SliceStable(divisive, func(i, j int) bool {
		if divisive[i].Divisiveness != divisive[j].Divisiveness {
			return divisive[i].Divisiveness > divisive[j].Divisiveness
		}
		return divisive[i].Date > divisive[j].Date
	})
	return capDivisive(divisive, b.cfg.DivisiveLimit)
}

// DivisiveVotesByRecency is the fallback variant used when magnitude data
// is unavailable: a roll call qualifies when some party with enough votes
// cast splits internally beyond the minority-share threshold, ranked by
// recency.
func (b *Builder) DivisiveVotesByRecency(rollCalls []models.RollCall) []models.DivisiveVote {
	var divisive []models.DivisiveVote
	for i := range rollCalls {
		rc := &rollCalls[i]
		tallies := tallyParties(rc)

		qualifies := false
		maxShare := 0.0
		for _, t := range tallies {
			if t.total() < b.cfg.DivisivePartyMinimum {
				continue
			}
			if share := t.minorityShare(); share >= b.cfg.DivisiveShare {
				qualifies = true
				if share > maxShare {
					maxShare = share
				}
			}
		}
		if !qualifies {
			continue
		}
		divisive = append(divisive, b.divisiveVote(rc, tallies, maxShare))
	}

	sort.SliceStable(divisive, func(i, j int) bool { return divisive[i].Date > divisive[j].Date })
	return capDivisive(divisive, b.cfg.DivisiveLimit)
}

func (b *Builder) divisiveVote(rc *models.RollCall, tallies map[models.Party]partyTally, score float64) models.DivisiveVote {
	split := make(map[models.Party]string, len(tallies))
	for party, t := range tallies {
		if t.total() > 0 {
			split[party] = t.split()
		}
	}
	return models.DivisiveVote{
		VoteID:       rc.VoteID,
		BillID:       rc.EffectiveBillID(),
		Description:  rc.BillTitle,
		Date:         rc.VoteDate,
		Divisiveness: score,
		PartySplit:   split,
	}
}

func capDivisive(divisive []models.DivisiveVote, limit int) []models.DivisiveVote {
	if len(divisive) > limit {
		divisive = divisive[:limit]
	}
	return divisive
}

// Trends buckets roll calls by year-month and averages the per-party
// unity scores within each month, keeping the most recent buckets in
// chronological order.
func (b *Builder) Trends(rollCalls []models.RollCall) []models.TrendPoint {
	type bucket struct {
		unitySum   float64
		unityCount int
		votes      int
	}
	buckets := make(map[string]*bucket)

	for i := range rollCalls {
		rc := &rollCalls[i]
		if len(rc.VoteDate) < 7 {
			continue
		}
		month := rc.VoteDate[:7]
		bk := buckets[month]
		if bk == nil {
			bk = &bucket{}
			buckets[month] = bk
		}
		bk.votes++
		for _, t := range tallyParties(rc) {
			if t.total() > 0 {
				bk.unitySum += t.unity()
				bk.unityCount++
			}
		}
	}

	months := make([]string, 0, len(buckets))
	for month := range buckets {
		months = append(months, month)
	}
	sort.Strings(months)
	if len(months) > b.cfg.TrendMonths {
		months = months[len(months)-b.cfg.TrendMonths:]
	}

	points := make([]models.TrendPoint, 0, len(months))
	for _, month := range months {
		bk := buckets[month]
		unity := 0.0
		if bk.unityCount > 0 {
			unity = bk.unitySum / float64(bk.unityCount)
		}
		points = append(points, models.TrendPoint{
			Month:      month,
			PartyUnity: unity,
			VotesCount: bk.votes,
		})
	}
	return points
}
