package analysis

import (
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// computeAdvancedMetrics fills in the swing-voter score and the
// ideological (issue-area) consistency for qualifying members.
func (a *Analyzer) computeAdvancedMetrics(result *Result, votes map[string][]models.VoteRecord) {
	for _, profile := range result.Qualifying {
		history := votes[profile.MemberID]
		profile.SwingVoterScore = a.swingVoterScore(history)
		profile.IdeologicalConsistency = a.ideologicalConsistency(history)
	}
}

// swingVoterScore measures willingness to break ranks on contested votes:
// 1 minus the party-line rate restricted to contested roll calls. With no
// contested votes the score is undefined and stays 0.0.
func (a *Analyzer) swingVoterScore(history []models.VoteRecord) float64 {
	contested, partyLine := 0, 0
	for _, v := range history {
		if !a.contested.Contested(v.BillTitle) {
			continue
		}
		contested++
		if !v.CrossParty {
			partyLine++
		}
	}
	if contested == 0 {
		return 0.0
	}
	return 1.0 - safeRatio(partyLine, contested)
}

// ideologicalConsistency partitions a member's votes into issue buckets
// and averages the per-bucket party-line rates. Buckets with fewer than
// three votes are too small to mean anything and are excluded; with no
// qualifying bucket the value is 0.0.
func (a *Analyzer) ideologicalConsistency(history []models.VoteRecord) float64 {
	const minBucketVotes = 3

	type bucket struct{ total, partyLine int }
	buckets := make(map[string]*bucket)
	for _, v := range history {
		issue := a.issues.Issue(v.BillTitle)
		b := buckets[issue]
		if b == nil {
			b = &bucket{}
			buckets[issue] = b
		}
		b.total++
		if !v.CrossParty {
			b.partyLine++
		}
	}

	sum, qualifying := 0.0, 0
	for _, b := range buckets {
		if b.total < minBucketVotes {
			continue
		}
		sum += safeRatio(b.partyLine, b.total)
		qualifying++
	}
	if qualifying == 0 {
		return 0.0
	}
	return sum / float64(qualifying)
}
