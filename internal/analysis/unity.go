package analysis

import (
	"sort"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// scoreUnity computes each member's unity and maverick scores and assigns
// a consistency rating. Members below the minimum-votes threshold keep
// HasData=false and the Unknown rating: an exclusion, not an error.
func (a *Analyzer) scoreUnity(result *Result, votes map[string][]models.VoteRecord) {
	for memberID, profile := range result.Profiles {
		history := votes[memberID]
		if len(history) < a.cfg.MinVotes {
			result.Excluded++
			continue
		}

		partyLine := 0
		for _, v := range history {
			if !v.CrossParty {
				partyLine++
			}
		}

		profile.HasData = true
		profile.TotalVotes = len(history)
		profile.PartyLineVotes = partyLine
		profile.PartyUnityScore = safeRatio(partyLine, len(history))
		profile.MaverickScore = 1.0 - profile.PartyUnityScore
		profile.DefectionCount = len(history) - partyLine
		profile.ConsistencyRating = a.Classify(profile.PartyUnityScore)

		result.Qualifying = append(result.Qualifying, profile)
	}

	// Map iteration is randomized; keep run output deterministic.
	sort.Slice(result.Qualifying, func(i, j int) bool {
		return result.Qualifying[i].MemberID < result.Qualifying[j].MemberID
	})
}

// Classify maps a unity score to a consistency rating. The rules apply in
// priority order, first match wins, and the four bands are mutually
// exclusive and exhaustive over [0,1]. Boundary semantics: unity 0.95
// exactly is Loyalist, a maverick score of exactly the maverick threshold
// is Maverick, and 0.4 and 0.6 exactly are Swing Voter.
func (a *Analyzer) Classify(unityScore float64) models.ConsistencyRating {
	switch {
	case unityScore >= a.cfg.LoyalistThreshold:
		return models.RatingLoyalist
	case unityScore <= 1.0-a.cfg.MaverickThreshold:
		return models.RatingMaverick
	case unityScore >= a.cfg.SwingLow && unityScore <= a.cfg.SwingHigh:
		return models.RatingSwingVoter
	default:
		return models.RatingModerate
	}
}

// safeRatio divides, defaulting to 0.0 on an empty denominator. The
// threshold guard means a zero denominator cannot reach this in practice.
func safeRatio(numerator, denominator int) float64 {
	if denominator == 0 {
		return 0.0
	}
	return float64(numerator) / float64(denominator)
}
