package analysis

import (
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// detectMajorDefections applies the structural-significance filter: an
// individual vote against one's party is common noise, but a roll call
// that several members defected on at once is a coalition event worth
// surfacing.
//
// Pass 1 tallies cross-party votes per bill across all members. Pass 2
// keeps, for each qualifying member, only their defections on bills that
// cleared the threshold.
func (a *Analyzer) detectMajorDefections(result *Result, votes map[string][]models.VoteRecord) {
	tally := make(map[string]int)
	for _, history := range votes {
		for _, v := range history {
			if v.CrossParty {
				tally[v.BillID]++
			}
		}
	}
	result.DefectionTally = tally

	for _, profile := range result.Qualifying {
		seen := make(map[string]bool)
		for _, v := range votes[profile.MemberID] {
			if !v.CrossParty {
				continue
			}
			count := tally[v.BillID]
			if count < a.cfg.SignificantDefections {
				continue
			}
			significance := "Medium"
			if count >= a.cfg.HighDefections {
				significance = "High"
			}
			profile.MajorDefections = append(profile.MajorDefections, models.Defection{
				BillID:       v.BillID,
				BillTitle:    v.BillTitle,
				VoteDate:     v.VoteDate,
				Significance: significance,
			})
			if !seen[v.BillID] {
				seen[v.BillID] = true
				profile.SignificantBreaks = append(profile.SignificantBreaks, v.BillID)
			}
		}
	}
}
