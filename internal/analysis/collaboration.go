package analysis

import (
	"sort"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// pairKey is an ordered (member, partner) edge in the collaboration graph.
type pairKey struct {
	member  string
	partner string
}

// analyzeCollaboration combines two independent signals: cross-party
// co-sponsorship pairs and voting alongside the other party. Neither alone
// is sufficient, so both land on the profile.
func (a *Analyzer) analyzeCollaboration(
	result *Result,
	votes map[string][]models.VoteRecord,
	bills []models.BillSponsors,
) {
	pairs := a.sponsorshipPairs(result, bills)
	a.scoreVotingCollaboration(result, votes)
	a.rankCollaborators(result, pairs)
	result.TopPairs = topPairs(result, pairs, a.cfg.TopCollaborators)
}

// topPairs flattens the symmetric counter to one entry per unordered pair.
func topPairs(result *Result, pairs map[pairKey]int, limit int) []models.CollaborationPair {
	var out []models.CollaborationPair
	for key, count := range pairs {
		if key.member >= key.partner {
			continue // symmetric counter, keep one direction
		}
		a, b := result.Profiles[key.member], result.Profiles[key.partner]
		if a == nil || b == nil {
			continue
		}
		out = append(out, models.CollaborationPair{
			MemberA: a.MemberID,
			MemberB: b.MemberID,
			NameA:   a.Name,
			NameB:   b.Name,
			Count:   count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].MemberA != out[j].MemberA {
			return out[i].MemberA < out[j].MemberA
		}
		return out[i].MemberB < out[j].MemberB
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sponsorshipPairs counts cross-party sponsor/cosponsor pairs per bill.
// The counter is symmetric: each qualifying pair increments both ordered
// directions, and each member's cross_party_sponsors counter.
func (a *Analyzer) sponsorshipPairs(result *Result, bills []models.BillSponsors) map[pairKey]int {
	pairs := make(map[pairKey]int)
	for _, bill := range bills {
		sponsors := bill.AllSponsors()
		for i := 0; i < len(sponsors); i++ {
			for j := i + 1; j < len(sponsors); j++ {
				sa, sb := sponsors[i], sponsors[j]
				if sa.MemberID == sb.MemberID {
					continue
				}
				if models.ParseParty(sa.Party) == models.ParseParty(sb.Party) {
					continue
				}
				pairs[pairKey{sa.MemberID, sb.MemberID}]++
				pairs[pairKey{sb.MemberID, sa.MemberID}]++
				if p := result.Profiles[sa.MemberID]; p != nil {
					p.CrossPartySponsors++
				}
				if p := result.Profiles[sb.MemberID]; p != nil {
					p.CrossPartySponsors++
				}
			}
		}
	}
	return pairs
}

// scoreVotingCollaboration computes each member's bipartisan score: the
// fraction of their votes where at least one cross-party member voted
// identically on the same bill. Votes are indexed by bill and position
// first, which keeps the scan linear in total votes instead of the naive
// cubic members-by-votes-by-members form.
func (a *Analyzer) scoreVotingCollaboration(result *Result, votes map[string][]models.VoteRecord) {
	type slot struct {
		bill     string
		position models.VotePosition
	}
	// parties that cast each (bill, position)
	partiesAt := make(map[slot]map[models.Party]int)

	for memberID, history := range votes {
		profile := result.Profiles[memberID]
		if profile == nil {
			continue
		}
		for _, v := range history {
			s := slot{v.BillID, v.Position}
			if partiesAt[s] == nil {
				partiesAt[s] = make(map[models.Party]int)
			}
			partiesAt[s][profile.Party]++
		}
	}

	for _, profile := range result.Qualifying {
		collaborative := 0
		history := votes[profile.MemberID]
		for _, v := range history {
			for party, n := range partiesAt[slot{v.BillID, v.Position}] {
				if party != profile.Party && n > 0 {
					collaborative++
					break
				}
			}
		}
		profile.BipartisanScore = safeRatio(collaborative, len(history))
	}
}

// rankCollaborators derives each qualifying member's top cross-party
// partners from the symmetric pair counter, descending by count.
func (a *Analyzer) rankCollaborators(result *Result, pairs map[pairKey]int) {
	byMember := make(map[string][]models.Collaborator)
	for key, count := range pairs {
		partner := result.Profiles[key.partner]
		member := result.Profiles[key.member]
		if partner == nil || member == nil {
			continue
		}
		if partner.Party == member.Party {
			continue
		}
		byMember[key.member] = append(byMember[key.member], models.Collaborator{
			MemberID: partner.MemberID,
			Name:     partner.Name,
			Party:    partner.Party,
			Count:    count,
		})
	}

	for _, profile := range result.Qualifying {
		collaborators := byMember[profile.MemberID]
		// Secondary id sort keeps order deterministic across runs.
		sort.Slice(collaborators, func(i, j int) bool {
			if collaborators[i].Count != collaborators[j].Count {
				return collaborators[i].Count > collaborators[j].Count
			}
			return collaborators[i].MemberID < collaborators[j].MemberID
		})
		if len(collaborators) > a.cfg.TopCollaborators {
			collaborators = collaborators[:a.cfg.TopCollaborators]
		}
		profile.TopCollaborators = collaborators
	}
}
