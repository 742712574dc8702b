package loader

import (
	"fmt"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// Deterministic synthetic sample used when no real vote source exists.
// The shape exercises every downstream computation: a loyalist, a maverick,
// a shared defection roll call, and titles that hit the contested and issue
// keyword sets. It is always flagged via VoteBatch.Synthetic and never
// merged with real data.

var samplePositions = [][4]string{
	// member_id, party, state, name
	{"SYN-D001", "D", "CA", "Ada Alder"},
	{"SYN-D002", "D", "NY", "Ben Birch"},
	{"SYN-D003", "D", "WA", "Cora Cedar"},
	{"SYN-R001", "R", "TX", "Dan Dogwood"},
	{"SYN-R002", "R", "FL", "Eve Elm"},
	{"SYN-R003", "R", "OH", "Fay Fir"},
}

// SampleMembers returns member listings matching the synthetic roll calls.
func SampleMembers(congress int) []models.MemberRecord {
	members := make([]models.MemberRecord, 0, len(samplePositions))
	for _, p := range samplePositions {
		members = append(members, models.MemberRecord{
			MemberID: p[0],
			Name:     p[3],
			Party:    p[1],
			State:    p[2],
			Terms:    []models.Term{{Congress: congress, Chamber: models.ChamberSenate}},
		})
	}
	return members
}

// SampleRollCalls returns the synthetic roll-call set for a congress.
func SampleRollCalls(congress int) []models.RollCall {
	votes := func(positions ...string) []models.MemberVote {
		out := make([]models.MemberVote, len(positions))
		for i, v := range positions {
			p := samplePositions[i]
			out[i] = models.MemberVote{MemberID: p[0], Party: p[1], State: p[2], Vote: v}
		}
		return out
	}

	id := func(n int) string { return fmt.Sprintf("syn-%d-%03d", congress, n) }

	return []models.RollCall{
		{
			VoteID: id(1), Congress: congress, Chamber: models.ChamberSenate,
			BillID: "syn-hr-101", BillTitle: "Healthcare Reform Act",
			VoteDate: "2025-01-15", VoteType: "passage",
			Positions: votes("Yea", "Yea", "Yea", "Nay", "Nay", "Nay"),
		},
		{
			VoteID: id(2), Congress: congress, Chamber: models.ChamberSenate,
			BillID: "syn-hr-102", BillTitle: "Tax Relief for Families Act",
			VoteDate: "2025-02-10", VoteType: "passage",
			// Three defectors on one roll call: a structurally significant event.
			Positions: votes("Nay", "Nay", "Yea", "Yea", "Yea", "Nay"),
		},
		{
			VoteID: id(3), Congress: congress, Chamber: models.ChamberSenate,
			BillID: "syn-s-201", BillTitle: "Climate Resilience Act",
			VoteDate: "2025-03-05", VoteType: "cloture",
			Positions: votes("Yea", "Yea", "Yea", "Nay", "Nay", "Yea"),
		},
		{
			VoteID: id(4), Congress: congress, Chamber: models.ChamberSenate,
			BillID: "", BillTitle: "Motion to Proceed",
			VoteDate: "2025-03-20", VoteType: "procedural",
			Positions: votes("Yea", "Yea", "Present", "Nay", "Nay", "Nay"),
		},
		{
			VoteID: id(5), Congress: congress, Chamber: models.ChamberSenate,
			BillID: "syn-hr-103", BillTitle: "National Defense Authorization",
			VoteDate: "2025-04-12", VoteType: "passage",
			Positions: votes("Yea", "Yea", "Yea", "Yea", "Yea", "Yea"),
		},
	}
}

// SampleSponsors returns sponsorship records matching the synthetic bills.
func SampleSponsors() []models.BillSponsors {
	ref := func(i int) models.SponsorRef {
		p := samplePositions[i]
		return models.SponsorRef{MemberID: p[0], Name: p[3], Party: p[1]}
	}
	return []models.BillSponsors{
		{
			BillID: "syn-hr-101", Title: "Healthcare Reform Act",
			Sponsors:   []models.SponsorRef{ref(0)},
			Cosponsors: []models.SponsorRef{ref(1), ref(5)},
		},
		{
			BillID: "syn-hr-102", Title: "Tax Relief for Families Act",
			Sponsors:   []models.SponsorRef{ref(3)},
			Cosponsors: []models.SponsorRef{ref(2), ref(4)},
		},
		{
			BillID: "syn-s-201", Title: "Climate Resilience Act",
			Sponsors:   []models.SponsorRef{ref(2)},
			Cosponsors: []models.SponsorRef{ref(5)},
		},
	}
}
