package models

// Source-side shapes: the normalized JSON the ingestion layer writes into
// the data lake and the loaders read back. Field names match the supplier
// contract, not any particular upstream API.

// Term is one period of service for a member.
type Term struct {
	Congress int     `json:"congress"`
	Chamber  Chamber `json:"chamber"`
	District string  `json:"district,omitempty"`
}

// MemberRecord is one member listing entry for a congress.
type MemberRecord struct {
	MemberID string `json:"member_id"` // Bioguide-style id
	Name     string `json:"name"`
	Party    string `json:"party"`
	State    string `json:"state"`
	Terms    []Term `json:"terms"`
}

// TermFor returns the member's term for the given congress, if any.
func (m *MemberRecord) TermFor(congress int) (Term, bool) {
	for _, t := range m.Terms {
		if t.Congress == congress {
			return t, true
		}
	}
	return Term{}, false
}

// MemberVote is one member's entry inside a roll call record.
type MemberVote struct {
	MemberID string `json:"member_id"`
	Party    string `json:"party"`
	Vote     string `json:"vote"`
	State    string `json:"state"`
}

// RollCall is one recorded vote event in a chamber.
type RollCall struct {
	VoteID    string       `json:"vote_id"`
	Congress  int          `json:"congress"`
	Chamber   Chamber      `json:"chamber"`
	BillID    string       `json:"bill_id,omitempty"` // empty when no bill is linked
	BillTitle string       `json:"bill_title"`
	VoteDate  string       `json:"vote_date"` // YYYY-MM-DD
	VoteType  string       `json:"vote_type"`
	Positions []MemberVote `json:"positions"`
}

// EffectiveBillID returns the linked bill id, or the roll-call id as a
// synthetic identifier when no bill is linked.
func (rc *RollCall) EffectiveBillID() string {
	if rc.BillID != "" {
		return rc.BillID
	}
	return rc.VoteID
}

// SponsorRef identifies one sponsor or cosponsor of a bill.
type SponsorRef struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Party    string `json:"party"`
}

// BillSponsors is the sponsorship record for one bill.
type BillSponsors struct {
	BillID     string       `json:"bill_id"`
	Title      string       `json:"title"`
	Sponsors   []SponsorRef `json:"sponsors"`
	Cosponsors []SponsorRef `json:"cosponsors"`
}

// AllSponsors returns sponsors and cosponsors as one list.
func (b *BillSponsors) AllSponsors() []SponsorRef {
	out := make([]SponsorRef, 0, len(b.Sponsors)+len(b.Cosponsors))
	out = append(out, b.Sponsors...)
	out = append(out, b.Cosponsors...)
	return out
}
