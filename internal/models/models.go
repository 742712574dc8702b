package models

import "strings"

// VotePosition is a member's recorded position on one roll call.
type VotePosition string

const (
	PositionYea       VotePosition = "Yea"
	PositionNay       VotePosition = "Nay"
	PositionPresent   VotePosition = "Present"
	PositionNotVoting VotePosition = "Not Voting"
)

// ParsePosition normalizes the position strings that appear in source data
// ("Yes", "Aye", "No", "Not Voting", ...) into the canonical enum.
func ParsePosition(s string) VotePosition {
	switch s {
	case "Yea", "Yes", "Aye":
		return PositionYea
	case "Nay", "No":
		return PositionNay
	case "Present":
		return PositionPresent
	default:
		return PositionNotVoting
	}
}

// Counted reports whether the position counts toward unity denominators.
// Abstentions and absences do not.
func (p VotePosition) Counted() bool {
	return p == PositionYea || p == PositionNay
}

// Party is a political party affiliation.
type Party string

const (
	PartyDemocratic  Party = "Democratic"
	PartyRepublican  Party = "Republican"
	PartyIndependent Party = "Independent"
	PartyUnknown     Party = "Unknown"
)

// ParseParty normalizes one-letter codes and common long forms.
func ParseParty(s string) Party {
	switch s {
	case "D", "Democrat", "Democratic":
		return PartyDemocratic
	case "R", "Republican":
		return PartyRepublican
	case "I", "ID", "Independent":
		return PartyIndependent
	case "":
		return PartyUnknown
	default:
		return Party(s)
	}
}

// Chamber identifies the legislative chamber.
type Chamber string

const (
	ChamberHouse  Chamber = "house"
	ChamberSenate Chamber = "senate"
)

// ParseChamber normalizes upstream chamber labels. Unrecognized labels
// pass through lowercased.
func ParseChamber(s string) Chamber {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "house", "house of representatives":
		return ChamberHouse
	case "senate":
		return ChamberSenate
	default:
		return Chamber(strings.ToLower(strings.TrimSpace(s)))
	}
}

// ConsistencyRating classifies a member's party-unity behavior.
type ConsistencyRating string

const (
	RatingLoyalist   ConsistencyRating = "Loyalist"
	RatingMaverick   ConsistencyRating = "Maverick"
	RatingSwingVoter ConsistencyRating = "Swing Voter"
	RatingModerate   ConsistencyRating = "Moderate"
	RatingUnknown    ConsistencyRating = "Unknown"
)

// VoteRecord is one member's position on one roll call, annotated at load
// time with the member's party majority position on that same roll call.
// Immutable once created; it belongs to exactly one member's history.
type VoteRecord struct {
	BillID        string       `json:"bill_id"`
	VoteDate      string       `json:"vote_date"` // YYYY-MM-DD
	Position      VotePosition `json:"vote_position"`
	BillTitle     string       `json:"bill_title"`
	VoteType      string       `json:"vote_type"`
	PartyMajority VotePosition `json:"party_majority_position"`
	CrossParty    bool         `json:"cross_party_vote"`
}

// Defection is a cross-party vote that cleared the structural-significance
// filter (at least 3 members defected on the same roll call).
type Defection struct {
	BillID       string `json:"bill_id"`
	BillTitle    string `json:"bill_title"`
	VoteDate     string `json:"vote_date"`
	Significance string `json:"significance"` // "High" or "Medium"
}

// Collaborator is a cross-party partner ranked by co-sponsorship count.
type Collaborator struct {
	MemberID string `json:"member_id"`
	Name     string `json:"name"`
	Party    Party  `json:"party"`
	Count    int    `json:"collaboration_count"`
}

// MemberProfile is the per-member accumulator populated by successive
// analysis phases. It is written out once per run and not mutated after.
type MemberProfile struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Party    Party   `json:"party"`
	State    string  `json:"state"`
	Chamber  Chamber `json:"chamber"`
	District string  `json:"district,omitempty"`

	HasData         bool    `json:"has_data"`
	TotalVotes      int     `json:"total_votes"`
	PartyLineVotes  int     `json:"party_line_votes"`
	PartyUnityScore float64 `json:"party_unity_score"`
	MaverickScore   float64 `json:"maverick_score"`
	DefectionCount  int     `json:"defection_count"`

	MajorDefections   []Defection `json:"major_defections,omitempty"`
	SignificantBreaks []string    `json:"significant_breaks,omitempty"`

	BipartisanScore    float64        `json:"bipartisan_score"`
	TopCollaborators   []Collaborator `json:"top_collaborators,omitempty"`
	CrossPartySponsors int            `json:"cross_party_sponsors"`

	ConsistencyRating ConsistencyRating `json:"consistency_rating"`

	SwingVoterScore        float64 `json:"swing_voter_score"`
	IdeologicalConsistency float64 `json:"ideological_consistency"`
}
