package models

// Report-side shapes: the aggregate snapshot written once per analysis run
// and the narrower trends artifact consumed by the API layer.

// ReportMetadata describes one analysis run. Timestamps and run ids live
// here and nowhere else, so scores stay byte-identical across re-runs on
// the same input.
type ReportMetadata struct {
	RunID        string `json:"run_id"`
	AnalysisDate string `json:"analysis_date"` // RFC 3339
	Congress     int    `json:"congress"`
	MinVotes     int    `json:"min_votes_threshold"`
	Synthetic    bool   `json:"synthetic_data"`
	MemberCount  int    `json:"member_count"`
	Excluded     int    `json:"excluded_members"`
}

// PartyStats summarizes unity scores across one party's qualifying members.
type PartyStats struct {
	Party   Party   `json:"party"`
	Members int     `json:"members"`
	Mean    float64 `json:"mean_unity"`
	Median  float64 `json:"median_unity"`
	Stdev   float64 `json:"stdev_unity"` // population stdev, 0.0 below 2 members
}

// RankedMember is one row in a metric ranking.
type RankedMember struct {
	MemberID string  `json:"member_id"`
	Name     string  `json:"name"`
	Party    Party   `json:"party"`
	Score    float64 `json:"score"`
}

// VotePatternSummary classifies roll calls as party-line or bipartisan.
type VotePatternSummary struct {
	TotalVotes          int     `json:"total_votes"`
	PartyLineVotes      int     `json:"party_line_votes"`
	BipartisanVotes     int     `json:"bipartisan_votes"`
	PartyLinePercentage float64 `json:"party_line_percentage"`
}

// DivisiveVote is one roll call that split a party (or the chamber).
type DivisiveVote struct {
	VoteID       string           `json:"vote_id"`
	BillID       string           `json:"bill_id"`
	Description  string           `json:"description"`
	Date         string           `json:"date"`
	Divisiveness float64          `json:"divisiveness"`
	PartySplit   map[Party]string `json:"party_split"` // party -> "yea-nay"
}

// TrendPoint is one month of aggregate party unity.
type TrendPoint struct {
	Month      string  `json:"month"` // YYYY-MM
	PartyUnity float64 `json:"party_unity"`
	VotesCount int     `json:"votes_count"`
}

// CollaborationPair is one cross-party co-sponsorship pairing.
type CollaborationPair struct {
	MemberA string `json:"member_a"`
	MemberB string `json:"member_b"`
	NameA   string `json:"name_a"`
	NameB   string `json:"name_b"`
	Count   int    `json:"count"`
}

// BipartisanSummary rolls up collaboration signals across the chamber.
type BipartisanSummary struct {
	AverageScore   float64             `json:"average_bipartisan_score"`
	TopPairs       []CollaborationPair `json:"top_cross_party_pairs,omitempty"`
	SponsoredPairs int                 `json:"cross_party_sponsorships"`
}

// AggregateReport is the full snapshot for one analysis run.
type AggregateReport struct {
	Metadata      ReportMetadata              `json:"metadata"`
	RatingCounts  map[ConsistencyRating]int   `json:"rating_counts"`
	PartyUnity    []PartyStats                `json:"party_unity"`
	Rankings      map[string][]RankedMember   `json:"rankings"`
	VotePatterns  VotePatternSummary          `json:"vote_patterns"`
	DivisiveVotes []DivisiveVote              `json:"divisive_votes,omitempty"`
	Trends        []TrendPoint                `json:"trends,omitempty"`
	Bipartisan    BipartisanSummary           `json:"bipartisan"`
	Insights      []string                    `json:"insights,omitempty"`
}

// MaverickEntry is one row of the maverick list served by the API.
type MaverickEntry struct {
	MemberID          string  `json:"member_id"`
	Name              string  `json:"name"`
	Party             Party   `json:"party"`
	UnityScore        float64 `json:"unity_score"`
	VotesAgainstParty int     `json:"votes_against_party"`
}

// TrendsArtifact is the stable-shaped subset of the aggregate report that
// the API layer reads. Kept separate so API shape changes do not force a
// re-derivation of the full report.
type TrendsArtifact struct {
	Congress      int                `json:"congress"`
	Synthetic     bool               `json:"synthetic_data"`
	PartyUnity    map[Party]float64  `json:"party_unity"`
	VotePatterns  VotePatternSummary `json:"vote_patterns"`
	Mavericks     []MaverickEntry    `json:"mavericks"`
	DivisiveVotes []DivisiveVote     `json:"divisive_votes"`
	Trends        []TrendPoint       `json:"trends"`
}
