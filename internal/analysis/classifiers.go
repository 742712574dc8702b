package analysis

import "strings"

// The contested and issue classifiers are keyword heuristics standing in
// for ground truth (real vote margins, committee-assigned subject tags)
// that the upstream data does not carry. They sit behind interfaces so a
// better data source can replace them without touching the scoring engine.

// ContestedClassifier decides whether a roll call counts as contested for
// the swing-voter score.
type ContestedClassifier interface {
	Contested(billTitle string) bool
}

// IssueClassifier assigns a bill to one issue bucket.
type IssueClassifier interface {
	Issue(billTitle string) string
}

// KeywordContested flags titles containing any of a fixed keyword set.
type KeywordContested struct {
	Keywords []string
}

// DefaultContested returns the stock contested-keyword classifier.
func DefaultContested() *KeywordContested {
	return &KeywordContested{
		Keywords: []string{"reform", "tax", "healthcare", "climate", "immigration"},
	}
}

func (c *KeywordContested) Contested(billTitle string) bool {
	title := strings.ToLower(billTitle)
	for _, kw := range c.Keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// IssueBucket is one ordered keyword-to-issue mapping entry.
type IssueBucket struct {
	Name     string
	Keywords []string
}

// KeywordIssues buckets titles by the first matching entry, in order.
type KeywordIssues struct {
	Buckets []IssueBucket
	// Fallback is the bucket for titles matching nothing.
	Fallback string
}

// DefaultIssues returns the stock issue classifier. Order matters: the
// first matching bucket wins.
func DefaultIssues() *KeywordIssues {
	return &KeywordIssues{
		Buckets: []IssueBucket{
			{Name: "healthcare", Keywords: []string{"health", "medicare", "medicaid", "drug"}},
			{Name: "economy", Keywords: []string{"tax", "budget", "economy", "jobs", "trade"}},
			{Name: "environment", Keywords: []string{"climate", "energy", "environment", "water"}},
			{Name: "defense", Keywords: []string{"defense", "military", "veterans", "security"}},
			{Name: "social", Keywords: []string{"education", "housing", "immigration", "civil"}},
		},
		Fallback: "other",
	}
}

func (c *KeywordIssues) Issue(billTitle string) string {
	title := strings.ToLower(billTitle)
	for _, bucket := range c.Buckets {
		for _, kw := range bucket.Keywords {
			if strings.Contains(title, kw) {
				return bucket.Name
			}
		}
	}
	return c.Fallback
}
