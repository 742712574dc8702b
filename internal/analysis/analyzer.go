package analysis

import (
	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
)

// Analyzer is the voting-consistency computation engine. It runs as one
// sequential pass over in-memory data: there is exactly one writer and no
// concurrent readers during computation, so no locking.
type Analyzer struct {
	cfg       config.AnalysisConfig
	contested ContestedClassifier
	issues    IssueClassifier
	logger    *logrus.Logger
}

// Option overrides an analyzer default.
type Option func(*Analyzer)

// WithContestedClassifier swaps the contested-vote heuristic.
func WithContestedClassifier(c ContestedClassifier) Option {
	return func(a *Analyzer) { a.contested = c }
}

// WithIssueClassifier swaps the issue-bucket heuristic.
func WithIssueClassifier(c IssueClassifier) Option {
	return func(a *Analyzer) { a.issues = c }
}

// NewAnalyzer creates an analyzer with the stock keyword classifiers.
func NewAnalyzer(cfg config.AnalysisConfig, logger *logrus.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:       cfg,
		contested: DefaultContested(),
		issues:    DefaultIssues(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Result is the engine's per-run output.
type Result struct {
	// Profiles is every loaded member, including non-qualifying ones.
	Profiles map[string]*models.MemberProfile
	// Qualifying is the subset meeting the minimum-votes threshold, in
	// deterministic member-id order.
	Qualifying []*models.MemberProfile
	// Excluded counts members below the threshold (diagnostic, not error).
	Excluded int
	// DefectionTally maps bill id to total cross-party votes across all
	// members, the input to the structural-significance filter.
	DefectionTally map[string]int
	// TopPairs is the strongest cross-party co-sponsorship pairings,
	// descending by count, one entry per unordered pair.
	TopPairs []models.CollaborationPair
}

// Run executes the full engine: unity scoring and classification, major
// defection detection, bipartisan collaboration, and advanced metrics.
// The phases run in order because later phases read earlier results.
func (a *Analyzer) Run(
	profiles map[string]*models.MemberProfile,
	votes map[string][]models.VoteRecord,
	bills []models.BillSponsors,
) *Result {
	result := &Result{Profiles: profiles}

	a.scoreUnity(result, votes)
	a.detectMajorDefections(result, votes)
	a.analyzeCollaboration(result, votes, bills)
	a.computeAdvancedMetrics(result, votes)

	a.logger.WithFields(logrus.Fields{
		"members":    len(profiles),
		"qualifying": len(result.Qualifying),
		"excluded":   result.Excluded,
	}).Info("consistency analysis complete")
	return result
}
