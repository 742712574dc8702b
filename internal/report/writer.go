package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

// Collection layout for analysis output. The API layer reads these
// directly, so the names are part of the serving contract.
const (
	ProfilesCollection = "analytics/profiles"
	ReportsCollection  = "analytics/reports"
	TrendsCollection   = "analytics/trends"
)

// ProfileCollection returns the per-congress profile collection name.
func ProfileCollection(congress int) string {
	return fmt.Sprintf("%s/%d", ProfilesCollection, congress)
}

// ReportID returns the deterministic record id for a congress's report,
// so re-runs replace the previous snapshot instead of accumulating.
func ReportID(congress int) string {
	return fmt.Sprintf("unity-%d", congress)
}

// TrendsID returns the record id for a congress's trends artifact.
func TrendsID(congress int) string {
	return fmt.Sprintf("trends-%d", congress)
}

// Writer serializes analysis output back to the record store.
type Writer struct {
	store  storage.Store
	logger *logrus.Logger
	// now is injectable for tests; scores never depend on it, only
	// report metadata does.
	now func() time.Time
}

// NewWriter creates a report writer.
func NewWriter(store storage.Store, logger *logrus.Logger) *Writer {
	return &Writer{store: store, logger: logger, now: time.Now}
}

// NewMetadata stamps run identity onto a report. This is the only place
// wall-clock time and randomness enter the output.
func (w *Writer) NewMetadata(congress, minVotes, memberCount, excluded int, synthetic bool) models.ReportMetadata {
	return models.ReportMetadata{
		RunID:        uuid.NewString(),
		AnalysisDate: w.now().UTC().Format(time.RFC3339),
		Congress:     congress,
		MinVotes:     minVotes,
		Synthetic:    synthetic,
		MemberCount:  memberCount,
		Excluded:     excluded,
	}
}

// WriteProfiles persists one record per qualifying member.
func (w *Writer) WriteProfiles(ctx context.Context, congress int, qualifying []*models.MemberProfile) error {
	collection := ProfileCollection(congress)
	for _, p := range qualifying {
		if err := w.store.Write(ctx, collection, p.MemberID, p); err != nil {
			return fmt.Errorf("write profile %s: %w", p.MemberID, err)
		}
	}
	w.logger.WithFields(logrus.Fields{
		"congress": congress,
		"profiles": len(qualifying),
	}).Info("member profiles written")
	return nil
}

// WriteAggregate persists the full report snapshot for one run.
func (w *Writer) WriteAggregate(ctx context.Context, report *models.AggregateReport) error {
	congress := report.Metadata.Congress
	if err := w.store.Write(ctx, ReportsCollection, ReportID(congress), report); err != nil {
		return fmt.Errorf("write aggregate report: %w", err)
	}
	w.logger.WithFields(logrus.Fields{
		"congress": congress,
		"run_id":   report.Metadata.RunID,
	}).Info("aggregate report written")
	return nil
}

// WriteTrends persists the API-shaped trends artifact.
func (w *Writer) WriteTrends(ctx context.Context, artifact *models.TrendsArtifact) error {
	if err := w.store.Write(ctx, TrendsCollection, TrendsID(artifact.Congress), artifact); err != nil {
		return fmt.Errorf("write trends artifact: %w", err)
	}
	return nil
}
