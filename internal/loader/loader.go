package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/config"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

// RecordError is one malformed source record, kept so a batch can report
// what it skipped instead of silently dropping it.
type RecordError struct {
	Collection string `json:"collection"`
	Index      int    `json:"index"`
	Err        error  `json:"-"`
	Message    string `json:"message"`
}

func (e RecordError) Error() string {
	return fmt.Sprintf("%s[%d]: %v", e.Collection, e.Index, e.Err)
}

// Loader reads the normalized data lake into the in-memory analysis model.
type Loader struct {
	store    storage.Store
	congress int
	tieBreak models.VotePosition
	logger   *logrus.Logger
}

// New creates a loader for one congress.
func New(store storage.Store, cfg *config.Config, logger *logrus.Logger) *Loader {
	return &Loader{
		store:    store,
		congress: cfg.Congress,
		tieBreak: models.VotePosition(cfg.Analysis.TieBreak),
		logger:   logger,
	}
}

// MemberBatch is the result of loading member listings.
type MemberBatch struct {
	Profiles map[string]*models.MemberProfile
	Errors   []RecordError
}

// VoteBatch is the result of loading roll-call votes.
type VoteBatch struct {
	// Votes is each member's qualifying vote history.
	Votes map[string][]models.VoteRecord
	// RollCalls keeps the roll-call level records for aggregate analysis.
	RollCalls []models.RollCall
	// Synthetic marks the deterministic sample fallback. Synthetic data is
	// never merged with real data.
	Synthetic bool
	Errors    []RecordError
}

// SponsorBatch is the result of loading bill sponsorship records.
type SponsorBatch struct {
	Bills  []models.BillSponsors
	Errors []RecordError
}

// LoadMembers reads member listings and builds profile skeletons. Members
// with no term for the target congress are skipped. A malformed record is
// collected, not fatal.
func (l *Loader) LoadMembers(ctx context.Context) (*MemberBatch, error) {
	collection := fmt.Sprintf("members/%d", l.congress)
	records, err := l.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load members: %w", err)
	}

	batch := &MemberBatch{Profiles: make(map[string]*models.MemberProfile)}
	for i, raw := range records {
		var rec models.MemberRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			batch.Errors = append(batch.Errors, recordError(collection, i, err))
			continue
		}
		if rec.MemberID == "" {
			batch.Errors = append(batch.Errors, recordError(collection, i, fmt.Errorf("missing member_id")))
			continue
		}
		term, ok := rec.TermFor(l.congress)
		if !ok {
			continue // not serving in the target congress
		}
		batch.Profiles[rec.MemberID] = &models.MemberProfile{
			MemberID:          rec.MemberID,
			Name:              rec.Name,
			Party:             models.ParseParty(rec.Party),
			State:             rec.State,
			Chamber:           term.Chamber,
			District:          term.District,
			ConsistencyRating: models.RatingUnknown,
		}
	}

	l.logger.WithFields(logrus.Fields{
		"congress": l.congress,
		"members":  len(batch.Profiles),
		"skipped":  len(batch.Errors),
	}).Info("member listings loaded")
	return batch, nil
}

// LoadVotes reads roll-call records and builds each member's vote history.
// Per roll call it first tallies Yea/Nay per party, then derives each
// member's party-majority position and cross-party flag. Entries that are
// not Yea or Nay are skipped: abstentions and absences do not count toward
// unity denominators.
//
// When the collection is empty a deterministic synthetic sample is
// substituted and flagged, so downstream computation still has input.
func (l *Loader) LoadVotes(ctx context.Context) (*VoteBatch, error) {
	collection := fmt.Sprintf("votes/%d", l.congress)
	records, err := l.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load votes: %w", err)
	}

	batch := &VoteBatch{Votes: make(map[string][]models.VoteRecord)}
	for i, raw := range records {
		var rc models.RollCall
		if err := json.Unmarshal(raw, &rc); err != nil {
			batch.Errors = append(batch.Errors, recordError(collection, i, err))
			continue
		}
		if rc.VoteID == "" || rc.VoteDate == "" {
			batch.Errors = append(batch.Errors, recordError(collection, i, fmt.Errorf("missing vote_id or vote_date")))
			continue
		}
		batch.RollCalls = append(batch.RollCalls, rc)
		l.appendRollCall(batch, &rc)
	}

	if len(batch.RollCalls) == 0 && len(batch.Errors) == 0 {
		l.logger.WithField("congress", l.congress).
			Warn("no vote source found, substituting synthetic sample data")
		batch.Synthetic = true
		for _, rc := range SampleRollCalls(l.congress) {
			rc := rc
			batch.RollCalls = append(batch.RollCalls, rc)
			l.appendRollCall(batch, &rc)
		}
	}

	l.logger.WithFields(logrus.Fields{
		"congress":   l.congress,
		"roll_calls": len(batch.RollCalls),
		"members":    len(batch.Votes),
		"skipped":    len(batch.Errors),
		"synthetic":  batch.Synthetic,
	}).Info("roll-call votes loaded")
	return batch, nil
}

// appendRollCall fans one roll call out into per-member vote records.
func (l *Loader) appendRollCall(batch *VoteBatch, rc *models.RollCall) {
	majorities := PartyMajorities(rc, l.tieBreak)
	billID := rc.EffectiveBillID()

	for _, pos := range rc.Positions {
		position := models.ParsePosition(pos.Vote)
		if !position.Counted() {
			continue
		}
		party := models.ParseParty(pos.Party)
		majority := majorities[party]
		batch.Votes[pos.MemberID] = append(batch.Votes[pos.MemberID], models.VoteRecord{
			BillID:        billID,
			VoteDate:      rc.VoteDate,
			Position:      position,
			BillTitle:     rc.BillTitle,
			VoteType:      rc.VoteType,
			PartyMajority: majority,
			CrossParty:    position != majority,
		})
	}
}

// PartyMajorities tallies Yea/Nay per party within one roll call and
// returns each party's majority position. An exactly even split resolves
// to tieBreak.
func PartyMajorities(rc *models.RollCall, tieBreak models.VotePosition) map[models.Party]models.VotePosition {
	type tally struct{ yea, nay int }
	counts := make(map[models.Party]*tally)

	for _, pos := range rc.Positions {
		party := models.ParseParty(pos.Party)
		t := counts[party]
		if t == nil {
			t = &tally{}
			counts[party] = t
		}
		switch models.ParsePosition(pos.Vote) {
		case models.PositionYea:
			t.yea++
		case models.PositionNay:
			t.nay++
		}
	}

	majorities := make(map[models.Party]models.VotePosition, len(counts))
	for party, t := range counts {
		switch {
		case t.yea > t.nay:
			majorities[party] = models.PositionYea
		case t.nay > t.yea:
			majorities[party] = models.PositionNay
		default:
			majorities[party] = tieBreak
		}
	}
	return majorities
}

// LoadSponsors reads bill sponsorship records.
func (l *Loader) LoadSponsors(ctx context.Context) (*SponsorBatch, error) {
	collection := fmt.Sprintf("bills/%d", l.congress)
	records, err := l.store.List(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("load sponsors: %w", err)
	}

	batch := &SponsorBatch{}
	for i, raw := range records {
		var bill models.BillSponsors
		if err := json.Unmarshal(raw, &bill); err != nil {
			batch.Errors = append(batch.Errors, recordError(collection, i, err))
			continue
		}
		if bill.BillID == "" {
			batch.Errors = append(batch.Errors, recordError(collection, i, fmt.Errorf("missing bill_id")))
			continue
		}
		batch.Bills = append(batch.Bills, bill)
	}

	l.logger.WithFields(logrus.Fields{
		"congress": l.congress,
		"bills":    len(batch.Bills),
		"skipped":  len(batch.Errors),
	}).Info("bill sponsorships loaded")
	return batch, nil
}

func recordError(collection string, index int, err error) RecordError {
	return RecordError{
		Collection: collection,
		Index:      index,
		Err:        err,
		Message:    err.Error(),
	}
}
