package ingestion

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/jon-the-dev/data-dot-gov-sub000/internal/models"
	"github.com/jon-the-dev/data-dot-gov-sub000/internal/storage"
)

// Supplier is the upstream data source the orchestrator pulls from.
type Supplier interface {
	FetchMembers(ctx context.Context, congress int) ([]models.MemberRecord, error)
	FetchRollCalls(ctx context.Context, congress int, chamber models.Chamber) ([]models.RollCall, error)
	FetchBillSponsors(ctx context.Context, congress int) ([]models.BillSponsors, error)
}

// Orchestrator pulls normalized supplier data into the record store,
// one collection per congress, so the loaders can read it back offline.
type Orchestrator struct {
	supplier Supplier
	store    storage.Store
	logger   *logrus.Logger
}

// NewOrchestrator creates an ingestion orchestrator.
func NewOrchestrator(supplier Supplier, store storage.Store, logger *logrus.Logger) *Orchestrator {
	return &Orchestrator{supplier: supplier, store: store, logger: logger}
}

// Result summarizes one ingestion run.
type Result struct {
	Congress    int
	MemberCount int
	VoteCount   int
	BillCount   int
	Duration    time.Duration
}

// IngestCongress fetches and stores members, roll calls from both
// chambers, and bill sponsorships for one congress. Fetches run
// concurrently; writes are serialized per collection.
func (o *Orchestrator) IngestCongress(ctx context.Context, congress int) (*Result, error) {
	start := time.Now()
	o.logger.WithField("congress", congress).Info("starting ingestion")

	result := &Result{Congress: congress}

	var (
		members  []models.MemberRecord
		bills    []models.BillSponsors
		votesMu  sync.Mutex
		allVotes []models.RollCall
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		members, err = o.supplier.FetchMembers(gctx, congress)
		return err
	})
	g.Go(func() error {
		var err error
		bills, err = o.supplier.FetchBillSponsors(gctx, congress)
		return err
	})
	for _, chamber := range []models.Chamber{models.ChamberHouse, models.ChamberSenate} {
		chamber := chamber
		g.Go(func() error {
			votes, err := o.supplier.FetchRollCalls(gctx, congress, chamber)
			if err != nil {
				return err
			}
			votesMu.Lock()
			allVotes = append(allVotes, votes...)
			votesMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch congress %d: %w", congress, err)
	}

	collection := fmt.Sprintf("members/%d", congress)
	for i := range members {
		if err := o.store.Write(ctx, collection, members[i].MemberID, &members[i]); err != nil {
			return nil, fmt.Errorf("write member %s: %w", members[i].MemberID, err)
		}
	}
	result.MemberCount = len(members)

	collection = fmt.Sprintf("votes/%d", congress)
	for i := range allVotes {
		if err := o.store.Write(ctx, collection, allVotes[i].VoteID, &allVotes[i]); err != nil {
			return nil, fmt.Errorf("write roll call %s: %w", allVotes[i].VoteID, err)
		}
	}
	result.VoteCount = len(allVotes)

	collection = fmt.Sprintf("bills/%d", congress)
	for i := range bills {
		if err := o.store.Write(ctx, collection, bills[i].BillID, &bills[i]); err != nil {
			return nil, fmt.Errorf("write bill %s: %w", bills[i].BillID, err)
		}
	}
	result.BillCount = len(bills)

	result.Duration = time.Since(start)
	o.logger.WithFields(logrus.Fields{
		"congress": congress,
		"members":  result.MemberCount,
		"votes":    result.VoteCount,
		"bills":    result.BillCount,
		"duration": result.Duration.Round(time.Millisecond),
	}).Info("ingestion complete")
	return result, nil
}
