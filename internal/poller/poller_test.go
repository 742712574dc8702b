package poller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return logger
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	p := New("not a cron spec", JobFunc(func(ctx context.Context) error { return nil }), quietLogger())
	err := p.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid poll schedule")
}

func TestRunOnceExecutesJob(t *testing.T) {
	var runs atomic.Int32
	p := New("0 3 * * *", JobFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}), quietLogger())

	p.RunOnce(context.Background())
	assert.Equal(t, int32(1), runs.Load())
}

func TestOverlappingTriggersAreSkipped(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var runs atomic.Int32

	p := New("0 3 * * *", JobFunc(func(ctx context.Context) error {
		runs.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
		return nil
	}), quietLogger())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.RunOnce(context.Background())
	}()

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("first run never started")
	}

	// second trigger while the first is in flight is a no-op
	p.RunOnce(context.Background())
	assert.Equal(t, int32(1), runs.Load())

	close(release)
	wg.Wait()

	// after the first run finished, triggers run again
	p.RunOnce(context.Background())
	assert.Equal(t, int32(2), runs.Load())
}

func TestRunOnceSwallowsJobError(t *testing.T) {
	p := New("0 3 * * *", JobFunc(func(ctx context.Context) error {
		return errors.New("boom")
	}), quietLogger())

	// errors are logged, not propagated; the guard must reset
	p.RunOnce(context.Background())

	var runs atomic.Int32
	p.job = JobFunc(func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})
	p.RunOnce(context.Background())
	assert.Equal(t, int32(1), runs.Load())
}
