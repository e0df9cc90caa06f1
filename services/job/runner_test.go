package job

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"insuranceapi/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob(t *testing.T) {
	noop := func(context.Context) error { return nil }

	tests := []struct {
		name     string
		jobName  string
		interval time.Duration
		fn       Func
		wantErr  bool
	}{
		{"valid", "a", time.Minute, noop, false},
		{"empty name", "", time.Minute, noop, true},
		{"nil func", "b", time.Minute, nil, true},
		{"zero interval", "c", 0, noop, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(time.Second)
			err := r.AddJob(tt.jobName, tt.interval, tt.fn)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			job, ok := r.GetJob(tt.jobName)
			require.True(t, ok)
			assert.Equal(t, StatusIdle, job.Status)
			assert.Equal(t, "1m0s", job.Interval)
		})
	}

	t.Run("duplicate", func(t *testing.T) {
		r := NewRunner(time.Second)
		require.NoError(t, r.AddJob("a", time.Minute, noop))
		assert.Error(t, r.AddJob("a", time.Minute, noop))
	})
}

func TestRunNow(t *testing.T) {
	r := NewRunner(time.Second)
	fail := true
	require.NoError(t, r.AddJob("flaky", time.Hour, func(context.Context) error {
		if fail {
			return errors.New("boom")
		}
		return nil
	}))

	err := r.RunNow("flaky")
	require.Error(t, err)
	job, _ := r.GetJob("flaky")
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, 1, job.Runs)
	assert.Equal(t, 1, job.Failed)
	assert.Equal(t, "boom", job.Error)
	require.NotNil(t, job.NextRun)

	fail = false
	require.NoError(t, r.RunNow("flaky"))
	job, _ = r.GetJob("flaky")
	assert.Equal(t, StatusOK, job.Status)
	assert.Equal(t, 2, job.Runs)
	assert.Equal(t, 1, job.Failed)
	assert.Empty(t, job.Error)

	assert.Error(t, r.RunNow("missing"))
}

func TestStartRunsImmediatelyAndStopWaits(t *testing.T) {
	r := NewRunner(time.Second)
	var calls int32
	require.NoError(t, r.AddJob("tick", time.Hour, func(context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	r.Start()
	require.Eventually(t, func() bool {
		job, _ := r.GetJob("tick")
		return job.Runs == 1
	}, 2*time.Second, 10*time.Millisecond)

	r.Stop()
	r.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestJobContextCancelledOnStop(t *testing.T) {
	r := NewRunner(time.Minute)
	started := make(chan struct{})
	require.NoError(t, r.AddJob("slow", time.Hour, func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}))

	r.Start()
	<-started
	r.Stop()

	job, _ := r.GetJob("slow")
	assert.Equal(t, StatusFailed, job.Status)
	assert.Equal(t, context.Canceled.Error(), job.Error)
}

func TestRunNowWhileRunning(t *testing.T) {
	r := NewRunner(time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	var calls int32
	require.NoError(t, r.AddJob("slow", time.Hour, func(ctx context.Context) error {
		if atomic.AddInt32(&calls, 1) == 1 {
			close(started)
		}
		<-release
		return nil
	}))

	r.Start()
	<-started

	err := r.RunNow("slow")
	assert.ErrorIs(t, err, ErrJobRunning)
	job, _ := r.GetJob("slow")
	assert.Equal(t, StatusRunning, job.Status)
	assert.Equal(t, 0, job.Runs)

	close(release)
	r.Stop()
	job, _ = r.GetJob("slow")
	assert.Equal(t, StatusOK, job.Status)
	assert.Equal(t, 1, job.Runs)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetAllJobsPaginated(t *testing.T) {
	r := NewRunner(time.Second)
	for i := 5; i >= 1; i-- {
		require.NoError(t, r.AddJob(fmt.Sprintf("job-%d", i), time.Hour, func(context.Context) error { return nil }))
	}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantNames []string
		wantPage  int
		wantSize  int
		wantPages int
	}{
		{"first page", 1, 2, []string{"job-1", "job-2"}, 1, 2, 3},
		{"last partial page", 3, 2, []string{"job-5"}, 3, 2, 3},
		{"past the end", 4, 2, []string{}, 4, 2, 3},
		{"invalid params use defaults", 0, 0, []string{"job-1", "job-2", "job-3", "job-4", "job-5"}, 1, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.GetAllJobsPaginated(tt.page, tt.pageSize)
			names := make([]string, 0, len(result.Jobs))
			for _, j := range result.Jobs {
				names = append(names, j.Name)
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, 5, result.Total)
			assert.Equal(t, tt.wantPage, result.Page)
			assert.Equal(t, tt.wantSize, result.PageSize)
			assert.Equal(t, tt.wantPages, result.TotalPages)
		})
	}
}

type fakeSummarizer struct {
	summary *dto.ReminderSummary
	err     error
}

func (f fakeSummarizer) Summary(context.Context) (*dto.ReminderSummary, error) {
	return f.summary, f.err
}

func TestReminderDigest(t *testing.T) {
	ok := ReminderDigest(fakeSummarizer{summary: &dto.ReminderSummary{Today: 2, TodayBirthdays: 1, TodayAnniversaries: 1}})
	assert.NoError(t, ok(context.Background()))

	failing := ReminderDigest(fakeSummarizer{err: errors.New("db down")})
	err := failing(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")
}

func TestLookupRefresh(t *testing.T) {
	loads := 0
	fn := LookupRefresh(func() error { loads++; return nil })
	require.NoError(t, fn(context.Background()))
	assert.Equal(t, 1, loads)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, fn(ctx), context.Canceled)
	assert.Equal(t, 1, loads)

	failing := LookupRefresh(func() error { return errors.New("no table") })
	assert.Error(t, failing(context.Background()))
}
