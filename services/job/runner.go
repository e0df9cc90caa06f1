package job

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"insuranceapi/pkg/logger"
)

// Job status values.
const (
	StatusIdle    = "idle"
	StatusRunning = "running"
	StatusOK      = "ok"
	StatusFailed  = "failed"
)

// ErrJobRunning is returned by RunNow while the job is already running.
var ErrJobRunning = errors.New("job already running")

// Func is the body of a periodic job.
type Func func(ctx context.Context) error

// JobInfo stores the state of a registered job
type JobInfo struct {
	Name      string     `json:"name"`
	Interval  string     `json:"interval"`
	Status    string     `json:"status"`
	Runs      int        `json:"runs"`
	Failed    int        `json:"failed"`
	LastStart *time.Time `json:"last_start,omitempty"`
	LastEnd   *time.Time `json:"last_end,omitempty"`
	NextRun   *time.Time `json:"next_run,omitempty"`
	Message   string     `json:"message"`
	Error     string     `json:"error,omitempty"`

	interval time.Duration
	fn       Func
}

// PaginatedJobsResult is one page of jobs ordered by name
type PaginatedJobsResult struct {
	Jobs       []JobInfo `json:"jobs"`
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
}

// Runner runs registered jobs on their own tickers until stopped.
type Runner struct {
	jobs    map[string]*JobInfo
	mu      sync.RWMutex
	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
	stopped bool
	timeout time.Duration
	now     func() time.Time
}

// NewRunner creates a runner. Each run gets a context bounded by timeout.
func NewRunner(timeout time.Duration) *Runner {
	ctx, cancel := context.WithCancel(context.Background())
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Runner{
		jobs:    make(map[string]*JobInfo),
		ctx:     ctx,
		cancel:  cancel,
		timeout: timeout,
		now:     time.Now,
	}
}

// AddJob registers a job. Jobs added after Start begin immediately.
func (r *Runner) AddJob(name string, interval time.Duration, fn Func) error {
	if name == "" || fn == nil {
		return fmt.Errorf("job name and func are required")
	}
	if interval <= 0 {
		return fmt.Errorf("job %s: interval must be positive", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	job := &JobInfo{
		Name:     name,
		Interval: interval.String(),
		Status:   StatusIdle,
		interval: interval,
		fn:       fn,
	}
	r.jobs[name] = job
	logger.Infof("Registered job %s every %s", name, interval)

	if r.started && !r.stopped {
		r.launch(job)
	}
	return nil
}

// Start runs every job once and then on its interval.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started || r.stopped {
		return
	}
	r.started = true
	for _, job := range r.jobs {
		r.launch(job)
	}
	logger.Infof("Job runner started with %d jobs", len(r.jobs))
}

// launch must be called with r.mu held.
func (r *Runner) launch(job *JobInfo) {
	r.wg.Add(1)
	go r.loop(job.Name, job.interval)
}

func (r *Runner) loop(name string, interval time.Duration) {
	defer r.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	_ = r.execute(name, false)
	for {
		select {
		case <-r.ctx.Done():
			logger.Debugf("Job %s stopped", name)
			return
		case <-ticker.C:
			_ = r.execute(name, false)
		}
	}
}

// RunNow runs a job synchronously, outside its schedule. It returns ErrJobRunning
// if a run is already in progress.
func (r *Runner) RunNow(name string) error {
	r.mu.RLock()
	_, exists := r.jobs[name]
	r.mu.RUnlock()
	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	return r.execute(name, true)
}

// execute runs the job once. Scheduled ticks that overlap a run are skipped
// quietly; manual runs report ErrJobRunning.
func (r *Runner) execute(name string, manual bool) error {
	r.mu.Lock()
	job := r.jobs[name]
	if job.Status == StatusRunning {
		r.mu.Unlock()
		if manual {
			return ErrJobRunning
		}
		logger.Warnf("Job %s still running, skipping this tick", name)
		return nil
	}
	start := r.now()
	job.Status = StatusRunning
	job.LastStart = &start
	fn := job.fn
	r.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	err := fn(ctx)
	cancel()

	r.mu.Lock()
	defer r.mu.Unlock()
	end := r.now()
	next := end.Add(job.interval)
	job.Runs++
	job.LastEnd = &end
	job.NextRun = &next
	if err != nil {
		job.Failed++
		job.Status = StatusFailed
		job.Error = err.Error()
		job.Message = "Last run failed"
		logger.Errorf("Job %s failed after %s: %v", name, end.Sub(start), err)
		return err
	}
	job.Status = StatusOK
	job.Error = ""
	job.Message = "Last run succeeded"
	logger.Debugf("Job %s finished in %s", name, end.Sub(start))
	return nil
}

// GetJob returns a copy of the job state
func (r *Runner) GetJob(name string) (*JobInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[name]
	if !exists {
		return nil, false
	}
	jobCopy := *job
	return &jobCopy, true
}

// GetAllJobsPaginated returns one page of jobs sorted by name. A page past the
// end yields an empty slice.
func (r *Runner) GetAllJobsPaginated(page, pageSize int) *PaginatedJobsResult {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	allJobs := make([]JobInfo, 0, len(r.jobs))
	for _, job := range r.jobs {
		allJobs = append(allJobs, *job)
	}
	sort.Slice(allJobs, func(i, j int) bool { return allJobs[i].Name < allJobs[j].Name })

	total := len(allJobs)
	totalPages := (total + pageSize - 1) / pageSize
	start := (page - 1) * pageSize
	end := start + pageSize

	if start >= total {
		return &PaginatedJobsResult{
			Jobs:       []JobInfo{},
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		}
	}
	if end > total {
		end = total
	}
	return &PaginatedJobsResult{
		Jobs:       allJobs[start:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

// Stop cancels every job and waits for in-flight runs to return.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.cancel()
	r.mu.Unlock()

	r.wg.Wait()
	logger.Infof("Job runner stopped")
}
