// Package job coordinates concurrent profile generations: fingerprint
// deduplication, a bounded queue, a fixed worker pool, and the cache
// read/write path around each run.
package job

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/profilegen/internal/apperr"
	"github.com/sells-group/profilegen/internal/cache"
	"github.com/sells-group/profilegen/internal/model"
)

// State is the lifecycle phase of one generation job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateFailed    State = "failed"
)

// Runner produces a generation result for a validated request. The
// pipeline Generator satisfies this.
type Runner interface {
	Generate(ctx context.Context, req *model.ValidatedRequest) (*model.GenerationResult, error)
}

// Config controls orchestrator limits.
type Config struct {
	// MaxConcurrent is the global generation ceiling (worker count).
	MaxConcurrent int
	// QueueSize bounds how many jobs may wait for a worker.
	QueueSize int
	// QueueTimeout is how long Submit waits to enqueue before giving up.
	QueueTimeout time.Duration
	// RunTimeout bounds one generation end to end.
	RunTimeout time.Duration
	// CacheTTL applies to completed results written to the cache.
	CacheTTL time.Duration
	// RetainFor is how long finished jobs stay resolvable by ID.
	RetainFor time.Duration
}

// DefaultConfig returns production limits.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 10,
		QueueSize:     50,
		QueueTimeout:  10 * time.Second,
		RunTimeout:    2 * time.Minute,
		CacheTTL:      cache.DefaultTTL,
		RetainFor:     time.Hour,
	}
}

// Job tracks one generation. All requests sharing a fingerprint attach
// to the same Job and receive the same outcome.
type Job struct {
	ID          string
	Fingerprint string
	CreatedAt   time.Time

	mu          sync.Mutex
	state       State
	result      *model.GenerationResult
	err         error
	completedAt time.Time
	done        chan struct{}
}

// Status is a point-in-time snapshot of a job's lifecycle.
type Status struct {
	ID          string     `json:"generation_id"`
	State       State      `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// State returns the job's current lifecycle phase.
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Snapshot returns the job's status for the async lookup surface.
func (j *Job) Snapshot() Status {
	j.mu.Lock()
	defer j.mu.Unlock()

	s := Status{
		ID:        j.ID,
		State:     j.state,
		CreatedAt: j.CreatedAt,
	}
	if !j.completedAt.IsZero() {
		completed := j.completedAt
		s.CompletedAt = &completed
	}
	if j.err != nil {
		s.Error = j.err.Error()
	}
	return s
}

// Outcome returns the result once the job has finished. ready is false
// while the job is still queued or running.
func (j *Job) Outcome() (result *model.GenerationResult, err error, ready bool) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.state != StateCompleted && j.state != StateFailed {
		return nil, nil, false
	}
	if j.result != nil {
		copied := *j.result
		result = &copied
	}
	return result, j.err, true
}

func (j *Job) setState(s State) {
	j.mu.Lock()
	j.state = s
	j.mu.Unlock()
}

// finish records the outcome exactly once and releases all waiters.
func (j *Job) finish(result *model.GenerationResult, err error) {
	j.mu.Lock()
	j.result = result
	j.err = err
	j.completedAt = time.Now().UTC()
	if err != nil {
		j.state = StateFailed
	} else {
		j.state = StateCompleted
	}
	j.mu.Unlock()
	close(j.done)
}

func (j *Job) finishedBefore(cutoff time.Time) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return !j.completedAt.IsZero() && j.completedAt.Before(cutoff)
}

type task struct {
	job *Job
	req *model.ValidatedRequest
}

// Orchestrator owns the job registry and worker pool.
type Orchestrator struct {
	runner Runner
	cache  cache.Cache
	cfg    Config
	log    *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*Job
	records map[string]*Job

	// enqMu fences enqueue against Shutdown: Shutdown takes the write
	// lock after closing stop, so no send can race the queue drain.
	enqMu sync.RWMutex

	queue chan task
	wg    sync.WaitGroup
	stop  chan struct{}
	once  sync.Once
}

// New creates an Orchestrator and starts its workers.
func New(runner Runner, c cache.Cache, cfg Config) *Orchestrator {
	def := DefaultConfig()
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = def.QueueSize
	}
	if cfg.QueueTimeout <= 0 {
		cfg.QueueTimeout = def.QueueTimeout
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = def.RunTimeout
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.RetainFor <= 0 {
		cfg.RetainFor = def.RetainFor
	}

	o := &Orchestrator{
		runner:  runner,
		cache:   c,
		cfg:     cfg,
		log:     zap.L().With(zap.String("component", "orchestrator")),
		jobs:    make(map[string]*Job),
		records: make(map[string]*Job),
		queue:   make(chan task, cfg.QueueSize),
		stop:    make(chan struct{}),
	}
	for i := 0; i < cfg.MaxConcurrent; i++ {
		o.wg.Add(1)
		go o.worker()
	}
	o.wg.Add(1)
	go o.janitor()
	return o
}

// Shutdown stops accepting work, waits for running jobs to drain, and
// fails anything still queued. Safe to call more than once.
func (o *Orchestrator) Shutdown() {
	o.once.Do(func() {
		close(o.stop)
		// Wait out any Submit currently inside enqueue; afterwards no
		// new task can reach the queue.
		o.enqMu.Lock()
		o.enqMu.Unlock()
	})
	o.wg.Wait()
	o.drain()
}

// drain fails tasks that were queued but never picked up by a worker.
func (o *Orchestrator) drain() {
	for {
		select {
		case t := <-o.queue:
			o.remove(t.job.Fingerprint)
			t.job.finish(nil, apperr.New(apperr.KindServiceUnavailable, "service is shutting down"))
		default:
			return
		}
	}
}

// Submit validates the request and returns its generation result,
// serving from cache when possible and sharing in-flight work between
// identical requests. Queue saturation and deadline overruns surface as
// ServiceUnavailableError.
func (o *Orchestrator) Submit(ctx context.Context, req model.GenerationRequest) (*model.GenerationResult, error) {
	j, result, err := o.start(ctx, req)
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	return o.await(ctx, j)
}

// SubmitAsync validates and enqueues the request, returning immediately
// with a job whose outcome can be polled via Lookup. A cache hit yields
// an already-completed job.
func (o *Orchestrator) SubmitAsync(ctx context.Context, req model.GenerationRequest) (*Job, error) {
	j, result, err := o.start(ctx, req)
	if err != nil {
		return nil, err
	}
	if result != nil {
		j = o.record(&Job{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
			state:     StateQueued,
			done:      make(chan struct{}),
		})
		j.finish(result, nil)
	}
	return j, nil
}

// start runs the shared submit path: validation, cache lookup, job
// attach, enqueue. Exactly one of job and result is non-nil on success.
func (o *Orchestrator) start(ctx context.Context, req model.GenerationRequest) (*Job, *model.GenerationResult, error) {
	validated, err := req.Validate()
	if err != nil {
		return nil, nil, err
	}

	fingerprint := cache.Fingerprint(validated)

	if req.CacheEnabled() {
		if entry, err := o.cache.Get(ctx, fingerprint); err == nil {
			o.log.Info("cache hit",
				zap.String("fingerprint", fingerprint[:12]),
				zap.String("generation_id", entry.Result.Metadata.GenerationID),
			)
			result := entry.Result
			result.Metadata.CacheHit = true
			result.Metadata.ProcessingMethod = model.ProcessingCached
			return nil, &result, nil
		}
	}

	j, created := o.attach(fingerprint)
	if created {
		if err := o.enqueue(ctx, task{job: j, req: validated}); err != nil {
			o.remove(fingerprint)
			j.finish(nil, err)
			return nil, nil, err
		}
		o.log.Debug("job enqueued",
			zap.String("job_id", j.ID),
			zap.String("fingerprint", fingerprint[:12]),
		)
	} else {
		o.log.Debug("attached to in-flight job",
			zap.String("job_id", j.ID),
			zap.String("fingerprint", fingerprint[:12]),
		)
	}

	return j, nil, nil
}

// Lookup resolves a job by ID. Finished jobs stay resolvable for the
// configured retention window.
func (o *Orchestrator) Lookup(id string) (*Job, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	j, ok := o.records[id]
	return j, ok
}

// attach returns the job for the fingerprint, creating it when no
// identical request is in flight.
func (o *Orchestrator) attach(fingerprint string) (*Job, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if j, ok := o.jobs[fingerprint]; ok {
		return j, false
	}
	j := &Job{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		CreatedAt:   time.Now().UTC(),
		state:       StateQueued,
		done:        make(chan struct{}),
	}
	o.jobs[fingerprint] = j
	o.records[j.ID] = j
	return j, true
}

// record indexes a job by ID without a fingerprint entry.
func (o *Orchestrator) record(j *Job) *Job {
	o.mu.Lock()
	o.records[j.ID] = j
	o.mu.Unlock()
	return j
}

func (o *Orchestrator) remove(fingerprint string) {
	o.mu.Lock()
	delete(o.jobs, fingerprint)
	o.mu.Unlock()
}

func (o *Orchestrator) enqueue(ctx context.Context, t task) error {
	o.enqMu.RLock()
	defer o.enqMu.RUnlock()

	select {
	case <-o.stop:
		return apperr.New(apperr.KindServiceUnavailable, "service is shutting down")
	default:
	}

	timer := time.NewTimer(o.cfg.QueueTimeout)
	defer timer.Stop()

	select {
	case o.queue <- t:
		return nil
	case <-timer.C:
		return apperr.New(apperr.KindServiceUnavailable, "generation queue is full")
	case <-o.stop:
		return apperr.New(apperr.KindServiceUnavailable, "service is shutting down")
	case <-ctx.Done():
		return apperr.Wrap(apperr.KindServiceUnavailable, "request cancelled while queued", ctx.Err())
	}
}

func (o *Orchestrator) await(ctx context.Context, j *Job) (*model.GenerationResult, error) {
	select {
	case <-j.done:
		if j.err != nil {
			return nil, j.err
		}
		result := *j.result
		return &result, nil
	case <-ctx.Done():
		return nil, apperr.Wrap(apperr.KindServiceUnavailable,
			"timed out waiting for generation", ctx.Err())
	}
}

func (o *Orchestrator) worker() {
	defer o.wg.Done()
	for {
		select {
		case <-o.stop:
			return
		case t := <-o.queue:
			o.run(t)
		}
	}
}

// janitor prunes finished job records past the retention window.
func (o *Orchestrator) janitor() {
	defer o.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-o.stop:
			return
		case <-ticker.C:
			o.pruneRecords(time.Now().Add(-o.cfg.RetainFor))
		}
	}
}

func (o *Orchestrator) pruneRecords(cutoff time.Time) {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, j := range o.records {
		if j.finishedBefore(cutoff) {
			delete(o.records, id)
		}
	}
}

// run executes one job with its own deadline, detached from any single
// submitter's context since multiple requests may be waiting on it.
// Successful results are always written to the cache, including runs
// that bypassed the cache read, so later hits see the fresh entry.
func (o *Orchestrator) run(t task) {
	t.job.setState(StateRunning)

	ctx, cancel := context.WithTimeout(context.Background(), o.cfg.RunTimeout)
	defer cancel()

	result, err := o.runner.Generate(ctx, t.req)

	if err == nil {
		if putErr := o.cache.Put(ctx, t.job.Fingerprint, *result, o.cfg.CacheTTL); putErr != nil {
			o.log.Warn("cache write failed",
				zap.String("fingerprint", t.job.Fingerprint[:12]),
				zap.Error(putErr),
			)
		}
	}
	if err != nil {
		o.log.Error("generation failed",
			zap.String("job_id", t.job.ID),
			zap.Error(err),
		)
	}

	// Remove before releasing waiters so a new identical request starts
	// a fresh generation instead of attaching to a finished job.
	o.remove(t.job.Fingerprint)
	t.job.finish(result, err)
}
