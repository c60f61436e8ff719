/*
runner.go - Polling backup runner

PURPOSE:
  Periodically checks every stored schedule, executes the ones that are
  due through an injected Executor, records the run, and prunes history
  beyond the schedule's retention.

DESIGN:
  - Runs a background goroutine with a configurable check interval
  - All due schedules in one pass run sequentially, so two runs for the
    same schedule never overlap
  - A failed execution is logged and skipped; the schedule stays due and
    is retried on the next tick
  - Pruning only happens after a successful run; each pruned backup has
    its artifact removed before its history row, so a failed removal
    leaves the row in place and is retried on a later pass

USAGE:
  runner := backup.NewRunner(store, executor)
  runner.Start()
  // ... later
  runner.Stop()

SEE ALSO:
  - schedule.go: IsDue / SelectForPruning
*/
package backup

import (
	"context"
	"log"
	"sync"
	"time"
)

// =============================================================================
// COLLABORATOR INTERFACES
// =============================================================================

// Store is the persistence the runner needs: the schedules to poll and
// the per-schedule history to prune.
type Store interface {
	ListBackupSchedules(ctx context.Context) ([]Schedule, error)
	MarkBackupRun(ctx context.Context, scheduleID string, at time.Time) error
	RecordBackupFile(ctx context.Context, scheduleID string, file File) error
	ListBackupFiles(ctx context.Context, scheduleID string) ([]File, error)
	DeleteBackupFile(ctx context.Context, scheduleID, name string) error
}

// Executor performs one backup for a schedule and reports the artifact
// it produced. Remove deletes an artifact the executor produced earlier;
// the runner calls it when pruning history beyond a schedule's retention.
type Executor interface {
	Execute(ctx context.Context, schedule Schedule) (File, error)
	Remove(name string) error
}

// =============================================================================
// RUNNER
// =============================================================================

// Runner polls schedules and executes the due ones.
type Runner struct {
	Store         Store
	Executor      Executor
	CheckInterval time.Duration
	Now           func() time.Time

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewRunner creates a runner with the default hourly check interval.
func NewRunner(store Store, executor Executor) *Runner {
	return &Runner{
		Store:         store,
		Executor:      executor,
		CheckInterval: 1 * time.Hour,
		Now:           time.Now,
		stop:          make(chan bool),
	}
}

// Start begins the polling goroutine.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ticker = time.NewTicker(r.CheckInterval)
	r.wg.Add(1)

	go r.run()

	log.Printf("[Backup] Runner started with check interval: %v", r.CheckInterval)
}

// Stop halts the polling goroutine and waits for an in-flight pass.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.ticker != nil {
		r.ticker.Stop()
		close(r.stop)
		r.wg.Wait()
		log.Println("[Backup] Runner stopped")
	}
}

func (r *Runner) run() {
	defer r.wg.Done()

	// Run immediately on start
	r.CheckAndProcess()

	for {
		select {
		case <-r.ticker.C:
			r.CheckAndProcess()
		case <-r.stop:
			return
		}
	}
}

// CheckAndProcess executes one polling pass. Exposed so a manual
// "run now" endpoint can share the loop's logic.
func (r *Runner) CheckAndProcess() {
	ctx := context.Background()
	now := r.Now()

	schedules, err := r.Store.ListBackupSchedules(ctx)
	if err != nil {
		log.Printf("[Backup] Failed to list schedules: %v", err)
		return
	}

	for _, schedule := range schedules {
		if !IsDue(schedule.Spec, now) {
			continue
		}
		r.process(ctx, schedule, now)
	}
}

func (r *Runner) process(ctx context.Context, schedule Schedule, now time.Time) {
	log.Printf("[Backup] Schedule %s (%s) is due, executing", schedule.ID, schedule.Name)

	file, err := r.Executor.Execute(ctx, schedule)
	if err != nil {
		log.Printf("[Backup] Schedule %s failed: %v", schedule.ID, err)
		return
	}
	log.Printf("[Backup] Schedule %s produced %s (%d bytes)", schedule.ID, file.Name, file.SizeBytes)

	if err := r.Store.RecordBackupFile(ctx, schedule.ID, file); err != nil {
		log.Printf("[Backup] Failed to record %s for %s: %v", file.Name, schedule.ID, err)
		return
	}
	if err := r.Store.MarkBackupRun(ctx, schedule.ID, now); err != nil {
		log.Printf("[Backup] Failed to record run for %s: %v", schedule.ID, err)
		return
	}

	r.prune(ctx, schedule)
}

func (r *Runner) prune(ctx context.Context, schedule Schedule) {
	files, err := r.Store.ListBackupFiles(ctx, schedule.ID)
	if err != nil {
		log.Printf("[Backup] Failed to list files for %s: %v", schedule.ID, err)
		return
	}

	for _, file := range SelectForPruning(files, schedule.Spec.Retention) {
		// Artifact first: if removal fails the history row stays and the
		// file is retried on the next prune.
		if err := r.Executor.Remove(file.Name); err != nil {
			log.Printf("[Backup] Failed to remove %s for %s: %v", file.Name, schedule.ID, err)
			continue
		}
		if err := r.Store.DeleteBackupFile(ctx, schedule.ID, file.Name); err != nil {
			log.Printf("[Backup] Failed to delete %s for %s: %v", file.Name, schedule.ID, err)
			continue
		}
		log.Printf("[Backup] Pruned %s for schedule %s", file.Name, schedule.ID)
	}
}
