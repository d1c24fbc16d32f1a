package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/oldlogancap/logan-screener/pkg/logger"
)

// maxHistory caps the in-memory execution log.
const maxHistory = 100

// Job is one scheduled task.
type Job struct {
	Name string
	Spec string // standard 5-field cron expression
	Run  func(ctx context.Context) error
}

// Execution records one run of a job.
type Execution struct {
	Job       string        `json:"job"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Scheduler runs registered jobs on cron schedules and keeps a bounded
// execution history.
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu      sync.Mutex
	history []Execution
}

// New creates a stopped scheduler.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: log,
	}
}

// Register adds a job to the schedule.
func (s *Scheduler) Register(job Job) error {
	if job.Name == "" || job.Run == nil {
		return fmt.Errorf("job needs a name and a run function")
	}

	_, err := s.cron.AddFunc(job.Spec, func() {
		s.execute(job)
	})
	if err != nil {
		return fmt.Errorf("registering job %s (%q): %w", job.Name, job.Spec, err)
	}

	s.logger.WithField("job", job.Name).WithField("spec", job.Spec).
		Info("job registered")
	return nil
}

// execute runs one job, recovering panics and recording the outcome.
func (s *Scheduler) execute(job Job) {
	start := time.Now()
	log := s.logger.WithField("job", job.Name)
	log.Info("job started")

	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("job panicked: %v", r)
			}
		}()
		err = job.Run(context.Background())
	}()

	exec := Execution{
		Job:       job.Name,
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   err == nil,
	}
	if err != nil {
		exec.Error = err.Error()
		log.WithError(err).WithField("duration", exec.Duration).Error("job failed")
	} else {
		log.WithField("duration", exec.Duration).Info("job finished")
	}
	s.record(exec)
}

func (s *Scheduler) record(exec Execution) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, exec)
	if len(s.history) > maxHistory {
		s.history = s.history[len(s.history)-maxHistory:]
	}
}

// History returns a copy of the recorded executions, oldest first.
func (s *Scheduler) History() []Execution {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Execution, len(s.history))
	copy(out, s.history)
	return out
}

// Start begins running jobs on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// Stop halts scheduling and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("scheduler stopped")
}

// RunNow executes a job immediately, outside its schedule.
func (s *Scheduler) RunNow(job Job) {
	s.execute(job)
}
