package scheduler

import (
	"context"
	"time"
)

// Job is a unit of scheduled work
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string
	Run(ctx context.Context) error

	// Schedule is a cron expression with an optional seconds field,
	// e.g. "*/30 * * * * *", "@every 1m"
	Schedule() string
}

// JobResult is the outcome of one run
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// RunStats tallies the runs of a job since it was added
type RunStats struct {
	JobName      string        `json:"job_name"`
	Schedule     string        `json:"schedule"`
	Runs         int           `json:"runs"`
	Failures     int           `json:"failures"`
	LastRun      time.Time     `json:"last_run,omitempty"`
	LastDuration time.Duration `json:"last_duration"`
	LastError    string        `json:"last_error,omitempty"` // latest failed run, kept after later successes
}

// record folds a run into the tally
func (s *RunStats) record(r JobResult) {
	s.Runs++
	s.LastRun = r.StartTime
	s.LastDuration = r.Duration
	if !r.Success {
		s.Failures++
		s.LastError = r.Error
	}
}
