package catalog

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	appLog "springwell/internal/log"
)

// Scheduler runs periodic jobs (document refresh, preview capture) on cron
// specs evaluated in the site timezone.
type Scheduler struct {
	cron *cron.Cron
	ctx  context.Context
}

// NewScheduler creates a stopped scheduler. Jobs receive ctx.
func NewScheduler(ctx context.Context, loc *time.Location) *Scheduler {
	if loc == nil {
		loc = time.Local
	}
	logger := cronLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		ctx: ctx,
	}
}

// Add registers fn under a standard 5-field cron spec.
func (s *Scheduler) Add(spec, name string, fn func(ctx context.Context)) error {
	_, err := s.cron.AddFunc(spec, func() {
		start := time.Now()
		appLog.Debug("scheduled job start", "job", name)
		fn(s.ctx)
		appLog.Debug("scheduled job done", "job", name, "took", time.Since(start).String())
	})
	return err
}

// Run starts the scheduler and blocks until its context is done, then waits
// for running jobs to finish.
func (s *Scheduler) Run() {
	s.cron.Start()
	<-s.ctx.Done()
	<-s.cron.Stop().Done()
}

// Entries reports the next run time of every registered job.
func (s *Scheduler) Entries() []time.Time {
	entries := s.cron.Entries()
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Next)
	}
	return out
}

// cronLogger routes cron's own logging to the application logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	appLog.Debug("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	appLog.Error("cron: "+msg, err, keysAndValues...)
}
