// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/damoang/eventhub-backend/internal/metrics"
	"github.com/damoang/eventhub-backend/internal/realtime"
	"github.com/damoang/eventhub-backend/internal/repository"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

const jobTimeout = 2 * time.Minute

// Reindexer rebuilds a search index
type Reindexer interface {
	Reindex(ctx context.Context) (int, error)
}

// cronLogger adapts zerolog to cron.Logger
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// Scheduler owns the cron runner
type Scheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewScheduler returns a stopped scheduler. Overlapping runs of the same job are skipped.
func NewScheduler(logger zerolog.Logger) *Scheduler {
	logger = logger.With().Str("component", "cron").Logger()
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		logger: logger,
	}
}

// Add schedules fn under name. An empty spec disables the job.
func (s *Scheduler) Add(name, spec string, fn func(ctx context.Context) error) error {
	if spec == "" {
		s.logger.Info().Str("job", name).Msg("job disabled")
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		start := time.Now()
		if err := fn(ctx); err != nil {
			metrics.JobRuns.WithLabelValues(name, "error").Inc()
			s.logger.Error().Err(err).Str("job", name).Msg("job failed")
			return
		}
		metrics.JobRuns.WithLabelValues(name, "ok").Inc()
		s.logger.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("job done")
	})
	if err != nil {
		return fmt.Errorf("schedule %s (%q): %w", name, spec, err)
	}
	s.logger.Info().Str("job", name).Str("spec", spec).Msg("job scheduled")
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() { s.cron.Start() }

// Shutdown stops scheduling and waits for running jobs, up to 30s
func (s *Scheduler) Shutdown() {
	ctx, cancel := context.WithTimeout(s.cron.Stop(), 30*time.Second)
	defer cancel()
	<-ctx.Done()
}

// Entries reports how many jobs are scheduled
func (s *Scheduler) Entries() int { return len(s.cron.Entries()) }

// ReconcileThreads puts threads whose owner messages are still unread back
// into the unread segment and realigns last_sent_at with the messages.
func ReconcileThreads(threads repository.DMThreadRepository, bus *realtime.Bus) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		reopened, err := threads.ReopenWithUnreadUserMessages(ctx)
		if err != nil {
			return fmt.Errorf("reopen threads: %w", err)
		}
		for _, id := range reopened {
			bus.Publish(realtime.ThreadEvent(realtime.KindThreadReadChanged, id))
		}
		n, err := threads.RecomputeLastSentAt(ctx)
		if err != nil {
			return fmt.Errorf("recompute last_sent_at: %w", err)
		}
		if n > 0 && len(reopened) == 0 {
			// list-level refresh only
			bus.Publish(realtime.ThreadEvent(realtime.KindThreadReadChanged, 0))
		}
		return nil
	}
}

// ReindexNotices mirrors notices into the search index
func ReindexNotices(r Reindexer, logger zerolog.Logger) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		n, err := r.Reindex(ctx)
		if err != nil {
			return err
		}
		logger.Info().Int("notices", n).Msg("notices reindexed")
		return nil
	}
}
