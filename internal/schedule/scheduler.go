// Package schedule runs the two recurring digest jobs. Each job is a
// self-rescheduling loop: compute the delay to the next occurrence, wait
// (cancellably), fire, recompute. Rescheduling happens on fire rather than on
// a fixed interval, so a slow generation call never drifts the cadence.
package schedule

import (
	"context"
	"crypto/rand"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/fern/internal/config"
)

// Job identifies one of the two recurring jobs.
type Job string

const (
	JobDaily  Job = "daily"
	JobWeekly Job = "weekly"
)

// Fallbacks when the configured clock strings do not parse.
const (
	defaultDailyClock  = "08:00"
	defaultWeeklyClock = "17:00"
)

// Notifier delivers generated digest text to a destination. Supplied by the
// hosting transport.
type Notifier interface {
	Deliver(target, text string) error
}

// Generator produces the digest text for each job. Satisfied by
// *digest.Generator.
type Generator interface {
	Daily(ctx context.Context) string
	Weekly(ctx context.Context) string
}

// Scheduler owns the daily and weekly job loops. Next-run state lives only in
// process memory; after a restart the next occurrence is recomputed from the
// wall clock, with no missed-run catch-up.
type Scheduler struct {
	cfg      *config.Config
	gen      Generator
	notifier Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
	nextRuns map[Job]time.Time
}

// New creates a Scheduler. A nil logger is replaced with a no-op logger.
func New(cfg *config.Config, gen Generator, notifier Notifier, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cfg:      cfg,
		gen:      gen,
		notifier: notifier,
		logger:   logger,
		nextRuns: make(map[Job]time.Time),
	}
}

// Start arms a loop for each cadence enabled in configuration. Calling Start
// on a running scheduler is a no-op.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.stopCh = make(chan struct{})

	if !s.cfg.DisableDailyDigest {
		s.wg.Add(1)
		go s.runLoop(JobDaily)
	}
	if !s.cfg.DisableWeeklyReview {
		s.wg.Add(1)
		go s.runLoop(JobWeekly)
	}

	s.logger.Info("scheduler started",
		zap.Bool("daily", !s.cfg.DisableDailyDigest),
		zap.Bool("weekly", !s.cfg.DisableWeeklyReview))
}

// Stop cancels all armed timers and waits for the loops to exit. A stopped
// scheduler holds no timers; restart it with Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()

	s.mu.Lock()
	s.nextRuns = make(map[Job]time.Time)
	s.mu.Unlock()

	s.logger.Info("scheduler stopped")
}

// TriggerNow runs the named job immediately, independent of its timer.
// Unknown job identifiers are logged and ignored.
func (s *Scheduler) TriggerNow(job Job) {
	switch job {
	case JobDaily, JobWeekly:
		s.fire(job)
	default:
		s.logger.Warn("unknown job", zap.String("job", string(job)))
	}
}

// NextRuns returns a snapshot of each armed job's next fire time.
func (s *Scheduler) NextRuns() map[Job]time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[Job]time.Time, len(s.nextRuns))
	for job, at := range s.nextRuns {
		out[job] = at
	}
	return out
}

func (s *Scheduler) runLoop(job Job) {
	defer s.wg.Done()

	for {
		next := s.nextOccurrence(job, time.Now())

		s.mu.Lock()
		stopCh := s.stopCh
		s.nextRuns[job] = next
		s.mu.Unlock()

		timer := time.NewTimer(time.Until(next))
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-timer.C:
			s.fire(job)
		}
	}
}

// fire runs generation and delivery for the job. Failures are logged, never
// raised; the caller re-arms regardless.
func (s *Scheduler) fire(job Job) {
	runID := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	log := s.logger.With(zap.String("job", string(job)), zap.String("run_id", runID))
	log.Info("job firing")

	var text string
	switch job {
	case JobDaily:
		text = s.gen.Daily(context.Background())
	case JobWeekly:
		text = s.gen.Weekly(context.Background())
	}

	if err := s.notifier.Deliver(s.cfg.NotifyTarget, text); err != nil {
		log.Warn("digest delivery failed", zap.Error(err))
		return
	}
	log.Info("digest delivered", zap.String("target", s.cfg.NotifyTarget))
}

func (s *Scheduler) nextOccurrence(job Job, now time.Time) time.Time {
	if job == JobWeekly {
		return nextWeekly(now, s.cfg.WeeklyReviewDay, s.cfg.WeeklyReviewTime)
	}
	return nextDaily(now, s.cfg.DailyDigestTime)
}

// nextDaily returns the next occurrence of the HH:MM clock time: today if
// that instant is still strictly in the future, otherwise tomorrow.
func nextDaily(now time.Time, clock string) time.Time {
	hour, minute := parseClock(clock, defaultDailyClock)
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// nextWeekly returns the next occurrence of the weekday + HH:MM pair. When
// the target day is today but the time has passed, it advances a full week.
func nextWeekly(now time.Time, day, clock string) time.Time {
	hour, minute := parseClock(clock, defaultWeeklyClock)
	target := parseWeekday(day)

	days := (int(target) - int(now.Weekday()) + 7) % 7
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()).
		AddDate(0, 0, days)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// parseClock parses "HH:MM", substituting the fallback on any malformed
// input.
func parseClock(clock, fallback string) (hour, minute int) {
	t, err := time.Parse("15:04", strings.TrimSpace(clock))
	if err != nil {
		t, _ = time.Parse("15:04", fallback)
	}
	return t.Hour(), t.Minute()
}

func parseWeekday(name string) time.Weekday {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "monday":
		return time.Monday
	case "tuesday":
		return time.Tuesday
	case "wednesday":
		return time.Wednesday
	case "thursday":
		return time.Thursday
	case "friday":
		return time.Friday
	case "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}
