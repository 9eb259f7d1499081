package cache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// SweepFunc removes expired state and returns how many items it dropped.
type SweepFunc func() int

type sweepTarget struct {
	name string
	fn   SweepFunc
}

// Sweeper runs registered SweepFuncs on a fixed interval.
type Sweeper struct {
	interval time.Duration
	cron     *cron.Cron
	targets  []sweepTarget
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewSweeper creates a sweeper firing every interval. A non-positive
// interval uses DefaultSweepInterval.
func NewSweeper(interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		interval: interval,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "cache.sweeper"),
	}
}

// Register adds a sweep target. Targets must be registered before Start.
func (s *Sweeper) Register(name string, fn SweepFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.targets = append(s.targets, sweepTarget{name: name, fn: fn})
}

// Start schedules the sweep. The schedule stops when ctx is cancelled or
// Stop is called.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("sweeper already running")
	}

	spec := "@every " + s.interval.String()
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce() }); err != nil {
		return fmt.Errorf("failed to schedule sweep %q: %w", spec, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("cache sweeper started",
		"interval", s.interval.String(),
		"targets", len(s.targets),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// RunOnce sweeps every target immediately and returns the total removed.
func (s *Sweeper) RunOnce() int {
	s.mu.Lock()
	targets := append([]sweepTarget(nil), s.targets...)
	s.mu.Unlock()

	total := 0
	for _, t := range targets {
		removed := t.fn()
		total += removed
		if removed > 0 {
			s.logger.Info("swept expired entries", "target", t.name, "removed", removed)
		}
	}
	return total
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info("cache sweeper stopped")
}

// IsRunning reports whether the schedule is active.
func (s *Sweeper) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// NextRun returns the next scheduled sweep, or nil when not running.
func (s *Sweeper) NextRun() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
