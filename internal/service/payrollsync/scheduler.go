package payrollsync

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gulfline-hr/payroll-backend-go/internal/domain/payroll"
)

// Recomputer executes a payroll recompute for one employee and period,
// reporting every trigger that contributed to it.
type Recomputer interface {
	Recompute(ctx context.Context, employeeID string, year int, month time.Month, triggers []payroll.SyncTrigger, force bool) (payroll.SyncResult, error)
}

type pending struct {
	timer      *time.Timer
	triggers   []payroll.SyncTrigger
	employeeID string
	year       int
	month      time.Month
}

// Scheduler coalesces recompute triggers per (employee, year, month) key.
// A new trigger inside the debounce window cancels and replaces the pending
// timer; the accumulated triggers travel with the eventual recompute.
//
// Timers are process-local and unpersisted. A restart during the window
// drops the scheduled recompute; the manual generate endpoint is the
// recovery path.
type Scheduler struct {
	recomputer Recomputer
	delay      time.Duration
	logger     *slog.Logger

	mu      sync.Mutex
	pending map[string]*pending
	wg      sync.WaitGroup
	stopped bool
}

func NewScheduler(recomputer Recomputer, delay time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		recomputer: recomputer,
		delay:      delay,
		logger:     logger,
		pending:    make(map[string]*pending),
	}
}

func syncKey(employeeID string, year int, month time.Month) string {
	return fmt.Sprintf("%s:%d-%02d", employeeID, year, int(month))
}

// Schedule arms (or re-arms) the debounce timer for the key and appends the
// trigger to the accumulating list. Returns immediately.
func (s *Scheduler) Schedule(employeeID string, year int, month time.Month, trig payroll.SyncTrigger) {
	key := syncKey(employeeID, year, month)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("recompute scheduler stopped, dropping trigger", "key", key)
		return
	}

	if p, ok := s.pending[key]; ok {
		p.timer.Stop()
		p.triggers = append(p.triggers, trig)
		p.timer = time.AfterFunc(s.delay, func() { s.fire(key, employeeID, year, month) })
		s.logger.Debug("recompute rescheduled", "key", key, "trigger_count", len(p.triggers))
		return
	}

	p := &pending{
		triggers:   []payroll.SyncTrigger{trig},
		employeeID: employeeID,
		year:       year,
		month:      month,
	}
	p.timer = time.AfterFunc(s.delay, func() { s.fire(key, employeeID, year, month) })
	s.pending[key] = p
	s.logger.Debug("recompute scheduled", "key", key, "delay", s.delay)
}

// fire removes the pending entry and runs the recompute with the accumulated
// triggers. Failures are logged; the scheduler never retries.
func (s *Scheduler) fire(key, employeeID string, year int, month time.Month) {
	s.mu.Lock()
	p, ok := s.pending[key]
	if !ok {
		s.mu.Unlock()
		return
	}
	delete(s.pending, key)
	triggers := p.triggers
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	result, err := s.recomputer.Recompute(ctx, employeeID, year, month, triggers, false)
	if err != nil {
		s.logger.Error("scheduled payroll recompute failed",
			"key", key, "trigger_count", len(triggers), "error", err)
		return
	}

	s.logger.Info("scheduled payroll recompute finished",
		"key", key, "trigger_count", len(triggers),
		"status", result.Status, "reason", result.Reason)
}

// PendingCount returns the number of keys with an armed timer.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Flush fires every pending key immediately. Useful in tests.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	type entry struct {
		key string
		p   *pending
	}
	entries := make([]entry, 0, len(s.pending))
	for key, p := range s.pending {
		p.timer.Stop()
		entries = append(entries, entry{key: key, p: p})
	}
	s.mu.Unlock()

	for _, e := range entries {
		s.fire(e.key, e.p.employeeID, e.p.year, e.p.month)
	}
}

// Stop cancels all pending timers and waits for in-flight recomputes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for key, p := range s.pending {
		p.timer.Stop()
		delete(s.pending, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info("recompute scheduler stopped")
}
