package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/cinesearch/internal/query"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Refresher revalidates the queries currently on screen
type Refresher interface {
	RefreshReferenced(reason string) int
}

// Scheduler manages the background refresh of observed queries
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	monitor   *Monitor
	interval  time.Duration
	logger    *logrus.Logger
	cancel    context.CancelFunc
}

// NewScheduler creates a new scheduler. monitor may be nil to disable
// reconnect detection.
func NewScheduler(refresher Refresher, monitor *Monitor, interval time.Duration, logger *logrus.Logger) *Scheduler {
	s := &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		monitor:   monitor,
		interval:  interval,
		logger:    logger,
	}
	if monitor != nil {
		monitor.onReconnect = s.runReconnectRefresh
	}
	return s
}

// Start starts the scheduler
func (s *Scheduler) Start(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", s.interval)
	}

	s.logger.WithField("interval", s.interval).Info("Starting scheduler")

	// Every refresh interval: revalidate the queries being observed
	_, err := s.cron.AddFunc(refreshSchedule(s.interval), func() {
		s.runRefresh()
	})
	if err != nil {
		return fmt.Errorf("failed to add refresh job: %w", err)
	}

	s.cron.Start()

	if s.monitor != nil {
		monitorCtx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		go s.monitor.Run(monitorCtx)
	}

	s.logger.Info("Scheduler started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	if s.cancel != nil {
		s.cancel()
	}
	<-s.cron.Stop().Done()
}

// refreshSchedule turns an interval into a cron schedule. Intervals below one
// second are rounded up by cron.
func refreshSchedule(interval time.Duration) string {
	return "@every " + interval.String()
}

// runRefresh executes the interval refresh job
func (s *Scheduler) runRefresh() {
	n := s.refresher.RefreshReferenced(query.ReasonInterval)
	s.logger.WithField("queries", n).Debug("Interval refresh completed")
}

// runReconnectRefresh executes the refresh after connectivity returns
func (s *Scheduler) runReconnectRefresh() {
	n := s.refresher.RefreshReferenced(query.ReasonReconnect)
	s.logger.WithField("queries", n).Info("Refreshed queries after reconnect")
}
