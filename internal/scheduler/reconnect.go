package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Prober checks whether the upstream answers
type Prober interface {
	Ping(ctx context.Context) error
}

// Monitor probes the upstream and reports offline to online transitions
type Monitor struct {
	prober       Prober
	interval     time.Duration
	retryInitial time.Duration
	onReconnect  func()
	logger       *logrus.Logger

	mu     sync.Mutex
	online bool
}

// NewMonitor creates a monitor that probes every interval while online
// and backs off exponentially, capped at interval, while offline.
func NewMonitor(prober Prober, interval time.Duration, logger *logrus.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	retry := time.Second
	if interval < retry {
		retry = interval
	}

	return &Monitor{
		prober:       prober,
		interval:     interval,
		retryInitial: retry,
		onReconnect:  func() {},
		logger:       logger,
		online:       true,
	}
}

// Online reports the result of the last probe
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

func (m *Monitor) setOnline(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.online = online
}

// Run probes until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.prober.Ping(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}

			m.setOnline(false)
			m.logger.WithError(err).Warn("Upstream unreachable, waiting for it to come back")

			if err := m.waitOnline(ctx); err != nil {
				return
			}

			m.setOnline(true)
			m.logger.Info("Upstream reachable again")
			m.onReconnect()
			ticker.Reset(m.interval)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// waitOnline retries the probe with exponential backoff until it succeeds
func (m *Monitor) waitOnline(ctx context.Context) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = m.retryInitial
	b.MaxInterval = m.interval
	b.MaxElapsedTime = 0

	return backoff.RetryNotify(func() error {
		return m.prober.Ping(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		m.logger.WithError(err).WithField("retry_in", next).Debug("Upstream probe failed")
	})
}
